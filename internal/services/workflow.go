package services

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/harentsoaR/tienda-ropa/internal/pipelines"
	"github.com/harentsoaR/tienda-ropa/internal/platform/logger"
	"github.com/harentsoaR/tienda-ropa/internal/store"
)

// Connector opens the store the workflow runs against.
type Connector func(ctx context.Context) (*store.Store, error)

// CacheInvalidator drops cached report results after the data changed.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

type Workflow struct {
	connect Connector
	out     io.Writer
	log     *logger.Logger
	cache   CacheInvalidator
}

// NewWorkflow builds the seed-mutate-report run. cache may be nil.
func NewWorkflow(connect Connector, out io.Writer, log *logger.Logger, cache CacheInvalidator) *Workflow {
	return &Workflow{connect: connect, out: out, log: log, cache: cache}
}

// Run connects, seeds, mutates and prints the four reports. Whatever happens,
// the connection is closed once and "connection closed" is logged once,
// after which nothing touches the store.
func (w *Workflow) Run(ctx context.Context) (err error) {
	log := w.log.With("run_id", uuid.NewString())

	var st *store.Store
	defer func() {
		if st != nil {
			if cerr := st.Close(context.Background()); cerr != nil {
				log.Warn("disconnect failed", "error", cerr)
			}
		}
		log.Info("connection closed")
	}()

	st, err = w.connect(ctx)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	log.Info("connected to MongoDB")

	seeded, err := NewSeeder(st, log).Seed(ctx)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	if err := NewMutator(st, log).Apply(ctx, seeded); err != nil {
		return fmt.Errorf("mutate: %w", err)
	}

	if w.cache != nil {
		if err := w.cache.Invalidate(ctx); err != nil {
			log.Warn("report cache not invalidated", "error", err)
		}
	}

	if err := NewReporter(st.Sales, w.out, log).PrintAll(ctx, pipelines.Catalog()); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return nil
}
