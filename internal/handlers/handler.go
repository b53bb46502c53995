package handlers

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/harentsoaR/tienda-ropa/internal/pipelines"
	"github.com/harentsoaR/tienda-ropa/internal/platform/logger"
)

// ReportRunner executes one report against the sales collection.
type ReportRunner interface {
	Run(ctx context.Context, report pipelines.Report) ([]bson.M, error)
}

// ReportCache keeps encoded report responses. Errors are logged and treated
// as misses.
type ReportCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, payload []byte) error
}

type Handler struct {
	Reports ReportRunner
	Cache   ReportCache // nil disables caching
	Ping    func(ctx context.Context) error
	Log     *logger.Logger
}

func NewHandler(reports ReportRunner, cache ReportCache, ping func(ctx context.Context) error, log *logger.Logger) *Handler {
	return &Handler{
		Reports: reports,
		Cache:   cache,
		Ping:    ping,
		Log:     log,
	}
}
