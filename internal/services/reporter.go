package services

import (
	"context"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/harentsoaR/tienda-ropa/internal/pipelines"
	"github.com/harentsoaR/tienda-ropa/internal/platform/logger"
	"github.com/harentsoaR/tienda-ropa/internal/store"
)

type Reporter struct {
	sales store.Collection
	out   io.Writer
	log   *logger.Logger
}

// NewReporter runs reports against sales and prints them to out.
func NewReporter(sales store.Collection, out io.Writer, log *logger.Logger) *Reporter {
	return &Reporter{sales: sales, out: out, log: log}
}

// Run executes the report and returns every row.
func (r *Reporter) Run(ctx context.Context, report pipelines.Report) ([]bson.M, error) {
	rows, err := store.Aggregate(ctx, r.sales, report.Pipeline)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", report.Name, err)
	}
	r.log.Debug("report executed", "report", report.Name, "rows", len(rows))
	return rows, nil
}

// Print writes the report title followed by its rows as relaxed extended JSON.
func (r *Reporter) Print(ctx context.Context, report pipelines.Report) error {
	fmt.Fprintln(r.out, report.Title)
	rows, err := r.Run(ctx, report)
	if err != nil {
		return err
	}
	fmt.Fprintln(r.out, "[")
	for _, row := range rows {
		b, err := bson.MarshalExtJSONIndent(row, false, false, "  ", "  ")
		if err != nil {
			return fmt.Errorf("%s: format row: %w", report.Name, err)
		}
		fmt.Fprintf(r.out, "  %s\n", b)
	}
	fmt.Fprintln(r.out, "]")
	return nil
}

// PrintAll prints the reports in order and stops at the first failure.
func (r *Reporter) PrintAll(ctx context.Context, reports []pipelines.Report) error {
	for _, report := range reports {
		if err := r.Print(ctx, report); err != nil {
			return err
		}
	}
	return nil
}
