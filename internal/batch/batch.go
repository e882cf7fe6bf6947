// Package batch applies the classification engine across a dataset under the
// overwrite policy and aggregates the run summary. Rows are independent, so
// the runner can fan out over a bounded worker pool; every aggregate it
// reports is order-independent.
package batch

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"halalcheck/internal/classify"
	"halalcheck/internal/dataset"
)

// Dataset column names the runner reads and writes.
const (
	ColumnMaterialName = "material_name"
	ColumnStatus       = "halal_status"
	ColumnReason       = "reason"
)

// NullBucket is the summary bucket for rows whose status stays missing.
const NullBucket = "(null)"

// Options controls one batch run.
type Options struct {
	// Overwrite makes every row eligible, replacing existing statuses.
	Overwrite bool
	// Workers bounds the classification worker pool. Values below 1 mean
	// sequential processing.
	Workers int
}

// Summary is the aggregate report of one run.
type Summary struct {
	// RunID identifies this run in logs.
	RunID string
	// Rows is the total row count of the dataset.
	Rows int
	// Updated counts rows whose status/reason fields were recomputed.
	Updated int
	// StatusCounts is the frequency table over final status values, with
	// missing statuses grouped under NullBucket.
	StatusCounts map[string]int
}

// ShouldUpdate reports whether a row with the given existing status is
// eligible for (re)classification. With overwrite set every row is eligible;
// otherwise only rows whose status is missing, empty, or whitespace-only.
func ShouldUpdate(existingStatus string, overwrite bool) bool {
	if overwrite {
		return true
	}
	return strings.TrimSpace(existingStatus) == ""
}

// Run classifies every eligible row of tbl in place and returns the run
// summary. The material_name column is mandatory; halal_status and reason
// columns are created when absent. A missing or empty material name is never
// an error: it normalizes to empty text and stays unknown.
func Run(ctx context.Context, tbl *dataset.Table, engine *classify.Engine, opts Options, logger *zap.Logger) (*Summary, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	nameCol, ok := tbl.Column(ColumnMaterialName)
	if !ok {
		return nil, fmt.Errorf("input dataset: required column %q is missing", ColumnMaterialName)
	}
	statusCol := tbl.EnsureColumn(ColumnStatus)
	reasonCol := tbl.EnsureColumn(ColumnReason)

	runID := uuid.NewString()
	logger.Debug("starting classification run",
		zap.String("run_id", runID),
		zap.Int("rows", tbl.Len()),
		zap.Bool("overwrite", opts.Overwrite),
		zap.Int("workers", opts.Workers),
	)

	var updated atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	g.SetLimit(workers)

	for i := range tbl.Rows {
		row := tbl.Rows[i]
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			if !ShouldUpdate(row[statusCol], opts.Overwrite) {
				return nil
			}

			// Each row is written by exactly one task, so no locking.
			result, matched := engine.Classify(row[nameCol])
			if matched {
				row[statusCol] = result.Status
				row[reasonCol] = result.Reason
			} else {
				row[statusCol] = ""
				row[reasonCol] = ""
			}
			updated.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("classification run: %w", err)
	}

	summary := &Summary{
		RunID:        runID,
		Rows:         tbl.Len(),
		Updated:      int(updated.Load()),
		StatusCounts: make(map[string]int),
	}
	// Counting over the final row state keeps the tally independent of the
	// order workers finished in.
	for _, row := range tbl.Rows {
		status := row[statusCol]
		if status == "" {
			status = NullBucket
		}
		summary.StatusCounts[status]++
	}

	logger.Info("classification run complete",
		zap.String("run_id", runID),
		zap.Int("rows", summary.Rows),
		zap.Int("updated", summary.Updated),
		zap.Any("status_counts", summary.StatusCounts),
	)
	return summary, nil
}

// Print writes the human-readable summary report. Buckets are ordered by
// count descending, ties by label, so output is stable across runs.
func (s *Summary) Print(w io.Writer) {
	fmt.Fprintln(w, "[Summary]")
	fmt.Fprintf(w, "rows: %d\n", s.Rows)
	fmt.Fprintf(w, "updated: %d\n", s.Updated)
	fmt.Fprintln(w, "status_counts:")

	labels := make([]string, 0, len(s.StatusCounts))
	for label := range s.StatusCounts {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if s.StatusCounts[labels[i]] != s.StatusCounts[labels[j]] {
			return s.StatusCounts[labels[i]] > s.StatusCounts[labels[j]]
		}
		return labels[i] < labels[j]
	})
	for _, label := range labels {
		fmt.Fprintf(w, "  - %s: %d\n", label, s.StatusCounts[label])
	}
}
