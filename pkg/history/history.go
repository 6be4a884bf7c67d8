// pkg/history/history.go
package history

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/David-Botos/dq-validation/pkg/model"
)

// FileName is the history log file written to every CSV output directory
const FileName = "validation_history.csv"

// Merge appends a run's metrics to the prior history. Prior rows come first;
// nothing is deduplicated, so re-running the same checks appends them again.
func Merge(newMetrics, prior model.MetricsTable) model.MetricsTable {
	merged := make(model.MetricsTable, 0, len(prior)+len(newMetrics))
	merged = append(merged, prior...)
	return append(merged, newMetrics...)
}

// CorruptStampLayout names set-aside history files, e.g. validation_history.csv.corrupt-20250520T093000
const CorruptStampLayout = "20060102T150405"

// LoadPrior reads the prior history from store. A missing or unreadable
// history is treated as empty. An unreadable file is first moved aside with
// stamp as suffix so the next write does not destroy it; failing to move it
// is the only error returned.
func LoadPrior(store *FileStore, stamp string, logger *zap.Logger) (model.MetricsTable, error) {
	prior, err := store.Read()
	switch {
	case err == nil:
		logger.Info("Loaded prior history",
			zap.String("path", store.Path()),
			zap.Int("records", len(prior)))
		return prior, nil
	case errors.Is(err, os.ErrNotExist):
		logger.Info("No prior history found", zap.String("path", store.Path()))
	default:
		moved, moveErr := store.SetAside(stamp)
		if moveErr != nil {
			return nil, fmt.Errorf("prior history unreadable (%v): %w", err, moveErr)
		}
		logger.Warn("Prior history unreadable, moved aside and starting a new log",
			zap.String("path", store.Path()),
			zap.String("moved_to", moved),
			zap.Error(err))
	}
	return model.MetricsTable{}, nil
}
