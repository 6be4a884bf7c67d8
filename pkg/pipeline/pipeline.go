// pkg/pipeline/pipeline.go
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/David-Botos/dq-validation/pkg/config"
	"github.com/David-Botos/dq-validation/pkg/connector"
	"github.com/David-Botos/dq-validation/pkg/history"
	"github.com/David-Botos/dq-validation/pkg/loader"
	"github.com/David-Botos/dq-validation/pkg/model"
	"github.com/David-Botos/dq-validation/pkg/recorder"
	"github.com/David-Botos/dq-validation/pkg/report"
	"github.com/David-Botos/dq-validation/pkg/rules"
)

// Exit codes returned by ExitCode
const (
	ExitOK      = 0
	ExitFatal   = 1
	ExitPartial = 2
)

// Opener connects to a database
type Opener func(ctx context.Context) (connector.DatabaseConnector, error)

// Pipeline runs one validation: load, evaluate, record, merge history, report
type Pipeline struct {
	cfg         *config.Config
	logger      *zap.Logger
	openSource  Opener
	openHistory Opener
	now         func() time.Time
	out         io.Writer
}

// Option customizes a Pipeline
type Option func(*Pipeline)

// WithSourceOpener replaces the connector used to read the datasets
func WithSourceOpener(open Opener) Option {
	return func(p *Pipeline) { p.openSource = open }
}

// WithHistoryOpener replaces the connector used by the history table sink
func WithHistoryOpener(open Opener) Option {
	return func(p *Pipeline) { p.openHistory = open }
}

// WithClock sets the run timestamp source
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// WithOutput sets where the run summary is printed
func WithOutput(w io.Writer) Option {
	return func(p *Pipeline) { p.out = w }
}

// New creates a pipeline. By default connectors come from the connector factory,
// the clock is time.Now and the summary goes to stdout.
func New(cfg *config.Config, logger *zap.Logger, opts ...Option) *Pipeline {
	factory := connector.NewConnectorFactory(cfg, logger)
	p := &Pipeline{
		cfg:        cfg,
		logger:     logger,
		openSource: factory.CreateSourceConnector,
		openHistory: func(ctx context.Context) (connector.DatabaseConnector, error) {
			return factory.CreatePostgresConnector(ctx)
		},
		now: time.Now,
		out: os.Stdout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Result is what a completed run produced
type Result struct {
	RunContext *model.RunContext
	Metrics    model.MetricsTable
	History    model.MetricsTable
	Summary    report.Summary
	Run        *RunMetrics
	Locations  report.Locations
}

// Run executes one validation run. Only a connection failure or an output
// write failure aborts it; tables and rules that fail are skipped and counted
// in Result.Run.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	rc := model.NewRunContext(p.now(), p.cfg.ResultsDir, p.cfg.ReportsDir, p.cfg.DataDir)
	rc.TimelinessEpoch = p.cfg.TimelinessEpoch
	run := NewRunMetrics(p.logger)

	p.logger.Info("Starting validation run",
		zap.String("run_id", rc.RunID.String()),
		zap.String("run_date", rc.RunDate()),
		zap.String("source", p.cfg.SourceType))

	src, err := p.openSource(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnection, err)
	}
	defer func() {
		if err := src.Close(); err != nil {
			p.logger.Warn("Failed to close source connection", zap.Error(err))
		}
	}()
	p.logger.Info("Connected to data source", zap.String("source", src.Name()))

	datasets, loadFailures := loader.NewLoader(src.DB(), p.cfg.SourceType, p.cfg.QueryTimeout, p.logger).LoadAll(ctx, p.cfg.Tables)
	for alias, ds := range datasets {
		run.RecordTableLoaded(alias, ds.Len())
	}
	for alias, err := range loadFailures {
		run.RecordTableFailed(alias, err)
	}

	rec := recorder.New(rc)
	failures := rules.NewEvaluator(rules.Catalog(rc), rec, p.logger).EvaluateAll(datasets)
	for _, f := range failures {
		run.RecordRuleSkipped(f.Rule.Table, f.Rule.Column(), f.Rule.Name, f.Err)
	}
	run.RulesEvaluated = rec.Len()
	metrics := rec.Finalize()

	res := &Result{
		RunContext: rc,
		Metrics:    metrics,
		Run:        run,
		Locations: report.Locations{
			ReportsDir: rc.ReportsDir,
			ResultsDir: rc.ResultsDir,
		},
	}

	if err := p.writeOutputs(res); err != nil {
		return nil, err
	}
	p.appendHistoryTable(ctx, res)

	run.Complete()
	p.logger.Debug("Run metrics", zap.String("report", run.GenerateMetricsReport()))
	report.PrintSummary(p.out, res.Summary, res.Locations)
	return res, nil
}

// writeOutputs persists the merged history, the dashboard dataset and the HTML report
func (p *Pipeline) writeOutputs(res *Result) error {
	rc := res.RunContext

	prior, err := history.LoadPrior(history.NewFileStore(rc.ResultsDir), rc.Timestamp.Format(history.CorruptStampLayout), p.logger)
	if err != nil {
		return err
	}
	res.History = history.Merge(res.Metrics, prior)
	dashboard := report.Dashboard(res.Metrics)

	for _, dir := range rc.CSVDirs() {
		store := history.NewFileStore(dir)
		if err := store.Write(res.History); err != nil {
			return fmt.Errorf("failed to write history to %s: %w", dir, err)
		}
		res.Locations.HistoryCSVs = append(res.Locations.HistoryCSVs, store.Path())

		path, err := report.WriteDashboardFile(dir, dashboard)
		if err != nil {
			return fmt.Errorf("failed to write dashboard to %s: %w", dir, err)
		}
		res.Locations.Dashboards = append(res.Locations.Dashboards, path)
	}
	p.logger.Info("History saved",
		zap.Strings("paths", res.Locations.HistoryCSVs),
		zap.Int("records", len(res.History)))
	p.logger.Info("Dashboard dataset saved", zap.Strings("paths", res.Locations.Dashboards))

	res.Summary = report.Summarize(res.Metrics)
	path, err := report.WriteHTMLFile(res.Summary, rc)
	if err != nil {
		return err
	}
	res.Locations.HTMLReport = path
	p.logger.Info("HTML report saved", zap.String("path", path))
	return nil
}

// appendHistoryTable copies the run's metrics to the optional history table.
// Failures are logged and counted; they never abort the run.
func (p *Pipeline) appendHistoryTable(ctx context.Context, res *Result) {
	if p.cfg.HistoryTable == "" {
		return
	}

	fail := func(err error) {
		p.logger.Warn("History table not updated", zap.String("table", p.cfg.HistoryTable), zap.Error(err))
		res.Run.RecordError(NewErrorRecord(err, ErrorCategoryNonFatalIO).WithTable(p.cfg.HistoryTable))
	}

	conn, err := p.openHistory(ctx)
	if err != nil {
		fail(err)
		return
	}
	defer conn.Close()

	store, err := history.NewTableStore(ctx, conn.DB(), p.cfg.HistoryTable, p.logger)
	if err != nil {
		fail(err)
		return
	}
	if err := store.Append(ctx, res.RunContext.RunID, res.Metrics); err != nil {
		fail(err)
	}
}

// ExitCode maps a run outcome to a process exit status. Skipped tables and
// rules only change the status when strict is set.
func ExitCode(res *Result, err error, strict bool) int {
	if err != nil {
		return ExitFatal
	}
	if strict && res != nil && res.Run.Partial() {
		return ExitPartial
	}
	return ExitOK
}
