// pkg/rules/evaluator.go
package rules

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/David-Botos/dq-validation/pkg/model"
	"github.com/David-Botos/dq-validation/pkg/recorder"
)

// Failure is a rule that could not be evaluated
type Failure struct {
	Rule RuleDef
	Err  error
}

// Error implements error
func (f Failure) Error() string {
	return fmt.Sprintf("%s.%s %s: %v", f.Rule.Table, f.Rule.Column(), f.Rule.Name, f.Err)
}

// Unwrap returns the underlying cause
func (f Failure) Unwrap() error {
	return f.Err
}

// Evaluator runs catalog rules against a run's datasets and records outcomes
type Evaluator struct {
	rules    []RuleDef
	recorder *recorder.Recorder
	logger   *zap.Logger
}

// NewEvaluator creates an evaluator over the given rules
func NewEvaluator(rules []RuleDef, rec *recorder.Recorder, logger *zap.Logger) *Evaluator {
	return &Evaluator{
		rules:    rules,
		recorder: rec,
		logger:   logger.Named("evaluator"),
	}
}

// EvaluateAll runs every group in order and returns the rules that failed to evaluate
func (e *Evaluator) EvaluateAll(ds model.Datasets) []Failure {
	var failures []Failure
	for _, g := range Groups {
		failures = append(failures, e.EvaluateGroup(ds, g)...)
	}
	return failures
}

// EvaluateGroup runs the rules of one group. A rule that errors is logged and
// skipped; the remaining rules still run.
func (e *Evaluator) EvaluateGroup(ds model.Datasets, g Group) []Failure {
	rules := ByGroup(e.rules, g)
	e.logger.Info("Validating pillar", zap.String("pillar", g.Name), zap.Int("rules", len(rules)))

	var failures []Failure
	for _, rule := range rules {
		out, err := evaluate(ds, rule)
		if err != nil {
			e.logger.Warn("Rule skipped",
				zap.String("pillar", rule.Pillar.String()),
				zap.String("table", rule.Table),
				zap.String("column", rule.Column()),
				zap.String("rule", rule.Name),
				zap.Error(err))
			failures = append(failures, Failure{Rule: rule, Err: err})
			continue
		}

		m := e.recorder.Record(rule.Table, rule.Column(), rule.Pillar, rule.Name, out.Passed, out.Failed, "")
		e.logger.Debug("Rule evaluated",
			zap.String("table", m.TableName),
			zap.String("rule", m.RuleName),
			zap.Int64("passed", m.ChecksPassed),
			zap.Int64("failed", m.ChecksFailed),
			zap.Float64("success_rate", m.SuccessRate))
	}
	return failures
}

// evaluate runs one check, converting a panic into an error scoped to the rule
func evaluate(ds model.Datasets, rule RuleDef) (out Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("rule panicked: %v", r)
		}
	}()
	return rule.Check(ds)
}
