// pkg/rules/catalog.go
package rules

import (
	"github.com/David-Botos/dq-validation/pkg/model"
)

// Group is a set of pillars evaluated together by one pass of the evaluator
type Group struct {
	Name    string
	Pillars []model.Pillar
}

// Groups lists the evaluation passes in run order
var Groups = []Group{
	{Name: "COMPLÉTUDE", Pillars: []model.Pillar{model.PillarCompleteness}},
	{Name: "EXACTITUDE", Pillars: []model.Pillar{model.PillarAccuracy}},
	{Name: "VALIDITÉ", Pillars: []model.Pillar{model.PillarValidity}},
	{Name: "COHÉRENCE", Pillars: []model.Pillar{model.PillarConsistency}},
	{Name: "UNICITÉ & ACTUALITÉ", Pillars: []model.Pillar{model.PillarUniqueness, model.PillarTimeliness}},
}

// Includes reports whether the group evaluates the pillar
func (g Group) Includes(p model.Pillar) bool {
	for _, gp := range g.Pillars {
		if gp == p {
			return true
		}
	}
	return false
}

// Catalog returns every rule in evaluation order. Thresholds that depend on
// the run (reference year, timeliness epoch) are taken from rc.
func Catalog(rc *model.RunContext) []RuleDef {
	var rules []RuleDef
	rules = append(rules, completenessRules()...)
	rules = append(rules, accuracyRules()...)
	rules = append(rules, validityRules()...)
	rules = append(rules, consistencyRules(rc)...)
	rules = append(rules, uniquenessRules()...)
	rules = append(rules, timelinessRules(rc)...)
	return rules
}

// ByPillar filters rules to one pillar, preserving order
func ByPillar(rules []RuleDef, p model.Pillar) []RuleDef {
	var out []RuleDef
	for _, r := range rules {
		if r.Pillar == p {
			out = append(out, r)
		}
	}
	return out
}

// ByGroup filters rules to the pillars of one group, preserving order
func ByGroup(rules []RuleDef, g Group) []RuleDef {
	var out []RuleDef
	for _, r := range rules {
		if g.Includes(r.Pillar) {
			out = append(out, r)
		}
	}
	return out
}
