// cmd/dqvalidate/rules.go
package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/David-Botos/dq-validation/pkg/model"
	"github.com/David-Botos/dq-validation/pkg/rules"
)

func newRulesCmd(stdout io.Writer) *cobra.Command {
	var pillar string
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the rule catalog in evaluation order",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			rc := model.NewRunContext(time.Now(), "", "", "")
			catalog := rules.Catalog(rc)
			if pillar != "" {
				p, err := parsePillar(pillar)
				if err != nil {
					return err
				}
				catalog = rules.ByPillar(catalog, p)
			}
			printCatalog(stdout, catalog)
			return nil
		},
	}
	cmd.Flags().StringVar(&pillar, "pillar", "", "only list rules of this pillar, e.g. COMPLÉTUDE")
	return cmd
}

// parsePillar matches a pillar label case-insensitively
func parsePillar(s string) (model.Pillar, error) {
	for _, p := range model.Pillars {
		if strings.EqualFold(p.String(), strings.TrimSpace(s)) {
			return p, nil
		}
	}
	labels := make([]string, len(model.Pillars))
	for i, p := range model.Pillars {
		labels[i] = p.String()
	}
	return "", fmt.Errorf("unknown pillar %q (expected one of %s)", s, strings.Join(labels, ", "))
}

func printCatalog(w io.Writer, catalog []rules.RuleDef) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"#", "Pilier", "Table", "Colonne", "Règle", "Tables lues"})
	for i, r := range catalog {
		t.AppendRow(table.Row{i + 1, r.Pillar, r.Table, r.Column(), r.Name, strings.Join(r.Tables, ", ")})
	}
	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rules)\n", len(catalog))
}
