// pkg/report/console.go
package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Locations lists where a run wrote its outputs
type Locations struct {
	ReportsDir  string
	ResultsDir  string
	HTMLReport  string
	HistoryCSVs []string
	Dashboards  []string
}

// PrintSummary writes the end-of-run summary: per-pillar rates, totals and output locations
func PrintSummary(w io.Writer, s Summary, loc Locations) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle("Validation qualité")

	t.AppendHeader(table.Row{"Pilier", "Réussies", "Échouées", "Taux", "Niveau"})
	for _, p := range s.Pillars {
		t.AppendRow(table.Row{p.Pillar, FormatCount(p.Passed), FormatCount(p.Failed), FormatPercent(p.Rate), p.Band})
	}
	t.AppendFooter(table.Row{"Total", FormatCount(s.Passed), FormatCount(s.Failed), FormatPercent(s.GlobalRate), s.GlobalBand()})
	t.Render()

	_, _ = fmt.Fprintf(w, "Total vérifications : %s\n", FormatCount(s.TotalChecks))
	_, _ = fmt.Fprintf(w, "Taux de succès global : %s\n", FormatPercent(s.GlobalRate))
	_, _ = fmt.Fprintf(w, "Rapports générés dans : %s\n", loc.ReportsDir)
	_, _ = fmt.Fprintf(w, "Historique sauvegardé dans : %s\n", loc.ResultsDir)
	for _, p := range loc.HistoryCSVs {
		_, _ = fmt.Fprintf(w, "  -> %s\n", p)
	}
	for _, p := range loc.Dashboards {
		_, _ = fmt.Fprintf(w, "  -> %s\n", p)
	}
	if loc.HTMLReport != "" {
		_, _ = fmt.Fprintf(w, "Rapport HTML : %s\n", loc.HTMLReport)
	}
}
