// pkg/report/html.go
package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/David-Botos/dq-validation/pkg/model"
)

// HTMLFileName is the report written under the run's docs directory
const HTMLFileName = "rapport_validation_qualite.html"

//go:embed templates/report.html
var templateFS embed.FS

var counts = message.NewPrinter(language.English)

var reportTemplate = template.Must(
	template.New("report.html").
		Funcs(template.FuncMap{
			"pct":   FormatPercent,
			"count": FormatCount,
		}).
		ParseFS(templateFS, "templates/report.html"),
)

// FormatCount renders an integer with thousands separators, e.g. 12,345
func FormatCount(n int64) string {
	return counts.Sprintf("%d", n)
}

type htmlData struct {
	Summary     Summary
	GeneratedAt string
	RunID       string
}

// RenderHTML writes the HTML report of summary to w
func RenderHTML(w io.Writer, summary Summary, rc *model.RunContext) error {
	data := htmlData{
		Summary:     summary,
		GeneratedAt: rc.RunDate(),
		RunID:       rc.RunID.String(),
	}
	if err := reportTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render html report: %w", err)
	}
	return nil
}

// WriteHTMLFile renders the report into the run's docs directory and returns its path
func WriteHTMLFile(summary Summary, rc *model.RunContext) (string, error) {
	dir := rc.DocsDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	path := filepath.Join(dir, HTMLFileName)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create html report: %w", err)
	}
	if err := RenderHTML(f, summary, rc); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}
