package report

import (
	"fmt"
	"os"
	"strings"
	"text/template"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var markdownTemplates = template.Must(template.New("markdown").Funcs(template.FuncMap{
	"title": cases.Title(language.English).String,
	"date":  func(t time.Time) string { return t.Format(DateLayout) },
	"pct":   func(v float64) string { return fmt.Sprintf("%.1f", v) },
	"cell":  markdownCell,
}).ParseFS(templateFS, "templates/markdown.tmpl"))

// markdownCell keeps a value on one table row.
func markdownCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}

// ExportMarkdown writes ctx as a Markdown document. Charts are left out.
func (e *Exporter) ExportMarkdown(ctx *ReportContext, filename string) error {
	return e.renderMarkdown(string(ctx.ReportType)+".md", ctx, filename)
}

func (e *Exporter) ExportEpicsMarkdown(rep *EpicReport, filename string) error {
	return e.renderMarkdown("epics.md", rep, filename)
}

func (e *Exporter) renderMarkdown(name string, data any, filename string) error {
	f, err := os.Create(e.path(filename))
	if err != nil {
		return fmt.Errorf("failed to create Markdown file: %w", err)
	}
	defer f.Close()

	if err := markdownTemplates.ExecuteTemplate(f, name, data); err != nil {
		return fmt.Errorf("failed to render Markdown: %w", err)
	}
	return nil
}
