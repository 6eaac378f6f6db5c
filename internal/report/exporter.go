package report

import (
	"embed"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed "templates"
var templateFS embed.FS

type Exporter struct {
	OutputDir string
}

func NewExporter(outputDir string) *Exporter {
	return &Exporter{OutputDir: outputDir}
}

// FileName is <KEY>_<kind>_<YYYYMMDD>.<ext>.
func FileName(projectKey, kind string, now time.Time, ext string) string {
	return fmt.Sprintf("%s_%s_%s.%s", projectKey, kind, now.Format("20060102"), ext)
}

func (e *Exporter) path(filename string) string {
	return filepath.Join(e.OutputDir, filename)
}

func (e *Exporter) ExportJSON(v any, filename string) error {
	data, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	if err := os.WriteFile(e.path(filename), data, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}
	return nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"title": cases.Title(language.English).String,
		"upper": strings.ToUpper,
		"date":  func(t time.Time) string { return t.Format(DateLayout) },
		"pct":   func(v float64) string { return fmt.Sprintf("%.1f", v) },
		"dataURI": func(contentType string, data []byte) template.URL {
			return template.URL("data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data))
		},
	}
}

func parseTemplate(name string) (*template.Template, error) {
	tmpl, err := template.New(name).Funcs(templateFuncs()).ParseFS(templateFS, "templates/layout.tmpl", "templates/"+name)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML template: %w", err)
	}
	return tmpl, nil
}

// ExportHTML renders ctx with the template for its report type.
func (e *Exporter) ExportHTML(ctx *ReportContext, filename string) error {
	tmpl, err := parseTemplate(string(ctx.ReportType) + ".tmpl")
	if err != nil {
		return err
	}
	return e.render(tmpl, ctx, filename)
}

func (e *Exporter) ExportEpicsHTML(rep *EpicReport, filename string) error {
	tmpl, err := parseTemplate("epics.tmpl")
	if err != nil {
		return err
	}
	return e.render(tmpl, rep, filename)
}

func (e *Exporter) render(tmpl *template.Template, data any, filename string) error {
	f, err := os.Create(e.path(filename))
	if err != nil {
		return fmt.Errorf("failed to create HTML file: %w", err)
	}
	defer f.Close()

	if err := tmpl.ExecuteTemplate(f, "layout", data); err != nil {
		return fmt.Errorf("failed to render HTML: %w", err)
	}
	return nil
}
