package statusreport

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Afrawles/statusreport/internal/config"
	"github.com/Afrawles/statusreport/internal/jira"
	"github.com/Afrawles/statusreport/internal/report"
)

type Application struct {
	Config    *config.Config
	Logger    *zap.Logger
	Generator *report.Generator
	Exporter  *report.Exporter
	Excel     *report.ExcelExporter
	CSV       *report.CSVExporter
	Now       func() time.Time
}

// New wires an application around an already constructed source.
func New(cfg *config.Config, source report.WorkItemSource, logger *zap.Logger) *Application {
	if logger == nil {
		logger = zap.NewNop()
	}

	builder := report.NewBuilder(cfg.Organization, cfg.DoneSet(), report.NewSVGChart("Project Timeline"))

	return &Application{
		Config:    cfg,
		Logger:    logger,
		Generator: report.NewGenerator(source, builder, logger),
		Exporter:  report.NewExporter(cfg.Output.Directory),
		Excel:     report.NewExcelExporter(cfg.Output.Directory),
		CSV:       report.NewCSVExporter(cfg.Output.Directory),
		Now:       time.Now,
	}
}

// NewWithJira validates the credentials and connects the Jira source.
func NewWithJira(cfg *config.Config, logger *zap.Logger) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := jira.NewClient(cfg.Jira.URL, cfg.Jira.Email, cfg.Jira.APIToken, cfg.Jira.RequestsPerSecond, logger)
	if err != nil {
		return nil, err
	}

	source := jira.NewSource(client, cfg.StartDateField)
	if logger != nil {
		logger.Info("jira source initialized", zap.String("url", cfg.Jira.URL), zap.String("start_date_field", source.StartDateField))
	}
	return New(cfg, source, logger), nil
}

func (app *Application) Check(ctx context.Context) (string, error) {
	return app.Generator.Check(ctx)
}

// BuildReport fetches and assembles one report context without writing files.
func (app *Application) BuildReport(ctx context.Context, projectKey, reportType string) (*report.ReportContext, error) {
	rt, err := report.ParseReportType(reportType)
	if err != nil {
		return nil, err
	}

	project, err := app.Config.Project(projectKey)
	if err != nil {
		return nil, err
	}

	return app.Generator.Generate(ctx, rt, project, app.Now())
}

// GenerateReport builds a report and writes it in every configured format.
// It returns the written file names.
func (app *Application) GenerateReport(ctx context.Context, projectKey, reportType string) ([]string, error) {
	app.Logger.Info("generating report",
		zap.String("project", projectKey),
		zap.String("type", reportType),
	)

	rc, err := app.BuildReport(ctx, projectKey, reportType)
	if err != nil {
		app.Logger.Error("failed to build report", zap.Error(err))
		return nil, err
	}

	if err := os.MkdirAll(app.Config.Output.Directory, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	now := rc.GeneratedAt
	kind := string(rc.ReportType)
	var written []string

	for _, format := range app.Config.Output.Formats {
		filename := report.FileName(rc.ProjectKey, kind, now, format)

		var err error
		switch format {
		case "html":
			err = app.Exporter.ExportHTML(rc, filename)
		case "json":
			err = app.Exporter.ExportJSON(rc, filename)
		case "md":
			err = app.Exporter.ExportMarkdown(rc, filename)
		case "xlsx":
			err = app.Excel.Export(rc, filename)
		case "csv":
			err = app.CSV.Export(rc, filename)
		default:
			app.Logger.Warn("unsupported output format", zap.String("format", format))
			continue
		}
		if err != nil {
			app.Logger.Error("failed to export report", zap.String("format", format), zap.Error(err))
			return written, &report.UpstreamError{Source: "renderer", Op: "export " + format, Err: err}
		}

		app.Logger.Info("report exported", zap.String("format", format), zap.String("file", filename))
		written = append(written, filename)
	}

	app.logSummary(rc)
	return written, nil
}

// GenerateEpicReport writes the epic progress report as HTML, Markdown and JSON.
func (app *Application) GenerateEpicReport(ctx context.Context, projectKey string) ([]string, error) {
	project, err := app.Config.Project(projectKey)
	if err != nil {
		return nil, err
	}

	now := app.Now()
	rep, err := app.Generator.Epics(ctx, project, now)
	if err != nil {
		app.Logger.Error("failed to build epic report", zap.Error(err))
		return nil, err
	}

	if err := os.MkdirAll(app.Config.Output.Directory, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	htmlFile := report.FileName(project.Key, "epics", now, "html")
	if err := app.Exporter.ExportEpicsHTML(rep, htmlFile); err != nil {
		return nil, &report.UpstreamError{Source: "renderer", Op: "export html", Err: err}
	}
	mdFile := report.FileName(project.Key, "epics", now, "md")
	if err := app.Exporter.ExportEpicsMarkdown(rep, mdFile); err != nil {
		return []string{htmlFile}, &report.UpstreamError{Source: "renderer", Op: "export md", Err: err}
	}
	jsonFile := report.FileName(project.Key, "epics", now, "json")
	if err := app.Exporter.ExportJSON(rep, jsonFile); err != nil {
		return []string{htmlFile, mdFile}, &report.UpstreamError{Source: "renderer", Op: "export json", Err: err}
	}

	app.Logger.Info("epic report generation complete",
		zap.String("project", project.Key),
		zap.Int("epics", len(rep.Epics)),
	)
	return []string{htmlFile, mdFile, jsonFile}, nil
}

func (app *Application) logSummary(rc *report.ReportContext) {
	fields := []zap.Field{
		zap.String("project", rc.ProjectKey),
		zap.String("type", string(rc.ReportType)),
	}
	switch {
	case rc.Kickoff != nil:
		fields = append(fields, zap.Int("activities", len(rc.Kickoff.Activities)))
	case rc.Progress != nil:
		fields = append(fields,
			zap.Float64("percentage", rc.Progress.Percentage),
			zap.Int("critical", len(rc.Progress.CriticalPath)),
			zap.Int("pending", len(rc.Progress.Pending)),
		)
	case rc.Final != nil:
		fields = append(fields, zap.Int("cameras", len(rc.Final.Cameras)))
	}
	app.Logger.Info("report generation complete", fields...)
}
