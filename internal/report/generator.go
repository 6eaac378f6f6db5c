package report

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Generator queries the source for what a report type needs and hands the
// result to the builder. Each call is a single attempt.
type Generator struct {
	Source  WorkItemSource
	Builder *Builder
	Logger  *zap.Logger
}

func NewGenerator(source WorkItemSource, builder *Builder, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{Source: source, Builder: builder, Logger: logger}
}

// Generate fetches the items for reportType and builds its context.
func (g *Generator) Generate(ctx context.Context, reportType ReportType, project Project, now time.Time) (*ReportContext, error) {
	if _, err := ParseReportType(string(reportType)); err != nil {
		return nil, err
	}

	items, err := g.Fetch(ctx, reportType, project.Key)
	if err != nil {
		return nil, err
	}

	g.Logger.Info("building report context",
		zap.String("project", project.Key),
		zap.String("type", string(reportType)),
		zap.Int("items", len(items)),
	)

	return g.Builder.Build(reportType, project, items, now)
}

// Fetch returns the work items a report type is built from, in report order.
// Progress reports get active items first, then resolved items most recently
// updated first.
func (g *Generator) Fetch(ctx context.Context, reportType ReportType, projectKey string) ([]WorkItem, error) {
	switch reportType {
	case ReportKickoff:
		return g.search(ctx, Query{ProjectKey: projectKey, OrderBy: OrderCreatedAsc})

	case ReportProgress:
		done := g.Builder.Done.Statuses()
		active, err := g.search(ctx, Query{
			ProjectKey:      projectKey,
			Statuses:        done,
			ExcludeStatuses: true,
			OrderBy:         OrderCreatedAsc,
		})
		if err != nil {
			return nil, err
		}
		resolved, err := g.search(ctx, Query{
			ProjectKey: projectKey,
			Statuses:   done,
			OrderBy:    OrderUpdatedDesc,
		})
		if err != nil {
			return nil, err
		}
		return append(active, resolved...), nil

	case ReportFinal:
		return nil, nil
	}

	return nil, &ConfigurationError{Key: "report_type", Reason: "unknown report type " + string(reportType)}
}

// Epics builds the epic progress report from the project's epics and the
// items linked to each of them.
func (g *Generator) Epics(ctx context.Context, project Project, now time.Time) (*EpicReport, error) {
	epics, err := g.search(ctx, Query{ProjectKey: project.Key, IssueType: "Epic", OrderBy: OrderCreatedAsc})
	if err != nil {
		return nil, err
	}

	children := make(map[string][]WorkItem, len(epics))
	for _, epic := range epics {
		kids, err := g.search(ctx, Query{EpicKey: epic.Key})
		if err != nil {
			return nil, err
		}
		children[epic.Key] = kids
	}

	g.Logger.Info("building epic report",
		zap.String("project", project.Key),
		zap.Int("epics", len(epics)),
	)

	return g.Builder.BuildEpicReport(project, epics, children, now)
}

// Check verifies the source is reachable and returns who it is connected as.
func (g *Generator) Check(ctx context.Context) (string, error) {
	who, err := g.Source.HealthCheck(ctx)
	if err != nil {
		return "", &UpstreamError{Source: g.Source.Name(), Op: "health check", Err: err}
	}
	return who, nil
}

func (g *Generator) search(ctx context.Context, q Query) ([]WorkItem, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	items, err := g.Source.Search(ctx, q)
	if err != nil {
		g.Logger.Error("work item query failed",
			zap.String("source", g.Source.Name()),
			zap.String("project", q.ProjectKey),
			zap.Error(err),
		)
		return nil, &UpstreamError{Source: g.Source.Name(), Op: "search", Err: err}
	}

	g.Logger.Debug("work items fetched",
		zap.String("source", g.Source.Name()),
		zap.String("project", q.ProjectKey),
		zap.Int("count", len(items)),
	)
	return items, nil
}
