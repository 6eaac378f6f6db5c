package report

import (
	"fmt"
	"strings"
	"time"
)

type ReportType string

const (
	ReportKickoff  ReportType = "kickoff"
	ReportProgress ReportType = "progress"
	ReportFinal    ReportType = "final"
)

// RecentCompletedLimit caps the completed list of a progress report.
const RecentCompletedLimit = 10

const DefaultBlockers = "No major blockers reported."

var typeLabels = map[ReportType]string{
	ReportKickoff:  "Kickoff Report",
	ReportProgress: "Progress Report",
	ReportFinal:    "Final Closure Report",
}

func ReportTypes() []ReportType {
	return []ReportType{ReportKickoff, ReportProgress, ReportFinal}
}

func ParseReportType(s string) (ReportType, error) {
	t := ReportType(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := typeLabels[t]; !ok {
		return "", &ConfigurationError{Key: "report_type", Reason: fmt.Sprintf("unknown report type %q", s)}
	}
	return t, nil
}

func (t ReportType) Label() string {
	return typeLabels[t]
}

// Project is the per-project configuration the builder consumes.
type Project struct {
	Key              string   `json:"project_key"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	ArchitectureDesc string   `json:"architecture_desc"`
	Cameras          []Camera `json:"cameras"`
	Deviations       []string `json:"deviations"`
	BlockersDefault  string   `json:"blockers_default"`
	LessonsLearned   []string `json:"lessons_learned"`
}

type Camera struct {
	Name          string `json:"name"`
	IP            string `json:"ip"`
	TelegramGroup string `json:"telegram_group"`
	Status        string `json:"status"`
}

func (p Project) require(fields ...string) error {
	values := map[string]string{
		"project_key":       p.Key,
		"name":              p.Name,
		"description":       p.Description,
		"architecture_desc": p.ArchitectureDesc,
	}
	for _, f := range fields {
		if strings.TrimSpace(values[f]) == "" {
			return &ConfigurationError{Key: f, Reason: "required project setting is missing"}
		}
	}
	return nil
}

type ItemSummary struct {
	Key      string `json:"key"`
	Summary  string `json:"summary"`
	Status   string `json:"status"`
	Priority string `json:"priority"`
	Updated  string `json:"updated,omitempty"`
}

func summarize(item WorkItem) ItemSummary {
	s := ItemSummary{
		Key:      item.Key,
		Summary:  item.Summary,
		Status:   item.Status,
		Priority: item.Priority,
	}
	if !item.Updated.IsZero() {
		s.Updated = item.Updated.Format(DateLayout)
	}
	return s
}

type KickoffDetails struct {
	Description       string          `json:"description"`
	ArchitectureDesc  string          `json:"architecture_desc"`
	Activities        []TimelineEntry `json:"activities"`
	TimelineImage     []byte          `json:"-"`
	TimelineImageType string          `json:"timeline_image_type,omitempty"`
}

type ProgressDetails struct {
	Percentage   float64        `json:"percentage"`
	DoneCount    int            `json:"done_count"`
	TotalCount   int            `json:"total_count"`
	Blockers     string         `json:"blockers"`
	CriticalPath []CriticalFlag `json:"critical_path"`
	Completed    []ItemSummary  `json:"completed_tasks"`
	Pending      []ItemSummary  `json:"pending_tasks"`
}

type FinalDetails struct {
	Description    string   `json:"description"`
	Cameras        []Camera `json:"cameras"`
	Deviations     []string `json:"deviations"`
	LessonsLearned []string `json:"lessons_learned"`
}

// ReportContext is the renderer-ready record for one report. Exactly one of
// Kickoff, Progress or Final is set, matching ReportType.
type ReportContext struct {
	Title       string     `json:"title"`
	ProjectKey  string     `json:"project_key"`
	ProjectName string     `json:"project_name"`
	Year        int        `json:"year"`
	ReportDate  string     `json:"report_date"`
	GeneratedAt time.Time  `json:"generated_at"`
	ReportType  ReportType `json:"report_type"`
	TypeLabel   string     `json:"report_type_label"`

	Kickoff  *KickoffDetails  `json:"kickoff,omitempty"`
	Progress *ProgressDetails `json:"progress,omitempty"`
	Final    *FinalDetails    `json:"final,omitempty"`
}

type Chart struct {
	Data        []byte
	ContentType string
}

// ChartRenderer draws the timeline series. Its output is carried through the
// context untouched.
type ChartRenderer interface {
	Render(entries []TimelineEntry) (Chart, error)
}

type Builder struct {
	Organization string
	Done         DoneSet
	Chart        ChartRenderer
}

func NewBuilder(organization string, done DoneSet, chart ChartRenderer) *Builder {
	return &Builder{Organization: organization, Done: done, Chart: chart}
}

// Build assembles the context for reportType from items. items must already be
// in the order the report should show them.
func (b *Builder) Build(reportType ReportType, project Project, items []WorkItem, now time.Time) (*ReportContext, error) {
	if _, ok := typeLabels[reportType]; !ok {
		return nil, &ConfigurationError{Key: "report_type", Reason: fmt.Sprintf("unknown report type %q", reportType)}
	}
	if err := project.require("project_key", "name"); err != nil {
		return nil, err
	}

	ctx := b.baseContext(reportType, project, now)

	var err error
	switch reportType {
	case ReportKickoff:
		ctx.Kickoff, err = b.kickoff(project, items, now)
	case ReportProgress:
		ctx.Progress, err = b.progress(project, items, now)
	case ReportFinal:
		ctx.Final, err = b.final(project)
	}
	if err != nil {
		return nil, err
	}

	return ctx, nil
}

func (b *Builder) baseContext(reportType ReportType, project Project, now time.Time) *ReportContext {
	title := reportType.Label()
	if b.Organization != "" {
		title = b.Organization + " - " + title
	}

	return &ReportContext{
		Title:       title,
		ProjectKey:  project.Key,
		ProjectName: project.Name,
		Year:        now.Year(),
		ReportDate:  now.Format(DateLayout),
		GeneratedAt: now,
		ReportType:  reportType,
		TypeLabel:   reportType.Label(),
	}
}

func (b *Builder) kickoff(project Project, items []WorkItem, now time.Time) (*KickoffDetails, error) {
	if err := project.require("description", "architecture_desc"); err != nil {
		return nil, err
	}

	activities, err := Timeline(items, now, b.Done)
	if err != nil {
		return nil, err
	}

	details := &KickoffDetails{
		Description:      project.Description,
		ArchitectureDesc: project.ArchitectureDesc,
		Activities:       activities,
	}

	if b.Chart != nil && len(activities) > 0 {
		chart, err := b.Chart.Render(activities)
		if err != nil {
			return nil, &UpstreamError{Source: "chart", Op: "render", Err: err}
		}
		details.TimelineImage = chart.Data
		details.TimelineImageType = chart.ContentType
	}

	return details, nil
}

func (b *Builder) progress(project Project, items []WorkItem, now time.Time) (*ProgressDetails, error) {
	active, resolved := b.Done.Split(items)

	flags, err := Classify(active, now, b.Done)
	if err != nil {
		return nil, err
	}

	blockers := strings.TrimSpace(project.BlockersDefault)
	if blockers == "" {
		blockers = DefaultBlockers
	}

	recent := resolved
	if len(recent) > RecentCompletedLimit {
		recent = recent[:RecentCompletedLimit]
	}

	details := &ProgressDetails{
		Percentage:   Percentage(len(resolved), len(items)),
		DoneCount:    len(resolved),
		TotalCount:   len(items),
		Blockers:     blockers,
		CriticalPath: flags,
		Completed:    make([]ItemSummary, 0, len(recent)),
		Pending:      make([]ItemSummary, 0, len(active)),
	}
	for _, item := range recent {
		details.Completed = append(details.Completed, summarize(item))
	}
	for _, item := range active {
		details.Pending = append(details.Pending, summarize(item))
	}

	return details, nil
}

func (b *Builder) final(project Project) (*FinalDetails, error) {
	if err := project.require("description"); err != nil {
		return nil, err
	}

	return &FinalDetails{
		Description:    project.Description,
		Cameras:        project.Cameras,
		Deviations:     project.Deviations,
		LessonsLearned: project.LessonsLearned,
	}, nil
}
