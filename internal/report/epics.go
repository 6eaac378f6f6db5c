package report

import (
	"errors"
	"time"
)

type EpicProgress struct {
	Key      string  `json:"key"`
	Name     string  `json:"name"`
	Status   string  `json:"status"`
	Start    string  `json:"start"`
	Due      string  `json:"due"`
	Span     Span    `json:"-"`
	Done     int     `json:"done"`
	Total    int     `json:"total"`
	Progress float64 `json:"progress"`
}

type EpicReport struct {
	Title         string         `json:"title"`
	ProjectKey    string         `json:"project_key"`
	ProjectName   string         `json:"project_name"`
	Year          int            `json:"year"`
	ReportDate    string         `json:"report_date"`
	Epics         []EpicProgress `json:"epics"`
	TimelineImage []byte         `json:"-"`
	ImageType     string         `json:"timeline_image_type,omitempty"`
}

// BuildEpicReport computes per-epic completion from each epic's child items.
// Epics keep input order; an epic without children is at 0%.
func (b *Builder) BuildEpicReport(project Project, epics []WorkItem, children map[string][]WorkItem, now time.Time) (*EpicReport, error) {
	if err := project.require("project_key", "name"); err != nil {
		return nil, err
	}

	title := "Epic Progress Report"
	if b.Organization != "" {
		title = b.Organization + " - " + title
	}

	rep := &EpicReport{
		Title:       title,
		ProjectKey:  project.Key,
		ProjectName: project.Name,
		Year:        now.Year(),
		ReportDate:  now.Format(DateLayout),
		Epics:       make([]EpicProgress, 0, len(epics)),
	}

	entries := make([]TimelineEntry, 0, len(epics))
	for _, epic := range epics {
		span, err := Reconcile(epic.StartDate, epic.DueDate, now)
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				pe.Field = epic.Key + " " + pe.Field
			}
			return nil, err
		}

		kids := children[epic.Key]
		done := b.Done.Count(kids)
		progress := Percentage(done, len(kids))

		rep.Epics = append(rep.Epics, EpicProgress{
			Key:      epic.Key,
			Name:     epic.Summary,
			Status:   epic.Status,
			Start:    displayDate(epic.StartDate),
			Due:      displayDate(epic.DueDate),
			Span:     span,
			Done:     done,
			Total:    len(kids),
			Progress: progress,
		})
		entries = append(entries, TimelineEntry{
			Label:        epic.Summary,
			Summary:      epic.Summary,
			Status:       epic.Status,
			Start:        span.Start,
			End:          span.End,
			DurationDays: span.Days(),
			Progress:     progress,
		})
	}

	if b.Chart != nil && len(entries) > 0 {
		chart, err := b.Chart.Render(entries)
		if err != nil {
			return nil, &UpstreamError{Source: "chart", Op: "render", Err: err}
		}
		rep.TimelineImage = chart.Data
		rep.ImageType = chart.ContentType
	}

	return rep, nil
}

func displayDate(raw string) string {
	if IsAbsentDate(raw) {
		return "N/A"
	}
	return raw
}
