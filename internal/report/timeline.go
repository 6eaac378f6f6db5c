package report

import (
	"errors"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"

	// DefaultSpanDays is the bar length used when one or both dates are missing.
	DefaultSpanDays = 14

	// absentSentinel is what the upstream export writes for a missing date.
	absentSentinel = "None"
)

// Span is a reconciled schedule bar. End is always after Start.
type Span struct {
	Start time.Time
	End   time.Time
}

func (s Span) Days() int {
	return int(s.End.Sub(s.Start).Hours() / 24)
}

type TimelineEntry struct {
	Label        string    `json:"label"`
	Summary      string    `json:"summary"`
	Status       string    `json:"status"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	DurationDays int       `json:"duration_days"`
	Progress     float64   `json:"progress"`
}

// IsAbsentDate reports whether a raw date field carries no value.
func IsAbsentDate(raw string) bool {
	raw = strings.TrimSpace(raw)
	return raw == "" || raw == absentSentinel
}

// ParseDate parses a YYYY-MM-DD calendar date as midnight UTC.
func ParseDate(field, raw string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, &ParseError{Field: field, Value: raw, Err: err}
	}
	return t, nil
}

// CalendarDay truncates t to midnight UTC of its own calendar date.
func CalendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Reconcile turns optional start/due strings into a drawable span.
func Reconcile(startRaw, dueRaw string, now time.Time) (Span, error) {
	hasStart := !IsAbsentDate(startRaw)
	hasDue := !IsAbsentDate(dueRaw)

	var span Span
	switch {
	case !hasStart && !hasDue:
		span.Start = CalendarDay(now)
		span.End = span.Start.AddDate(0, 0, DefaultSpanDays)
	case !hasStart:
		end, err := ParseDate("due date", dueRaw)
		if err != nil {
			return Span{}, err
		}
		span.End = end
		span.Start = end.AddDate(0, 0, -DefaultSpanDays)
	case !hasDue:
		start, err := ParseDate("start date", startRaw)
		if err != nil {
			return Span{}, err
		}
		span.Start = start
		span.End = start.AddDate(0, 0, DefaultSpanDays)
	default:
		start, err := ParseDate("start date", startRaw)
		if err != nil {
			return Span{}, err
		}
		end, err := ParseDate("due date", dueRaw)
		if err != nil {
			return Span{}, err
		}
		span.Start, span.End = start, end
	}

	if !span.End.After(span.Start) {
		span.End = span.Start.AddDate(0, 0, 1)
	}

	return span, nil
}

// Timeline reconciles one entry per item, in input order.
func Timeline(items []WorkItem, now time.Time, done DoneSet) ([]TimelineEntry, error) {
	entries := make([]TimelineEntry, 0, len(items))
	for _, item := range items {
		span, err := Reconcile(item.StartDate, item.DueDate, now)
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				pe.Field = item.Key + " " + pe.Field
			}
			return nil, err
		}

		progress := 0.0
		if done.IsResolved(item.Status) {
			progress = 100
		}

		entries = append(entries, TimelineEntry{
			Label:        item.Key,
			Summary:      item.Summary,
			Status:       item.Status,
			Start:        span.Start,
			End:          span.End,
			DurationDays: span.Days(),
			Progress:     progress,
		})
	}
	return entries, nil
}
