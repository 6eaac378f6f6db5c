package report

import (
	"context"
	"strings"
	"time"
)

const DefaultPriority = "Medium"

// WorkItem is a tracker record as the core sees it. Optional fields are
// resolved once by NewWorkItem; dates stay raw so the reconciler can apply
// its own fallback rules.
type WorkItem struct {
	Key       string
	Summary   string
	Status    string
	Priority  string
	StartDate string
	DueDate   string
	IssueType string
	Created   time.Time
	Updated   time.Time
}

func NewWorkItem(key, summary, status, priority, startDate, dueDate string) WorkItem {
	priority = strings.TrimSpace(priority)
	if priority == "" {
		priority = DefaultPriority
	}

	return WorkItem{
		Key:       key,
		Summary:   summary,
		Status:    status,
		Priority:  priority,
		StartDate: strings.TrimSpace(startDate),
		DueDate:   strings.TrimSpace(dueDate),
	}
}

type Order string

const (
	OrderNone        Order = ""
	OrderCreatedAsc  Order = "created ASC"
	OrderUpdatedDesc Order = "updated DESC"
)

// Query describes one source lookup. Statuses filter by membership, or by
// exclusion when ExcludeStatuses is set.
type Query struct {
	ProjectKey      string
	Statuses        []string
	ExcludeStatuses bool
	IssueType       string
	EpicKey         string
	OrderBy         Order
	Limit           int
}

type WorkItemSource interface {
	Name() string
	Search(ctx context.Context, q Query) ([]WorkItem, error)
	HealthCheck(ctx context.Context) (string, error)
}
