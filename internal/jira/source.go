package jira

import (
	"context"
	"fmt"
	"strings"
	"time"

	jira "github.com/andygrunwald/go-jira"

	"github.com/Afrawles/statusreport/internal/report"
)

// DefaultStartDateField is the Jira Cloud "Start date" custom field.
const DefaultStartDateField = "customfield_10015"

type Source struct {
	Client         *Client
	StartDateField string
}

func NewSource(client *Client, startDateField string) *Source {
	if startDateField == "" {
		startDateField = DefaultStartDateField
	}
	return &Source{Client: client, StartDateField: startDateField}
}

var _ report.WorkItemSource = (*Source)(nil)

func (s *Source) Name() string {
	return "Jira"
}

func (s *Source) HealthCheck(ctx context.Context) (string, error) {
	return s.Client.Myself(ctx)
}

func (s *Source) Search(ctx context.Context, q report.Query) ([]report.WorkItem, error) {
	issues, err := s.Client.SearchIssues(ctx, BuildJQL(q), q.Limit)
	if err != nil {
		return nil, err
	}

	items := make([]report.WorkItem, 0, len(issues))
	for i := range issues {
		items = append(items, s.issueToWorkItem(&issues[i]))
	}
	return items, nil
}

// issueToWorkItem converts a Jira issue, resolving optional fields once.
func (s *Source) issueToWorkItem(issue *jira.Issue) report.WorkItem {
	fields := issue.Fields
	if fields == nil {
		return report.NewWorkItem(issue.Key, "", "", "", "", "")
	}

	var status, priority, due string
	if fields.Status != nil {
		status = fields.Status.Name
	}
	if fields.Priority != nil {
		priority = fields.Priority.Name
	}
	if d := time.Time(fields.Duedate); !d.IsZero() {
		due = d.Format(report.DateLayout)
	}

	item := report.NewWorkItem(issue.Key, fields.Summary, status, priority, s.startDate(fields), due)
	item.IssueType = fields.Type.Name
	item.Created = time.Time(fields.Created)
	item.Updated = time.Time(fields.Updated)
	return item
}

// startDate reads the configured custom field, which Jira leaves among the
// unknown fields as a plain string or null.
func (s *Source) startDate(fields *jira.IssueFields) string {
	if fields.Unknowns == nil {
		return ""
	}
	switch v := fields.Unknowns[s.StartDateField].(type) {
	case string:
		return strings.TrimSpace(v)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
