package jira

import (
	"context"
	"fmt"
	"strings"

	jira "github.com/andygrunwald/go-jira"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Afrawles/statusreport/internal/report"
)

const pageSize = 50

// Client wraps the Jira search API with page-level throttling.
type Client struct {
	client  *jira.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewClient creates a Jira client authenticated with an account email and API token.
// requestsPerSecond <= 0 disables throttling.
func NewClient(baseURL, email, apiToken string, requestsPerSecond float64, logger *zap.Logger) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("jira base URL is required")
	}

	tp := jira.BasicAuthTransport{
		Username: email,
		Password: apiToken,
	}

	client, err := jira.NewClient(tp.Client(), baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create jira client: %w", err)
	}

	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		client:  client,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
	}, nil
}

// SearchIssues runs jql and follows pagination until every match, or max
// matches when max > 0, has been read.
func (c *Client) SearchIssues(ctx context.Context, jql string, max int) ([]jira.Issue, error) {
	var all []jira.Issue
	startAt := 0

	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		size := pageSize
		if max > 0 && max-len(all) < size {
			size = max - len(all)
		}

		issues, resp, err := c.client.Issue.SearchWithContext(ctx, jql, &jira.SearchOptions{
			StartAt:    startAt,
			MaxResults: size,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to search issues: %w", err)
		}

		all = append(all, issues...)
		c.logger.Debug("jira search page",
			zap.String("jql", jql),
			zap.Int("start_at", startAt),
			zap.Int("returned", len(issues)),
		)

		if len(issues) == 0 || (max > 0 && len(all) >= max) {
			break
		}
		startAt += len(issues)
		if resp == nil || startAt >= resp.Total {
			break
		}
	}

	return all, nil
}

// Myself returns the display name of the authenticated account.
func (c *Client) Myself(ctx context.Context) (string, error) {
	user, _, err := c.client.User.GetSelfWithContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get current user: %w", err)
	}
	return user.DisplayName, nil
}

// BuildJQL translates a source query into JQL.
func BuildJQL(q report.Query) string {
	var clauses []string

	if q.ProjectKey != "" {
		clauses = append(clauses, "project = "+quote(q.ProjectKey))
	}
	if q.IssueType != "" {
		clauses = append(clauses, "issuetype = "+quote(q.IssueType))
	}
	if q.EpicKey != "" {
		clauses = append(clauses, `"Epic Link" = `+quote(q.EpicKey))
	}
	if len(q.Statuses) > 0 {
		quoted := make([]string, len(q.Statuses))
		for i, s := range q.Statuses {
			quoted[i] = quote(s)
		}
		op := "IN"
		if q.ExcludeStatuses {
			op = "NOT IN"
		}
		clauses = append(clauses, fmt.Sprintf("status %s (%s)", op, strings.Join(quoted, ", ")))
	}

	jql := strings.Join(clauses, " AND ")
	if q.OrderBy != report.OrderNone {
		if jql != "" {
			jql += " "
		}
		jql += "ORDER BY " + string(q.OrderBy)
	}
	return jql
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
