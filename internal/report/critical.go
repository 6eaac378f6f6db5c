package report

import (
	"errors"
	"strings"
	"time"
)

const reasonSeparator = " | "

// HighPriorities is the tier that puts an active item on the critical path.
// Matching is case-sensitive, as the tracker reports these names verbatim.
var HighPriorities = []string{"High", "Highest", "Critical"}

type CriticalFlag struct {
	Key     string `json:"key"`
	Summary string `json:"summary"`
	Reason  string `json:"reason"`
}

func isHighPriority(priority string) bool {
	for _, p := range HighPriorities {
		if p == priority {
			return true
		}
	}
	return false
}

// Classify flags active items that are high priority or overdue. A due date
// is midnight UTC of that day, so an item due today is overdue once the day
// has started. Output keeps input order; unflagged items are
// omitted.
func Classify(active []WorkItem, now time.Time, done DoneSet) ([]CriticalFlag, error) {
	flags := []CriticalFlag{}
	for _, item := range active {
		var reasons []string

		if isHighPriority(item.Priority) {
			reasons = append(reasons, "Priority: "+item.Priority)
		}

		if !IsAbsentDate(item.DueDate) && !done.IsResolved(item.Status) {
			due, err := ParseDate("due date", item.DueDate)
			if err != nil {
				var pe *ParseError
				if errors.As(err, &pe) {
					pe.Field = item.Key + " " + pe.Field
				}
				return nil, err
			}
			if due.Before(now) {
				reasons = append(reasons, "Overdue: "+strings.TrimSpace(item.DueDate))
			}
		}

		if len(reasons) == 0 {
			continue
		}

		flags = append(flags, CriticalFlag{
			Key:     item.Key,
			Summary: item.Summary,
			Reason:  strings.Join(reasons, reasonSeparator),
		})
	}
	return flags, nil
}
