package report

import (
	"math"
	"strings"
)

var DefaultDoneStatuses = []string{"Done", "Completado", "Cerrado", "Finalizado"}

// DoneSet holds the case-normalized statuses that count as resolved.
type DoneSet struct {
	names    map[string]struct{}
	original []string
}

func NewDoneSet(statuses ...string) DoneSet {
	if len(statuses) == 0 {
		statuses = DefaultDoneStatuses
	}

	set := DoneSet{names: make(map[string]struct{}, len(statuses))}
	for _, s := range statuses {
		key := normalizeStatus(s)
		if key == "" {
			continue
		}
		if _, seen := set.names[key]; seen {
			continue
		}
		set.names[key] = struct{}{}
		set.original = append(set.original, strings.TrimSpace(s))
	}
	return set
}

func (d DoneSet) IsResolved(status string) bool {
	if d.names == nil {
		d = NewDoneSet()
	}
	_, ok := d.names[normalizeStatus(status)]
	return ok
}

// Statuses returns the configured names in their original spelling, for
// building tracker queries.
func (d DoneSet) Statuses() []string {
	if d.names == nil {
		return append([]string(nil), DefaultDoneStatuses...)
	}
	return append([]string(nil), d.original...)
}

// Split partitions items into active and resolved, keeping input order.
func (d DoneSet) Split(items []WorkItem) (active, resolved []WorkItem) {
	for _, item := range items {
		if d.IsResolved(item.Status) {
			resolved = append(resolved, item)
		} else {
			active = append(active, item)
		}
	}
	return active, resolved
}

func (d DoneSet) Count(items []WorkItem) int {
	n := 0
	for _, item := range items {
		if d.IsResolved(item.Status) {
			n++
		}
	}
	return n
}

// Percentage is the completion ratio rounded to one decimal. No items is 0%.
func Percentage(done, total int) float64 {
	if total <= 0 || done <= 0 {
		return 0
	}
	if done >= total {
		return 100
	}
	return math.Round(1000*float64(done)/float64(total)) / 10
}

func normalizeStatus(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}
