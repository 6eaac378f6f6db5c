package report

import (
	"testing"

	. "github.com/onsi/gomega"
)

func TestPercentage(t *testing.T) {
	tests := []struct {
		done, total int
		want        float64
	}{
		{0, 0, 0},
		{3, 10, 30.0},
		{10, 10, 100.0},
		{6, 10, 60.0},
		{1, 3, 33.3},
		{2, 3, 66.7},
		{0, 5, 0},
		{7, 5, 100},
	}

	for _, tt := range tests {
		g := NewWithT(t)
		g.Expect(Percentage(tt.done, tt.total)).To(Equal(tt.want), "Percentage(%d, %d)", tt.done, tt.total)
	}
}

func TestDoneSetIsCaseInsensitive(t *testing.T) {
	g := NewWithT(t)
	done := NewDoneSet()

	for _, s := range []string{"Done", "done", " DONE ", "Completado", "cerrado", "Finalizado"} {
		g.Expect(done.IsResolved(s)).To(BeTrue(), s)
	}
	for _, s := range []string{"In Progress", "To Do", "", "Done-ish"} {
		g.Expect(done.IsResolved(s)).To(BeFalse(), s)
	}
}

func TestZeroDoneSetUsesDefaults(t *testing.T) {
	g := NewWithT(t)

	var done DoneSet
	g.Expect(done.IsResolved("Cerrado")).To(BeTrue())
	g.Expect(done.Statuses()).To(Equal(DefaultDoneStatuses))
}

func TestCustomDoneSet(t *testing.T) {
	g := NewWithT(t)
	done := NewDoneSet("Resolved", "resolved", "Won't Do")

	g.Expect(done.Statuses()).To(Equal([]string{"Resolved", "Won't Do"}))
	g.Expect(done.IsResolved("Done")).To(BeFalse())
	g.Expect(done.IsResolved("RESOLVED")).To(BeTrue())
}

func TestSplitKeepsOrder(t *testing.T) {
	g := NewWithT(t)
	items := []WorkItem{
		{Key: "A-1", Status: "Done"},
		{Key: "A-2", Status: "Open"},
		{Key: "A-3", Status: "Cerrado"},
		{Key: "A-4", Status: "Blocked"},
	}

	active, resolved := NewDoneSet().Split(items)
	g.Expect(keys(active)).To(Equal([]string{"A-2", "A-4"}))
	g.Expect(keys(resolved)).To(Equal([]string{"A-1", "A-3"}))
	g.Expect(NewDoneSet().Count(items)).To(Equal(2))
}

func TestNewWorkItemDefaultsPriority(t *testing.T) {
	g := NewWithT(t)

	g.Expect(NewWorkItem("A-1", "s", "Open", "", "", "").Priority).To(Equal(DefaultPriority))
	g.Expect(NewWorkItem("A-1", "s", "Open", "  ", "", "").Priority).To(Equal("Medium"))
	g.Expect(NewWorkItem("A-1", "s", "Open", "Low", "", "").Priority).To(Equal("Low"))
}

func keys(items []WorkItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Key)
	}
	return out
}
