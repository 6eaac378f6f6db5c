package report_test

import (
	"errors"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Afrawles/statusreport/internal/report"
)

type stubChart struct {
	calls   int
	entries []report.TimelineEntry
	err     error
}

func (s *stubChart) Render(entries []report.TimelineEntry) (report.Chart, error) {
	s.calls++
	s.entries = entries
	if s.err != nil {
		return report.Chart{}, s.err
	}
	return report.Chart{Data: []byte("<svg/>"), ContentType: "image/svg+xml"}, nil
}

func sampleProject() report.Project {
	return report.Project{
		Key:              "GMF",
		Name:             "Gas Monitoring Facility",
		Description:      "Camera monitoring for the compressor yard.",
		ArchitectureDesc: "Edge NVR with Telegram alerting.",
		Cameras: []report.Camera{
			{Name: "Gate", IP: "10.0.0.10", TelegramGroup: "gmf-alerts", Status: "Online"},
		},
		Deviations:     []string{"Mast relocated 5m north"},
		LessonsLearned: []string{"Survey power early"},
	}
}

var _ = Describe("Builder", func() {
	var (
		now     time.Time
		chart   *stubChart
		builder *report.Builder
		project report.Project
	)

	BeforeEach(func() {
		now = time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
		chart = &stubChart{}
		builder = report.NewBuilder("", report.NewDoneSet(), chart)
		project = sampleProject()
	})

	It("rejects unknown report types", func() {
		_, err := builder.Build("weekly", project, nil, now)

		var ce *report.ConfigurationError
		Expect(errors.As(err, &ce)).To(BeTrue())
		Expect(ce.Key).To(Equal("report_type"))
	})

	DescribeTable("requires the project settings each report type reads",
		func(reportType report.ReportType, clear func(*report.Project), key string) {
			clear(&project)
			_, err := builder.Build(reportType, project, nil, now)

			var ce *report.ConfigurationError
			Expect(errors.As(err, &ce)).To(BeTrue())
			Expect(ce.Key).To(Equal(key))
		},
		Entry("project key", report.ReportProgress, func(p *report.Project) { p.Key = "" }, "project_key"),
		Entry("name", report.ReportFinal, func(p *report.Project) { p.Name = " " }, "name"),
		Entry("kickoff description", report.ReportKickoff, func(p *report.Project) { p.Description = "" }, "description"),
		Entry("kickoff architecture", report.ReportKickoff, func(p *report.Project) { p.ArchitectureDesc = "" }, "architecture_desc"),
		Entry("final description", report.ReportFinal, func(p *report.Project) { p.Description = "" }, "description"),
	)

	It("fills the common fields", func() {
		builder.Organization = "Acme Security"
		ctx, err := builder.Build(report.ReportFinal, project, nil, now)
		Expect(err).NotTo(HaveOccurred())

		Expect(ctx.Title).To(Equal("Acme Security - Final Closure Report"))
		Expect(ctx.ProjectKey).To(Equal("GMF"))
		Expect(ctx.ProjectName).To(Equal("Gas Monitoring Facility"))
		Expect(ctx.Year).To(Equal(2025))
		Expect(ctx.ReportDate).To(Equal("2025-01-01"))
		Expect(ctx.TypeLabel).To(Equal("Final Closure Report"))
	})

	Context("kickoff", func() {
		It("reconciles one activity per item in input order", func() {
			items := []report.WorkItem{
				report.NewWorkItem("GMF-2", "Install", "To Do", "", "", "2025-02-01"),
				report.NewWorkItem("GMF-1", "Survey", "Done", "", "2024-12-01", "2024-12-05"),
			}

			ctx, err := builder.Build(report.ReportKickoff, project, items, now)
			Expect(err).NotTo(HaveOccurred())
			Expect(ctx.Progress).To(BeNil())
			Expect(ctx.Final).To(BeNil())

			k := ctx.Kickoff
			Expect(k).NotTo(BeNil())
			Expect(k.Description).To(Equal(project.Description))
			Expect(k.Activities).To(HaveLen(2))
			Expect(k.Activities[0].Label).To(Equal("GMF-2"))
			Expect(k.Activities[0].Progress).To(Equal(0.0))
			Expect(k.Activities[1].Progress).To(Equal(100.0))

			Expect(chart.calls).To(Equal(1))
			Expect(chart.entries).To(Equal(k.Activities))
			Expect(k.TimelineImage).To(Equal([]byte("<svg/>")))
			Expect(k.TimelineImageType).To(Equal("image/svg+xml"))
		})

		It("skips the chart without activities or renderer", func() {
			ctx, err := builder.Build(report.ReportKickoff, project, nil, now)
			Expect(err).NotTo(HaveOccurred())
			Expect(chart.calls).To(BeZero())
			Expect(ctx.Kickoff.Activities).To(BeEmpty())

			builder.Chart = nil
			items := []report.WorkItem{report.NewWorkItem("GMF-1", "Survey", "Open", "", "", "")}
			ctx, err = builder.Build(report.ReportKickoff, project, items, now)
			Expect(err).NotTo(HaveOccurred())
			Expect(ctx.Kickoff.TimelineImage).To(BeNil())
		})

		It("reports chart failures as upstream errors", func() {
			chart.err = fmt.Errorf("out of ink")
			items := []report.WorkItem{report.NewWorkItem("GMF-1", "Survey", "Open", "", "", "")}

			_, err := builder.Build(report.ReportKickoff, project, items, now)
			var ue *report.UpstreamError
			Expect(errors.As(err, &ue)).To(BeTrue())
			Expect(ue.Source).To(Equal("chart"))
			Expect(errors.Unwrap(err)).To(MatchError("out of ink"))
		})

		It("aborts on a malformed date", func() {
			items := []report.WorkItem{report.NewWorkItem("GMF-1", "Survey", "Open", "", "1/1/2025", "")}

			ctx, err := builder.Build(report.ReportKickoff, project, items, now)
			Expect(ctx).To(BeNil())
			var pe *report.ParseError
			Expect(errors.As(err, &pe)).To(BeTrue())
		})
	})

	Context("progress", func() {
		It("aggregates ten items with six resolved", func() {
			var items []report.WorkItem
			for i := 1; i <= 10; i++ {
				status := "In Progress"
				if i > 4 {
					status = "Done"
				}
				items = append(items, report.NewWorkItem(fmt.Sprintf("GMF-%d", i), "task", status, "", "", ""))
			}

			ctx, err := builder.Build(report.ReportProgress, project, items, now)
			Expect(err).NotTo(HaveOccurred())

			p := ctx.Progress
			Expect(p.Percentage).To(Equal(60.0))
			Expect(p.DoneCount).To(Equal(6))
			Expect(p.TotalCount).To(Equal(10))
			Expect(p.Completed).To(HaveLen(6))
			Expect(p.Pending).To(HaveLen(4))
			Expect(p.CriticalPath).To(BeEmpty())
			Expect(p.Blockers).To(Equal(report.DefaultBlockers))
		})

		It("keeps the first ten resolved items in source order", func() {
			var items []report.WorkItem
			for i := 1; i <= 12; i++ {
				items = append(items, report.NewWorkItem(fmt.Sprintf("GMF-%d", i), "task", "Cerrado", "", "", ""))
			}

			ctx, err := builder.Build(report.ReportProgress, project, items, now)
			Expect(err).NotTo(HaveOccurred())

			p := ctx.Progress
			Expect(p.Percentage).To(Equal(100.0))
			Expect(p.Completed).To(HaveLen(report.RecentCompletedLimit))
			Expect(p.Completed[0].Key).To(Equal("GMF-1"))
			Expect(p.Completed[9].Key).To(Equal("GMF-10"))
		})

		It("flags only active items", func() {
			project.BlockersDefault = "Waiting on fibre provider"
			items := []report.WorkItem{
				report.NewWorkItem("GMF-1", "Fibre", "Blocked", "Highest", "", "2024-11-30"),
				report.NewWorkItem("GMF-2", "Poles", "Done", "Critical", "", "2024-10-01"),
				report.NewWorkItem("GMF-3", "Labels", "Open", "Low", "", "2025-03-01"),
			}

			ctx, err := builder.Build(report.ReportProgress, project, items, now)
			Expect(err).NotTo(HaveOccurred())

			p := ctx.Progress
			Expect(p.Blockers).To(Equal("Waiting on fibre provider"))
			Expect(p.CriticalPath).To(Equal([]report.CriticalFlag{
				{Key: "GMF-1", Summary: "Fibre", Reason: "Priority: Highest | Overdue: 2024-11-30"},
			}))
			Expect(p.Percentage).To(Equal(33.3))
		})

		It("reports zero percent for an empty project", func() {
			ctx, err := builder.Build(report.ReportProgress, project, nil, now)
			Expect(err).NotTo(HaveOccurred())
			Expect(ctx.Progress.Percentage).To(BeZero())
			Expect(ctx.Progress.CriticalPath).NotTo(BeNil())
		})
	})

	Context("final", func() {
		It("passes the closure notes through", func() {
			ctx, err := builder.Build(report.ReportFinal, project, nil, now)
			Expect(err).NotTo(HaveOccurred())

			f := ctx.Final
			Expect(f.Cameras).To(Equal(project.Cameras))
			Expect(f.Deviations).To(Equal([]string{"Mast relocated 5m north"}))
			Expect(f.LessonsLearned).To(Equal([]string{"Survey power early"}))
		})
	})
})

var _ = Describe("ParseReportType", func() {
	DescribeTable("accepts known types regardless of case",
		func(in string, want report.ReportType) {
			got, err := report.ParseReportType(in)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
		},
		Entry("kickoff", "kickoff", report.ReportKickoff),
		Entry("upper case", "PROGRESS", report.ReportProgress),
		Entry("padded", " final ", report.ReportFinal),
	)

	It("rejects anything else", func() {
		_, err := report.ParseReportType("weekly")
		Expect(err).To(MatchError(ContainSubstring("unknown report type")))
	})
})
