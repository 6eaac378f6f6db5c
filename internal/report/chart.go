package report

import (
	"fmt"
	"html"
	"strings"
	"time"
)

const (
	plannedColor  = "#adadad"
	progressColor = "#ffed01"
)

// SVGChart draws a Gantt-style chart: one grey planned bar per entry with the
// completed fraction overlaid in the brand colour.
type SVGChart struct {
	Title      string
	Width      int
	RowHeight  int
	LabelWidth int
}

func NewSVGChart(title string) *SVGChart {
	return &SVGChart{
		Title:      title,
		Width:      960,
		RowHeight:  26,
		LabelWidth: 140,
	}
}

var _ ChartRenderer = (*SVGChart)(nil)

func (c *SVGChart) Render(entries []TimelineEntry) (Chart, error) {
	if len(entries) == 0 {
		return Chart{}, fmt.Errorf("no timeline entries to draw")
	}
	if c.Width <= c.LabelWidth+40 || c.RowHeight <= 0 {
		return Chart{}, fmt.Errorf("invalid chart geometry %dx%d", c.Width, c.RowHeight)
	}

	first, last := entries[0].Start, entries[0].End
	for _, e := range entries[1:] {
		if e.Start.Before(first) {
			first = e.Start
		}
		if e.End.After(last) {
			last = e.End
		}
	}
	totalDays := last.Sub(first).Hours() / 24
	if totalDays < 1 {
		totalDays = 1
	}

	const top, axis, right = 40, 30, 20
	plotWidth := float64(c.Width - c.LabelWidth - right)
	perDay := plotWidth / totalDays
	height := top + len(entries)*c.RowHeight + axis

	x := func(t time.Time) float64 {
		return float64(c.LabelWidth) + t.Sub(first).Hours()/24*perDay
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif" font-size="11">`,
		c.Width, height, c.Width, height)
	b.WriteString("\n")
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="#ffffff"/>`+"\n", c.Width, height)
	if c.Title != "" {
		fmt.Fprintf(&b, `<text x="%d" y="20" text-anchor="middle" font-size="14" font-weight="bold">%s</text>`+"\n",
			c.Width/2, html.EscapeString(c.Title))
	}

	// month gridlines
	axisY := top + len(entries)*c.RowHeight
	month := time.Date(first.Year(), first.Month(), 1, 0, 0, 0, 0, time.UTC)
	if month.Before(first) {
		month = month.AddDate(0, 1, 0)
	}
	for ; !month.After(last); month = month.AddDate(0, 1, 0) {
		mx := x(month)
		fmt.Fprintf(&b, `<line x1="%.1f" y1="%d" x2="%.1f" y2="%d" stroke="#dddddd" stroke-dasharray="4,3"/>`+"\n",
			mx, top, mx, axisY)
		fmt.Fprintf(&b, `<text x="%.1f" y="%d" text-anchor="middle" fill="#666666">%s</text>`+"\n",
			mx, axisY+16, month.Format("2006-01"))
	}

	for i, e := range entries {
		y := top + i*c.RowHeight
		barY := float64(y) + float64(c.RowHeight)*0.2
		barH := float64(c.RowHeight) * 0.6
		start := x(e.Start)
		width := x(e.End) - start

		fmt.Fprintf(&b, `<text x="%d" y="%.1f" text-anchor="end" dominant-baseline="middle">%s</text>`+"\n",
			c.LabelWidth-6, barY+barH/2, html.EscapeString(e.Label))
		fmt.Fprintf(&b, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" fill-opacity="0.3"/>`+"\n",
			start, barY, width, barH, plannedColor)

		progress := e.Progress
		if progress > 100 {
			progress = 100
		}
		if progress > 0 {
			fmt.Fprintf(&b, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
				start, barY, width*progress/100, barH, progressColor)
		}
	}

	fmt.Fprintf(&b, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="#333333"/>`+"\n",
		c.LabelWidth, axisY, c.Width-right, axisY)
	b.WriteString("</svg>\n")

	return Chart{Data: []byte(b.String()), ContentType: "image/svg+xml"}, nil
}
