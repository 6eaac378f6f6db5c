package report

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const summarySheet = "Summary"

// maxColumns is the widest sheet Excel accepts (column XFD).
const maxColumns = 16384

type ExcelExporter struct {
	OutputDir string
}

func NewExcelExporter(outputDir string) *ExcelExporter {
	return &ExcelExporter{OutputDir: outputDir}
}

type sheetStyles struct {
	header   int
	planned  int
	progress int
	alert    int
}

func newSheetStyles(f *excelize.File) (sheetStyles, error) {
	border := []excelize.Border{
		{Type: "left", Color: "#000000", Style: 1},
		{Type: "right", Color: "#000000", Style: 1},
		{Type: "top", Color: "#000000", Style: 1},
		{Type: "bottom", Color: "#000000", Style: 1},
	}

	var s sheetStyles
	var err error
	s.header, err = f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#000000"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true, Color: "#FFED01"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return s, err
	}
	s.planned, err = f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D9D9D9"}, Pattern: 1},
	})
	if err != nil {
		return s, err
	}
	s.progress, err = f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#FFED01"}, Pattern: 1},
	})
	if err != nil {
		return s, err
	}
	s.alert, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "#D32F2F"},
	})
	return s, err
}

// Export writes ctx as a workbook: a summary sheet plus the sheets of its
// report type.
func (e *ExcelExporter) Export(ctx *ReportContext, filename string) error {
	f := excelize.NewFile()
	defer f.Close()

	styles, err := newSheetStyles(f)
	if err != nil {
		return fmt.Errorf("failed to create styles: %w", err)
	}

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	e.writeSummary(f, ctx)

	switch {
	case ctx.Kickoff != nil:
		if err := e.createTimelineSheet(f, "Timeline", ctx.Kickoff.Activities, styles); err != nil {
			return fmt.Errorf("failed to create timeline sheet: %w", err)
		}
	case ctx.Progress != nil:
		if err := e.createProgressSheets(f, ctx.Progress, styles); err != nil {
			return fmt.Errorf("failed to create progress sheets: %w", err)
		}
	case ctx.Final != nil:
		if err := e.createCameraSheet(f, "Cameras", ctx.Final.Cameras, styles); err != nil {
			return fmt.Errorf("failed to create camera sheet: %w", err)
		}
	}

	f.SetActiveSheet(0)

	if err := f.SaveAs(filepath.Join(e.OutputDir, filename)); err != nil {
		return fmt.Errorf("failed to save excel file: %w", err)
	}
	return nil
}

func (e *ExcelExporter) writeSummary(f *excelize.File, ctx *ReportContext) {
	rows := [][2]any{
		{"Report", ctx.Title},
		{"Project", ctx.ProjectName},
		{"Project Key", ctx.ProjectKey},
		{"Type", ctx.TypeLabel},
		{"Date", ctx.ReportDate},
	}
	if ctx.Progress != nil {
		rows = append(rows,
			[2]any{"Completion %", ctx.Progress.Percentage},
			[2]any{"Resolved", ctx.Progress.DoneCount},
			[2]any{"Total", ctx.Progress.TotalCount},
			[2]any{"Blockers", ctx.Progress.Blockers},
		)
	}

	for i, r := range rows {
		f.SetCellValue(summarySheet, cellName(1, i+1), r[0])
		f.SetCellValue(summarySheet, cellName(2, i+1), r[1])
	}
	f.SetColWidth(summarySheet, "A", "A", 18)
	f.SetColWidth(summarySheet, "B", "B", 60)
}

func (e *ExcelExporter) writeHeader(f *excelize.File, sheetName string, headers []string, style int) {
	for col, header := range headers {
		cell := cellName(col+1, 1)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, style)
	}
	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// createTimelineSheet lays the entries out as a Gantt grid: one column per day,
// planned days shaded grey and the completed share in the brand colour.
func (e *ExcelExporter) createTimelineSheet(f *excelize.File, sheetName string, entries []TimelineEntry, styles sheetStyles) error {
	if _, err := f.NewSheet(sheetName); err != nil {
		return err
	}

	headers := []string{"#", "Key", "Summary", "Status", "Start", "End", "Days", "Progress %"}
	fixed := len(headers)

	var first, last time.Time
	for i, entry := range entries {
		if i == 0 || entry.Start.Before(first) {
			first = entry.Start
		}
		if i == 0 || entry.End.After(last) {
			last = entry.End
		}
	}
	days := 0
	if len(entries) > 0 {
		days = int(last.Sub(first).Hours() / 24)
	}
	if days > maxColumns-fixed {
		days = maxColumns - fixed
	}
	for d := 0; d < days; d++ {
		headers = append(headers, first.AddDate(0, 0, d).Format("01-02"))
	}
	e.writeHeader(f, sheetName, headers, styles.header)

	for i, entry := range entries {
		row := i + 2
		f.SetCellValue(sheetName, cellName(1, row), i+1)
		f.SetCellValue(sheetName, cellName(2, row), entry.Label)
		f.SetCellValue(sheetName, cellName(3, row), entry.Summary)
		f.SetCellValue(sheetName, cellName(4, row), entry.Status)
		f.SetCellValue(sheetName, cellName(5, row), entry.Start.Format(DateLayout))
		f.SetCellValue(sheetName, cellName(6, row), entry.End.Format(DateLayout))
		f.SetCellValue(sheetName, cellName(7, row), entry.DurationDays)
		f.SetCellValue(sheetName, cellName(8, row), entry.Progress)

		offset := int(entry.Start.Sub(first).Hours() / 24)
		doneDays := int(float64(entry.DurationDays) * entry.Progress / 100)
		for d := 0; d < entry.DurationDays && offset+d < days; d++ {
			cell := cellName(fixed+1+offset+d, row)
			style := styles.planned
			if d < doneDays {
				style = styles.progress
			}
			if err := f.SetCellStyle(sheetName, cell, cell, style); err != nil {
				return fmt.Errorf("failed to shade %s: %w", cell, err)
			}
		}
	}

	f.SetColWidth(sheetName, "A", "A", 5)
	f.SetColWidth(sheetName, "B", "B", 12)
	f.SetColWidth(sheetName, "C", "C", 40)
	f.SetColWidth(sheetName, "D", "H", 12)
	if days > 0 {
		f.SetColWidth(sheetName, columnLetter(fixed+1), columnLetter(fixed+days), 6)
	}
	return nil
}

func (e *ExcelExporter) createProgressSheets(f *excelize.File, p *ProgressDetails, styles sheetStyles) error {
	const critical = "Critical Path"
	if _, err := f.NewSheet(critical); err != nil {
		return err
	}
	e.writeHeader(f, critical, []string{"#", "Key", "Summary", "Reason"}, styles.header)
	for i, flag := range p.CriticalPath {
		row := i + 2
		f.SetCellValue(critical, cellName(1, row), i+1)
		f.SetCellValue(critical, cellName(2, row), flag.Key)
		f.SetCellValue(critical, cellName(3, row), flag.Summary)
		f.SetCellValue(critical, cellName(4, row), flag.Reason)
		f.SetCellStyle(critical, cellName(4, row), cellName(4, row), styles.alert)
	}
	f.SetColWidth(critical, "C", "C", 40)
	f.SetColWidth(critical, "D", "D", 40)

	if err := e.createItemSheet(f, "Pending", p.Pending, styles); err != nil {
		return err
	}
	return e.createItemSheet(f, "Completed", p.Completed, styles)
}

func (e *ExcelExporter) createItemSheet(f *excelize.File, sheetName string, items []ItemSummary, styles sheetStyles) error {
	sheetName = sanitizeSheetName(sheetName)
	if _, err := f.NewSheet(sheetName); err != nil {
		return err
	}

	e.writeHeader(f, sheetName, []string{"#", "Key", "Summary", "Status", "Priority", "Updated"}, styles.header)
	for i, item := range items {
		row := i + 2
		f.SetCellValue(sheetName, cellName(1, row), i+1)
		f.SetCellValue(sheetName, cellName(2, row), item.Key)
		f.SetCellValue(sheetName, cellName(3, row), item.Summary)
		f.SetCellValue(sheetName, cellName(4, row), item.Status)
		f.SetCellValue(sheetName, cellName(5, row), item.Priority)
		f.SetCellValue(sheetName, cellName(6, row), item.Updated)
	}
	f.SetColWidth(sheetName, "C", "C", 40)
	f.SetColWidth(sheetName, "D", "F", 14)
	return nil
}

func (e *ExcelExporter) createCameraSheet(f *excelize.File, sheetName string, cameras []Camera, styles sheetStyles) error {
	if _, err := f.NewSheet(sheetName); err != nil {
		return err
	}

	e.writeHeader(f, sheetName, []string{"Camera", "IP Address", "Telegram Group", "Status"}, styles.header)
	for i, c := range cameras {
		row := i + 2
		f.SetCellValue(sheetName, cellName(1, row), c.Name)
		f.SetCellValue(sheetName, cellName(2, row), c.IP)
		f.SetCellValue(sheetName, cellName(3, row), c.TelegramGroup)
		f.SetCellValue(sheetName, cellName(4, row), c.Status)
	}
	f.SetColWidth(sheetName, "A", "D", 24)
	return nil
}

func cellName(col, row int) string {
	return fmt.Sprintf("%s%d", columnLetter(col), row)
}

func columnLetter(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}

func sanitizeSheetName(name string) string {
	name = strings.ReplaceAll(name, "/", "-")
	name = strings.ReplaceAll(name, "\\", "-")
	name = strings.ReplaceAll(name, "?", "")
	name = strings.ReplaceAll(name, "*", "")
	name = strings.ReplaceAll(name, "[", "(")
	name = strings.ReplaceAll(name, "]", ")")

	if len(name) > 31 {
		name = name[:31]
	}

	return name
}
