package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

type CSVExporter struct {
	OutputDir string
}

func NewCSVExporter(outputDir string) *CSVExporter {
	return &CSVExporter{OutputDir: outputDir}
}

// Export writes the item table of ctx: activities for kickoff, pending and
// completed items for progress, the camera inventory for final.
func (e *CSVExporter) Export(ctx *ReportContext, filename string) error {
	if err := os.MkdirAll(e.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(filepath.Join(e.OutputDir, filename))
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	var rows [][]string
	switch {
	case ctx.Kickoff != nil:
		rows = activityRows(ctx.Kickoff.Activities)
	case ctx.Progress != nil:
		rows = progressRows(ctx.Progress)
	case ctx.Final != nil:
		rows = cameraRows(ctx.Final.Cameras)
	}

	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

func activityRows(entries []TimelineEntry) [][]string {
	rows := [][]string{{"#", "Key", "Summary", "Status", "Start", "End", "Days", "Progress"}}
	for i, entry := range entries {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			entry.Label,
			entry.Summary,
			entry.Status,
			entry.Start.Format(DateLayout),
			entry.End.Format(DateLayout),
			strconv.Itoa(entry.DurationDays),
			strconv.FormatFloat(entry.Progress, 'f', 1, 64),
		})
	}
	return rows
}

func progressRows(p *ProgressDetails) [][]string {
	reasons := make(map[string]string, len(p.CriticalPath))
	for _, flag := range p.CriticalPath {
		reasons[flag.Key] = flag.Reason
	}

	rows := [][]string{{"#", "Key", "Summary", "Status", "Priority", "State", "Updated", "Critical"}}
	n := 0
	for _, item := range p.Pending {
		n++
		rows = append(rows, []string{strconv.Itoa(n), item.Key, item.Summary, item.Status, item.Priority, "pending", item.Updated, reasons[item.Key]})
	}
	for _, item := range p.Completed {
		n++
		rows = append(rows, []string{strconv.Itoa(n), item.Key, item.Summary, item.Status, item.Priority, "completed", item.Updated, ""})
	}
	return rows
}

func cameraRows(cameras []Camera) [][]string {
	rows := [][]string{{"Camera", "IP Address", "Telegram Group", "Status"}}
	for _, c := range cameras {
		rows = append(rows, []string{c.Name, c.IP, c.TelegramGroup, c.Status})
	}
	return rows
}
