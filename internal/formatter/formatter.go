// package formatter provides functions to export attendance logs to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/kdlcruz/tito/internal/models"
	"github.com/kdlcruz/tito/internal/shared"
)

// ExportToCSV converts attendance logs to CSV format with columns: ID, Date, Type, Time In, Time Out, Duration, Status, Remarks
func ExportToCSV(logs []models.AttendanceLog) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Date", "Type", "Time In", "Time Out", "Duration", "Status", "Remarks"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, entry := range logs {
		record := []string{
			entry.ID,
			entry.Date,
			string(entry.LogType),
			entry.TimeIn,
			entry.TimeOut,
			entry.WorkDuration,
			entry.Status,
			entry.AdminRemarks,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts attendance logs to a Markdown report with a summary and a log table
func ExportToMarkdown(email string, logs []models.AttendanceLog) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# Attendance Report: %s\n\n", email))
	buf.WriteString(fmt.Sprintf("**Logs**: %d\n", len(logs)))
	buf.WriteString(fmt.Sprintf("**Completed**: %d\n\n", countByStatus(logs, models.LogStatusSent)))

	buf.WriteString("## Logs\n\n")
	buf.WriteString("| Date | Type | Time In | Time Out | Duration | Status |\n")
	buf.WriteString("| --- | --- | --- | --- | --- | --- |\n")
	for _, entry := range logs {
		buf.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s |\n",
			entry.Date,
			entry.LogType,
			orDash(entry.TimeIn),
			orDash(entry.TimeOut),
			orDash(entry.WorkDuration),
			entry.Status,
		))
	}

	flagged := filterByStatus(logs, models.LogStatusFlagged)
	if len(flagged) > 0 {
		buf.WriteString("\n## Flagged\n\n")
		for _, entry := range flagged {
			remarks := entry.AdminRemarks
			if remarks == "" {
				remarks = "no remarks"
			}
			buf.WriteString(fmt.Sprintf("- %s (%s): %s\n", entry.Date, entry.LogType, remarks))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts attendance logs to plain text format
func ExportToText(email string, logs []models.AttendanceLog) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Intern: %s\n", email))
	buf.WriteString(fmt.Sprintf("Logs: %d\n\n", len(logs)))

	for i, entry := range logs {
		buf.WriteString(fmt.Sprintf("%d. %s [%s] %s - %s (%s)\n",
			i+1,
			entry.Date,
			entry.LogType,
			orDash(entry.TimeIn),
			orDash(entry.TimeOut),
			entry.Status,
		))
	}

	return buf.Bytes(), nil
}

// ToSummaryJSON generates an indented JSON representation of a log summary
func ToSummaryJSON(email string, logs []models.AttendanceLog) ([]byte, error) {
	summary := struct {
		Email     string `json:"email"`
		Total     int    `json:"total"`
		Completed int    `json:"completed"`
		Ongoing   int    `json:"ongoing"`
		Flagged   int    `json:"flagged"`
	}{
		Email:     email,
		Total:     len(logs),
		Completed: countByStatus(logs, models.LogStatusSent),
		Ongoing:   countByStatus(logs, models.LogStatusOngoing),
		Flagged:   countByStatus(logs, models.LogStatusFlagged),
	}
	return shared.MarshalJSON(summary, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	LogsFile    string
	SummaryFile string
}

// WriteCSVExport exports attendance logs to CSV with an accompanying summary JSON file.
//
// Defaults to the email's local part as the base filename & creates {base}_logs.csv and {base}_summary.json
func WriteCSVExport(email string, logs []models.AttendanceLog, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath, _, _ = strings.Cut(email, "@")
	}

	csvData, err := ExportToCSV(logs)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	logsFile := baseFilepath + "_logs.csv"
	if err := os.WriteFile(logsFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	summaryData, err := ToSummaryJSON(email, logs)
	if err != nil {
		return nil, fmt.Errorf("failed to generate summary: %w", err)
	}

	summaryFile := baseFilepath + "_summary.json"
	if err := os.WriteFile(summaryFile, summaryData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write summary file: %w", err)
	}

	return &CSVExportResult{LogsFile: logsFile, SummaryFile: summaryFile}, nil
}

func countByStatus(logs []models.AttendanceLog, status string) int {
	n := 0
	for _, entry := range logs {
		if entry.Status == status {
			n++
		}
	}
	return n
}

func filterByStatus(logs []models.AttendanceLog, status string) []models.AttendanceLog {
	var out []models.AttendanceLog
	for _, entry := range logs {
		if entry.Status == status {
			out = append(out, entry)
		}
	}
	return out
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
