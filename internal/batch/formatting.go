package batch

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatResult formats a batch result in the given output format.
func FormatResult(result *Result, format string) (string, error) {
	switch format {
	case "json":
		return formatJSON(result)
	case "csv":
		return formatCSV(result)
	default: // text
		return formatText(result), nil
	}
}

type itemReport struct {
	Name    string `json:"name,omitempty"`
	Data    string `json:"data"`
	Path    string `json:"path,omitempty"`
	Bytes   int    `json:"bytes,omitempty"`
	Error   string `json:"error,omitempty"`
	Success bool   `json:"success"`
}

// formatJSON formats the result as indented JSON.
func formatJSON(result *Result) (string, error) {
	report := struct {
		Items      []itemReport `json:"items"`
		Total      int          `json:"total"`
		Succeeded  int          `json:"succeeded"`
		Failed     int          `json:"failed"`
		DurationMs int64        `json:"duration_ms"`
		Workers    int          `json:"workers"`
	}{
		Items:      make([]itemReport, len(result.Items)),
		Total:      len(result.Items),
		Succeeded:  result.Succeeded(),
		Failed:     result.Failed(),
		DurationMs: result.Duration.Milliseconds(),
		Workers:    result.Workers,
	}

	for i, item := range result.Items {
		report.Items[i] = itemReport{
			Name:    item.Entry.Name,
			Data:    item.Entry.Data,
			Path:    item.Path,
			Bytes:   item.Bytes,
			Success: item.Err == nil,
		}
		if item.Err != nil {
			report.Items[i].Error = item.Err.Error()
		}
	}

	bts, err := json.MarshalIndent(report, "", "  ")
	return string(bts), err
}

// formatCSV formats the result as CSV.
func formatCSV(result *Result) (string, error) {
	var csvData [][]string
	csvData = append(csvData, []string{"name", "data", "path", "bytes", "status", "error"})

	for _, item := range result.Items {
		status := "ok"
		errMsg := ""
		if item.Err != nil {
			status = "error"
			errMsg = item.Err.Error()
		}
		csvData = append(csvData, []string{
			item.Entry.Name,
			item.Entry.Data,
			item.Path,
			strconv.Itoa(item.Bytes),
			status,
			errMsg,
		})
	}

	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.WriteAll(csvData); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// formatText formats the result as a human-readable summary.
func formatText(result *Result) string {
	var sb strings.Builder
	for _, item := range result.Items {
		if item.Err != nil {
			fmt.Fprintf(&sb, "FAIL  %s: %v\n", item.Entry.Data, item.Err)
			continue
		}
		fmt.Fprintf(&sb, "OK    %s -> %s (%d bytes)\n", item.Entry.Data, item.Path, item.Bytes)
	}
	fmt.Fprintf(&sb, "\n%d total, %d succeeded, %d failed in %v (%d workers)\n",
		len(result.Items), result.Succeeded(), result.Failed(), result.Duration.Round(time.Millisecond), result.Workers)
	return sb.String()
}
