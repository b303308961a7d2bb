package report

import (
	"encoding/csv"
	"io"
	"time"

	"wlandoctor/internal/model"
)

// WriteCSV writes the report's findings to CSV with a fixed column order.
func WriteCSV(w io.Writer, rep *model.Report) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := []string{
		"analysis_time",
		"run_id",
		"client_mac",
		"status",
		"stage",
		"name",
		"value",
		"severity",
		"issue",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, f := range rep.Findings {
		record := []string{
			rep.Timestamp.UTC().Format(time.RFC3339),
			rep.RunID,
			rep.ClientMAC,
			string(rep.Status),
			f.Stage,
			f.Name,
			f.Value,
			string(f.Severity),
			f.Issue,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
