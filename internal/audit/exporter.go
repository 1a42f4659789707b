package audit

import (
	"bytes"
	"encoding/csv"
	"strings"
	"time"
)

// Exporter writes audit log exports.
type Exporter struct{}

// NewExporter constructs an Exporter.
func NewExporter() *Exporter {
	return &Exporter{}
}

// WriteCSV encodes entries as UTF-8 CSV with a BOM so spreadsheet tools
// detect the Arabic text encoding.
func (e *Exporter) WriteCSV(entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("\xEF\xBB\xBF")
	writer := csv.NewWriter(&buf)
	if err := writer.Write([]string{"المستخدم", "النشاط", "التصنيف", "التفاصيل", "التاريخ"}); err != nil {
		return nil, err
	}
	for _, entry := range entries {
		record := []string{
			entry.ActorName,
			entry.ActionLabel,
			string(entry.Category),
			strings.Join(entry.DetailLines, "; "),
			entry.OccurredAt.Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
