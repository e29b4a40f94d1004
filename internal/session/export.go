package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// ErrExport indicates the log could not be serialized to a spreadsheet.
var ErrExport = errors.New("export failed")

// SheetName is the single sheet holding the conversation log.
const SheetName = "ChatHistory"

const timeLayout = "2006-01-02 15:04:05"

var exportHeader = []interface{}{"chat_id", "created_at", "query", "response_text", "run_time"}

// ExportXLSX serializes all records into an xlsx workbook, one row per
// record in log order under a header row. An empty log yields a header-only
// sheet.
func (l *Log) ExportXLSX() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExport, err)
	}
	if err := f.SetSheetRow(SheetName, "A1", &exportHeader); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExport, err)
	}

	for i, rec := range l.Records() {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrExport, err)
		}
		row := []interface{}{
			rec.ID.String(),
			rec.CreatedAt.Format(timeLayout),
			rec.Query,
			rec.Response,
			rec.RunTime.Seconds(),
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrExport, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExport, err)
	}
	return buf.Bytes(), nil
}

// ExportFileName derives the download name from the source document path and
// a timestamp suffix.
func ExportFileName(documentPath string, now time.Time) string {
	return fmt.Sprintf("%s_%s.xlsx", documentPath, now.Format("20060102_150405"))
}
