// Package export renders attendee lists as CSV, Excel and PDF files.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"eventnexus/internal/domain"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// Header is the column row shared by every format.
var Header = []string{"Name", "User ID", "Email", "Event", "Registration Date", "Payment Status"}

const (
	contentTypeCSV   = "text/csv"
	contentTypeExcel = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF   = "application/pdf"

	dateLayout = "2006-01-02 15:04"
	sheetName  = "Attendees"
)

type attendeeExporter struct{}

// NewAttendeeExporter returns the default AttendeeExporter.
func NewAttendeeExporter() domain.AttendeeExporter {
	return &attendeeExporter{}
}

func (e *attendeeExporter) Export(eventID int64, format string, rows []domain.AttendeeRow) ([]byte, string, string, error) {
	filename := func(ext string) string { return fmt.Sprintf("attendees-event-%d.%s", eventID, ext) }
	switch format {
	case domain.FormatCSV, "":
		data, err := e.exportCSV(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, filename("csv"), contentTypeCSV, nil
	case domain.FormatExcel:
		data, err := e.exportExcel(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, filename("xlsx"), contentTypeExcel, nil
	case domain.FormatPDF:
		data, err := e.exportPDF(eventID, rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, filename("pdf"), contentTypePDF, nil
	default:
		return nil, "", "", fmt.Errorf("unsupported export format %q: %w", format, domain.ErrInvalidInput)
	}
}

func record(r domain.AttendeeRow) []string {
	date := ""
	if r.RegistrationDate != nil {
		date = r.RegistrationDate.UTC().Format(dateLayout)
	}
	return []string{r.Name, r.UserID, r.Email, r.Event, date, string(r.PaymentStatus)}
}

func (e *attendeeExporter) exportCSV(rows []domain.AttendeeRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(Header); err != nil {
		return nil, err
	}
	for _, r := range rows {
		if err := w.Write(record(r)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *attendeeExporter) exportExcel(rows []domain.AttendeeRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}
	for i, h := range Header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, err
		}
	}
	for i, r := range rows {
		for j, v := range record(r) {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, err
			}
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *attendeeExporter) exportPDF(eventID int64, rows []domain.AttendeeRow) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	title := fmt.Sprintf("Attendees - event %d", eventID)
	if len(rows) > 0 && rows[0].Event != "" {
		title = "Attendees - " + rows[0].Event
	}
	pdf.Cell(0, 10, title)
	pdf.Ln(15)

	widths := []float64{45, 45, 60, 60, 35, 30}
	pdf.SetFont("Arial", "B", 9)
	for i, h := range Header {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, r := range rows {
		for i, v := range record(r) {
			pdf.CellFormat(widths[i], 6, tr(v), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
