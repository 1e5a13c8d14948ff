package domain

import (
	"context"
	"time"
)

// Export formats.
const (
	FormatCSV   = "csv"
	FormatExcel = "xlsx"
	FormatPDF   = "pdf"
)

// AttendeeRow is one line of the attendee export.
// swagger:model AttendeeRow
type AttendeeRow struct {
	Name             string        `json:"name"`
	UserID           string        `json:"userId"`
	Email            string        `json:"email"`
	Event            string        `json:"event"`
	RegistrationDate *time.Time    `json:"registrationDate,omitempty"`
	PaymentStatus    PaymentStatus `json:"paymentStatus,omitempty"`
}

// ExportFile is a rendered export ready to download.
type ExportFile struct {
	Data        []byte
	Filename    string
	ContentType string
}

// AttendeeExporter renders attendee rows in the given format.
// It returns the bytes, the suggested file name and the content type.
type AttendeeExporter interface {
	Export(eventID int64, format string, rows []AttendeeRow) ([]byte, string, string, error)
}

// ExportService builds attendee exports for an event.
type ExportService interface {
	ExportAttendees(ctx context.Context, eventID int64, format string) (*ExportFile, error)
	Attendees(ctx context.Context, eventID int64) ([]AttendeeRow, error)
}

// QREncoder renders a QR code PNG for a URL.
type QREncoder interface {
	EncodePNG(content string, size int) ([]byte, error)
}
