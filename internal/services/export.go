package services

import (
	"context"
	"fmt"
	"time"

	"eventnexus/internal/domain"
)

const (
	anonymousName = "Anonymous"
	unknownEmail  = "N/A"
)

type exportService struct {
	events         domain.EventService
	profiles       domain.ProfileDirectory
	exporter       domain.AttendeeExporter
	contextTimeout time.Duration
}

// NewExportService creates the ExportService.
func NewExportService(events domain.EventService, profiles domain.ProfileDirectory, exporter domain.AttendeeExporter, timeout time.Duration) domain.ExportService {
	return &exportService{events: events, profiles: profiles, exporter: exporter, contextTimeout: timeout}
}

func (s *exportService) Attendees(ctx context.Context, eventID int64) ([]domain.AttendeeRow, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.events.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	regs, err := s.events.ListRegistrations(ctx, eventID)
	if err != nil {
		return nil, err
	}
	profiles, err := s.profiles.ProfilesByID(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve attendee profiles: %w", err)
	}

	rows := make([]domain.AttendeeRow, 0, len(regs))
	for _, r := range regs {
		row := domain.AttendeeRow{
			Name:             anonymousName,
			UserID:           r.UserID,
			Email:            unknownEmail,
			Event:            event.Title,
			RegistrationDate: r.RegisteredAt,
			PaymentStatus:    r.PaymentStatus,
		}
		if p, ok := profiles[r.UserID]; ok {
			if p.Name != "" {
				row.Name = p.Name
			}
			if p.Email != "" {
				row.Email = p.Email
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *exportService) ExportAttendees(ctx context.Context, eventID int64, format string) (*domain.ExportFile, error) {
	rows, err := s.Attendees(ctx, eventID)
	if err != nil {
		return nil, err
	}
	data, filename, contentType, err := s.exporter.Export(eventID, format, rows)
	if err != nil {
		return nil, fmt.Errorf("export attendees: %w", err)
	}
	return &domain.ExportFile{Data: data, Filename: filename, ContentType: contentType}, nil
}
