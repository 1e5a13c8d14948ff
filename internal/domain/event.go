package domain

import (
	"context"
	"encoding/json"
	"slices"
	"strings"
	"time"
)

// LiveDemoEventID is the id reserved for the live demo event added at startup.
const LiveDemoEventID int64 = 99999

// EventDateLayout is the display format of Event.Date, e.g. "June 15, 2025".
const EventDateLayout = "January 2, 2006"

// Event is a schedulable occasion users can view and register for.
// swagger:model Event
type Event struct {
	ID                  int64           `json:"id"`
	Title               string          `json:"title"`
	Description         string          `json:"description"`
	ExtendedDescription string          `json:"extendedDescription,omitempty"`
	Date                string          `json:"date"`
	Time                string          `json:"time"`
	Location            string          `json:"location"`
	Image               string          `json:"image"`
	Tags                []string        `json:"tags"`
	Price               *float64        `json:"price,omitempty"`
	IsPaid              bool            `json:"isPaid"`
	Attendees           int             `json:"attendees"`
	AvailableSpots      *int            `json:"availableSpots,omitempty"`
	Featured            bool            `json:"featured,omitempty"`
	Visible             bool            `json:"visible"`
	LearningPoints      []string        `json:"learningPoints,omitempty"`
	Schedule            []ScheduleItem  `json:"schedule,omitempty"`
	Speakers            []Speaker       `json:"speakers,omitempty"`
	TicketPackages      []TicketPackage `json:"ticketPackages,omitempty"`
}

// ScheduleItem is one slot of an event agenda.
type ScheduleItem struct {
	Time        string           `json:"time"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Speaker     *ScheduleSpeaker `json:"speaker,omitempty"`
}

// ScheduleSpeaker is the speaker summary shown on an agenda slot.
type ScheduleSpeaker struct {
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// TicketPackage is a purchasable tier of a paid event.
type TicketPackage struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Benefits []string `json:"benefits"`
}

// UnmarshalJSON decodes an event and applies the load-time defaults: a missing
// "visible" means visible, and isPaid is always derived from price.
func (e *Event) UnmarshalJSON(data []byte) error {
	type plain Event
	aux := struct {
		*plain
		Visible *bool `json:"visible"`
	}{plain: (*plain)(e)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	e.Visible = aux.Visible == nil || *aux.Visible
	e.DerivePaid()
	return nil
}

// DerivePaid recomputes IsPaid from Price. It is the only place the flag is set.
func (e *Event) DerivePaid() {
	e.IsPaid = e.Price != nil && *e.Price > 0
}

// IsPast reports whether the event date lies before the day of now.
// Dates that do not parse are treated as upcoming.
func (e *Event) IsPast(now time.Time) bool {
	d, err := time.ParseInLocation(EventDateLayout, strings.TrimSpace(e.Date), now.Location())
	if err != nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return d.Before(today)
}

// HasTag reports whether the event is tagged with tag (exact match).
func (e *Event) HasTag(tag string) bool {
	return slices.Contains(e.Tags, tag)
}

// Clone returns a deep copy so callers cannot mutate cached state.
func (e *Event) Clone() *Event {
	c := *e
	c.Tags = slices.Clone(e.Tags)
	c.LearningPoints = slices.Clone(e.LearningPoints)
	c.TicketPackages = slices.Clone(e.TicketPackages)
	for i := range c.TicketPackages {
		c.TicketPackages[i].Benefits = slices.Clone(c.TicketPackages[i].Benefits)
	}
	c.Speakers = slices.Clone(e.Speakers)
	for i := range c.Speakers {
		if s := c.Speakers[i].Social; s != nil {
			cp := *s
			c.Speakers[i].Social = &cp
		}
	}
	c.Schedule = slices.Clone(e.Schedule)
	for i := range c.Schedule {
		if sp := c.Schedule[i].Speaker; sp != nil {
			cp := *sp
			c.Schedule[i].Speaker = &cp
		}
	}
	if e.Price != nil {
		p := *e.Price
		c.Price = &p
	}
	if e.AvailableSpots != nil {
		n := *e.AvailableSpots
		c.AvailableSpots = &n
	}
	return &c
}

// EventInput is the data accepted by EventService.AddEvent. Visible defaults to true.
type EventInput struct {
	Title               string
	Description         string
	ExtendedDescription string
	Date                string
	Time                string
	Location            string
	Image               string
	Tags                []string
	Price               *float64
	AvailableSpots      *int
	Featured            bool
	Visible             *bool
	LearningPoints      []string
	Schedule            []ScheduleItem
	Speakers            []Speaker
	TicketPackages      []TicketPackage
}

// EventPatch is a shallow partial update. Nil fields are left unchanged.
type EventPatch struct {
	Title               *string
	Description         *string
	ExtendedDescription *string
	Date                *string
	Time                *string
	Location            *string
	Image               *string
	Tags                *[]string
	Price               *float64
	AvailableSpots      *int
	Featured            *bool
	Visible             *bool
	LearningPoints      *[]string
	Schedule            *[]ScheduleItem
	Speakers            *[]Speaker
	TicketPackages      *[]TicketPackage
}

// Apply merges the patch into e and re-derives IsPaid.
func (p *EventPatch) Apply(e *Event) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.ExtendedDescription != nil {
		e.ExtendedDescription = *p.ExtendedDescription
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Time != nil {
		e.Time = *p.Time
	}
	if p.Location != nil {
		e.Location = *p.Location
	}
	if p.Image != nil {
		e.Image = *p.Image
	}
	if p.Tags != nil {
		e.Tags = slices.Clone(*p.Tags)
	}
	if p.Price != nil {
		price := *p.Price
		e.Price = &price
	}
	if p.AvailableSpots != nil {
		spots := *p.AvailableSpots
		e.AvailableSpots = &spots
	}
	if p.Featured != nil {
		e.Featured = *p.Featured
	}
	if p.Visible != nil {
		e.Visible = *p.Visible
	}
	if p.LearningPoints != nil {
		e.LearningPoints = slices.Clone(*p.LearningPoints)
	}
	if p.Schedule != nil {
		e.Schedule = slices.Clone(*p.Schedule)
	}
	if p.Speakers != nil {
		e.Speakers = slices.Clone(*p.Speakers)
	}
	if p.TicketPackages != nil {
		e.TicketPackages = slices.Clone(*p.TicketPackages)
	}
	e.DerivePaid()
}

// Timeframe filters events relative to today.
type Timeframe string

const (
	TimeframeAll      Timeframe = ""
	TimeframeUpcoming Timeframe = "upcoming"
	TimeframePast     Timeframe = "past"
)

// EventFilter narrows ListEvents.
type EventFilter struct {
	Search        string
	Category      string
	Location      string
	Timeframe     Timeframe
	IncludeHidden bool
	FeaturedOnly  bool
	Pagination    PaginationParams
}

// Matches reports whether e passes every non-empty criterion of the filter.
func (f EventFilter) Matches(e *Event, now time.Time) bool {
	if !f.IncludeHidden && !e.Visible {
		return false
	}
	if f.FeaturedOnly && !e.Featured {
		return false
	}
	if s := strings.ToLower(strings.TrimSpace(f.Search)); s != "" {
		if !strings.Contains(strings.ToLower(e.Title), s) && !strings.Contains(strings.ToLower(e.Description), s) {
			return false
		}
	}
	if f.Category != "" && !e.HasTag(f.Category) {
		return false
	}
	if f.Location != "" && !strings.EqualFold(e.Location, f.Location) {
		return false
	}
	switch f.Timeframe {
	case TimeframeUpcoming:
		return !e.IsPast(now)
	case TimeframePast:
		return e.IsPast(now)
	}
	return true
}

// EventService owns the canonical event list, registrations and speaker proposals.
type EventService interface {
	ListEvents(ctx context.Context, filter EventFilter) ([]*Event, int, error)
	AddEvent(ctx context.Context, in *EventInput) (*Event, error)
	UpdateEvent(ctx context.Context, id int64, patch *EventPatch) (*Event, error)
	ToggleEventVisibility(ctx context.Context, id int64) (*Event, error)
	DeleteEvent(ctx context.Context, id int64) error
	GetEventByID(ctx context.Context, id int64) (*Event, error)
	// EnsureEvent inserts e with its own id unless an event with that id exists.
	EnsureEvent(ctx context.Context, e *Event) (added bool, err error)

	// RegisterForEvent registers the user for the event. Returns (reg, created, err): created is
	// false, with the existing registration, when the user was already registered.
	RegisterForEvent(ctx context.Context, eventID int64, userID string) (*Registration, bool, error)
	// RegisterWithPayment is RegisterForEvent with an explicit payment status.
	RegisterWithPayment(ctx context.Context, eventID int64, userID string, status PaymentStatus) (*Registration, bool, error)
	GetUserRegisteredEvents(ctx context.Context, userID string) ([]*Event, error)
	ListRegistrations(ctx context.Context, eventID int64) ([]*Registration, error)

	AddSpeaker(ctx context.Context, eventID int64, speaker *Speaker) (*Speaker, error)
	UpdateSpeaker(ctx context.Context, eventID int64, speakerID string, patch *SpeakerPatch) (*Speaker, error)
	RemoveSpeaker(ctx context.Context, eventID int64, speakerID string) error
}
