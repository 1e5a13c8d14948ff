package domain

import (
	"context"
	"time"
)

// Comment is a chat message posted during a live event.
// swagger:model Comment
type Comment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// EventRating holds the star ratings of one event, keyed by user id.
type EventRating struct {
	Ratings map[string]int `json:"ratings"`
}

// RatingSummary is the aggregate returned after rating an event.
// swagger:model RatingSummary
type RatingSummary struct {
	EventID int64   `json:"eventId"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
	Yours   int     `json:"yours,omitempty"`
}

// LiveSession is what a viewer receives when joining a live event.
// swagger:model LiveSession
type LiveSession struct {
	Event    *Event         `json:"event"`
	Comments []*Comment     `json:"comments"`
	Rating   *RatingSummary `json:"rating"`
}

// CommentBroadcaster fans a new comment out to the viewers of an event.
type CommentBroadcaster interface {
	Broadcast(eventID int64, comment *Comment)
}

// LiveService drives the live event page: chat and ratings.
type LiveService interface {
	JoinLiveEvent(ctx context.Context, eventID int64, userID string) (*LiveSession, error)
	ListComments(ctx context.Context, eventID int64) ([]*Comment, error)
	AddComment(ctx context.Context, eventID int64, user *User, text string) (*Comment, error)
	RateEvent(ctx context.Context, eventID int64, userID string, stars int) (*RatingSummary, error)
	// EnsureLiveDemoEvent adds the demo live event once per store.
	EnsureLiveDemoEvent(ctx context.Context) error
}
