package domain

import "time"

// Modal is one entry of the overlay registry.
// swagger:model Modal
type Modal struct {
	ID       string    `json:"id"`
	Open     bool      `json:"open"`
	Content  any       `json:"content,omitempty"`
	OpenedAt time.Time `json:"openedAt"`
}

// ModalRegistry is a per-owner keyed registry of overlay panels.
type ModalRegistry interface {
	Open(owner, id string, content any) Modal
	Close(owner, id string)
	IsOpen(owner, id string) bool
	Content(owner, id string) (any, bool)
	List(owner string) []Modal
}

// Modal ids used by the registration flow.
const ModalRegister = "register"
