package services

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"eventnexus/internal/domain"
)

//go:embed seed_events.json
var seedEventsJSON []byte

// SeedEvents returns the built-in event catalogue used when no events are stored.
func SeedEvents() []domain.Event {
	var events []domain.Event
	if err := json.Unmarshal(seedEventsJSON, &events); err != nil {
		panic(fmt.Sprintf("embedded seed events: %v", err))
	}
	return events
}
