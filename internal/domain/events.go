package domain

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventVehicleChanged  EventType = "vehicle.changed"
	EventVehicleDeleted  EventType = "vehicle.deleted"
	EventDeliveryChanged EventType = "delivery.changed"
	EventDeliveryDeleted EventType = "delivery.deleted"
	EventRouteCalculated EventType = "route.calculated"
	EventSettingsChanged EventType = "settings.changed"
)

// ChangeEvent tells dashboards that backend state changed.
type ChangeEvent struct {
	ID   string    `json:"id"`
	Type EventType `json:"type"`
	// Entity id, zero for settings.
	EntityID int64     `json:"entity_id,omitempty"`
	At       time.Time `json:"at"`
}

// NewChangeEvent stamps an event with a fresh id and the current time.
func NewChangeEvent(t EventType, entityID int64) ChangeEvent {
	return ChangeEvent{
		ID:       uuid.NewString(),
		Type:     t,
		EntityID: entityID,
		At:       time.Now(),
	}
}
