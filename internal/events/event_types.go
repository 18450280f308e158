package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTeacherOnboarded EventType = "teacher_onboarded"
	EventPositionCreated  EventType = "position_created"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	SubjectID string    `json:"subject_id"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(eventType EventType, subjectID string, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SubjectID: subjectID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// TeacherOnboardedPayload payload.
type TeacherOnboardedPayload struct {
	Code        string   `json:"code"`
	Email       string   `json:"email"`
	UserID      string   `json:"user_id"`
	PositionIDs []string `json:"position_ids"`
}

// PositionCreatedPayload payload.
type PositionCreatedPayload struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
