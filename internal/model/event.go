package model

import "time"

// Valid values for the enumerated event columns. The string values are
// stored as-is in MySQL ENUM columns and exchanged verbatim with clients.
const (
	OrganizerIndividual = "individual"
	OrganizerClub       = "club"

	EventTournament = "tournament"
	EventCasual     = "casual"
	EventTraining   = "training"
	EventClub       = "club"

	SkillBeginner     = "beginner"
	SkillIntermediate = "intermediate"
	SkillAdvanced     = "advanced"
)

// Event mirrors the `events` table. An event is owned exclusively by its
// organizer; the organizer never holds a registration for it.
//
// Fields:
//  ID            – primary key (UUID string), exposed as event_id.
//  OrganizerID   – user who created the event.
//  OrganizerKind – 'individual' or 'club'.
//  Title         – event title.
//  Description   – free-form description.
//  City          – city the event takes place in.
//  Address       – street address.
//  Date          – calendar date of the event.
//  Time          – start time as "HH:MM".
//  EventType     – tournament | casual | training | club.
//  SkillLevel    – beginner | intermediate | advanced.
//  MaxSeats      – seat capacity; registrations never exceed it.
//  ImageURL      – optional cover image.
//  CreatedAt     – timestamp of creation.
type Event struct {
	ID            string    `json:"event_id"`
	OrganizerID   string    `json:"organizer_id"`
	OrganizerKind string    `json:"organizer_kind"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	City          string    `json:"city"`
	Address       string    `json:"address"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	EventType     string    `json:"event_type"`
	SkillLevel    string    `json:"skill_level"`
	MaxSeats      int       `json:"max_seats"`
	ImageURL      string    `json:"image_url"`
	CreatedAt     time.Time `json:"created_at"`
}

// ValidEventType reports whether s is one of the accepted event types.
func ValidEventType(s string) bool {
	switch s {
	case EventTournament, EventCasual, EventTraining, EventClub:
		return true
	}
	return false
}

// ValidSkillLevel reports whether s is one of the accepted skill levels.
func ValidSkillLevel(s string) bool {
	switch s {
	case SkillBeginner, SkillIntermediate, SkillAdvanced:
		return true
	}
	return false
}
