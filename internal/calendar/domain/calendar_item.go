package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Attendee is one invitee as reported by the calendar provider.
type Attendee struct {
	Email          string `json:"email"`
	DisplayName    string `json:"displayName,omitempty"`
	ResponseStatus string `json:"responseStatus,omitempty"`
	Organizer      bool   `json:"organizer"`
	Self           bool   `json:"self"`
}

// CalendarItem mirrors one remote event instance. (UserID, EventID) is the
// upsert key. IsAllDay is true iff the remote start had no time of day.
type CalendarItem struct {
	ID          string                        `json:"id" gorm:"primaryKey"`
	UserID      string                        `json:"user_id" gorm:"not null;uniqueIndex:idx_event_user_event"`
	EventID     string                        `json:"event_id" gorm:"not null;uniqueIndex:idx_event_user_event"`
	CalendarID  string                        `json:"calendar_id"`
	Summary     string                        `json:"summary"`
	Description *string                       `json:"description"`
	Location    *string                       `json:"location"`
	StartTime   time.Time                     `json:"start_time" gorm:"index"`
	EndTime     time.Time                     `json:"end_time"`
	MeetingLink *string                       `json:"meeting_link"`
	Attendees   datatypes.JSONSlice[Attendee] `json:"attendees"`
	IsAllDay    bool                          `json:"is_all_day"`
	Status      string                        `json:"status"`
	CreatedAt   time.Time                     `json:"created_at"`
	UpdatedAt   time.Time                     `json:"updated_at"`
}

// EventFilter narrows an upcoming-events listing.
type EventFilter struct {
	From   time.Time
	Search string
	Limit  int
}
