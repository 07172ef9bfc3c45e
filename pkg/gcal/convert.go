package gcal

import (
	"regexp"
	"time"

	"github.com/google/uuid"
	"google.golang.org/api/calendar/v3"

	"inboxcal-backend/internal/calendar/domain"
)

const (
	untitled      = "Untitled Event"
	defaultStatus = "confirmed"
)

// Checked in order; the first match wins.
var meetingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)https://meet\.google\.com/[a-z-]+`),
	regexp.MustCompile(`(?i)https://[a-z0-9.-]*zoom\.us/j/\d+`),
	regexp.MustCompile(`(?i)https://teams\.microsoft\.com/l/meetup-join/[^\s]+`),
}

// ToCalendarItem normalizes one event instance for storage.
func ToCalendarItem(userID string, ev *calendar.Event) *domain.CalendarItem {
	start, allDay := eventTime(ev.Start)
	end, _ := eventTime(ev.End)
	if ev.End == nil {
		end = start
	}

	item := &domain.CalendarItem{
		ID:          uuid.NewString(),
		UserID:      userID,
		EventID:     ev.Id,
		CalendarID:  PrimaryCalendar,
		Summary:     orDefault(ev.Summary, untitled),
		Description: optional(ev.Description),
		Location:    optional(ev.Location),
		StartTime:   start,
		EndTime:     end,
		MeetingLink: ExtractMeetingLink(ev),
		Attendees:   make([]domain.Attendee, 0, len(ev.Attendees)),
		IsAllDay:    allDay,
		Status:      orDefault(ev.Status, defaultStatus),
	}
	for _, a := range ev.Attendees {
		if a == nil {
			continue
		}
		item.Attendees = append(item.Attendees, domain.Attendee{
			Email:          a.Email,
			DisplayName:    a.DisplayName,
			ResponseStatus: a.ResponseStatus,
			Organizer:      a.Organizer,
			Self:           a.Self,
		})
	}
	return item
}

// ExtractMeetingLink prefers structured conferencing data and falls back to
// scanning the description for Meet, Zoom and Teams URLs, in that order.
func ExtractMeetingLink(ev *calendar.Event) *string {
	if ev.HangoutLink != "" {
		return optional(ev.HangoutLink)
	}
	if ev.ConferenceData != nil {
		for _, ep := range ev.ConferenceData.EntryPoints {
			if ep != nil && ep.EntryPointType == "video" && ep.Uri != "" {
				return optional(ep.Uri)
			}
		}
	}
	if ev.Description == "" {
		return nil
	}
	for _, re := range meetingPatterns {
		if link := re.FindString(ev.Description); link != "" {
			return &link
		}
	}
	return nil
}

// eventTime prefers the timed field; a date-only value maps to UTC midnight
// and reports allDay. A missing boundary counts as all-day, matching the
// absence of a time of day. An unparseable DateTime falls back to Date;
// when neither parses the zero time is returned.
func eventTime(et *calendar.EventDateTime) (t time.Time, allDay bool) {
	if et == nil {
		return time.Time{}, true
	}
	allDay = et.DateTime == ""
	if !allDay {
		if parsed, err := time.Parse(time.RFC3339, et.DateTime); err == nil {
			return parsed.UTC(), false
		}
	}
	if parsed, err := time.Parse(time.DateOnly, et.Date); err == nil {
		return parsed, allDay
	}
	return time.Time{}, allDay
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
