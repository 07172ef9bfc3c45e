package gcal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"
)

func TestToCalendarItem_AllDayFollowsStartTimeOfDay(t *testing.T) {
	tests := []struct {
		name  string
		start *calendar.EventDateTime
		want  bool
	}{
		{"timed", &calendar.EventDateTime{DateTime: "2026-03-01T09:00:00+01:00"}, false},
		{"date only", &calendar.EventDateTime{Date: "2026-03-01"}, true},
		{"both set", &calendar.EventDateTime{Date: "2026-03-01", DateTime: "2026-03-01T09:00:00Z"}, false},
		{"missing", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := ToCalendarItem("u1", &calendar.Event{Id: "e", Start: tt.start})
			assert.Equal(t, tt.want, item.IsAllDay)
		})
	}
}

func TestToCalendarItem_Fields(t *testing.T) {
	ev := &calendar.Event{
		Id:       "evt-1",
		Location: "Room 4",
		Start:    &calendar.EventDateTime{DateTime: "2026-03-01T09:00:00+01:00"},
		End:      &calendar.EventDateTime{DateTime: "2026-03-01T10:30:00+01:00"},
		Attendees: []*calendar.EventAttendee{
			{Email: "a@example.com", DisplayName: "A", ResponseStatus: "accepted", Organizer: true},
			{Email: "me@example.com", Self: true},
		},
	}

	item := ToCalendarItem("u1", ev)
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "evt-1", item.EventID)
	assert.Equal(t, "primary", item.CalendarID)
	assert.Equal(t, "Untitled Event", item.Summary)
	assert.Equal(t, "confirmed", item.Status)
	assert.Nil(t, item.Description)
	require.NotNil(t, item.Location)
	assert.Equal(t, "Room 4", *item.Location)
	assert.Equal(t, time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC), item.StartTime)
	assert.Equal(t, time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC), item.EndTime)
	assert.Nil(t, item.MeetingLink)
	require.Len(t, item.Attendees, 2)
	assert.True(t, item.Attendees[0].Organizer)
	assert.True(t, item.Attendees[1].Self)
}

func TestToCalendarItem_DateOnlyIsUTCMidnight(t *testing.T) {
	item := ToCalendarItem("u1", &calendar.Event{
		Id:     "e",
		Status: "tentative",
		Start:  &calendar.EventDateTime{Date: "2026-03-01"},
		End:    &calendar.EventDateTime{Date: "2026-03-02"},
	})
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), item.StartTime)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), item.EndTime)
	assert.Equal(t, "tentative", item.Status)
	assert.NotNil(t, item.Attendees)
}

func TestToCalendarItem_BadDateTimeFallsBackToDate(t *testing.T) {
	item := ToCalendarItem("u1", &calendar.Event{
		Id:    "e",
		Start: &calendar.EventDateTime{DateTime: "tomorrow at noon", Date: "2026-03-01"},
		End:   &calendar.EventDateTime{DateTime: "2026-03-01T11:00:00+01:00"},
	})
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), item.StartTime)
	assert.Equal(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), item.EndTime)
	assert.False(t, item.IsAllDay)
}

func TestExtractMeetingLink_Priority(t *testing.T) {
	desc := "Zoom: https://acme.zoom.us/j/123456 or Meet: https://meet.google.com/abc-defg-hij"

	link := ExtractMeetingLink(&calendar.Event{Description: desc})
	require.NotNil(t, link)
	assert.Equal(t, "https://meet.google.com/abc-defg-hij", *link)

	link = ExtractMeetingLink(&calendar.Event{Description: desc, HangoutLink: "https://meet.google.com/xyz"})
	require.NotNil(t, link)
	assert.Equal(t, "https://meet.google.com/xyz", *link)

	link = ExtractMeetingLink(&calendar.Event{
		Description: desc,
		ConferenceData: &calendar.ConferenceData{EntryPoints: []*calendar.EntryPoint{
			{EntryPointType: "phone", Uri: "tel:+1-555"},
			{EntryPointType: "video", Uri: "https://meet.google.com/conf-link"},
		}},
	})
	require.NotNil(t, link)
	assert.Equal(t, "https://meet.google.com/conf-link", *link)
}

func TestExtractMeetingLink_Fallbacks(t *testing.T) {
	link := ExtractMeetingLink(&calendar.Event{Description: "dial https://us02web.zoom.us/j/987 now"})
	require.NotNil(t, link)
	assert.Equal(t, "https://us02web.zoom.us/j/987", *link)

	link = ExtractMeetingLink(&calendar.Event{Description: "Join: https://teams.microsoft.com/l/meetup-join/19%3ameeting_abc/0 thanks"})
	require.NotNil(t, link)
	assert.Equal(t, "https://teams.microsoft.com/l/meetup-join/19%3ameeting_abc/0", *link)

	assert.Nil(t, ExtractMeetingLink(&calendar.Event{Description: "no links here"}))
	assert.Nil(t, ExtractMeetingLink(&calendar.Event{}))
}
