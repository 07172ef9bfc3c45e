package dto

import calendardomain "inboxcal-backend/internal/calendar/domain"

type ListEventsRequest struct {
	Search string `form:"search"`
}

type EventsResponse struct {
	Events []*calendardomain.CalendarItem `json:"events"`
}
