package dto

import syncdomain "inboxcal-backend/internal/sync/domain"

type SyncResponse struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
}

type InProgressResponse struct {
	Message string `json:"message"`
}

type StatusResponse struct {
	States []*syncdomain.SyncState `json:"states"`
}
