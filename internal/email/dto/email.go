package dto

import emaildomain "inboxcal-backend/internal/email/domain"

type ListEmailsRequest struct {
	Filter string `form:"filter"`
	Search string `form:"search"`
}

type EmailsResponse struct {
	Emails []*emaildomain.MailItem `json:"emails"`
}

type EmailDetailResponse struct {
	Email *emaildomain.MailDetail `json:"email"`
}
