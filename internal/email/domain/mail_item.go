package domain

import (
	"database/sql/driver"
	"encoding/json"
	"slices"
	"time"
)

// Gmail system labels the dashboard derives flags and folders from.
const (
	LabelInbox      = "INBOX"
	LabelSent       = "SENT"
	LabelUnread     = "UNREAD"
	LabelStarred    = "STARRED"
	LabelSocial     = "CATEGORY_SOCIAL"
	LabelPromotions = "CATEGORY_PROMOTIONS"
)

// StringArray stores a JSON array in a text column so label containment can
// be queried the same way on every driver.
type StringArray []string

// Value implements driver.Valuer
func (a StringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal([]string(a))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = StringArray{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}
	if len(bytes) == 0 {
		*a = StringArray{}
		return nil
	}
	return json.Unmarshal(bytes, a)
}

// Contains reports whether label is present.
func (a StringArray) Contains(label string) bool {
	return slices.Contains(a, label)
}

// MailItem mirrors one remote Gmail message. (UserID, MessageID) is the
// upsert key. IsRead and IsStarred are derived from Labels at sync time.
type MailItem struct {
	ID             string      `json:"id" gorm:"primaryKey"`
	UserID         string      `json:"user_id" gorm:"not null;uniqueIndex:idx_mail_user_message"`
	MessageID      string      `json:"message_id" gorm:"not null;uniqueIndex:idx_mail_user_message"`
	ThreadID       string      `json:"thread_id"`
	Subject        string      `json:"subject"`
	SenderName     string      `json:"sender_name"`
	SenderEmail    string      `json:"sender_email"`
	Snippet        string      `json:"snippet"`
	Labels         StringArray `json:"labels" gorm:"type:text"`
	ReceivedAt     time.Time   `json:"received_at" gorm:"index"`
	IsRead         bool        `json:"is_read"`
	IsStarred      bool        `json:"is_starred"`
	HasAttachments bool        `json:"has_attachments"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// MailDetail is the full normalized view of one message, fetched live.
type MailDetail struct {
	Subject string    `json:"subject"`
	From    string    `json:"from"`
	Email   string    `json:"email"`
	Date    time.Time `json:"date"`
	Body    string    `json:"body"`
	Avatar  string    `json:"avatar"`
}

// Folder selects a subset of the mirrored mailbox.
type Folder string

const (
	FolderInbox      Folder = "inbox"
	FolderSent       Folder = "sent"
	FolderSocial     Folder = "social"
	FolderPromotions Folder = "promotions"
	FolderStarred    Folder = "starred"
	FolderUnread     Folder = "unread"
	FolderAll        Folder = "all"
)

// MailFilter narrows a mailbox listing.
type MailFilter struct {
	Folder Folder
	Search string
	Limit  int
}
