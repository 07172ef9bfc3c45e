package gmail

import (
	"encoding/base64"
	"html"
	"mime"
	"net/mail"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/emersion/go-message/charset"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"google.golang.org/api/gmail/v1"

	"inboxcal-backend/internal/email/domain"
)

const (
	noSubject = "(No subject)"
	noContent = "No content available"
)

var (
	senderPattern = regexp.MustCompile(`^(.+?)\s*<(.+?)>$`)
	wordDecoder   = &mime.WordDecoder{CharsetReader: charset.Reader}
	bodyPolicy    = bluemonday.UGCPolicy()
)

// ParseSender splits a From header into display name and address.
// Values without angle brackets are returned as both name and address.
func ParseSender(header string) (name, address string) {
	value := strings.TrimSpace(header)
	if decoded, err := wordDecoder.DecodeHeader(value); err == nil {
		value = decoded
	}

	m := senderPattern.FindStringSubmatch(value)
	if m == nil {
		return value, value
	}
	name = strings.TrimSpace(strings.ReplaceAll(m[1], `"`, ""))
	address = strings.TrimSpace(m[2])
	if name == "" {
		name = address
	}
	return name, address
}

// ToMailItem normalizes a full-format message for storage.
func ToMailItem(userID string, msg *gmail.Message) *domain.MailItem {
	headers := headersOf(msg)
	name, address := ParseSender(getHeader(headers, "From"))

	labels := domain.StringArray(append([]string{}, msg.LabelIds...))
	return &domain.MailItem{
		ID:             uuid.NewString(),
		UserID:         userID,
		MessageID:      msg.Id,
		ThreadID:       msg.ThreadId,
		Subject:        subjectOf(headers),
		SenderName:     name,
		SenderEmail:    address,
		Snippet:        msg.Snippet,
		Labels:         labels,
		ReceivedAt:     receivedAt(msg, headers),
		IsRead:         !labels.Contains(domain.LabelUnread),
		IsStarred:      labels.Contains(domain.LabelStarred),
		HasAttachments: msg.Payload != nil && hasAttachment(msg.Payload.Parts),
	}
}

// ToMailDetail builds the reading view of a message.
func ToMailDetail(msg *gmail.Message) *domain.MailDetail {
	headers := headersOf(msg)
	name, address := ParseSender(getHeader(headers, "From"))

	return &domain.MailDetail{
		Subject: subjectOf(headers),
		From:    name,
		Email:   address,
		Date:    receivedAt(msg, headers),
		Body:    ExtractBody(msg),
		Avatar:  Initials(name),
	}
}

// ExtractBody returns display-safe HTML for a message. HTML parts win over
// plain text; plain text is escaped and its newlines become <br>.
func ExtractBody(msg *gmail.Message) string {
	var htmlBody, textBody string

	if p := msg.Payload; p != nil {
		if data, ok := decodePart(p); ok {
			if p.MimeType == "text/html" {
				htmlBody = data
			} else {
				textBody = data
			}
		}
		findBodies(p.Parts, &htmlBody, &textBody)
	}

	switch {
	case htmlBody != "":
		return bodyPolicy.Sanitize(htmlBody)
	case textBody != "":
		text := strings.ReplaceAll(textBody, "\r\n", "\n")
		return strings.ReplaceAll(html.EscapeString(text), "\n", "<br>")
	case msg.Snippet != "":
		// Gmail snippets already carry HTML entities.
		return html.EscapeString(html.UnescapeString(msg.Snippet))
	default:
		return noContent
	}
}

// Initials derives a two letter avatar from a display name.
func Initials(name string) string {
	fields := strings.Fields(name)
	switch {
	case len(fields) == 0:
		return "U"
	case len(fields) >= 2:
		return strings.ToUpper(string(firstRune(fields[0])) + string(firstRune(fields[1])))
	}
	r := []rune(fields[0])
	if len(r) > 2 {
		r = r[:2]
	}
	return strings.ToUpper(string(r))
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return unicode.ReplacementChar
}

func findBodies(parts []*gmail.MessagePart, htmlBody, textBody *string) {
	for _, part := range parts {
		if part == nil {
			continue
		}
		switch part.MimeType {
		case "text/html":
			if data, ok := decodePart(part); ok && *htmlBody == "" {
				*htmlBody = data
			}
		case "text/plain":
			if data, ok := decodePart(part); ok && *textBody == "" {
				*textBody = data
			}
		}
		if len(part.Parts) > 0 {
			findBodies(part.Parts, htmlBody, textBody)
		}
	}
}

// decodePart decodes inline body data. Attachment parts carry no data.
func decodePart(part *gmail.MessagePart) (string, bool) {
	if part.Body == nil || part.Body.Data == "" {
		return "", false
	}
	data, err := base64.URLEncoding.DecodeString(part.Body.Data)
	if err != nil {
		data, err = base64.RawURLEncoding.DecodeString(part.Body.Data)
		if err != nil {
			return "", false
		}
	}
	return string(data), true
}

func hasAttachment(parts []*gmail.MessagePart) bool {
	for _, part := range parts {
		if part == nil {
			continue
		}
		if part.Filename != "" || hasAttachment(part.Parts) {
			return true
		}
	}
	return false
}

func receivedAt(msg *gmail.Message, headers []*gmail.MessagePartHeader) time.Time {
	if date := getHeader(headers, "Date"); date != "" {
		if t, err := mail.ParseDate(date); err == nil {
			return t.UTC()
		}
	}
	return time.UnixMilli(msg.InternalDate).UTC()
}

func subjectOf(headers []*gmail.MessagePartHeader) string {
	subject := getHeader(headers, "Subject")
	if decoded, err := wordDecoder.DecodeHeader(subject); err == nil {
		subject = decoded
	}
	if strings.TrimSpace(subject) == "" {
		return noSubject
	}
	return subject
}

func headersOf(msg *gmail.Message) []*gmail.MessagePartHeader {
	if msg.Payload == nil {
		return nil
	}
	return msg.Payload.Headers
}

func getHeader(headers []*gmail.MessagePartHeader, name string) string {
	for _, header := range headers {
		if strings.EqualFold(header.Name, name) {
			return header.Value
		}
	}
	return ""
}
