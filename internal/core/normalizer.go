package core

import (
	"net/mail"
	"time"

	"go.uber.org/zap"
)

// Normalizer converts the provider's wire format into the internal
// ProcessedEmail representation. Parse is pure: it performs no I/O and never
// mutates its input.
type Normalizer struct {
	logger *zap.Logger
}

// NewNormalizer creates a normalizer.
func NewNormalizer(logger *zap.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// Parse maps a validated payload onto a ProcessedEmail. It is total over
// structurally valid payloads; run PayloadValidator first.
//
// Header folding is last-write-wins: when the provider delivers the same
// header name more than once, later entries overwrite earlier ones. This
// mirrors the provider integration's historical behavior and is relied on by
// downstream consumers, surprising as it may be.
func (n *Normalizer) Parse(payload *InboundPayload) *ProcessedEmail {
	headers := make(map[string]string, len(payload.Headers))
	for _, h := range payload.Headers {
		headers[h.Name] = h.Value
	}

	to := make([]Recipient, len(payload.ToFull))
	for i, r := range payload.ToFull {
		to[i] = Recipient{Email: r.Email, Name: r.Name, MailboxHash: r.MailboxHash}
	}

	// An empty Cc list and an absent Cc field both collapse to nil; the
	// distinction is not preserved.
	var cc []Recipient
	if len(payload.CcFull) > 0 {
		cc = make([]Recipient, len(payload.CcFull))
		for i, r := range payload.CcFull {
			cc[i] = Recipient{Email: r.Email, Name: r.Name, MailboxHash: r.MailboxHash}
		}
	}

	attachments := make([]Attachment, len(payload.Attachments))
	for i, a := range payload.Attachments {
		attachments[i] = Attachment{
			Filename:  a.Name,
			MimeType:  a.ContentType,
			Size:      a.ContentLength,
			Content:   a.Content,
			ContentID: a.ContentID,
		}
	}

	receivedAt := n.parseDate(payload.MessageID, payload.Date)

	return &ProcessedEmail{
		ID:          payload.MessageID,
		MessageID:   payload.MessageID,
		From:        EmailAddress{Email: payload.FromFull.Email, Name: payload.FromFull.Name},
		To:          to,
		Cc:          cc,
		Subject:     payload.Subject,
		ReceivedAt:  receivedAt,
		Content: EmailContent{
			HTML:          payload.HtmlBody,
			Text:          payload.TextBody,
			StrippedReply: payload.StrippedTextReply,
		},
		Attachments: attachments,
		Headers:     headers,
		Tag:         payload.Tag,
		MailboxHash: payload.MailboxHash,
		Raw:         payload,
	}
}

// parseDate parses the provider's RFC 5322 style date string. An unparseable
// date yields the zero time rather than an error; callers treat the received
// timestamp defensively.
func (n *Normalizer) parseDate(messageID, date string) time.Time {
	if t, err := mail.ParseDate(date); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, date); err == nil {
		return t
	}
	n.logger.Warn("unparseable date on inbound email",
		zap.String("message_id", messageID),
		zap.String("date", date))
	return time.Time{}
}
