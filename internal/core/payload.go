package core

// PayloadAddress is one address entry in the provider's wire format.
type PayloadAddress struct {
	Email       string `json:"Email"`
	Name        string `json:"Name,omitempty"`
	MailboxHash string `json:"MailboxHash,omitempty"`
}

// PayloadHeader is a single name/value header pair. The provider delivers
// headers as an ordered list and the same name may appear more than once.
type PayloadHeader struct {
	Name  string `json:"Name"`
	Value string `json:"Value"`
}

// PayloadAttachment is one attachment entry in the provider's wire format.
// Content is base64 encoded.
type PayloadAttachment struct {
	Name          string `json:"Name"`
	Content       string `json:"Content"`
	ContentType   string `json:"ContentType"`
	ContentLength int64  `json:"ContentLength"`
	ContentID     string `json:"ContentID,omitempty"`
}

// InboundPayload is the Postmark inbound webhook wire format. Validation
// tags cover the scalar preconditions; list-presence checks that need to
// distinguish a missing list from an empty one live in PayloadValidator.
type InboundPayload struct {
	MessageID         string              `json:"MessageID" validate:"required"`
	Date              string              `json:"Date" validate:"required"`
	Subject           string              `json:"Subject"`
	From              string              `json:"From"`
	FromName          string              `json:"FromName,omitempty"`
	FromFull          PayloadAddress      `json:"FromFull"`
	To                string              `json:"To"`
	ToFull            []PayloadAddress    `json:"ToFull" validate:"required,min=1"`
	Cc                string              `json:"Cc,omitempty"`
	CcFull            []PayloadAddress    `json:"CcFull,omitempty"`
	Bcc               string              `json:"Bcc,omitempty"`
	BccFull           []PayloadAddress    `json:"BccFull,omitempty"`
	OriginalRecipient string              `json:"OriginalRecipient"`
	ReplyTo           string              `json:"ReplyTo,omitempty"`
	HtmlBody          string              `json:"HtmlBody,omitempty"`
	TextBody          string              `json:"TextBody,omitempty"`
	StrippedTextReply string              `json:"StrippedTextReply,omitempty"`
	Tag               string              `json:"Tag,omitempty"`
	Headers           []PayloadHeader     `json:"Headers"`
	Attachments       []PayloadAttachment `json:"Attachments"`
	MailboxHash       string              `json:"MailboxHash,omitempty"`
	MessageStream     string              `json:"MessageStream,omitempty"`
}
