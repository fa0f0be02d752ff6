package core

import (
	"time"
)

// EmailClassification is the business category assigned to an inbound email.
type EmailClassification string

const (
	ClassificationFinance      EmailClassification = "FINANCE"
	ClassificationProductOffer EmailClassification = "PRODUCT_OFFER"
	ClassificationQuotation    EmailClassification = "QUOTATION"
	ClassificationSpam         EmailClassification = "SPAM"
	ClassificationOther        EmailClassification = "OTHER"
)

// ShouldProcess reports whether emails with this classification proceed to
// the downstream verification workflow.
func (c EmailClassification) ShouldProcess() bool {
	switch c {
	case ClassificationFinance, ClassificationProductOffer, ClassificationQuotation:
		return true
	}
	return false
}

// DocumentType is the kind of business document an email is believed to carry.
type DocumentType string

const (
	DocumentInvoice  DocumentType = "INVOICE"
	DocumentQuote    DocumentType = "QUOTE"
	DocumentProposal DocumentType = "PROPOSAL"
	DocumentContract DocumentType = "CONTRACT"
	DocumentOther    DocumentType = "OTHER"
)

// EmailAddress is a parsed sender identity.
type EmailAddress struct {
	Email string
	Name  string
}

// Recipient is a single To/Cc entry. MailboxHash carries the provider's
// plus-addressing routing tag when present.
type Recipient struct {
	Email       string
	Name        string
	MailboxHash string
}

// Attachment is inbound attachment metadata. Content is the base64 payload
// exactly as delivered by the provider; it is never decoded or re-validated
// against Size at this layer.
type Attachment struct {
	Filename  string
	MimeType  string
	Size      int64
	Content   string
	ContentID string
}

// EmailContent holds the message bodies. Any of the three may be empty;
// downstream logic tolerates both HTML and Text being absent.
type EmailContent struct {
	HTML          string
	Text          string
	StrippedReply string
}

// ProcessedEmail is the normalized internal representation of one inbound
// message. It is constructed once per webhook delivery and never mutated.
type ProcessedEmail struct {
	ID          string
	MessageID   string
	From        EmailAddress
	To          []Recipient
	Cc          []Recipient // nil when the provider supplied no Cc entries
	Subject     string
	ReceivedAt  time.Time // zero when the provider date failed to parse
	Content     EmailContent
	Attachments []Attachment
	Headers     map[string]string
	Tag         string
	MailboxHash string
	Raw         *InboundPayload
}

// ExtractedVendor is the coarse vendor identity taken from the sender.
type ExtractedVendor struct {
	Domain string
	Name   string
	Email  string
}

// ProductLine is reserved for the detailed verification workflow. The
// first-pass extractor never populates it.
type ProductLine struct {
	Name       string
	Quantity   *float64
	UnitPrice  *float64
	TotalPrice *float64
}

// ExtractedDocument is the best-effort structured data pulled from an email
// that is worth downstream processing.
type ExtractedDocument struct {
	Type         DocumentType
	Amount       *float64
	Currency     string
	Vendor       ExtractedVendor
	ProductLines []ProductLine
}

// ClassificationResult is the outcome of classifying one email.
// Extracted is non-nil exactly when ShouldProcess is true.
type ClassificationResult struct {
	Classification EmailClassification
	Confidence     float64
	ShouldProcess  bool
	Extracted      *ExtractedDocument
}

// Result is the value returned by the pipeline for every invocation. The
// pipeline never panics or returns an error to its caller; all failure modes
// are folded into Success=false plus a descriptive Error.
type Result struct {
	Success        bool
	Email          *ProcessedEmail
	Classification *ClassificationResult
	Error          string
}
