package core

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EmailStore persists processed emails and their classification outcome.
// Implementations enforce message-id uniqueness; the pipeline itself never
// re-validates it.
type EmailStore interface {
	// SaveResult stores the email together with its classification and any
	// extracted document data.
	SaveResult(ctx context.Context, email *ProcessedEmail, result *ClassificationResult) error
}

// VerificationMessage is the payload dispatched to the verification workflow
// for every email that warrants downstream processing.
type VerificationMessage struct {
	ProcessingID   uuid.UUID           `json:"processing_id"`
	MessageID      string              `json:"message_id"`
	Classification EmailClassification `json:"classification"`
	DocumentType   DocumentType        `json:"document_type"`
	VendorDomain   string              `json:"vendor_domain"`
	Amount         *float64            `json:"amount,omitempty"`
	Currency       string              `json:"currency,omitempty"`
	ReceivedAt     time.Time           `json:"received_at"`
}

// WorkflowNotifier dispatches verification work for in-scope classifications.
type WorkflowNotifier interface {
	NotifyEmailClassified(ctx context.Context, message *VerificationMessage) error
}

// AttachmentStore off-loads attachment content to blob storage and returns
// the stored object's key.
type AttachmentStore interface {
	Store(ctx context.Context, messageID string, attachment Attachment) (string, error)
}

// DedupFilter tracks which message ids have already been handled. IsNew
// returns true for first sightings. Errors are advisory; callers fail open.
type DedupFilter interface {
	IsNew(ctx context.Context, messageID string) (bool, error)
}
