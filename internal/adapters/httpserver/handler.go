package httpserver

import (
	"context"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/mailmint/inbound/internal/core"
)

// WebhookHandler receives inbound email deliveries from the mail provider,
// runs them through the pipeline, and drives the downstream sinks on success.
//
// The provider interprets non-2xx responses as delivery failures and retries
// indefinitely, so the handler answers 200 regardless of internal outcome;
// processing failures are visible only in the response body and logs.
type WebhookHandler struct {
	pipeline         *core.Pipeline
	store            core.EmailStore
	notifier         core.WorkflowNotifier
	attachments      core.AttachmentStore
	dedup            core.DedupFilter
	offloadThreshold int64
	logger           *zap.Logger
}

// WebhookHandlerParams collects the handler's dependencies. Attachments and
// Dedup may be nil to disable the corresponding sink.
type WebhookHandlerParams struct {
	Pipeline         *core.Pipeline
	Store            core.EmailStore
	Notifier         core.WorkflowNotifier
	Attachments      core.AttachmentStore
	Dedup            core.DedupFilter
	OffloadThreshold int64
	Logger           *zap.Logger
}

// NewWebhookHandler creates the inbound webhook handler.
func NewWebhookHandler(p WebhookHandlerParams) *WebhookHandler {
	return &WebhookHandler{
		pipeline:         p.Pipeline,
		store:            p.Store,
		notifier:         p.Notifier,
		attachments:      p.Attachments,
		dedup:            p.Dedup,
		offloadThreshold: p.OffloadThreshold,
		logger:           p.Logger,
	}
}

type webhookResponse struct {
	Success        bool   `json:"success"`
	MessageID      string `json:"message_id,omitempty"`
	Classification string `json:"classification,omitempty"`
	ShouldProcess  bool   `json:"should_process,omitempty"`
	Duplicate      bool   `json:"duplicate,omitempty"`
	Error          string `json:"error,omitempty"`
}

// Handle returns the echo handler for POST inbound deliveries.
func (h *WebhookHandler) Handle() echo.HandlerFunc {
	return func(c echo.Context) error {
		rawBody, err := io.ReadAll(c.Request().Body)
		if err != nil {
			h.logger.Error("failed to read webhook body", zap.Error(err))
			return c.JSON(http.StatusOK, webhookResponse{Success: false, Error: "failed to read request body"})
		}

		signature := core.ExtractSignature(c.Request().Header)
		result := h.pipeline.Process(rawBody, signature)
		if !result.Success {
			return c.JSON(http.StatusOK, webhookResponse{Success: false, Error: result.Error})
		}

		ctx := c.Request().Context()
		email := result.Email
		classification := result.Classification

		// Replay filtering is advisory: on dedup errors we process anyway
		// rather than lose a delivery.
		if h.dedup != nil {
			isNew, err := h.dedup.IsNew(ctx, email.MessageID)
			if err != nil {
				h.logger.Warn("dedup check failed, proceeding",
					zap.String("message_id", email.MessageID),
					zap.Error(err))
			} else if !isNew {
				return c.JSON(http.StatusOK, webhookResponse{
					Success:   true,
					MessageID: email.MessageID,
					Duplicate: true,
				})
			}
		}

		h.offloadAttachments(ctx, email)

		if err := h.store.SaveResult(ctx, email, classification); err != nil {
			h.logger.Error("failed to persist inbound email",
				zap.String("message_id", email.MessageID),
				zap.Error(err))
		}

		if classification.ShouldProcess {
			h.dispatchVerification(ctx, email, classification)
		}

		return c.JSON(http.StatusOK, webhookResponse{
			Success:        true,
			MessageID:      email.MessageID,
			Classification: string(classification.Classification),
			ShouldProcess:  classification.ShouldProcess,
		})
	}
}

// offloadAttachments moves attachments above the size threshold to blob
// storage. Failures are logged and skipped; attachment metadata is persisted
// either way.
func (h *WebhookHandler) offloadAttachments(ctx context.Context, email *core.ProcessedEmail) {
	if h.attachments == nil {
		return
	}
	for _, att := range email.Attachments {
		if att.Size < h.offloadThreshold {
			continue
		}
		key, err := h.attachments.Store(ctx, email.MessageID, att)
		if err != nil {
			h.logger.Error("failed to off-load attachment",
				zap.String("message_id", email.MessageID),
				zap.String("filename", att.Filename),
				zap.Error(err))
			continue
		}
		h.logger.Info("attachment off-loaded",
			zap.String("message_id", email.MessageID),
			zap.String("key", key))
	}
}

// dispatchVerification publishes the verification-workflow message for an
// in-scope email.
func (h *WebhookHandler) dispatchVerification(ctx context.Context, email *core.ProcessedEmail, classification *core.ClassificationResult) {
	message := &core.VerificationMessage{
		ProcessingID:   uuid.New(),
		MessageID:      email.MessageID,
		Classification: classification.Classification,
		ReceivedAt:     email.ReceivedAt,
	}
	if classification.Extracted != nil {
		message.DocumentType = classification.Extracted.Type
		message.VendorDomain = classification.Extracted.Vendor.Domain
		message.Amount = classification.Extracted.Amount
		message.Currency = classification.Extracted.Currency
	}

	if err := h.notifier.NotifyEmailClassified(ctx, message); err != nil {
		h.logger.Error("failed to dispatch verification workflow",
			zap.String("message_id", email.MessageID),
			zap.Error(err))
		return
	}
	h.logger.Info("verification workflow dispatched",
		zap.String("message_id", email.MessageID),
		zap.String("processing_id", message.ProcessingID.String()))
}
