package core

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/mailmint/inbound/internal/utils"
)

// Pipeline sequences the full inbound email processing chain:
// signature verification, JSON parsing, structural validation, normalization,
// and classification (which runs extraction when applicable). It is the
// public entry point invoked by the webhook endpoint.
type Pipeline struct {
	verifier   *SignatureVerifier
	validator  *PayloadValidator
	normalizer *Normalizer
	classifier *Classifier
	logger     *zap.Logger
}

// NewPipeline creates a pipeline.
func NewPipeline(
	verifier *SignatureVerifier,
	validator *PayloadValidator,
	normalizer *Normalizer,
	classifier *Classifier,
	logger *zap.Logger,
) *Pipeline {
	return &Pipeline{
		verifier:   verifier,
		validator:  validator,
		normalizer: normalizer,
		classifier: classifier,
		logger:     logger,
	}
}

// Process runs one webhook delivery through the pipeline. Each stage is a
// hard gate: failure short-circuits with Success=false and a descriptive
// error, without running later stages.
//
// Process never panics past its boundary; the webhook handler must always be
// able to answer the provider with a success-style status, so every internal
// failure is converted into a result value.
func (p *Pipeline) Process(rawBody []byte, signature string) (result *Result) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("unexpected failure while processing inbound email",
				zap.Any("panic", r))
			result = &Result{Success: false, Error: fmt.Sprintf("internal error: %v", r)}
		}
	}()

	if !p.verifier.Verify(rawBody, signature) {
		p.logger.Warn("rejected inbound webhook", zap.String("stage", "verify"))
		return &Result{Success: false, Error: "Invalid webhook signature"}
	}

	var payload InboundPayload
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		p.logger.Error("rejected inbound webhook",
			zap.String("stage", "parse"),
			zap.Error(err))
		return &Result{Success: false, Error: fmt.Sprintf("invalid JSON payload: %v", err)}
	}

	if err := p.validator.Validate(&payload); err != nil {
		p.logger.Error("rejected inbound webhook",
			zap.String("stage", "validate"),
			zap.String("message_id", payload.MessageID),
			zap.Error(err))
		return &Result{Success: false, Error: err.Error()}
	}

	email := p.normalizer.Parse(&payload)
	classification := p.classifier.Classify(email)

	p.logger.Info("inbound email processed",
		zap.String("message_id", email.MessageID),
		zap.String("from", email.From.Email),
		zap.String("subject", email.Subject),
		zap.String("body_preview", utils.Preview(email.Content.Text, 80)),
		zap.Int("attachments", len(email.Attachments)),
		zap.String("classification", string(classification.Classification)))

	return &Result{
		Success:        true,
		Email:          email,
		Classification: &classification,
	}
}
