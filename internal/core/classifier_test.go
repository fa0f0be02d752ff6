package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClassifier(cfg ClassifierConfig, trusted TrustedChecker) *Classifier {
	logger := zap.NewNop()
	return NewClassifier(cfg, trusted, NewExtractor(DefaultAmountPatterns(), logger), logger)
}

func emailWith(subject, text, html string, headers map[string]string) *ProcessedEmail {
	if headers == nil {
		headers = map[string]string{}
	}
	return &ProcessedEmail{
		ID:        "msg-test",
		MessageID: "msg-test",
		From:      EmailAddress{Email: "sender@vendor.example", Name: "Vendor"},
		To:        []Recipient{{Email: "inbox@mailmint.example"}},
		Subject:   subject,
		Content:   EmailContent{Text: text, HTML: html},
		Headers:   headers,
	}
}

func TestClassifyFinanceInvoice(t *testing.T) {
	c := newTestClassifier(DefaultClassifierConfig(), nil)
	email := emailWith(
		"Invoice #12345 - Payment Due",
		"Please find the attached invoice. Amount due: $2,500.00 USD. Payment is overdue. Tax included.",
		"",
		nil,
	)

	result := c.Classify(email)

	assert.Equal(t, ClassificationFinance, result.Classification)
	assert.True(t, result.ShouldProcess)
	require.NotNil(t, result.Extracted)
	assert.Equal(t, DocumentInvoice, result.Extracted.Type)
	require.NotNil(t, result.Extracted.Amount)
	assert.InDelta(t, 2500.00, *result.Extracted.Amount, 0.001)
	assert.Equal(t, "USD", result.Extracted.Currency)
	assert.Equal(t, "vendor.example", result.Extracted.Vendor.Domain)
}

func TestClassifyQuotationWithEuroAmount(t *testing.T) {
	c := newTestClassifier(DefaultClassifierConfig(), nil)
	email := emailWith(
		"Quotation for services",
		"Please review our quotation and cost estimate. Pricing details below. Total quote: €15,750.00.",
		"",
		nil,
	)

	result := c.Classify(email)

	assert.Equal(t, ClassificationQuotation, result.Classification)
	assert.True(t, result.ShouldProcess)
	require.NotNil(t, result.Extracted)
	assert.Equal(t, DocumentQuote, result.Extracted.Type)
	require.NotNil(t, result.Extracted.Amount)
	assert.InDelta(t, 15750.00, *result.Extracted.Amount, 0.001)
	assert.Equal(t, "EUR", result.Extracted.Currency)
}

func TestClassifySpamViaScoreHeader(t *testing.T) {
	c := newTestClassifier(DefaultClassifierConfig(), nil)
	// Body content is irrelevant once the provider's spam score crosses the
	// threshold.
	email := emailWith(
		"Invoice #12345 - Payment Due",
		"Please find the attached invoice. Amount due: $2,500.00 USD.",
		"",
		map[string]string{"X-Spam-Score": "8.5"},
	)

	result := c.Classify(email)

	assert.Equal(t, ClassificationSpam, result.Classification)
	assert.InDelta(t, 0.9, result.Confidence, 0.001)
	assert.False(t, result.ShouldProcess)
	assert.Nil(t, result.Extracted)
}

func TestClassifySpamScoreBelowThreshold(t *testing.T) {
	c := newTestClassifier(DefaultClassifierConfig(), nil)
	email := emailWith(
		"Invoice #12345 - Payment Due",
		"Please find the attached invoice. Amount due: $2,500.00 USD. Payment is overdue. Tax included.",
		"",
		map[string]string{"X-Spam-Score": "3.2"},
	)

	result := c.Classify(email)

	assert.Equal(t, ClassificationFinance, result.Classification)
}

func TestClassifySpamViaStatusHeader(t *testing.T) {
	c := newTestClassifier(DefaultClassifierConfig(), nil)
	email := emailWith("Hello", "regular content", "",
		map[string]string{"X-Spam-Status": "Yes, score=7.2 required=5.0"})

	result := c.Classify(email)

	assert.Equal(t, ClassificationSpam, result.Classification)
	assert.False(t, result.ShouldProcess)
}

func TestClassifySpamViaContent(t *testing.T) {
	c := newTestClassifier(DefaultClassifierConfig(), nil)

	t.Run("two phrases trigger spam", func(t *testing.T) {
		email := emailWith("Great opportunity",
			"Act now! Make money fast with this exclusive opportunity.", "", nil)

		result := c.Classify(email)
		assert.Equal(t, ClassificationSpam, result.Classification)
	})

	t.Run("a single phrase does not", func(t *testing.T) {
		email := emailWith("Reminder", "Please act now to confirm the meeting.", "", nil)

		result := c.Classify(email)
		assert.NotEqual(t, ClassificationSpam, result.Classification)
	})

	t.Run("phrases in html body are not consulted", func(t *testing.T) {
		// The content spam check reads subject plus plain text only.
		email := emailWith("Reminder", "",
			"<p>act now</p><p>make money fast</p>", nil)

		result := c.Classify(email)
		assert.NotEqual(t, ClassificationSpam, result.Classification)
	})
}

type trustAll struct{}

func (trustAll) IsTrusted(string) bool { return true }

func TestClassifyTrustedSenderSkipsSpamCheck(t *testing.T) {
	c := newTestClassifier(DefaultClassifierConfig(), trustAll{})
	email := emailWith("Hello", "regular content", "",
		map[string]string{"X-Spam-Score": "9.9"})

	result := c.Classify(email)

	assert.NotEqual(t, ClassificationSpam, result.Classification)
}

func TestClassifyNoKeywordsFallsBackToOther(t *testing.T) {
	c := newTestClassifier(DefaultClassifierConfig(), nil)
	email := emailWith("Lunch on Thursday?", "The weather is nice today.", "", nil)

	result := c.Classify(email)

	assert.Equal(t, ClassificationOther, result.Classification)
	assert.False(t, result.ShouldProcess)
	assert.Nil(t, result.Extracted)
	assert.InDelta(t, 0.0, result.Confidence, 0.001)
}

func TestClassifyBelowThresholdFallsBackToOther(t *testing.T) {
	c := newTestClassifier(DefaultClassifierConfig(), nil)
	// One single-word finance keyword out of sixteen scores well below the
	// 0.3 confidence floor.
	email := emailWith("Note", "the invoice arrived", "", nil)

	result := c.Classify(email)

	assert.Equal(t, ClassificationOther, result.Classification)
	assert.Greater(t, result.Confidence, 0.0)
	assert.Less(t, result.Confidence, 0.3)
}

func TestClassifyTieBreakIsDeterministic(t *testing.T) {
	cfg := DefaultClassifierConfig()
	cfg.FinanceKeywords = []string{"alpha"}
	cfg.ProductOfferKeywords = []string{"alpha"}
	cfg.QuotationKeywords = []string{"alpha"}
	c := newTestClassifier(cfg, nil)

	email := emailWith("alpha", "alpha", "", nil)

	// All three categories score 1.0; the fixed order FINANCE,
	// PRODUCT_OFFER, QUOTATION breaks the tie.
	for range 10 {
		result := c.Classify(email)
		assert.Equal(t, ClassificationFinance, result.Classification)
	}
}

func TestClassifyConfidenceIsCappedAtOne(t *testing.T) {
	cfg := DefaultClassifierConfig()
	cfg.FinanceKeywords = []string{"amount due"}
	c := newTestClassifier(cfg, nil)

	email := emailWith("Reminder", "your amount due is large", "", nil)

	result := c.Classify(email)
	assert.InDelta(t, 1.0, result.Confidence, 0.001)
}

func TestClassifyMatchesKeywordsInHTML(t *testing.T) {
	c := newTestClassifier(DefaultClassifierConfig(), nil)
	email := emailWith("Update", "",
		"<p>Your invoice for the payment is attached. Amount due immediately. Tax and expense summary overdue.</p>",
		nil)

	result := c.Classify(email)
	assert.Equal(t, ClassificationFinance, result.Classification)
}

func TestClassifyIsIdempotent(t *testing.T) {
	c := newTestClassifier(DefaultClassifierConfig(), nil)
	email := emailWith(
		"Invoice #12345 - Payment Due",
		"Please find the attached invoice. Amount due: $2,500.00 USD. Payment is overdue. Tax included.",
		"",
		nil,
	)

	first := c.Classify(email)
	second := c.Classify(email)

	assert.Equal(t, first, second)
}

func TestClassifyShouldProcessInvariant(t *testing.T) {
	c := newTestClassifier(DefaultClassifierConfig(), nil)
	emails := []*ProcessedEmail{
		emailWith("Invoice #12345 - Payment Due",
			"Please find the attached invoice. Amount due: $2,500.00 USD. Payment is overdue. Tax included.", "", nil),
		emailWith("Lunch on Thursday?", "The weather is nice today.", "", nil),
		emailWith("Win big", "Act now! Make money fast!", "", nil),
		emailWith("Quotation for services",
			"Please review our quotation and cost estimate. Pricing details below. Total quote: €15,750.00.", "", nil),
	}

	for _, email := range emails {
		result := c.Classify(email)
		assert.Equal(t, result.ShouldProcess, result.Classification.ShouldProcess())
		assert.Equal(t, result.ShouldProcess, result.Extracted != nil,
			"Extracted must be present exactly when ShouldProcess is true")
	}
}
