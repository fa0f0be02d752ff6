package core

import (
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Header names consulted by the spam pre-check. These come from the
// provider's SpamAssassin integration and are matched by exact name.
const (
	spamScoreHeader  = "X-Spam-Score"
	spamStatusHeader = "X-Spam-Status"
)

// ClassifierConfig holds the keyword tables and thresholds driving
// classification. Instances are immutable once handed to a Classifier, so a
// single config is safe to share across concurrent pipeline invocations.
type ClassifierConfig struct {
	FinanceKeywords      []string
	ProductOfferKeywords []string
	QuotationKeywords    []string
	SpamPhrases          []string

	// SpamScoreThreshold is the minimum provider spam-score header value that
	// marks an email as spam.
	SpamScoreThreshold float64
	// SpamConfidence is the fixed sentinel confidence reported for spam;
	// spam detection is rule-based, not content-scored.
	SpamConfidence float64
	// MinConfidence is the minimum winning keyword score; below it the email
	// falls back to OTHER.
	MinConfidence float64
}

// DefaultClassifierConfig returns the production keyword tables.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		FinanceKeywords: []string{
			"invoice", "payment", "bill", "receipt", "charge", "fee",
			"amount due", "balance", "overdue", "finance", "accounting",
			"tax", "vat", "gst", "expense", "cost",
		},
		ProductOfferKeywords: []string{
			"product", "service", "offer", "discount", "sale", "promotion",
			"deal", "special", "catalog", "brochure", "new arrival",
			"launch", "feature", "demo", "trial",
		},
		QuotationKeywords: []string{
			"quote", "quotation", "estimate", "proposal", "bid",
			"rfq", "request for quote", "pricing", "cost estimate",
			"tender", "proposal submission",
		},
		SpamPhrases: []string{
			"urgent!!!", "act now", "limited time", "click here now",
			"make money fast", "get rich quick", "free money",
			"congratulations you have won", "claim your prize",
		},
		SpamScoreThreshold: 5,
		SpamConfidence:     0.9,
		MinConfidence:      0.3,
	}
}

// TrustedChecker decides whether a sender is exempt from the spam pre-check.
// A nil checker exempts nobody.
type TrustedChecker interface {
	IsTrusted(from string) bool
}

// Classifier scores normalized emails against the configured keyword tables
// and decides whether they warrant downstream processing. Classify is pure
// and deterministic for a fixed config.
type Classifier struct {
	cfg       ClassifierConfig
	trusted   TrustedChecker
	extractor *Extractor
	logger    *zap.Logger
}

// NewClassifier creates a classifier. trusted may be nil.
func NewClassifier(cfg ClassifierConfig, trusted TrustedChecker, extractor *Extractor, logger *zap.Logger) *Classifier {
	return &Classifier{
		cfg:       cfg,
		trusted:   trusted,
		extractor: extractor,
		logger:    logger,
	}
}

// Classify assigns exactly one category to the email. The spam pre-check runs
// first and short-circuits; otherwise the category with the highest keyword
// score wins, with ties broken by the fixed order FINANCE, PRODUCT_OFFER,
// QUOTATION. A winning score below MinConfidence falls back to OTHER.
//
// When the final classification warrants processing, the extractor runs and
// its result is attached; Extracted is therefore non-nil exactly when
// ShouldProcess is true.
func (c *Classifier) Classify(email *ProcessedEmail) ClassificationResult {
	if (c.trusted == nil || !c.trusted.IsTrusted(email.From.Email)) && c.isSpam(email) {
		c.logger.Info("email classified",
			zap.String("message_id", email.MessageID),
			zap.String("classification", string(ClassificationSpam)))
		return ClassificationResult{
			Classification: ClassificationSpam,
			Confidence:     c.cfg.SpamConfidence,
			ShouldProcess:  false,
		}
	}

	// HTML markup is searched as-is; keyword hits inside tag attributes are a
	// known, accepted imprecision.
	haystack := strings.ToLower(email.Subject + " " + email.Content.Text + " " + email.Content.HTML)

	scores := []struct {
		classification EmailClassification
		score          float64
	}{
		{ClassificationFinance, keywordScore(haystack, c.cfg.FinanceKeywords)},
		{ClassificationProductOffer, keywordScore(haystack, c.cfg.ProductOfferKeywords)},
		{ClassificationQuotation, keywordScore(haystack, c.cfg.QuotationKeywords)},
	}

	best := scores[0]
	for _, s := range scores[1:] {
		if s.score > best.score {
			best = s
		}
	}

	classification := best.classification
	if best.score < c.cfg.MinConfidence {
		classification = ClassificationOther
	}

	result := ClassificationResult{
		Classification: classification,
		Confidence:     best.score,
		ShouldProcess:  classification.ShouldProcess(),
	}
	if result.ShouldProcess {
		extracted := c.extractor.Extract(email, classification)
		result.Extracted = &extracted
	}

	c.logger.Info("email classified",
		zap.String("message_id", email.MessageID),
		zap.String("classification", string(classification)),
		zap.Float64("confidence", best.score),
		zap.Bool("should_process", result.ShouldProcess),
		zap.Float64("finance_score", scores[0].score),
		zap.Float64("product_score", scores[1].score),
		zap.Float64("quotation_score", scores[2].score))

	return result
}

// isSpam applies the spam pre-check: provider spam-score header at or above
// the threshold, provider spam-status header containing "yes", or at least
// two distinct spam phrases present in the subject plus plain-text body.
func (c *Classifier) isSpam(email *ProcessedEmail) bool {
	if raw, ok := email.Headers[spamScoreHeader]; ok {
		if score, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil && score >= c.cfg.SpamScoreThreshold {
			return true
		}
	}

	if status, ok := email.Headers[spamStatusHeader]; ok {
		if strings.Contains(strings.ToLower(status), "yes") {
			return true
		}
	}

	content := strings.ToLower(email.Subject + " " + email.Content.Text)
	matches := 0
	for _, phrase := range c.cfg.SpamPhrases {
		if strings.Contains(content, phrase) {
			matches++
			if matches >= 2 {
				return true
			}
		}
	}
	return false
}

// keywordScore sums the word count of each keyword present as a substring of
// the haystack, so multi-word phrases weigh more than single words, then
// normalizes by the table size and caps at 1.0.
func keywordScore(haystack string, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0
	}

	score := 0.0
	for _, keyword := range keywords {
		if strings.Contains(haystack, keyword) {
			score += float64(len(strings.Fields(keyword)))
		}
	}

	normalized := score / float64(len(keywords))
	if normalized > 1 {
		return 1
	}
	return normalized
}
