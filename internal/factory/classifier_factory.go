package factory

import (
	"github.com/mailmint/inbound/internal/config"
	"github.com/mailmint/inbound/internal/core"
)

// NewClassifierConfig builds the classifier configuration, starting from the
// built-in keyword tables and applying any overrides present in the
// configuration. An empty keyword list means "keep the built-in table".
func NewClassifierConfig(cfg *config.Config) core.ClassifierConfig {
	c := core.DefaultClassifierConfig()

	if kw := cfg.GetStringSlice("classifier.finance_keywords"); len(kw) > 0 {
		c.FinanceKeywords = kw
	}
	if kw := cfg.GetStringSlice("classifier.product_offer_keywords"); len(kw) > 0 {
		c.ProductOfferKeywords = kw
	}
	if kw := cfg.GetStringSlice("classifier.quotation_keywords"); len(kw) > 0 {
		c.QuotationKeywords = kw
	}
	if kw := cfg.GetStringSlice("classifier.spam_phrases"); len(kw) > 0 {
		c.SpamPhrases = kw
	}
	c.MinConfidence = cfg.GetFloat64("classifier.min_confidence")
	c.SpamConfidence = cfg.GetFloat64("classifier.spam_confidence")
	c.SpamScoreThreshold = cfg.GetFloat64("classifier.spam_score_threshold")

	return c
}
