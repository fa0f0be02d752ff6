package core

import (
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/currency"
)

const defaultCurrency = "USD"

const amountGroup = `([0-9]{1,3}(?:,[0-9]{3})*(?:\.[0-9]{2})?)`

// AmountPattern pairs a compiled amount regexp with the currency the pattern
// disambiguates. An empty Currency falls back to USD.
type AmountPattern struct {
	Pattern  *regexp.Regexp
	Currency string
}

// DefaultAmountPatterns returns the production amount patterns in priority
// order. Extraction stops at the first pattern whose first match parses as a
// number, so the ordering is part of the contract.
func DefaultAmountPatterns() []AmountPattern {
	return []AmountPattern{
		{regexp.MustCompile(`\$` + amountGroup), "USD"},
		{regexp.MustCompile(`(?i)USD\s*` + amountGroup), "USD"},
		{regexp.MustCompile(`(?i)` + amountGroup + `\s*USD`), "USD"},
		{regexp.MustCompile(`€` + amountGroup), "EUR"},
		{regexp.MustCompile(`£` + amountGroup), "GBP"},
		{regexp.MustCompile(`(?i)INR\s*` + amountGroup), "INR"},
		{regexp.MustCompile(`₹` + amountGroup), "INR"},
	}
}

// Extractor performs the first-pass structured-data extraction on emails that
// warrant downstream processing. Extract is pure; extraction misses are not
// errors, the corresponding fields are simply left absent.
type Extractor struct {
	patterns []AmountPattern
	logger   *zap.Logger
}

// NewExtractor creates an extractor. Currency tags on the supplied patterns
// are normalized through the ISO 4217 registry; unrecognized tags fall back
// to USD rather than failing construction.
func NewExtractor(patterns []AmountPattern, logger *zap.Logger) *Extractor {
	normalized := make([]AmountPattern, len(patterns))
	for i, p := range patterns {
		tag := defaultCurrency
		if p.Currency != "" {
			if unit, err := currency.ParseISO(p.Currency); err == nil {
				tag = unit.String()
			} else {
				logger.Warn("unrecognized currency tag on amount pattern, defaulting to USD",
					zap.String("currency", p.Currency))
			}
		}
		normalized[i] = AmountPattern{Pattern: p.Pattern, Currency: tag}
	}
	return &Extractor{patterns: normalized, logger: logger}
}

// Extract pulls a best-effort vendor identity, document type, and monetary
// amount from a classified email.
func (e *Extractor) Extract(email *ProcessedEmail, classification EmailClassification) ExtractedDocument {
	doc := ExtractedDocument{
		Type:   documentTypeFor(classification),
		Vendor: extractVendor(email.From),
	}

	content := email.Content.Text
	if content == "" {
		content = email.Content.HTML
	}

	if amount, cur, ok := e.extractAmount(content); ok {
		doc.Amount = &amount
		doc.Currency = cur
	}

	// Product lines are extracted in the detailed verification workflow, not
	// here.
	return doc
}

// extractAmount tries each pattern in priority order and returns the first
// successfully parsed match. Later matches of the same pattern and later
// patterns are not consulted once one succeeds.
func (e *Extractor) extractAmount(content string) (float64, string, bool) {
	for _, p := range e.patterns {
		match := p.Pattern.FindStringSubmatch(content)
		if match == nil {
			continue
		}
		value, err := strconv.ParseFloat(strings.ReplaceAll(match[1], ",", ""), 64)
		if err != nil {
			continue
		}
		return value, p.Currency, true
	}
	return 0, "", false
}

// extractVendor derives the coarse vendor identity from the sender. The
// domain is everything after the first "@", lowercased; a sender address
// without "@" yields an empty domain. The address itself is not validated.
func extractVendor(from EmailAddress) ExtractedVendor {
	domain := ""
	if _, rest, found := strings.Cut(from.Email, "@"); found {
		domain = strings.ToLower(rest)
	}
	return ExtractedVendor{
		Domain: domain,
		Name:   from.Name,
		Email:  from.Email,
	}
}

// documentTypeFor maps a classification onto the document type it implies.
func documentTypeFor(classification EmailClassification) DocumentType {
	switch classification {
	case ClassificationFinance:
		return DocumentInvoice
	case ClassificationQuotation:
		return DocumentQuote
	case ClassificationProductOffer:
		return DocumentProposal
	default:
		return DocumentOther
	}
}
