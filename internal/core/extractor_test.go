package core

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestExtractor() *Extractor {
	return NewExtractor(DefaultAmountPatterns(), zap.NewNop())
}

func TestExtractAmountFormats(t *testing.T) {
	tests := []struct {
		name         string
		content      string
		wantAmount   float64
		wantCurrency string
	}{
		{"dollar symbol", "Total: $2,500.00 due on receipt", 2500.00, "USD"},
		{"usd prefix", "Balance of USD 1,200.50 outstanding", 1200.50, "USD"},
		{"usd suffix", "Please remit 300.00 USD", 300.00, "USD"},
		{"euro symbol", "Quote total: €15,750.00", 15750.00, "EUR"},
		{"pound symbol", "Fee of £99.95 applies", 99.95, "GBP"},
		{"inr prefix", "Amount INR 45,000.00 payable", 45000.00, "INR"},
		{"rupee symbol", "₹1,500 advance required", 1500.00, "INR"},
		{"no decimals", "Pay $500 now", 500.00, "USD"},
		{"thousands groups", "$1,234,567.89 grand total", 1234567.89, "USD"},
	}

	e := newTestExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email := emailWith("Subject", tt.content, "", nil)
			doc := e.Extract(email, ClassificationFinance)

			require.NotNil(t, doc.Amount)
			assert.InDelta(t, tt.wantAmount, *doc.Amount, 0.001)
			assert.Equal(t, tt.wantCurrency, doc.Currency)
		})
	}
}

func TestExtractFirstPatternWins(t *testing.T) {
	e := newTestExtractor()
	// The euro amount appears first in the text but the dollar pattern has
	// higher priority.
	email := emailWith("Subject", "Quote: €100.00 or equivalently $50.00", "", nil)

	doc := e.Extract(email, ClassificationQuotation)

	require.NotNil(t, doc.Amount)
	assert.InDelta(t, 50.00, *doc.Amount, 0.001)
	assert.Equal(t, "USD", doc.Currency)
}

func TestExtractNoAmount(t *testing.T) {
	e := newTestExtractor()
	email := emailWith("Subject", "No figures to be found here.", "", nil)

	doc := e.Extract(email, ClassificationFinance)

	assert.Nil(t, doc.Amount)
	assert.Empty(t, doc.Currency)
}

func TestExtractFallsBackToHTMLContent(t *testing.T) {
	e := newTestExtractor()
	email := emailWith("Subject", "", "<p>Invoice total: $750.00</p>", nil)

	doc := e.Extract(email, ClassificationFinance)

	require.NotNil(t, doc.Amount)
	assert.InDelta(t, 750.00, *doc.Amount, 0.001)
}

func TestExtractPrefersTextOverHTML(t *testing.T) {
	e := newTestExtractor()
	email := emailWith("Subject", "Total $10.00", "<p>Total $99.00</p>", nil)

	doc := e.Extract(email, ClassificationFinance)

	require.NotNil(t, doc.Amount)
	assert.InDelta(t, 10.00, *doc.Amount, 0.001)
}

func TestExtractVendorIdentity(t *testing.T) {
	e := newTestExtractor()

	t.Run("domain lowercased", func(t *testing.T) {
		email := emailWith("Subject", "", "", nil)
		email.From = EmailAddress{Email: "Billing@ACME.Example", Name: "Acme Billing"}

		doc := e.Extract(email, ClassificationFinance)

		assert.Equal(t, "acme.example", doc.Vendor.Domain)
		assert.Equal(t, "Acme Billing", doc.Vendor.Name)
		assert.Equal(t, "Billing@ACME.Example", doc.Vendor.Email)
	})

	t.Run("sender without at sign", func(t *testing.T) {
		email := emailWith("Subject", "", "", nil)
		email.From = EmailAddress{Email: "not-an-address"}

		doc := e.Extract(email, ClassificationFinance)

		assert.Empty(t, doc.Vendor.Domain)
		assert.Equal(t, "not-an-address", doc.Vendor.Email)
	})
}

func TestDocumentTypeMapping(t *testing.T) {
	e := newTestExtractor()
	email := emailWith("Subject", "", "", nil)

	assert.Equal(t, DocumentInvoice, e.Extract(email, ClassificationFinance).Type)
	assert.Equal(t, DocumentQuote, e.Extract(email, ClassificationQuotation).Type)
	assert.Equal(t, DocumentProposal, e.Extract(email, ClassificationProductOffer).Type)
	assert.Equal(t, DocumentOther, e.Extract(email, ClassificationOther).Type)
}

func TestNewExtractorNormalizesCurrencyTags(t *testing.T) {
	patterns := []AmountPattern{
		{regexp.MustCompile(`\$` + `([0-9]+)`), "usd"},
		{regexp.MustCompile(`#` + `([0-9]+)`), "XQZ"},
		{regexp.MustCompile(`@` + `([0-9]+)`), ""},
	}
	e := NewExtractor(patterns, zap.NewNop())

	assert.Equal(t, "USD", e.patterns[0].Currency)
	// Unknown and empty tags default to USD instead of failing construction.
	assert.Equal(t, "USD", e.patterns[1].Currency)
	assert.Equal(t, "USD", e.patterns[2].Currency)
}
