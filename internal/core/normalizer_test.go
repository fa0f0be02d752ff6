package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParsePreservesIdentityAndStructure(t *testing.T) {
	payload := validPayload()
	payload.Subject = "Quarterly invoice"
	payload.ToFull = []PayloadAddress{
		{Email: "first@mailmint.example", Name: "First"},
		{Email: "second@mailmint.example", MailboxHash: "tenant-7"},
	}
	payload.Attachments = []PayloadAttachment{
		{Name: "invoice.pdf", ContentType: "application/pdf", ContentLength: 1024, Content: "JVBERi0="},
		{Name: "terms.txt", ContentType: "text/plain", ContentLength: 64, Content: "dGVybXM=", ContentID: "cid-1"},
	}
	payload.TextBody = "plain body"
	payload.HtmlBody = "<p>html body</p>"

	email := NewNormalizer(zap.NewNop()).Parse(payload)

	assert.Equal(t, "msg-001", email.ID)
	assert.Equal(t, "msg-001", email.MessageID)
	assert.Equal(t, "billing@acme.example", email.From.Email)
	assert.Equal(t, "Acme Billing", email.From.Name)
	assert.Equal(t, "Quarterly invoice", email.Subject)

	// Recipient order is preserved, no deduplication.
	require.Len(t, email.To, 2)
	assert.Equal(t, "first@mailmint.example", email.To[0].Email)
	assert.Equal(t, "second@mailmint.example", email.To[1].Email)
	assert.Equal(t, "tenant-7", email.To[1].MailboxHash)

	require.Len(t, email.Attachments, 2)
	assert.Equal(t, "invoice.pdf", email.Attachments[0].Filename)
	assert.Equal(t, int64(1024), email.Attachments[0].Size)
	// Base64 content is retained verbatim, never decoded.
	assert.Equal(t, "JVBERi0=", email.Attachments[0].Content)
	assert.Equal(t, "cid-1", email.Attachments[1].ContentID)

	assert.Equal(t, "plain body", email.Content.Text)
	assert.Equal(t, "<p>html body</p>", email.Content.HTML)
	assert.Same(t, payload, email.Raw)
}

// Duplicate header names fold last-write-wins. This silently drops earlier
// values; the policy is documented and load-bearing, so pin it down here.
func TestParseHeaderFoldingLastWriteWins(t *testing.T) {
	payload := validPayload()
	payload.Headers = []PayloadHeader{
		{Name: "Received", Value: "from relay-1"},
		{Name: "X-Spam-Score", Value: "1.0"},
		{Name: "Received", Value: "from relay-2"},
	}

	email := NewNormalizer(zap.NewNop()).Parse(payload)

	assert.Equal(t, "from relay-2", email.Headers["Received"])
	assert.Equal(t, "1.0", email.Headers["X-Spam-Score"])
	assert.Len(t, email.Headers, 2)
}

func TestParseCcCollapsesToAbsent(t *testing.T) {
	t.Run("absent cc", func(t *testing.T) {
		email := NewNormalizer(zap.NewNop()).Parse(validPayload())
		assert.Nil(t, email.Cc)
	})

	t.Run("empty cc collapses to absent", func(t *testing.T) {
		payload := validPayload()
		payload.CcFull = []PayloadAddress{}
		email := NewNormalizer(zap.NewNop()).Parse(payload)
		assert.Nil(t, email.Cc)
	})

	t.Run("populated cc is preserved", func(t *testing.T) {
		payload := validPayload()
		payload.CcFull = []PayloadAddress{{Email: "cc@acme.example"}}
		email := NewNormalizer(zap.NewNop()).Parse(payload)
		require.Len(t, email.Cc, 1)
		assert.Equal(t, "cc@acme.example", email.Cc[0].Email)
	})
}

func TestParseDates(t *testing.T) {
	t.Run("rfc5322 date", func(t *testing.T) {
		payload := validPayload()
		payload.Date = "Mon, 01 Sep 2025 10:30:00 +0200"

		email := NewNormalizer(zap.NewNop()).Parse(payload)

		want := time.Date(2025, 9, 1, 10, 30, 0, 0, time.FixedZone("", 2*3600))
		assert.True(t, email.ReceivedAt.Equal(want))
	})

	t.Run("rfc3339 date", func(t *testing.T) {
		payload := validPayload()
		payload.Date = "2025-09-01T10:30:00Z"

		email := NewNormalizer(zap.NewNop()).Parse(payload)
		assert.False(t, email.ReceivedAt.IsZero())
	})

	t.Run("unparseable date yields zero time", func(t *testing.T) {
		payload := validPayload()
		payload.Date = "not a date"

		email := NewNormalizer(zap.NewNop()).Parse(payload)
		assert.True(t, email.ReceivedAt.IsZero())
	})
}

func TestParseDoesNotMutateInput(t *testing.T) {
	payload := validPayload()
	payload.Headers = []PayloadHeader{{Name: "X-Test", Value: "1"}}
	before := *payload

	NewNormalizer(zap.NewNop()).Parse(payload)

	assert.Equal(t, before.MessageID, payload.MessageID)
	assert.Equal(t, before.Headers, payload.Headers)
	assert.Equal(t, before.ToFull, payload.ToFull)
}
