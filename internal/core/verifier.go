package core

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"

	"go.uber.org/zap"
)

// signatureHeaderNames is the ordered list of header names the provider may
// use to carry the webhook signature. The first present value wins.
var signatureHeaderNames = []string{
	"x-postmark-signature",
	"x-pm-signature",
	"postmark-signature",
	"signature",
}

// ExtractSignature pulls the webhook signature out of the request headers,
// trying each known header name case-insensitively in priority order. When a
// header carries multiple values the first one is used. Returns "" when no
// signature header is present.
func ExtractSignature(headers http.Header) string {
	for _, name := range signatureHeaderNames {
		if values := headers.Values(name); len(values) > 0 {
			return values[0]
		}
	}
	return ""
}

// SignatureVerifier authenticates inbound webhook deliveries against the
// shared secret agreed with the mail provider.
type SignatureVerifier struct {
	secret       string
	insecureMode bool
	logger       *zap.Logger
}

// NewSignatureVerifier creates a verifier. An empty secret is only accepted
// when insecureMode is set, which skips verification entirely; that mode is
// meant for local development against provider test deliveries.
func NewSignatureVerifier(secret string, insecureMode bool, logger *zap.Logger) *SignatureVerifier {
	return &SignatureVerifier{
		secret:       secret,
		insecureMode: insecureMode,
		logger:       logger,
	}
}

// Verify checks the supplied signature against HMAC-SHA256(secret, rawBody),
// base64 encoded. The comparison is constant-time. The raw body must be the
// exact bytes received on the wire; re-serialized JSON will not match.
//
// Verify never panics and always returns a boolean.
func (v *SignatureVerifier) Verify(rawBody []byte, signature string) bool {
	if v.secret == "" {
		if v.insecureMode {
			v.logger.Warn("webhook secret not configured, skipping signature verification",
				zap.String("mode", "insecure"))
			return true
		}
		v.logger.Error("webhook secret not configured and insecure mode is disabled, rejecting delivery")
		return false
	}

	if signature == "" {
		v.logger.Warn("webhook delivery carried no signature header")
		return false
	}

	mac := hmac.New(sha256.New, []byte(v.secret))
	mac.Write(rawBody)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	// hmac.Equal rejects length mismatches up front and compares the rest in
	// constant time.
	return hmac.Equal([]byte(signature), []byte(expected))
}
