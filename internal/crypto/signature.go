package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/fedapay/fedapay-go/internal/apierrors"
)

// verifyConfig holds options for VerifyHeader.
type verifyConfig struct {
	scheme    string
	tolerance time.Duration
	now       func() time.Time
}

// VerifyOption configures VerifyHeader.
type VerifyOption func(*verifyConfig)

// WithScheme sets the expected signature scheme. Default: "s".
func WithScheme(scheme string) VerifyOption {
	return func(c *verifyConfig) {
		if scheme != "" {
			c.scheme = scheme
		}
	}
}

// WithTolerance rejects headers whose timestamp is older than d.
// Zero or negative disables the check, which is the default.
func WithTolerance(d time.Duration) VerifyOption {
	return func(c *verifyConfig) {
		c.tolerance = d
	}
}

// WithClock sets the time source used for the tolerance check.
func WithClock(now func() time.Time) VerifyOption {
	return func(c *verifyConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// ComputeSignature returns the hex HMAC-SHA256 of "<unix timestamp>.<payload>"
// keyed with secret.
func ComputeSignature(timestamp time.Time, payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(timestamp.Unix(), 10)))
	mac.Write([]byte{'.'})
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyHeader checks that header carries a valid signature of payload made
// with secret. It returns nil on success and an *apierrors.Error of kind
// KindSignatureVerification otherwise.
func VerifyHeader(payload []byte, header, secret string, opts ...VerifyOption) error {
	cfg := &verifyConfig{
		scheme: DefaultScheme,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	parsed, err := ParseSignatureHeader(header, cfg.scheme)
	if err != nil {
		sigErr := apierrors.NewSignatureVerificationError(msgMalformedHeader, header, payload)
		sigErr.Err = err
		return sigErr
	}

	if len(parsed.Signatures) == 0 {
		return apierrors.NewSignatureVerificationError(msgNoSchemeSignatures, header, payload)
	}

	expected := []byte(ComputeSignature(parsed.Timestamp, payload, secret))
	matched := false
	for _, s := range parsed.Signatures {
		// No early exit: every candidate is compared.
		if hmac.Equal(expected, []byte(s.Signature)) {
			matched = true
		}
	}
	if !matched {
		return apierrors.NewSignatureVerificationError(msgNoMatch, header, payload)
	}

	if cfg.tolerance > 0 && parsed.Timestamp.Before(cfg.now().Add(-cfg.tolerance)) {
		return apierrors.NewSignatureVerificationError(msgOutsideTolerance, header, payload)
	}

	return nil
}
