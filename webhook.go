package fedapay

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fedapay/fedapay-go/internal/crypto"
)

// DefaultWebhookTolerance is the maximum age of a webhook accepted by
// ConstructEvent unless overridden.
const DefaultWebhookTolerance = 300 * time.Second

// DefaultSignatureScheme is the scheme FedaPay signs webhooks with.
const DefaultSignatureScheme = crypto.DefaultScheme

// WebhookOption configures webhook verification.
type WebhookOption = crypto.VerifyOption

// WithWebhookTolerance rejects webhooks whose timestamp is older than d.
// Zero disables the check.
func WithWebhookTolerance(d time.Duration) WebhookOption {
	return crypto.WithTolerance(d)
}

// WithWebhookScheme verifies signatures of the given scheme instead of "s".
func WithWebhookScheme(scheme string) WebhookOption {
	return crypto.WithScheme(scheme)
}

// WithWebhookClock sets the time source used for the tolerance check.
func WithWebhookClock(now func() time.Time) WebhookOption {
	return crypto.WithClock(now)
}

// VerifyHeader checks the X-FEDAPAY-SIGNATURE header of a webhook against
// payload and secret. It returns nil on success or an *Error of kind
// KindSignatureVerification. No tolerance is applied unless
// WithWebhookTolerance is given.
func VerifyHeader(payload []byte, header, secret string, opts ...WebhookOption) error {
	return crypto.VerifyHeader(payload, header, secret, opts...)
}

// ComputeSignature returns the hex signature of payload sent at timestamp.
func ComputeSignature(timestamp time.Time, payload []byte, secret string) string {
	return crypto.ComputeSignature(timestamp, payload, secret)
}

// GenerateHeader formats a signature header. An empty scheme means "s".
func GenerateHeader(timestamp time.Time, signature, scheme string) string {
	return crypto.GenerateHeader(timestamp, signature, scheme)
}

// ConstructEvent verifies a webhook and decodes its payload. Webhooks older
// than DefaultWebhookTolerance are rejected unless opts say otherwise.
func ConstructEvent(payload []byte, header, secret string, opts ...WebhookOption) (*Event, error) {
	opts = append([]WebhookOption{crypto.WithTolerance(DefaultWebhookTolerance)}, opts...)
	if err := crypto.VerifyHeader(payload, header, secret, opts...); err != nil {
		return nil, err
	}

	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("decode webhook event: %w", err)
	}
	return &event, nil
}
