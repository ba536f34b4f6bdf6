package crypto

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultScheme is the scheme FedaPay uses for webhook signatures.
const DefaultScheme = "s"

// timestampKey is the header item that carries the signing time.
const timestampKey = "t"

var (
	errNoTimestamp      = errors.New("no timestamp item")
	errInvalidTimestamp = errors.New("timestamp is not an integer")
)

// SchemeSignature is one scheme=signature item of a signature header.
type SchemeSignature struct {
	Scheme    string
	Signature string
}

// SignatureHeader is a parsed webhook signature header.
type SignatureHeader struct {
	Timestamp time.Time
	// Signatures holds the items whose scheme matched, in header order.
	Signatures []SchemeSignature
}

// ParseSignatureHeader splits header into its timestamp and the signatures
// using scheme. Items without "=" are ignored. Only the first "t" item is
// used. A header with no timestamp, or a timestamp that is not an integer,
// is an error. A header with no signatures for scheme is not an error here;
// callers decide how to treat it.
func ParseSignatureHeader(header, scheme string) (*SignatureHeader, error) {
	if scheme == "" {
		scheme = DefaultScheme
	}

	parsed := &SignatureHeader{}
	var (
		rawTimestamp string
		hasTimestamp bool
	)

	for _, item := range strings.Split(header, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(item), "=")
		if !ok {
			continue
		}
		switch {
		case key == timestampKey:
			if !hasTimestamp {
				rawTimestamp, hasTimestamp = value, true
			}
		case key == scheme:
			parsed.Signatures = append(parsed.Signatures, SchemeSignature{Scheme: key, Signature: value})
		}
	}

	if !hasTimestamp {
		return nil, errNoTimestamp
	}
	unix, err := strconv.ParseInt(rawTimestamp, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", errInvalidTimestamp, rawTimestamp)
	}
	parsed.Timestamp = time.Unix(unix, 0)

	return parsed, nil
}

// GenerateHeader formats a signature header for timestamp, signature and
// scheme. An empty scheme uses DefaultScheme.
func GenerateHeader(timestamp time.Time, signature, scheme string) string {
	if scheme == "" {
		scheme = DefaultScheme
	}
	return fmt.Sprintf("%s=%d,%s=%s", timestampKey, timestamp.Unix(), scheme, signature)
}
