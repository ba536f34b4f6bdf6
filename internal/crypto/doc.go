// Package crypto implements FedaPay webhook signatures.
//
// # Header Format
//
// FedaPay signs every webhook delivery and sends the result in a header of
// the form:
//
//	t=1700000000,s=5257a869e7ecebeda32affa62cdca3fa51cad7e77a0e56ff536d0ce8e108d8bd
//
// The "t" item is the Unix time at which the payload was signed. Every other
// item is a scheme/signature pair; the scheme defaults to [DefaultScheme].
// A header may carry several signatures for the same scheme, for instance
// while a secret is being rotated, and verification succeeds if any one of
// them matches.
//
// # Signed Material
//
// The signature is the lowercase hex HMAC-SHA256, keyed with the endpoint
// secret, of the string "<t>.<payload>". [WithTolerance] rejects deliveries
// whose timestamp is too old.
//
// Signatures are compared with [crypto/hmac.Equal], which runs in constant
// time.
//
// # Usage
//
//	err := crypto.VerifyHeader(payload, r.Header.Get("X-FEDAPAY-SIGNATURE"), secret,
//	    crypto.WithTolerance(5*time.Minute))
//	if err != nil {
//	    // reject the delivery
//	}
package crypto
