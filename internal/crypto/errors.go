package crypto

// Failure messages carried by signature verification errors.
const (
	msgMalformedHeader    = "Unable to extract timestamp and signatures from header"
	msgNoSchemeSignatures = "No signatures found with expected scheme"
	msgNoMatch            = "No signatures found matching the expected signature for payload"
	msgOutsideTolerance   = "Timestamp outside the tolerance zone"
)
