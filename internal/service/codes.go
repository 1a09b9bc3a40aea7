package service

const (
	// Bounds accepted for user-supplied codes.
	minCodeLen = 4
	maxCodeLen = 32

	// Bounds enforced for auto-generated codes.
	minGeneratedLen = 6
	maxGeneratedLen = 8
)

// IsValidCode reports whether candidate is an acceptable short code: 4 to 32
// characters, alphanumeric only. Pure, no I/O.
func IsValidCode(candidate string) bool {
	if len(candidate) < minCodeLen || len(candidate) > maxCodeLen {
		return false
	}
	for _, c := range candidate {
		if !(c >= 'a' && c <= 'z') &&
			!(c >= 'A' && c <= 'Z') &&
			!(c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}

// generatedLength clamps the configured code length into the generated-code
// bounds, so a misconfigured length can never produce invalid codes.
func generatedLength(configured int) int {
	if configured < minGeneratedLen {
		return minGeneratedLen
	}
	if configured > maxGeneratedLen {
		return maxGeneratedLen
	}
	return configured
}
