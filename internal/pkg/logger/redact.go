package logger

// RedactSecret masks a token or cookie value for safe logging.
// "Zp3kQ9..." → "Zp***"
// Values of 4 characters or fewer are fully masked: "abcd" → "***"
func RedactSecret(secret string) string {
	if len(secret) <= 4 {
		return "***"
	}
	return secret[:2] + "***"
}
