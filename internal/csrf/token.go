package csrf

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"math/big"
	"strings"
)

const (
	secretLength = 32
	tokenLength  = 2 * secretLength
	allowedChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var (
	errTokenLength = errors.New("has incorrect length")
	errTokenChars  = errors.New("has invalid characters")
)

func randomString(n int) string {
	limit := big.NewInt(int64(len(allowedChars)))
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			panic("csrf: crypto/rand unavailable: " + err.Error())
		}
		b.WriteByte(allowedChars[idx.Int64()])
	}
	return b.String()
}

// NewSecret returns a fresh random secret.
func NewSecret() string {
	return randomString(secretLength)
}

// MaskSecret hides secret behind a random one-time pad so the token changes
// on every response. The result is the pad followed by the cipher text.
func MaskSecret(secret string) string {
	mask := randomString(secretLength)
	n := len(allowedChars)
	var b strings.Builder
	b.Grow(tokenLength)
	b.WriteString(mask)
	for i := 0; i < secretLength; i++ {
		x := strings.IndexByte(allowedChars, secret[i])
		y := strings.IndexByte(allowedChars, mask[i])
		b.WriteByte(allowedChars[(x+y)%n])
	}
	return b.String()
}

// UnmaskToken reverses MaskSecret. token must be tokenLength long.
func UnmaskToken(token string) string {
	mask, cipher := token[:secretLength], token[secretLength:]
	n := len(allowedChars)
	var b strings.Builder
	b.Grow(secretLength)
	for i := 0; i < secretLength; i++ {
		x := strings.IndexByte(allowedChars, cipher[i])
		y := strings.IndexByte(allowedChars, mask[i])
		b.WriteByte(allowedChars[((x-y)%n+n)%n])
	}
	return b.String()
}

// checkFormat accepts unmasked secrets and masked tokens.
func checkFormat(token string) error {
	if len(token) != secretLength && len(token) != tokenLength {
		return errTokenLength
	}
	for i := 0; i < len(token); i++ {
		if strings.IndexByte(allowedChars, token[i]) < 0 {
			return errTokenChars
		}
	}
	return nil
}

// tokenMatches compares a well formed token, masked or not, with secret in
// constant time.
func tokenMatches(token, secret string) bool {
	if len(token) == tokenLength {
		token = UnmaskToken(token)
	}
	if len(token) != secretLength || len(secret) != secretLength {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(secret)) == 1
}
