// Package totp implements the time-based one-time-password second factor
// (RFC 6238, SHA-1, 6 digits, 30-second steps): secret generation, otpauth
// enrollment URIs, and code verification with a bounded skew window.
package totp

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base32"
	"encoding/binary"
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	secretBytes = 20
	digits      = 6
	period      = 30
)

// timeNow is a test seam for time.Now.
var timeNow = time.Now

var b32 = base32.StdEncoding.WithPadding(base32.NoPadding)

// Engine verifies codes and builds enrollment URIs for a fixed issuer.
//
// The window is the accepted clock drift in 30-second time steps: window 1
// accepts the previous, current, and next code.
type Engine struct {
	issuer string
	window int
}

func NewEngine(issuer string, window int) *Engine {
	if window < 0 {
		window = 0
	}
	return &Engine{issuer: issuer, window: window}
}

// GenerateSecret returns a fresh cryptographically random shared secret,
// base32-encoded without padding for authenticator apps.
func GenerateSecret() (string, error) {
	raw := make([]byte, secretBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return b32.EncodeToString(raw), nil
}

// EnrollmentURI builds the otpauth URI a generic authenticator app can scan:
//
//	otpauth://totp/Issuer:account?secret=...&issuer=Issuer&...
func (e *Engine) EnrollmentURI(account, secret string) string {
	label := url.PathEscape(e.issuer + ":" + account)

	v := url.Values{}
	v.Set("secret", secret)
	v.Set("issuer", e.issuer)
	v.Set("algorithm", "SHA1")
	v.Set("digits", fmt.Sprintf("%d", digits))
	v.Set("period", fmt.Sprintf("%d", period))

	return "otpauth://totp/" + label + "?" + v.Encode()
}

// Verify reports whether code matches the time-based code derived from the
// base32 secret within ±window time steps. Comparison of candidate codes is
// constant time.
func (e *Engine) Verify(code, secret string) bool {
	trimmed := strings.TrimSpace(code)
	if len(trimmed) != digits {
		return false
	}

	key, err := b32.DecodeString(strings.ToUpper(strings.TrimRight(secret, "=")))
	if err != nil || len(key) == 0 {
		return false
	}

	baseCounter := timeNow().Unix() / period
	for step := -e.window; step <= e.window; step++ {
		counter := baseCounter + int64(step)
		if counter < 0 {
			continue
		}
		generated := hotpCode(key, counter)
		if subtle.ConstantTimeCompare([]byte(generated), []byte(trimmed)) == 1 {
			return true
		}
	}

	return false
}

// hotpCode computes the HOTP value for a counter (RFC 4226 dynamic truncation).
func hotpCode(key []byte, counter int64) string {
	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], uint64(counter))

	mac := hmac.New(sha1.New, key)
	_, _ = mac.Write(msg[:])
	sum := mac.Sum(nil)

	offset := sum[len(sum)-1] & 0x0f
	bin := (int(sum[offset])&0x7f)<<24 |
		(int(sum[offset+1])&0xff)<<16 |
		(int(sum[offset+2])&0xff)<<8 |
		(int(sum[offset+3]) & 0xff)

	mod := 1
	for i := 0; i < digits; i++ {
		mod *= 10
	}

	return fmt.Sprintf("%0*d", digits, bin%mod)
}
