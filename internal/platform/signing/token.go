// Package signing provides HMAC-signed, expiring opaque tokens.
//
// The aggregator's HTTP surface carries a caller's UserData (§3) as a
// path segment instead of a server-side session, the way Stremio-style
// addons encode configuration directly in the request URL. Signer is
// the same "payload + expiry + HMAC" shape the teacher uses for
// signed CDN URLs, generalized from (url, userID) to an opaque byte
// payload so any JSON blob can ride in it.
package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Signer struct {
	Secret []byte
}

// Signed is an HMAC-authenticated, base64url-encoded payload with an
// expiry, ready to be joined into a single URL path segment.
type Signed struct {
	Payload string // base64url(raw payload)
	Exp     int64
	Sig     string
}

func New(secret string) *Signer {
	return &Signer{Secret: []byte(secret)}
}

func (s *Signer) Sign(payload []byte, exp time.Time) Signed {
	encoded := base64.RawURLEncoding.EncodeToString(payload)
	return Signed{
		Payload: encoded,
		Exp:     exp.Unix(),
		Sig:     s.signValue(encoded, exp.Unix()),
	}
}

func (s *Signer) Verify(payloadB64 string, exp int64, sig string) bool {
	if time.Now().Unix() > exp {
		return false
	}
	return hmac.Equal([]byte(sig), []byte(s.signValue(payloadB64, exp)))
}

func (s *Signer) signValue(payloadB64 string, exp int64) string {
	mac := hmac.New(sha256.New, s.Secret)
	mac.Write([]byte(payloadB64))
	mac.Write([]byte("|"))
	mac.Write([]byte(strconv.FormatInt(exp, 10)))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// EncodeToken joins a Signed value into "payload.exp.sig" for use as a
// single URL path segment.
func EncodeToken(signed Signed) string {
	return strings.Join([]string{signed.Payload, strconv.FormatInt(signed.Exp, 10), signed.Sig}, ".")
}

// DecodeToken splits a token produced by EncodeToken back into its parts
// without verifying it — call Signer.Verify on the result.
func DecodeToken(token string) (payloadB64 string, exp int64, sig string, err error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return "", 0, "", fmt.Errorf("signing: malformed token")
	}
	payloadB64, expStr, sig := parts[0], parts[1], parts[2]
	if payloadB64 == "" || expStr == "" || sig == "" {
		return "", 0, "", fmt.Errorf("signing: missing token part")
	}
	exp, err = strconv.ParseInt(expStr, 10, 64)
	if err != nil {
		return "", 0, "", fmt.Errorf("signing: invalid exp: %w", err)
	}
	return payloadB64, exp, sig, nil
}

// DecodePayload base64url-decodes the payload portion of a token that
// has already been verified.
func DecodePayload(payloadB64 string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(payloadB64)
}
