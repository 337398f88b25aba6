package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sort"
	"strings"
)

// SignatureField is the form field carrying the embedded signature in
// vendor webhook payloads.
const SignatureField = "signature"

var (
	ErrSignatureMissing  = errors.New("signature is missing")
	ErrSignatureMismatch = errors.New("signature mismatch")
	ErrMalformedPayload  = errors.New("malformed payload")
)

// SignFields computes the hex HMAC-SHA256 digest of a flat field mapping.
// Keys are sorted ascending and concatenated as key‖value with no
// separators; empty values participate. An embedded signature field is
// excluded from the digest.
func SignFields(fields map[string]string, salt string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k == SignatureField {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteString(fields[k])
	}

	return SignBody([]byte(b.String()), salt)
}

// SignBody computes the hex HMAC-SHA256 digest over exact raw bytes.
func SignBody(body []byte, salt string) string {
	mac := hmac.New(sha256.New, []byte(salt))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyFields checks the signature embedded in a form-encoded payload.
// The comparison is constant-time. An empty salt never verifies.
func VerifyFields(fields map[string]string, salt string) error {
	received, ok := fields[SignatureField]
	if !ok || received == "" {
		return ErrSignatureMissing
	}
	if salt == "" {
		return ErrSignatureMismatch
	}

	expected := SignFields(fields, salt)
	if !hmac.Equal([]byte(expected), []byte(received)) {
		return ErrSignatureMismatch
	}
	return nil
}

// VerifyBody checks a header-carried signature against the exact raw
// request body. The body must not be re-serialized before verification:
// re-encoding can reorder keys or change whitespace and break the digest.
func VerifyBody(body []byte, signature, salt string) error {
	if signature == "" {
		return ErrSignatureMissing
	}
	if salt == "" {
		return ErrSignatureMismatch
	}

	expected := SignBody(body, salt)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrSignatureMismatch
	}
	return nil
}
