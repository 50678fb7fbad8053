package anubis

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"

	crerr "github.com/cockroachdb/errors"
)

var errAnubisTransient = crerr.New("anubis transient failure")

func isCircuitFailure(err error) bool {
	return errors.Is(err, errAnubisTransient)
}

// hashToken keys the principal cache so raw tokens are never held in memory.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func buildURL(baseURL, path string) string {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	path = strings.TrimSpace(path)
	if path == "" {
		return baseURL
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return baseURL + path
}

// userID accepts the identity service's user_id as either a JSON number or a numeric string.
type userID int64

func (u *userID) UnmarshalJSON(raw []byte) error {
	raw = bytes.TrimSpace(raw)
	if bytes.Equal(raw, []byte("null")) {
		*u = 0
		return nil
	}
	text := string(bytes.Trim(raw, `"`))
	if text == "" {
		*u = 0
		return nil
	}
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return crerr.Wrapf(err, "parse user_id %q", text)
	}
	*u = userID(v)
	return nil
}
