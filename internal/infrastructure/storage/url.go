package storage

import (
	"path"
	"strings"

	crerr "github.com/cockroachdb/errors"
)

var errInvalidKey = crerr.New("invalid object key")

// cleanKey normalizes an object key and rejects keys that escape the store root.
func cleanKey(key string) (string, error) {
	key = strings.TrimSpace(strings.ReplaceAll(key, "\\", "/"))
	key = strings.TrimPrefix(key, "/")
	if key == "" {
		return "", errInvalidKey
	}
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", crerr.Wrapf(errInvalidKey, "key %q", key)
	}
	return cleaned, nil
}

func publicURL(baseURL, key string) string {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return "/" + key
	}
	return baseURL + "/" + key
}
