package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/padel-league/internal/platform/logging"
)

// LocalStore writes blobs under a directory served by a static file server.
type LocalStore struct {
	root          string
	publicBaseURL string
	logger        *logging.Logger
}

func NewLocalStore(root, publicBaseURL string, logger *logging.Logger) (*LocalStore, error) {
	if logger == nil {
		logger = logging.Default()
	}
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, crerr.New("blob directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, crerr.Wrapf(err, "create blob directory %s", root)
	}

	return &LocalStore{
		root:          root,
		publicBaseURL: publicBaseURL,
		logger:        logger,
	}, nil
}

func (s *LocalStore) Root() string {
	return s.root
}

func (s *LocalStore) Put(ctx context.Context, key, _ string, body io.Reader, _ int64) (string, error) {
	key, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	target := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", crerr.Wrapf(err, "create directory for %s", key)
	}

	// Write to a temp file first so readers never see a partial blob.
	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return "", crerr.Wrapf(err, "create temp file for %s", key)
	}
	written, copyErr := io.Copy(tmp, body)
	closeErr := tmp.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(tmp.Name())
		if copyErr != nil {
			return "", crerr.Wrapf(copyErr, "write blob %s", key)
		}
		return "", crerr.Wrapf(closeErr, "close blob %s", key)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		_ = os.Remove(tmp.Name())
		return "", crerr.Wrapf(err, "publish blob %s", key)
	}

	s.logger.DebugContext(ctx, "stored blob", "dir", s.root, "key", key, "size", written)
	return publicURL(s.publicBaseURL, key), nil
}

func (s *LocalStore) Delete(_ context.Context, key string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(s.root, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return crerr.Wrapf(err, "delete blob %s", key)
	}
	return nil
}
