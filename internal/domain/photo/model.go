package photo

import (
	"path/filepath"
	"strings"
	"time"
)

type Photo struct {
	ID          int64
	MatchID     int64
	UploaderID  int64
	FileName    string
	ObjectKey   string
	URL         string
	ContentType string
	SizeBytes   int64
	CreatedAt   time.Time
}

var allowedExtensions = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
}

// ContentTypeFor returns the normalized extension and MIME type of an allowed image name.
func ContentTypeFor(fileName string) (ext, contentType string, ok bool) {
	ext = strings.ToLower(filepath.Ext(strings.TrimSpace(fileName)))
	contentType, ok = allowedExtensions[ext]
	return ext, contentType, ok
}
