package postgres

import (
	"time"

	"github.com/riskibarqy/padel-league/internal/domain/photo"
)

type photoTableModel struct {
	ID          int64     `db:"id"`
	MatchID     int64     `db:"match_id"`
	UploaderID  int64     `db:"uploader_id"`
	FileName    string    `db:"file_name"`
	ObjectKey   string    `db:"object_key"`
	URL         string    `db:"url"`
	ContentType string    `db:"content_type"`
	SizeBytes   int64     `db:"size_bytes"`
	CreatedAt   time.Time `db:"created_at"`
}

type photoInsertModel struct {
	MatchID     int64     `db:"match_id"`
	UploaderID  int64     `db:"uploader_id"`
	FileName    string    `db:"file_name"`
	ObjectKey   string    `db:"object_key"`
	URL         string    `db:"url"`
	ContentType string    `db:"content_type"`
	SizeBytes   int64     `db:"size_bytes"`
	CreatedAt   time.Time `db:"created_at"`
}

func (m photoTableModel) toDomain() photo.Photo {
	return photo.Photo{
		ID:          m.ID,
		MatchID:     m.MatchID,
		UploaderID:  m.UploaderID,
		FileName:    m.FileName,
		ObjectKey:   m.ObjectKey,
		URL:         m.URL,
		ContentType: m.ContentType,
		SizeBytes:   m.SizeBytes,
		CreatedAt:   m.CreatedAt.UTC(),
	}
}
