package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/padel-league/internal/domain/photo"
	qb "github.com/riskibarqy/padel-league/internal/platform/querybuilder"
)

var photoColumns = qb.Columns(photoTableModel{}, "")

type PhotoRepository struct {
	q sqlx.ExtContext
}

func NewPhotoRepository(db *sqlx.DB) *PhotoRepository {
	return &PhotoRepository{q: db}
}

func (r *PhotoRepository) Create(ctx context.Context, p photo.Photo) (photo.Photo, error) {
	insertModel := photoInsertModel{
		MatchID:     p.MatchID,
		UploaderID:  p.UploaderID,
		FileName:    p.FileName,
		ObjectKey:   p.ObjectKey,
		URL:         p.URL,
		ContentType: p.ContentType,
		SizeBytes:   p.SizeBytes,
		CreatedAt:   p.CreatedAt,
	}
	query, args, err := qb.InsertModel("match_photos", insertModel, "RETURNING id")
	if err != nil {
		return photo.Photo{}, fmt.Errorf("build create photo query: %w", err)
	}
	if err := sqlx.GetContext(ctx, r.q, &p.ID, query, args...); err != nil {
		return photo.Photo{}, fmt.Errorf("create photo: %w", err)
	}
	return p, nil
}

func (r *PhotoRepository) ListByMatch(ctx context.Context, matchID int64) ([]photo.Photo, error) {
	query, args, err := qb.Select(photoColumns...).From("match_photos").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list photos query: %w", err)
	}

	var rows []photoTableModel
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	out := make([]photo.Photo, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
