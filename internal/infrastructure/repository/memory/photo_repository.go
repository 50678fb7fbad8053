package memory

import (
	"context"
	"fmt"

	"github.com/riskibarqy/padel-league/internal/domain/photo"
)

type PhotoRepository struct {
	binding
}

func (r *PhotoRepository) Create(_ context.Context, p photo.Photo) (photo.Photo, error) {
	err := r.write(func(d *state) error {
		if _, ok := d.matches[p.MatchID]; !ok {
			return fmt.Errorf("create photo: match %d not found", p.MatchID)
		}
		p.ID = d.id()
		d.photos[p.ID] = p
		return nil
	})
	if err != nil {
		return photo.Photo{}, err
	}
	return p, nil
}

func (r *PhotoRepository) ListByMatch(_ context.Context, matchID int64) ([]photo.Photo, error) {
	var out []photo.Photo
	r.read(func(d *state) {
		out = sortedValues(d.photos,
			func(p photo.Photo) bool { return p.MatchID == matchID },
			func(a, b photo.Photo) bool { return a.ID < b.ID },
		)
	})
	return out, nil
}
