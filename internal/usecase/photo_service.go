package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/riskibarqy/padel-league/internal/domain/match"
	"github.com/riskibarqy/padel-league/internal/domain/photo"
	"github.com/riskibarqy/padel-league/internal/domain/uow"
	idgen "github.com/riskibarqy/padel-league/internal/platform/id"
	"github.com/riskibarqy/padel-league/internal/platform/logging"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
)

const DefaultPhotoMaxBytes int64 = 10 << 20

// BlobStore persists photo payloads and returns the URL they are served from.
type BlobStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	Delete(ctx context.Context, key string) error
}

type UploadPhotoInput struct {
	UserID   int64
	MatchID  int64
	FileName string
	Body     io.Reader
}

type PhotoService struct {
	store    uow.Store
	blobs    BlobStore
	idGen    idgen.Generator
	maxBytes int64
	logger   *logging.Logger
	now      func() time.Time
}

func NewPhotoService(store uow.Store, blobs BlobStore, idGen idgen.Generator, maxBytes int64, logger *logging.Logger) *PhotoService {
	if logger == nil {
		logger = logging.Default()
	}
	if maxBytes <= 0 {
		maxBytes = DefaultPhotoMaxBytes
	}
	return &PhotoService{
		store:    store,
		blobs:    blobs,
		idGen:    idGen,
		maxBytes: maxBytes,
		logger:   logger,
		now:      time.Now,
	}
}

// Upload stores a photo of a completed match taken by one of its participants.
func (s *PhotoService) Upload(ctx context.Context, input UploadPhotoInput) (photo.Photo, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PhotoService.Upload", attribute.Int64("match.id", input.MatchID))
	defer span.End()

	if err := requireUser(input.UserID); err != nil {
		return photo.Photo{}, err
	}
	if input.Body == nil || strings.TrimSpace(input.FileName) == "" {
		return photo.Photo{}, fmt.Errorf("%w: photo file is required", ErrInvalidInput)
	}
	ext, contentType, ok := photo.ContentTypeFor(input.FileName)
	if !ok {
		return photo.Photo{}, fmt.Errorf("%w: photo must be png, jpg, jpeg or gif", ErrInvalidInput)
	}

	repos := s.store.Repositories()
	m, err := loadMatch(ctx, repos.Matches, input.MatchID, false)
	if err != nil {
		return photo.Photo{}, err
	}
	if m.Status != match.StatusCompleted {
		return photo.Photo{}, fmt.Errorf("%w: photos can only be added to completed matches", ErrInvalidState)
	}
	participations, err := repos.Matches.ListParticipations(ctx, m.ID)
	if err != nil {
		return photo.Photo{}, fmt.Errorf("list participations: %w", err)
	}
	if _, ok := match.Roster(participations).Find(input.UserID); !ok {
		return photo.Photo{}, fmt.Errorf("%w: only participants can upload photos", ErrForbidden)
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	n, err := buf.ReadFrom(io.LimitReader(input.Body, s.maxBytes+1))
	if err != nil {
		return photo.Photo{}, fmt.Errorf("%w: read photo: %s", ErrInvalidInput, err.Error())
	}
	if n == 0 {
		return photo.Photo{}, fmt.Errorf("%w: photo is empty", ErrInvalidInput)
	}
	if n > s.maxBytes {
		return photo.Photo{}, fmt.Errorf("%w: photo exceeds %d bytes", ErrInvalidInput, s.maxBytes)
	}

	prefix := "match_photos/" + strconv.FormatInt(m.ID, 10) + "/" + strconv.FormatInt(input.UserID, 10)
	key, err := idgen.ObjectKey(s.idGen, prefix, ext)
	if err != nil {
		return photo.Photo{}, fmt.Errorf("build photo key: %w", err)
	}
	url, err := s.blobs.Put(ctx, key, contentType, bytes.NewReader(buf.B), n)
	if err != nil {
		return photo.Photo{}, fmt.Errorf("%w: store photo: %s", ErrDependencyUnavailable, err.Error())
	}

	created, err := repos.Photos.Create(ctx, photo.Photo{
		MatchID:     m.ID,
		UploaderID:  input.UserID,
		FileName:    displayName(input.FileName, ext),
		ObjectKey:   key,
		URL:         url,
		ContentType: contentType,
		SizeBytes:   n,
		CreatedAt:   s.now().UTC(),
	})
	if err != nil {
		if delErr := s.blobs.Delete(ctx, key); delErr != nil {
			s.logger.WarnContext(ctx, "failed to remove orphaned photo", "key", key, "error", delErr)
		}
		return photo.Photo{}, fmt.Errorf("record photo: %w", err)
	}

	s.logger.InfoContext(ctx, "photo uploaded", "match_id", m.ID, "user_id", input.UserID, "key", key, "bytes", n)
	return created, nil
}

// ListByMatch returns the match photos to members of its league.
func (s *PhotoService) ListByMatch(ctx context.Context, userID, matchID int64) ([]photo.Photo, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PhotoService.ListByMatch", attribute.Int64("match.id", matchID))
	defer span.End()

	if err := requireUser(userID); err != nil {
		return nil, err
	}

	repos := s.store.Repositories()
	m, err := loadMatch(ctx, repos.Matches, matchID, false)
	if err != nil {
		return nil, err
	}
	if err := requireMembership(ctx, repos, m.LeagueID, userID); err != nil {
		return nil, err
	}
	out, err := repos.Photos.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	return out, nil
}

// displayName slugs the base name so it is safe to echo back in listings.
func displayName(fileName, ext string) string {
	base := strings.TrimSuffix(filepath.Base(strings.TrimSpace(fileName)), filepath.Ext(fileName))
	name := slug.Make(base)
	if name == "" {
		name = "photo"
	}
	return name + ext
}
