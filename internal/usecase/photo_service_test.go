package usecase

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"testing"
	"time"

	usecasemock "github.com/riskibarqy/padel-league/internal/mocks/usecase"
	"github.com/stretchr/testify/mock"
)

func newPhotoService(t *testing.T, f *fixture, blobs BlobStore, maxBytes int64) *PhotoService {
	t.Helper()

	svc := NewPhotoService(f.store, blobs, &scriptedCodes{codes: []string{"UNUSED23"}}, maxBytes, nil)
	svc.now = func() time.Time { return f.now }
	return svc
}

func TestPhotoService_UploadStoresBlobAndRecord(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	m := f.completedMatch(t, 1)
	blobs := usecasemock.NewBlobStore(t)
	wantKey := "match_photos/" + strconv.FormatInt(m.ID, 10) + "/2/id.jpg"
	blobs.On("Put", mock.Anything, wantKey, "image/jpeg", mock.Anything, int64(5)).
		Return("https://cdn.example.test/"+wantKey, nil).Once()

	svc := newPhotoService(t, f, blobs, 0)
	p, err := svc.Upload(t.Context(), UploadPhotoInput{
		UserID:   2,
		MatchID:  m.ID,
		FileName: "Final Set Celebración.JPG",
		Body:     strings.NewReader("hello"),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if p.ObjectKey != wantKey || p.SizeBytes != 5 || p.UploaderID != 2 {
		t.Fatalf("unexpected photo: %+v", p)
	}
	if p.FileName != "final-set-celebracion.jpg" {
		t.Fatalf("unexpected display name %q", p.FileName)
	}

	list, err := svc.ListByMatch(t.Context(), 4, m.ID)
	if err != nil {
		t.Fatalf("list photos: %v", err)
	}
	if len(list) != 1 || list[0].URL != "https://cdn.example.test/"+wantKey {
		t.Fatalf("unexpected photo list: %+v", list)
	}
}

func TestPhotoService_UploadRejections(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	done := f.completedMatch(t, 2)
	started := f.startedMatch(t)
	blobs := usecasemock.NewBlobStore(t)
	svc := newPhotoService(t, f, blobs, 4)

	cases := []struct {
		name  string
		input UploadPhotoInput
		want  error
	}{
		{"bad extension", UploadPhotoInput{UserID: 1, MatchID: done.ID, FileName: "notes.txt", Body: strings.NewReader("x")}, ErrInvalidInput},
		{"missing body", UploadPhotoInput{UserID: 1, MatchID: done.ID, FileName: "a.png"}, ErrInvalidInput},
		{"not completed", UploadPhotoInput{UserID: 1, MatchID: started.ID, FileName: "a.png", Body: strings.NewReader("x")}, ErrInvalidState},
		{"not a participant", UploadPhotoInput{UserID: 9, MatchID: done.ID, FileName: "a.png", Body: strings.NewReader("x")}, ErrForbidden},
		{"too large", UploadPhotoInput{UserID: 1, MatchID: done.ID, FileName: "a.png", Body: strings.NewReader("12345")}, ErrInvalidInput},
		{"empty", UploadPhotoInput{UserID: 1, MatchID: done.ID, FileName: "a.png", Body: strings.NewReader("")}, ErrInvalidInput},
		{"anonymous", UploadPhotoInput{MatchID: done.ID, FileName: "a.png", Body: strings.NewReader("x")}, ErrUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Upload(t.Context(), tc.input); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
	blobs.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPhotoService_BlobFailureIsDependencyError(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	m := f.completedMatch(t, 1)
	blobs := usecasemock.NewBlobStore(t)
	blobs.On("Put", mock.Anything, mock.Anything, "image/png", mock.Anything, int64(3)).
		Return("", errors.New("bucket unreachable")).Once()

	svc := newPhotoService(t, f, blobs, 0)
	_, err := svc.Upload(t.Context(), UploadPhotoInput{UserID: 1, MatchID: m.ID, FileName: "a.png", Body: strings.NewReader("abc")})
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	list, _ := f.store.Repositories().Photos.ListByMatch(t.Context(), m.ID)
	if len(list) != 0 {
		t.Fatalf("no photo should be recorded, got %d", len(list))
	}
}

func TestPhotoService_ListRequiresMembership(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	m := f.completedMatch(t, 1)
	svc := newPhotoService(t, f, usecasemock.NewBlobStore(t), 0)

	if _, err := svc.ListByMatch(t.Context(), 9, m.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }

func TestPhotoService_ReadFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	m := f.completedMatch(t, 1)
	svc := newPhotoService(t, f, usecasemock.NewBlobStore(t), 0)

	_, err := svc.Upload(t.Context(), UploadPhotoInput{UserID: 1, MatchID: m.ID, FileName: "a.gif", Body: failingReader{}})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input on read failure, got %v", err)
	}
}
