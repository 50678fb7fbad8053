package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/riskibarqy/padel-league/internal/usecase"
)

const (
	photoFormField       = "photo"
	multipartMemoryBytes = 8 << 20
	multipartOverhead    = 1 << 20
)

func (h *Handler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UploadPhoto")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	matchID, err := pathID(r, "matchID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.photoMaxBytes+multipartOverhead)
	if err := r.ParseMultipartForm(multipartMemoryBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(ctx, w, fmt.Errorf("%w: photo exceeds %d bytes", usecase.ErrInvalidInput, h.photoMaxBytes))
			return
		}
		writeError(ctx, w, fmt.Errorf("%w: invalid multipart payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile(photoFormField)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: multipart field %q is required", usecase.ErrInvalidInput, photoFormField))
		return
	}
	defer file.Close()

	uploaded, err := h.photoService.Upload(ctx, usecase.UploadPhotoInput{
		UserID:   principal.UserID,
		MatchID:  matchID,
		FileName: header.Filename,
		Body:     file,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "upload photo failed", "user_id", principal.UserID, "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, photoToDTO(uploaded))
}

func (h *Handler) ListMatchPhotos(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatchPhotos")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	matchID, err := pathID(r, "matchID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	photos, err := h.photoService.ListByMatch(ctx, principal.UserID, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "list match photos failed", "user_id", principal.UserID, "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]photoDTO, 0, len(photos))
	for _, item := range photos {
		items = append(items, photoToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}
