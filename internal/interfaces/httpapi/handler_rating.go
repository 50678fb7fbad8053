package httpapi

import (
	"net/http"

	"github.com/riskibarqy/padel-league/internal/usecase"
)

func (h *Handler) SubmitRatings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitRatings")
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

	var req submitRatingsRequest
	if err := h.decodeRequest(ctx, w, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	entries := make([]usecase.RatingEntry, 0, len(req.Ratings))
	for _, item := range req.Ratings {
		entries = append(entries, usecase.RatingEntry{
			RatedID: item.RatedID,
			Score:   item.Score,
			Comment: item.Comment,
		})
	}

	saved, err := h.ratingService.SubmitRatings(ctx, usecase.SubmitRatingsInput{
		UserID:  principal.UserID,
		MatchID: matchID,
		Ratings: entries,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit ratings failed", "user_id", principal.UserID, "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]ratingDTO, 0, len(saved))
	for _, item := range saved {
		items = append(items, ratingToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListMatchRatings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatchRatings")
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

	ratings, err := h.ratingService.ListByMatch(ctx, principal.UserID, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "list match ratings failed", "user_id", principal.UserID, "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]ratingDTO, 0, len(ratings))
	for _, item := range ratings {
		items = append(items, ratingToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}
