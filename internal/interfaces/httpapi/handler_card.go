package httpapi

import "net/http"

func (h *Handler) ListCards(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCards")
	defer span.End()

	cards, err := h.cardService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list cards failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]cardDTO, 0, len(cards))
	for _, c := range cards {
		items = append(items, cardToDTO(c))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) SetCardActive(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetCardActive")
	defer span.End()

	cardID, err := pathID(r, "cardID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req setCardActiveRequest
	if err := h.decodeRequest(ctx, w, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.cardService.SetActive(ctx, cardID, *req.Active)
	if err != nil {
		h.logger.WarnContext(ctx, "set card active failed", "card_id", cardID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, cardToDTO(updated))
}

func (h *Handler) GetMyStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyStats")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	stats, err := h.statsService.UserStats(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "get user stats failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, userStatsToDTO(ctx, stats))
}
