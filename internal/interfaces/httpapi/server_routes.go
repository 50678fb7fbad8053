package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	registerAuthorizedLeagueRoutes(mux, handler, verifier)
	registerAuthorizedMatchRoutes(mux, handler, verifier)
	registerAuthorizedUserRoutes(mux, handler, verifier)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/cards/{cardID}/active", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.SetCardActive)))
	mux.Handle("POST /v1/internal/matches/{matchID}/distribute", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.DistributeCards)))
}

func registerAuthorizedLeagueRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/leagues", RequireAuth(verifier, http.HandlerFunc(handler.CreateLeague)))
	mux.Handle("GET /v1/leagues", RequireAuth(verifier, http.HandlerFunc(handler.ListMyLeagues)))
	mux.Handle("POST /v1/leagues/join", RequireAuth(verifier, http.HandlerFunc(handler.JoinLeague)))
	mux.Handle("GET /v1/leagues/{leagueID}", RequireAuth(verifier, http.HandlerFunc(handler.GetLeague)))
	mux.Handle("PATCH /v1/leagues/{leagueID}", RequireAuth(verifier, http.HandlerFunc(handler.UpdateLeagueName)))
	mux.Handle("POST /v1/leagues/{leagueID}/invite-code", RequireAuth(verifier, http.HandlerFunc(handler.RegenerateInviteCode)))
	mux.Handle("POST /v1/leagues/{leagueID}/matches", RequireAuth(verifier, http.HandlerFunc(handler.CreateMatch)))
	mux.Handle("GET /v1/leagues/{leagueID}/matches", RequireAuth(verifier, http.HandlerFunc(handler.ListLeagueMatches)))
}

func registerAuthorizedMatchRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/matches/{matchID}", RequireAuth(verifier, http.HandlerFunc(handler.GetMatch)))
	mux.Handle("DELETE /v1/matches/{matchID}", RequireAuth(verifier, http.HandlerFunc(handler.DeleteMatch)))
	mux.Handle("POST /v1/matches/{matchID}/join", RequireAuth(verifier, http.HandlerFunc(handler.JoinMatch)))
	mux.Handle("POST /v1/matches/{matchID}/leave", RequireAuth(verifier, http.HandlerFunc(handler.LeaveMatch)))
	mux.Handle("POST /v1/matches/{matchID}/cancel", RequireAuth(verifier, http.HandlerFunc(handler.CancelMatch)))
	mux.Handle("POST /v1/matches/{matchID}/result", RequireAuth(verifier, http.HandlerFunc(handler.SubmitResult)))
	mux.Handle("POST /v1/matches/{matchID}/use-card", RequireAuth(verifier, http.HandlerFunc(handler.UseCard)))
	mux.Handle("POST /v1/matches/{matchID}/ratings", RequireAuth(verifier, http.HandlerFunc(handler.SubmitRatings)))
	mux.Handle("GET /v1/matches/{matchID}/ratings", RequireAuth(verifier, http.HandlerFunc(handler.ListMatchRatings)))
	mux.Handle("POST /v1/matches/{matchID}/photos", RequireAuth(verifier, http.HandlerFunc(handler.UploadPhoto)))
	mux.Handle("GET /v1/matches/{matchID}/photos", RequireAuth(verifier, http.HandlerFunc(handler.ListMatchPhotos)))
}

func registerAuthorizedUserRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/users/me/stats", RequireAuth(verifier, http.HandlerFunc(handler.GetMyStats)))
	mux.Handle("GET /v1/cards", RequireAuth(verifier, http.HandlerFunc(handler.ListCards)))
}
