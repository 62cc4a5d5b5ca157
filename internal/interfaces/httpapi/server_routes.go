package httpapi

import "net/http"

type wrapFunc func(http.HandlerFunc) http.Handler

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/leagues", handler.ListLeagues)
	mux.HandleFunc("GET /v1/weeks", handler.ListWeeks)
	mux.HandleFunc("GET /v1/weeks/{weekID}", handler.GetWeek)
	mux.HandleFunc("GET /v1/weeks/{weekID}/matches", handler.ListWeekMatches)
	mux.HandleFunc("GET /v1/weeks/{weekID}/lock-status", handler.GetLockStatus)
}

func registerPlayerRoutes(mux *http.ServeMux, handler *Handler, auth wrapFunc) {
	mux.Handle("GET /v1/weeks/{weekID}/bets", auth(handler.ListWeekBets))
	mux.Handle("PUT /v1/matches/{matchID}/bet", auth(handler.SubmitBet))
	mux.Handle("DELETE /v1/bets/{betID}", auth(handler.DeleteBet))
	mux.Handle("GET /v1/me", auth(handler.GetMe))
	mux.Handle("GET /v1/me/bets", auth(handler.ListMyBets))
	mux.Handle("GET /v1/me/scores", auth(handler.ListMyScores))
	mux.Handle("GET /v1/leaderboard", auth(handler.GetLeaderboard))
	mux.Handle("POST /v1/scoring/preview", auth(handler.PreviewScore))
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, admin wrapFunc) {
	mux.Handle("POST /v1/leagues", admin(handler.CreateLeague))
	mux.Handle("PUT /v1/leagues/{leagueID}", admin(handler.UpdateLeague))
	mux.Handle("DELETE /v1/leagues/{leagueID}", admin(handler.DeleteLeague))

	mux.Handle("POST /v1/weeks", admin(handler.CreateWeek))
	mux.Handle("PUT /v1/weeks/{weekID}", admin(handler.UpdateWeek))
	mux.Handle("DELETE /v1/weeks/{weekID}", admin(handler.DeleteWeek))
	mux.Handle("POST /v1/weeks/{weekID}/activate", admin(handler.ActivateWeek))
	mux.Handle("POST /v1/weeks/{weekID}/deactivate", admin(handler.DeactivateWeek))
	mux.Handle("POST /v1/weeks/{weekID}/lock", admin(handler.LockWeek))
	mux.Handle("POST /v1/weeks/{weekID}/unlock", admin(handler.UnlockWeek))
	mux.Handle("POST /v1/weeks/{weekID}/recompute", admin(handler.RecomputeWeek))

	mux.Handle("POST /v1/weeks/{weekID}/matches", admin(handler.CreateMatch))
	mux.Handle("PUT /v1/matches/{matchID}", admin(handler.UpdateMatch))
	mux.Handle("DELETE /v1/matches/{matchID}", admin(handler.DeleteMatch))
	mux.Handle("PUT /v1/matches/{matchID}/result", admin(handler.SetMatchResult))
	mux.Handle("DELETE /v1/matches/{matchID}/result", admin(handler.ClearMatchResult))
	mux.Handle("PUT /v1/matches/{matchID}/odds", admin(handler.SetMatchOdds))

	mux.Handle("PUT /v1/admin/bets", admin(handler.SubmitBetOverride))
	mux.Handle("GET /v1/users", admin(handler.ListUsers))
	mux.Handle("PUT /v1/users/{userID}/role", admin(handler.SetUserRole))
}
