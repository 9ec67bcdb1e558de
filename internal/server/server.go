package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"fifa-tracker/internal/auth"
	"fifa-tracker/internal/constants"
	"fifa-tracker/internal/domain"
	"fifa-tracker/internal/middleware"
	"fifa-tracker/internal/repository"
	"fifa-tracker/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type Server struct {
	auth    *auth.Service
	users   *service.UserService
	matches *service.MatchService
	stats   *service.StatsService
	logger  zerolog.Logger
}

func New(authSvc *auth.Service, users *service.UserService, matches *service.MatchService, stats *service.StatsService, logger zerolog.Logger) *Server {
	return &Server{auth: authSvc, users: users, matches: matches, stats: stats, logger: logger}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/payload", s.handleGeneratePayload)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/logout", s.handleLogout)
		r.Get("/auth/me", s.handleMe)

		r.Get("/matches", s.handleListMatches)
		r.Get("/matches/{id}", s.handleGetMatch)
		r.Get("/players/{address}/matches", s.handlePlayerMatches)
		r.Get("/players/{address}/stats", s.handlePlayerStats)
		r.Get("/leaderboard", s.handleLeaderboard)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(s.auth, s.logger))

			r.Post("/matches", s.handleCreateMatch)
			r.Post("/matches/{id}/result", s.handleDeclareWinner)
			r.Delete("/matches/{id}", s.handleDeleteMatch)

			r.Get("/profile", s.handleGetProfile)
			r.Put("/profile", s.handleUpdateProfile)
			r.Delete("/profile", s.handleDeleteProfile)

			r.Post("/admin/tombstones/clear", s.handleClearTombstones)
		})
	})

	return r
}

type payloadRequest struct {
	Address string `json:"address"`
	ChainID int64  `json:"chain_id"`
}

func (s *Server) handleGeneratePayload(w http.ResponseWriter, r *http.Request) {
	var req payloadRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Address == "" {
		writeError(w, http.StatusBadRequest, "address is required")
		return
	}

	payload, err := s.auth.GeneratePayload(req.Address, req.ChainID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate login payload")
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

type loginRequest struct {
	Payload   auth.LoginPayload `json:"payload"`
	Signature string            `json:"signature"`
}

type userResponse struct {
	WalletAddress string    `json:"wallet_address"`
	DisplayName   string    `json:"display_name"`
	CreatedAt     time.Time `json:"created_at"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	token, address, err := s.auth.Login(r.Context(), req.Payload, req.Signature)
	if err != nil {
		s.logger.Warn().Err(err).Str("address", req.Payload.Address).Msg("login rejected")
		writeError(w, http.StatusUnauthorized, "login failed")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     constants.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(constants.SessionTTL),
	})

	user, err := s.users.GetOrCreate(r.Context(), address)
	if err != nil {
		s.logger.Warn().Err(err).Str("address", address).Msg("failed to ensure user row after login")
		writeJSON(w, http.StatusOK, userResponse{WalletAddress: address, DisplayName: service.DefaultDisplayName(address)})
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     constants.SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type meResponse struct {
	LoggedIn bool   `json:"logged_in"`
	Address  string `json:"address,omitempty"`
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(constants.SessionCookie)
	if err != nil || cookie.Value == "" {
		writeJSON(w, http.StatusOK, meResponse{})
		return
	}

	address, err := s.auth.VerifyToken(cookie.Value)
	if err != nil {
		writeJSON(w, http.StatusOK, meResponse{})
		return
	}
	writeJSON(w, http.StatusOK, meResponse{LoggedIn: true, Address: address})
}

type matchRequest struct {
	Player1      string `json:"player1"`
	Player2      string `json:"player2"`
	Player1Score int    `json:"player1_score"`
	Player2Score int    `json:"player2_score"`
	Player1Team  string `json:"player1_team"`
	Player2Team  string `json:"player2_team"`
}

type matchResponse struct {
	ID           int64     `json:"id"`
	Player1      string    `json:"player1"`
	Player2      string    `json:"player2"`
	Player1Score int       `json:"player1_score"`
	Player2Score int       `json:"player2_score"`
	Player1Team  string    `json:"player1_team,omitempty"`
	Player2Team  string    `json:"player2_team,omitempty"`
	Winner       string    `json:"winner,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func (s *Server) handleCreateMatch(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.AddressFromContext(r.Context())

	var req matchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Player1 == "" {
		req.Player1 = caller
	}
	if req.Player1 != caller && req.Player2 != caller {
		writeError(w, http.StatusBadRequest, "you must be one of the match players")
		return
	}
	if req.Player2 == "" {
		writeError(w, http.StatusBadRequest, "opponent is required")
		return
	}
	if req.Player1Score < 0 || req.Player2Score < 0 {
		writeError(w, http.StatusBadRequest, "scores must be non-negative")
		return
	}

	match, err := s.matches.Create(r.Context(), &domain.Match{
		Player1:      req.Player1,
		Player2:      req.Player2,
		Player1Score: req.Player1Score,
		Player2Score: req.Player2Score,
		Player1Team:  req.Player1Team,
		Player2Team:  req.Player2Team,
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMatchResponse(match))
}

func (s *Server) handleListMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := s.matches.List(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMatchResponses(matches))
}

func (s *Server) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	id, err := matchIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid match id")
		return
	}

	match, err := s.matches.Get(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMatchResponse(match))
}

type resultRequest struct {
	Winner string `json:"winner"`
}

func (s *Server) handleDeclareWinner(w http.ResponseWriter, r *http.Request) {
	id, err := matchIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid match id")
		return
	}

	var req resultRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Winner == "" {
		writeError(w, http.StatusBadRequest, "winner is required")
		return
	}

	match, err := s.matches.DeclareWinner(r.Context(), id, req.Winner)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMatchResponse(match))
}

func (s *Server) handleDeleteMatch(w http.ResponseWriter, r *http.Request) {
	id, err := matchIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid match id")
		return
	}

	// Deletion is never reported as failed: once tombstoned, the match
	// is gone from this client's view whatever the backend says.
	s.matches.Delete(r.Context(), id)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handlePlayerMatches(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")
	matches, err := s.matches.ListForPlayer(r.Context(), address)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMatchResponses(matches))
}

type statsResponse struct {
	UserID       string `json:"user_id"`
	DisplayName  string `json:"display_name,omitempty"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
	Draws        int    `json:"draws"`
	GoalsFor     int    `json:"goals_for"`
	GoalsAgainst int    `json:"goals_against"`
	TotalGames   int    `json:"total_games"`
}

func (s *Server) handlePlayerStats(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")
	stats, err := s.stats.Stats(r.Context(), address)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toStatsResponse(stats, ""))
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	board, err := s.stats.Leaderboard(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	names := make(map[string]string)
	if users, err := s.users.List(r.Context()); err == nil {
		for _, user := range users {
			names[user.WalletAddress] = user.DisplayName
		}
	}

	resp := make([]statsResponse, 0, len(board))
	for i := range board {
		resp = append(resp, toStatsResponse(&board[i], names[board[i].UserID]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	address, _ := middleware.AddressFromContext(r.Context())
	user, err := s.users.GetOrCreate(r.Context(), address)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

type profileRequest struct {
	DisplayName string `json:"display_name"`
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	address, _ := middleware.AddressFromContext(r.Context())

	var req profileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	user, err := s.users.UpdateDisplayName(r.Context(), address, req.DisplayName)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	address, _ := middleware.AddressFromContext(r.Context())

	user, err := s.users.DeleteProfile(r.Context(), address)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) handleClearTombstones(w http.ResponseWriter, r *http.Request) {
	s.matches.ClearTombstones()
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrMissingPlayer),
		errors.Is(err, service.ErrNegativeScore),
		errors.Is(err, service.ErrWinnerAlreadySet),
		errors.Is(err, service.ErrWinnerNotParticipant),
		errors.Is(err, service.ErrEmptyDisplayName):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func matchIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func toUserResponse(user *domain.User) userResponse {
	return userResponse{
		WalletAddress: user.WalletAddress,
		DisplayName:   user.DisplayName,
		CreatedAt:     user.CreatedAt,
	}
}

func toMatchResponse(match *domain.Match) matchResponse {
	return matchResponse{
		ID:           match.ID,
		Player1:      match.Player1,
		Player2:      match.Player2,
		Player1Score: match.Player1Score,
		Player2Score: match.Player2Score,
		Player1Team:  match.Player1Team,
		Player2Team:  match.Player2Team,
		Winner:       match.Winner,
		CreatedAt:    match.CreatedAt,
	}
}

func toMatchResponses(matches []domain.Match) []matchResponse {
	resp := make([]matchResponse, 0, len(matches))
	for i := range matches {
		resp = append(resp, toMatchResponse(&matches[i]))
	}
	return resp
}

func toStatsResponse(stats *domain.PlayerStats, displayName string) statsResponse {
	return statsResponse{
		UserID:       stats.UserID,
		DisplayName:  displayName,
		Wins:         stats.Wins,
		Losses:       stats.Losses,
		Draws:        stats.Draws,
		GoalsFor:     stats.GoalsFor,
		GoalsAgainst: stats.GoalsAgainst,
		TotalGames:   stats.TotalGames,
	}
}
