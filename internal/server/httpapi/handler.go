package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/spolyakov/passport/internal/common"
	"github.com/spolyakov/passport/internal/server/users"
)

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
}

func newUserResponse(u *users.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		IsActive:  u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (s *Server) newTokenResponse(pair *users.TokenPair) tokenResponse {
	return tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
		ExpiresIn:    int(s.accessTTL.Seconds()),
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	user, err := s.users.Register(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		s.metrics.RecordAuthOperation("register", "error")
		s.writeError(w, r, err)
		return
	}

	s.metrics.RecordAuthOperation("register", "ok")
	s.logger.Info(r.Context(), "user registered", "username", user.Username)
	s.writeJSON(w, http.StatusCreated, newUserResponse(user))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	pair, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.metrics.RecordAuthOperation("login", "error")
		s.writeError(w, r, err)
		return
	}

	s.metrics.RecordAuthOperation("login", "ok")
	s.writeJSON(w, http.StatusOK, s.newTokenResponse(pair))
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	pair, err := s.users.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		s.metrics.RecordAuthOperation("refresh", "error")
		s.writeError(w, r, err)
		return
	}

	s.metrics.RecordAuthOperation("refresh", "ok")
	s.writeJSON(w, http.StatusOK, s.newTokenResponse(pair))
}

// handleLogout exists for API symmetry: tokens are stateless, so logout is
// client-side token disposal. Kept for a future revocation-list extension.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, messageResponse{Message: "Successfully logged out"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		s.writeError(w, r, common.ErrorUnauthorized)
		return
	}
	s.writeJSON(w, http.StatusOK, newUserResponse(user))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, healthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Service:   serviceName,
	})
}

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid request body"})
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error(context.Background(), "encoding response", "error", err.Error())
	}
}

// writeError maps the service's typed errors to HTTP status codes. Raw
// storage detail never reaches the client: anything unrecognized becomes a
// plain 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	detail := "internal server error"

	switch {
	case errors.Is(err, common.ErrorInvalidInput):
		status = http.StatusBadRequest
		detail = err.Error()
	case errors.Is(err, common.ErrorConflict):
		status = http.StatusConflict
		detail = "user already exists"
	case errors.Is(err, common.ErrorInvalidCredentials):
		status = http.StatusUnauthorized
		detail = common.ErrorInvalidCredentials.Error()
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrInvalidSignature),
		errors.Is(err, common.ErrWrongTokenType):
		status = http.StatusUnauthorized
		detail = err.Error()
	case errors.Is(err, common.ErrorNotFound):
		status = http.StatusNotFound
		detail = "not found"
	}

	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	if status == http.StatusInternalServerError {
		args := []any{"error", err.Error()}
		if id, ok := requestIDFromContext(r.Context()); ok {
			args = append(args, "request_id", id)
		}
		s.logger.Error(r.Context(), "request failed", args...)
	}

	s.writeJSON(w, status, errorResponse{Detail: detail})
}
