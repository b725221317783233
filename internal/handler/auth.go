package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/clinicore/clinicore/internal/service"
	"github.com/clinicore/clinicore/internal/session"
)

// LoginRequest is the sign-in request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the sign-in response body
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
}

// Login verifies credentials and issues an access token
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":{"code":"bad_request","message":"Invalid request body"}}`, http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, `{"error":{"code":"bad_request","message":"Email and password are required"}}`, http.StatusBadRequest)
		return
	}

	token, user, err := h.authSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			http.Error(w, `{"error":{"code":"invalid_credentials","message":"Invalid email or password"}}`, http.StatusUnauthorized)
			return
		}
		h.log.Error().Err(err).Msg("login failed")
		http.Error(w, `{"error":{"code":"internal","message":"Login failed"}}`, http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "clinicore_access_token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cfg.Session.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		UserID:      user.ID,
		DisplayName: user.DisplayName,
		Role:        user.Role,
	})
}

// Logout destroys the caller's session and clears the token cookie
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	sid := session.IDFromContext(r.Context())
	if err := h.authSvc.Logout(r.Context(), sid); err != nil {
		h.log.Warn().Err(err).Msg("failed to destroy session on logout")
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "clinicore_access_token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.SetCookie(w, &http.Cookie{
		Name:   h.cfg.Session.CookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	w.WriteHeader(http.StatusNoContent)
}
