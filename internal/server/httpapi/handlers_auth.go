package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bookdelivery/backend/internal/common"
	"github.com/bookdelivery/backend/internal/server/models"
	"github.com/bookdelivery/backend/internal/server/services"
)

type signupRequest struct {
	Email    string      `json:"email"`
	Username string      `json:"username"`
	FullName string      `json:"fullName"`
	Password string      `json:"password"`
	Role     models.Role `json:"role,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenRefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type jwtResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	Email        string `json:"email"`
}

type tokenRefreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email, username and password are required")
		return
	}

	err := s.auth.Register(r.Context(), services.SignupRequest{
		Email:    req.Email,
		Username: req.Username,
		FullName: req.FullName,
		Password: req.Password,
		Role:     req.Role,
	})
	switch {
	case errors.Is(err, common.ErrEmailAlreadyExists):
		writeError(w, http.StatusConflict, "email already exists")
	case errors.Is(err, common.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, "invalid email")
	case err != nil:
		writeError(w, http.StatusInternalServerError, "registration failed")
	default:
		writeSuccess(w, http.StatusCreated, "success")
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := s.auth.Login(r.Context(), services.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	switch {
	case errors.Is(err, common.ErrAuthenticationFailed):
		writeError(w, http.StatusUnauthorized, "invalid email or password")
	case err != nil:
		writeError(w, http.StatusInternalServerError, "login failed")
	default:
		writeSuccess(w, http.StatusOK, jwtResponse{
			Token:        resp.Token,
			RefreshToken: resp.RefreshToken,
			Email:        resp.Email,
		})
	}
}

func (s *Server) handleRefreshToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := s.auth.RefreshToken(r.Context(), services.TokenRefreshRequest{RefreshToken: req.RefreshToken})
	switch {
	case errors.Is(err, common.ErrRefreshTokenNotFound):
		writeError(w, http.StatusNotFound, "refresh token not found")
	case err != nil:
		writeError(w, http.StatusInternalServerError, "token refresh failed")
	case resp == nil:
		// expired refresh token: renewal denied, the client must log in again
		writeError(w, http.StatusUnauthorized, "refresh token expired")
	default:
		writeSuccess(w, http.StatusOK, tokenRefreshResponse{
			AccessToken:  resp.AccessToken,
			RefreshToken: resp.RefreshToken,
		})
	}
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	result := s.auth.Logout(r.Context(), r.Header.Get("Authorization"))
	if result != services.LogoutSuccess {
		writeError(w, http.StatusUnauthorized, result)
		return
	}
	writeSuccess(w, http.StatusOK, result)
}
