package server

import (
	"log"
	"net/http"
	"strings"

	"github.com/marc/gazelle-sync/internal/types"
)

// handleRegister creates a dashboard user account.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req types.CreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := s.passwords.HashPassword(req.Password)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	user, err := s.db.CreateUser(r.Context(), req.Name, req.Email, hash)
	if err != nil {
		if strings.Contains(err.Error(), "already registered") {
			s.errorResponse(w, http.StatusConflict, "Email already registered")
			return
		}
		log.Printf("Error creating user: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		log.Printf("Error generating token: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	s.jsonResponse(w, http.StatusCreated, types.LoginResponse{User: user, Token: token})
}

// handleLogin authenticates a dashboard user and issues a JWT.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	user, hash, err := s.db.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		log.Printf("Error fetching user: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Login failed")
		return
	}
	if user == nil || !s.passwords.VerifyPassword(req.Password, hash) {
		s.errorResponse(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		log.Printf("Error generating token: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	s.jsonResponse(w, http.StatusOK, types.LoginResponse{User: user, Token: token})
}
