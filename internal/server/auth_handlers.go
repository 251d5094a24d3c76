package server

import (
	"net/http"
	"strings"

	"tushle/internal/auth"
	"tushle/internal/store"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        *store.User `json:"user"`
}

// handleRegister creates an account. The first account becomes admin; later
// registrations default to employee and cannot self-assign admin.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.Email = trimLower(req.Email)
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		s.writeError(w, http.StatusBadRequest, "valid email required")
		return
	}
	if len(req.Password) < 8 {
		s.writeError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	count, err := s.store.CountUsers(r.Context())
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	role := store.RoleEmployee
	if count == 0 {
		role = store.RoleAdmin
	} else if req.Role == string(store.RoleManager) {
		role = store.RoleManager
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	user := &store.User{
		Email:          req.Email,
		HashedPassword: hash,
		FullName:       strings.TrimSpace(req.FullName),
		Role:           role,
		IsActive:       true,
	}
	if err := s.store.CreateUser(r.Context(), user); err != nil {
		s.writeStoreError(w, err)
		return
	}

	token, err := s.tokens.Issue(user.ID, string(user.Role))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	user, err := s.store.GetUserByEmail(r.Context(), trimLower(req.Email))
	if err != nil {
		s.writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if !user.IsActive {
		s.writeError(w, http.StatusUnauthorized, "account disabled")
		return
	}
	if err := auth.VerifyPassword(user.HashedPassword, req.Password); err != nil {
		s.writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	token, err := s.tokens.Issue(user.ID, string(user.Role))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, currentUser(r.Context()))
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.ListUsers(r.Context(), queryPage(r))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	user, err := s.store.GetUser(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, user)
}

type updateUserRequest struct {
	FullName *string `json:"full_name"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	user, err := s.store.GetUser(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Role != nil {
		user.Role = store.Role(trimLower(*req.Role))
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if err := s.store.UpdateUser(r.Context(), user); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleDeactivateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if user := currentUser(r.Context()); user != nil && user.ID == id {
		s.writeError(w, http.StatusBadRequest, "cannot deactivate own account")
		return
	}
	if err := s.store.DeactivateUser(r.Context(), id); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}
