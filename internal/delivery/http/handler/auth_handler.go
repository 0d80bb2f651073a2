package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"emergency-referral/internal/delivery/dto"
	"emergency-referral/internal/delivery/http/middleware"
	"emergency-referral/internal/usecase"
	"emergency-referral/pkg/response"
	"emergency-referral/pkg/validator"
)

type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	validator   *validator.CustomValidator
}

func NewAuthHandler(authUsecase usecase.AuthUsecase, validator *validator.CustomValidator) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		validator:   validator,
	}
}

// Login exchanges staff credentials for a token pair
// @Summary Staff login
// @Description Login with username or email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login Request"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !bindJSON(w, r, h.validator, &req) {
		return
	}

	tokens, err := h.authUsecase.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			response.Unauthorized(w, "Invalid username/email or password")
			return
		}
		response.InternalServerError(w, "Failed to login")
		return
	}

	response.Success(w, http.StatusOK, "Login successful", tokens)
}

// Logout revokes the access token in use and, when given, the refresh token
// @Summary Logout
// @Tags Auth
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActorFromContext(r.Context())
	tokenID, ok := middleware.GetTokenIDFromContext(r.Context())
	if actor.Anonymous || !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	// The body is optional; a missing refresh token only skips its revocation.
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	if err := h.authUsecase.Logout(r.Context(), actor.UserID, tokenID, req.RefreshToken); err != nil {
		response.InternalServerError(w, "Failed to logout")
		return
	}

	response.Success(w, http.StatusOK, "Logout successful", nil)
}

// RefreshToken rotates the token pair
// @Summary Refresh access token
// @Tags Auth
// @Param request body dto.RefreshTokenRequest true "Refresh Token Request"
// @Router /auth/refresh-token [post]
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshTokenRequest
	if !bindJSON(w, r, h.validator, &req) {
		return
	}

	tokens, err := h.authUsecase.RefreshToken(r.Context(), &req)
	switch {
	case err == nil:
		response.Success(w, http.StatusOK, "Token refreshed successfully", tokens)
	case errors.Is(err, usecase.ErrInvalidToken), errors.Is(err, usecase.ErrTokenRevoked):
		response.Unauthorized(w, err.Error())
	default:
		response.InternalServerError(w, "Failed to refresh token")
	}
}

// GetCurrentUser returns the caller's profile together with its queue role
// and referral permissions.
// @Summary Current user
// @Tags Auth
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActorFromContext(r.Context())
	if actor.Anonymous {
		response.Unauthorized(w, "Invalid token")
		return
	}

	user, err := h.authUsecase.GetCurrentUser(r.Context(), actor.UserID)
	switch {
	case err == nil:
		response.Success(w, http.StatusOK, "User retrieved successfully", user)
	case errors.Is(err, usecase.ErrUserNotFound):
		response.NotFound(w, "User not found")
	default:
		response.InternalServerError(w, "Failed to get user info")
	}
}

// CreateUser registers a staff account under one of the referral roles (admin only)
func (h *AuthHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if !bindJSON(w, r, h.validator, &req) {
		return
	}

	user, err := h.authUsecase.CreateUser(r.Context(), &req)
	switch {
	case err == nil:
		response.Success(w, http.StatusCreated, "User created successfully", user)
	case errors.Is(err, usecase.ErrUsernameAlreadyExists), errors.Is(err, usecase.ErrEmailAlreadyExists):
		response.Conflict(w, err.Error())
	case errors.Is(err, usecase.ErrRoleNotFound):
		response.BadRequest(w, "Role not found")
	default:
		response.InternalServerError(w, "Failed to create user")
	}
}
