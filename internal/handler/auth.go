package handler

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/neon-social/backend/internal/model"
	"github.com/neon-social/backend/internal/service"
)

type AuthHandler struct {
	auth         *service.AuthService
	users        *service.UserService
	verification *service.VerificationService
	email        *service.EmailService
}

func NewAuthHandler(auth *service.AuthService, users *service.UserService, verification *service.VerificationService, email *service.EmailService) *AuthHandler {
	return &AuthHandler{auth: auth, users: users, verification: verification, email: email}
}

// Register godoc
// @Summary Register a new account
// @Description Creates the account and mails a verification link.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.RegisterRequest true "Email, username and password"
// @Success 201 {object} model.UserResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid request"})
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		writeAuthError(c, err)
		return
	}

	h.sendVerification(c, user)

	c.JSON(http.StatusCreated, userResponse(user))
}

// Login godoc
// @Summary Login with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Email and password"
// @Success 200 {object} model.TokenResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid request"})
		return
	}

	pair, user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokenResponse(pair, user))
}

// Refresh godoc
// @Summary Rotate the refresh token
// @Description The presented token is consumed; the response carries a new pair.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.RefreshRequest true "Refresh token"
// @Success 200 {object} model.TokenResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req model.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: "unauthorized"})
		return
	}

	pair, user, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		writeAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokenResponse(pair, user))
}

// Logout godoc
// @Summary Logout
// @Description Revokes the refresh token. Always returns 200.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.RefreshRequest true "Refresh token"
// @Success 200 {object} model.StatusResponse
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	var req model.RefreshRequest
	_ = c.ShouldBindJSON(&req)
	if err := h.auth.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		log.Printf("auth: logout revoke failed: %v", err)
	}
	c.JSON(http.StatusOK, model.StatusResponse{Status: "logged_out"})
}

// Me godoc
// @Summary Get the logged-in account
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.UserResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/v1/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user := GetCurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, userResponse(user))
}

// UpdateMe godoc
// @Summary Update username or avatar
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.UpdateMeRequest true "Fields to update"
// @Success 200 {object} model.UserResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Router /api/v1/auth/me [put]
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	user := GetCurrentUser(c)

	var req model.UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid request"})
		return
	}

	updated, err := h.users.UpdateProfile(c.Request.Context(), user.ID, req)
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, userResponse(updated))
}

// UpdateAvatar godoc
// @Summary Set the account avatar
// @Description The avatar URL usually comes from a confirmed media upload.
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.AvatarRequest true "Avatar URL"
// @Success 200 {object} model.UserResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /api/v1/auth/me/avatar [post]
func (h *AuthHandler) UpdateAvatar(c *gin.Context) {
	user := GetCurrentUser(c)

	var req model.AvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Avatar) == "" {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid request"})
		return
	}

	updated, err := h.users.UpdateProfile(c.Request.Context(), user.ID, model.UpdateMeRequest{Avatar: &req.Avatar})
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, userResponse(updated))
}

// MyStats godoc
// @Summary Get the logged-in account's activity counters
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.UserStatsResponse
// @Router /api/v1/auth/me/stats [get]
func (h *AuthHandler) MyStats(c *gin.Context) {
	user := GetCurrentUser(c)
	stats, err := h.users.GetStats(c.Request.Context(), user.ID)
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// VerifyEmail godoc
// @Summary Verify an email address
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.VerifyEmailRequest true "Verification code"
// @Success 200 {object} model.SuccessResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /api/v1/auth/verify-email [post]
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req model.VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid request"})
		return
	}

	userID, err := h.verification.ConsumeCode(c.Request.Context(), req.Code, model.VerificationEmailVerify)
	if err != nil {
		writeAuthError(c, err)
		return
	}

	if err := h.auth.MarkVerified(c.Request.Context(), userID); err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.SuccessResponse{Success: true, Message: "email verified"})
}

// ResendVerification godoc
// @Summary Resend the verification mail
// @Description Responds 200 whether or not the address exists.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.ResendVerifyRequest true "Account email"
// @Success 200 {object} model.SuccessResponse
// @Router /api/v1/auth/resend-verification [post]
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req model.ResendVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid request"})
		return
	}

	user, err := h.auth.LookupByEmail(c.Request.Context(), req.Email)
	if err == nil && user != nil && !user.IsVerified {
		h.sendVerification(c, user)
	}
	c.JSON(http.StatusOK, model.SuccessResponse{Success: true, Message: "verification mail sent if the account exists"})
}

// ForgotPassword godoc
// @Summary Request a password reset mail
// @Description Responds 200 whether or not the address exists.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.ForgotPasswordRequest true "Account email"
// @Success 200 {object} model.SuccessResponse
// @Router /api/v1/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req model.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid request"})
		return
	}

	user, err := h.auth.LookupByEmail(c.Request.Context(), req.Email)
	if err == nil && user != nil {
		code, err := h.verification.CreateCode(c.Request.Context(), user.ID, model.VerificationPasswordReset)
		if err == nil {
			if err := h.email.SendPasswordResetEmail(c.Request.Context(), user.Email, user.Username, code); err != nil {
				log.Printf("auth: failed to send reset mail to %s: %v", user.Email, err)
			}
		}
	}
	c.JSON(http.StatusOK, model.SuccessResponse{Success: true, Message: "reset mail sent if the account exists"})
}

// ResetPassword godoc
// @Summary Reset the password with a mailed code
// @Description Consumes the code, stores the new password and revokes every session.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.ResetPasswordRequest true "Code and new password"
// @Success 200 {object} model.SuccessResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /api/v1/auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req model.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid request"})
		return
	}

	userID, err := h.verification.ConsumeCode(c.Request.Context(), req.Code, model.VerificationPasswordReset)
	if err != nil {
		writeAuthError(c, err)
		return
	}

	if err := h.auth.ResetPassword(c.Request.Context(), userID, req.NewPassword); err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.SuccessResponse{Success: true, Message: "password reset"})
}

func (h *AuthHandler) sendVerification(c *gin.Context, user *model.User) {
	code, err := h.verification.CreateCode(c.Request.Context(), user.ID, model.VerificationEmailVerify)
	if err != nil {
		log.Printf("auth: failed to create verification code for user %d: %v", user.ID, err)
		return
	}
	if err := h.email.SendVerificationEmail(c.Request.Context(), user.Email, user.Username, code); err != nil {
		log.Printf("auth: failed to send verification mail to %s: %v", user.Email, err)
	}
}

func tokenResponse(pair *service.TokenPair, user *model.User) model.TokenResponse {
	return model.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
		IsVerified:   user.IsVerified,
	}
}

func userResponse(user *model.User) model.UserResponse {
	return model.UserResponse{
		ID:         user.ID,
		Email:      user.Email,
		Username:   user.Username,
		Avatar:     user.Avatar,
		IsVerified: user.IsVerified,
		CreatedAt:  user.CreatedAt,
	}
}
