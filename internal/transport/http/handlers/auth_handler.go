package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/sportsclub/backend/internal/service"
	"github.com/sportsclub/backend/pkg/validator"
)

type AuthHandler struct {
	authService *service.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(authService *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, logger: logger}
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var input service.SignUpInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateSignUp(input.Name, input.Email, input.Password); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	userID, err := h.authService.SignUp(r.Context(), input)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			writeError(w, http.StatusConflict, "USER_EXISTS", "User already exists")
		} else {
			h.logger.Error("sign up failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"msg":    "Registration successful! Please check your email for the verification code.",
		"userId": userID,
	})
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var input service.SignInInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateSignIn(input.Email, input.Password); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	resp, err := h.authService.SignIn(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCreds):
			writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid credentials")
		case errors.Is(err, service.ErrEmailNotVerified):
			// Distinct status and shape so the client can redirect to the
			// verification screen.
			writeJSON(w, http.StatusForbidden, map[string]any{
				"msg":                  "Please verify your email address first",
				"requiresVerification": true,
				"email":                input.Email,
			})
		default:
			h.logger.Error("sign in failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

type verifyEmailInput struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var input verifyEmailInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateVerifyEmail(input.Email, input.OTP); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	resp, err := h.authService.VerifyEmail(r.Context(), input.Email, input.OTP)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
		case errors.Is(err, service.ErrAlreadyVerified):
			writeError(w, http.StatusBadRequest, "ALREADY_VERIFIED", "Email already verified")
		case errors.Is(err, service.ErrInvalidOTP):
			writeError(w, http.StatusBadRequest, "INVALID_OTP", "Invalid OTP")
		case errors.Is(err, service.ErrOTPExpired):
			writeError(w, http.StatusBadRequest, "OTP_EXPIRED", "OTP has expired. Please request a new one.")
		default:
			h.logger.Error("email verification failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"msg":   "Email verified successfully!",
		"token": resp.Token,
		"user":  resp.User,
	})
}

type resendInput struct {
	Email string `json:"email"`
}

func (h *AuthHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var input resendInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateResend(input.Email); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	if err := h.authService.ResendOTP(r.Context(), input.Email); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
		case errors.Is(err, service.ErrAlreadyVerified):
			writeError(w, http.StatusBadRequest, "ALREADY_VERIFIED", "Email is already verified")
		case errors.Is(err, service.ErrResendCooldown):
			writeError(w, http.StatusTooManyRequests, "COOLDOWN", "Please wait before requesting another code")
		case errors.Is(err, service.ErrDeliveryFailed):
			writeError(w, http.StatusInternalServerError, "DELIVERY_FAILED", "Failed to send verification email")
		default:
			h.logger.Error("resend failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"msg": "Verification code has been resent to your email",
	})
}
