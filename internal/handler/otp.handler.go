package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"otp-delivery-service/internal/domain"
	"otp-delivery-service/internal/service"
	"otp-delivery-service/pkg/response"
	"otp-delivery-service/pkg/xerrors"
)

type OTPHandler struct {
	svc    *service.OTPService
	logger *zap.Logger
}

func NewOTPHandler(svc *service.OTPService, logger *zap.Logger) *OTPHandler {
	return &OTPHandler{svc: svc, logger: logger}
}

type otpRequest struct {
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

type verifyRequest struct {
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	OTP         string `json:"otp"`
	CustomerID  string `json:"customer_id,omitempty"`
}

type resetRequest struct {
	AttemptID string `json:"attempt_id"`
}

func (h *OTPHandler) RequestOTP(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	attemptsLeft, err := h.svc.RequestOTP(r.Context(), domain.Identity{
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]int{"attempts_left": attemptsLeft})
}

func (h *OTPHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.OTP == "" {
		response.Error(w, http.StatusBadRequest, "otp required")
		return
	}

	result, err := h.svc.VerifyOTP(r.Context(), service.VerifyInput{
		Identity:   domain.Identity{Email: req.Email, PhoneNumber: req.PhoneNumber},
		OTP:        req.OTP,
		CustomerID: req.CustomerID,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]interface{}{
		"attempt_id":    result.AttemptID,
		"customer_id":   result.CustomerID,
		"existing_user": result.ExistingUser,
	})
}

func (h *OTPHandler) ResetAttempts(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.svc.ResetAllAttempts(r.Context(), req.AttemptID); err != nil {
		h.writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, nil)
}

func (h *OTPHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, xerrors.ErrIdentifierRequired),
		errors.Is(err, xerrors.ErrAmbiguousIdentifier),
		errors.Is(err, xerrors.ErrInvalidInput):
		response.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, xerrors.ErrOTPNotFound):
		response.Error(w, http.StatusNotFound, "request a new otp")
	case errors.Is(err, xerrors.ErrExpiredOTP):
		response.Error(w, http.StatusUnauthorized, "otp expired")
	case errors.Is(err, xerrors.ErrTooManyOTPRequests),
		errors.Is(err, xerrors.ErrTooManyOTPAttempts),
		errors.Is(err, xerrors.ErrInvalidOTP):
		response.PolicyError(w, http.StatusBadRequest, err.Error(), xerrors.AttemptsLeft(err))
	default:
		h.logger.Error("otp handler error", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
