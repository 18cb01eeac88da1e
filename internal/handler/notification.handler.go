package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"otp-delivery-service/internal/domain"
	"otp-delivery-service/internal/service"
	"otp-delivery-service/pkg/response"
)

// NotificationHandler is the direct enqueue surface for transactional sends
// that do not go through the OTP engine.
type NotificationHandler struct {
	dispatcher service.Enqueuer
	logger     *zap.Logger
}

func NewNotificationHandler(dispatcher service.Enqueuer, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{dispatcher: dispatcher, logger: logger}
}

type sendRequest struct {
	Recipient   string            `json:"recipient"`
	TemplateRef string            `json:"template_ref"`
	Subject     string            `json:"subject,omitempty"`
	Fields      map[string]string `json:"fields,omitempty"`
	Provider    string            `json:"provider,omitempty"`
}

func (h *NotificationHandler) SendEmail(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, domain.ChannelEmail)
}

func (h *NotificationHandler) SendSMS(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, domain.ChannelSMS)
}

func (h *NotificationHandler) send(w http.ResponseWriter, r *http.Request, channel domain.Channel) {
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Recipient == "" || req.TemplateRef == "" {
		response.Error(w, http.StatusBadRequest, "recipient and template_ref required")
		return
	}

	err := h.dispatcher.Dispatch(r.Context(), channel, domain.JobPayload{
		Recipient:   req.Recipient,
		TemplateRef: req.TemplateRef,
		Subject:     req.Subject,
		Fields:      req.Fields,
		Provider:    req.Provider,
	})
	if err != nil {
		h.logger.Error("enqueue failed", zap.String("channel", string(channel)), zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "failed to queue notification")
		return
	}
	// delivery outcome is async; only the enqueue is acknowledged
	response.JSON(w, http.StatusAccepted, map[string]string{"state": "queued"})
}
