package router

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"otp-delivery-service/internal/handler"
)

// SetupRoutes configures the HTTP routes for the OTP delivery service.
func SetupRoutes(r chi.Router, otp *handler.OTPHandler, notif *handler.NotificationHandler) chi.Router {
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
		},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/otp", func(r chi.Router) {
			r.Post("/request", otp.RequestOTP)
			r.Post("/verify", otp.VerifyOTP)
			r.Post("/reset", otp.ResetAttempts)
		})
		r.Route("/notifications", func(r chi.Router) {
			r.Post("/email", notif.SendEmail)
			r.Post("/sms", notif.SendSMS)
		})
	})
	return r
}
