package routes

import (
	"github.com/chiromo-health/cmhs-backend/internal/handlers"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes(r *chi.Mux) {
	// Auth routes
	r.Post("/api/auth/signup", handlers.Signup)
	r.Post("/api/auth/signin", handlers.Signin)
	r.Post("/api/auth/signout", handlers.Signout)
	r.Get("/api/auth/me", handlers.GetMe)

	// Therapist directory
	r.Get("/api/therapists", handlers.ListTherapists)
	r.Get("/api/therapist/patients", handlers.ListMyPatients)

	// Appointment routes
	r.Post("/api/appointments", handlers.BookAppointment)
	r.Get("/api/appointments", handlers.ListAppointments)
	r.Put("/api/appointments/approve", handlers.ApproveAppointment)
	r.Put("/api/appointments/decline", handlers.DeclineAppointment)
	r.Put("/api/appointments/cancel", handlers.CancelAppointment)
	r.Post("/api/appointments/session-log", handlers.LogSession)

	// Messaging routes
	r.Post("/api/messages", handlers.SendMessage)
	r.Get("/api/messages", handlers.GetThread)
	r.Put("/api/messages", handlers.EditMessage)
	r.Delete("/api/messages", handlers.DeleteMessage)
	r.Get("/api/messages/contacts", handlers.ListContacts)

	// Mood routes
	r.Post("/api/moods", handlers.LogMood)
	r.Get("/api/moods", handlers.ListMoods)

	// Assessment routes (guests allowed)
	r.Post("/api/assessments", handlers.SubmitAssessment)
	r.Get("/api/assessments/result", handlers.GetGuestResult)
	r.Get("/api/assessments", handlers.ListAssessmentResults)

	// Journaling routes
	r.Post("/api/journals", handlers.CreateJournal)
	r.Get("/api/journals", handlers.ListJournals)

	// Payment routes: initiation plus the M-Pesa confirmation webhook
	r.Post("/api/payments/initiate", handlers.InitiatePayment)
	r.Post("/api/payments/callback", handlers.MpesaCallback)
	r.Get("/api/payments/status", handlers.PaymentStatus)

	// USSD gateway callback (plain-text CON/END protocol)
	r.Post("/api/ussd/callback", handlers.USSDCallback)
}
