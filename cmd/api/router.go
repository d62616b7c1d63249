package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/xavierca1/clinitech/internal/infra/http/middleware"
)

func newRouter(a *app, corsOrigins []string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/health", a.health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/patients", func(r chi.Router) {
		r.Post("/", a.patients.Register)
		r.Post("/login", a.patients.Login)
		r.Get("/", a.patients.List)

		r.Route("/{cpf}", func(r chi.Router) {
			r.Get("/", a.patients.Get)
			r.Put("/", a.patients.Update)

			r.Post("/exams", a.exams.Request)
			r.Get("/exams", a.exams.List)
			r.Patch("/exams/{id}", a.exams.UpdateStatus)
			r.Post("/exams/{id}/cancel", a.exams.Cancel)
			r.Post("/exams/{id}/result", a.exams.AttachResult)

			r.Post("/prescriptions", a.documents.CreatePrescription)
			r.Get("/prescriptions", a.documents.ListPrescriptions)
			r.Get("/prescriptions/{id}/file", a.documents.PrescriptionFile)

			r.Post("/certificates", a.documents.CreateCertificate)
			r.Get("/certificates", a.documents.ListCertificates)

			r.Post("/appointments", a.appointments.Schedule)
			r.Get("/appointments", a.appointments.List)
			r.Post("/appointments/{id}/cancel", a.appointments.Cancel)

			r.Get("/chats", a.chats.PatientConversations)
		})
	})

	r.Route("/doctors", func(r chi.Router) {
		r.Post("/", a.doctors.Register)
		r.Post("/login", a.doctors.Login)
		r.Post("/registration-token", a.doctors.VerifyRegistrationToken)
		r.Get("/", a.doctors.List)
		r.Get("/{crm}", a.doctors.Get)
		r.Get("/{crm}/agenda", a.doctors.Agenda)
		r.Get("/{crm}/chats", a.chats.DoctorConversations)
	})

	r.Route("/insurance", func(r chi.Router) {
		r.Get("/", a.insurance.Get)
		r.Post("/", a.insurance.Save)
		r.Put("/", a.insurance.Update)
		r.Delete("/", a.insurance.Delete)
	})

	r.Get("/appointments/catalog", a.appointments.Catalog)
	r.Get("/appointments/slots", a.appointments.Slots)

	r.Route("/chats/{doctorId}/{patientId}", func(r chi.Router) {
		r.Get("/", a.chats.Get)
		r.Put("/", a.chats.Save)
		r.Delete("/", a.chats.Clear)
		r.Post("/messages", a.chats.Send)
		r.Post("/read", a.chats.MarkRead)
	})

	return r
}
