package main

import (
	"go.uber.org/zap"

	"github.com/xavierca1/clinitech/internal/infra/database"
	"github.com/xavierca1/clinitech/internal/infra/http/handlers"
	"github.com/xavierca1/clinitech/internal/infra/storage"
	"github.com/xavierca1/clinitech/internal/usecase"
)

// app agrupa o que o router e os workers precisam.
type app struct {
	examRepo *database.ExamRepository

	patients     *handlers.PatientHandler
	doctors      *handlers.DoctorHandler
	exams        *handlers.ExamHandler
	documents    *handlers.DocumentHandler
	insurance    *handlers.InsuranceHandler
	appointments *handlers.AppointmentHandler
	chats        *handlers.ChatHandler
	health       *handlers.HealthHandler
}

type appDeps struct {
	Store             storage.Store
	StorageDriver     string
	Publisher         usecase.NotificationPublisher
	Broker            handlers.BrokerStatus
	RegistrationToken string
	Logger            *zap.Logger
}

func newApp(d appDeps) *app {
	locker := storage.NewKeyLocker()

	// 1. Repositórios
	patientRepo := database.NewPatientRepository(d.Store, locker)
	doctorRepo := database.NewDoctorRepository(d.Store, locker)
	examRepo := database.NewExamRepository(d.Store, locker)
	prescriptionRepo := database.NewPrescriptionRepository(d.Store, locker)
	certificateRepo := database.NewCertificateRepository(d.Store, locker)
	insuranceRepo := database.NewInsuranceRepository(d.Store)
	appointmentRepo := database.NewAppointmentRepository(d.Store, locker)
	chatRepo := database.NewChatRepository(d.Store, locker)

	// 2. UseCases
	patientUC := usecase.NewPatientUseCase(patientRepo, d.Logger)
	doctorUC := usecase.NewDoctorUseCase(doctorRepo, d.RegistrationToken, d.Logger)
	examUC := usecase.NewExamUseCase(examRepo, patientRepo, d.Logger)
	prescriptionUC := usecase.NewPrescriptionUseCase(prescriptionRepo, patientRepo, d.Logger)
	certificateUC := usecase.NewCertificateUseCase(certificateRepo, patientRepo, d.Logger)
	insuranceUC := usecase.NewInsuranceUseCase(insuranceRepo, d.Logger)
	appointmentUC := usecase.NewAppointmentUseCase(appointmentRepo, patientRepo, doctorRepo, d.Publisher, d.Logger)
	chatUC := usecase.NewChatUseCase(chatRepo, d.Logger)

	// 3. Handlers
	return &app{
		examRepo:     examRepo,
		patients:     handlers.NewPatientHandler(patientUC, d.Logger),
		doctors:      handlers.NewDoctorHandler(doctorUC, appointmentUC, d.Logger),
		exams:        handlers.NewExamHandler(examUC, d.Logger),
		documents:    handlers.NewDocumentHandler(prescriptionUC, certificateUC, d.Logger),
		insurance:    handlers.NewInsuranceHandler(insuranceUC, d.Logger),
		appointments: handlers.NewAppointmentHandler(appointmentUC, d.Logger),
		chats:        handlers.NewChatHandler(chatUC, d.Logger),
		health:       handlers.NewHealthHandler(d.Store, d.StorageDriver, d.Broker),
	}
}

func (a *app) close() {
	a.patients.Close()
	a.doctors.Close()
}
