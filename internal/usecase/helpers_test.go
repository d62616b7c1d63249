package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/clinitech/internal/entity"
	"github.com/xavierca1/clinitech/internal/infra/database"
	"github.com/xavierca1/clinitech/internal/infra/queue"
	"github.com/xavierca1/clinitech/internal/infra/storage"
)

const (
	validCPF      = "52998224725"
	otherValidCPF = "11144477735"
	strongPass    = "Senha123"
)

var today = time.Date(2026, 3, 10, 10, 0, 0, 0, time.Local)

func fixedClock() time.Time { return today }

type repos struct {
	store        *storage.MemoryStore
	patients     *database.PatientRepository
	doctors      *database.DoctorRepository
	exams        *database.ExamRepository
	prescriptons *database.PrescriptionRepository
	certificates *database.CertificateRepository
	insurance    *database.InsuranceRepository
	appointments *database.AppointmentRepository
	chats        *database.ChatRepository
}

func newRepos() *repos {
	s := storage.NewMemoryStore()
	l := storage.NewKeyLocker()
	return &repos{
		store:        s,
		patients:     database.NewPatientRepository(s, l),
		doctors:      database.NewDoctorRepository(s, l),
		exams:        database.NewExamRepository(s, l),
		prescriptons: database.NewPrescriptionRepository(s, l),
		certificates: database.NewCertificateRepository(s, l),
		insurance:    database.NewInsuranceRepository(s),
		appointments: database.NewAppointmentRepository(s, l),
		chats:        database.NewChatRepository(s, l),
	}
}

func (r *repos) seedPatient(cpf, name string) {
	_ = r.patients.Create(context.Background(), &entity.Patient{
		CPF:   cpf,
		Name:  name,
		Phone: "11987654321",
		Email: "paciente@example.com",
	})
}

// ============ MOCKS ============

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishNotification(ctx context.Context, p queue.NotificationPayload) error {
	return m.Called(ctx, p).Error(0)
}

type MockDoctorRepository struct {
	mock.Mock
}

func (m *MockDoctorRepository) Create(ctx context.Context, d *entity.Doctor) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDoctorRepository) FindByCRM(ctx context.Context, crm string) (*entity.Doctor, error) {
	args := m.Called(ctx, crm)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Doctor), args.Error(1)
}

func (m *MockDoctorRepository) Delete(ctx context.Context, crm string) error {
	return m.Called(ctx, crm).Error(0)
}

func (m *MockDoctorRepository) AddToList(ctx context.Context, crm string) error {
	return m.Called(ctx, crm).Error(0)
}

func (m *MockDoctorRepository) ListCRMs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockPatientRepository struct {
	mock.Mock
}

func (m *MockPatientRepository) Create(ctx context.Context, p *entity.Patient) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPatientRepository) FindByCPF(ctx context.Context, cpf string) (*entity.Patient, error) {
	args := m.Called(ctx, cpf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Patient), args.Error(1)
}

func (m *MockPatientRepository) Update(ctx context.Context, p *entity.Patient) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPatientRepository) ListAll(ctx context.Context) ([]*entity.Patient, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Patient), args.Error(1)
}
