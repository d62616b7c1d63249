package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xavierca1/clinitech/internal/entity"
	"github.com/xavierca1/clinitech/internal/infra/queue"
)

type ScheduleAppointmentInput struct {
	CPF       string `json:"-"`
	Specialty string `json:"especialidade"`
	Procedure string `json:"procedimento"`
	Location  string `json:"localidade"`
	Doctor    string `json:"medico"`
	Day       int    `json:"dia"`
	Month     int    `json:"mes"`
	Year      int    `json:"ano"`
	Slot      string `json:"horario"`
}

type Catalog struct {
	Specialties []string `json:"especialidades"`
	Procedures  []string `json:"procedimentos"`
	Locations   []string `json:"localidades"`
	Doctors     []string `json:"medicos"`
	Slots       []string `json:"horarios"`
	Days        []int    `json:"dias"`
}

type AppointmentUseCase struct {
	Repo        entity.AppointmentRepositoryInterface
	PatientRepo entity.PatientRepositoryInterface
	DoctorRepo  entity.DoctorRepositoryInterface
	Publisher   NotificationPublisher
	logger      *zap.Logger
	now         Clock
}

func NewAppointmentUseCase(
	repo entity.AppointmentRepositoryInterface,
	patientRepo entity.PatientRepositoryInterface,
	doctorRepo entity.DoctorRepositoryInterface,
	publisher NotificationPublisher,
	logger *zap.Logger,
) *AppointmentUseCase {
	return &AppointmentUseCase{
		Repo:        repo,
		PatientRepo: patientRepo,
		DoctorRepo:  doctorRepo,
		Publisher:   publisher,
		logger:      logger,
		now:         time.Now,
	}
}

// Catalog merges the fixed doctor names with the registered doctors.
func (uc *AppointmentUseCase) Catalog(ctx context.Context) (*Catalog, error) {
	doctors := append([]string{}, entity.DefaultDoctors...)
	crms, err := uc.DoctorRepo.ListCRMs(ctx)
	if err != nil {
		return nil, storageError("erro ao listar médicos", err)
	}
	for _, crm := range crms {
		d, err := uc.DoctorRepo.FindByCRM(ctx, crm)
		if err != nil {
			continue
		}
		if name := d.DisplayName(); !contains(doctors, name) {
			doctors = append(doctors, name)
		}
	}

	days := make([]int, 0, entity.MaxScheduleDay)
	for d := 1; d <= entity.MaxScheduleDay; d++ {
		days = append(days, d)
	}

	return &Catalog{
		Specialties: entity.Specialties,
		Procedures:  entity.Procedures,
		Locations:   entity.Locations,
		Doctors:     doctors,
		Slots:       entity.TimeSlots,
		Days:        days,
	}, nil
}

func (uc *AppointmentUseCase) validate(in ScheduleAppointmentInput) []ValidationError {
	var errs []ValidationError
	errs = required(errs, "especialidade", in.Specialty)
	errs = required(errs, "procedimento", in.Procedure)
	errs = required(errs, "localidade", in.Location)
	errs = required(errs, "medico", in.Doctor)
	errs = append(errs, uc.validateDate(in.Day, in.Month, in.Year)...)
	if !contains(entity.TimeSlots, in.Slot) {
		errs = append(errs, ValidationError{"horario", "must be one of " + strings.Join(entity.TimeSlots, ", ")})
	}
	return errs
}

func (uc *AppointmentUseCase) validateDate(day, month, year int) []ValidationError {
	if day < 1 || day > entity.MaxScheduleDay {
		return []ValidationError{{"dia", fmt.Sprintf("must be between 1 and %d", entity.MaxScheduleDay)}}
	}
	if month < 1 || month > 12 {
		return []ValidationError{{"mes", "must be between 1 and 12"}}
	}
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
	if date.Day() != day {
		return []ValidationError{{"dia", "is not a valid calendar day"}}
	}
	if date.Before(entity.StartOfDay(uc.now())) {
		return []ValidationError{{"dia", "must not be in the past"}}
	}
	return nil
}

func (uc *AppointmentUseCase) Schedule(ctx context.Context, in ScheduleAppointmentInput) (*entity.Appointment, error) {
	cpf := OnlyDigits(in.CPF)
	if err := ensurePatient(ctx, uc.PatientRepo, cpf); err != nil {
		return nil, err
	}

	in.Specialty = strings.TrimSpace(in.Specialty)
	in.Procedure = strings.TrimSpace(in.Procedure)
	in.Location = strings.TrimSpace(in.Location)
	in.Doctor = strings.TrimSpace(in.Doctor)
	in.Slot = strings.TrimSpace(in.Slot)
	if errs := uc.validate(in); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	unlock := uc.Repo.LockSlot(in.Doctor, in.Day, in.Month, in.Year, in.Slot)
	defer unlock()

	taken, err := uc.takenSlots(ctx, in.Doctor, in.Day, in.Month, in.Year)
	if err != nil {
		return nil, err
	}
	if taken[in.Slot] {
		return nil, domainError(CodeSlotUnavailable, "horário indisponível para este médico")
	}

	a := &entity.Appointment{
		ID:         uuid.NewString(),
		PatientCPF: cpf,
		Specialty:  in.Specialty,
		Procedure:  in.Procedure,
		Location:   in.Location,
		Doctor:     in.Doctor,
		Day:        in.Day,
		Month:      in.Month,
		Year:       in.Year,
		Slot:       in.Slot,
		Status:     entity.AppointmentScheduled,
		CreatedAt:  uc.now().UTC(),
	}
	if err := uc.Repo.Append(ctx, cpf, a); err != nil {
		return nil, storageError("erro ao salvar consulta", err)
	}

	uc.logger.Info("consulta agendada",
		zap.String("cpf", FormatCPF(cpf)),
		zap.String("appointment_id", a.ID),
		zap.String("doctor", a.Doctor),
	)
	return a, nil
}

func (uc *AppointmentUseCase) takenSlots(ctx context.Context, doctor string, day, month, year int) (map[string]bool, error) {
	all, err := uc.Repo.ListAll(ctx)
	if err != nil {
		return nil, storageError("erro ao consultar agenda", err)
	}
	taken := make(map[string]bool)
	for _, a := range all {
		if a.Status == entity.AppointmentScheduled && a.SameSlot(doctor, day, month, year, a.Slot) {
			taken[a.Slot] = true
		}
	}
	return taken, nil
}

func (uc *AppointmentUseCase) AvailableSlots(ctx context.Context, doctor string, day, month, year int) ([]string, error) {
	doctor = strings.TrimSpace(doctor)
	errs := required(nil, "medico", doctor)
	errs = append(errs, uc.validateDate(day, month, year)...)
	if len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	taken, err := uc.takenSlots(ctx, doctor, day, month, year)
	if err != nil {
		return nil, err
	}
	free := make([]string, 0, len(entity.TimeSlots))
	for _, s := range entity.TimeSlots {
		if !taken[s] {
			free = append(free, s)
		}
	}
	return free, nil
}

// List returns the patient's appointments, earliest first.
func (uc *AppointmentUseCase) List(ctx context.Context, cpf string) ([]*entity.Appointment, error) {
	list, err := uc.Repo.ListByCPF(ctx, OnlyDigits(cpf))
	if err != nil {
		return nil, storageError("erro ao listar consultas", err)
	}
	sortByStart(list)
	return list, nil
}

// DoctorAgenda lists the scheduled appointments of a doctor. Records may
// carry the display name ("Dra. Maria") or the plain name.
func (uc *AppointmentUseCase) DoctorAgenda(ctx context.Context, crm string) ([]*entity.Appointment, error) {
	d, err := uc.DoctorRepo.FindByCRM(ctx, OnlyDigits(crm))
	if errors.Is(err, entity.ErrNotFound) {
		return nil, domainError(CodeDoctorNotFound, "médico não encontrado")
	}
	if err != nil {
		return nil, storageError("erro ao buscar médico", err)
	}

	all, err := uc.Repo.ListAll(ctx)
	if err != nil {
		return nil, storageError("erro ao consultar agenda", err)
	}

	names := []string{d.DisplayName(), d.Name}
	out := []*entity.Appointment{}
	for _, a := range all {
		if a.Status == entity.AppointmentScheduled && contains(names, a.Doctor) {
			out = append(out, a)
		}
	}
	sortByStart(out)
	return out, nil
}

// Cancel marks the appointment as cancelada, records the notification and
// publishes it. A publish failure is logged; the cancellation stands.
func (uc *AppointmentUseCase) Cancel(ctx context.Context, cpf, id string) (*entity.Appointment, error) {
	cpf = OnlyDigits(cpf)
	now := uc.now()

	a, err := uc.Repo.Update(ctx, cpf, id, func(a *entity.Appointment) error {
		if a.Status == entity.AppointmentCancelled {
			return domainError(CodeAlreadyCancelled, "consulta já cancelada")
		}
		a.Status = entity.AppointmentCancelled
		a.Notifications = append(a.Notifications, entity.AppointmentNotification{
			Kind: entity.NotificationCancellation,
			At:   now.UTC(),
		})
		return nil
	})
	if err != nil {
		if IsDomainError(err) {
			return nil, err
		}
		if errors.Is(err, entity.ErrNotFound) {
			return nil, domainError(CodeAppointmentNotFound, "consulta não encontrada")
		}
		return nil, storageError("erro ao cancelar consulta", err)
	}

	uc.notifyCancellation(ctx, cpf, a, now)
	return a, nil
}

func (uc *AppointmentUseCase) notifyCancellation(ctx context.Context, cpf string, a *entity.Appointment, now time.Time) {
	payload := queue.NotificationPayload{
		Kind:          queue.KindAppointmentCancelled,
		CPF:           cpf,
		AppointmentID: a.ID,
		Doctor:        a.Doctor,
		Specialty:     a.Specialty,
		Location:      a.Location,
		Date:          entity.FormatDateBR(time.Date(a.Year, time.Month(a.Month), a.Day, 0, 0, 0, 0, time.Local)),
		Slot:          a.Slot,
		OccurredAt:    now.UTC(),
	}
	if p, err := uc.PatientRepo.FindByCPF(ctx, cpf); err == nil {
		payload.Name = p.Name
		payload.Phone = p.Phone
		payload.Email = p.Email
	}

	if err := uc.Publisher.PublishNotification(ctx, payload); err != nil {
		uc.logger.Error("falha ao publicar notificação de cancelamento",
			zap.String("appointment_id", a.ID),
			zap.Error(err),
		)
	}
}

func sortByStart(list []*entity.Appointment) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].StartsAt().Before(list[j].StartsAt())
	})
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
