package entity

import (
	"context"
	"time"
)

const (
	AppointmentScheduled = "agendada"
	AppointmentCancelled = "cancelada"

	NotificationCancellation = "cancelamento"
)

var (
	Specialties = []string{
		"Cardiologia", "Clínico Geral", "Dermatologia", "Endocrinologia", "Gastroenterologia",
		"Ginecologia", "Neurologia", "Nutrição", "Oftalmologia", "Ortopedia",
		"Otorrinolaringologia", "Pediatria", "Psiquiatria", "Outra",
	}
	Procedures = []string{
		"Consulta de rotina - Presencial", "Consulta de rotina - Virtual", "Retorno", "Outra",
	}
	Locations = []string{
		"Unidade Alfa", "Unidade Beta", "Unidade Charlie", "Unidade Delta", "Unidade Echo", "Outra",
	}
	DefaultDoctors = []string{
		"Dr. João Dias", "Dra. Maria Pereira", "Dr. Pedro Souza", "Dra. Cássia de Almeida", "Dra. Gabriela Rocha",
	}
	TimeSlots = []string{"08:00", "09:00", "10:00", "11:00", "13:00", "14:00", "15:00", "16:00"}
)

const MaxScheduleDay = 30

type AppointmentNotification struct {
	Kind string    `json:"tipo"`
	At   time.Time `json:"data"`
}

// Appointment fica num array sob consultas_<cpf>.
type Appointment struct {
	ID            string                    `json:"id"`
	PatientCPF    string                    `json:"cpf"`
	Specialty     string                    `json:"especialidade"`
	Procedure     string                    `json:"procedimento"`
	Location      string                    `json:"localidade"`
	Doctor        string                    `json:"medico"`
	Day           int                       `json:"dia"`
	Month         int                       `json:"mes"`
	Year          int                       `json:"ano"`
	Slot          string                    `json:"horario"`
	Status        string                    `json:"status"`
	Notifications []AppointmentNotification `json:"notificacoes,omitempty"`
	CreatedAt     time.Time                 `json:"criadoEm"`
}

// StartsAt combines the date parts and the HH:MM slot.
func (a *Appointment) StartsAt() time.Time {
	t := time.Date(a.Year, time.Month(a.Month), a.Day, 0, 0, 0, 0, time.Local)
	if slot, err := time.Parse("15:04", a.Slot); err == nil {
		t = t.Add(time.Duration(slot.Hour())*time.Hour + time.Duration(slot.Minute())*time.Minute)
	}
	return t
}

func (a *Appointment) SameSlot(doctor string, day, month, year int, slot string) bool {
	return a.Doctor == doctor && a.Day == day && a.Month == month && a.Year == year && a.Slot == slot
}

type AppointmentRepositoryInterface interface {
	Append(ctx context.Context, cpf string, a *Appointment) error
	ListByCPF(ctx context.Context, cpf string) ([]*Appointment, error)
	ListAll(ctx context.Context) ([]*Appointment, error)
	Update(ctx context.Context, cpf, id string, fn func(*Appointment) error) (*Appointment, error)
	// LockSlot holds the doctor/date/slot tuple until the returned func runs.
	LockSlot(doctor string, day, month, year int, slot string) (unlock func())
}
