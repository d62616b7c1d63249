package entity

import "context"

const (
	RoleDoctor  = "medico"
	RolePatient = "paciente"
)

// Message is one chat entry under chat:<doctorId>:<patientId>.
// CreatedAt is unix milliseconds, as written by the app.
type Message struct {
	ID        string   `json:"id"`
	From      string   `json:"from"`
	SenderID  string   `json:"senderId"`
	Text      string   `json:"text"`
	CreatedAt int64    `json:"createdAt"`
	ReadBy    []string `json:"readBy"`
}

func (m *Message) IsReadBy(id string) bool {
	for _, r := range m.ReadBy {
		if r == id {
			return true
		}
	}
	return false
}

// ConversationRef is a listing entry: the counterpart id plus the
// timestamp of the last message (0 when empty or unreadable).
type ConversationRef struct {
	Key           string `json:"key"`
	DoctorID      string `json:"medId,omitempty"`
	PatientID     string `json:"pacId,omitempty"`
	LastTimestamp int64  `json:"lastTimestamp"`
}

type ChatRepositoryInterface interface {
	Get(ctx context.Context, doctorID, patientID string) ([]*Message, error)
	Save(ctx context.Context, doctorID, patientID string, msgs []*Message) error
	Append(ctx context.Context, doctorID, patientID string, msg *Message) ([]*Message, error)
	Clear(ctx context.Context, doctorID, patientID string) error
	Update(ctx context.Context, doctorID, patientID string, fn func([]*Message) bool) ([]*Message, error)
	ListKeys(ctx context.Context) ([]string, error)
	GetByKey(ctx context.Context, key string) ([]*Message, error)
}
