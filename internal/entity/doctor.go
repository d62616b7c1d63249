package entity

import (
	"context"
	"strings"
	"time"
)

type Doctor struct {
	Name      string    `json:"nome"`
	BirthDate string    `json:"nascimento"`
	Gender    string    `json:"genero"`
	CRM       string    `json:"crm"`
	CEP       string    `json:"cep"`
	Phone     string    `json:"telefone"`
	Password  string    `json:"senha"`
	CreatedAt time.Time `json:"criadoEm"`
}

// DisplayName prefixa o nome com o tratamento usado na agenda.
func (d *Doctor) DisplayName() string {
	switch strings.ToLower(strings.TrimSpace(d.Gender)) {
	case "feminino":
		return "Dra. " + d.Name
	case "outro":
		return "Dr./Dra. " + d.Name
	default:
		return "Dr. " + d.Name
	}
}

type DoctorRepositoryInterface interface {
	Create(ctx context.Context, d *Doctor) error
	FindByCRM(ctx context.Context, crm string) (*Doctor, error)
	Delete(ctx context.Context, crm string) error
	AddToList(ctx context.Context, crm string) error
	ListCRMs(ctx context.Context) ([]string, error)
}
