package entity

import (
	"context"
	"time"
)

// Patient é gravado sob a chave <cpf>. As tags JSON seguem o formato do app.
type Patient struct {
	Name      string    `json:"nome"`
	CPF       string    `json:"cpf"`
	BirthDate string    `json:"nascimento"` // DD/MM/AAAA
	Gender    string    `json:"genero"`
	Phone     string    `json:"celular"`
	CEP       string    `json:"cep"`
	Email     string    `json:"email,omitempty"`
	Password  string    `json:"senha"`
	CreatedAt time.Time `json:"criadoEm"`
}

// PatientSummary is the listing shape used by doctors when picking a chat.
type PatientSummary struct {
	CPF  string `json:"cpf"`
	Name string `json:"nome"`
}

type PatientRepositoryInterface interface {
	Create(ctx context.Context, p *Patient) error
	FindByCPF(ctx context.Context, cpf string) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	ListAll(ctx context.Context) ([]*Patient, error)
}
