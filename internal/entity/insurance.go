package entity

import "context"

// Insurance (convênio) é um singleton sob InsuranceKey.
type Insurance struct {
	Brand  string `json:"bandeira"`
	Number string `json:"numero"`
	Holder string `json:"nome"`
}

type InsuranceRepositoryInterface interface {
	Get(ctx context.Context) (*Insurance, error)
	Save(ctx context.Context, ins *Insurance) error
	Delete(ctx context.Context) error
}
