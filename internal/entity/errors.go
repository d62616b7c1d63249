package entity

import "errors"

var (
	ErrNotFound      = errors.New("registro não encontrado")
	ErrAlreadyExists = errors.New("registro já existe")
)
