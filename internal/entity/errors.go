package entity

import "errors"

var (
	ErrNotFound           = errors.New("registro não encontrado")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrAgentChanged       = errors.New("assignedAgent mudou desde a leitura")
)
