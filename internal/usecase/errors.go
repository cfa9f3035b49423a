package usecase

import (
	"errors"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const (
	CodeNotFound         = "NOT_FOUND"
	CodeInvalidReference = "INVALID_REFERENCE"
	CodeValidation       = "VALIDATION_ERROR"
	CodeConflict         = "CONFLICT"
	CodeAuthNotFound     = "AUTH_NOT_FOUND"
	CodeAuthFailed       = "AUTH_FAILED"
	CodeStore            = "STORE_ERROR"
)

// Sentinelas para errors.Is; a comparação é só pelo Code.
var (
	ErrNotFound         = &DomainError{Code: CodeNotFound}
	ErrInvalidReference = &DomainError{Code: CodeInvalidReference}
	ErrValidation       = &DomainError{Code: CodeValidation}
	ErrConflict         = &DomainError{Code: CodeConflict}
	ErrAuthNotFound     = &DomainError{Code: CodeAuthNotFound}
	ErrAuthFailed       = &DomainError{Code: CodeAuthFailed}
)

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// errAgentChanged: outro request trocou o dono entre a leitura e a escrita.
var errAgentChanged = &DomainError{Code: CodeConflict, Message: "Lead was reassigned concurrently, retry"}

func notFound(msg string) error {
	return &DomainError{Code: CodeNotFound, Message: msg}
}

func invalidReference(msg string) error {
	return &DomainError{Code: CodeInvalidReference, Message: msg}
}

func conflict(msg string) error {
	return &DomainError{Code: CodeConflict, Message: msg}
}

// TechnicalError é falha de infraestrutura (store, broker). Vira 500.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

func storeError(msg string, err error) error {
	return &TechnicalError{Code: CodeStore, Message: msg, Err: err}
}

// lookupError traduz o erro de um FindByID: ErrNotFound vira NOT_FOUND com
// a mensagem dada, o resto vira STORE_ERROR.
func lookupError(err error, msg string) error {
	if errors.Is(err, entity.ErrNotFound) {
		return notFound(msg)
	}
	return storeError("falha ao consultar store", err)
}
