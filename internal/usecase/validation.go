package usecase

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// validationFailed junta todos os campos em um único DomainError.
func validationFailed(errs []ValidationError) error {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.Field + " (" + e.Message + ")"
	}
	return &DomainError{
		Code:    CodeValidation,
		Message: "validation failed: " + strings.Join(parts, ", "),
	}
}

func isValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// checkID: vazio passa (campo opcional), formato inválido falha.
func checkID(id, msg string) error {
	if id != "" && !isValidID(id) {
		return invalidReference(msg)
	}
	return nil
}

func ValidateCreateAgentInput(input CreateAgentInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.Name) == "" {
		errors = append(errors, ValidationError{"name", "is required"})
	} else if len(input.Name) > 200 {
		errors = append(errors, ValidationError{"name", "must not exceed 200 characters"})
	}

	if strings.TrimSpace(input.Email) == "" {
		errors = append(errors, ValidationError{"email", "is required"})
	} else if _, err := mail.ParseAddress(input.Email); err != nil {
		errors = append(errors, ValidationError{"email", "is invalid"})
	}

	if input.Password == "" {
		errors = append(errors, ValidationError{"password", "is required"})
	} else if len(input.Password) > 72 {
		// limite do bcrypt
		errors = append(errors, ValidationError{"password", "must not exceed 72 bytes"})
	}

	return errors
}

func ValidateCreateLeadInput(input CreateLeadInput) []ValidationError {
	var errors []ValidationError

	if input.Email != "" {
		if _, err := mail.ParseAddress(input.Email); err != nil {
			errors = append(errors, ValidationError{"email", "is invalid"})
		}
	}

	return errors
}

func ValidateUpdateLeadInput(input UpdateLeadInput) []ValidationError {
	var errors []ValidationError

	if input.Email.Set && input.Email.Value != "" {
		if _, err := mail.ParseAddress(input.Email.Value); err != nil {
			errors = append(errors, ValidationError{"email", "is invalid"})
		}
	}

	return errors
}

func ValidateAddNoteInput(input AddNoteInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.Text) == "" {
		errors = append(errors, ValidationError{"text", "is required"})
	} else if len(input.Text) > 5000 {
		errors = append(errors, ValidationError{"text", "must not exceed 5000 characters"})
	}

	return errors
}

func ValidateCreateBuyerInput(input CreateBuyerInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.LeadID) == "" {
		errors = append(errors, ValidationError{"leadId", "is required"})
	}

	return errors
}

func ValidateCreateSellerInput(input CreateSellerInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.LeadID) == "" {
		errors = append(errors, ValidationError{"leadId", "is required"})
	}

	return errors
}
