package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/logger"
)

type LoginUseCase struct {
	Admins entity.AdminRepositoryInterface
	Hasher PasswordHasher
	Tokens TokenIssuer
	Log    *logger.Logger
}

func NewLoginUseCase(admins entity.AdminRepositoryInterface, hasher PasswordHasher, tokens TokenIssuer, log *logger.Logger) *LoginUseCase {
	if log == nil {
		log = logger.NewNop()
	}
	return &LoginUseCase{Admins: admins, Hasher: hasher, Tokens: tokens, Log: log}
}

func (uc *LoginUseCase) Execute(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" || input.Password == "" {
		return nil, &DomainError{Code: CodeValidation, Message: "Email and password required"}
	}

	admin, err := uc.Admins.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, &DomainError{Code: CodeAuthNotFound, Message: "Admin not found"}
		}
		return nil, storeError("falha ao buscar admin", err)
	}

	if err := uc.Hasher.Compare(admin.Password, input.Password); err != nil {
		uc.Log.Warn("senha incorreta no login", "admin_id", admin.ID)
		return nil, &DomainError{Code: CodeAuthFailed, Message: "Incorrect password"}
	}

	token, err := uc.Tokens.Generate(admin.ID, admin.Email)
	if err != nil {
		return nil, &TechnicalError{Code: "TOKEN_ERROR", Message: "falha ao gerar token", Err: err}
	}

	return &LoginOutput{AccessToken: token}, nil
}

// EnsureAdmin cria o admin se ainda não existir. created=false quando já existia.
func (uc *LoginUseCase) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	if email == "" || password == "" {
		return false, &DomainError{Code: CodeValidation, Message: "Email and password required"}
	}

	if _, err := uc.Admins.FindByEmail(ctx, email); err == nil {
		return false, nil
	} else if !errors.Is(err, entity.ErrNotFound) {
		return false, storeError("falha ao buscar admin", err)
	}

	hash, err := uc.Hasher.Hash(password)
	if err != nil {
		return false, &TechnicalError{Code: "HASH_ERROR", Message: "falha ao gerar hash da senha", Err: err}
	}
	if err := uc.Admins.Create(ctx, entity.NewAdmin(email, hash)); err != nil {
		if errors.Is(err, entity.ErrEmailAlreadyExists) {
			return false, nil
		}
		return false, storeError("falha ao criar admin", err)
	}

	uc.Log.Info("admin criado", "email", email)
	return true, nil
}
