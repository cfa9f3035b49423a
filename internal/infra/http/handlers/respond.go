package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/xavierca1/ligue-crm/internal/infra/logger"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

// ErrorResponse é o envelope de erro de todas as rotas.
type ErrorResponse struct {
	Error string `json:"error"`
	Msg   string `json:"msg"`
}

type MessageResponse struct {
	Msg string `json:"msg"`
}

var statusByCode = map[string]int{
	usecase.CodeNotFound:         http.StatusNotFound,
	usecase.CodeInvalidReference: http.StatusBadRequest,
	usecase.CodeValidation:       http.StatusBadRequest,
	usecase.CodeConflict:         http.StatusConflict,
	usecase.CodeAuthNotFound:     http.StatusNotFound,
	usecase.CodeAuthFailed:       http.StatusUnauthorized,
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError traduz o erro do use case em status + envelope. Falha técnica
// vira 500 sem vazar detalhe para o cliente.
func writeError(w http.ResponseWriter, log *logger.Logger, err error) {
	var de *usecase.DomainError
	if errors.As(err, &de) {
		status, ok := statusByCode[de.Code]
		if !ok {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, ErrorResponse{Error: de.Code, Msg: de.Message})
		return
	}

	code := usecase.CodeStore
	var te *usecase.TechnicalError
	if errors.As(err, &te) && te.Code != "" {
		code = te.Code
	}
	log.Error("erro interno na requisição", "code", code, "error", err)
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: code, Msg: "Internal server error"})
}

// decodeJSON lê o corpo; corpo vazio conta como objeto vazio.
func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return &usecase.DomainError{Code: usecase.CodeValidation, Message: "Invalid JSON"}
	}
	return nil
}

func orNop(log *logger.Logger) *logger.Logger {
	if log == nil {
		return logger.NewNop()
	}
	return log
}
