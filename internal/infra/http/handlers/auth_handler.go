package handlers

import (
	"net/http"
	"time"

	"github.com/xavierca1/ligue-crm/internal/infra/logger"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type AuthHandler struct {
	LoginUC     *usecase.LoginUseCase
	rateLimiter *RateLimiter
	log         *logger.Logger
}

func NewAuthHandler(uc *usecase.LoginUseCase, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		LoginUC:     uc,
		rateLimiter: NewRateLimiter(10, time.Minute), // 10 req/min por IP
		log:         orNop(log),
	}
}

// Login (POST /auth/login)
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	clientIP := getClientIP(r)
	if !h.rateLimiter.Allow(clientIP) {
		h.log.Warn("login bloqueado por rate limit", "ip", clientIP)
		writeJSON(w, http.StatusTooManyRequests, ErrorResponse{
			Error: "RATE_LIMITED",
			Msg:   "Too many requests. Please try again later.",
		})
		return
	}

	var input usecase.LoginInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, h.log, err)
		return
	}

	output, err := h.LoginUC.Execute(r.Context(), input)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, output)
}
