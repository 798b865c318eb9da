package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/atinyakov/url-resolver/internal/app/service"
)

type GetHandler struct {
	service service.URLServiceIface
	logger  *zap.Logger
}

func NewGet(s service.URLServiceIface, l *zap.Logger) *GetHandler {
	return &GetHandler{
		service: s,
		logger:  l,
	}
}

// ByQuery handles GET /?short_url=<token> and answers with the long URL as
// plain text.
func (h *GetHandler) ByQuery(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), 3*time.Second)
	defer cancel()

	token := req.URL.Query().Get("short_url")
	if token == "" {
		http.Error(res, "short_url query parameter is required", http.StatusBadRequest)
		return
	}

	longURL, err := h.service.Resolve(ctx, token)
	if err != nil {
		writeServiceError(res, h.logger, err)
		return
	}

	writeText(res, http.StatusOK, longURL)
}

// ByShort handles GET /{url} by redirecting to the long URL.
func (h *GetHandler) ByShort(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), 3*time.Second)
	defer cancel()

	token := chi.URLParam(req, "url")
	h.logger.Debug("Got URL from request params", zap.String("token", token))

	longURL, err := h.service.Resolve(ctx, token)
	if err != nil {
		writeServiceError(res, h.logger, err)
		return
	}

	res.Header().Set("Location", longURL)
	res.WriteHeader(http.StatusTemporaryRedirect)
}

func (h *GetHandler) PingDB(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), 3*time.Second)
	defer cancel()

	if err := h.service.PingContext(ctx); err != nil {
		h.logger.Warn("storage ping failed", zap.Error(err))
		http.Error(res, err.Error(), http.StatusInternalServerError)
		return
	}

	res.WriteHeader(http.StatusOK)
}
