package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/url-resolver/internal/app/service"
	"github.com/atinyakov/url-resolver/internal/models"
)

type PostHandler struct {
	urlService service.URLServiceIface
	logger     *zap.Logger
}

func NewPost(s service.URLServiceIface, l *zap.Logger) *PostHandler {
	return &PostHandler{
		urlService: s,
		logger:     l,
	}
}

// CreateOrFetch handles POST / with {"long_url": ..., "short_url": ...} and
// answers with the token as plain text.
func (h *PostHandler) CreateOrFetch(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), 3*time.Second)
	defer cancel()

	var request models.ShortenRequest

	if err := decodeJSONBody(res, req, &request); err != nil {
		var mr *malformedRequest
		if errors.As(err, &mr) {
			http.Error(res, mr.msg, mr.status)
			return
		}

		h.logger.Error("unable to decode body", zap.Error(err))
		http.Error(res, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	token, err := h.urlService.CreateOrFetch(ctx, request.LongURL, request.ShortURL)
	if err != nil {
		writeServiceError(res, h.logger, err)
		return
	}

	writeText(res, http.StatusOK, token)
}
