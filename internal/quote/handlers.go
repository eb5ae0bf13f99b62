package quote

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/meridian-telecom/backend-quote/internal/common"
	"github.com/meridian-telecom/backend-quote/internal/rating"
)

// Handler exposes the quoting endpoints.
type Handler struct {
	service  *Service
	validate *validator.Validate
	logger   zerolog.Logger
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Service  *Service
	Validate *validator.Validate
	Logger   zerolog.Logger
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	v := cfg.Validate
	if v == nil {
		v = validator.New()
	}
	return &Handler{service: cfg.Service, validate: v, logger: cfg.Logger}
}

// Calculate handles POST /api/v1/quotes/calculate. It rates a configuration
// without persisting anything.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	cfg, ok := h.decodeConfig(w, r)
	if !ok {
		return
	}
	totals, err := h.service.Calculate(r.Context(), cfg)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": totals})
}

// Save handles POST /api/v1/quotes. It rates the configuration and persists
// the quote for later retrieval.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	cfg, ok := h.decodeConfig(w, r)
	if !ok {
		return
	}
	rec, err := h.service.Save(r.Context(), cfg)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": rec})
}

// Get handles GET /api/v1/quotes/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": rec})
}

func (h *Handler) decodeConfig(w http.ResponseWriter, r *http.Request) (*rating.QuoteConfig, bool) {
	var cfg rating.QuoteConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON payload", nil)
		return nil, false
	}
	if err := h.validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		details := map[string]any{}
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				details[fe.Field()] = fe.Tag()
			}
		}
		common.JSONError(w, http.StatusBadRequest, "VALIDATION", "invalid quote configuration", details)
		return nil, false
	}
	return &cfg, true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrPlanNotResolved):
		common.JSONError(w, http.StatusUnprocessableEntity, "PLAN_NOT_RESOLVED", "configuration does not reference a known plan", nil)
	case errors.Is(err, ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "quote not found", nil)
	default:
		h.logger.Error().Err(err).Msg("quote request failed")
		common.WriteError(w, err)
	}
}
