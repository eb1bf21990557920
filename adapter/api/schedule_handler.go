package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/felixgeelhaar/circadia/internal/scheduling/application/commands"
	"github.com/felixgeelhaar/circadia/internal/scheduling/application/queries"
	"github.com/felixgeelhaar/circadia/internal/scheduling/domain"
	"github.com/felixgeelhaar/circadia/pkg/observability"
)

// ScheduleHandler serves the schedule endpoints.
type ScheduleHandler struct {
	generate *commands.GenerateScheduleHandler
	get      *queries.GetScheduleHandler
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// NewScheduleHandler creates the handler.
func NewScheduleHandler(
	generate *commands.GenerateScheduleHandler,
	get *queries.GetScheduleHandler,
	metrics *observability.Metrics,
	logger *slog.Logger,
) *ScheduleHandler {
	if metrics == nil {
		metrics = observability.NewMetrics()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ScheduleHandler{generate: generate, get: get, metrics: metrics, logger: logger}
}

// RegisterRoutes mounts the schedule endpoints on the mux.
func (h *ScheduleHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/schedules", h.handleGenerate)
	mux.HandleFunc("GET /api/v1/schedules/{id}", h.handleGetByID)
	mux.HandleFunc("GET /api/v1/users/{userID}/schedules/{date}", h.handleGetByUserAndDate)
}

func (h *ScheduleHandler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	h.metrics.Inc("http.schedules.generate.requests")

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, domain.NewInvalidInput("request body is not valid JSON"))
		return
	}

	cmd := commands.GenerateScheduleCommand{
		UserID:      req.UserID,
		TargetDate:  req.TargetDate,
		Preferences: req.Preferences,
	}

	for _, t := range req.Tasks {
		task, err := t.toDomain()
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		cmd.Tasks = append(cmd.Tasks, task)
	}
	for _, e := range req.FixedEvents {
		event, err := e.toDomain()
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		cmd.FixedEvents = append(cmd.FixedEvents, event)
	}
	profile, err := req.Profile.toDomain()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	cmd.Profile = profile

	schedule, err := h.generate.Handle(r.Context(), cmd)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.metrics.Observe("http.schedules.generate", time.Since(started))
	h.writeJSON(w, http.StatusCreated, toScheduleResponse(schedule))
}

func (h *ScheduleHandler) handleGetByID(w http.ResponseWriter, r *http.Request) {
	schedule, err := h.get.ByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toScheduleResponse(schedule))
}

func (h *ScheduleHandler) handleGetByUserAndDate(w http.ResponseWriter, r *http.Request) {
	schedule, err := h.get.ByUserAndDate(r.Context(), r.PathValue("userID"), r.PathValue("date"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toScheduleResponse(schedule))
}

func (h *ScheduleHandler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("write response failed", "error", err)
	}
}

func (h *ScheduleHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := domain.KindOf(err)
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrScheduleNotFound):
		status = http.StatusNotFound
		kind = "not_found"
	case kind == domain.KindInvalidInput, kind == domain.KindInfeasibleConstraints:
		status = http.StatusBadRequest
	case kind == domain.KindTimeout:
		status = http.StatusGatewayTimeout
	}

	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	h.metrics.Inc("http.errors")
	h.writeJSON(w, status, errorResponse{Error: errorBody{Kind: string(kind), Detail: err.Error()}})
}
