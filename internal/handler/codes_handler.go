package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"zip-gate/internal/model"
	"zip-gate/internal/service"

	"github.com/rs/zerolog"
)

// CodesHandler handles admin code management HTTP requests.
type CodesHandler struct {
	service service.CodeService
	logger  zerolog.Logger
}

// NewCodesHandler creates a new codes handler.
func NewCodesHandler(service service.CodeService, logger zerolog.Logger) *CodesHandler {
	return &CodesHandler{
		service: service,
		logger:  logger.With().Str("handler", "codes").Logger(),
	}
}

// Collection handles /api/v1/codes requests: GET lists codes, POST creates one.
func (h *CodesHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInvalidRequest, "method not allowed", h.logger)
	}
}

// Item handles /api/v1/codes/{id} requests: GET, PUT and DELETE.
func (h *CodesHandler) Item(w http.ResponseWriter, r *http.Request) {
	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInvalidRequest, "method not allowed", h.logger)
	}
}

// itemID extracts the numeric code ID from the request path.
// Expecting path: /api/v1/codes/{id}
func (h *CodesHandler) itemID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	path := r.URL.Path
	if len(path) <= len("/api/v1/codes/") {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest, "code ID is required", h.logger)
		return 0, false
	}
	idStr := path[len("/api/v1/codes/"):]

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest, "invalid code ID format", h.logger)
		return 0, false
	}
	return id, true
}

func (h *CodesHandler) list(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	params := model.ListParams{
		Search:       query.Get("search"),
		Availability: query.Get("availability"),
		OrderBy:      query.Get("orderby"),
		Order:        query.Get("order"),
	}

	var err error
	if params.Page, err = queryInt(query.Get("page")); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest, "invalid page parameter", h.logger)
		return
	}
	if params.PerPage, err = queryInt(query.Get("per_page")); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest, "invalid per_page parameter", h.logger)
		return
	}

	result, err := h.service.List(r.Context(), params)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	w.Header().Set("X-Total-Count", strconv.Itoa(result.Total))
	w.Header().Set("X-Total-Pages", strconv.Itoa(result.Pages))
	writeJSON(w, http.StatusOK, result.Items)
}

func (h *CodesHandler) create(w http.ResponseWriter, r *http.Request) {
	var input model.CodeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest, "invalid request body", h.logger)
		return
	}

	rec, err := h.service.Create(r.Context(), &input)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, rec)
}

func (h *CodesHandler) get(w http.ResponseWriter, r *http.Request, id int64) {
	rec, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

func (h *CodesHandler) update(w http.ResponseWriter, r *http.Request, id int64) {
	var input model.CodeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest, "invalid request body", h.logger)
		return
	}

	rec, err := h.service.Update(r.Context(), id, &input)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

func (h *CodesHandler) delete(w http.ResponseWriter, r *http.Request, id int64) {
	if err := h.service.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.DeleteResponse{
		Deleted: true,
		Message: fmt.Sprintf("Code with ID %d has been deleted.", id),
	})
}

// queryInt parses an optional integer query parameter. Empty means unset.
func queryInt(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
