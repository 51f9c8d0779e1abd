package books

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/acervo/bookshelf/internal/api/response"
	"github.com/acervo/bookshelf/internal/middleware"
	"github.com/acervo/bookshelf/internal/models"
	"github.com/acervo/bookshelf/internal/store"
)

// Handler holds book HTTP handlers.
type Handler struct {
	svc      *Service
	validate *validator.Validate
	log      *slog.Logger
	detailed bool
}

func NewHandler(svc *Service, log *slog.Logger, detailed bool) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log,
		detailed: detailed,
	}
}

// queryInt parses an integer query parameter, falling back on absence or
// garbage.
func queryInt(r *http.Request, name string, fallback int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

// List handles GET /api/books?page&limit&title.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 10)
	term := r.URL.Query().Get("title")

	result, err := h.svc.List(r.Context(), page, limit, term)
	if err != nil {
		response.WriteInternalError(w, err, h.detailed)
		return
	}
	if id := middleware.IdentityFrom(r.Context()); id != nil {
		h.log.Info("books listed", "username", id.Username, "page", page)
	}
	response.WriteJSON(w, http.StatusOK, result)
}

// Get handles GET /api/books/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	book, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, book)
}

// Create handles POST /api/books.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteError(w, http.StatusBadRequest, "title, author and year are required")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			response.WriteValidationError(w, verrs)
			return
		}
		response.WriteError(w, http.StatusBadRequest, "invalid request")
		return
	}

	book, err := h.svc.Create(r.Context(), &req)
	if err != nil {
		response.WriteInternalError(w, err, h.detailed)
		return
	}
	if id := middleware.IdentityFrom(r.Context()); id != nil {
		h.log.Info("book created", "username", id.Username, "title", book.Title)
	}
	response.WriteJSON(w, http.StatusCreated, book)
}

// Update handles PUT /api/books/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	book, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	if id := middleware.IdentityFrom(r.Context()); id != nil {
		h.log.Info("book updated", "username", id.Username, "title", book.Title)
	}
	response.WriteJSON(w, http.StatusOK, book)
}

// Delete handles DELETE /api/books/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeStoreError(w, err)
		return
	}
	if id := middleware.IdentityFrom(r.Context()); id != nil {
		h.log.Info("book deleted", "username", id.Username)
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeStoreError maps store errors onto the response taxonomy: malformed id
// is a bad request, absent id is not found, anything else is internal.
func (h *Handler) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrInvalidID):
		response.WriteError(w, http.StatusBadRequest, "invalid book id")
	case errors.Is(err, store.ErrNotFound):
		response.WriteError(w, http.StatusNotFound, "book not found")
	default:
		response.WriteInternalError(w, err, h.detailed)
	}
}
