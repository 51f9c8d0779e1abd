package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/acervo/bookshelf/internal/api/response"
	"github.com/acervo/bookshelf/internal/models"
	"github.com/acervo/bookshelf/internal/store"
)

// UserStore defines the interface for user persistence.
type UserStore interface {
	Create(ctx context.Context, username, passwordHash string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

// Handler holds auth-related HTTP handlers.
type Handler struct {
	users    UserStore
	tokens   *TokenService
	validate *validator.Validate
	log      *slog.Logger
	detailed bool
}

func NewHandler(users UserStore, tokens *TokenService, log *slog.Logger, detailed bool) *Handler {
	return &Handler{
		users:    users,
		tokens:   tokens,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log,
		detailed: detailed,
	}
}

// Register creates a new user account.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteError(w, http.StatusBadRequest, "username and password are required")
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

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		response.WriteInternalError(w, err, h.detailed)
		return
	}

	user, err := h.users.Create(r.Context(), req.Username, string(hashed))
	if err != nil {
		if errors.Is(err, store.ErrDuplicateUsername) {
			response.WriteError(w, http.StatusConflict, "username already exists")
			return
		}
		response.WriteInternalError(w, err, h.detailed)
		return
	}

	response.WriteJSON(w, http.StatusCreated, map[string]any{
		"msg": "user registered",
		"user": models.RegisteredUser{
			ID:       user.ID.Hex(),
			Username: user.Username,
		},
	})
}

// Login verifies credentials and issues a bearer token. Unknown username and
// wrong password answer identically so usernames cannot be enumerated.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteError(w, http.StatusBadRequest, "username and password are required")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.WriteError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := h.users.GetByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.log.Info("login failed", "username", req.Username)
			response.WriteError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		response.WriteInternalError(w, err, h.detailed)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		h.log.Info("login failed", "username", req.Username)
		response.WriteError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		response.WriteInternalError(w, err, h.detailed)
		return
	}

	response.WriteJSON(w, http.StatusOK, models.LoginResponse{Token: token})
}

// ListUsers returns all accounts, hashes excluded.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		response.WriteInternalError(w, err, h.detailed)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	response.WriteJSON(w, http.StatusOK, users)
}
