package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/acervo/bookshelf/internal/auth"
	"github.com/acervo/bookshelf/internal/models"
)

func protected(t *testing.T, tokens *auth.TokenService) http.Handler {
	t.Helper()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := IdentityFrom(r.Context())
		require.NotNil(t, id)
		w.Write([]byte(id.Username))
	})
	return RequireAuth(tokens)(next)
}

func TestRequireAuth(t *testing.T) {
	t.Parallel()

	tokens := auth.NewTokenService("secret")
	user := &models.User{ID: primitive.NewObjectID(), Username: "edson"}
	valid, err := tokens.Issue(user)
	require.NoError(t, err)

	stale := auth.NewTokenService("other-secret")
	forged, err := stale.Issue(user)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"valid token", "Bearer " + valid, http.StatusOK, "edson"},
		{"missing header", "", http.StatusUnauthorized, ""},
		{"not bearer", "Basic abc", http.StatusUnauthorized, ""},
		{"empty token", "Bearer ", http.StatusUnauthorized, ""},
		{"garbage token", "Bearer garbage", http.StatusUnauthorized, ""},
		{"wrong signature", "Bearer " + forged, http.StatusUnauthorized, ""},
	}

	h := protected(t, tokens)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	t.Parallel()

	secret := "secret"
	issuer := auth.NewTokenServiceWithTTL(secret, -time.Minute)
	tok, err := issuer.Issue(&models.User{ID: primitive.NewObjectID(), Username: "edson"})
	require.NoError(t, err)

	h := protected(t, auth.NewTokenService(secret))
	req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestIdentityFrom_Unauthenticated(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, IdentityFrom(req.Context()))
}
