package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/acervo/bookshelf/internal/models"
)

func testUser() *models.User {
	return &models.User{ID: primitive.NewObjectID(), Username: "edson"}
}

func TestIssueAndVerify(t *testing.T) {
	t.Parallel()

	svc := NewTokenService("super-secret")
	user := testUser()

	tok, err := svc.Issue(user)
	require.NoError(t, err)

	id, err := svc.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), id.UserID)
	assert.Equal(t, "edson", id.Username)
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	svc := NewTokenService("super-secret")
	svc.ttl = -time.Minute

	tok, err := svc.Issue(testUser())
	require.NoError(t, err)

	_, err = svc.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_NearExpiryBoundary(t *testing.T) {
	t.Parallel()

	svc := NewTokenService("super-secret")

	// Just inside the window still verifies.
	svc.ttl = time.Minute
	tok, err := svc.Issue(testUser())
	require.NoError(t, err)
	_, err = svc.Verify(tok)
	assert.NoError(t, err)

	// Just past the window is rejected.
	svc.ttl = -time.Second
	tok, err = svc.Issue(testUser())
	require.NoError(t, err)
	_, err = svc.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewTokenService("right-secret").Issue(testUser())
	require.NoError(t, err)

	_, err = NewTokenService("wrong-secret").Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	_, err := NewTokenService("k").Verify("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
