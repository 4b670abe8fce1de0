package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-service/models"
)

func TestIssueAndValidate(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewTokenService(repos.tokens, time.Hour, testLogger())

	token, svcErr := svc.Issue(context.Background(), "ada@example.com")
	require.Nil(t, svcErr)
	assert.Len(t, token.ID, 20)
	assert.Equal(t, "ada@example.com", token.Email)
	assert.WithinDuration(t, time.Now().Add(time.Hour), token.Expires, 5*time.Second)

	got, svcErr := svc.Validate(context.Background(), token.ID)
	require.Nil(t, svcErr)
	assert.Equal(t, token.Email, got.Email)
}

func TestValidateRejectsMissingAndEmpty(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewTokenService(repos.tokens, time.Hour, testLogger())

	_, svcErr := svc.Validate(context.Background(), "")
	require.NotNil(t, svcErr)
	assert.Equal(t, http.StatusUnauthorized, svcErr.Code)

	_, svcErr = svc.Validate(context.Background(), "doesnotexist12345678")
	require.NotNil(t, svcErr)
	assert.Equal(t, http.StatusUnauthorized, svcErr.Code)
}

func TestValidateRejectsExpired(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewTokenService(repos.tokens, time.Hour, testLogger())

	stale := &models.Token{
		ID:      NewID(),
		Email:   "ada@example.com",
		Expires: time.Now().Add(-time.Minute),
	}
	require.NoError(t, repos.tokens.Create(context.Background(), stale))

	_, svcErr := svc.Validate(context.Background(), stale.ID)
	require.NotNil(t, svcErr)
	assert.Equal(t, http.StatusUnauthorized, svcErr.Code)
}

func TestExtendPushesExpiry(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewTokenService(repos.tokens, time.Hour, testLogger())

	token, svcErr := svc.Issue(context.Background(), "ada@example.com")
	require.Nil(t, svcErr)

	extended, svcErr := svc.Extend(context.Background(), token.ID)
	require.Nil(t, svcErr)
	assert.True(t, !extended.Expires.Before(token.Expires))
}

func TestExtendRejectsExpired(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewTokenService(repos.tokens, time.Hour, testLogger())

	stale := &models.Token{
		ID:      NewID(),
		Email:   "ada@example.com",
		Expires: time.Now().Add(-time.Minute),
	}
	require.NoError(t, repos.tokens.Create(context.Background(), stale))

	_, svcErr := svc.Extend(context.Background(), stale.ID)
	require.NotNil(t, svcErr)
	assert.Equal(t, http.StatusBadRequest, svcErr.Code)
	assert.Equal(t, "The token has already expired and cannot be extended", svcErr.Message)
}

func TestExtendMissing(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewTokenService(repos.tokens, time.Hour, testLogger())

	_, svcErr := svc.Extend(context.Background(), "doesnotexist12345678")
	require.NotNil(t, svcErr)
	assert.Equal(t, http.StatusNotFound, svcErr.Code)
}

func TestRevoke(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewTokenService(repos.tokens, time.Hour, testLogger())

	token, svcErr := svc.Issue(context.Background(), "ada@example.com")
	require.Nil(t, svcErr)

	require.Nil(t, svc.Revoke(context.Background(), token.ID))

	_, svcErr = svc.Validate(context.Background(), token.ID)
	require.NotNil(t, svcErr)
	assert.Equal(t, http.StatusUnauthorized, svcErr.Code)

	svcErr = svc.Revoke(context.Background(), token.ID)
	require.NotNil(t, svcErr)
	assert.Equal(t, http.StatusNotFound, svcErr.Code)
}

func TestAuthorizeFor(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewTokenService(repos.tokens, time.Hour, testLogger())

	token, svcErr := svc.Issue(context.Background(), "ada@example.com")
	require.Nil(t, svcErr)

	require.Nil(t, svc.AuthorizeFor(context.Background(), token.ID, "ada@example.com"))

	svcErr = svc.AuthorizeFor(context.Background(), token.ID, "mallory@example.com")
	require.NotNil(t, svcErr)
	assert.Equal(t, http.StatusForbidden, svcErr.Code)
}
