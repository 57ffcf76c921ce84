package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xoso-lab/backend/internal/model"
	"github.com/xoso-lab/backend/pkg/testutil"
	"github.com/xoso-lab/backend/pkg/xcontext"
)

func TestWithAuthed(t *testing.T) {
	ctx := testutil.MockContext()

	token, err := xcontext.TokenEngine(ctx).Generate(
		"user1", model.AccessToken{ID: "user1", Name: "user1"})
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/getMe", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	authedCtx, err := WithAuthed(xcontext.WithHTTPRequest(ctx, req))
	require.NoError(t, err)
	require.Equal(t, "user1", xcontext.RequestUserID(authedCtx))
}

func TestWithAuthedRejectsBadToken(t *testing.T) {
	ctx := testutil.MockContext()

	req := httptest.NewRequest("GET", "/getMe", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")

	_, err := WithAuthed(xcontext.WithHTTPRequest(ctx, req))
	require.Error(t, err)

	_, err = WithAuthed(xcontext.WithHTTPRequest(ctx, httptest.NewRequest("GET", "/getMe", nil)))
	require.Error(t, err)
}

func TestWithAuthedReadsCookie(t *testing.T) {
	ctx := testutil.MockContext()

	token, err := xcontext.TokenEngine(ctx).Generate(
		"user2", model.AccessToken{ID: "user2", Name: "user2"})
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/getMe", nil)
	req.AddCookie(&http.Cookie{
		Name:  xcontext.Configs(ctx).Auth.AccessToken.Name,
		Value: token,
	})

	authedCtx, err := WithAuthed(xcontext.WithHTTPRequest(ctx, req))
	require.NoError(t, err)
	require.Equal(t, "user2", xcontext.RequestUserID(authedCtx))
}

func TestWithOptionalAuthed(t *testing.T) {
	ctx := testutil.MockContext()

	anonCtx, err := WithOptionalAuthed(
		xcontext.WithHTTPRequest(ctx, httptest.NewRequest("GET", "/", nil)))
	require.NoError(t, err)
	require.Empty(t, xcontext.RequestUserID(anonCtx))
}
