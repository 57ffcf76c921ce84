package middleware

import (
	"context"
	"strings"

	"github.com/xoso-lab/backend/pkg/errorx"
	"github.com/xoso-lab/backend/pkg/xcontext"
)

// WithAuthed extracts the access token from the Authorization header or the
// token cookie, verifies it and installs the user id on the context.
func WithAuthed(ctx context.Context) (context.Context, error) {
	token := extractToken(ctx)
	if token == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
	}

	accessToken, err := xcontext.TokenEngine(ctx).Verify(token)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Cannot verify access token: %v", err)
		return nil, errorx.New(errorx.Unauthenticated, "Invalid access token")
	}

	return xcontext.WithRequestUserID(ctx, accessToken.ID), nil
}

// WithOptionalAuthed installs the user id if a valid token is present but
// never rejects the request.
func WithOptionalAuthed(ctx context.Context) (context.Context, error) {
	token := extractToken(ctx)
	if token == "" {
		return ctx, nil
	}

	accessToken, err := xcontext.TokenEngine(ctx).Verify(token)
	if err != nil {
		return ctx, nil
	}

	return xcontext.WithRequestUserID(ctx, accessToken.ID), nil
}

func extractToken(ctx context.Context) string {
	req := xcontext.HTTPRequest(ctx)

	authorization := req.Header.Get("Authorization")
	if after, found := strings.CutPrefix(authorization, "Bearer "); found {
		return after
	}

	cookieName := xcontext.Configs(ctx).Auth.AccessToken.Name
	if cookie, err := req.Cookie(cookieName); err == nil {
		return cookie.Value
	}

	return ""
}
