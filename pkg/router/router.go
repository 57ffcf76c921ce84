package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xoso-lab/backend/pkg/errorx"
	"github.com/xoso-lab/backend/pkg/xcontext"
)

// HandlerFunc is an endpoint handler. The context carries everything the
// handler needs (configs, logger, database, the authenticated user id).
type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before the handler. It may derive a new context, which
// is passed down the chain, or return an error to stop the request.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

type Router struct {
	Inner gin.IRouter

	ctx         context.Context
	middlewares []MiddlewareFunc
}

// New creates a router rooted at ctx. Every request context is derived from
// this root, so values installed on it are visible to all handlers.
func New(ctx context.Context) *Router {
	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Router{Inner: engine, ctx: ctx}
}

func (r *Router) Use(middleware MiddlewareFunc) {
	r.middlewares = append(r.middlewares, middleware)
}

// Branch returns a sub-router with its own middleware chain, starting as a
// copy of the parent's.
func (r *Router) Branch(pattern string) *Router {
	return &Router{
		Inner:       r.Inner.Group(pattern),
		ctx:         r.ctx,
		middlewares: append([]MiddlewareFunc{}, r.middlewares...),
	}
}

func (r *Router) Handler() http.Handler {
	return r.Inner.(*gin.Engine)
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.Inner.GET(pattern, wrapHandler(r, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.Inner.POST(pattern, wrapHandler(r, handler))
}

func wrapHandler[Request, Response any](
	router *Router, handler HandlerFunc[Request, Response],
) gin.HandlerFunc {
	return func(ginCtx *gin.Context) {
		ctx := xcontext.WithHTTPRequest(router.ctx, ginCtx.Request)

		var err error
		for _, middleware := range router.middlewares {
			ctx, err = middleware(ctx)
			if err != nil {
				writeError(ginCtx, err)
				return
			}
		}

		var req Request
		if ginCtx.Request.Method == http.MethodGet {
			err = ginCtx.ShouldBindQuery(&req)
		} else {
			err = ginCtx.ShouldBindJSON(&req)
		}
		if err != nil {
			xcontext.Logger(ctx).Debugf("Cannot bind request: %v", err)
			writeError(ginCtx, errorx.New(errorx.BadRequest, "Cannot parse the request"))
			return
		}

		resp, err := handler(ctx, &req)
		if err != nil {
			writeError(ginCtx, err)
			return
		}

		ginCtx.JSON(http.StatusOK, newResponse(resp))
	}
}
