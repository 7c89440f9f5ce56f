// Package ez registers typed gin handlers: bind I, run, render O or an error.
package ez

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"note-anywhere/internal/core/auth"
	resp "note-anywhere/internal/transport/http/response"
)

const KeyClaims = "claims"

type Binder string

const (
	BindJSON  Binder = "json"
	BindQuery Binder = "query"
	BindURI   Binder = "uri"
	BindNone  Binder = "none"
)

// AErr is an error that knows its HTTP status.
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error   { return &AErr{Code: resp.CodeBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &AErr{Code: resp.CodeUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &AErr{Code: resp.CodeForbidden, Msg: msg} }
func NotFound(msg string) error     { return &AErr{Code: resp.CodeNotFound, Msg: msg} }
func Internal(msg string, err error) error {
	return &AErr{Code: resp.CodeServerError, Msg: msg, Err: err}
}

type Action[I any, O any] struct {
	Method  string
	Path    string // e.g. "/users/:id"
	Binder  Binder
	Status  int      // success status, default 200; 204 writes no body
	Roles   []string // required JWT roles, checked against ez.KeyClaims
	Handler func(c *gin.Context, in *I) (O, error)
}

func RegisterAction[I any, O any](g gin.IRoutes, a Action[I, O]) {
	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}

	h := func(c *gin.Context) {
		if len(a.Roles) > 0 {
			claims, ok := c.Get(KeyClaims)
			cl, _ := claims.(*auth.Claims)
			if !ok || cl == nil {
				resp.Abort(c, resp.CodeUnauthorized, "unauthorized")
				return
			}
			if !slices.Contains(a.Roles, cl.Role) {
				resp.Abort(c, resp.CodeForbidden, "forbidden")
				return
			}
		}

		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		case BindURI:
			bindErr = c.ShouldBindUri(&in)
		}
		if bindErr != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(bindErr, &tooLarge) {
				resp.Abort(c, resp.CodeTooLarge, "request body too large")
				return
			}
			_ = c.Error(bindErr).SetType(gin.ErrorTypeBind)
			resp.Abort(c, resp.CodeBadRequest, bindErr.Error())
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			renderError(c, err)
			return
		}
		if status == http.StatusNoContent {
			c.Status(status)
			return
		}
		c.JSON(status, out)
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		g.GET(a.Path, h)
	case http.MethodPut:
		g.PUT(a.Path, h)
	case http.MethodDelete:
		g.DELETE(a.Path, h)
	default:
		g.POST(a.Path, h)
	}
}

// renderError writes AErr with its own status. Anything else is a 500 whose
// cause goes to the access log, not the client.
func renderError(c *gin.Context, err error) {
	var ae *AErr
	if !errors.As(err, &ae) {
		ae = &AErr{Code: resp.CodeServerError, Msg: "internal error", Err: err}
	}
	if ae.Code >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	resp.Abort(c, ae.Code, ae.Error())
}
