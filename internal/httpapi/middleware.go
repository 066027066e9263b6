package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-kit/kit/log"
	"github.com/pkg/errors"

	gallery "github.com/naszahistoria/gallery"
)

type contextKey string

const sessionUserContextKey contextKey = "sessionUser"

// SessionMiddleware resolves the session cookie on a request to an
// identity and stores it on the request context. A missing cookie and
// an unknown or expired token are treated identically: the request
// proceeds anonymously. A resolver error is an infrastructure failure
// and fails the request rather than downgrading it to anonymous.
func SessionMiddleware(jsonHandler JSONAPIHandler, sessionSvc gallery.SessionService) JSONAPIHandler {
	return func(w http.ResponseWriter, r *http.Request) (interface{}, error) {
		cookie, err := r.Cookie(gallery.SessionCookie)
		if err != nil || cookie.Value == "" {
			return jsonHandler(w, r)
		}

		sessionUser, err := sessionSvc.Resolve(r.Context(), cookie.Value)
		if err != nil {
			return nil, errors.Wrap(err, "failed to resolve session")
		}
		if sessionUser == nil {
			return jsonHandler(w, r)
		}

		ctx := context.WithValue(r.Context(), sessionUserContextKey, sessionUser)
		return jsonHandler(w, r.WithContext(ctx))
	}
}

// AuthMiddleware requires a non-anonymous identity resolved by
// SessionMiddleware. The response does not distinguish a missing
// cookie from an invalid or expired session.
func AuthMiddleware(jsonHandler JSONAPIHandler, sessionSvc gallery.SessionService) JSONAPIHandler {
	guarded := func(w http.ResponseWriter, r *http.Request) (interface{}, error) {
		if GetSessionUser(r) == nil {
			return nil, gallery.ErrUnauthorized("not authenticated")
		}
		return jsonHandler(w, r)
	}

	return SessionMiddleware(guarded, sessionSvc)
}

// GetSessionUser retrieves the authenticated identity from the request
// context. It returns nil for anonymous requests.
func GetSessionUser(r *http.Request) *gallery.SessionUser {
	sessionUser, ok := r.Context().Value(sessionUserContextKey).(*gallery.SessionUser)
	if !ok {
		return nil
	}
	return sessionUser
}

// ErrorLoggingMiddleware logs any errors that are returned before
// being parsed to an HTTP response.
func ErrorLoggingMiddleware(jsonHandler JSONAPIHandler, source string, l log.Logger) JSONAPIHandler {
	return func(w http.ResponseWriter, r *http.Request) (interface{}, error) {
		response, err := jsonHandler(w, r)
		if err != nil {
			l.Log(
				"source", source,
				"error", err.Error(),
				"stack_trace", fmt.Sprintf("%+v", err),
			)
		}
		return response, err
	}
}
