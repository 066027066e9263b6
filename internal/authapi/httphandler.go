package authapi

import (
	"net/http"

	"github.com/go-kit/kit/log"
	"github.com/gorilla/mux"

	gallery "github.com/naszahistoria/gallery"
	"github.com/naszahistoria/gallery/internal/httpapi"
)

// SetupHTTPHandler converts a service's public methods
// to http handlers.
func SetupHTTPHandler(svc gallery.AuthAPI, router *mux.Router, sessionSvc gallery.SessionService, logger log.Logger) {
	var handler httpapi.JSONAPIHandler
	{
		handler = svc.RegisterOptions
		handler = httpapi.ErrorLoggingMiddleware(handler, "AuthAPI.RegisterOptions", logger)
		httpHandler := httpapi.ToHandlerFunc(handler, http.StatusOK)
		router.HandleFunc("/api/v1/webauthn/register/options", httpHandler).Methods("Post")
	}
	{
		handler = svc.RegisterVerify
		handler = httpapi.ErrorLoggingMiddleware(handler, "AuthAPI.RegisterVerify", logger)
		httpHandler := httpapi.ToHandlerFunc(handler, http.StatusOK)
		router.HandleFunc("/api/v1/webauthn/register/verify", httpHandler).Methods("Post")
	}
	{
		handler = svc.LoginOptions
		handler = httpapi.ErrorLoggingMiddleware(handler, "AuthAPI.LoginOptions", logger)
		httpHandler := httpapi.ToHandlerFunc(handler, http.StatusOK)
		router.HandleFunc("/api/v1/webauthn/authenticate/options", httpHandler).Methods("Post")
	}
	{
		handler = svc.LoginVerify
		handler = httpapi.ErrorLoggingMiddleware(handler, "AuthAPI.LoginVerify", logger)
		httpHandler := httpapi.ToHandlerFunc(handler, http.StatusOK)
		router.HandleFunc("/api/v1/webauthn/authenticate/verify", httpHandler).Methods("Post")
	}
	{
		handler = httpapi.SessionMiddleware(svc.Me, sessionSvc)
		handler = httpapi.ErrorLoggingMiddleware(handler, "AuthAPI.Me", logger)
		httpHandler := httpapi.ToHandlerFunc(handler, http.StatusOK)
		router.HandleFunc("/api/v1/auth/me", httpHandler).Methods("Get")
	}
	{
		handler = svc.Logout
		handler = httpapi.ErrorLoggingMiddleware(handler, "AuthAPI.Logout", logger)
		httpHandler := httpapi.ToHandlerFunc(handler, http.StatusOK)
		router.HandleFunc("/api/v1/auth/logout", httpHandler).Methods("Post")
	}
}
