package photoapi

import (
	"net/http"

	"github.com/go-kit/kit/log"
	"github.com/gorilla/mux"

	gallery "github.com/naszahistoria/gallery"
	"github.com/naszahistoria/gallery/internal/httpapi"
)

// SetupHTTPHandler converts a service's public methods
// to http handlers.
func SetupHTTPHandler(svc gallery.PhotoAPI, router *mux.Router, sessionSvc gallery.SessionService, logger log.Logger) {
	var handler httpapi.JSONAPIHandler
	{
		handler = svc.List
		handler = httpapi.ErrorLoggingMiddleware(handler, "PhotoAPI.List", logger)
		httpHandler := httpapi.ToHandlerFunc(handler, http.StatusOK)
		router.HandleFunc("/api/v1/photos", httpHandler).Methods("Get")
	}
	{
		handler = httpapi.AuthMiddleware(svc.Upload, sessionSvc)
		handler = httpapi.ErrorLoggingMiddleware(handler, "PhotoAPI.Upload", logger)
		httpHandler := httpapi.ToHandlerFunc(handler, http.StatusCreated)
		router.HandleFunc("/api/v1/photos/upload", httpHandler).Methods("Post")
	}
	{
		handler = httpapi.AuthMiddleware(svc.Update, sessionSvc)
		handler = httpapi.ErrorLoggingMiddleware(handler, "PhotoAPI.Update", logger)
		httpHandler := httpapi.ToHandlerFunc(handler, http.StatusOK)
		router.HandleFunc("/api/v1/photos/{id}", httpHandler).Methods("Patch")
	}
}
