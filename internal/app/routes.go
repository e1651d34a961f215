package app

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Builders and abbreviations
	r.HandleFunc("/api/builder", deps.BuilderHandler.ListBuilders).Methods("GET")
	r.HandleFunc("/api/builder", deps.BuilderHandler.CreateBuilder).Methods("POST")
	r.HandleFunc("/api/builder/{builderId}", deps.BuilderHandler.GetBuilder).Methods("GET")
	r.HandleFunc("/api/builder/{builderId}", deps.BuilderHandler.UpdateBuilder).Methods("PUT")
	r.HandleFunc("/api/builder/{builderId}", deps.BuilderHandler.DeleteBuilder).Methods("DELETE")
	r.HandleFunc("/api/builder/{builderId}/abbreviation", deps.BuilderHandler.AddAbbreviation).Methods("POST")
	r.HandleFunc("/api/builder/{builderId}/abbreviation/{abbreviationId}", deps.BuilderHandler.DeleteAbbreviation).Methods("DELETE")

	// Jobs
	r.HandleFunc("/api/job", deps.JobHandler.GetJobs).Queries("from", "{from}", "to", "{to}").Methods("GET")
	r.HandleFunc("/api/job/{jobId}", deps.JobHandler.GetJob).Methods("GET")
	r.HandleFunc("/api/job/{jobId}/status", deps.JobHandler.UpdateJobStatus).Methods("PATCH")

	// Calendar import
	r.HandleFunc("/api/calendar/import", deps.ImportHandler.ImportFromGoogle).Queries("from", "{from}", "to", "{to}").Methods("POST")
	r.HandleFunc("/api/calendar/import/events", deps.ImportHandler.ImportBatch).Methods("POST")
	r.HandleFunc("/api/calendar/import/log", deps.ImportHandler.GetImportLogs).Methods("GET")

	// Review queue
	r.HandleFunc("/api/review", deps.ReviewHandler.GetQueue).Methods("GET")
	r.HandleFunc("/api/review/{eventId}/resolve", deps.ReviewHandler.ResolveEvent).Methods("POST")
	r.HandleFunc("/api/review/{eventId}/dismiss", deps.ReviewHandler.DismissEvent).Methods("POST")

	// User management
	r.HandleFunc("/api/user/current", deps.UserHandler.CurrentUser).Methods("GET")
	r.HandleFunc("/api/user/current", deps.UserHandler.UpdateUser).Methods("PUT")
	r.HandleFunc("/api/user", deps.UserHandler.CreateUser).Methods("POST")
	r.HandleFunc("/api/user", deps.UserHandler.GetAvailableUsers).Methods("GET")
	r.HandleFunc("/api/user/{userId}", deps.UserHandler.DeleteUser).Methods("DELETE")

	// Google integration
	r.HandleFunc("/api/integrations/google/auth/login", deps.GoogleAuth.OAuthLogin).Methods("GET")
	r.HandleFunc("/api/integrations/google/auth/logout", deps.GoogleAuth.OAuthLogout).Methods("DELETE")
	r.HandleFunc("/api/integrations/google/auth/callback", deps.GoogleAuth.OAuthCallback).Methods("GET")
	r.HandleFunc("/api/integrations/google/auth", deps.GoogleAuth.IsAuthenticated).Methods("GET")
	r.HandleFunc("/api/integrations/google/calendars", deps.GoogleHandler.ListCalendars).Methods("GET")
}
