package handlers

import (
	"net/http"
	"strings"

	applog "packliste/internal/log"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	UserID        uint   `json:"user_id,omitempty"`
	Email         string `json:"email,omitempty"`
	Name          string `json:"name,omitempty"`
	Message       string `json:"message,omitempty"`
}

// Login reports the session state on GET and signs the user in on POST.
func Login(w http.ResponseWriter, r *http.Request) {
	applog.Debug(r.Context(), "handling login request", "method", r.Method)

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		if ActiveSession(r) {
			writeJSON(w, http.StatusOK, currentSession(r))
			return
		}
		writeJSON(w, http.StatusOK, sessionResponse{Authenticated: false})
	case http.MethodPost:
		if sessionManager == nil || database == nil {
			applog.Debug(r.Context(), "authentication dependencies unavailable", "hasSession", sessionManager != nil, "hasDatabase", database != nil)
			http.Error(w, "authentication not available", http.StatusServiceUnavailable)
			return
		}

		var payload loginRequest
		if !decodeJSON(w, r, &payload) {
			return
		}
		email := strings.TrimSpace(payload.Email)

		if !authenticate(w, r, email, payload.Password) {
			applog.Debug(r.Context(), "authentication failed", "email", strings.ToLower(email))
			message := sessionManager.PopString(r.Context(), sessionLoginMessageKey)
			if message == "" {
				message = "Anmeldung derzeit nicht möglich."
			}
			writeJSON(w, http.StatusUnauthorized, sessionResponse{Message: message})
			return
		}

		applog.Info(r.Context(), "user signed in", "email", strings.ToLower(email))
		writeJSON(w, http.StatusOK, currentSession(r))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func currentSession(r *http.Request) sessionResponse {
	id, _ := currentUserID(r)
	return sessionResponse{
		Authenticated: true,
		UserID:        id,
		Email:         sessionManager.GetString(r.Context(), sessionUserEmailKey),
		Name:          sessionManager.GetString(r.Context(), sessionUserNameKey),
	}
}
