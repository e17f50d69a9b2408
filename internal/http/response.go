package http

import (
	"encoding/json"
	"net/http"

	"github.com/LeandroDBechara/VerdeandoBack/internal/apperr"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error apiError `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: apiError{Code: code, Message: message}})
}

// writeAppError mapea un error de servicio al envoltorio JSON de error.
func writeAppError(w http.ResponseWriter, err error) {
	appErr := apperr.From(err)
	writeError(w, appErr.Status, appErr.Code, appErr.Message)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "El cuerpo de la petición no es válido")
		return false
	}
	return true
}
