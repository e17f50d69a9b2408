package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/LeandroDBechara/VerdeandoBack/internal/auth"
	"github.com/LeandroDBechara/VerdeandoBack/internal/service"
)

func (a *API) handleCreateIntercambio(w http.ResponseWriter, r *http.Request) {
	var req service.CrearIntercambioInput
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UsuarioID == "" {
		req.UsuarioID, _ = auth.UsuarioID(r.Context())
	}
	if !a.mismoUsuarioOAdmin(w, r, req.UsuarioID) {
		return
	}
	intercambio, err := a.Service.CrearIntercambio(r.Context(), req)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, intercambio)
}

func (a *API) handleGetIntercambio(w http.ResponseWriter, r *http.Request) {
	intercambio, err := a.Service.IntercambioPorID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, intercambio)
}

func (a *API) handleListIntercambios(w http.ResponseWriter, r *http.Request) {
	lista, err := a.Service.ListarIntercambios(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lista)
}

func (a *API) handleIntercambiosPorUsuario(w http.ResponseWriter, r *http.Request) {
	usuarioID := chi.URLParam(r, "usuarioId")
	if !a.mismoUsuarioOAdmin(w, r, usuarioID) {
		return
	}
	lista, err := a.Service.IntercambiosPorUsuario(r.Context(), usuarioID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lista)
}

// handleConfirmarIntercambio recibe el token escaneado en el punto verde.
func (a *API) handleConfirmarIntercambio(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token         string `json:"token"`
		ColaboradorID string `json:"colaboradorId"`
		PuntoVerdeID  string `json:"puntoVerdeId"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	intercambio, err := a.Service.ConfirmarIntercambio(r.Context(), req.Token, req.ColaboradorID, req.PuntoVerdeID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, intercambio)
}

func (a *API) handleCancelarIntercambio(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	intercambio, err := a.Service.IntercambioPorID(r.Context(), id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	if !a.mismoUsuarioOAdmin(w, r, intercambio.UsuarioID) {
		return
	}
	if err := a.Service.CancelarIntercambio(r.Context(), id); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Intercambio cancelado"})
}

func (a *API) handleDeleteIntercambio(w http.ResponseWriter, r *http.Request) {
	if err := a.Service.EliminarIntercambio(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Intercambio eliminado"})
}
