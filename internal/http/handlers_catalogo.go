package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/LeandroDBechara/VerdeandoBack/internal/service"
)

func (a *API) handleListResiduos(w http.ResponseWriter, r *http.Request) {
	residuos, err := a.Service.ListarResiduos(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, residuos)
}

func (a *API) handleGetResiduo(w http.ResponseWriter, r *http.Request) {
	residuo, err := a.Service.ResiduoPorID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, residuo)
}

func (a *API) handleCreateResiduo(w http.ResponseWriter, r *http.Request) {
	var req service.ResiduoInput
	if !decodeJSON(w, r, &req) {
		return
	}
	residuo, err := a.Service.CrearResiduo(r.Context(), req)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, residuo)
}

func (a *API) handleUpdateResiduo(w http.ResponseWriter, r *http.Request) {
	var req service.ResiduoInput
	if !decodeJSON(w, r, &req) {
		return
	}
	residuo, err := a.Service.ActualizarResiduo(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, residuo)
}

func (a *API) handleDeleteResiduo(w http.ResponseWriter, r *http.Request) {
	if err := a.Service.EliminarResiduo(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Residuo eliminado"})
}

func (a *API) handleListPuntosVerdes(w http.ResponseWriter, r *http.Request) {
	puntos, err := a.Service.ListarPuntosVerdes(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, puntos)
}

func (a *API) handleGetPuntoVerde(w http.ResponseWriter, r *http.Request) {
	pv, err := a.Service.PuntoVerdePorID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pv)
}

func (a *API) handleCreatePuntoVerde(w http.ResponseWriter, r *http.Request) {
	var req service.PuntoVerdeInput
	if !decodeJSON(w, r, &req) {
		return
	}
	pv, err := a.Service.CrearPuntoVerde(r.Context(), req)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, pv)
}

func (a *API) handleUpdatePuntoVerde(w http.ResponseWriter, r *http.Request) {
	var req service.PuntoVerdeInput
	if !decodeJSON(w, r, &req) {
		return
	}
	pv, err := a.Service.ActualizarPuntoVerde(r.Context(), chi.URLParam(r, "id"), req.ColaboradorID, req)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pv)
}

func (a *API) handleDeletePuntoVerde(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ColaboradorID string `json:"colaboradorId"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := a.Service.EliminarPuntoVerde(r.Context(), chi.URLParam(r, "id"), req.ColaboradorID); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Punto verde eliminado"})
}

func (a *API) handleListEventos(w http.ResponseWriter, r *http.Request) {
	eventos, err := a.Service.ListarEventos(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, eventos)
}

func (a *API) handleGetEvento(w http.ResponseWriter, r *http.Request) {
	e, err := a.Service.EventoPorID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (a *API) handleCreateEvento(w http.ResponseWriter, r *http.Request) {
	var req service.EventoInput
	if !decodeJSON(w, r, &req) {
		return
	}
	e, err := a.Service.CrearEvento(r.Context(), req)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (a *API) handleUpdateEvento(w http.ResponseWriter, r *http.Request) {
	var req service.EventoInput
	if !decodeJSON(w, r, &req) {
		return
	}
	e, err := a.Service.ActualizarEvento(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (a *API) handleDeleteEvento(w http.ResponseWriter, r *http.Request) {
	if err := a.Service.EliminarEvento(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Evento eliminado"})
}

func (a *API) handleValidarCodigo(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Codigo string `json:"codigo"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	e, err := a.Service.ValidarCodigo(r.Context(), req.Codigo)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}
