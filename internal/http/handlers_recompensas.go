package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/LeandroDBechara/VerdeandoBack/internal/auth"
	"github.com/LeandroDBechara/VerdeandoBack/internal/service"
)

func (a *API) handleListRecompensas(w http.ResponseWriter, r *http.Request) {
	recompensas, err := a.Service.ListarRecompensas(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recompensas)
}

func (a *API) handleGetRecompensa(w http.ResponseWriter, r *http.Request) {
	recompensa, err := a.Service.RecompensaPorID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recompensa)
}

func (a *API) handleCreateRecompensa(w http.ResponseWriter, r *http.Request) {
	var req service.RecompensaInput
	if !decodeJSON(w, r, &req) {
		return
	}
	recompensa, err := a.Service.CrearRecompensa(r.Context(), req)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, recompensa)
}

func (a *API) handleUpdateRecompensa(w http.ResponseWriter, r *http.Request) {
	var req service.RecompensaInput
	if !decodeJSON(w, r, &req) {
		return
	}
	recompensa, err := a.Service.ActualizarRecompensa(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recompensa)
}

func (a *API) handleDeleteRecompensa(w http.ResponseWriter, r *http.Request) {
	if err := a.Service.EliminarRecompensa(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Recompensa eliminada"})
}

func (a *API) handleCrearCanje(w http.ResponseWriter, r *http.Request) {
	usuarioID, _ := auth.UsuarioID(r.Context())
	canje, err := a.Service.CrearCanje(r.Context(), chi.URLParam(r, "id"), usuarioID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, canje)
}

func (a *API) handleCanjesPorUsuario(w http.ResponseWriter, r *http.Request) {
	usuarioID := chi.URLParam(r, "usuarioId")
	if !a.mismoUsuarioOAdmin(w, r, usuarioID) {
		return
	}
	canjes, err := a.Service.CanjesPorUsuario(r.Context(), usuarioID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, canjes)
}

func (a *API) handleListNoticias(w http.ResponseWriter, r *http.Request) {
	noticias, err := a.Service.ListarNoticias(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, noticias)
}

func (a *API) handleGetNoticia(w http.ResponseWriter, r *http.Request) {
	noticia, err := a.Service.NoticiaPorID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, noticia)
}

func (a *API) handleCreateNoticia(w http.ResponseWriter, r *http.Request) {
	var req service.NoticiaInput
	if !decodeJSON(w, r, &req) {
		return
	}
	noticia, err := a.Service.CrearNoticia(r.Context(), req)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, noticia)
}

func (a *API) handleUpdateNoticia(w http.ResponseWriter, r *http.Request) {
	var req service.NoticiaInput
	if !decodeJSON(w, r, &req) {
		return
	}
	noticia, err := a.Service.ActualizarNoticia(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, noticia)
}

func (a *API) handleDeleteNoticia(w http.ResponseWriter, r *http.Request) {
	if err := a.Service.EliminarNoticia(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Noticia eliminada"})
}

func (a *API) handleRegistrarVista(w http.ResponseWriter, r *http.Request) {
	vistas, err := a.Service.RegistrarVista(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"vistas": vistas})
}

func (a *API) handleMarcarFavorita(w http.ResponseWriter, r *http.Request) {
	usuarioID, _ := auth.UsuarioID(r.Context())
	if err := a.Service.MarcarFavorita(r.Context(), chi.URLParam(r, "id"), usuarioID); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Noticia marcada como favorita"})
}

func (a *API) handleQuitarFavorita(w http.ResponseWriter, r *http.Request) {
	usuarioID, _ := auth.UsuarioID(r.Context())
	if err := a.Service.QuitarFavorita(r.Context(), chi.URLParam(r, "id"), usuarioID); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Noticia quitada de favoritos"})
}

func (a *API) handleNoticiasFavoritas(w http.ResponseWriter, r *http.Request) {
	usuarioID, _ := auth.UsuarioID(r.Context())
	noticias, err := a.Service.NoticiasFavoritas(r.Context(), usuarioID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, noticias)
}
