// Package http expone la API REST de Verdeando.
package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/LeandroDBechara/VerdeandoBack/internal/auth"
	"github.com/LeandroDBechara/VerdeandoBack/internal/models"
	"github.com/LeandroDBechara/VerdeandoBack/internal/service"
)

type API struct {
	Service *service.Service
	Auth    *auth.Manager
	Log     zerolog.Logger
	Origins []string
}

func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(loggingMiddleware(a.Log))
	r.Use(a.corsMiddleware)

	r.Get("/health", a.handleHealth)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", a.handleRegister)
		r.Post("/login", a.handleLogin)
		r.Post("/recover-password", a.handleRecoverPassword)
		r.Post("/reset-password", a.handleResetPassword)
	})

	r.Group(func(r chi.Router) {
		r.Use(a.authMiddleware)

		r.Post("/uploads/{bucket}", a.handleUpload)

		r.Route("/usuarios", func(r chi.Router) {
			r.With(requireRol()).Get("/", a.handleListUsuarios)
			r.Get("/{id}", a.handleGetUsuario)
			r.Patch("/{id}", a.handleUpdateUsuario)
			r.With(requireRol()).Delete("/{id}", a.handleDeleteUsuario)
			r.Post("/ser-colaborador", a.handleSerColaborador)
		})
		r.Patch("/colaboradores/{id}", a.handleUpdateColaborador)

		r.Route("/residuos", func(r chi.Router) {
			r.Get("/", a.handleListResiduos)
			r.Get("/{id}", a.handleGetResiduo)
			r.With(requireRol()).Post("/", a.handleCreateResiduo)
			r.With(requireRol()).Patch("/{id}", a.handleUpdateResiduo)
			r.With(requireRol()).Delete("/{id}", a.handleDeleteResiduo)
		})

		r.Route("/puntos-verdes", func(r chi.Router) {
			r.Get("/", a.handleListPuntosVerdes)
			r.Get("/{id}", a.handleGetPuntoVerde)
			r.With(requireRol(models.RolColaborador)).Post("/", a.handleCreatePuntoVerde)
			r.With(requireRol(models.RolColaborador)).Patch("/{id}", a.handleUpdatePuntoVerde)
			r.With(requireRol(models.RolColaborador)).Delete("/{id}", a.handleDeletePuntoVerde)
		})

		r.Route("/eventos", func(r chi.Router) {
			r.Get("/", a.handleListEventos)
			r.Get("/{id}", a.handleGetEvento)
			r.Post("/validar-codigo", a.handleValidarCodigo)
			r.With(requireRol()).Post("/", a.handleCreateEvento)
			r.With(requireRol()).Patch("/{id}", a.handleUpdateEvento)
			r.With(requireRol()).Delete("/{id}", a.handleDeleteEvento)
		})

		r.Route("/intercambios", func(r chi.Router) {
			r.With(requireRol()).Get("/", a.handleListIntercambios)
			r.Post("/", a.handleCreateIntercambio)
			r.Get("/{id}", a.handleGetIntercambio)
			r.Get("/usuario/{usuarioId}", a.handleIntercambiosPorUsuario)
			r.With(requireRol(models.RolColaborador)).Post("/confirmar", a.handleConfirmarIntercambio)
			r.Post("/{id}/cancelar", a.handleCancelarIntercambio)
			r.With(requireRol()).Delete("/{id}", a.handleDeleteIntercambio)
		})

		r.Route("/recompensas", func(r chi.Router) {
			r.Get("/", a.handleListRecompensas)
			r.Get("/{id}", a.handleGetRecompensa)
			r.With(requireRol()).Post("/", a.handleCreateRecompensa)
			r.With(requireRol()).Patch("/{id}", a.handleUpdateRecompensa)
			r.With(requireRol()).Delete("/{id}", a.handleDeleteRecompensa)
			r.Post("/{id}/canjear", a.handleCrearCanje)
			r.Get("/canjes/usuario/{usuarioId}", a.handleCanjesPorUsuario)
		})

		r.Route("/noticias", func(r chi.Router) {
			r.Get("/", a.handleListNoticias)
			r.Get("/{id}", a.handleGetNoticia)
			r.Post("/{id}/vista", a.handleRegistrarVista)
			r.Post("/{id}/favorito", a.handleMarcarFavorita)
			r.Delete("/{id}/favorito", a.handleQuitarFavorita)
			r.Get("/favoritas", a.handleNoticiasFavoritas)
			r.With(requireRol()).Post("/", a.handleCreateNoticia)
			r.With(requireRol()).Patch("/{id}", a.handleUpdateNoticia)
			r.With(requireRol()).Delete("/{id}", a.handleDeleteNoticia)
		})
	})

	return r
}

func (a *API) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
