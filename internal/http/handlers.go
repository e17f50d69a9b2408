package http

import (
	"io"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/LeandroDBechara/VerdeandoBack/internal/auth"
	"github.com/LeandroDBechara/VerdeandoBack/internal/models"
	"github.com/LeandroDBechara/VerdeandoBack/internal/service"
)

const (
	maxBodyBytes   = 1 << 20
	maxUploadBytes = 5 << 20
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"contraseña"`
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req service.RegistroInput
	if !decodeJSON(w, r, &req) {
		return
	}
	u, err := a.Service.Registrar(r.Context(), req)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	u, token, err := a.Service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"usuario": u, "token": token})
}

func (a *API) handleRecoverPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := a.Service.RecuperarPassword(r.Context(), req.Email); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Correo de recuperación enviado"})
}

func (a *API) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"contraseña"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := a.Service.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Contraseña actualizada"})
}

var bucketsPermitidos = []string{
	service.BucketUsuarios,
	service.BucketEventos,
	service.BucketRecompensas,
	service.BucketNoticias,
	service.BucketPuntos,
}

// handleUpload recibe una imagen multipart y devuelve su URL pública. Los
// endpoints de creación y edición reciben luego esa URL en el cuerpo JSON.
func (a *API) handleUpload(w http.ResponseWriter, r *http.Request) {
	if a.Service.Storage == nil {
		writeError(w, http.StatusServiceUnavailable, "STORAGE_DISABLED", "El almacenamiento de imágenes no está configurado")
		return
	}
	bucket := chi.URLParam(r, "bucket")
	if !slices.Contains(bucketsPermitidos, bucket) {
		writeError(w, http.StatusBadRequest, "VALIDATION", "Bucket desconocido")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "Falta el archivo")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "No se pudo leer el archivo")
		return
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	url, err := a.Service.Storage.Upload(r.Context(), bucket, header.Filename, data, contentType)
	if err != nil {
		a.Log.Error().Err(err).Str("bucket", bucket).Msg("subida de imagen")
		writeError(w, http.StatusBadGateway, "STORAGE_ERROR", "No se pudo subir la imagen")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}

func (a *API) handleListUsuarios(w http.ResponseWriter, r *http.Request) {
	usuarios, err := a.Service.ListarUsuarios(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, usuarios)
}

func (a *API) handleGetUsuario(w http.ResponseWriter, r *http.Request) {
	u, err := a.Service.UsuarioPorID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (a *API) handleUpdateUsuario(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !a.mismoUsuarioOAdmin(w, r, id) {
		return
	}
	var req service.ActualizarUsuarioInput
	if !decodeJSON(w, r, &req) {
		return
	}
	u, err := a.Service.ActualizarUsuario(r.Context(), id, req)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (a *API) handleDeleteUsuario(w http.ResponseWriter, r *http.Request) {
	if err := a.Service.EliminarUsuario(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Usuario eliminado"})
}

func (a *API) handleSerColaborador(w http.ResponseWriter, r *http.Request) {
	var req service.ColaboradorInput
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UsuarioID == "" {
		req.UsuarioID, _ = auth.UsuarioID(r.Context())
	}
	if !a.mismoUsuarioOAdmin(w, r, req.UsuarioID) {
		return
	}
	c, err := a.Service.SerColaborador(r.Context(), req)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (a *API) handleUpdateColaborador(w http.ResponseWriter, r *http.Request) {
	var req service.ActualizarColaboradorInput
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := a.Service.ActualizarColaborador(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// mismoUsuarioOAdmin corta operaciones sobre recursos de otro usuario.
func (a *API) mismoUsuarioOAdmin(w http.ResponseWriter, r *http.Request, usuarioID string) bool {
	id, _ := auth.UsuarioID(r.Context())
	if id == usuarioID || auth.Rol(r.Context()) == models.RolAdmin {
		return true
	}
	writeError(w, http.StatusForbidden, "FORBIDDEN", "No tenés permisos para esta operación")
	return false
}
