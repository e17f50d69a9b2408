// Package service contiene las reglas de negocio de Verdeando. Los servicios
// reciben interfaces de almacenamiento por constructor para poder probarse
// con dobles en memoria.
package service

import (
	"context"
	"time"

	"github.com/LeandroDBechara/VerdeandoBack/internal/auth"
	"github.com/LeandroDBechara/VerdeandoBack/internal/models"
	"github.com/LeandroDBechara/VerdeandoBack/internal/repo"
)

type UsuarioStore interface {
	CrearUsuario(ctx context.Context, u models.Usuario) (models.Usuario, error)
	UsuarioPorEmail(ctx context.Context, email string) (models.Usuario, error)
	UsuarioPorID(ctx context.Context, id string) (models.Usuario, error)
	Usuarios(ctx context.Context) ([]models.Usuario, error)
	ActualizarUsuario(ctx context.Context, u models.Usuario) error
	ActualizarPassword(ctx context.Context, id, passwordHash string) error
	ActualizarRol(ctx context.Context, id, rol string) error
	EliminarUsuario(ctx context.Context, id string) error
	CrearColaborador(ctx context.Context, c models.Colaborador) (models.Colaborador, error)
	ColaboradorPorID(ctx context.Context, id string) (models.Colaborador, error)
	ActualizarColaborador(ctx context.Context, c models.Colaborador) error
}

type ResiduoStore interface {
	CrearResiduo(ctx context.Context, r models.Residuo) (models.Residuo, error)
	ResiduoPorID(ctx context.Context, id string) (models.Residuo, error)
	Residuos(ctx context.Context) ([]models.Residuo, error)
	ActualizarResiduo(ctx context.Context, r models.Residuo) error
	EliminarResiduo(ctx context.Context, id string) error
}

type PuntoVerdeStore interface {
	CrearPuntoVerde(ctx context.Context, pv models.PuntoVerde) (models.PuntoVerde, error)
	PuntoVerdePorID(ctx context.Context, id string) (models.PuntoVerde, error)
	PuntosVerdes(ctx context.Context) ([]models.PuntoVerde, error)
	PuntosVerdesExistentes(ctx context.Context, ids []string) ([]string, error)
	ActualizarPuntoVerde(ctx context.Context, pv models.PuntoVerde) error
	EliminarPuntoVerde(ctx context.Context, id, colaboradorID string) error
}

type EventoStore interface {
	CrearEvento(ctx context.Context, e models.Evento) (models.Evento, error)
	EventoPorID(ctx context.Context, id string) (models.Evento, error)
	EventoPorCodigo(ctx context.Context, codigo string) (models.Evento, error)
	Eventos(ctx context.Context) ([]models.Evento, error)
	ActualizarEvento(ctx context.Context, e models.Evento) error
	EliminarEvento(ctx context.Context, id string) error
}

type IntercambioStore interface {
	CrearIntercambio(ctx context.Context, in models.Intercambio, detalles []models.DetalleIntercambio) (models.Intercambio, error)
	GuardarTokenIntercambio(ctx context.Context, id, token string) error
	IntercambioPorID(ctx context.Context, id string) (models.Intercambio, error)
	IntercambioDetalladoPorID(ctx context.Context, id string) (models.IntercambioDetallado, error)
	IntercambiosPorUsuario(ctx context.Context, usuarioID string) ([]models.IntercambioDetallado, error)
	Intercambios(ctx context.Context) ([]models.IntercambioDetallado, error)
	ExpirarVencidos(ctx context.Context) (int64, error)
	ExpirarVencidosDeUsuario(ctx context.Context, usuarioID string) error
	ConfirmarIntercambio(ctx context.Context, id, colaboradorID, puntoVerdeID string) error
	CancelarIntercambio(ctx context.Context, id string) error
	EliminarIntercambio(ctx context.Context, id string) error
}

type RecompensaStore interface {
	CrearRecompensa(ctx context.Context, r models.Recompensa) (models.Recompensa, error)
	RecompensaPorID(ctx context.Context, id string) (models.Recompensa, error)
	Recompensas(ctx context.Context) ([]models.Recompensa, error)
	ActualizarRecompensa(ctx context.Context, r models.Recompensa) error
	EliminarRecompensa(ctx context.Context, id string) error
	CrearCanje(ctx context.Context, recompensaID, usuarioID string, costo float64) (models.Canje, error)
	CanjesPorUsuario(ctx context.Context, usuarioID string) ([]models.Canje, error)
}

type NoticiaStore interface {
	CrearNoticia(ctx context.Context, n models.Noticia) (models.Noticia, error)
	NoticiaPorID(ctx context.Context, id string) (models.Noticia, error)
	Noticias(ctx context.Context) ([]models.Noticia, error)
	ActualizarNoticia(ctx context.Context, n models.Noticia) error
	EliminarNoticia(ctx context.Context, id string) error
	AgregarFavorito(ctx context.Context, noticiaID, usuarioID string) error
	QuitarFavorito(ctx context.Context, noticiaID, usuarioID string) error
	FavoritasDeUsuario(ctx context.Context, usuarioID string) ([]models.Noticia, error)
	SumarVista(ctx context.Context, noticiaID string) (int, error)
}

// Mailer envía correo transaccional; nil deshabilita la funcionalidad.
type Mailer interface {
	EnviarBienvenida(to, nombre string) error
	EnviarRecuperacion(to, url string) error
}

// Storage guarda imágenes en buckets; nil deshabilita la funcionalidad.
type Storage interface {
	Upload(ctx context.Context, bucket, path string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, bucket, path string) error
	ExtractPath(publicURL, bucket string) string
}

type Service struct {
	Usuarios     UsuarioStore
	Residuos     ResiduoStore
	PuntosVerdes PuntoVerdeStore
	Eventos      EventoStore
	Intercambios IntercambioStore
	Recompensas  RecompensaStore
	Noticias     NoticiaStore

	Auth    *auth.Manager
	Mailer  Mailer
	Storage Storage

	ResetPasswordURL string

	// Now permite fijar el reloj en pruebas.
	Now func() time.Time
}

func New(r *repo.Repo, authManager *auth.Manager) *Service {
	return &Service{
		Usuarios:     r,
		Residuos:     r,
		PuntosVerdes: r,
		Eventos:      r,
		Intercambios: r,
		Recompensas:  r,
		Noticias:     r,
		Auth:         authManager,
		Now:          time.Now,
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Buckets de imágenes en el almacenamiento de objetos.
const (
	BucketUsuarios    = "usuarios"
	BucketEventos     = "eventos"
	BucketRecompensas = "recompensas"
	BucketNoticias    = "noticias"
	BucketPuntos      = "puntos-verdes"
)

// parseFecha acepta fechas con o sin hora.
func parseFecha(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func borrarImagen(ctx context.Context, st Storage, bucket string, url *string) {
	if st == nil || url == nil || *url == "" {
		return
	}
	if path := st.ExtractPath(*url, bucket); path != "" {
		_ = st.Delete(ctx, bucket, path)
	}
}
