package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/LeandroDBechara/VerdeandoBack/internal/apperr"
	"github.com/LeandroDBechara/VerdeandoBack/internal/models"
	"github.com/LeandroDBechara/VerdeandoBack/internal/repo"
)

type NoticiaInput struct {
	Titulo    string  `json:"titulo"`
	Contenido string  `json:"contenido"`
	Imagen    *string `json:"imagen"`
}

func (s *Service) CrearNoticia(ctx context.Context, in NoticiaInput) (models.Noticia, error) {
	if in.Titulo == "" || in.Contenido == "" {
		return models.Noticia{}, apperr.BadRequest("Faltan datos obligatorios")
	}
	n, err := s.Noticias.CrearNoticia(ctx, models.Noticia{
		Titulo:    in.Titulo,
		Contenido: in.Contenido,
		Imagen:    in.Imagen,
		Fecha:     s.now(),
	})
	if err != nil {
		return models.Noticia{}, fmt.Errorf("crear noticia: %w", err)
	}
	return n, nil
}

func (s *Service) ListarNoticias(ctx context.Context) ([]models.Noticia, error) {
	return s.Noticias.Noticias(ctx)
}

func (s *Service) NoticiaPorID(ctx context.Context, id string) (models.Noticia, error) {
	n, err := s.Noticias.NoticiaPorID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return models.Noticia{}, apperr.NotFound("Noticia no encontrada")
		}
		return models.Noticia{}, fmt.Errorf("buscar noticia: %w", err)
	}
	return n, nil
}

func (s *Service) ActualizarNoticia(ctx context.Context, id string, in NoticiaInput) (models.Noticia, error) {
	n, err := s.NoticiaPorID(ctx, id)
	if err != nil {
		return models.Noticia{}, err
	}
	if in.Titulo != "" {
		n.Titulo = in.Titulo
	}
	if in.Contenido != "" {
		n.Contenido = in.Contenido
	}
	if in.Imagen != nil {
		if n.Imagen != nil && *n.Imagen != *in.Imagen {
			borrarImagen(ctx, s.Storage, BucketNoticias, n.Imagen)
		}
		n.Imagen = in.Imagen
	}
	if err := s.Noticias.ActualizarNoticia(ctx, n); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return models.Noticia{}, apperr.NotFound("Noticia no encontrada")
		}
		return models.Noticia{}, fmt.Errorf("actualizar noticia: %w", err)
	}
	return n, nil
}

func (s *Service) EliminarNoticia(ctx context.Context, id string) error {
	n, err := s.NoticiaPorID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Noticias.EliminarNoticia(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperr.NotFound("Noticia no encontrada")
		}
		return fmt.Errorf("eliminar noticia: %w", err)
	}
	borrarImagen(ctx, s.Storage, BucketNoticias, n.Imagen)
	return nil
}

// MarcarFavorita es idempotente; marcar dos veces no es un error.
func (s *Service) MarcarFavorita(ctx context.Context, noticiaID, usuarioID string) error {
	if _, err := s.NoticiaPorID(ctx, noticiaID); err != nil {
		return err
	}
	if err := s.Noticias.AgregarFavorito(ctx, noticiaID, usuarioID); err != nil {
		return fmt.Errorf("marcar favorita: %w", err)
	}
	return nil
}

func (s *Service) QuitarFavorita(ctx context.Context, noticiaID, usuarioID string) error {
	if err := s.Noticias.QuitarFavorito(ctx, noticiaID, usuarioID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperr.NotFound("La noticia no está en favoritos")
		}
		return fmt.Errorf("quitar favorita: %w", err)
	}
	return nil
}

func (s *Service) NoticiasFavoritas(ctx context.Context, usuarioID string) ([]models.Noticia, error) {
	if usuarioID == "" {
		return nil, apperr.BadRequest("El usuario es obligatorio")
	}
	return s.Noticias.FavoritasDeUsuario(ctx, usuarioID)
}

func (s *Service) RegistrarVista(ctx context.Context, noticiaID string) (int, error) {
	vistas, err := s.Noticias.SumarVista(ctx, noticiaID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return 0, apperr.NotFound("Noticia no encontrada")
		}
		return 0, fmt.Errorf("sumar vista: %w", err)
	}
	return vistas, nil
}
