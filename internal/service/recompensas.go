package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/LeandroDBechara/VerdeandoBack/internal/apperr"
	"github.com/LeandroDBechara/VerdeandoBack/internal/models"
	"github.com/LeandroDBechara/VerdeandoBack/internal/repo"
)

type RecompensaInput struct {
	Nombre      string   `json:"nombre"`
	Descripcion string   `json:"descripcion"`
	Puntos      *float64 `json:"puntos"`
	Cantidad    *int     `json:"cantidad"`
	Foto        *string  `json:"foto"`
}

func (s *Service) CrearRecompensa(ctx context.Context, in RecompensaInput) (models.Recompensa, error) {
	if in.Nombre == "" || in.Descripcion == "" || in.Puntos == nil || in.Cantidad == nil {
		return models.Recompensa{}, apperr.BadRequest("Faltan datos obligatorios")
	}
	if *in.Puntos <= 0 {
		return models.Recompensa{}, apperr.BadRequest("Los puntos deben ser mayores a cero")
	}
	if *in.Cantidad < 0 {
		return models.Recompensa{}, apperr.BadRequest("La cantidad no puede ser negativa")
	}
	r, err := s.Recompensas.CrearRecompensa(ctx, models.Recompensa{
		Nombre:      in.Nombre,
		Descripcion: in.Descripcion,
		Puntos:      *in.Puntos,
		Cantidad:    *in.Cantidad,
		Foto:        in.Foto,
	})
	if err != nil {
		return models.Recompensa{}, fmt.Errorf("crear recompensa: %w", err)
	}
	return r, nil
}

// ListarRecompensas devuelve solo recompensas con stock disponible.
func (s *Service) ListarRecompensas(ctx context.Context) ([]models.Recompensa, error) {
	return s.Recompensas.Recompensas(ctx)
}

func (s *Service) RecompensaPorID(ctx context.Context, id string) (models.Recompensa, error) {
	r, err := s.Recompensas.RecompensaPorID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return models.Recompensa{}, apperr.NotFound("Recompensa no encontrada")
		}
		return models.Recompensa{}, fmt.Errorf("buscar recompensa: %w", err)
	}
	return r, nil
}

func (s *Service) ActualizarRecompensa(ctx context.Context, id string, in RecompensaInput) (models.Recompensa, error) {
	r, err := s.RecompensaPorID(ctx, id)
	if err != nil {
		return models.Recompensa{}, err
	}
	if in.Nombre != "" {
		r.Nombre = in.Nombre
	}
	if in.Descripcion != "" {
		r.Descripcion = in.Descripcion
	}
	if in.Puntos != nil {
		if *in.Puntos <= 0 {
			return models.Recompensa{}, apperr.BadRequest("Los puntos deben ser mayores a cero")
		}
		r.Puntos = *in.Puntos
	}
	if in.Cantidad != nil {
		if *in.Cantidad < 0 {
			return models.Recompensa{}, apperr.BadRequest("La cantidad no puede ser negativa")
		}
		r.Cantidad = *in.Cantidad
	}
	if in.Foto != nil {
		if r.Foto != nil && *r.Foto != *in.Foto {
			borrarImagen(ctx, s.Storage, BucketRecompensas, r.Foto)
		}
		r.Foto = in.Foto
	}
	if err := s.Recompensas.ActualizarRecompensa(ctx, r); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return models.Recompensa{}, apperr.NotFound("Recompensa no encontrada")
		}
		return models.Recompensa{}, fmt.Errorf("actualizar recompensa: %w", err)
	}
	return r, nil
}

func (s *Service) EliminarRecompensa(ctx context.Context, id string) error {
	r, err := s.RecompensaPorID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Recompensas.EliminarRecompensa(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperr.NotFound("Recompensa no encontrada")
		}
		return fmt.Errorf("eliminar recompensa: %w", err)
	}
	borrarImagen(ctx, s.Storage, BucketRecompensas, r.Foto)
	return nil
}

// CrearCanje descuenta el stock de la recompensa y los puntos del usuario en
// una única transacción. Las precondiciones se revisan antes para dar mensajes
// claros, pero la transacción vuelve a verificarlas con predicados atómicos.
func (s *Service) CrearCanje(ctx context.Context, recompensaID, usuarioID string) (models.Canje, error) {
	if recompensaID == "" || usuarioID == "" {
		return models.Canje{}, apperr.BadRequest("Faltan datos obligatorios")
	}
	r, err := s.RecompensaPorID(ctx, recompensaID)
	if err != nil {
		return models.Canje{}, err
	}
	u, err := s.UsuarioPorID(ctx, usuarioID)
	if err != nil {
		return models.Canje{}, err
	}
	if r.Cantidad <= 0 {
		return models.Canje{}, apperr.BadRequest("No hay stock de la recompensa")
	}
	if u.Puntos < r.Puntos {
		return models.Canje{}, apperr.BadRequest("El usuario no tiene puntos suficientes")
	}

	c, err := s.Recompensas.CrearCanje(ctx, recompensaID, usuarioID, r.Puntos)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrSinStock):
			return models.Canje{}, apperr.Conflict("No hay stock de la recompensa")
		case errors.Is(err, repo.ErrPuntosInsuficientes):
			return models.Canje{}, apperr.Conflict("El usuario no tiene puntos suficientes")
		case errors.Is(err, repo.ErrNotFound):
			return models.Canje{}, apperr.NotFound("Recompensa no encontrada")
		}
		return models.Canje{}, fmt.Errorf("crear canje: %w", err)
	}
	c.Recompensa = &r
	return c, nil
}

func (s *Service) CanjesPorUsuario(ctx context.Context, usuarioID string) ([]models.Canje, error) {
	if usuarioID == "" {
		return nil, apperr.BadRequest("El usuario es obligatorio")
	}
	return s.Recompensas.CanjesPorUsuario(ctx, usuarioID)
}
