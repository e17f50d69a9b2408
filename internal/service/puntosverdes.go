package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/LeandroDBechara/VerdeandoBack/internal/apperr"
	"github.com/LeandroDBechara/VerdeandoBack/internal/models"
	"github.com/LeandroDBechara/VerdeandoBack/internal/repo"
)

type PuntoVerdeInput struct {
	ColaboradorID     string   `json:"colaboradorId"`
	Nombre            string   `json:"nombre"`
	Direccion         string   `json:"direccion"`
	Latitud           float64  `json:"latitud"`
	Longitud          float64  `json:"longitud"`
	DiasAtencion      *string  `json:"diasAtencion"`
	Horario           *string  `json:"horario"`
	ResiduosAceptados []string `json:"residuosAceptados"`
	Imagen            *string  `json:"imagen"`
}

func (s *Service) CrearPuntoVerde(ctx context.Context, in PuntoVerdeInput) (models.PuntoVerde, error) {
	if in.ColaboradorID == "" || in.Nombre == "" || in.Direccion == "" {
		return models.PuntoVerde{}, apperr.BadRequest("Faltan datos obligatorios")
	}
	if _, err := s.Usuarios.ColaboradorPorID(ctx, in.ColaboradorID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return models.PuntoVerde{}, apperr.NotFound("Colaborador no encontrado")
		}
		return models.PuntoVerde{}, fmt.Errorf("buscar colaborador: %w", err)
	}
	pv, err := s.PuntosVerdes.CrearPuntoVerde(ctx, models.PuntoVerde{
		ColaboradorID:     in.ColaboradorID,
		Nombre:            in.Nombre,
		Direccion:         in.Direccion,
		Latitud:           in.Latitud,
		Longitud:          in.Longitud,
		DiasAtencion:      in.DiasAtencion,
		Horario:           in.Horario,
		ResiduosAceptados: in.ResiduosAceptados,
		Imagen:            in.Imagen,
	})
	if err != nil {
		return models.PuntoVerde{}, fmt.Errorf("crear punto verde: %w", err)
	}
	return pv, nil
}

func (s *Service) ListarPuntosVerdes(ctx context.Context) ([]models.PuntoVerde, error) {
	return s.PuntosVerdes.PuntosVerdes(ctx)
}

func (s *Service) PuntoVerdePorID(ctx context.Context, id string) (models.PuntoVerde, error) {
	pv, err := s.PuntosVerdes.PuntoVerdePorID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return models.PuntoVerde{}, apperr.NotFound("Punto verde no encontrado")
		}
		return models.PuntoVerde{}, fmt.Errorf("buscar punto verde: %w", err)
	}
	return pv, nil
}

// ActualizarPuntoVerde solo permite cambios al colaborador dueño del punto.
func (s *Service) ActualizarPuntoVerde(ctx context.Context, id, colaboradorID string, in PuntoVerdeInput) (models.PuntoVerde, error) {
	pv, err := s.PuntoVerdePorID(ctx, id)
	if err != nil {
		return models.PuntoVerde{}, err
	}
	if pv.ColaboradorID != colaboradorID {
		return models.PuntoVerde{}, apperr.NotFound("El punto verde no pertenece al colaborador")
	}
	if in.Nombre != "" {
		pv.Nombre = in.Nombre
	}
	if in.Direccion != "" {
		pv.Direccion = in.Direccion
	}
	if in.Latitud != 0 {
		pv.Latitud = in.Latitud
	}
	if in.Longitud != 0 {
		pv.Longitud = in.Longitud
	}
	if in.DiasAtencion != nil {
		pv.DiasAtencion = in.DiasAtencion
	}
	if in.Horario != nil {
		pv.Horario = in.Horario
	}
	if in.ResiduosAceptados != nil {
		pv.ResiduosAceptados = in.ResiduosAceptados
	}
	if in.Imagen != nil {
		if pv.Imagen != nil && *pv.Imagen != *in.Imagen {
			borrarImagen(ctx, s.Storage, BucketPuntos, pv.Imagen)
		}
		pv.Imagen = in.Imagen
	}
	if err := s.PuntosVerdes.ActualizarPuntoVerde(ctx, pv); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return models.PuntoVerde{}, apperr.NotFound("El punto verde no pertenece al colaborador")
		}
		return models.PuntoVerde{}, fmt.Errorf("actualizar punto verde: %w", err)
	}
	return pv, nil
}

func (s *Service) EliminarPuntoVerde(ctx context.Context, id, colaboradorID string) error {
	pv, err := s.PuntoVerdePorID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.PuntosVerdes.EliminarPuntoVerde(ctx, id, colaboradorID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperr.NotFound("El punto verde no pertenece al colaborador")
		}
		return fmt.Errorf("eliminar punto verde: %w", err)
	}
	borrarImagen(ctx, s.Storage, BucketPuntos, pv.Imagen)
	return nil
}
