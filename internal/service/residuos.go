package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/LeandroDBechara/VerdeandoBack/internal/apperr"
	"github.com/LeandroDBechara/VerdeandoBack/internal/models"
	"github.com/LeandroDBechara/VerdeandoBack/internal/repo"
)

type ResiduoInput struct {
	Material string   `json:"material"`
	PuntosKg *float64 `json:"puntosKg"`
}

func (s *Service) CrearResiduo(ctx context.Context, in ResiduoInput) (models.Residuo, error) {
	if in.Material == "" || in.PuntosKg == nil {
		return models.Residuo{}, apperr.BadRequest("Faltan datos obligatorios")
	}
	if *in.PuntosKg <= 0 {
		return models.Residuo{}, apperr.BadRequest("Los puntos por kilogramo deben ser mayores a cero")
	}
	r, err := s.Residuos.CrearResiduo(ctx, models.Residuo{
		Material: in.Material,
		PuntosKg: *in.PuntosKg,
	})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicado) {
			return models.Residuo{}, apperr.Conflict("El material ya existe")
		}
		return models.Residuo{}, fmt.Errorf("crear residuo: %w", err)
	}
	return r, nil
}

func (s *Service) ListarResiduos(ctx context.Context) ([]models.Residuo, error) {
	return s.Residuos.Residuos(ctx)
}

func (s *Service) ResiduoPorID(ctx context.Context, id string) (models.Residuo, error) {
	r, err := s.Residuos.ResiduoPorID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return models.Residuo{}, apperr.NotFound("Residuo no encontrado")
		}
		return models.Residuo{}, fmt.Errorf("buscar residuo: %w", err)
	}
	return r, nil
}

func (s *Service) ActualizarResiduo(ctx context.Context, id string, in ResiduoInput) (models.Residuo, error) {
	r, err := s.ResiduoPorID(ctx, id)
	if err != nil {
		return models.Residuo{}, err
	}
	if in.Material != "" {
		r.Material = in.Material
	}
	if in.PuntosKg != nil {
		if *in.PuntosKg <= 0 {
			return models.Residuo{}, apperr.BadRequest("Los puntos por kilogramo deben ser mayores a cero")
		}
		r.PuntosKg = *in.PuntosKg
	}
	if err := s.Residuos.ActualizarResiduo(ctx, r); err != nil {
		if errors.Is(err, repo.ErrDuplicado) {
			return models.Residuo{}, apperr.Conflict("El material ya existe")
		}
		if errors.Is(err, repo.ErrNotFound) {
			return models.Residuo{}, apperr.NotFound("Residuo no encontrado")
		}
		return models.Residuo{}, fmt.Errorf("actualizar residuo: %w", err)
	}
	return r, nil
}

func (s *Service) EliminarResiduo(ctx context.Context, id string) error {
	if err := s.Residuos.EliminarResiduo(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperr.NotFound("Residuo no encontrado")
		}
		return fmt.Errorf("eliminar residuo: %w", err)
	}
	return nil
}
