package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/LeandroDBechara/VerdeandoBack/internal/apperr"
	"github.com/LeandroDBechara/VerdeandoBack/internal/models"
	"github.com/LeandroDBechara/VerdeandoBack/internal/repo"
)

const longitudCodigoEvento = 8

type EventoInput struct {
	Titulo                 string   `json:"titulo"`
	Descripcion            string   `json:"descripcion"`
	Imagen                 *string  `json:"imagen"`
	FechaInicio            string   `json:"fechaInicio"`
	FechaFin               string   `json:"fechaFin"`
	Codigo                 *string  `json:"codigo"`
	Multiplicador          *float64 `json:"multiplicador"`
	PuntosVerdesPermitidos []string `json:"puntosVerdesPermitidos"`
}

func (s *Service) CrearEvento(ctx context.Context, in EventoInput) (models.Evento, error) {
	if in.Titulo == "" || in.Descripcion == "" {
		return models.Evento{}, apperr.BadRequest("Faltan datos obligatorios")
	}
	inicio, err := parseFecha(in.FechaInicio)
	if err != nil {
		return models.Evento{}, apperr.BadRequest("La fecha de inicio no es válida")
	}
	fin, err := parseFecha(in.FechaFin)
	if err != nil {
		return models.Evento{}, apperr.BadRequest("La fecha de fin no es válida")
	}
	if !fin.After(inicio) {
		return models.Evento{}, apperr.BadRequest("La fecha de fin debe ser posterior a la de inicio")
	}
	if inicio.Before(s.now()) {
		return models.Evento{}, apperr.BadRequest("El evento no puede comenzar en el pasado")
	}
	if in.Codigo != nil && len(*in.Codigo) != longitudCodigoEvento {
		return models.Evento{}, apperr.BadRequest("El código debe tener 8 caracteres")
	}

	multiplicador := 1.0
	if in.Multiplicador != nil {
		if *in.Multiplicador <= 0 {
			return models.Evento{}, apperr.BadRequest("El multiplicador debe ser mayor a cero")
		}
		multiplicador = *in.Multiplicador
	}

	permitidos, err := s.filtrarPuntosExistentes(ctx, in.PuntosVerdesPermitidos)
	if err != nil {
		return models.Evento{}, err
	}

	e, err := s.Eventos.CrearEvento(ctx, models.Evento{
		Titulo:                 in.Titulo,
		Descripcion:            in.Descripcion,
		Imagen:                 in.Imagen,
		FechaInicio:            inicio,
		FechaFin:               fin,
		Codigo:                 in.Codigo,
		Multiplicador:          multiplicador,
		PuntosVerdesPermitidos: permitidos,
	})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicado) {
			return models.Evento{}, apperr.Conflict("El código de evento ya existe")
		}
		return models.Evento{}, fmt.Errorf("crear evento: %w", err)
	}
	return e, nil
}

// filtrarPuntosExistentes descarta en silencio los ids que no corresponden a
// ningún punto verde.
func (s *Service) filtrarPuntosExistentes(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	existentes, err := s.PuntosVerdes.PuntosVerdesExistentes(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("validar puntos verdes: %w", err)
	}
	return existentes, nil
}

func (s *Service) ListarEventos(ctx context.Context) ([]models.Evento, error) {
	return s.Eventos.Eventos(ctx)
}

func (s *Service) EventoPorID(ctx context.Context, id string) (models.Evento, error) {
	e, err := s.Eventos.EventoPorID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return models.Evento{}, apperr.NotFound("Evento no encontrado")
		}
		return models.Evento{}, fmt.Errorf("buscar evento: %w", err)
	}
	return e, nil
}

func (s *Service) ActualizarEvento(ctx context.Context, id string, in EventoInput) (models.Evento, error) {
	e, err := s.EventoPorID(ctx, id)
	if err != nil {
		return models.Evento{}, err
	}
	if in.Titulo != "" {
		e.Titulo = in.Titulo
	}
	if in.Descripcion != "" {
		e.Descripcion = in.Descripcion
	}
	if in.Imagen != nil {
		if e.Imagen != nil && *e.Imagen != *in.Imagen {
			borrarImagen(ctx, s.Storage, BucketEventos, e.Imagen)
		}
		e.Imagen = in.Imagen
	}
	if in.FechaInicio != "" {
		inicio, err := parseFecha(in.FechaInicio)
		if err != nil {
			return models.Evento{}, apperr.BadRequest("La fecha de inicio no es válida")
		}
		e.FechaInicio = inicio
	}
	if in.FechaFin != "" {
		fin, err := parseFecha(in.FechaFin)
		if err != nil {
			return models.Evento{}, apperr.BadRequest("La fecha de fin no es válida")
		}
		e.FechaFin = fin
	}
	if !e.FechaFin.After(e.FechaInicio) {
		return models.Evento{}, apperr.BadRequest("La fecha de fin debe ser posterior a la de inicio")
	}
	if in.Codigo != nil {
		if len(*in.Codigo) != longitudCodigoEvento {
			return models.Evento{}, apperr.BadRequest("El código debe tener 8 caracteres")
		}
		e.Codigo = in.Codigo
	}
	if in.Multiplicador != nil {
		if *in.Multiplicador <= 0 {
			return models.Evento{}, apperr.BadRequest("El multiplicador debe ser mayor a cero")
		}
		e.Multiplicador = *in.Multiplicador
	}
	if in.PuntosVerdesPermitidos != nil {
		permitidos, err := s.filtrarPuntosExistentes(ctx, in.PuntosVerdesPermitidos)
		if err != nil {
			return models.Evento{}, err
		}
		e.PuntosVerdesPermitidos = permitidos
	}
	if err := s.Eventos.ActualizarEvento(ctx, e); err != nil {
		if errors.Is(err, repo.ErrDuplicado) {
			return models.Evento{}, apperr.Conflict("El código de evento ya existe")
		}
		if errors.Is(err, repo.ErrNotFound) {
			return models.Evento{}, apperr.NotFound("Evento no encontrado")
		}
		return models.Evento{}, fmt.Errorf("actualizar evento: %w", err)
	}
	return e, nil
}

func (s *Service) EliminarEvento(ctx context.Context, id string) error {
	e, err := s.EventoPorID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Eventos.EliminarEvento(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperr.NotFound("Evento no encontrado")
		}
		return fmt.Errorf("eliminar evento: %w", err)
	}
	borrarImagen(ctx, s.Storage, BucketEventos, e.Imagen)
	return nil
}

// ValidarCodigo resuelve un cupón de evento y verifica que el evento esté en
// curso. Los límites de la ventana son inclusivos.
func (s *Service) ValidarCodigo(ctx context.Context, codigo string) (models.Evento, error) {
	if codigo == "" {
		return models.Evento{}, apperr.BadRequest("El código es obligatorio")
	}
	if len(codigo) != longitudCodigoEvento {
		return models.Evento{}, apperr.BadRequest("El código debe tener 8 caracteres")
	}
	e, err := s.Eventos.EventoPorCodigo(ctx, codigo)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return models.Evento{}, apperr.NotFound("Código de evento no encontrado")
		}
		return models.Evento{}, fmt.Errorf("buscar evento: %w", err)
	}
	ahora := s.now()
	if ahora.After(e.FechaFin) {
		return models.Evento{}, apperr.BadRequest("El evento ha finalizado")
	}
	if ahora.Before(e.FechaInicio) {
		return models.Evento{}, apperr.BadRequest("El evento no ha comenzado")
	}
	return e, nil
}
