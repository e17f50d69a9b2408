package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/LeandroDBechara/VerdeandoBack/internal/apperr"
	"github.com/LeandroDBechara/VerdeandoBack/internal/auth"
	"github.com/LeandroDBechara/VerdeandoBack/internal/models"
	"github.com/LeandroDBechara/VerdeandoBack/internal/repo"
)

type DetalleInput struct {
	ResiduoID  string  `json:"residuoId"`
	PesoGramos float64 `json:"pesoGramos"`
}

type CrearIntercambioInput struct {
	UsuarioID   string         `json:"usuarioId"`
	Detalles    []DetalleInput `json:"detalles"`
	CodigoCupon string         `json:"codigoCupon"`
}

// CrearIntercambio registra un intercambio pendiente con sus detalles, calcula
// los puntos y firma el token que el punto verde escaneará para confirmarlo.
func (s *Service) CrearIntercambio(ctx context.Context, in CrearIntercambioInput) (models.IntercambioDetallado, error) {
	if in.UsuarioID == "" {
		return models.IntercambioDetallado{}, apperr.BadRequest("El usuario es obligatorio")
	}
	if len(in.Detalles) == 0 {
		return models.IntercambioDetallado{}, apperr.BadRequest("El intercambio debe incluir al menos un residuo")
	}
	if _, err := s.UsuarioPorID(ctx, in.UsuarioID); err != nil {
		return models.IntercambioDetallado{}, err
	}

	var pesoTotal, puntosTotal float64
	detalles := make([]models.DetalleIntercambio, 0, len(in.Detalles))
	for _, d := range in.Detalles {
		if d.PesoGramos <= 0 {
			return models.IntercambioDetallado{}, apperr.BadRequest("El peso de cada residuo debe ser mayor a cero")
		}
		residuo, err := s.Residuos.ResiduoPorID(ctx, d.ResiduoID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				// Materiales desconocidos se ignoran sin avisar.
				continue
			}
			return models.IntercambioDetallado{}, fmt.Errorf("buscar residuo: %w", err)
		}
		puntos := residuo.PuntosKg * d.PesoGramos
		// TODO: pesoTotal acumula puntosKg en lugar de pesoGramos; el
		// backoffice ya muestra este valor, confirmar con producto antes
		// de corregirlo.
		pesoTotal += residuo.PuntosKg
		puntosTotal += puntos
		detalles = append(detalles, models.DetalleIntercambio{
			ResiduoID:   residuo.ID,
			PesoGramos:  d.PesoGramos,
			PuntosTotal: puntos,
		})
	}
	if len(detalles) == 0 {
		return models.IntercambioDetallado{}, apperr.BadRequest("Ninguno de los residuos indicados existe")
	}

	var eventoID *string
	if in.CodigoCupon != "" {
		evento, err := s.ValidarCodigo(ctx, in.CodigoCupon)
		if err != nil {
			return models.IntercambioDetallado{}, err
		}
		puntosTotal *= evento.Multiplicador
		eventoID = &evento.ID
	}

	ahora := s.now()
	creado, err := s.Intercambios.CrearIntercambio(ctx, models.Intercambio{
		UsuarioID:   in.UsuarioID,
		EventoID:    eventoID,
		PesoTotal:   pesoTotal,
		TotalPuntos: puntosTotal,
		Estado:      models.EstadoPendiente,
		Fecha:       ahora,
		FechaLimite: ahora.Add(auth.IntercambioTokenTTL),
	}, detalles)
	if err != nil {
		return models.IntercambioDetallado{}, fmt.Errorf("crear intercambio: %w", err)
	}

	token, err := s.Auth.GenerateIntercambioToken(creado.ID)
	if err != nil {
		return models.IntercambioDetallado{}, fmt.Errorf("firmar token de intercambio: %w", err)
	}
	if err := s.Intercambios.GuardarTokenIntercambio(ctx, creado.ID, token); err != nil {
		return models.IntercambioDetallado{}, fmt.Errorf("guardar token: %w", err)
	}
	return s.IntercambioPorID(ctx, creado.ID)
}

// ConfirmarIntercambio valida el token escaneado y acredita los puntos al
// usuario. La actualización del estado y del saldo ocurre en una única
// transacción, de modo que dos confirmaciones concurrentes no acreditan dos
// veces.
func (s *Service) ConfirmarIntercambio(ctx context.Context, token, colaboradorID, puntoVerdeID string) (models.IntercambioDetallado, error) {
	if token == "" || colaboradorID == "" || puntoVerdeID == "" {
		return models.IntercambioDetallado{}, apperr.BadRequest("Faltan datos obligatorios")
	}
	claims, err := s.Auth.ParseIntercambioToken(token)
	if err != nil {
		return models.IntercambioDetallado{}, apperr.Unauthorized("El token no es válido o ha expirado")
	}

	intercambio, err := s.Intercambios.IntercambioPorID(ctx, claims.IntercambioID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return models.IntercambioDetallado{}, apperr.NotFound("Intercambio no encontrado")
		}
		return models.IntercambioDetallado{}, fmt.Errorf("buscar intercambio: %w", err)
	}
	switch intercambio.Estado {
	case models.EstadoRealizado:
		return models.IntercambioDetallado{}, apperr.Conflict("El intercambio ya fue realizado")
	case models.EstadoCancelado:
		return models.IntercambioDetallado{}, apperr.Conflict("El intercambio fue cancelado")
	}

	pv, err := s.PuntosVerdes.PuntoVerdePorID(ctx, puntoVerdeID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return models.IntercambioDetallado{}, apperr.NotFound("Punto verde no encontrado")
		}
		return models.IntercambioDetallado{}, fmt.Errorf("buscar punto verde: %w", err)
	}
	if pv.ColaboradorID != colaboradorID {
		return models.IntercambioDetallado{}, apperr.NotFound("El punto verde no pertenece al colaborador")
	}

	if intercambio.EventoID != nil {
		evento, err := s.Eventos.EventoPorID(ctx, *intercambio.EventoID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return models.IntercambioDetallado{}, apperr.NotFound("Evento no encontrado")
			}
			return models.IntercambioDetallado{}, fmt.Errorf("buscar evento: %w", err)
		}
		// La lista de permitidos solo se exige cuando tiene más de una
		// entrada; con una sola entrada cualquier punto verde confirma.
		if len(evento.PuntosVerdesPermitidos) > 1 &&
			!slices.Contains(evento.PuntosVerdesPermitidos, puntoVerdeID) {
			return models.IntercambioDetallado{}, apperr.BadRequest("El punto verde no participa del evento")
		}
		ahora := s.now()
		if ahora.After(evento.FechaFin) {
			return models.IntercambioDetallado{}, apperr.BadRequest("El evento ha finalizado")
		}
		if ahora.Before(evento.FechaInicio) {
			return models.IntercambioDetallado{}, apperr.BadRequest("El evento no ha comenzado")
		}
	}

	err = s.Intercambios.ConfirmarIntercambio(ctx, intercambio.ID, colaboradorID, puntoVerdeID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			// Otra confirmación ganó la carrera.
			return models.IntercambioDetallado{}, apperr.Conflict("El intercambio ya fue realizado")
		}
		return models.IntercambioDetallado{}, fmt.Errorf("confirmar intercambio: %w", err)
	}
	return s.IntercambioPorID(ctx, intercambio.ID)
}

func (s *Service) CancelarIntercambio(ctx context.Context, id string) error {
	if err := s.Intercambios.CancelarIntercambio(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperr.NotFound("Intercambio no encontrado o ya resuelto")
		}
		return fmt.Errorf("cancelar intercambio: %w", err)
	}
	return nil
}

func (s *Service) IntercambioPorID(ctx context.Context, id string) (models.IntercambioDetallado, error) {
	in, err := s.Intercambios.IntercambioDetalladoPorID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return models.IntercambioDetallado{}, apperr.NotFound("Intercambio no encontrado")
		}
		return models.IntercambioDetallado{}, fmt.Errorf("buscar intercambio: %w", err)
	}
	return in, nil
}

// IntercambiosPorUsuario expira primero los intercambios vencidos del usuario
// para que el listado nunca muestre pendientes fuera de fecha.
func (s *Service) IntercambiosPorUsuario(ctx context.Context, usuarioID string) ([]models.IntercambioDetallado, error) {
	if usuarioID == "" {
		return nil, apperr.BadRequest("El usuario es obligatorio")
	}
	if err := s.Intercambios.ExpirarVencidosDeUsuario(ctx, usuarioID); err != nil {
		return nil, fmt.Errorf("expirar vencidos: %w", err)
	}
	lista, err := s.Intercambios.IntercambiosPorUsuario(ctx, usuarioID)
	if err != nil {
		return nil, fmt.Errorf("listar intercambios: %w", err)
	}
	if len(lista) == 0 {
		return nil, apperr.NotFound("El usuario no tiene intercambios")
	}
	return lista, nil
}

func (s *Service) ListarIntercambios(ctx context.Context) ([]models.IntercambioDetallado, error) {
	if _, err := s.Intercambios.ExpirarVencidos(ctx); err != nil {
		return nil, fmt.Errorf("expirar vencidos: %w", err)
	}
	lista, err := s.Intercambios.Intercambios(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar intercambios: %w", err)
	}
	return lista, nil
}

func (s *Service) EliminarIntercambio(ctx context.Context, id string) error {
	if err := s.Intercambios.EliminarIntercambio(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperr.NotFound("Intercambio no encontrado")
		}
		return fmt.Errorf("eliminar intercambio: %w", err)
	}
	return nil
}

// BarrerVencidos marca como expirados todos los intercambios pendientes cuya
// fecha límite ya pasó. Lo invoca la tarea programada de medianoche.
func (s *Service) BarrerVencidos(ctx context.Context) (int64, error) {
	return s.Intercambios.ExpirarVencidos(ctx)
}
