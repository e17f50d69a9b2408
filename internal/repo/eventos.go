package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/LeandroDBechara/VerdeandoBack/internal/models"
)

const eventoColumns = `id, titulo, descripcion, imagen, fecha_inicio, fecha_fin, codigo,
	multiplicador, puntos_verdes_permitidos, created_at, updated_at`

func scanEvento(row pgx.Row) (models.Evento, error) {
	var e models.Evento
	err := row.Scan(&e.ID, &e.Titulo, &e.Descripcion, &e.Imagen, &e.FechaInicio, &e.FechaFin,
		&e.Codigo, &e.Multiplicador, &e.PuntosVerdesPermitidos, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func (r *Repo) CrearEvento(ctx context.Context, e models.Evento) (models.Evento, error) {
	err := r.Pool.QueryRow(ctx, `
		INSERT INTO eventos (titulo, descripcion, imagen, fecha_inicio, fecha_fin, codigo, multiplicador, puntos_verdes_permitidos)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`,
		e.Titulo, e.Descripcion, e.Imagen, e.FechaInicio, e.FechaFin, e.Codigo,
		e.Multiplicador, e.PuntosVerdesPermitidos).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if isUniqueViolation(err) {
		return models.Evento{}, ErrDuplicado
	}
	return e, err
}

func (r *Repo) EventoPorID(ctx context.Context, id string) (models.Evento, error) {
	row := r.Pool.QueryRow(ctx,
		`SELECT `+eventoColumns+` FROM eventos WHERE id=$1 AND is_deleted = false`, id)
	e, err := scanEvento(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Evento{}, ErrNotFound
	}
	return e, err
}

func (r *Repo) EventoPorCodigo(ctx context.Context, codigo string) (models.Evento, error) {
	row := r.Pool.QueryRow(ctx,
		`SELECT `+eventoColumns+` FROM eventos WHERE codigo=$1 AND is_deleted = false`, codigo)
	e, err := scanEvento(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Evento{}, ErrNotFound
	}
	return e, err
}

// Eventos lista solo campañas vigentes o futuras; las terminadas quedan fuera
// de la cartelera.
func (r *Repo) Eventos(ctx context.Context) ([]models.Evento, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT `+eventoColumns+` FROM eventos WHERE fecha_fin >= now() AND is_deleted = false ORDER BY fecha_inicio`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var eventos []models.Evento
	for rows.Next() {
		e, err := scanEvento(rows)
		if err != nil {
			return nil, err
		}
		eventos = append(eventos, e)
	}
	return eventos, rows.Err()
}

func (r *Repo) ActualizarEvento(ctx context.Context, e models.Evento) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE eventos
		SET titulo=$2, descripcion=$3, imagen=$4, fecha_inicio=$5, fecha_fin=$6, codigo=$7,
		    multiplicador=$8, puntos_verdes_permitidos=$9, updated_at=now()
		WHERE id=$1 AND is_deleted = false`,
		e.ID, e.Titulo, e.Descripcion, e.Imagen, e.FechaInicio, e.FechaFin, e.Codigo,
		e.Multiplicador, e.PuntosVerdesPermitidos)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicado
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) EliminarEvento(ctx context.Context, id string) error {
	tag, err := r.Pool.Exec(ctx,
		`UPDATE eventos SET is_deleted=true, updated_at=now() WHERE id=$1 AND is_deleted = false`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
