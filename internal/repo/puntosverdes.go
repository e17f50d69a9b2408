package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/LeandroDBechara/VerdeandoBack/internal/models"
)

const puntoVerdeColumns = `id, colaborador_id, nombre, direccion, latitud, longitud,
	dias_atencion, horario, residuos_aceptados, imagen, created_at, updated_at`

func scanPuntoVerde(row pgx.Row) (models.PuntoVerde, error) {
	var pv models.PuntoVerde
	err := row.Scan(&pv.ID, &pv.ColaboradorID, &pv.Nombre, &pv.Direccion, &pv.Latitud, &pv.Longitud,
		&pv.DiasAtencion, &pv.Horario, &pv.ResiduosAceptados, &pv.Imagen, &pv.CreatedAt, &pv.UpdatedAt)
	return pv, err
}

func (r *Repo) CrearPuntoVerde(ctx context.Context, pv models.PuntoVerde) (models.PuntoVerde, error) {
	err := r.Pool.QueryRow(ctx, `
		INSERT INTO puntos_verdes (colaborador_id, nombre, direccion, latitud, longitud, dias_atencion, horario, residuos_aceptados, imagen)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`,
		pv.ColaboradorID, pv.Nombre, pv.Direccion, pv.Latitud, pv.Longitud,
		pv.DiasAtencion, pv.Horario, pv.ResiduosAceptados, pv.Imagen).
		Scan(&pv.ID, &pv.CreatedAt, &pv.UpdatedAt)
	return pv, err
}

func (r *Repo) PuntoVerdePorID(ctx context.Context, id string) (models.PuntoVerde, error) {
	row := r.Pool.QueryRow(ctx,
		`SELECT `+puntoVerdeColumns+` FROM puntos_verdes WHERE id=$1 AND is_deleted = false`, id)
	pv, err := scanPuntoVerde(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.PuntoVerde{}, ErrNotFound
	}
	return pv, err
}

func (r *Repo) PuntosVerdes(ctx context.Context) ([]models.PuntoVerde, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT `+puntoVerdeColumns+` FROM puntos_verdes WHERE is_deleted = false ORDER BY nombre`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var puntos []models.PuntoVerde
	for rows.Next() {
		pv, err := scanPuntoVerde(rows)
		if err != nil {
			return nil, err
		}
		puntos = append(puntos, pv)
	}
	return puntos, rows.Err()
}

// PuntosVerdesExistentes devuelve, de los ids recibidos, los que refieren a
// puntos verdes vivos. Se usa al validar la allow-list de un evento.
func (r *Repo) PuntosVerdesExistentes(ctx context.Context, ids []string) ([]string, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT id FROM puntos_verdes WHERE id = ANY($1) AND is_deleted = false`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var existentes []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		existentes = append(existentes, id)
	}
	return existentes, rows.Err()
}

func (r *Repo) ActualizarPuntoVerde(ctx context.Context, pv models.PuntoVerde) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE puntos_verdes
		SET nombre=$3, direccion=$4, latitud=$5, longitud=$6, dias_atencion=$7, horario=$8,
		    residuos_aceptados=$9, imagen=$10, updated_at=now()
		WHERE id=$1 AND colaborador_id=$2 AND is_deleted = false`,
		pv.ID, pv.ColaboradorID, pv.Nombre, pv.Direccion, pv.Latitud, pv.Longitud,
		pv.DiasAtencion, pv.Horario, pv.ResiduosAceptados, pv.Imagen)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) EliminarPuntoVerde(ctx context.Context, id, colaboradorID string) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE puntos_verdes SET is_deleted=true, updated_at=now()
		WHERE id=$1 AND colaborador_id=$2 AND is_deleted = false`, id, colaboradorID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
