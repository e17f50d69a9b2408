package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/LeandroDBechara/VerdeandoBack/internal/models"
)

func (r *Repo) CrearResiduo(ctx context.Context, res models.Residuo) (models.Residuo, error) {
	err := r.Pool.QueryRow(ctx,
		`INSERT INTO residuos (material, puntos_kg) VALUES ($1, $2) RETURNING id`,
		res.Material, res.PuntosKg).Scan(&res.ID)
	if isUniqueViolation(err) {
		return models.Residuo{}, ErrDuplicado
	}
	return res, err
}

func (r *Repo) ResiduoPorID(ctx context.Context, id string) (models.Residuo, error) {
	var res models.Residuo
	err := r.Pool.QueryRow(ctx,
		`SELECT id, material, puntos_kg FROM residuos WHERE id=$1`, id).
		Scan(&res.ID, &res.Material, &res.PuntosKg)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Residuo{}, ErrNotFound
	}
	return res, err
}

func (r *Repo) Residuos(ctx context.Context) ([]models.Residuo, error) {
	rows, err := r.Pool.Query(ctx, `SELECT id, material, puntos_kg FROM residuos ORDER BY material`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var residuos []models.Residuo
	for rows.Next() {
		var res models.Residuo
		if err := rows.Scan(&res.ID, &res.Material, &res.PuntosKg); err != nil {
			return nil, err
		}
		residuos = append(residuos, res)
	}
	return residuos, rows.Err()
}

func (r *Repo) ActualizarResiduo(ctx context.Context, res models.Residuo) error {
	tag, err := r.Pool.Exec(ctx,
		`UPDATE residuos SET material=$2, puntos_kg=$3 WHERE id=$1`,
		res.ID, res.Material, res.PuntosKg)
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

// EliminarResiduo borra el registro; el catálogo de residuos no usa soft delete.
func (r *Repo) EliminarResiduo(ctx context.Context, id string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM residuos WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
