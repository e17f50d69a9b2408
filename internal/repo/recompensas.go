package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/LeandroDBechara/VerdeandoBack/internal/models"
)

const recompensaColumns = `id, nombre, descripcion, puntos, cantidad, foto, created_at, updated_at`

func scanRecompensa(row pgx.Row) (models.Recompensa, error) {
	var rec models.Recompensa
	err := row.Scan(&rec.ID, &rec.Nombre, &rec.Descripcion, &rec.Puntos, &rec.Cantidad,
		&rec.Foto, &rec.CreatedAt, &rec.UpdatedAt)
	return rec, err
}

func (r *Repo) CrearRecompensa(ctx context.Context, rec models.Recompensa) (models.Recompensa, error) {
	err := r.Pool.QueryRow(ctx, `
		INSERT INTO recompensas (nombre, descripcion, puntos, cantidad, foto)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		rec.Nombre, rec.Descripcion, rec.Puntos, rec.Cantidad, rec.Foto).
		Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	return rec, err
}

func (r *Repo) RecompensaPorID(ctx context.Context, id string) (models.Recompensa, error) {
	row := r.Pool.QueryRow(ctx,
		`SELECT `+recompensaColumns+` FROM recompensas WHERE id=$1 AND is_deleted = false`, id)
	rec, err := scanRecompensa(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Recompensa{}, ErrNotFound
	}
	return rec, err
}

// Recompensas devuelve solo el catálogo canjeable: con stock y no borradas.
func (r *Repo) Recompensas(ctx context.Context) ([]models.Recompensa, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT `+recompensaColumns+` FROM recompensas WHERE is_deleted = false AND cantidad > 0 ORDER BY puntos`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recompensas []models.Recompensa
	for rows.Next() {
		rec, err := scanRecompensa(rows)
		if err != nil {
			return nil, err
		}
		recompensas = append(recompensas, rec)
	}
	return recompensas, rows.Err()
}

func (r *Repo) ActualizarRecompensa(ctx context.Context, rec models.Recompensa) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE recompensas SET nombre=$2, descripcion=$3, puntos=$4, cantidad=$5, foto=$6, updated_at=now()
		WHERE id=$1 AND is_deleted = false`,
		rec.ID, rec.Nombre, rec.Descripcion, rec.Puntos, rec.Cantidad, rec.Foto)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// EliminarRecompensa borra la fila; las recompensas no usan soft delete.
func (r *Repo) EliminarRecompensa(ctx context.Context, id string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM recompensas WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CrearCanje registra el canje y descuenta stock y puntos en una única
// transacción. Los predicados cantidad > 0 y puntos >= costo garantizan que
// ninguno de los dos saldos quede negativo bajo concurrencia.
func (r *Repo) CrearCanje(ctx context.Context, recompensaID, usuarioID string, costo float64) (models.Canje, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return models.Canje{}, err
	}
	defer tx.Rollback(ctx)

	var canje models.Canje
	canje.RecompensaID = recompensaID
	canje.UsuarioID = usuarioID
	err = tx.QueryRow(ctx, `
		INSERT INTO canjes (recompensa_id, usuario_id) VALUES ($1, $2)
		RETURNING id, fecha`, recompensaID, usuarioID).Scan(&canje.ID, &canje.Fecha)
	if err != nil {
		return models.Canje{}, err
	}

	var cantidad int
	err = tx.QueryRow(ctx, `
		UPDATE recompensas SET cantidad = cantidad - 1, updated_at=now()
		WHERE id=$1 AND is_deleted = false AND cantidad > 0
		RETURNING cantidad`, recompensaID).Scan(&cantidad)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Canje{}, ErrSinStock
	}
	if err != nil {
		return models.Canje{}, err
	}

	var puntos float64
	err = tx.QueryRow(ctx, `
		UPDATE usuarios SET puntos = puntos - $2, updated_at=now()
		WHERE id=$1 AND is_deleted = false AND puntos >= $2
		RETURNING puntos`, usuarioID, costo).Scan(&puntos)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Canje{}, ErrPuntosInsuficientes
	}
	if err != nil {
		return models.Canje{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Canje{}, err
	}
	return canje, nil
}

func (r *Repo) CanjesPorUsuario(ctx context.Context, usuarioID string) ([]models.Canje, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT ca.id, ca.recompensa_id, ca.usuario_id, ca.fecha,
		       re.id, re.nombre, re.descripcion, re.puntos, re.cantidad, re.foto, re.created_at, re.updated_at
		FROM canjes ca
		JOIN recompensas re ON re.id = ca.recompensa_id
		WHERE ca.usuario_id=$1 AND ca.is_deleted = false
		ORDER BY ca.fecha DESC`, usuarioID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var canjes []models.Canje
	for rows.Next() {
		var (
			ca  models.Canje
			rec models.Recompensa
		)
		if err := rows.Scan(&ca.ID, &ca.RecompensaID, &ca.UsuarioID, &ca.Fecha,
			&rec.ID, &rec.Nombre, &rec.Descripcion, &rec.Puntos, &rec.Cantidad,
			&rec.Foto, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		ca.Recompensa = &rec
		canjes = append(canjes, ca)
	}
	return canjes, rows.Err()
}
