package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/LeandroDBechara/VerdeandoBack/internal/models"
)

// CrearIntercambio inserta el intercambio y su detalle en una sola transacción.
func (r *Repo) CrearIntercambio(ctx context.Context, in models.Intercambio, detalles []models.DetalleIntercambio) (models.Intercambio, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return models.Intercambio{}, err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO intercambios (usuario_id, evento_id, peso_total, total_puntos, estado, fecha, fecha_limite)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		in.UsuarioID, in.EventoID, in.PesoTotal, in.TotalPuntos, in.Estado, in.Fecha, in.FechaLimite).
		Scan(&in.ID)
	if err != nil {
		return models.Intercambio{}, err
	}

	for _, d := range detalles {
		if _, err := tx.Exec(ctx, `
			INSERT INTO detalle_intercambios (intercambio_id, residuo_id, peso_gramos, puntos_total)
			VALUES ($1, $2, $3, $4)`,
			in.ID, d.ResiduoID, d.PesoGramos, d.PuntosTotal); err != nil {
			return models.Intercambio{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Intercambio{}, err
	}
	return in, nil
}

func (r *Repo) GuardarTokenIntercambio(ctx context.Context, id, token string) error {
	tag, err := r.Pool.Exec(ctx,
		`UPDATE intercambios SET token=$2 WHERE id=$1 AND is_deleted = false`, id, token)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) IntercambioPorID(ctx context.Context, id string) (models.Intercambio, error) {
	var in models.Intercambio
	err := r.Pool.QueryRow(ctx, `
		SELECT id, usuario_id, colaborador_id, punto_verde_id, evento_id, peso_total, total_puntos,
		       estado, token, fecha, fecha_limite, fecha_realizado
		FROM intercambios WHERE id=$1 AND is_deleted = false`, id).
		Scan(&in.ID, &in.UsuarioID, &in.ColaboradorID, &in.PuntoVerdeID, &in.EventoID,
			&in.PesoTotal, &in.TotalPuntos, &in.Estado, &in.Token, &in.Fecha, &in.FechaLimite, &in.FechaRealizado)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Intercambio{}, ErrNotFound
	}
	return in, err
}

const intercambioProyeccion = `
	SELECT i.id, i.usuario_id, i.colaborador_id, i.punto_verde_id, i.evento_id, i.peso_total,
	       i.total_puntos, i.estado, i.token, i.fecha, i.fecha_limite, i.fecha_realizado,
	       u.nombre, u.apellido,
	       c.id, c.usuario_id, c.cvu, c.domicilio_fiscal, c.cuit_cuil,
	       pv.nombre,
	       e.titulo
	FROM intercambios i
	JOIN usuarios u ON u.id = i.usuario_id
	LEFT JOIN colaboradores c ON c.id = i.colaborador_id
	LEFT JOIN puntos_verdes pv ON pv.id = i.punto_verde_id
	LEFT JOIN eventos e ON e.id = i.evento_id
	WHERE i.is_deleted = false`

func scanIntercambioDetallado(row pgx.Row) (models.IntercambioDetallado, error) {
	var (
		det                            models.IntercambioDetallado
		nombre, apellido               string
		colID, colUsuario              *string
		cvu, domicilioFiscal, cuitCuil *string
		pvNombre, eventoTitulo         *string
	)
	err := row.Scan(&det.ID, &det.UsuarioID, &det.ColaboradorID, &det.PuntoVerdeID, &det.EventoID,
		&det.PesoTotal, &det.TotalPuntos, &det.Estado, &det.Token, &det.Fecha, &det.FechaLimite,
		&det.FechaRealizado, &nombre, &apellido,
		&colID, &colUsuario, &cvu, &domicilioFiscal, &cuitCuil, &pvNombre, &eventoTitulo)
	if err != nil {
		return models.IntercambioDetallado{}, err
	}
	det.Usuario = &models.UsuarioResumen{ID: det.UsuarioID, Nombre: nombre, Apellido: apellido}
	if colID != nil {
		det.Colaborador = &models.Colaborador{
			ID: *colID, UsuarioID: *colUsuario, CVU: *cvu,
			DomicilioFiscal: *domicilioFiscal, CuitCuil: *cuitCuil,
		}
	}
	if det.PuntoVerdeID != nil && pvNombre != nil {
		det.PuntoVerde = &models.PuntoVerdeResumen{ID: *det.PuntoVerdeID, Nombre: *pvNombre}
	}
	if det.EventoID != nil && eventoTitulo != nil {
		det.Evento = &models.EventoResumen{ID: *det.EventoID, Titulo: *eventoTitulo}
	}
	return det, nil
}

func (r *Repo) detallesPorIntercambio(ctx context.Context, ids []string) (map[string][]models.DetalleProyectado, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT d.id, d.intercambio_id, d.residuo_id, res.material, d.peso_gramos, d.puntos_total
		FROM detalle_intercambios d
		JOIN residuos res ON res.id = d.residuo_id
		WHERE d.intercambio_id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	detalles := make(map[string][]models.DetalleProyectado)
	for rows.Next() {
		var (
			d             models.DetalleProyectado
			intercambioID string
		)
		if err := rows.Scan(&d.ID, &intercambioID, &d.Residuo.ID, &d.Residuo.Material,
			&d.PesoGramos, &d.PuntosTotal); err != nil {
			return nil, err
		}
		detalles[intercambioID] = append(detalles[intercambioID], d)
	}
	return detalles, rows.Err()
}

func (r *Repo) IntercambioDetalladoPorID(ctx context.Context, id string) (models.IntercambioDetallado, error) {
	row := r.Pool.QueryRow(ctx, intercambioProyeccion+` AND i.id=$1`, id)
	det, err := scanIntercambioDetallado(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.IntercambioDetallado{}, ErrNotFound
	}
	if err != nil {
		return models.IntercambioDetallado{}, err
	}
	detalles, err := r.detallesPorIntercambio(ctx, []string{det.ID})
	if err != nil {
		return models.IntercambioDetallado{}, err
	}
	det.Detalle = detalles[det.ID]
	return det, nil
}

func (r *Repo) intercambiosDetallados(ctx context.Context, query string, args ...any) ([]models.IntercambioDetallado, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		result []models.IntercambioDetallado
		ids    []string
	)
	for rows.Next() {
		det, err := scanIntercambioDetallado(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, det)
		ids = append(ids, det.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return result, nil
	}
	detalles, err := r.detallesPorIntercambio(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range result {
		result[i].Detalle = detalles[result[i].ID]
	}
	return result, nil
}

func (r *Repo) IntercambiosPorUsuario(ctx context.Context, usuarioID string) ([]models.IntercambioDetallado, error) {
	return r.intercambiosDetallados(ctx, intercambioProyeccion+` AND i.usuario_id=$1 ORDER BY i.fecha DESC`, usuarioID)
}

func (r *Repo) Intercambios(ctx context.Context) ([]models.IntercambioDetallado, error) {
	return r.intercambiosDetallados(ctx, intercambioProyeccion+` ORDER BY i.fecha DESC`)
}

// ExpirarVencidos marca EXPIRADO todo intercambio PENDIENTE cuya fecha límite
// pasó. Reejecutarlo sobre filas ya expiradas no cambia nada.
func (r *Repo) ExpirarVencidos(ctx context.Context) (int64, error) {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE intercambios SET estado=$1
		WHERE estado=$2 AND fecha_limite < now() AND is_deleted = false`,
		models.EstadoExpirado, models.EstadoPendiente)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ExpirarVencidosDeUsuario aplica el mismo barrido acotado a un usuario; se
// ejecuta al leer sus intercambios para no mostrar pendientes vencidos.
func (r *Repo) ExpirarVencidosDeUsuario(ctx context.Context, usuarioID string) error {
	_, err := r.Pool.Exec(ctx, `
		UPDATE intercambios SET estado=$1
		WHERE usuario_id=$3 AND estado=$2 AND fecha_limite < now() AND is_deleted = false`,
		models.EstadoExpirado, models.EstadoPendiente, usuarioID)
	return err
}

// ConfirmarIntercambio cierra el intercambio y acredita los puntos al usuario
// en una única transacción. El predicado de estado evita la doble acreditación
// ante confirmaciones concurrentes.
func (r *Repo) ConfirmarIntercambio(ctx context.Context, id, colaboradorID, puntoVerdeID string) error {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var (
		usuarioID   string
		totalPuntos float64
	)
	err = tx.QueryRow(ctx, `
		UPDATE intercambios
		SET estado=$4, fecha_realizado=now(), colaborador_id=$2, punto_verde_id=$3
		WHERE id=$1 AND is_deleted = false AND estado NOT IN ($5, $6)
		RETURNING usuario_id, total_puntos`,
		id, colaboradorID, puntoVerdeID,
		models.EstadoRealizado, models.EstadoRealizado, models.EstadoCancelado).
		Scan(&usuarioID, &totalPuntos)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE usuarios SET puntos = puntos + $2, updated_at=now()
		WHERE id=$1 AND is_deleted = false`, usuarioID, totalPuntos); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *Repo) CancelarIntercambio(ctx context.Context, id string) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE intercambios SET estado=$2
		WHERE id=$1 AND is_deleted = false AND estado=$3`,
		id, models.EstadoCancelado, models.EstadoPendiente)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) EliminarIntercambio(ctx context.Context, id string) error {
	tag, err := r.Pool.Exec(ctx,
		`UPDATE intercambios SET is_deleted=true WHERE id=$1 AND is_deleted = false`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
