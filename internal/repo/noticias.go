package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/LeandroDBechara/VerdeandoBack/internal/models"
)

func (r *Repo) CrearNoticia(ctx context.Context, n models.Noticia) (models.Noticia, error) {
	err := r.Pool.QueryRow(ctx, `
		INSERT INTO noticias (titulo, contenido, imagen) VALUES ($1, $2, $3)
		RETURNING id, fecha, vistas`,
		n.Titulo, n.Contenido, n.Imagen).Scan(&n.ID, &n.Fecha, &n.Vistas)
	return n, err
}

func (r *Repo) NoticiaPorID(ctx context.Context, id string) (models.Noticia, error) {
	var n models.Noticia
	err := r.Pool.QueryRow(ctx, `
		SELECT id, titulo, contenido, imagen, fecha, vistas
		FROM noticias WHERE id=$1 AND is_deleted = false`, id).
		Scan(&n.ID, &n.Titulo, &n.Contenido, &n.Imagen, &n.Fecha, &n.Vistas)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Noticia{}, ErrNotFound
	}
	return n, err
}

func (r *Repo) Noticias(ctx context.Context) ([]models.Noticia, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT id, titulo, contenido, imagen, fecha, vistas
		FROM noticias WHERE is_deleted = false ORDER BY fecha DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var noticias []models.Noticia
	for rows.Next() {
		var n models.Noticia
		if err := rows.Scan(&n.ID, &n.Titulo, &n.Contenido, &n.Imagen, &n.Fecha, &n.Vistas); err != nil {
			return nil, err
		}
		noticias = append(noticias, n)
	}
	return noticias, rows.Err()
}

func (r *Repo) ActualizarNoticia(ctx context.Context, n models.Noticia) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE noticias SET titulo=$2, contenido=$3, imagen=$4
		WHERE id=$1 AND is_deleted = false`,
		n.ID, n.Titulo, n.Contenido, n.Imagen)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) EliminarNoticia(ctx context.Context, id string) error {
	tag, err := r.Pool.Exec(ctx,
		`UPDATE noticias SET is_deleted=true WHERE id=$1 AND is_deleted = false`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) AgregarFavorito(ctx context.Context, noticiaID, usuarioID string) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO noticia_favoritos (noticia_id, usuario_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, noticiaID, usuarioID)
	return err
}

func (r *Repo) QuitarFavorito(ctx context.Context, noticiaID, usuarioID string) error {
	tag, err := r.Pool.Exec(ctx,
		`DELETE FROM noticia_favoritos WHERE noticia_id=$1 AND usuario_id=$2`, noticiaID, usuarioID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) FavoritasDeUsuario(ctx context.Context, usuarioID string) ([]models.Noticia, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT n.id, n.titulo, n.contenido, n.imagen, n.fecha, n.vistas
		FROM noticias n
		JOIN noticia_favoritos f ON f.noticia_id = n.id
		WHERE f.usuario_id=$1 AND n.is_deleted = false
		ORDER BY f.created_at DESC`, usuarioID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var noticias []models.Noticia
	for rows.Next() {
		var n models.Noticia
		if err := rows.Scan(&n.ID, &n.Titulo, &n.Contenido, &n.Imagen, &n.Fecha, &n.Vistas); err != nil {
			return nil, err
		}
		noticias = append(noticias, n)
	}
	return noticias, rows.Err()
}

// SumarVista incrementa el contador de forma atómica.
func (r *Repo) SumarVista(ctx context.Context, noticiaID string) (int, error) {
	var vistas int
	err := r.Pool.QueryRow(ctx, `
		UPDATE noticias SET vistas = vistas + 1
		WHERE id=$1 AND is_deleted = false
		RETURNING vistas`, noticiaID).Scan(&vistas)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	return vistas, err
}
