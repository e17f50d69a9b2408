package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/LeandroDBechara/VerdeandoBack/internal/models"
)

const usuarioColumns = `u.id, u.nombre, u.apellido, u.email, u.password_hash, u.fecha_de_nacimiento,
	u.direccion, u.foto_perfil, u.puntos, u.rol, u.created_at, u.updated_at,
	c.id, c.usuario_id, c.cvu, c.domicilio_fiscal, c.cuit_cuil`

func scanUsuario(row pgx.Row) (models.Usuario, error) {
	var (
		u                              models.Usuario
		colID, colUsuario              *string
		cvu, domicilioFiscal, cuitCuil *string
	)
	err := row.Scan(&u.ID, &u.Nombre, &u.Apellido, &u.Email, &u.PasswordHash, &u.FechaDeNacimiento,
		&u.Direccion, &u.FotoPerfil, &u.Puntos, &u.Rol, &u.CreatedAt, &u.UpdatedAt,
		&colID, &colUsuario, &cvu, &domicilioFiscal, &cuitCuil)
	if err != nil {
		return models.Usuario{}, err
	}
	if colID != nil {
		u.Colaborador = &models.Colaborador{
			ID:              *colID,
			UsuarioID:       *colUsuario,
			CVU:             *cvu,
			DomicilioFiscal: *domicilioFiscal,
			CuitCuil:        *cuitCuil,
		}
	}
	return u, nil
}

func (r *Repo) CrearUsuario(ctx context.Context, u models.Usuario) (models.Usuario, error) {
	err := r.Pool.QueryRow(ctx, `
		INSERT INTO usuarios (nombre, apellido, email, password_hash, fecha_de_nacimiento, direccion, rol)
		VALUES ($1, $2, lower($3), $4, $5, $6, $7)
		RETURNING id, email, puntos, created_at, updated_at`,
		u.Nombre, u.Apellido, u.Email, u.PasswordHash, u.FechaDeNacimiento, u.Direccion, u.Rol,
	).Scan(&u.ID, &u.Email, &u.Puntos, &u.CreatedAt, &u.UpdatedAt)
	if isUniqueViolation(err) {
		return models.Usuario{}, ErrDuplicado
	}
	return u, err
}

func (r *Repo) UsuarioPorEmail(ctx context.Context, email string) (models.Usuario, error) {
	row := r.Pool.QueryRow(ctx, `
		SELECT `+usuarioColumns+`
		FROM usuarios u
		LEFT JOIN colaboradores c ON c.usuario_id = u.id
		WHERE lower(u.email) = lower($1) AND u.is_deleted = false`, email)
	u, err := scanUsuario(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Usuario{}, ErrNotFound
	}
	return u, err
}

func (r *Repo) UsuarioPorID(ctx context.Context, id string) (models.Usuario, error) {
	row := r.Pool.QueryRow(ctx, `
		SELECT `+usuarioColumns+`
		FROM usuarios u
		LEFT JOIN colaboradores c ON c.usuario_id = u.id
		WHERE u.id = $1 AND u.is_deleted = false`, id)
	u, err := scanUsuario(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Usuario{}, ErrNotFound
	}
	return u, err
}

func (r *Repo) Usuarios(ctx context.Context) ([]models.Usuario, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT `+usuarioColumns+`
		FROM usuarios u
		LEFT JOIN colaboradores c ON c.usuario_id = u.id
		WHERE u.is_deleted = false
		ORDER BY u.created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var usuarios []models.Usuario
	for rows.Next() {
		u, err := scanUsuario(rows)
		if err != nil {
			return nil, err
		}
		usuarios = append(usuarios, u)
	}
	return usuarios, rows.Err()
}

func (r *Repo) ActualizarUsuario(ctx context.Context, u models.Usuario) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE usuarios
		SET nombre=$2, apellido=$3, fecha_de_nacimiento=$4, direccion=$5, foto_perfil=$6, updated_at=now()
		WHERE id=$1 AND is_deleted = false`,
		u.ID, u.Nombre, u.Apellido, u.FechaDeNacimiento, u.Direccion, u.FotoPerfil)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) ActualizarPassword(ctx context.Context, id, passwordHash string) error {
	tag, err := r.Pool.Exec(ctx,
		`UPDATE usuarios SET password_hash=$2, updated_at=now() WHERE id=$1 AND is_deleted = false`,
		id, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) ActualizarRol(ctx context.Context, id, rol string) error {
	tag, err := r.Pool.Exec(ctx,
		`UPDATE usuarios SET rol=$2, updated_at=now() WHERE id=$1 AND is_deleted = false`, id, rol)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) EliminarUsuario(ctx context.Context, id string) error {
	tag, err := r.Pool.Exec(ctx,
		`UPDATE usuarios SET is_deleted=true, updated_at=now() WHERE id=$1 AND is_deleted = false`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) CrearColaborador(ctx context.Context, c models.Colaborador) (models.Colaborador, error) {
	err := r.Pool.QueryRow(ctx, `
		INSERT INTO colaboradores (usuario_id, cvu, domicilio_fiscal, cuit_cuil)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		c.UsuarioID, c.CVU, c.DomicilioFiscal, c.CuitCuil).Scan(&c.ID)
	if isUniqueViolation(err) {
		return models.Colaborador{}, ErrDuplicado
	}
	return c, err
}

func (r *Repo) ColaboradorPorID(ctx context.Context, id string) (models.Colaborador, error) {
	var c models.Colaborador
	err := r.Pool.QueryRow(ctx, `
		SELECT id, usuario_id, cvu, domicilio_fiscal, cuit_cuil
		FROM colaboradores WHERE id=$1`, id).
		Scan(&c.ID, &c.UsuarioID, &c.CVU, &c.DomicilioFiscal, &c.CuitCuil)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Colaborador{}, ErrNotFound
	}
	return c, err
}

func (r *Repo) ActualizarColaborador(ctx context.Context, c models.Colaborador) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE colaboradores SET cvu=$2, domicilio_fiscal=$3, cuit_cuil=$4 WHERE id=$1`,
		c.ID, c.CVU, c.DomicilioFiscal, c.CuitCuil)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
