package repo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/LeandroDBechara/VerdeandoBack/internal/models"
)

func setupTestRepo(t *testing.T) (*Repo, func()) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx := context.Background()
	schema := fmt.Sprintf("test_%d", time.Now().UnixNano())
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, fmt.Sprintf("SET search_path TO %s", schema))
		return err
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	_, err = pool.Exec(ctx, fmt.Sprintf("CREATE SCHEMA %s", schema))
	if err != nil {
		pool.Close()
		t.Fatalf("create schema: %v", err)
	}
	if err := createTestTables(ctx, pool); err != nil {
		pool.Close()
		t.Fatalf("create tables: %v", err)
	}
	repo := New(pool)
	return repo, func() {
		_, _ = pool.Exec(ctx, fmt.Sprintf("DROP SCHEMA %s CASCADE", schema))
		pool.Close()
	}
}

func createTestTables(ctx context.Context, pool *pgxpool.Pool) error {
	queries := []string{
		`CREATE TABLE usuarios (id uuid PRIMARY KEY DEFAULT gen_random_uuid(), nombre text NOT NULL, apellido text NOT NULL, email text NOT NULL, password_hash text NOT NULL, fecha_de_nacimiento date NOT NULL, direccion text, foto_perfil text, puntos double precision NOT NULL DEFAULT 0, rol text NOT NULL DEFAULT 'USUARIO', is_deleted boolean NOT NULL DEFAULT false, created_at timestamptz NOT NULL DEFAULT now(), updated_at timestamptz NOT NULL DEFAULT now())`,
		`CREATE UNIQUE INDEX usuarios_email_test_key ON usuarios (lower(email))`,
		`CREATE TABLE colaboradores (id uuid PRIMARY KEY DEFAULT gen_random_uuid(), usuario_id uuid NOT NULL UNIQUE, cvu text NOT NULL, domicilio_fiscal text NOT NULL, cuit_cuil text NOT NULL)`,
		`CREATE TABLE puntos_verdes (id uuid PRIMARY KEY DEFAULT gen_random_uuid(), colaborador_id uuid NOT NULL, nombre text NOT NULL, direccion text NOT NULL, latitud double precision NOT NULL DEFAULT 0, longitud double precision NOT NULL DEFAULT 0, dias_atencion text, horario text, residuos_aceptados text[] NOT NULL DEFAULT '{}', imagen text, is_deleted boolean NOT NULL DEFAULT false, created_at timestamptz NOT NULL DEFAULT now(), updated_at timestamptz NOT NULL DEFAULT now())`,
		`CREATE TABLE residuos (id uuid PRIMARY KEY DEFAULT gen_random_uuid(), material text NOT NULL UNIQUE, puntos_kg double precision NOT NULL)`,
		`CREATE TABLE eventos (id uuid PRIMARY KEY DEFAULT gen_random_uuid(), titulo text NOT NULL, descripcion text NOT NULL DEFAULT '', imagen text, fecha_inicio timestamptz NOT NULL, fecha_fin timestamptz NOT NULL, codigo text UNIQUE, multiplicador double precision NOT NULL DEFAULT 1.0, puntos_verdes_permitidos text[] NOT NULL DEFAULT '{}', is_deleted boolean NOT NULL DEFAULT false, created_at timestamptz NOT NULL DEFAULT now(), updated_at timestamptz NOT NULL DEFAULT now())`,
		`CREATE TABLE intercambios (id uuid PRIMARY KEY DEFAULT gen_random_uuid(), usuario_id uuid NOT NULL, colaborador_id uuid, punto_verde_id uuid, evento_id uuid, peso_total double precision NOT NULL DEFAULT 0, total_puntos double precision NOT NULL DEFAULT 0, estado text NOT NULL DEFAULT 'PENDIENTE', token text, fecha timestamptz NOT NULL DEFAULT now(), fecha_limite timestamptz NOT NULL, fecha_realizado timestamptz, is_deleted boolean NOT NULL DEFAULT false)`,
		`CREATE TABLE detalle_intercambios (id uuid PRIMARY KEY DEFAULT gen_random_uuid(), intercambio_id uuid NOT NULL, residuo_id uuid NOT NULL, peso_gramos double precision NOT NULL, puntos_total double precision NOT NULL)`,
		`CREATE TABLE recompensas (id uuid PRIMARY KEY DEFAULT gen_random_uuid(), nombre text NOT NULL, descripcion text NOT NULL DEFAULT '', puntos double precision NOT NULL, cantidad integer NOT NULL DEFAULT 0, foto text, is_deleted boolean NOT NULL DEFAULT false, created_at timestamptz NOT NULL DEFAULT now(), updated_at timestamptz NOT NULL DEFAULT now())`,
		`CREATE TABLE canjes (id uuid PRIMARY KEY DEFAULT gen_random_uuid(), recompensa_id uuid NOT NULL, usuario_id uuid NOT NULL, fecha timestamptz NOT NULL DEFAULT now(), is_deleted boolean NOT NULL DEFAULT false)`,
		`CREATE TABLE noticias (id uuid PRIMARY KEY DEFAULT gen_random_uuid(), titulo text NOT NULL, contenido text NOT NULL DEFAULT '', imagen text, fecha timestamptz NOT NULL DEFAULT now(), vistas integer NOT NULL DEFAULT 0, is_deleted boolean NOT NULL DEFAULT false)`,
		`CREATE TABLE noticia_favoritos (noticia_id uuid NOT NULL, usuario_id uuid NOT NULL, created_at timestamptz NOT NULL DEFAULT now(), PRIMARY KEY (noticia_id, usuario_id))`,
	}
	for _, q := range queries {
		if _, err := pool.Exec(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func insertarUsuario(t *testing.T, repo *Repo, email string, puntos float64) string {
	t.Helper()
	var id string
	err := repo.Pool.QueryRow(context.Background(), `
		INSERT INTO usuarios (nombre, apellido, email, password_hash, fecha_de_nacimiento, puntos)
		VALUES ('Ana', 'García', $1, 'x', '1990-04-12', $2) RETURNING id`, email, puntos).Scan(&id)
	if err != nil {
		t.Fatalf("usuario: %v", err)
	}
	return id
}

func insertarIntercambioPendiente(t *testing.T, repo *Repo, usuarioID string, puntos float64, fechaLimite time.Time) string {
	t.Helper()
	var id string
	err := repo.Pool.QueryRow(context.Background(), `
		INSERT INTO intercambios (usuario_id, total_puntos, fecha_limite)
		VALUES ($1, $2, $3) RETURNING id`, usuarioID, puntos, fechaLimite).Scan(&id)
	if err != nil {
		t.Fatalf("intercambio: %v", err)
	}
	return id
}

func TestConfirmarIntercambioAcreditaUnaVez(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()
	ctx := context.Background()

	usuarioID := insertarUsuario(t, repo, "ana@example.com", 0)
	colaboradorUsuario := insertarUsuario(t, repo, "beto@example.com", 0)
	var colaboradorID string
	if err := repo.Pool.QueryRow(ctx, `
		INSERT INTO colaboradores (usuario_id, cvu, domicilio_fiscal, cuit_cuil)
		VALUES ($1, '0', 'Calle 1', '20123456786') RETURNING id`, colaboradorUsuario).Scan(&colaboradorID); err != nil {
		t.Fatalf("colaborador: %v", err)
	}
	var puntoVerdeID string
	if err := repo.Pool.QueryRow(ctx, `
		INSERT INTO puntos_verdes (colaborador_id, nombre, direccion)
		VALUES ($1, 'Centro', 'Av. 1') RETURNING id`, colaboradorID).Scan(&puntoVerdeID); err != nil {
		t.Fatalf("punto verde: %v", err)
	}
	intercambioID := insertarIntercambioPendiente(t, repo, usuarioID, 1000, time.Now().Add(24*time.Hour))

	if err := repo.ConfirmarIntercambio(ctx, intercambioID, colaboradorID, puntoVerdeID); err != nil {
		t.Fatalf("confirmar: %v", err)
	}
	if err := repo.ConfirmarIntercambio(ctx, intercambioID, colaboradorID, puntoVerdeID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("esperaba ErrNotFound en la segunda confirmación, obtuve %v", err)
	}

	u, err := repo.UsuarioPorID(ctx, usuarioID)
	if err != nil {
		t.Fatalf("usuario: %v", err)
	}
	if u.Puntos != 1000 {
		t.Fatalf("saldo inesperado tras doble confirmación: %v", u.Puntos)
	}

	in, err := repo.IntercambioPorID(ctx, intercambioID)
	if err != nil {
		t.Fatalf("intercambio: %v", err)
	}
	if in.Estado != models.EstadoRealizado || in.FechaRealizado == nil {
		t.Fatalf("estado inesperado: %+v", in)
	}
}

func TestCrearCanjeAtomico(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()
	ctx := context.Background()

	usuarioID := insertarUsuario(t, repo, "ana@example.com", 500)
	var recompensaID string
	if err := repo.Pool.QueryRow(ctx, `
		INSERT INTO recompensas (nombre, puntos, cantidad)
		VALUES ('Bolsa', 200, 1) RETURNING id`).Scan(&recompensaID); err != nil {
		t.Fatalf("recompensa: %v", err)
	}

	if _, err := repo.CrearCanje(ctx, recompensaID, usuarioID, 200); err != nil {
		t.Fatalf("canje: %v", err)
	}
	if _, err := repo.CrearCanje(ctx, recompensaID, usuarioID, 200); !errors.Is(err, ErrSinStock) {
		t.Fatalf("esperaba ErrSinStock, obtuve %v", err)
	}

	u, err := repo.UsuarioPorID(ctx, usuarioID)
	if err != nil {
		t.Fatalf("usuario: %v", err)
	}
	if u.Puntos != 300 {
		t.Fatalf("saldo inesperado: %v", u.Puntos)
	}

	var caraID string
	if err := repo.Pool.QueryRow(ctx, `
		INSERT INTO recompensas (nombre, puntos, cantidad)
		VALUES ('Cara', 1000, 5) RETURNING id`).Scan(&caraID); err != nil {
		t.Fatalf("recompensa: %v", err)
	}
	if _, err := repo.CrearCanje(ctx, caraID, usuarioID, 1000); !errors.Is(err, ErrPuntosInsuficientes) {
		t.Fatalf("esperaba ErrPuntosInsuficientes, obtuve %v", err)
	}
	// El canje fallido no descuenta stock.
	rec, err := repo.RecompensaPorID(ctx, caraID)
	if err != nil {
		t.Fatalf("recompensa: %v", err)
	}
	if rec.Cantidad != 5 {
		t.Fatalf("stock inesperado: %d", rec.Cantidad)
	}
}

func TestUsuarioEliminadoNoAparece(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()
	ctx := context.Background()

	id := insertarUsuario(t, repo, "ana@example.com", 0)
	if err := repo.EliminarUsuario(ctx, id); err != nil {
		t.Fatalf("eliminar: %v", err)
	}
	if _, err := repo.UsuarioPorEmail(ctx, "ana@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("esperaba ErrNotFound por email, obtuve %v", err)
	}
	if _, err := repo.UsuarioPorID(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("esperaba ErrNotFound por id, obtuve %v", err)
	}
	usuarios, err := repo.Usuarios(ctx)
	if err != nil {
		t.Fatalf("listar: %v", err)
	}
	if len(usuarios) != 0 {
		t.Fatalf("el listado incluye usuarios eliminados: %d", len(usuarios))
	}
}

func TestExpirarVencidosIdempotente(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()
	ctx := context.Background()

	usuarioID := insertarUsuario(t, repo, "ana@example.com", 0)
	insertarIntercambioPendiente(t, repo, usuarioID, 100, time.Now().Add(-time.Hour))
	insertarIntercambioPendiente(t, repo, usuarioID, 100, time.Now().Add(time.Hour))

	n, err := repo.ExpirarVencidos(ctx)
	if err != nil {
		t.Fatalf("expirar: %v", err)
	}
	if n != 1 {
		t.Fatalf("esperaba 1 expirado, obtuve %d", n)
	}
	n, err = repo.ExpirarVencidos(ctx)
	if err != nil {
		t.Fatalf("expirar: %v", err)
	}
	if n != 0 {
		t.Fatalf("el barrido no es idempotente: %d", n)
	}
}

func TestEventoPorCodigoIgnoraEliminados(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()
	ctx := context.Background()

	codigo := "VERDE123"
	e, err := repo.CrearEvento(ctx, models.Evento{
		Titulo:        "Semana Verde",
		FechaInicio:   time.Now(),
		FechaFin:      time.Now().Add(24 * time.Hour),
		Codigo:        &codigo,
		Multiplicador: 1.5,
	})
	if err != nil {
		t.Fatalf("crear: %v", err)
	}
	if _, err := repo.EventoPorCodigo(ctx, codigo); err != nil {
		t.Fatalf("buscar por código: %v", err)
	}
	if err := repo.EliminarEvento(ctx, e.ID); err != nil {
		t.Fatalf("eliminar: %v", err)
	}
	if _, err := repo.EventoPorCodigo(ctx, codigo); !errors.Is(err, ErrNotFound) {
		t.Fatalf("esperaba ErrNotFound, obtuve %v", err)
	}
}

func TestCancelarSoloPendientes(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()
	ctx := context.Background()

	usuarioID := insertarUsuario(t, repo, "ana@example.com", 0)
	id := insertarIntercambioPendiente(t, repo, usuarioID, 100, time.Now().Add(time.Hour))
	if err := repo.CancelarIntercambio(ctx, id); err != nil {
		t.Fatalf("cancelar: %v", err)
	}
	if err := repo.CancelarIntercambio(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("esperaba ErrNotFound, obtuve %v", err)
	}
}
