package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LeandroDBechara/VerdeandoBack/internal/apperr"
	"github.com/LeandroDBechara/VerdeandoBack/internal/models"
)

func TestRegistrarYLogin(t *testing.T) {
	m := newMemStore()
	s := newTestService(m, ahora)

	u, err := s.Registrar(context.Background(), RegistroInput{
		Nombre:            "Ana",
		Apellido:          "García",
		Email:             "Ana@Example.com",
		Password:          "secreta123",
		FechaDeNacimiento: "1990-04-12",
	})
	require.NoError(t, err)
	require.Equal(t, "ana@example.com", u.Email)
	require.Equal(t, models.RolUsuario, u.Rol)

	logueado, token, err := s.Login(context.Background(), "ana@example.com", "secreta123")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, u.ID, logueado.ID)
}

func TestRegistrarEmailDuplicado(t *testing.T) {
	m := newMemStore()
	s := newTestService(m, ahora)
	in := RegistroInput{
		Nombre: "Ana", Apellido: "García", Email: "ana@example.com",
		Password: "secreta123", FechaDeNacimiento: "1990-04-12",
	}

	_, err := s.Registrar(context.Background(), in)
	require.NoError(t, err)

	_, err = s.Registrar(context.Background(), in)
	require.Error(t, err)
	require.Equal(t, "CONFLICT", apperr.From(err).Code)
}

func TestRegistrarFechaFutura(t *testing.T) {
	m := newMemStore()
	s := newTestService(m, ahora)

	_, err := s.Registrar(context.Background(), RegistroInput{
		Nombre: "Ana", Apellido: "García", Email: "ana@example.com",
		Password: "secreta123", FechaDeNacimiento: "2090-01-01",
	})
	require.Error(t, err)
	require.Equal(t, "La fecha de nacimiento no puede ser futura", apperr.From(err).Message)
}

func TestLoginPasswordIncorrecta(t *testing.T) {
	m := newMemStore()
	s := newTestService(m, ahora)
	_, err := s.Registrar(context.Background(), RegistroInput{
		Nombre: "Ana", Apellido: "García", Email: "ana@example.com",
		Password: "secreta123", FechaDeNacimiento: "1990-04-12",
	})
	require.NoError(t, err)

	_, _, err = s.Login(context.Background(), "ana@example.com", "otra")
	require.Error(t, err)
	require.Equal(t, "UNAUTHORIZED", apperr.From(err).Code)

	_, _, err = s.Login(context.Background(), "nadie@example.com", "secreta123")
	require.Error(t, err)
	require.Equal(t, "UNAUTHORIZED", apperr.From(err).Code)
}

func TestResetPassword(t *testing.T) {
	m := newMemStore()
	s := newTestService(m, ahora)
	u, err := s.Registrar(context.Background(), RegistroInput{
		Nombre: "Ana", Apellido: "García", Email: "ana@example.com",
		Password: "secreta123", FechaDeNacimiento: "1990-04-12",
	})
	require.NoError(t, err)

	token, err := s.Auth.GenerateResetToken(u.ID)
	require.NoError(t, err)
	require.NoError(t, s.ResetPassword(context.Background(), token, "nueva456"))

	_, _, err = s.Login(context.Background(), "ana@example.com", "secreta123")
	require.Error(t, err)
	_, _, err = s.Login(context.Background(), "ana@example.com", "nueva456")
	require.NoError(t, err)
}

func TestSerColaborador(t *testing.T) {
	m := newMemStore()
	s := newTestService(m, ahora)
	u := sembrarUsuario(m)

	c, err := s.SerColaborador(context.Background(), ColaboradorInput{
		UsuarioID:       u.ID,
		CVU:             "0000003100000000000001",
		DomicilioFiscal: "Calle 1",
		CuitCuil:        "20-12345678-6",
	})
	require.NoError(t, err)
	require.Equal(t, u.ID, c.UsuarioID)

	actualizado, err := m.UsuarioPorID(context.Background(), u.ID)
	require.NoError(t, err)
	require.Equal(t, models.RolColaborador, actualizado.Rol)

	_, err = s.SerColaborador(context.Background(), ColaboradorInput{
		UsuarioID:       u.ID,
		CVU:             "0000003100000000000001",
		DomicilioFiscal: "Calle 1",
		CuitCuil:        "20-12345678-6",
	})
	require.Error(t, err)
	require.Equal(t, "CONFLICT", apperr.From(err).Code)
}

func TestSerColaboradorCuitInvalido(t *testing.T) {
	m := newMemStore()
	s := newTestService(m, ahora)
	u := sembrarUsuario(m)

	_, err := s.SerColaborador(context.Background(), ColaboradorInput{
		UsuarioID:       u.ID,
		CVU:             "0000003100000000000001",
		DomicilioFiscal: "Calle 1",
		CuitCuil:        "20-12345678-5",
	})
	require.Error(t, err)
	require.Equal(t, "El CUIT/CUIL no es válido", apperr.From(err).Message)
}

func TestValidarCuit(t *testing.T) {
	casos := []struct {
		cuit   string
		valido bool
	}{
		{"20123456786", true},
		{"20-12345678-6", true},
		{"20000000001", true},
		{"20123456785", false},
		{"20123456", false},
		{"2012345678A", false},
		{"", false},
	}
	for _, c := range casos {
		require.Equal(t, c.valido, ValidarCuit(c.cuit), "cuit %q", c.cuit)
	}
}
