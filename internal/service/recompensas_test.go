package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LeandroDBechara/VerdeandoBack/internal/apperr"
	"github.com/LeandroDBechara/VerdeandoBack/internal/models"
)

func sembrarRecompensa(m *memStore, puntos float64, cantidad int) models.Recompensa {
	r, _ := m.CrearRecompensa(context.Background(), models.Recompensa{
		Nombre: "Bolsa reutilizable", Descripcion: "desc", Puntos: puntos, Cantidad: cantidad,
	})
	return r
}

func TestCrearCanjeDescuentaPuntosYStock(t *testing.T) {
	m := newMemStore()
	s := newTestService(m, ahora)
	u := sembrarUsuario(m)
	conPuntos := m.usuarios[u.ID]
	conPuntos.Puntos = 500
	m.usuarios[u.ID] = conPuntos
	r := sembrarRecompensa(m, 200, 2)

	canje, err := s.CrearCanje(context.Background(), r.ID, u.ID)
	require.NoError(t, err)
	require.Equal(t, r.ID, canje.RecompensaID)
	require.NotNil(t, canje.Recompensa)

	actualizado, _ := m.UsuarioPorID(context.Background(), u.ID)
	require.Equal(t, 300.0, actualizado.Puntos)
	rec, _ := m.RecompensaPorID(context.Background(), r.ID)
	require.Equal(t, 1, rec.Cantidad)
}

func TestCrearCanjeSinPuntos(t *testing.T) {
	m := newMemStore()
	s := newTestService(m, ahora)
	u := sembrarUsuario(m)
	r := sembrarRecompensa(m, 200, 2)

	_, err := s.CrearCanje(context.Background(), r.ID, u.ID)
	require.Error(t, err)
	require.Equal(t, "El usuario no tiene puntos suficientes", apperr.From(err).Message)
}

func TestCrearCanjeSinStock(t *testing.T) {
	m := newMemStore()
	s := newTestService(m, ahora)
	u := sembrarUsuario(m)
	conPuntos := m.usuarios[u.ID]
	conPuntos.Puntos = 500
	m.usuarios[u.ID] = conPuntos
	r := sembrarRecompensa(m, 200, 0)

	_, err := s.CrearCanje(context.Background(), r.ID, u.ID)
	require.Error(t, err)
	require.Equal(t, "No hay stock de la recompensa", apperr.From(err).Message)
}

func TestCrearCanjeRecompensaInexistente(t *testing.T) {
	m := newMemStore()
	s := newTestService(m, ahora)
	u := sembrarUsuario(m)

	_, err := s.CrearCanje(context.Background(), "no-existe", u.ID)
	require.Error(t, err)
	require.Equal(t, "NOT_FOUND", apperr.From(err).Code)
}

func TestListarRecompensasSoloConStock(t *testing.T) {
	m := newMemStore()
	s := newTestService(m, ahora)
	sembrarRecompensa(m, 200, 2)
	sembrarRecompensa(m, 100, 0)

	lista, err := s.ListarRecompensas(context.Background())
	require.NoError(t, err)
	require.Len(t, lista, 1)
}

func TestNoticiaFavoritosYVistas(t *testing.T) {
	m := newMemStore()
	s := newTestService(m, ahora)
	u := sembrarUsuario(m)

	n, err := s.CrearNoticia(context.Background(), NoticiaInput{Titulo: "Reciclaje", Contenido: "texto"})
	require.NoError(t, err)

	// Marcar dos veces no duplica.
	require.NoError(t, s.MarcarFavorita(context.Background(), n.ID, u.ID))
	require.NoError(t, s.MarcarFavorita(context.Background(), n.ID, u.ID))
	favoritas, err := s.NoticiasFavoritas(context.Background(), u.ID)
	require.NoError(t, err)
	require.Len(t, favoritas, 1)

	require.NoError(t, s.QuitarFavorita(context.Background(), n.ID, u.ID))
	require.Error(t, s.QuitarFavorita(context.Background(), n.ID, u.ID))

	vistas, err := s.RegistrarVista(context.Background(), n.ID)
	require.NoError(t, err)
	require.Equal(t, 1, vistas)
	vistas, err = s.RegistrarVista(context.Background(), n.ID)
	require.NoError(t, err)
	require.Equal(t, 2, vistas)
}
