package service

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/LeandroDBechara/VerdeandoBack/internal/auth"
	"github.com/LeandroDBechara/VerdeandoBack/internal/models"
	"github.com/LeandroDBechara/VerdeandoBack/internal/repo"
)

func newTestAuth() *auth.Manager {
	return auth.NewManager("secreto-de-prueba")
}

// memStore implementa todas las interfaces de almacenamiento sobre mapas.
type memStore struct {
	usuarios      map[string]models.Usuario
	colaboradores map[string]models.Colaborador
	residuos      map[string]models.Residuo
	puntosVerdes  map[string]models.PuntoVerde
	eventos       map[string]models.Evento
	intercambios  map[string]models.Intercambio
	detalles      map[string][]models.DetalleIntercambio
	recompensas   map[string]models.Recompensa
	canjes        map[string]models.Canje
	noticias      map[string]models.Noticia
	favoritos     map[string][]string
}

func newMemStore() *memStore {
	return &memStore{
		usuarios:      map[string]models.Usuario{},
		colaboradores: map[string]models.Colaborador{},
		residuos:      map[string]models.Residuo{},
		puntosVerdes:  map[string]models.PuntoVerde{},
		eventos:       map[string]models.Evento{},
		intercambios:  map[string]models.Intercambio{},
		detalles:      map[string][]models.DetalleIntercambio{},
		recompensas:   map[string]models.Recompensa{},
		canjes:        map[string]models.Canje{},
		noticias:      map[string]models.Noticia{},
		favoritos:     map[string][]string{},
	}
}

func (m *memStore) CrearUsuario(_ context.Context, u models.Usuario) (models.Usuario, error) {
	for _, existente := range m.usuarios {
		if existente.Email == u.Email {
			return models.Usuario{}, repo.ErrDuplicado
		}
	}
	u.ID = uuid.NewString()
	m.usuarios[u.ID] = u
	return u, nil
}

func (m *memStore) UsuarioPorEmail(_ context.Context, email string) (models.Usuario, error) {
	for _, u := range m.usuarios {
		if u.Email == email {
			return u, nil
		}
	}
	return models.Usuario{}, repo.ErrNotFound
}

func (m *memStore) UsuarioPorID(_ context.Context, id string) (models.Usuario, error) {
	u, ok := m.usuarios[id]
	if !ok {
		return models.Usuario{}, repo.ErrNotFound
	}
	return u, nil
}

func (m *memStore) Usuarios(_ context.Context) ([]models.Usuario, error) {
	var out []models.Usuario
	for _, u := range m.usuarios {
		out = append(out, u)
	}
	return out, nil
}

func (m *memStore) ActualizarUsuario(_ context.Context, u models.Usuario) error {
	if _, ok := m.usuarios[u.ID]; !ok {
		return repo.ErrNotFound
	}
	m.usuarios[u.ID] = u
	return nil
}

func (m *memStore) ActualizarPassword(_ context.Context, id, hash string) error {
	u, ok := m.usuarios[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.PasswordHash = hash
	m.usuarios[id] = u
	return nil
}

func (m *memStore) ActualizarRol(_ context.Context, id, rol string) error {
	u, ok := m.usuarios[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.Rol = rol
	m.usuarios[id] = u
	return nil
}

func (m *memStore) EliminarUsuario(_ context.Context, id string) error {
	if _, ok := m.usuarios[id]; !ok {
		return repo.ErrNotFound
	}
	delete(m.usuarios, id)
	return nil
}

func (m *memStore) CrearColaborador(_ context.Context, c models.Colaborador) (models.Colaborador, error) {
	for _, existente := range m.colaboradores {
		if existente.UsuarioID == c.UsuarioID {
			return models.Colaborador{}, repo.ErrDuplicado
		}
	}
	c.ID = uuid.NewString()
	m.colaboradores[c.ID] = c
	u := m.usuarios[c.UsuarioID]
	u.Colaborador = &c
	m.usuarios[c.UsuarioID] = u
	return c, nil
}

func (m *memStore) ColaboradorPorID(_ context.Context, id string) (models.Colaborador, error) {
	c, ok := m.colaboradores[id]
	if !ok {
		return models.Colaborador{}, repo.ErrNotFound
	}
	return c, nil
}

func (m *memStore) ActualizarColaborador(_ context.Context, c models.Colaborador) error {
	if _, ok := m.colaboradores[c.ID]; !ok {
		return repo.ErrNotFound
	}
	m.colaboradores[c.ID] = c
	return nil
}

func (m *memStore) CrearResiduo(_ context.Context, r models.Residuo) (models.Residuo, error) {
	for _, existente := range m.residuos {
		if existente.Material == r.Material {
			return models.Residuo{}, repo.ErrDuplicado
		}
	}
	r.ID = uuid.NewString()
	m.residuos[r.ID] = r
	return r, nil
}

func (m *memStore) ResiduoPorID(_ context.Context, id string) (models.Residuo, error) {
	r, ok := m.residuos[id]
	if !ok {
		return models.Residuo{}, repo.ErrNotFound
	}
	return r, nil
}

func (m *memStore) Residuos(_ context.Context) ([]models.Residuo, error) {
	var out []models.Residuo
	for _, r := range m.residuos {
		out = append(out, r)
	}
	return out, nil
}

func (m *memStore) ActualizarResiduo(_ context.Context, r models.Residuo) error {
	if _, ok := m.residuos[r.ID]; !ok {
		return repo.ErrNotFound
	}
	m.residuos[r.ID] = r
	return nil
}

func (m *memStore) EliminarResiduo(_ context.Context, id string) error {
	if _, ok := m.residuos[id]; !ok {
		return repo.ErrNotFound
	}
	delete(m.residuos, id)
	return nil
}

func (m *memStore) CrearPuntoVerde(_ context.Context, pv models.PuntoVerde) (models.PuntoVerde, error) {
	pv.ID = uuid.NewString()
	m.puntosVerdes[pv.ID] = pv
	return pv, nil
}

func (m *memStore) PuntoVerdePorID(_ context.Context, id string) (models.PuntoVerde, error) {
	pv, ok := m.puntosVerdes[id]
	if !ok {
		return models.PuntoVerde{}, repo.ErrNotFound
	}
	return pv, nil
}

func (m *memStore) PuntosVerdes(_ context.Context) ([]models.PuntoVerde, error) {
	var out []models.PuntoVerde
	for _, pv := range m.puntosVerdes {
		out = append(out, pv)
	}
	return out, nil
}

func (m *memStore) PuntosVerdesExistentes(_ context.Context, ids []string) ([]string, error) {
	var out []string
	for _, id := range ids {
		if _, ok := m.puntosVerdes[id]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}

func (m *memStore) ActualizarPuntoVerde(_ context.Context, pv models.PuntoVerde) error {
	if _, ok := m.puntosVerdes[pv.ID]; !ok {
		return repo.ErrNotFound
	}
	m.puntosVerdes[pv.ID] = pv
	return nil
}

func (m *memStore) EliminarPuntoVerde(_ context.Context, id, colaboradorID string) error {
	pv, ok := m.puntosVerdes[id]
	if !ok || pv.ColaboradorID != colaboradorID {
		return repo.ErrNotFound
	}
	delete(m.puntosVerdes, id)
	return nil
}

func (m *memStore) CrearEvento(_ context.Context, e models.Evento) (models.Evento, error) {
	for _, existente := range m.eventos {
		if e.Codigo != nil && existente.Codigo != nil && *existente.Codigo == *e.Codigo {
			return models.Evento{}, repo.ErrDuplicado
		}
	}
	e.ID = uuid.NewString()
	m.eventos[e.ID] = e
	return e, nil
}

func (m *memStore) EventoPorID(_ context.Context, id string) (models.Evento, error) {
	e, ok := m.eventos[id]
	if !ok {
		return models.Evento{}, repo.ErrNotFound
	}
	return e, nil
}

func (m *memStore) EventoPorCodigo(_ context.Context, codigo string) (models.Evento, error) {
	for _, e := range m.eventos {
		if e.Codigo != nil && *e.Codigo == codigo {
			return e, nil
		}
	}
	return models.Evento{}, repo.ErrNotFound
}

func (m *memStore) Eventos(_ context.Context) ([]models.Evento, error) {
	var out []models.Evento
	for _, e := range m.eventos {
		out = append(out, e)
	}
	return out, nil
}

func (m *memStore) ActualizarEvento(_ context.Context, e models.Evento) error {
	if _, ok := m.eventos[e.ID]; !ok {
		return repo.ErrNotFound
	}
	m.eventos[e.ID] = e
	return nil
}

func (m *memStore) EliminarEvento(_ context.Context, id string) error {
	if _, ok := m.eventos[id]; !ok {
		return repo.ErrNotFound
	}
	delete(m.eventos, id)
	return nil
}

func (m *memStore) CrearIntercambio(_ context.Context, in models.Intercambio, detalles []models.DetalleIntercambio) (models.Intercambio, error) {
	in.ID = uuid.NewString()
	m.intercambios[in.ID] = in
	for i := range detalles {
		detalles[i].ID = uuid.NewString()
		detalles[i].IntercambioID = in.ID
	}
	m.detalles[in.ID] = detalles
	return in, nil
}

func (m *memStore) GuardarTokenIntercambio(_ context.Context, id, token string) error {
	in, ok := m.intercambios[id]
	if !ok {
		return repo.ErrNotFound
	}
	in.Token = &token
	m.intercambios[id] = in
	return nil
}

func (m *memStore) IntercambioPorID(_ context.Context, id string) (models.Intercambio, error) {
	in, ok := m.intercambios[id]
	if !ok {
		return models.Intercambio{}, repo.ErrNotFound
	}
	return in, nil
}

func (m *memStore) detallado(in models.Intercambio) models.IntercambioDetallado {
	out := models.IntercambioDetallado{Intercambio: in}
	if u, ok := m.usuarios[in.UsuarioID]; ok {
		out.Usuario = &models.UsuarioResumen{ID: u.ID, Nombre: u.Nombre, Apellido: u.Apellido}
	}
	for _, d := range m.detalles[in.ID] {
		residuo := m.residuos[d.ResiduoID]
		out.Detalle = append(out.Detalle, models.DetalleProyectado{
			ID:          d.ID,
			Residuo:     models.ResiduoResumen{ID: residuo.ID, Material: residuo.Material},
			PesoGramos:  d.PesoGramos,
			PuntosTotal: d.PuntosTotal,
		})
	}
	return out
}

func (m *memStore) IntercambioDetalladoPorID(_ context.Context, id string) (models.IntercambioDetallado, error) {
	in, ok := m.intercambios[id]
	if !ok {
		return models.IntercambioDetallado{}, repo.ErrNotFound
	}
	return m.detallado(in), nil
}

func (m *memStore) IntercambiosPorUsuario(_ context.Context, usuarioID string) ([]models.IntercambioDetallado, error) {
	var out []models.IntercambioDetallado
	for _, in := range m.intercambios {
		if in.UsuarioID == usuarioID {
			out = append(out, m.detallado(in))
		}
	}
	return out, nil
}

func (m *memStore) Intercambios(_ context.Context) ([]models.IntercambioDetallado, error) {
	var out []models.IntercambioDetallado
	for _, in := range m.intercambios {
		out = append(out, m.detallado(in))
	}
	return out, nil
}

func (m *memStore) ExpirarVencidos(_ context.Context) (int64, error) {
	var n int64
	ahora := time.Now()
	for id, in := range m.intercambios {
		if in.Estado == models.EstadoPendiente && in.FechaLimite.Before(ahora) {
			in.Estado = models.EstadoExpirado
			m.intercambios[id] = in
			n++
		}
	}
	return n, nil
}

func (m *memStore) ExpirarVencidosDeUsuario(ctx context.Context, usuarioID string) error {
	_, err := m.ExpirarVencidos(ctx)
	return err
}

func (m *memStore) ConfirmarIntercambio(_ context.Context, id, colaboradorID, puntoVerdeID string) error {
	in, ok := m.intercambios[id]
	if !ok || in.Estado == models.EstadoRealizado || in.Estado == models.EstadoCancelado {
		return repo.ErrNotFound
	}
	ahora := time.Now()
	in.Estado = models.EstadoRealizado
	in.ColaboradorID = &colaboradorID
	in.PuntoVerdeID = &puntoVerdeID
	in.FechaRealizado = &ahora
	m.intercambios[id] = in
	u := m.usuarios[in.UsuarioID]
	u.Puntos += in.TotalPuntos
	m.usuarios[in.UsuarioID] = u
	return nil
}

func (m *memStore) CancelarIntercambio(_ context.Context, id string) error {
	in, ok := m.intercambios[id]
	if !ok || in.Estado != models.EstadoPendiente {
		return repo.ErrNotFound
	}
	in.Estado = models.EstadoCancelado
	m.intercambios[id] = in
	return nil
}

func (m *memStore) EliminarIntercambio(_ context.Context, id string) error {
	if _, ok := m.intercambios[id]; !ok {
		return repo.ErrNotFound
	}
	delete(m.intercambios, id)
	return nil
}

func (m *memStore) CrearRecompensa(_ context.Context, r models.Recompensa) (models.Recompensa, error) {
	r.ID = uuid.NewString()
	m.recompensas[r.ID] = r
	return r, nil
}

func (m *memStore) RecompensaPorID(_ context.Context, id string) (models.Recompensa, error) {
	r, ok := m.recompensas[id]
	if !ok {
		return models.Recompensa{}, repo.ErrNotFound
	}
	return r, nil
}

func (m *memStore) Recompensas(_ context.Context) ([]models.Recompensa, error) {
	var out []models.Recompensa
	for _, r := range m.recompensas {
		if r.Cantidad > 0 {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) ActualizarRecompensa(_ context.Context, r models.Recompensa) error {
	if _, ok := m.recompensas[r.ID]; !ok {
		return repo.ErrNotFound
	}
	m.recompensas[r.ID] = r
	return nil
}

func (m *memStore) EliminarRecompensa(_ context.Context, id string) error {
	if _, ok := m.recompensas[id]; !ok {
		return repo.ErrNotFound
	}
	delete(m.recompensas, id)
	return nil
}

func (m *memStore) CrearCanje(_ context.Context, recompensaID, usuarioID string, costo float64) (models.Canje, error) {
	r, ok := m.recompensas[recompensaID]
	if !ok {
		return models.Canje{}, repo.ErrNotFound
	}
	if r.Cantidad <= 0 {
		return models.Canje{}, repo.ErrSinStock
	}
	u, ok := m.usuarios[usuarioID]
	if !ok {
		return models.Canje{}, repo.ErrNotFound
	}
	if u.Puntos < costo {
		return models.Canje{}, repo.ErrPuntosInsuficientes
	}
	r.Cantidad--
	m.recompensas[recompensaID] = r
	u.Puntos -= costo
	m.usuarios[usuarioID] = u
	c := models.Canje{ID: uuid.NewString(), RecompensaID: recompensaID, UsuarioID: usuarioID, Fecha: time.Now()}
	m.canjes[c.ID] = c
	return c, nil
}

func (m *memStore) CanjesPorUsuario(_ context.Context, usuarioID string) ([]models.Canje, error) {
	var out []models.Canje
	for _, c := range m.canjes {
		if c.UsuarioID == usuarioID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) CrearNoticia(_ context.Context, n models.Noticia) (models.Noticia, error) {
	n.ID = uuid.NewString()
	m.noticias[n.ID] = n
	return n, nil
}

func (m *memStore) NoticiaPorID(_ context.Context, id string) (models.Noticia, error) {
	n, ok := m.noticias[id]
	if !ok {
		return models.Noticia{}, repo.ErrNotFound
	}
	return n, nil
}

func (m *memStore) Noticias(_ context.Context) ([]models.Noticia, error) {
	var out []models.Noticia
	for _, n := range m.noticias {
		out = append(out, n)
	}
	return out, nil
}

func (m *memStore) ActualizarNoticia(_ context.Context, n models.Noticia) error {
	if _, ok := m.noticias[n.ID]; !ok {
		return repo.ErrNotFound
	}
	m.noticias[n.ID] = n
	return nil
}

func (m *memStore) EliminarNoticia(_ context.Context, id string) error {
	if _, ok := m.noticias[id]; !ok {
		return repo.ErrNotFound
	}
	delete(m.noticias, id)
	return nil
}

func (m *memStore) AgregarFavorito(_ context.Context, noticiaID, usuarioID string) error {
	if !slices.Contains(m.favoritos[usuarioID], noticiaID) {
		m.favoritos[usuarioID] = append(m.favoritos[usuarioID], noticiaID)
	}
	return nil
}

func (m *memStore) QuitarFavorito(_ context.Context, noticiaID, usuarioID string) error {
	idx := slices.Index(m.favoritos[usuarioID], noticiaID)
	if idx < 0 {
		return repo.ErrNotFound
	}
	m.favoritos[usuarioID] = slices.Delete(m.favoritos[usuarioID], idx, idx+1)
	return nil
}

func (m *memStore) FavoritasDeUsuario(_ context.Context, usuarioID string) ([]models.Noticia, error) {
	var out []models.Noticia
	for _, id := range m.favoritos[usuarioID] {
		if n, ok := m.noticias[id]; ok {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *memStore) SumarVista(_ context.Context, noticiaID string) (int, error) {
	n, ok := m.noticias[noticiaID]
	if !ok {
		return 0, repo.ErrNotFound
	}
	n.Vistas++
	m.noticias[noticiaID] = n
	return n.Vistas, nil
}

// newTestService arma un servicio sobre un memStore con reloj fijo.
func newTestService(m *memStore, ahora time.Time) *Service {
	return &Service{
		Usuarios:     m,
		Residuos:     m,
		PuntosVerdes: m,
		Eventos:      m,
		Intercambios: m,
		Recompensas:  m,
		Noticias:     m,
		Auth:         newTestAuth(),
		Now:          func() time.Time { return ahora },
	}
}
