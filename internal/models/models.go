package models

import "time"

// Roles de usuario.
const (
	RolAdmin       = "ADMIN"
	RolUsuario     = "USUARIO"
	RolColaborador = "COLABORADOR"
)

// Estados de un intercambio.
const (
	EstadoPendiente = "PENDIENTE"
	EstadoRealizado = "REALIZADO"
	EstadoCancelado = "CANCELADO"
	EstadoExpirado  = "EXPIRADO"
)

type Usuario struct {
	ID                string       `json:"id"`
	Nombre            string       `json:"nombre"`
	Apellido          string       `json:"apellido"`
	Email             string       `json:"email"`
	PasswordHash      string       `json:"-"`
	FechaDeNacimiento time.Time    `json:"fechaDeNacimiento"`
	Direccion         *string      `json:"direccion,omitempty"`
	FotoPerfil        *string      `json:"fotoPerfil,omitempty"`
	Puntos            float64      `json:"puntos"`
	Rol               string       `json:"rol"`
	Colaborador       *Colaborador `json:"colaborador,omitempty"`
	CreatedAt         time.Time    `json:"createdAt"`
	UpdatedAt         time.Time    `json:"updatedAt"`
}

// Colaborador extiende 1:1 a un Usuario con datos fiscales.
type Colaborador struct {
	ID              string `json:"id"`
	UsuarioID       string `json:"usuarioId"`
	CVU             string `json:"cvu"`
	DomicilioFiscal string `json:"domicilioFiscal"`
	CuitCuil        string `json:"cuitCuil"`
}

type PuntoVerde struct {
	ID                string    `json:"id"`
	ColaboradorID     string    `json:"colaboradorId"`
	Nombre            string    `json:"nombre"`
	Direccion         string    `json:"direccion"`
	Latitud           float64   `json:"latitud"`
	Longitud          float64   `json:"longitud"`
	DiasAtencion      *string   `json:"diasAtencion,omitempty"`
	Horario           *string   `json:"horario,omitempty"`
	ResiduosAceptados []string  `json:"residuosAceptados"`
	Imagen            *string   `json:"imagen,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Residuo es un material del catálogo con su tasa de puntos por kilogramo.
type Residuo struct {
	ID       string  `json:"id"`
	Material string  `json:"material"`
	PuntosKg float64 `json:"puntosKg"`
}

type Evento struct {
	ID                     string    `json:"id"`
	Titulo                 string    `json:"titulo"`
	Descripcion            string    `json:"descripcion"`
	Imagen                 *string   `json:"imagen,omitempty"`
	FechaInicio            time.Time `json:"fechaInicio"`
	FechaFin               time.Time `json:"fechaFin"`
	Codigo                 *string   `json:"codigo,omitempty"`
	Multiplicador          float64   `json:"multiplicador"`
	PuntosVerdesPermitidos []string  `json:"puntosVerdesPermitidos"`
	CreatedAt              time.Time `json:"createdAt"`
	UpdatedAt              time.Time `json:"updatedAt"`
}

type Intercambio struct {
	ID             string     `json:"id"`
	UsuarioID      string     `json:"usuarioId"`
	ColaboradorID  *string    `json:"colaboradorId,omitempty"`
	PuntoVerdeID   *string    `json:"puntoVerdeId,omitempty"`
	EventoID       *string    `json:"eventoId,omitempty"`
	PesoTotal      float64    `json:"pesoTotal"`
	TotalPuntos    float64    `json:"totalPuntos"`
	Estado         string     `json:"estado"`
	Token          *string    `json:"token,omitempty"`
	Fecha          time.Time  `json:"fecha"`
	FechaLimite    time.Time  `json:"fechaLimite"`
	FechaRealizado *time.Time `json:"fechaRealizado,omitempty"`
}

type DetalleIntercambio struct {
	ID            string  `json:"id"`
	IntercambioID string  `json:"-"`
	ResiduoID     string  `json:"residuoId"`
	PesoGramos    float64 `json:"pesoGramos"`
	PuntosTotal   float64 `json:"puntosTotal"`
}

// Proyecciones anidadas que acompañan a un intercambio en las respuestas.

type UsuarioResumen struct {
	ID       string `json:"id"`
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido"`
}

type PuntoVerdeResumen struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
}

type EventoResumen struct {
	ID     string `json:"id"`
	Titulo string `json:"titulo"`
}

type ResiduoResumen struct {
	ID       string `json:"id"`
	Material string `json:"material"`
}

type DetalleProyectado struct {
	ID          string         `json:"id"`
	Residuo     ResiduoResumen `json:"residuo"`
	PesoGramos  float64        `json:"pesoGramos"`
	PuntosTotal float64        `json:"puntosTotal"`
}

type IntercambioDetallado struct {
	Intercambio
	Usuario     *UsuarioResumen     `json:"usuario,omitempty"`
	Colaborador *Colaborador        `json:"colaborador,omitempty"`
	PuntoVerde  *PuntoVerdeResumen  `json:"puntoVerde,omitempty"`
	Evento      *EventoResumen      `json:"evento,omitempty"`
	Detalle     []DetalleProyectado `json:"detalleIntercambio"`
}

type Recompensa struct {
	ID          string    `json:"id"`
	Nombre      string    `json:"nombre"`
	Descripcion string    `json:"descripcion"`
	Puntos      float64   `json:"puntos"`
	Cantidad    int       `json:"cantidad"`
	Foto        *string   `json:"foto,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Canje struct {
	ID           string      `json:"id"`
	RecompensaID string      `json:"recompensaId"`
	UsuarioID    string      `json:"usuarioId"`
	Fecha        time.Time   `json:"fecha"`
	Recompensa   *Recompensa `json:"recompensa,omitempty"`
}

type Noticia struct {
	ID        string    `json:"id"`
	Titulo    string    `json:"titulo"`
	Contenido string    `json:"contenido"`
	Imagen    *string   `json:"imagen,omitempty"`
	Fecha     time.Time `json:"fecha"`
	Vistas    int       `json:"vistas"`
}
