package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/LeandroDBechara/VerdeandoBack/internal/apperr"
	"github.com/LeandroDBechara/VerdeandoBack/internal/auth"
	"github.com/LeandroDBechara/VerdeandoBack/internal/models"
	"github.com/LeandroDBechara/VerdeandoBack/internal/repo"
)

type RegistroInput struct {
	Nombre            string `json:"nombre"`
	Apellido          string `json:"apellido"`
	Email             string `json:"email"`
	Password          string `json:"contraseña"`
	FechaDeNacimiento string `json:"fechaDeNacimiento"`
}

func (s *Service) Registrar(ctx context.Context, in RegistroInput) (models.Usuario, error) {
	if in.Nombre == "" || in.Apellido == "" || in.Email == "" || in.Password == "" {
		return models.Usuario{}, apperr.BadRequest("Faltan datos obligatorios")
	}
	fechaNac, err := parseFecha(in.FechaDeNacimiento)
	if err != nil {
		return models.Usuario{}, apperr.BadRequest("La fecha de nacimiento no es válida")
	}
	if fechaNac.After(s.now()) {
		return models.Usuario{}, apperr.BadRequest("La fecha de nacimiento no puede ser futura")
	}

	hash, err := s.Auth.HashPassword(in.Password)
	if err != nil {
		return models.Usuario{}, fmt.Errorf("hashear contraseña: %w", err)
	}
	u, err := s.Usuarios.CrearUsuario(ctx, models.Usuario{
		Nombre:            strings.TrimSpace(in.Nombre),
		Apellido:          strings.TrimSpace(in.Apellido),
		Email:             strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash:      hash,
		FechaDeNacimiento: fechaNac,
		Rol:               models.RolUsuario,
	})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicado) {
			return models.Usuario{}, apperr.Conflict("El email ya está registrado")
		}
		return models.Usuario{}, fmt.Errorf("crear usuario: %w", err)
	}

	// El registro no espera ni falla por el correo de bienvenida.
	if s.Mailer != nil {
		go func(email, nombre string) {
			_ = s.Mailer.EnviarBienvenida(email, nombre)
		}(u.Email, u.Nombre)
	}
	return u, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (models.Usuario, string, error) {
	if email == "" || password == "" {
		return models.Usuario{}, "", apperr.BadRequest("Faltan datos obligatorios")
	}
	u, err := s.Usuarios.UsuarioPorEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return models.Usuario{}, "", apperr.Unauthorized("Usuario o contraseña incorrectos")
		}
		return models.Usuario{}, "", fmt.Errorf("buscar usuario: %w", err)
	}
	if err := s.Auth.ComparePassword(u.PasswordHash, password); err != nil {
		return models.Usuario{}, "", apperr.Unauthorized("Usuario o contraseña incorrectos")
	}
	token, err := s.Auth.GenerateToken(u.ID, u.Rol, auth.AccessTokenTTL)
	if err != nil {
		return models.Usuario{}, "", fmt.Errorf("firmar token: %w", err)
	}
	return u, token, nil
}

// RecuperarPassword manda un enlace de restablecimiento al correo del usuario.
func (s *Service) RecuperarPassword(ctx context.Context, email string) error {
	if email == "" {
		return apperr.BadRequest("El email es obligatorio")
	}
	if s.Mailer == nil {
		return apperr.Internal("El servicio de correo no está disponible")
	}
	u, err := s.Usuarios.UsuarioPorEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperr.NotFound("Usuario no encontrado")
		}
		return fmt.Errorf("buscar usuario: %w", err)
	}
	token, err := s.Auth.GenerateResetToken(u.ID)
	if err != nil {
		return fmt.Errorf("firmar token: %w", err)
	}
	url := s.ResetPasswordURL + "?token=" + token
	if err := s.Mailer.EnviarRecuperacion(u.Email, url); err != nil {
		return fmt.Errorf("enviar correo: %w", err)
	}
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, token, password string) error {
	if token == "" || password == "" {
		return apperr.BadRequest("Faltan datos obligatorios")
	}
	claims, err := s.Auth.ParseToken(token)
	if err != nil {
		return apperr.Unauthorized("El token no es válido o ha expirado")
	}
	hash, err := s.Auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashear contraseña: %w", err)
	}
	if err := s.Usuarios.ActualizarPassword(ctx, claims.UserID, hash); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperr.NotFound("Usuario no encontrado")
		}
		return fmt.Errorf("actualizar contraseña: %w", err)
	}
	return nil
}

func (s *Service) ListarUsuarios(ctx context.Context) ([]models.Usuario, error) {
	return s.Usuarios.Usuarios(ctx)
}

func (s *Service) UsuarioPorID(ctx context.Context, id string) (models.Usuario, error) {
	u, err := s.Usuarios.UsuarioPorID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return models.Usuario{}, apperr.NotFound("Usuario no encontrado")
		}
		return models.Usuario{}, fmt.Errorf("buscar usuario: %w", err)
	}
	return u, nil
}

type ActualizarUsuarioInput struct {
	Nombre            *string `json:"nombre"`
	Apellido          *string `json:"apellido"`
	Direccion         *string `json:"direccion"`
	FechaDeNacimiento *string `json:"fechaDeNacimiento"`
	FotoPerfil        *string `json:"fotoPerfil"`
}

func (s *Service) ActualizarUsuario(ctx context.Context, id string, in ActualizarUsuarioInput) (models.Usuario, error) {
	u, err := s.UsuarioPorID(ctx, id)
	if err != nil {
		return models.Usuario{}, err
	}
	if in.Nombre != nil {
		u.Nombre = *in.Nombre
	}
	if in.Apellido != nil {
		u.Apellido = *in.Apellido
	}
	if in.Direccion != nil {
		u.Direccion = in.Direccion
	}
	if in.FechaDeNacimiento != nil {
		fechaNac, err := parseFecha(*in.FechaDeNacimiento)
		if err != nil {
			return models.Usuario{}, apperr.BadRequest("La fecha de nacimiento no es válida")
		}
		u.FechaDeNacimiento = fechaNac
	}
	if in.FotoPerfil != nil {
		if u.FotoPerfil != nil && *u.FotoPerfil != *in.FotoPerfil {
			borrarImagen(ctx, s.Storage, BucketUsuarios, u.FotoPerfil)
		}
		u.FotoPerfil = in.FotoPerfil
	}
	if err := s.Usuarios.ActualizarUsuario(ctx, u); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return models.Usuario{}, apperr.NotFound("Usuario no encontrado")
		}
		return models.Usuario{}, fmt.Errorf("actualizar usuario: %w", err)
	}
	return s.UsuarioPorID(ctx, id)
}

func (s *Service) EliminarUsuario(ctx context.Context, id string) error {
	if err := s.Usuarios.EliminarUsuario(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperr.NotFound("Usuario no encontrado")
		}
		return fmt.Errorf("eliminar usuario: %w", err)
	}
	return nil
}

type ColaboradorInput struct {
	UsuarioID       string `json:"usuarioId"`
	CVU             string `json:"cvu"`
	DomicilioFiscal string `json:"domicilioFiscal"`
	CuitCuil        string `json:"cuitCuil"`
}

// SerColaborador registra los datos fiscales de un usuario y lo promueve al
// rol COLABORADOR. Los administradores conservan su rol.
func (s *Service) SerColaborador(ctx context.Context, in ColaboradorInput) (models.Colaborador, error) {
	if in.UsuarioID == "" || in.CVU == "" || in.DomicilioFiscal == "" || in.CuitCuil == "" {
		return models.Colaborador{}, apperr.BadRequest("Faltan datos obligatorios")
	}
	if !ValidarCuit(in.CuitCuil) {
		return models.Colaborador{}, apperr.BadRequest("El CUIT/CUIL no es válido")
	}
	u, err := s.UsuarioPorID(ctx, in.UsuarioID)
	if err != nil {
		return models.Colaborador{}, err
	}
	if u.Colaborador != nil {
		return models.Colaborador{}, apperr.Conflict("El usuario ya es colaborador")
	}
	c, err := s.Usuarios.CrearColaborador(ctx, models.Colaborador{
		UsuarioID:       in.UsuarioID,
		CVU:             in.CVU,
		DomicilioFiscal: in.DomicilioFiscal,
		CuitCuil:        in.CuitCuil,
	})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicado) {
			return models.Colaborador{}, apperr.Conflict("El usuario ya es colaborador")
		}
		return models.Colaborador{}, fmt.Errorf("crear colaborador: %w", err)
	}
	if u.Rol != models.RolAdmin {
		if err := s.Usuarios.ActualizarRol(ctx, u.ID, models.RolColaborador); err != nil {
			return models.Colaborador{}, fmt.Errorf("actualizar rol: %w", err)
		}
	}
	return c, nil
}

type ActualizarColaboradorInput struct {
	CVU             *string `json:"cvu"`
	DomicilioFiscal *string `json:"domicilioFiscal"`
	CuitCuil        *string `json:"cuitCuil"`
}

func (s *Service) ActualizarColaborador(ctx context.Context, id string, in ActualizarColaboradorInput) (models.Colaborador, error) {
	c, err := s.Usuarios.ColaboradorPorID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return models.Colaborador{}, apperr.NotFound("Colaborador no encontrado")
		}
		return models.Colaborador{}, fmt.Errorf("buscar colaborador: %w", err)
	}
	if in.CVU != nil {
		c.CVU = *in.CVU
	}
	if in.DomicilioFiscal != nil {
		c.DomicilioFiscal = *in.DomicilioFiscal
	}
	if in.CuitCuil != nil {
		if !ValidarCuit(*in.CuitCuil) {
			return models.Colaborador{}, apperr.BadRequest("El CUIT/CUIL no es válido")
		}
		c.CuitCuil = *in.CuitCuil
	}
	if err := s.Usuarios.ActualizarColaborador(ctx, c); err != nil {
		return models.Colaborador{}, fmt.Errorf("actualizar colaborador: %w", err)
	}
	return c, nil
}

// ValidarCuit verifica el dígito verificador de un CUIT/CUIL de 11 dígitos
// con el algoritmo de módulo 11 de AFIP.
func ValidarCuit(cuit string) bool {
	cuit = strings.ReplaceAll(cuit, "-", "")
	if len(cuit) != 11 {
		return false
	}
	coeficientes := [10]int{5, 4, 3, 2, 7, 6, 5, 4, 3, 2}
	suma := 0
	for i, c := range cuit {
		if c < '0' || c > '9' {
			return false
		}
		if i < 10 {
			suma += int(c-'0') * coeficientes[i]
		}
	}
	resto := suma % 11
	verificador := 11 - resto
	switch resto {
	case 0:
		verificador = 0
	case 1:
		verificador = 9
	}
	return verificador == int(cuit[10]-'0')
}
