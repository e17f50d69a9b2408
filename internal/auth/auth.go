package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	// Los tokens de confirmación de intercambio duran lo mismo que la
	// fechaLimite del intercambio.
	IntercambioTokenTTL = 7 * 24 * time.Hour

	AccessTokenTTL = 24 * time.Hour
	ResetTokenTTL  = time.Hour
)

type Claims struct {
	UserID string `json:"user_id"`
	Rol    string `json:"rol,omitempty"`
	jwt.RegisteredClaims
}

// IntercambioClaims viaja dentro del token que autoriza la confirmación de un
// intercambio en un punto verde.
type IntercambioClaims struct {
	IntercambioID string `json:"intercambioId"`
	jwt.RegisteredClaims
}

type Manager struct {
	Secret []byte
}

func NewManager(secret string) *Manager {
	return &Manager{Secret: []byte(secret)}
}

func (m *Manager) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (m *Manager) ComparePassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func (m *Manager) GenerateToken(userID, rol string, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID: userID,
		Rol:    rol,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.Secret)
}

func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, m.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// GenerateIntercambioToken firma un token de 7 días con el id del intercambio.
func (m *Manager) GenerateIntercambioToken(intercambioID string) (string, error) {
	claims := IntercambioClaims{
		IntercambioID: intercambioID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(IntercambioTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.Secret)
}

func (m *Manager) ParseIntercambioToken(tokenString string) (*IntercambioClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &IntercambioClaims{}, m.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*IntercambioClaims)
	if !ok || !token.Valid || claims.IntercambioID == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// GenerateResetToken firma el token de un enlace de recuperación de contraseña.
func (m *Manager) GenerateResetToken(userID string) (string, error) {
	return m.GenerateToken(userID, "", ResetTokenTTL)
}

func (m *Manager) keyFunc(token *jwt.Token) (interface{}, error) {
	return m.Secret, nil
}

type contextKey string

const (
	userIDKey contextKey = "userID"
	rolKey    contextKey = "rol"
)

func WithUsuario(ctx context.Context, userID, rol string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, rolKey, rol)
}

func UsuarioID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok
}

func Rol(ctx context.Context) string {
	rol, _ := ctx.Value(rolKey).(string)
	return rol
}

func TokenFromRequest(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}
