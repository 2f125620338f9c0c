package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"wolftactical/internal/apierror"
	"wolftactical/internal/config"
	"wolftactical/internal/dto"
	"wolftactical/internal/repository"
	"wolftactical/internal/session"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// ClientMeta identifies the caller for the login guard. SesionAnterior is the
// sid of any session cookie the client already presented; it is destroyed on
// successful login so the session id is always regenerated.
type ClientMeta struct {
	IP             string
	Fingerprint    string
	SesionAnterior string
}

// Fingerprint derives the secondary blocking key from request headers.
func Fingerprint(userAgent, acceptLanguage string) string {
	sum := sha256.Sum256([]byte(userAgent + "|" + acceptLanguage))
	return hex.EncodeToString(sum[:])
}

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest, meta ClientMeta) (*dto.LoginResponse, error)
	Logout(ctx context.Context, sid string) error
}

type authService struct {
	usuarios repository.UsuarioRepository
	intentos repository.IntentosStore
	sesiones session.Store
	cfg      *config.Config
}

func NewAuthService(usuarios repository.UsuarioRepository, intentos repository.IntentosStore, sesiones session.Store, cfg *config.Config) AuthService {
	return &authService{usuarios: usuarios, intentos: intentos, sesiones: sesiones, cfg: cfg}
}

// Login enforces the per-identity block before credentials are even looked at,
// so a blocked client learns nothing from the response. Failures count against
// the caller's IP; at the threshold both the IP and the fingerprint are
// blocked for the configured window.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest, meta ClientMeta) (*dto.LoginResponse, error) {
	bloqueado, err := s.intentos.Bloqueado(ctx, meta.IP, meta.Fingerprint)
	if err != nil {
		return nil, err
	}
	if bloqueado {
		return nil, apierror.Blocked()
	}

	user, err := s.usuarios.ObtenerPorUsername(ctx, req.Username)
	credencialesOK := err == nil &&
		bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) == nil

	if !credencialesOK {
		ventana := time.Duration(s.cfg.LoginWindowHours) * time.Hour
		n, ferr := s.intentos.RegistrarFallo(ctx, meta.IP, ventana)
		if ferr != nil {
			return nil, ferr
		}
		if n >= int64(s.cfg.LoginMaxAttempts) {
			duracion := time.Duration(s.cfg.LoginBlockHours) * time.Hour
			if berr := s.intentos.Bloquear(ctx, meta.IP, meta.Fingerprint, duracion); berr != nil {
				return nil, berr
			}
			log.Warn().
				Str("ip", meta.IP).
				Int64("intentos", n).
				Msg("login bloqueado por intentos fallidos")
			return nil, apierror.Blocked()
		}
		return nil, apierror.Unauthorized("Usuario o contraseña incorrectos")
	}

	if err := s.intentos.Reset(ctx, meta.IP); err != nil {
		log.Warn().Err(err).Str("ip", meta.IP).Msg("no se pudo resetear el contador de intentos")
	}

	// Regenerate the session id: any previously presented session dies here.
	if meta.SesionAnterior != "" {
		_ = s.sesiones.Destroy(ctx, meta.SesionAnterior)
	}
	sid, err := s.sesiones.Create(ctx, user.Username)
	if err != nil {
		return nil, err
	}

	token, err := s.firmarToken(sid)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Success:  true,
		Message:  "Inicio de sesion exitoso",
		Redirect: "/admin",
		Token:    token,
	}, nil
}

func (s *authService) Logout(ctx context.Context, sid string) error {
	if sid == "" {
		return errors.New("sesion vacia")
	}
	return s.sesiones.Destroy(ctx, sid)
}

// firmarToken wraps the session id in a signed HS256 token. Only the sid
// travels in the cookie; the logged-in state lives server-side.
func (s *authService) firmarToken(sid string) (string, error) {
	claims := jwt.MapClaims{
		"sid": sid,
		"exp": time.Now().Add(time.Duration(s.cfg.SessionTTLHours) * time.Hour).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.SessionSecret))
}
