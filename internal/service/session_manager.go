package service

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"docflow/internal/domain"
)

// DefaultSessionTTL es la vida acotada que se aplica al renovar la sesion
// en medios que soportan expiracion.
const DefaultSessionTTL = time.Hour

var (
	ErrEmptyToken       = errors.New("session token empty")
	ErrInvalidExpiry    = errors.New("session expiry invalid")
	ErrStoreUnavailable = errors.New("session store unavailable")
)

// Navigator ejecuta la navegacion hacia la ruta de entrada tras un logout.
type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc adapta una funcion a Navigator.
type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) { f(route) }

type SessionState int

const (
	SessionUnchecked SessionState = iota
	SessionAllowed
	SessionRedirected
)

func (s SessionState) String() string {
	switch s {
	case SessionAllowed:
		return "allowed"
	case SessionRedirected:
		return "redirected"
	default:
		return "unchecked"
	}
}

// SessionManager es la unica fuente de verdad sobre si el usuario actual
// puede ver contenido protegido. No devuelve errores para los estados
// esperados (sin sesion, sesion vencida): esos terminan en Logout.
type SessionManager struct {
	logger     *zap.Logger
	store      SessionStore
	navigator  Navigator
	entryRoute string
	ttl        time.Duration
	now        func() time.Time
}

func NewSessionManager(logger *zap.Logger, store SessionStore, navigator Navigator, entryRoute string, ttl time.Duration) *SessionManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if strings.TrimSpace(entryRoute) == "" {
		entryRoute = "/"
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionManager{
		logger:     logger,
		store:      store,
		navigator:  navigator,
		entryRoute: entryRoute,
		ttl:        ttl,
		now:        time.Now,
	}
}

// WithClock reemplaza el reloj usado para comparar la expiracion.
func (m *SessionManager) WithClock(now func() time.Time) *SessionManager {
	if now != nil {
		m.now = now
	}
	return m
}

// GetToken lee el token del medio. Un fallo de lectura cuenta como ausencia.
func (m *SessionManager) GetToken() (string, bool) {
	val, ok := m.read(SessionTokenKey)
	if !ok {
		return "", false
	}
	val = strings.TrimSpace(val)
	return val, val != ""
}

// GetExpiry lee la expiracion (milisegundos Unix). Un valor presente pero
// ilegible se informa como presente con el tiempo cero, que ya paso.
func (m *SessionManager) GetExpiry() (time.Time, bool) {
	val, ok := m.read(SessionExpiryKey)
	if !ok || strings.TrimSpace(val) == "" {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
	if err != nil {
		m.logger.Warn("session expiry unparseable", zap.Error(err))
		return time.Time{}, true
	}
	return time.UnixMilli(ms), true
}

// IsAuthenticated: hay token y (no hay expiracion o ahora < expiracion).
// Sin expiracion declarada el token vale indefinidamente.
func (m *SessionManager) IsAuthenticated() bool {
	if _, ok := m.GetToken(); !ok {
		return false
	}
	expiry, ok := m.GetExpiry()
	if !ok {
		return true
	}
	return m.now().UnixMilli() < expiry.UnixMilli()
}

// ClearSession borra token y expiracion. Sin sesion es un no-op.
func (m *SessionManager) ClearSession() error {
	if m.store == nil {
		return nil
	}
	if err := m.store.Clear(SessionTokenKey, SessionExpiryKey); err != nil {
		m.logger.Warn("session clear failed", zap.Error(err))
		return err
	}
	return nil
}

// Logout limpia la sesion y navega a la ruta de entrada.
func (m *SessionManager) Logout() {
	_ = m.ClearSession()
	m.logger.Info("session closed, redirecting", zap.String("route", m.entryRoute))
	if m.navigator != nil {
		m.navigator.Navigate(m.entryRoute)
	}
}

// Renew reemplaza token y expiracion en una sola escritura. Siempre exige
// expiracion; una sesion sin expiracion solo existe si otro escritor la dejo asi.
func (m *SessionManager) Renew(token string, expiry time.Time) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrEmptyToken
	}
	if expiry.IsZero() {
		return ErrInvalidExpiry
	}
	if m.store == nil {
		return ErrStoreUnavailable
	}
	return m.store.Set(map[string]string{
		SessionTokenKey:  token,
		SessionExpiryKey: strconv.FormatInt(expiry.UnixMilli(), 10),
	}, m.ttl)
}

// Authorize devuelve una copia de req con Authorization: Bearer <token>.
// Sin token devuelve req sin cambios y false.
func (m *SessionManager) Authorize(req *http.Request) (*http.Request, bool) {
	token, ok := m.GetToken()
	if !ok {
		return req, false
	}
	authorized := req.Clone(req.Context())
	authorized.Header.Set("Authorization", "Bearer "+token)
	return authorized, true
}

// Check resuelve UNCHECKED -> ALLOWED o UNCHECKED -> Logout().
func (m *SessionManager) Check() SessionState {
	if m.IsAuthenticated() {
		return SessionAllowed
	}
	m.Logout()
	return SessionRedirected
}

// Snapshot devuelve la sesion actual sin validarla.
func (m *SessionManager) Snapshot() domain.Session {
	var s domain.Session
	s.Token, _ = m.GetToken()
	if expiry, ok := m.GetExpiry(); ok {
		s.ExpiresAt = &expiry
	}
	return s
}

// EntryRoute es la ruta a la que navega Logout.
func (m *SessionManager) EntryRoute() string {
	return m.entryRoute
}

func (m *SessionManager) read(key string) (string, bool) {
	if m.store == nil {
		return "", false
	}
	val, ok, err := m.store.Get(key)
	if err != nil {
		m.logger.Warn("session store read failed", zap.String("key", key), zap.Error(err))
		return "", false
	}
	return val, ok
}
