// Package session persiste el registro de login del usuario y expone el
// estado Anonymous/Authenticated que consulta el cliente HTTP.
package session

import (
	"encoding/json"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"assistant-client/internal/domain"
)

// StorageKey es la unica clave usada para el registro de sesion.
const StorageKey = "user"

// State es Anonymous o Authenticated.
type State interface {
	isState()
}

type Anonymous struct{}

type Authenticated struct {
	Token   string
	Session domain.Session
}

func (Anonymous) isState()     {}
func (Authenticated) isState() {}

// Store guarda a lo sumo una sesion por perfil.
type Store struct {
	storage Storage
	logger  *zap.Logger
}

func NewStore(storage Storage, logger *zap.Logger) *Store {
	if storage == nil {
		storage = NewMemoryStorage()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{storage: storage, logger: logger}
}

// Save reemplaza cualquier sesion previa. No valida la forma del registro.
func (s *Store) Save(sess domain.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.storage.Set(StorageKey, string(data)); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// Current devuelve la sesion guardada. Un registro ausente, ilegible o un fallo
// del storage se reportan como ausencia.
func (s *Store) Current() (domain.Session, bool) {
	raw, ok, err := s.storage.Get(StorageKey)
	if err != nil {
		s.logger.Warn("session read failed", zap.Error(err))
		return domain.Session{}, false
	}
	if !ok {
		return domain.Session{}, false
	}
	var sess domain.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		s.logger.Warn("session record unparseable", zap.Error(err))
		return domain.Session{}, false
	}
	return sess, true
}

// Clear borra la sesion; es idempotente.
func (s *Store) Clear() error {
	if err := s.storage.Remove(StorageKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *Store) State() State {
	sess, ok := s.Current()
	if !ok || sess.AccessToken == "" {
		return Anonymous{}
	}
	return Authenticated{Token: sess.AccessToken, Session: sess}
}

// AccessToken implementa apiclient.TokenSource.
func (s *Store) AccessToken() (string, bool) {
	if auth, ok := s.State().(Authenticated); ok {
		return auth.Token, true
	}
	return "", false
}

// Subject decodifica el claim sub del access token sin verificar la firma;
// el backend emite sub = email. Devuelve "" si no hay sesion o el token no decodifica.
func (s *Store) Subject() string {
	token, ok := s.AccessToken()
	if !ok {
		return ""
	}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		s.logger.Warn("failed to decode token", zap.Error(err))
		return ""
	}
	return claims.Subject
}
