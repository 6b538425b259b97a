package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"assistant-client/internal/apiclient"
	"assistant-client/internal/domain"
)

// SessionWriter es la parte del session store que necesita el login.
type SessionWriter interface {
	Save(sess domain.Session) error
	Clear() error
}

// AuthService expone /auth/register y /auth/login.
type AuthService struct {
	client   *apiclient.Client
	sessions SessionWriter
	logger   *zap.Logger
}

func NewAuthService(client *apiclient.Client, sessions SessionWriter, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{client: client, sessions: sessions, logger: logger}
}

// ErrMissingAccessToken indica un login 2xx sin access_token en el cuerpo.
var ErrMissingAccessToken = fmt.Errorf("%w: login response without access_token", apiclient.ErrUnexpectedResponse)

// Register envia las credenciales como JSON.
func (s *AuthService) Register(ctx context.Context, email, password string) (domain.RegisteredUser, error) {
	var out domain.RegisteredUser
	err := s.client.DoJSON(ctx, apiclient.Request{
		Method:    http.MethodPost,
		Path:      "/auth/register",
		JSON:      domain.Credentials{Email: email, Password: password},
		Anonymous: true,
	}, &out)
	return out, err
}

// Login envia username/password form-encoded, como exige el backend.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.Session, error) {
	form := (&apiclient.Form{}).
		Add("username", email).
		Add("password", password)
	var out domain.Session
	err := s.client.DoJSON(ctx, apiclient.Request{
		Method:    http.MethodPost,
		Path:      "/auth/login",
		Form:      form,
		Anonymous: true,
	}, &out)
	return out, err
}

// SignIn hace Login y guarda la sesion solo si trae access_token.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (domain.Session, error) {
	sess, err := s.Login(ctx, email, password)
	if err != nil {
		return domain.Session{}, err
	}
	if sess.AccessToken == "" {
		return domain.Session{}, ErrMissingAccessToken
	}
	if s.sessions == nil {
		return domain.Session{}, errors.New("auth service without session store")
	}
	if err := s.sessions.Save(sess); err != nil {
		return domain.Session{}, err
	}
	s.logger.Info("signed in", zap.String("email", email))
	return sess, nil
}

// SignOut borra la sesion local; el backend no tiene endpoint de logout.
func (s *AuthService) SignOut() error {
	if s.sessions == nil {
		return nil
	}
	return s.sessions.Clear()
}
