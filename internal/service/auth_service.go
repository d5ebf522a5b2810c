package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"findmyspace/internal/db"
	"findmyspace/internal/entities"
	apperrors "findmyspace/internal/errors"
	"findmyspace/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	activationTTL = 24 * time.Hour
	resetTTL      = time.Hour
)

var ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", apperrors.ErrUnauthenticated)

// TokenIssuer signs session tokens. *auth.Tokens implements it.
type TokenIssuer interface {
	Issue(userID int64, email string) (string, error)
}

// AccountNotifier sends the activation and reset messages. *SenderService implements it.
type AccountNotifier interface {
	SendActivation(ctx context.Context, to Recipient, link string, expires time.Time) error
	SendPasswordReset(ctx context.Context, to Recipient, link string, expires time.Time) error
}

type AuthService interface {
	Register(ctx context.Context, req entities.RegisterRequest) (int64, error)
	Activate(ctx context.Context, token string) error
	Login(ctx context.Context, req entities.LoginRequest) (*entities.LoginResponse, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req entities.ResetPasswordRequest) error
}

type authService struct {
	repo     repository.UsuarioRepository
	tokens   TokenIssuer
	notifier AccountNotifier
	baseURL  string
	logger   *zap.Logger
	now      func() time.Time
}

func NewAuthService(repo repository.UsuarioRepository, tokens TokenIssuer, notifier AccountNotifier, baseURL string, logger *zap.Logger) AuthService {
	return &authService{repo: repo, tokens: tokens, notifier: notifier, baseURL: baseURL, logger: logger, now: time.Now}
}

func (s *authService) Register(ctx context.Context, req entities.RegisterRequest) (int64, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return 0, err
	}
	hash, err := hashPassword(req.Password)
	if err != nil {
		return 0, err
	}
	id, err := s.repo.Create(ctx, db.Usuario{
		Nombre:       req.Nombre,
		Email:        req.Email,
		Telefono:     sql.NullString{String: req.Telefono, Valid: req.Telefono != ""},
		PasswordHash: hash,
	})
	if err != nil {
		return 0, err
	}

	token, expires, err := s.newToken(ctx, id, db.TokenActivation, activationTTL)
	if err != nil {
		return 0, err
	}
	link := fmt.Sprintf("%s/activar/%s", s.baseURL, token)
	to := Recipient{Nombre: req.Nombre, Email: req.Email, Telefono: req.Telefono}
	// la cuenta queda creada aunque falle el correo; se puede pedir otro enlace
	if err := s.notifier.SendActivation(ctx, to, link, expires); err != nil {
		s.logger.Error("activation email failed", zap.Int64("usuario_id", id), zap.Error(err))
	}
	s.logger.Info("account registered", zap.Int64("usuario_id", id))
	return id, nil
}

func (s *authService) Activate(ctx context.Context, token string) error {
	id, err := s.repo.ConsumeToken(ctx, token, db.TokenActivation)
	if err != nil {
		return err
	}
	if err := s.repo.Activate(ctx, id); err != nil {
		return err
	}
	s.logger.Info("account activated", zap.Int64("usuario_id", id))
	return nil
}

func (s *authService) Login(ctx context.Context, req entities.LoginRequest) (*entities.LoginResponse, error) {
	u, err := s.repo.GetByEmail(ctx, normalizeEmail(req.Email))
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !checkPasswordHash(req.Password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if !u.Activo {
		return nil, fmt.Errorf("account not activated: %w", apperrors.ErrForbidden)
	}
	token, err := s.tokens.Issue(u.ID, u.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &entities.LoginResponse{Token: token, Usuario: toUser(u)}, nil
}

// ForgotPassword sends a reset link. Unknown addresses succeed silently.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, apperrors.ErrNotFound) {
		s.logger.Debug("password reset for unknown email")
		return nil
	}
	if err != nil {
		return err
	}
	token, expires, err := s.newToken(ctx, u.ID, db.TokenReset, resetTTL)
	if err != nil {
		return err
	}
	link := fmt.Sprintf("%s/restablecer/%s", s.baseURL, token)
	to := Recipient{Nombre: u.Nombre, Email: u.Email, Telefono: u.Telefono.String}
	if err := s.notifier.SendPasswordReset(ctx, to, link, expires); err != nil {
		return fmt.Errorf("send password reset: %w", err)
	}
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, req entities.ResetPasswordRequest) error {
	if err := entities.ValidatePassword(req.Password); err != nil {
		return err
	}
	id, err := s.repo.ConsumeToken(ctx, req.Token, db.TokenReset)
	if err != nil {
		return err
	}
	hash, err := hashPassword(req.Password)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, id, hash)
}

func (s *authService) newToken(ctx context.Context, userID int64, tipo string, ttl time.Duration) (string, time.Time, error) {
	token := uuid.NewString()
	expires := s.now().Add(ttl)
	if err := s.repo.CreateToken(ctx, db.Token{Token: token, UsuarioID: userID, Tipo: tipo, ExpiraEn: expires}); err != nil {
		return "", time.Time{}, err
	}
	return token, expires, nil
}

func toUser(u *db.Usuario) entities.User {
	return entities.User{ID: u.ID, Nombre: u.Nombre, Email: u.Email, Telefono: u.Telefono.String, Activo: u.Activo}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func checkPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
