package app

import (
	"context"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"talentx/internal/common"
	"talentx/internal/domain/user"
	"talentx/internal/security"
)

// AuthService registers users and issues access tokens for them.
type AuthService struct {
	users       user.Repository
	jwtProvider *security.JWTProvider
	logger      *slog.Logger
	accessTTL   time.Duration
	clock       func() time.Time
}

func NewAuthService(users user.Repository, jwtProvider *security.JWTProvider, logger *slog.Logger, accessTTL time.Duration) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{users: users, jwtProvider: jwtProvider, logger: logger, accessTTL: accessTTL, clock: time.Now}
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Role     user.Role
	Skills   string
}

type AuthResult struct {
	User      *user.User `json:"user"`
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	name := strings.TrimSpace(input.Name)
	role := user.Role(strings.ToLower(strings.TrimSpace(string(input.Role))))

	fields := map[string]string{}
	if email == "" {
		fields["email"] = "required"
	} else if _, err := mail.ParseAddress(email); err != nil {
		fields["email"] = "invalid email"
	}
	if input.Password == "" {
		fields["password"] = "required"
	}
	if name == "" {
		fields["name"] = "required"
	}
	if role == "" {
		fields["role"] = "required"
	} else if !role.Valid() {
		fields["role"] = "must be employer or talent"
	}
	if len(fields) > 0 {
		return nil, common.NewValidationError("invalid registration", fields)
	}

	hash, err := security.HashPassword(input.Password)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to hash password", err)
	}
	account := user.User{
		Email:        email,
		Name:         name,
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    s.clock().UTC(),
	}
	if role == user.RoleTalent {
		account.Skills = strings.TrimSpace(input.Skills)
	}
	created, err := s.users.Create(ctx, account)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "user registered", slog.String("user_id", created.ID.String()), slog.String("role", string(role)))
	return s.issue(created)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, common.NewValidationError("email and password are required", nil)
	}
	account, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, common.NewError(common.CodeUnauthorized, "invalid credentials", nil)
		}
		return nil, err
	}
	ok, err := security.CheckPassword(account.PasswordHash, password)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to verify password", err)
	}
	if !ok {
		return nil, common.NewError(common.CodeUnauthorized, "invalid credentials", nil)
	}
	return s.issue(account)
}

func (s *AuthService) Me(ctx context.Context, userID common.UUID) (*user.User, error) {
	account, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, common.NewError(common.CodeUnauthorized, "user not found", err)
		}
		return nil, err
	}
	return account, nil
}

func (s *AuthService) issue(account *user.User) (*AuthResult, error) {
	token, expiresAt, err := s.jwtProvider.Generate(account.ID, account.Email, string(account.Role), s.accessTTL)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to issue token", err)
	}
	return &AuthResult{User: account, Token: token, ExpiresAt: expiresAt}, nil
}
