package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strings"
	"time"

	"eventnexus/internal/domain"
	"eventnexus/internal/store"
)

const (
	minPasswordLen = 8
	tokenType      = "Bearer"

	adminUserID      = "admin-1"
	adminDisplayName = "Admin User"
	regularUserName  = "Regular User"
)

type authService struct {
	signedIn       *store.Collection[domain.User]
	profiles       *ProfileStore
	hasher         domain.PasswordHasher
	tokenIssuer    domain.TokenIssuer
	emailService   domain.EmailService
	adminEmail     string
	adminHash      string
	tokenExpiry    time.Duration
	rememberExpiry time.Duration
	appURL         string
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

// AuthConfig carries the settings and collaborators of the auth service.
type AuthConfig struct {
	Adapter        *store.Adapter
	Profiles       *ProfileStore
	Hasher         domain.PasswordHasher
	TokenIssuer    domain.TokenIssuer
	EmailService   domain.EmailService
	AdminEmail     string
	AdminPassword  string
	TokenExpiry    time.Duration
	RememberExpiry time.Duration
	AppURL         string
	Logger         *slog.Logger
	Timeout        time.Duration
}

// NewAuthService creates the AuthService. The admin password is hashed once here and
// only the hash is kept.
func NewAuthService(cfg AuthConfig) (domain.AuthService, error) {
	adminHash, err := cfg.Hasher.Hash(cfg.AdminPassword)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	rememberExpiry := cfg.RememberExpiry
	if rememberExpiry < cfg.TokenExpiry {
		rememberExpiry = cfg.TokenExpiry
	}
	return &authService{
		signedIn:       store.NewCollection[domain.User](cfg.Adapter, domain.KeyAuthUser),
		profiles:       cfg.Profiles,
		hasher:         cfg.Hasher,
		tokenIssuer:    cfg.TokenIssuer,
		emailService:   cfg.EmailService,
		adminEmail:     normalizeEmail(cfg.AdminEmail),
		adminHash:      adminHash,
		tokenExpiry:    cfg.TokenExpiry,
		rememberExpiry: rememberExpiry,
		appURL:         strings.TrimSuffix(cfg.AppURL, "/"),
		logger:         logger,
		contextTimeout: cfg.Timeout,
		now:            time.Now,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Login(ctx context.Context, email, password string, rememberMe bool) (*domain.Session, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	email = normalizeEmail(email)
	var user domain.User
	switch {
	case email == s.adminEmail:
		// The admin address never falls through to the mock rule.
		if err := s.hasher.Compare(s.adminHash, password); err != nil {
			if errors.Is(err, domain.ErrInvalidCredentials) {
				return nil, false, nil
			}
			return nil, false, fmt.Errorf("check admin password: %w", err)
		}
		user = domain.User{ID: adminUserID, Email: email, Name: adminDisplayName, Role: domain.RoleAdmin}
	case strings.Contains(email, "@") && len(password) >= minPasswordLen:
		existing, found, err := s.profiles.FindByEmail(ctx, email)
		if err != nil {
			return nil, false, err
		}
		if found && existing.Role != domain.RoleAdmin {
			user = *existing
		} else {
			id, err := s.newUserID(ctx)
			if err != nil {
				return nil, false, err
			}
			user = domain.User{ID: id, Email: email, Name: regularUserName, Role: domain.RoleUser}
		}
	default:
		return nil, false, nil
	}

	expiry := s.tokenExpiry
	if rememberMe {
		expiry = s.rememberExpiry
	}
	session, err := s.signIn(ctx, user, expiry)
	if err != nil {
		return nil, false, err
	}
	return session, true, nil
}

func (s *authService) Register(ctx context.Context, in *domain.RegisterInput) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if in == nil {
		return nil, domain.ErrInvalidInput
	}
	id, err := s.newUserID(ctx)
	if err != nil {
		return nil, err
	}
	user := domain.User{
		ID:     id,
		Email:  normalizeEmail(in.Email),
		Name:   strings.TrimSpace(in.Name),
		Role:   domain.RoleUser,
		Avatar: in.Avatar,
	}
	return s.signIn(ctx, user, s.tokenExpiry)
}

// newUserID returns "user-<unix millis>", bumped until no profile uses it.
func (s *authService) newUserID(ctx context.Context) (string, error) {
	ms := s.now().UnixMilli()
	for {
		id := fmt.Sprintf("user-%d", ms)
		taken, err := s.profiles.exists(ctx, id)
		if err != nil {
			return "", fmt.Errorf("allocate user id: %w", err)
		}
		if !taken {
			return id, nil
		}
		ms++
	}
}

func (s *authService) signIn(ctx context.Context, user domain.User, expiry time.Duration) (*domain.Session, error) {
	if err := s.profiles.Save(ctx, user); err != nil {
		return nil, err
	}
	if _, err := s.signedIn.Update(ctx, func(users []domain.User) ([]domain.User, error) {
		users = slices.DeleteFunc(users, func(u domain.User) bool { return u.ID == user.ID })
		return append(users, user), nil
	}); err != nil {
		return nil, fmt.Errorf("persist signed-in user: %w", err)
	}
	token, err := s.tokenIssuer.Issue(user.ID, user.Email, []string{user.Role}, expiry)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &domain.Session{
		Token:     token,
		TokenType: tokenType,
		ExpiresAt: s.now().Add(expiry).UTC(),
		User:      &user,
	}, nil
}

func (s *authService) Logout(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	_, err := s.signedIn.Update(ctx, func(users []domain.User) ([]domain.User, error) {
		return slices.DeleteFunc(users, func(u domain.User) bool { return u.ID == userID }), nil
	})
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func (s *authService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	users, err := s.signedIn.Items(ctx)
	if err != nil {
		return nil, fmt.Errorf("load signed-in users: %w", err)
	}
	for i := range users {
		if users[i].ID == userID {
			return &users[i], nil
		}
	}
	return nil, domain.ErrUnauthenticated
}

func (s *authService) UpdateUser(ctx context.Context, userID string, patch *domain.UserPatch) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var updated domain.User
	_, err := s.signedIn.Update(ctx, func(users []domain.User) ([]domain.User, error) {
		i := slices.IndexFunc(users, func(u domain.User) bool { return u.ID == userID })
		if i < 0 {
			return nil, domain.ErrUnauthenticated
		}
		if patch != nil {
			if patch.Name != nil {
				users[i].Name = strings.TrimSpace(*patch.Name)
			}
			if patch.Email != nil {
				users[i].Email = normalizeEmail(*patch.Email)
			}
			if patch.Avatar != nil {
				users[i].Avatar = *patch.Avatar
			}
		}
		updated = users[i]
		return users, nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	if err := s.profiles.Save(ctx, updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *authService) IsAdmin(ctx context.Context, userID string) bool {
	user, err := s.CurrentUser(ctx, userID)
	if err != nil {
		return false
	}
	return user.IsAdmin()
}

func (s *authService) ResetPassword(ctx context.Context, email string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	email = normalizeEmail(email)
	if s.emailService == nil || !strings.Contains(email, "@") {
		return true, nil
	}
	data := &domain.PasswordResetEmailData{
		Email:    email,
		ResetURL: s.appURL + "/forgot-password?email=" + url.QueryEscape(email),
	}
	if err := s.emailService.SendPasswordReset(ctx, data); err != nil {
		// The caller always sees success so the response does not reveal anything.
		s.logger.WarnContext(ctx, "send password reset email", "error", err)
	}
	return true, nil
}
