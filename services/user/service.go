package user

import (
	"context"
	"strings"
	"time"

	"mothernatural-backend/pkg/config"
	"mothernatural-backend/pkg/errutil"
	"mothernatural-backend/pkg/middleware"
	"mothernatural-backend/pkg/repository"
	"mothernatural-backend/services/settings"

	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Service struct {
	db       *gorm.DB
	cfg      *config.Config
	repo     repository.Repository[User]
	settings *settings.Service
}

type ServiceParams struct {
	fx.In
	DB       *gorm.DB
	Config   *config.Config
	Settings *settings.Service
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:       p.DB,
		cfg:      p.Config,
		repo:     repository.ProvideStore[User](p.DB),
		settings: p.Settings,
	}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	email := normalizeEmail(req.Email)

	existing, err := s.repo.FindOne(ctx, &User{Email: email})
	if err != nil {
		return nil, errutil.Internal("failed to check existing account", err)
	}
	if existing != nil {
		return nil, errutil.Conflict("an account with this email already exists", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errutil.Internal("failed to hash password", err)
	}

	now := time.Now()
	record := &User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         RoleMember,
		Provider:     "password",
		LastSignInAt: &now,
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, errutil.Internal("failed to create account", err)
	}

	s.awardSignInPoints(ctx, record)

	return s.authResponse(record)
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	record, err := s.repo.FindOne(ctx, &User{Email: normalizeEmail(req.Email)})
	if err != nil {
		return nil, errutil.Internal("failed to load account", err)
	}
	if record == nil || record.PasswordHash == "" {
		return nil, errutil.Unauthorized("invalid email or password", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(record.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errutil.Unauthorized("invalid email or password", nil)
	}

	now := time.Now()
	record.LastSignInAt = &now
	if err := s.repo.Update(ctx, record.ID, &User{LastSignInAt: &now}); err != nil {
		zap.L().Warn("failed to record sign-in time", zap.Error(err), zap.String("user_id", record.ID))
	}

	s.awardSignInPoints(ctx, record)

	return s.authResponse(record)
}

type SyncRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name"`
	Provider string `json:"provider"`
}

// Sync upserts an account authenticated by an external identity
// provider and issues a local token for it.
func (s *Service) Sync(ctx context.Context, req *SyncRequest) (*AuthResponse, error) {
	email := normalizeEmail(req.Email)

	record, err := s.repo.FindOne(ctx, &User{Email: email})
	if err != nil {
		return nil, errutil.Internal("failed to load account", err)
	}

	now := time.Now()
	if record == nil {
		record = &User{
			ID:           uuid.NewString(),
			Name:         strings.TrimSpace(req.Name),
			Email:        email,
			Role:         RoleMember,
			Provider:     req.Provider,
			LastSignInAt: &now,
		}
		if record.Provider == "" {
			record.Provider = "external"
		}
		if err := s.repo.Create(ctx, record); err != nil {
			return nil, errutil.Internal("failed to create account", err)
		}
	} else {
		patch := &User{LastSignInAt: &now}
		if req.Name != "" && req.Name != record.Name {
			patch.Name = req.Name
			record.Name = req.Name
		}
		record.LastSignInAt = &now
		if err := s.repo.Update(ctx, record.ID, patch); err != nil {
			zap.L().Warn("failed to sync account", zap.Error(err), zap.String("user_id", record.ID))
		}
	}

	s.awardSignInPoints(ctx, record)

	return s.authResponse(record)
}

// Get returns a single account by id.
func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	record, err := s.repo.FindOne(ctx, &User{ID: id})
	if err != nil {
		return nil, errutil.Internal("failed to load account", err)
	}
	if record == nil {
		return nil, errutil.NotFound("user not found", nil)
	}
	return record, nil
}

// GetByEmail returns a single account by email, or nil when absent.
func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	record, err := s.repo.FindOne(ctx, &User{Email: normalizeEmail(email)})
	if err != nil {
		return nil, errutil.Internal("failed to load account", err)
	}
	return record, nil
}

// List returns every account, newest first.
func (s *Service) List(ctx context.Context) ([]User, error) {
	var users []User
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, errutil.Internal("failed to list users", err)
	}
	return users, nil
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin member"`
}

func (s *Service) UpdateRole(ctx context.Context, id string, req *UpdateRoleRequest) (*User, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	record.Role = req.Role
	if err := s.repo.Update(ctx, id, &User{Role: req.Role}); err != nil {
		return nil, errutil.Internal("failed to update role", err)
	}
	return record, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return errutil.Internal("failed to delete user", err)
	}
	return nil
}

// awardSignInPoints credits the configured sign-in bonus. A failure
// here never blocks authentication.
func (s *Service) awardSignInPoints(ctx context.Context, record *User) {
	loyalty, err := s.settings.Loyalty(ctx)
	if err != nil {
		zap.L().Warn("failed to load loyalty settings for sign-in bonus", zap.Error(err))
		return
	}
	if loyalty.SignInPoints <= 0 {
		return
	}

	record.LoyaltyPoints += loyalty.SignInPoints
	record.TotalPointsEarned += loyalty.SignInPoints

	err = s.db.WithContext(ctx).Model(&User{}).
		Where("id = ?", record.ID).
		Updates(map[string]any{
			"loyalty_points":      gorm.Expr("loyalty_points + ?", loyalty.SignInPoints),
			"total_points_earned": gorm.Expr("total_points_earned + ?", loyalty.SignInPoints),
		}).Error
	if err != nil {
		zap.L().Warn("failed to award sign-in points", zap.Error(err), zap.String("user_id", record.ID))
	}
}

func (s *Service) authResponse(record *User) (*AuthResponse, error) {
	token, err := middleware.IssueToken(s.cfg, record.ID, record.Email, record.Role)
	if err != nil {
		return nil, errutil.Internal("failed to issue token", err)
	}
	return &AuthResponse{Token: token, User: record}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
