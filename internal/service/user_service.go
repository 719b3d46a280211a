package service

import (
	"context"
	"fmt"
	"time"

	"github.com/opsalert/dispatch-console/internal/domain"
	"github.com/opsalert/dispatch-console/pkg/logger"
	"github.com/opsalert/dispatch-console/pkg/supabase"
)

type userRepository interface {
	ListByTenant(ctx context.Context, tenantID string) ([]domain.User, error)
	GetByIDForTenant(ctx context.Context, id, tenantID string) (*domain.User, error)
	Create(ctx context.Context, user domain.User) error
	SetActive(ctx context.Context, id, tenantID string, ativo bool) error
}

type authAdmin interface {
	CreateUser(ctx context.Context, params supabase.CreateUserParams) (*supabase.AuthUser, error)
	DeleteUser(ctx context.Context, id string) error
}

type UserService struct {
	resolver identityResolver
	repo     userRepository
	auth     authAdmin
	now      func() time.Time
}

func NewUserService(resolver identityResolver, repo userRepository, auth authAdmin) *UserService {
	return &UserService{
		resolver: resolver,
		repo:     repo,
		auth:     auth,
		now:      time.Now,
	}
}

func (s *UserService) List(ctx context.Context, p domain.Principal) ([]domain.User, error) {
	tenantID, err := s.resolver.ResolveTenant(ctx, p)
	if err != nil {
		return nil, err
	}

	return s.repo.ListByTenant(ctx, tenantID)
}

// Get returns nil, nil when the user does not exist in the caller's tenant.
func (s *UserService) Get(ctx context.Context, p domain.Principal, id string) (*domain.User, error) {
	tenantID, err := s.resolver.ResolveTenant(ctx, p)
	if err != nil {
		return nil, err
	}

	return s.repo.GetByIDForTenant(ctx, id, tenantID)
}

func (s *UserService) SetActive(ctx context.Context, p domain.Principal, id string, ativo bool) (*domain.User, error) {
	tenantID, err := s.resolver.ResolveTenant(ctx, p)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetActive(ctx, id, tenantID, ativo); err != nil {
		return nil, err
	}

	return s.repo.GetByIDForTenant(ctx, id, tenantID)
}

// Register creates the auth user and its profile row in the caller's tenant.
// If the profile insert fails the auth user is deleted again.
func (s *UserService) Register(ctx context.Context, p domain.Principal, req domain.RegisterUserRequest) (*domain.User, error) {
	tenantID, err := s.resolver.ResolveTenant(ctx, p)
	if err != nil {
		return nil, err
	}

	authUser, err := s.auth.CreateUser(ctx, supabase.CreateUserParams{
		Email:        req.Email,
		Password:     req.Password,
		EmailConfirm: true,
		UserMetadata: map[string]any{
			"tenant_id":   tenantID,
			"entidade_id": tenantID,
			"role":        string(req.Role),
			"regional":    req.Regional,
		},
	})
	if err != nil {
		return nil, err
	}

	regional := req.Regional
	user := domain.User{
		ID:        authUser.ID,
		Nome:      req.Nome,
		Email:     req.Email,
		Role:      req.Role,
		Regional:  &regional,
		TenantID:  tenantID,
		Ativo:     true,
		CreatedAt: s.now().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if delErr := s.auth.DeleteUser(context.WithoutCancel(ctx), authUser.ID); delErr != nil {
			logger.Errorf("Failed to roll back auth user %s: %v", authUser.ID, delErr)
		}
		return nil, fmt.Errorf("profile creation failed: %w", err)
	}

	logger.Infof("Registered user %s in tenant %s", user.ID, tenantID)

	return &user, nil
}
