package service

import (
	"context"
	"errors"

	"github.com/opsalert/dispatch-console/internal/domain"
	"github.com/opsalert/dispatch-console/pkg/logger"
)

// ErrProfileIncomplete means no tenant could be found for the caller, neither
// in the token nor in the users table.
var ErrProfileIncomplete = errors.New("user profile incomplete (no tenant)")

type profileStore interface {
	GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error)
}

type profileCache interface {
	GetCachedProfile(ctx context.Context, userID string) (*domain.UserProfile, error)
	CacheProfile(ctx context.Context, userID string, profile *domain.UserProfile) error
}

type IdentityResolver struct {
	store profileStore
	cache profileCache
}

func NewIdentityResolver(store profileStore) *IdentityResolver {
	return &IdentityResolver{store: store}
}

// UseCache puts a read-through profile cache in front of the users table.
func (r *IdentityResolver) UseCache(cache profileCache) {
	r.cache = cache
}

// Resolve returns the effective tenant and region of p. Claims present in
// the token are used as-is; otherwise the stored profile fills the gaps,
// taking precedence over a partial claim.
func (r *IdentityResolver) Resolve(ctx context.Context, p domain.Principal) (domain.Identity, error) {
	id := domain.Identity{TenantID: p.TenantID, Region: p.Region}
	if id.TenantID != "" && id.Region != "" {
		return id, nil
	}

	profile := r.lookup(ctx, p.ID)
	if profile != nil {
		if profile.TenantID != "" {
			id.TenantID = profile.TenantID
		}
		if profile.Regional != nil && *profile.Regional != "" {
			id.Region = *profile.Regional
		}
	} else {
		logger.Warnf("No profile found for user %s", p.ID)
	}

	if id.TenantID == "" {
		return domain.Identity{}, ErrProfileIncomplete
	}

	return id, nil
}

// ResolveTenant is Resolve without the region requirement: a tenant claim
// alone is enough to skip the lookup.
func (r *IdentityResolver) ResolveTenant(ctx context.Context, p domain.Principal) (string, error) {
	if p.TenantID != "" {
		return p.TenantID, nil
	}

	id, err := r.Resolve(ctx, p)
	if err != nil {
		return "", err
	}
	return id.TenantID, nil
}

func (r *IdentityResolver) lookup(ctx context.Context, userID string) *domain.UserProfile {
	if userID == "" {
		return nil
	}

	if r.cache != nil {
		cached, err := r.cache.GetCachedProfile(ctx, userID)
		if err != nil {
			logger.Warnf("Profile cache lookup failed for user %s: %v", userID, err)
		} else if cached != nil {
			return cached
		}
	}

	profile, err := r.store.GetProfile(ctx, userID)
	if err != nil {
		logger.Errorf("Failed to load profile for user %s: %v", userID, err)
		return nil
	}

	if profile != nil && r.cache != nil {
		if err := r.cache.CacheProfile(ctx, userID, profile); err != nil {
			logger.Warnf("Failed to cache profile for user %s: %v", userID, err)
		}
	}

	return profile
}

// ResolveRegion picks the region sent downstream. A list is kept verbatim;
// NACIONAL or an empty value falls back to the user's own region.
func ResolveRegion(requested domain.Regional, userRegion string) domain.Regional {
	if requested.IsList {
		return requested
	}

	if (requested.Value == domain.RegionNational || requested.IsEmpty()) && userRegion != "" {
		return domain.SingleRegion(userRegion)
	}

	return requested
}
