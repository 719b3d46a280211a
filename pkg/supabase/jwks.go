package supabase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/lestrrat-go/jwx/v2/jwk"

	"github.com/opsalert/dispatch-console/environments"
	"github.com/opsalert/dispatch-console/pkg/logger"
)

var ErrKeyNotFound = errors.New("signing key not found in JWKS")

// KeySet caches the JWKS published by Supabase Auth. An unknown kid triggers
// a refetch, at most once per minRefresh.
type KeySet struct {
	httpClient *resty.Client
	url        string
	minRefresh time.Duration

	mu        sync.Mutex
	set       jwk.Set
	fetchedAt time.Time
}

func NewKeySet(cfg environments.SupabaseConfig) *KeySet {
	client := resty.New().
		SetTimeout(5*time.Second).
		SetLogger(logger.Resty{}).
		SetHeader("Accept", "application/json")

	if cfg.AnonKey != "" {
		client.SetHeader("apikey", cfg.AnonKey).SetAuthToken(cfg.AnonKey)
	}

	return &KeySet{
		httpClient: client,
		url:        cfg.JWKSURL,
		minRefresh: cfg.JWKSMinRefresh,
	}
}

// Key returns the raw public key for kid. An empty kid matches the only key
// of a single-key set.
func (k *KeySet) Key(ctx context.Context, kid string) (any, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if key, ok := lookup(k.set, kid); ok {
		return rawKey(key)
	}

	if k.set != nil && time.Since(k.fetchedAt) < k.minRefresh {
		return nil, fmt.Errorf("kid %q: %w", kid, ErrKeyNotFound)
	}

	set, err := k.fetch(ctx)
	if err != nil {
		return nil, err
	}
	k.set = set
	k.fetchedAt = time.Now()

	key, ok := lookup(set, kid)
	if !ok {
		return nil, fmt.Errorf("kid %q: %w", kid, ErrKeyNotFound)
	}

	return rawKey(key)
}

func (k *KeySet) fetch(ctx context.Context) (jwk.Set, error) {
	if k.url == "" {
		return nil, fmt.Errorf("JWKS URL is not configured")
	}

	resp, err := k.httpClient.R().SetContext(ctx).Get(k.url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch JWKS: %w", err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("failed to fetch JWKS: status %d", resp.StatusCode())
	}

	set, err := jwk.Parse(resp.Body())
	if err != nil {
		return nil, fmt.Errorf("failed to parse JWKS: %w", err)
	}

	logger.Debugf("Fetched JWKS with %d keys", set.Len())

	return set, nil
}

func lookup(set jwk.Set, kid string) (jwk.Key, bool) {
	if set == nil {
		return nil, false
	}
	if kid == "" {
		if set.Len() == 1 {
			return set.Key(0)
		}
		return nil, false
	}
	return set.LookupKeyID(kid)
}

func rawKey(key jwk.Key) (any, error) {
	var raw any
	if err := key.Raw(&raw); err != nil {
		return nil, fmt.Errorf("failed to materialize JWK: %w", err)
	}
	return raw, nil
}
