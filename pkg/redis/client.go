package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/opsalert/dispatch-console/environments"
	"github.com/opsalert/dispatch-console/internal/domain"
	"github.com/opsalert/dispatch-console/pkg/logger"
)

type Client struct {
	client     valkey.Client
	profileTTL time.Duration
}

const (
	profileKeyPrefix  = "user_profile:"
	defaultProfileTTL = 5 * time.Minute
)

func NewRedisClient(cfg environments.RedisConfig) (*Client, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)},
		Password:    cfg.Password,
		SelectDB:    cfg.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Valkey client: %w", err)
	}

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()

		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Infof("Connected to Redis (via Valkey client)")

	ttl := cfg.ProfileTTL
	if ttl <= 0 {
		ttl = defaultProfileTTL
	}

	return &Client{client: client, profileTTL: ttl}, nil
}

func profileKey(userID string) string {
	return profileKeyPrefix + userID
}

// CacheProfile stores the tenant/region profile of a user for the configured TTL.
func (c *Client) CacheProfile(ctx context.Context, userID string, profile *domain.UserProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	err = c.client.Do(ctx, c.client.B().Set().Key(profileKey(userID)).Value(string(data)).Ex(c.profileTTL).Build()).Error()
	if err != nil {
		return fmt.Errorf("failed to cache profile: %w", err)
	}

	logger.Debugf("Cached profile for user %s", userID)

	return nil
}

// GetCachedProfile returns nil, nil on a cache miss.
func (c *Client) GetCachedProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	result := c.client.Do(ctx, c.client.B().Get().Key(profileKey(userID)).Build())
	if result.Error() != nil {
		if valkey.IsValkeyNil(result.Error()) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cached profile: %w", result.Error())
	}

	data, err := result.ToString()
	if err != nil {
		return nil, fmt.Errorf("failed to read cached profile: %w", err)
	}

	var profile domain.UserProfile
	if err := json.Unmarshal([]byte(data), &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}

	return &profile, nil
}

func (c *Client) Close() error {
	c.client.Close()
	return nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.client.Do(ctx, c.client.B().Ping().Build()).Error()
}
