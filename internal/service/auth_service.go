package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"clinicboard/internal/model"
	"clinicboard/internal/util"
)

// AccountStore is the slice of the user repository the auth flow needs.
type AccountStore interface {
	Create(ctx context.Context, u *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	GetWithOrganization(ctx context.Context, userID string) (*model.User, error)
}

type AuthService struct {
	users     AccountStore
	rdb       *redis.Client
	jwtSecret string
	logger    *zap.Logger
}

func NewAuthService(users AccountStore, rdb *redis.Client, jwtSecret string, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:     users,
		rdb:       rdb,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

// Register creates a new account. The account stays organization-less until
// onboarding completes.
func (s *AuthService) Register(ctx context.Context, email, password, fullName string) (*model.User, error) {
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return nil, err
	}

	if fullName == "" {
		fullName = email
	}

	u := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
	}

	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("User registered", zap.String("user_id", u.ID))
	return u, nil
}

// Login checks credentials and returns a signed token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if u == nil || !util.CheckPassword(password, u.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	return util.GenerateJWT(u.ID, s.jwtSecret)
}

// Logout revokes the token by blacklisting it until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	_, expiresAt, err := util.ParseJWT(token, s.jwtSecret)
	if err != nil {
		// an invalid token is already unusable
		return nil
	}

	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return s.rdb.Set(ctx, blacklistKey(token), "1", ttl).Err()
}

// IsTokenRevoked reports whether the token was blacklisted by a logout.
// Redis being down fails open: the token's own expiry still bounds it.
func (s *AuthService) IsTokenRevoked(ctx context.Context, token string) bool {
	n, err := s.rdb.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		s.logger.Warn("Token blacklist check failed", zap.Error(err))
		return false
	}
	return n > 0
}

// CurrentUser returns the signed-in user joined with its organization. The
// join is cached briefly; write paths invalidate it.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*model.User, error) {
	key := userCacheKey(userID)
	if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
		var u model.User
		if err := json.Unmarshal([]byte(cached), &u); err == nil {
			return &u, nil
		}
	}

	u, err := s.users.GetWithOrganization(ctx, userID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(u); err == nil {
		if err := s.rdb.Set(ctx, key, data, time.Minute).Err(); err != nil {
			s.logger.Warn("Failed to cache user lookup", zap.Error(err))
		}
	}
	return u, nil
}

func userCacheKey(userID string) string {
	return fmt.Sprintf("user_org:%s", userID)
}

func blacklistKey(token string) string {
	return fmt.Sprintf("token_blacklist:%s", token)
}

// invalidateUserCache drops the cached user+organization join after a write.
func invalidateUserCache(ctx context.Context, rdb *redis.Client, userID string) {
	_ = rdb.Del(ctx, userCacheKey(userID)).Err()
}
