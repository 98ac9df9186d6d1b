package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/teDdyMucho/connectlove-sub001/internal/repository"
	"github.com/teDdyMucho/connectlove-sub001/internal/repository/redisrepo"
	"go.uber.org/zap"
)

const RESOLVED_ID_TTL = time.Minute * 15

var canonicalIDPattern = regexp.MustCompile("^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$")

// IsCanonicalID reports whether identifier already has the backend's
// primary-key shape: 8-4-4-4-12 hexadecimal groups, case-insensitive.
func IsCanonicalID(identifier string) bool {
	return canonicalIDPattern.MatchString(identifier)
}

type identityService struct {
	logger *zap.Logger
	repo   *repository.Repository
}

func newIdentityService(logger *zap.Logger, repo *repository.Repository) Identity {
	return &identityService{
		logger: logger,
		repo:   repo,
	}
}

// Resolve maps a human-entered identifier (email, username or id in some
// other encoding) to the backend's canonical row id. Strategies run in a
// fixed order, stopping at the first match: email lookup (only when the
// identifier contains '@'), then username, then direct id. A lookup error
// counts as "no match" and falls through to the next strategy. When nothing
// matches the identifier is returned unchanged; callers must treat a
// non-canonical return value as a resolution failure and abort.
func (s *identityService) Resolve(ctx context.Context, identifier string) string {
	if IsCanonicalID(identifier) {
		return identifier
	}

	if cached := s.cachedResolution(ctx, identifier); cached != "" {
		return cached
	}

	if strings.Contains(identifier, "@") {
		user, err := s.repo.Postgres.User.FindByEmail(ctx, identifier)
		if err == nil && user != nil && user.ID != uuid.Nil {
			return s.remember(ctx, identifier, user.ID.String())
		}
		s.logLookupMiss("email", identifier, err)
	}

	user, err := s.repo.Postgres.User.FindByUsername(ctx, identifier)
	if err == nil && user != nil && user.ID != uuid.Nil {
		return s.remember(ctx, identifier, user.ID.String())
	}
	s.logLookupMiss("username", identifier, err)

	if directID, parseErr := uuid.Parse(identifier); parseErr == nil {
		user, err := s.repo.Postgres.User.FindByID(ctx, directID)
		if err == nil && user != nil && user.ID != uuid.Nil {
			return s.remember(ctx, identifier, user.ID.String())
		}
		s.logLookupMiss("id", identifier, err)
	}

	return identifier
}

func (s *identityService) logLookupMiss(strategy string, identifier string, err error) {
	if err != nil && err != pgx.ErrNoRows {
		s.logger.Sugar().Warnf("identity %s lookup for (%s) failed: %s", strategy, identifier, err.Error())
	}
}

func (s *identityService) cachedResolution(ctx context.Context, identifier string) string {
	if s.repo.Redis == nil {
		return ""
	}

	value, err := s.repo.Redis.Default.Get(ctx, redisrepo.ResolvedIDKey(identifier)).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Sugar().Warnf("failed to get resolved id for (%s) from redis: %s", identifier, err.Error())
		}
		return ""
	}

	if !IsCanonicalID(value) {
		return ""
	}

	return value
}

func (s *identityService) remember(ctx context.Context, identifier string, canonicalID string) string {
	if s.repo.Redis != nil {
		if err := s.repo.Redis.Default.Set(ctx, redisrepo.ResolvedIDKey(identifier), canonicalID, RESOLVED_ID_TTL); err != nil {
			s.logger.Sugar().Warnf("failed to cache resolved id for (%s) in redis: %s", identifier, err.Error())
		}
	}

	return canonicalID
}
