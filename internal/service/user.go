package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/teDdyMucho/connectlove-sub001/internal/dto"
	"github.com/teDdyMucho/connectlove-sub001/internal/model"
	"github.com/teDdyMucho/connectlove-sub001/internal/repository"
	"github.com/teDdyMucho/connectlove-sub001/internal/repository/redisrepo"
	"go.uber.org/zap"
)

const (
	USER_CACHE_TTL   = time.Hour * 3
	SEARCH_CACHE_TTL = time.Minute
)

type userService struct {
	logger *zap.Logger
	repo   *repository.Repository
}

func newUserService(logger *zap.Logger, repo *repository.Repository) User {
	return &userService{
		logger: logger,
		repo:   repo,
	}
}

func (s *userService) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if s.repo.Redis != nil {
		userCache, err := redisrepo.Get[model.User](s.repo.Redis.Default, ctx, redisrepo.UserKey(id.String()))
		if err == nil && userCache != nil {
			return userCache, nil
		}
		if err != nil && err != redis.Nil {
			s.logger.Sugar().Errorf("failed to get user(%s) from redis: %s", id.String(), err.Error())
		}
	}

	user, err := s.repo.Postgres.User.FindByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrUserNotFound
		}

		s.logger.Sugar().Errorf("failed to find user(%s) in postgres: %s", id.String(), err.Error())
		return nil, ErrInternal
	}

	if s.repo.Redis != nil {
		if err := s.repo.Redis.Default.SetJSON(ctx, redisrepo.UserKey(id.String()), user, USER_CACHE_TTL); err != nil {
			s.logger.Sugar().Errorf("failed to set user(%s) in redis: %s", id.String(), err.Error())
		}
	}

	return user, nil
}

func (s *userService) FindByUsername(ctx context.Context, username string) (*dto.GetUserDto, error) {
	user, err := s.repo.Postgres.User.FindByUsername(ctx, username)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrUserNotFound
		}

		s.logger.Sugar().Errorf("failed to find user(%s) in postgres: %s", username, err.Error())
		return nil, ErrInternal
	}

	return dto.GetUserDtoFromUser(*user), nil
}

func (s *userService) SearchByUsername(ctx context.Context, username string, limit int, offset int) ([]*dto.GetUserDto, error) {
	cacheKey := redisrepo.SearchResultsKey(username, limit, offset)
	if s.repo.Redis != nil {
		resultsCache, err := redisrepo.GetMany[dto.GetUserDto](s.repo.Redis.Default, ctx, cacheKey)
		if err == nil {
			return resultsCache, nil
		}
		if err != redis.Nil {
			s.logger.Sugar().Errorf("failed to get search results(%s) from redis: %s", cacheKey, err.Error())
		}
	}

	users, err := s.repo.Postgres.User.SearchByUsername(ctx, username, limit, offset)
	if err != nil {
		s.logger.Sugar().Errorf("failed to search users(%s) in postgres: %s", username, err.Error())
		return nil, ErrInternal
	}

	results := make([]*dto.GetUserDto, 0, len(users))
	for _, user := range users {
		results = append(results, dto.GetUserDtoFromUser(*user))
	}

	if s.repo.Redis != nil {
		if err := s.repo.Redis.Default.SetJSON(ctx, cacheKey, results, SEARCH_CACHE_TTL); err != nil {
			s.logger.Sugar().Errorf("failed to set search results(%s) in redis: %s", cacheKey, err.Error())
		}
	}

	return results, nil
}
