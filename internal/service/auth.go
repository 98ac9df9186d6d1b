package service

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	jwtmanager "github.com/morf1lo/jwt-pair-manager"
	"github.com/teDdyMucho/connectlove-sub001/internal/dto"
	"github.com/teDdyMucho/connectlove-sub001/internal/model"
	"github.com/teDdyMucho/connectlove-sub001/internal/repository"
	"github.com/teDdyMucho/connectlove-sub001/internal/repository/redisrepo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	ACCESS_TOKEN_EXPIRY  = time.Hour * 3
	REFRESH_TOKEN_EXPIRY = time.Hour * 24 * 7 * 2
)

type authService struct {
	logger      *zap.Logger
	repo        *repository.Repository
	userService User
}

func newAuthService(logger *zap.Logger, repo *repository.Repository, userService User) Auth {
	return &authService{
		logger:      logger,
		repo:        repo,
		userService: userService,
	}
}

func (s *authService) SignUp(ctx context.Context, createUserDto dto.CreateUserDto) (*dto.GetUserDto, *jwtmanager.JWTPair, error) {
	createUserDto.Email = strings.TrimSpace(strings.ToLower(createUserDto.Email))
	createUserDto.Username = strings.TrimSpace(strings.ToLower(createUserDto.Username))

	if strings.ContainsAny(createUserDto.Username, "!@#№$;%^:&?*()-/\\|,<>`~+= ") {
		return nil, nil, ErrUsernameCannotContainSpecialCharacters
	}

	existing, err := s.repo.Postgres.User.FindByEmailOrUsername(ctx, createUserDto.Email, createUserDto.Username)
	if err != nil && err != pgx.ErrNoRows {
		s.logger.Sugar().Errorf("failed to get user(email: %s or username: %s) from postgres: %s", createUserDto.Email, createUserDto.Username, err.Error())
		return nil, nil, ErrInternal
	}
	if existing != nil {
		return nil, nil, ErrUserAlreadyExists
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(createUserDto.Password), 10)
	if err != nil {
		s.logger.Sugar().Errorf("failed to generate password hash: %s", err.Error())
		return nil, nil, ErrInternal
	}

	newUser := model.User{
		Email:        createUserDto.Email,
		Username:     createUserDto.Username,
		PasswordHash: string(passwordHash),
	}
	createdUser, err := s.repo.Postgres.User.Create(ctx, newUser)
	if err != nil {
		s.logger.Sugar().Errorf("failed to create user in postgres: %s", err.Error())
		return nil, nil, ErrInternal
	}

	jwtPair, err := s.generateJWTPair(createdUser.ID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to generate jwt pair: %s", err.Error())
		return nil, nil, ErrInternal
	}

	return dto.GetUserDtoFromUser(*createdUser), jwtPair, nil
}

func (s *authService) SignIn(ctx context.Context, signInDto dto.SignInDto) (*dto.GetUserDto, *jwtmanager.JWTPair, error) {
	signInDto.EmailOrUsername = strings.TrimSpace(strings.ToLower(signInDto.EmailOrUsername))

	user, err := s.repo.Postgres.User.FindByEmailOrUsername(ctx, signInDto.EmailOrUsername, signInDto.EmailOrUsername)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil, ErrInvalidCredentials
		}

		s.logger.Sugar().Errorf("failed to get user(email or username: %s) from postgres: %s", signInDto.EmailOrUsername, err.Error())
		return nil, nil, ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(signInDto.Password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	jwtPair, err := s.generateJWTPair(user.ID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to generate jwt pair: %s", err.Error())
		return nil, nil, ErrInternal
	}

	return dto.GetUserDtoFromUser(*user), jwtPair, nil
}

func (s *authService) RefreshTokens(ctx context.Context, refreshToken string) (*jwtmanager.JWTPair, error) {
	decodedToken, err := jwtmanager.DecodeJWT(refreshToken, []byte(os.Getenv("REFRESH_SECRET")))
	if err != nil {
		return nil, ErrUnauthorized
	}

	id, exists := decodedToken["id"].(string)
	if !exists {
		return nil, ErrUnauthorized
	}

	userID, err := uuid.ParseBytes([]byte(id))
	if err != nil {
		return nil, ErrUnauthorized
	}

	user, err := s.userService.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	jwtPair, err := s.generateJWTPair(user.ID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to generate jwt pair: %s", err.Error())
		return nil, ErrInternal
	}

	return jwtPair, nil
}

// SignOut drops the user's cached profile so a stale copy does not outlive
// the session. The tokens themselves expire on their own.
func (s *authService) SignOut(ctx context.Context, userID uuid.UUID) {
	if s.repo.Redis == nil {
		return
	}

	if err := s.repo.Redis.Default.Del(ctx, redisrepo.UserKey(userID.String())).Err(); err != nil {
		s.logger.Sugar().Errorf("failed to delete user(%s) from redis: %s", userID.String(), err.Error())
	}
}

func (s *authService) generateJWTPair(userID uuid.UUID) (*jwtmanager.JWTPair, error) {
	return jwtmanager.GenerateJWTPair(jwtmanager.GenerateJWTPairData{
		AccessMethod: jwt.SigningMethodHS256,
		AccessSecret: []byte(os.Getenv("ACCESS_SECRET")),
		AccessClaims: jwt.MapClaims{
			"id": userID.String(),
		},
		AccessExpiry:  ACCESS_TOKEN_EXPIRY,
		RefreshMethod: jwt.SigningMethodHS256,
		RefreshSecret: []byte(os.Getenv("REFRESH_SECRET")),
		RefreshClaims: jwt.MapClaims{
			"id": userID.String(),
		},
		RefreshExpiry: REFRESH_TOKEN_EXPIRY,
	})
}
