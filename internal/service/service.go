package service

import (
	"context"

	"github.com/google/uuid"
	jwtmanager "github.com/morf1lo/jwt-pair-manager"
	"github.com/teDdyMucho/connectlove-sub001/internal/dto"
	"github.com/teDdyMucho/connectlove-sub001/internal/model"
	"github.com/teDdyMucho/connectlove-sub001/internal/repository"
	"github.com/teDdyMucho/connectlove-sub001/internal/webhook"
	"go.uber.org/zap"
)

type Auth interface {
	SignUp(ctx context.Context, createUserDto dto.CreateUserDto) (*dto.GetUserDto, *jwtmanager.JWTPair, error)
	SignIn(ctx context.Context, signInDto dto.SignInDto) (*dto.GetUserDto, *jwtmanager.JWTPair, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*jwtmanager.JWTPair, error)
	SignOut(ctx context.Context, userID uuid.UUID)
}

type User interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*dto.GetUserDto, error)
	SearchByUsername(ctx context.Context, username string, limit int, offset int) ([]*dto.GetUserDto, error)
}

type Identity interface {
	Resolve(ctx context.Context, identifier string) string
}

type Subscriptions interface {
	Store(supporterID uuid.UUID) *SubscriptionStore
	Release(supporterID uuid.UUID)
}

type Support interface {
	Act(ctx context.Context, action SupportAction) error
}

// ChangeFeed streams backend changes of the supports table scoped to one
// (supporter, creator) pair. The returned function releases the subscription.
type ChangeFeed interface {
	Subscribe(supporterID string, creatorID string) (<-chan model.SupportEvent, func(), error)
}

// ActionSender submits a support action to the external action endpoint.
type ActionSender interface {
	SendSupportAction(ctx context.Context, action dto.SupportActionRequest) (*webhook.Result, error)
}

type Service struct {
	Auth
	User
	Identity
	Subscriptions
	Support
}

func New(logger *zap.Logger, repo *repository.Repository, feed ChangeFeed, sender ActionSender) *Service {
	userService := newUserService(logger, repo)
	identityService := newIdentityService(logger, repo)
	subscriptionService := newSubscriptionService(logger, repo, feed)
	return &Service{
		Auth:          newAuthService(logger, repo, userService),
		User:          userService,
		Identity:      identityService,
		Subscriptions: subscriptionService,
		Support:       newSupportService(logger, identityService, subscriptionService, sender),
	}
}
