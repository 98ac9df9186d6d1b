package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/teDdyMucho/connectlove-sub001/internal/dto"
	"github.com/teDdyMucho/connectlove-sub001/internal/model"
	"go.uber.org/zap"
)

type ActionKind string

const (
	ActionFollow    ActionKind = "follow"
	ActionUnfollow  ActionKind = "unfollow"
	ActionSubscribe ActionKind = "subscribe"
	ActionUpgrade   ActionKind = "upgrade"
)

// SupportAction describes one user-initiated support operation. Identifiers
// may be emails, usernames or canonical ids; both are resolved before
// anything is sent. Tier is only read for subscribe/upgrade. Following
// optionally overrides the subscribe/upgrade default of true.
type SupportAction struct {
	Kind                ActionKind
	SupporterIdentifier string
	CreatorIdentifier   string
	SupporterName       *string
	CreatorName         *string
	Tier                model.Tier
	Following           *bool
}

type supportService struct {
	logger        *zap.Logger
	identity      Identity
	subscriptions Subscriptions
	sender        ActionSender
}

func newSupportService(logger *zap.Logger, identity Identity, subscriptions Subscriptions, sender ActionSender) Support {
	return &supportService{
		logger:        logger,
		identity:      identity,
		subscriptions: subscriptions,
		sender:        sender,
	}
}

// Act resolves both identities, submits the action to the external endpoint
// and, on success, folds the intended effect into the viewer's subscription
// store. Resolution failures abort before any write. Endpoint failures leave
// the store untouched and come back as an ActionError value.
func (s *supportService) Act(ctx context.Context, action SupportAction) error {
	supporterID := s.identity.Resolve(ctx, action.SupporterIdentifier)
	if !IsCanonicalID(supporterID) {
		return ErrIdentityUnresolved
	}

	creatorID := s.identity.Resolve(ctx, action.CreatorIdentifier)
	if !IsCanonicalID(creatorID) {
		return ErrIdentityUnresolved
	}

	request := dto.SupportActionRequest{
		SupporterID:   supporterID,
		CreatorID:     creatorID,
		SupporterName: action.SupporterName,
		CreatorName:   action.CreatorName,
	}

	switch action.Kind {
	case ActionFollow:
		request.Following = true
	case ActionUnfollow:
		// No tier key: unfollowing must not erase a paid tier.
		request.Following = false
	case ActionSubscribe, ActionUpgrade:
		if !action.Tier.Valid() {
			return ErrInvalidTier
		}
		tier := action.Tier
		request.Tier = &tier
		// Subscribing implicitly re-follows unless the caller says otherwise.
		request.Following = true
		if action.Following != nil {
			request.Following = *action.Following
		}
	default:
		return ErrUnknownAction
	}

	result, err := s.sender.SendSupportAction(ctx, request)
	if err != nil {
		s.logger.Sugar().Errorf("support action %s (%s -> %s) failed: %s", action.Kind, supporterID, creatorID, err.Error())
		return &ActionError{Message: genericActionErrMessage}
	}
	if !result.Success {
		message := result.Message
		if message == "" {
			message = genericActionErrMessage
		}
		return &ActionError{Message: message}
	}

	supporterUUID, err := uuid.Parse(supporterID)
	if err != nil {
		return ErrIdentityUnresolved
	}

	now := time.Now()
	patch := RecordPatch{Following: &request.Following, CreatedAt: &now}
	if request.Tier != nil {
		patch.Tier = request.Tier
	}
	s.subscriptions.Store(supporterUUID).ApplyOptimistic(creatorID, patch)

	return nil
}
