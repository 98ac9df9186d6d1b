package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/teDdyMucho/connectlove-sub001/internal/dto"
	"github.com/teDdyMucho/connectlove-sub001/internal/model"
	"github.com/teDdyMucho/connectlove-sub001/internal/service"
)

type supportsActInput struct {
	Action    string  `json:"action" binding:"required"`
	Creator   string  `json:"creator" binding:"required"`
	Tier      *string `json:"tier"`
	Following *bool   `json:"following"`
}

func (h *Handler) supportsAct(c *gin.Context) {
	user := h.getUser(c)

	var input supportsActInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	action := service.SupportAction{
		Kind:                service.ActionKind(input.Action),
		SupporterIdentifier: user.ID.String(),
		CreatorIdentifier:   strings.TrimSpace(input.Creator),
		SupporterName:       user.DisplayName,
		Following:           input.Following,
	}

	if input.Tier != nil {
		tier, ok := model.ParseTier(*input.Tier)
		if !ok {
			c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, service.ErrInvalidTier.Error()))
			return
		}
		action.Tier = tier
	}

	if err := h.services.Support.Act(c.Request.Context(), action); err != nil {
		var actionErr *service.ActionError
		if errors.As(err, &actionErr) {
			c.JSON(http.StatusBadGateway, dto.NewBasicResponse(false, actionErr.Message))
			return
		}

		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}

func (h *Handler) supportsMe(c *gin.Context) {
	user := h.getUser(c)

	store := h.services.Subscriptions.Store(user.ID)

	c.JSON(http.StatusOK, store.LoadAll(c.Request.Context()))
}

func (h *Handler) supportsGetOne(c *gin.Context) {
	user := h.getUser(c)

	creator := strings.TrimSpace(c.Param("creator"))
	if creator == "" {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errCreatorIsNotProvided.Error()))
		return
	}

	resolved := h.services.Identity.Resolve(c.Request.Context(), creator)
	if !service.IsCanonicalID(resolved) {
		c.JSON(http.StatusNotFound, dto.NewBasicResponse(false, service.ErrIdentityUnresolved.Error()))
		return
	}

	creatorID, err := uuid.ParseBytes([]byte(resolved))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidID.Error()))
		return
	}

	store := h.services.Subscriptions.Store(user.ID)
	record := store.LoadOne(c.Request.Context(), creatorID)

	// Viewing a creator re-scopes the realtime feed to that pair. A feed
	// outage degrades the page to load-time state only, so the error is
	// not surfaced here.
	_ = store.Track(resolved)

	c.JSON(http.StatusOK, dto.SupportViewResponse{CreatorID: resolved, Record: record, ActiveTier: store.CurrentTier(resolved)})
}
