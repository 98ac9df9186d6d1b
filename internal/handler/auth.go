package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/teDdyMucho/connectlove-sub001/internal/dto"
)

func (h *Handler) authSignUp(c *gin.Context) {
	var input dto.CreateUserDto
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	user, tokenPair, err := h.services.Auth.SignUp(c.Request.Context(), input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.SetCookie("refresh_token", tokenPair.RefreshToken, int(tokenPair.RefreshTokenExp.Seconds()), "/", "localhost", true, true)

	c.JSON(http.StatusCreated, dto.AuthResponse{Ok: true, AccessToken: tokenPair.AccessToken, User: *user})
}

func (h *Handler) authSignIn(c *gin.Context) {
	var input dto.SignInDto
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	user, tokenPair, err := h.services.Auth.SignIn(c.Request.Context(), input)
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.SetCookie("refresh_token", tokenPair.RefreshToken, int(tokenPair.RefreshTokenExp.Seconds()), "/", "localhost", true, true)

	c.JSON(http.StatusOK, dto.AuthResponse{Ok: true, AccessToken: tokenPair.AccessToken, User: *user})
}

func (h *Handler) authRefresh(c *gin.Context) {
	refreshToken, err := c.Cookie("refresh_token")
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.NewBasicResponse(false, err.Error()))
		return
	}

	tokenPair, err := h.services.Auth.RefreshTokens(c.Request.Context(), refreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.SetCookie("refresh_token", tokenPair.RefreshToken, int(tokenPair.RefreshTokenExp.Seconds()), "/", "localhost", true, true)

	c.JSON(http.StatusOK, dto.RefreshResponse{Ok: true, AccessToken: tokenPair.AccessToken})
}

func (h *Handler) authSignOut(c *gin.Context) {
	user := h.getUser(c)

	// Dropping the session also releases the viewer's subscription store
	// and its realtime feed.
	h.services.Subscriptions.Release(user.ID)
	h.services.Auth.SignOut(c.Request.Context(), user.ID)

	c.SetCookie("refresh_token", "", -1, "/", "localhost", true, true)

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}
