package handler

import (
	"context"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	jwtmanager "github.com/morf1lo/jwt-pair-manager"
	"github.com/spf13/viper"
	"github.com/teDdyMucho/connectlove-sub001/internal/model"
	"github.com/teDdyMucho/connectlove-sub001/internal/service"
)

type Handler struct {
	services *service.Service
}

func New(services *service.Service) *Handler {
	return &Handler{
		services: services,
	}
}

func (h *Handler) InitRoutes() *gin.Engine {
	r := gin.New()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{viper.GetString("client.origin")},
		AllowMethods:     []string{"POST", "GET"},
		AllowCredentials: true,
	}))

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/sign-up", h.authSignUp)
			auth.POST("/sign-in", h.authSignIn)
			auth.POST("/refresh", h.authRefresh)
			auth.POST("/sign-out", h.authMiddleware, h.authSignOut)
		}

		users := v1.Group("/users")
		{
			users.GET("/@me", h.authMiddleware, h.usersMe)
			users.GET("/byUsername/:username", h.authMiddleware, h.usernameMiddleware, h.usersGetByUsername)
			users.GET("/search", h.authMiddleware, h.usersSearch)
		}

		supports := v1.Group("/supports")
		{
			supports.Use(h.authMiddleware)

			supports.POST("/act", h.supportsAct)
			supports.GET("/@me", h.supportsMe)
			supports.GET("/@me/:creator", h.supportsGetOne)
		}
	}

	return r
}

func (h *Handler) getUserDataFromAccessTokenClaims(ctx context.Context, accessToken string) (*model.User, error) {
	claims, err := jwtmanager.DecodeJWT(accessToken, []byte(os.Getenv("ACCESS_SECRET")))
	if err != nil {
		return nil, err
	}

	idString, exists := claims["id"].(string)
	if !exists {
		return nil, errNotAuthorized
	}

	id, err := uuid.ParseBytes([]byte(idString))
	if err != nil {
		return nil, errInvalidID
	}

	return h.services.User.FindByID(ctx, id)
}

func (h *Handler) getUser(c *gin.Context) model.User {
	return c.MustGet("user").(model.User)
}
