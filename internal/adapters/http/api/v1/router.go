package v1

import (
	"github.com/labstack/echo/v4"

	"github.com/moonchanyong/arom-server/internal/adapters/http/api/v1/handlers"
)

type Router struct {
	auth        *handlers.AuthHandler
	kakao       *handlers.OAuthHandler
	facebook    *handlers.OAuthHandler
	devices     *handlers.DeviceHandler
	attachments *handlers.AttachmentHandler
	help        *handlers.HelpHandler
	authMW      echo.MiddlewareFunc
	ownerMW     echo.MiddlewareFunc
}

func NewRouter(
	auth *handlers.AuthHandler,
	kakao, facebook *handlers.OAuthHandler,
	devices *handlers.DeviceHandler,
	attachments *handlers.AttachmentHandler,
	help *handlers.HelpHandler,
	authMW, ownerMW echo.MiddlewareFunc,
) *Router {
	return &Router{
		auth:        auth,
		kakao:       kakao,
		facebook:    facebook,
		devices:     devices,
		attachments: attachments,
		help:        help,
		authMW:      authMW,
		ownerMW:     ownerMW,
	}
}

func (r *Router) Register(g *echo.Group) {
	auth := g.Group("/auth")
	auth.POST("/signup", r.auth.Signup)
	auth.POST("/login", r.auth.Login)
	auth.POST("/refresh_token", r.auth.Refresh)
	auth.POST("/reset_password", r.auth.ResetPassword)

	protected := auth.Group("", r.authMW)
	protected.POST("/logout", r.auth.Logout)
	protected.GET("/tokenvalidate", r.auth.TokenValidate)
	protected.GET("/user_info", r.auth.GetUserInfo)
	protected.PUT("/user_info", r.auth.PutUserInfo)

	g.GET("/user/exists", r.auth.UserExists)

	kakao := g.Group("/kakao")
	kakao.POST("/login", r.kakao.Login)
	kakao.POST("/signup", r.kakao.Signup)

	facebook := g.Group("/facebook")
	facebook.POST("/login", r.facebook.Login)
	facebook.POST("/signup", r.facebook.Signup)

	devices := g.Group("/devices", r.authMW)
	devices.POST("/:device_id/register", r.devices.Register)

	state := devices.Group("/:device_id/state", r.ownerMW)
	state.GET("", r.devices.GetState)
	state.POST("", r.devices.SetState)

	attachments := g.Group("/attachments", r.authMW)
	attachments.GET("", r.attachments.List)
	attachments.POST("", r.attachments.Upload)
	attachments.DELETE("/:attachment_id", r.attachments.Delete)

	help := g.Group("/help")
	help.GET("", r.help.List)
	help.POST("/contact", r.help.Contact)
}
