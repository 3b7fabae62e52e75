package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/brew-catalog-api/internal/interface/http"
)

// AuthModule mounts signup, login and logout under /auth.
type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	auth.POST("/signup", m.Handler.Signup)
	auth.POST("/login", m.Handler.Login)
	auth.GET("/logout", m.Handler.Logout)
}
