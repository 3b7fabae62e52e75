package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/brew-catalog-api/internal/interface/http"
)

type BeerModule struct {
	Handler *handlers.BeerHandler
}

func NewBeerModule(h *handlers.BeerHandler) *BeerModule {
	return &BeerModule{Handler: h}
}

func (m *BeerModule) Register(rg *gin.RouterGroup) {
	beers := rg.Group("/beers")
	beers.POST("", m.Handler.Create)
	beers.GET("", m.Handler.List)
	beers.GET("/search", m.Handler.Search)
	beers.GET("/:id", m.Handler.Get)
}
