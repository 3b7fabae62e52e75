package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/brew-catalog-api/internal/application"
	"github.com/oksasatya/brew-catalog-api/internal/interface/middleware"
	"github.com/oksasatya/brew-catalog-api/pkg/response"
)

const msgEmptyQuery = "Please provide a search query."

type BeerHandler struct {
	Svc           *application.BeerService
	MaxImageBytes int64
	Logger        *logrus.Logger
}

func NewBeerHandler(svc *application.BeerService, maxImageBytes int64, logger *logrus.Logger) *BeerHandler {
	return &BeerHandler{Svc: svc, MaxImageBytes: maxImageBytes, Logger: logger}
}

type listQuery struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

type searchQuery struct {
	Query string `form:"query"`
	Size  int    `form:"size"`
}

// Create accepts a multipart form with an optional "image" file, or plain JSON.
func (h *BeerHandler) Create(c *gin.Context) {
	if h.MaxImageBytes > 0 {
		// room for the text fields on top of the image
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxImageBytes+1<<20)
	}

	var req application.CreateBeerInput
	if err := c.ShouldBind(&req); err != nil {
		badPayload(c, h.Logger, err)
		return
	}

	var img *application.ImageUpload
	fh, err := c.FormFile("image")
	switch {
	case err == nil:
		if h.MaxImageBytes > 0 && fh.Size > h.MaxImageBytes {
			response.Error(c, http.StatusBadRequest, fmt.Sprintf("Images may not be larger than %d bytes.", h.MaxImageBytes))
			return
		}
		f, err := fh.Open()
		if err != nil {
			writeError(c, h.Logger, "open beer image", err)
			return
		}
		defer func() { _ = f.Close() }()
		img = &application.ImageUpload{Filename: fh.Filename, Reader: f}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		badPayload(c, h.Logger, err)
		return
	}

	var owner string
	if sess := middleware.CurrentSession(c); !sess.Anonymous() {
		owner = sess.User.ID
	}

	beer, err := h.Svc.Create(c.Request.Context(), req, owner, img)
	if err != nil {
		writeError(c, h.Logger, "create beer", err)
		return
	}
	response.JSON(c, http.StatusOK, beer)
}

func (h *BeerHandler) List(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badPayload(c, h.Logger, err)
		return
	}
	beers, err := h.Svc.List(c.Request.Context(), q.Limit, q.Offset)
	if err != nil {
		writeError(c, h.Logger, "list beers", err)
		return
	}
	response.JSON(c, http.StatusOK, beers)
}

func (h *BeerHandler) Get(c *gin.Context) {
	beer, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, "get beer", err)
		return
	}
	response.JSON(c, http.StatusOK, beer)
}

func (h *BeerHandler) Search(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badPayload(c, h.Logger, err)
		return
	}
	if q.Query == "" {
		response.Error(c, http.StatusBadRequest, msgEmptyQuery)
		return
	}
	beers, err := h.Svc.Search(c.Request.Context(), q.Query, q.Size)
	if err != nil {
		writeError(c, h.Logger, "search beers", err)
		return
	}
	response.JSON(c, http.StatusOK, beers)
}
