package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/brew-catalog-api/internal/application"
	"github.com/oksasatya/brew-catalog-api/internal/interface/middleware"
	"github.com/oksasatya/brew-catalog-api/pkg/helpers"
	"github.com/oksasatya/brew-catalog-api/pkg/response"
)

type AuthHandler struct {
	Svc     *application.AuthService
	Cookies *helpers.SessionCookies
	Logger  *logrus.Logger
}

func NewAuthHandler(svc *application.AuthService, cookies *helpers.SessionCookies, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Cookies: cookies, Logger: logger}
}

// loginRequest.Username holds either a username or an email address. Both
// fields are decoded loosely: a value that is not a string matches no account.
type loginRequest struct {
	Username any `json:"username"`
	Password any `json:"password"`
}

func credential(v any) string {
	s, _ := v.(string)
	return s
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req application.SignupInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, h.Logger, err)
		return
	}

	sess := middleware.CurrentSession(c)
	user, err := h.Svc.Signup(c.Request.Context(), sess, req)
	if err != nil {
		writeError(c, h.Logger, "signup", err)
		return
	}
	h.Cookies.Set(c, sess.ID, sess.ExpiresAt)
	response.JSON(c, http.StatusOK, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, h.Logger, err)
		return
	}

	sess := middleware.CurrentSession(c)
	user, err := h.Svc.Login(c.Request.Context(), sess, credential(req.Username), credential(req.Password))
	if err != nil {
		writeError(c, h.Logger, "login", err)
		return
	}
	h.Cookies.Set(c, sess.ID, sess.ExpiresAt)
	response.JSON(c, http.StatusOK, user)
}

// Logout answers 205 whether or not a session existed.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.Svc.Logout(c.Request.Context(), middleware.CurrentSession(c)); err != nil {
		writeError(c, h.Logger, "logout", err)
		return
	}
	h.Cookies.Clear(c)
	response.ResetContent(c)
}
