package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"staffhub.io/staffhub/model"
	"staffhub.io/staffhub/security"
	"staffhub.io/staffhub/staff"
	web "staffhub.io/staffhub/web/common"
	"staffhub.io/staffhub/web/middlewares"
)

type Accounts interface {
	Login(ctx context.Context, id string, role string) (*model.Employee, error)
	Get(ctx context.Context, id string) (*model.Employee, error)
}

type Options struct {
	Secret       []byte
	TokenTTL     time.Duration
	CookieName   string
	SecureCookie bool
}

type Endpoint struct {
	accounts Accounts
	opts     Options
	now      func() time.Time
}

// Register mounts /login and /logout on public and /whoami on protected.
func Register(public *gin.RouterGroup, protected *gin.RouterGroup, accounts Accounts, opts Options) {
	endpoint := &Endpoint{accounts: accounts, opts: opts, now: time.Now}
	public.POST("/login", endpoint.Login)
	public.POST("/logout", endpoint.Logout)
	protected.GET("/whoami", endpoint.WhoAmI)
}

type LoginDTO struct {
	ID   string `json:"id" binding:"required"`
	Role string `json:"role" binding:"required,oneof=admin employee"`
}

type SessionDTO struct {
	Token     string        `json:"token,omitempty"`
	ExpiresAt *time.Time    `json:"expiresAt,omitempty"`
	User      model.Session `json:"user"`
}

func status(err error) int {
	switch {
	case errors.Is(err, staff.ErrUserNotFound), errors.Is(err, staff.ErrNotAdmin), errors.Is(err, staff.ErrLoginAsAdmin):
		return http.StatusUnauthorized
	case errors.Is(err, staff.ErrInvalidRole):
		return http.StatusBadRequest
	case errors.Is(err, staff.ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (ep *Endpoint) Login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}

	emp, err := ep.accounts.Login(c.Request.Context(), dto.ID, dto.Role)
	if err != nil {
		web.Fail(c, status(err), err)
		return
	}

	identity := security.Identity{ID: emp.ID, UniqueName: emp.Name, Email: emp.Email, Role: emp.Role}
	token, err := security.CreateIdentityToken(identity, ep.opts.Secret, ep.opts.TokenTTL)
	if err != nil {
		web.Fail(c, http.StatusInternalServerError, err)
		return
	}
	expiresAt := ep.now().Add(ep.opts.TokenTTL)

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ep.opts.CookieName, token, int(ep.opts.TokenTTL.Seconds()), "/", "", ep.opts.SecureCookie, true)
	c.JSON(http.StatusOK, web.NewSuccessResponse(SessionDTO{Token: token, ExpiresAt: &expiresAt, User: emp.Session()}))
}

func (ep *Endpoint) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ep.opts.CookieName, "", -1, "/", "", ep.opts.SecureCookie, true)
	c.JSON(http.StatusOK, web.NewSuccessResponse(gin.H{}))
}

// WhoAmI restores the session of a returning client from its token.
func (ep *Endpoint) WhoAmI(c *gin.Context) {
	identity := middlewares.CurrentIdentity(c)
	emp, err := ep.accounts.Get(c.Request.Context(), identity.ID)
	if err != nil {
		if errors.Is(err, staff.ErrNotFound) {
			web.Fail(c, http.StatusUnauthorized, staff.ErrUserNotFound)
			return
		}
		web.Fail(c, status(err), err)
		return
	}
	c.JSON(http.StatusOK, web.NewSuccessResponse(SessionDTO{User: emp.Session()}))
}
