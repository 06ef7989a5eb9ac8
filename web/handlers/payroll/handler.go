package payroll

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"staffhub.io/staffhub/model"
	"staffhub.io/staffhub/payroll"
	web "staffhub.io/staffhub/web/common"
	"staffhub.io/staffhub/web/middlewares"
)

type Endpoint struct {
	payroll *payroll.Service
}

func Register(r *gin.RouterGroup, s *payroll.Service) {
	endpoint := &Endpoint{payroll: s}
	admin := middlewares.RequireRole(model.RoleAdmin)

	r.GET("/payroll", admin, endpoint.Summary)
	r.GET("/payroll/export", admin, endpoint.Export)
}

func (ep *Endpoint) Summary(c *gin.Context) {
	summary, err := ep.payroll.Summary(c.Request.Context())
	if err != nil {
		web.Fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, web.NewSuccessResponse(summary))
}

func (ep *Endpoint) Export(c *gin.Context) {
	summary, err := ep.payroll.Summary(c.Request.Context())
	if err != nil {
		web.Fail(c, http.StatusInternalServerError, err)
		return
	}
	web.WriteTable(c, summary.Table(), time.Now())
}
