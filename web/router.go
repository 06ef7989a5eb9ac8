package main

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"staffhub.io/staffhub/config"
	web "staffhub.io/staffhub/web/common"
	attendancehandler "staffhub.io/staffhub/web/handlers/attendance"
	"staffhub.io/staffhub/web/handlers/auth"
	"staffhub.io/staffhub/web/handlers/employee"
	leavehandler "staffhub.io/staffhub/web/handlers/leave"
	payrollhandler "staffhub.io/staffhub/web/handlers/payroll"
	reporthandler "staffhub.io/staffhub/web/handlers/report"
	workboardhandler "staffhub.io/staffhub/web/handlers/workboard"
	"staffhub.io/staffhub/web/middlewares"
)

// contentSecurityPolicy lets the app load the face model library and its
// weights from the configured CDN origins.
func contentSecurityPolicy(cdnOrigins []string) string {
	cdn := ""
	if len(cdnOrigins) > 0 {
		cdn = " " + strings.Join(cdnOrigins, " ")
	}
	return "default-src 'self'; img-src 'self' data: blob:" +
		"; connect-src 'self' ws: wss:" + cdn +
		"; script-src 'self' 'unsafe-eval'" + cdn +
		"; style-src 'self' 'unsafe-inline'"
}

func newRouter(cfg *config.Config, a *app) *gin.Engine {
	r := gin.Default()
	r.Use(middlewares.SecurityHeaders(contentSecurityPolicy(cfg.Server.CDNOrigins)))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	public := r.Group("/api/v1")
	protected := r.Group("/api/v1")
	protected.Use(middlewares.Authentication(cfg.Secret(), cfg.Auth.CookieName))
	{
		auth.Register(public, protected, a.staff, auth.Options{
			Secret:       cfg.Secret(),
			TokenTTL:     cfg.Auth.TokenTTL,
			CookieName:   cfg.Auth.CookieName,
			SecureCookie: cfg.Auth.SecureCookie,
		})
		employee.Register(protected, a.staff)
		attendancehandler.Register(protected, a.attendance, a.recognizer)
		leavehandler.Register(protected, a.leaves)
		workboardhandler.Register(protected, a.work)
		payrollhandler.Register(protected, a.payroll)
		reporthandler.Register(protected, a.reports)
	}

	dir := cfg.Server.PublicDir
	index := filepath.Join(dir, "index.html")
	r.StaticFile("/", index)
	r.Static("/assets", filepath.Join(dir, "assets"))

	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, web.NewErrorResponse("Not found"))
			return
		}
		c.File(index)
	})
	return r
}
