package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkwell-space/core/internal/middleware"
	"github.com/inkwell-space/core/internal/modules/auth"
	"github.com/inkwell-space/core/internal/modules/contact"
	"github.com/inkwell-space/core/internal/modules/content/comment"
	"github.com/inkwell-space/core/internal/modules/content/post"
	"github.com/inkwell-space/core/internal/modules/content/tag"
	"github.com/inkwell-space/core/internal/modules/newsletter"
	"github.com/inkwell-space/core/internal/modules/processing/markdown"
	"github.com/inkwell-space/core/internal/modules/profile"
	"github.com/inkwell-space/core/internal/modules/stats/analytics"
	"github.com/inkwell-space/core/internal/modules/storage/upload"
	"github.com/inkwell-space/core/internal/modules/syndication/feed"
	"github.com/inkwell-space/core/internal/modules/syndication/sitemap"
	"github.com/inkwell-space/core/internal/pkg/mail"
	pkgredis "github.com/inkwell-space/core/internal/pkg/redis"
	"github.com/inkwell-space/core/internal/pkg/response"
)

const apiPrefix = "/api/v1"

func (a *App) registerRoutes(rc *pkgredis.Client) {
	r := a.router
	db := a.db
	adminMW := middleware.AdminOnly()

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	appInfo := gin.H{
		"name":     "inkwell-core",
		"version":  "1.0.0",
		"homepage": "https://github.com/inkwell-space/core",
	}

	// Rate limiting and idempotence run on every route (requires Redis).
	r.Use(middleware.RateLimit(rc.Raw()))
	r.Use(middleware.Idempotence(rc.Raw()))

	mailSender := mail.New(a.cfg.Mail)

	// Root-level endpoints
	root := r.Group("")
	sitemap.RegisterRoutes(root, db, a.cfg.Site)
	feed.RegisterRoutes(root, db, a.cfg.Site) // /feed.xml, /atom.xml

	// Versioned API
	api := r.Group(apiPrefix)
	api.Use(middleware.OptionalAuth())
	api.Use(middleware.HTTPCache(rc.Raw(), middleware.HTTPCacheOptions{
		TTL:       15 * time.Second,
		Disable:   a.cfg.IsDev(),
		SkipPaths: httpCacheSkipPaths(),
	}))

	api.GET("", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/info", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": "pong"}) })
	api.GET("/uptime", func(c *gin.Context) {
		uptimeMs := time.Since(processStart).Milliseconds()
		c.JSON(http.StatusOK, gin.H{
			"timestamp": uptimeMs,
			"humanize":  humanizeDuration(time.Duration(uptimeMs) * time.Millisecond),
		})
	})

	api.GET("/clean_cache", adminMW, func(c *gin.Context) {
		deleted, err := middleware.PurgeHTTPCache(c.Request.Context(), rc.Raw())
		if err != nil {
			response.InternalError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "deleted": deleted})
	})

	// Auth
	auth.NewHandler(auth.NewService(db), a.tokenTTL()).RegisterRoutes(api)

	// Content
	postSvc := post.NewService(db)
	post.NewHandler(postSvc).RegisterRoutes(api, adminMW)
	tag.NewHandler(tag.NewService(db)).RegisterRoutes(api, adminMW)
	comment.NewHandler(comment.NewService(db)).RegisterRoutes(api, adminMW)

	// Rendering
	markdown.NewHandler().RegisterRoutes(api, adminMW)

	// Profile
	profile.NewHandler(profile.NewService(db)).RegisterRoutes(api, adminMW)

	// Contact & newsletter
	contactSvc := contact.NewService(db, mailSender, a.cfg.Site.Title, a.logger)
	contact.NewHandler(contactSvc).RegisterRoutes(api, adminMW)
	newsletter.NewHandler(newsletter.NewService(db)).RegisterRoutes(api, adminMW)

	// Analytics
	analytics.NewHandler(analytics.NewService(db)).RegisterRoutes(api, adminMW)

	// Uploads
	upload.NewHandler(upload.NewService(a.cfg.S3, a.cfg.Uploads)).RegisterRoutes(api, adminMW)

	// Cron job management (admin)
	api.GET("/cron", adminMW, func(c *gin.Context) {
		response.OK(c, a.sched.List())
	})
	api.POST("/cron/:name/run", adminMW, func(c *gin.Context) {
		if err := a.sched.Run(c.Request.Context(), c.Param("name")); err != nil {
			response.NotFoundMsg(c, err.Error())
			return
		}
		response.OK(c, gin.H{"message": "已触发"})
	})
}

func httpCacheSkipPaths() []string {
	return []string{
		apiPrefix + "/uptime",
		apiPrefix + "/ping",
		apiPrefix + "/auth/login",
		apiPrefix + "/auth/register",
		apiPrefix + "/auth/me",
		apiPrefix + "/analytics/page-view",
		apiPrefix + "/analytics/summary",
		apiPrefix + "/clean_cache",
		apiPrefix + "/cron",
		apiPrefix + "/comments/all",
		apiPrefix + "/subscribers",
	}
}

func (a *App) tokenTTL() time.Duration {
	hours := a.cfg.Auth.TokenTTLHours
	if hours <= 0 {
		hours = 24 * 7
	}
	return time.Duration(hours) * time.Hour
}

func humanizeDuration(d time.Duration) string {
	if d < time.Minute {
		return d.Truncate(time.Second).String()
	}
	if d < time.Hour {
		return d.Truncate(time.Minute).String()
	}
	if d < 24*time.Hour {
		return d.Truncate(time.Hour).String()
	}
	return d.Truncate(24 * time.Hour).String()
}
