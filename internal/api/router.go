package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"homevisit/config"
	"homevisit/internal/metrics"
	"homevisit/internal/mw"
	"homevisit/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.Config, s store.Store, opts Options) *gin.Engine {
	handler := NewHandler(s, opts)

	r := gin.New()
	r.Use(gin.Recovery(), mw.Logger(handler.log()))
	r.SetHTMLTemplate(parseTemplates())

	// Writes are limited per client; reads of the slot listing never are.
	limiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst,
		http.MethodPost, http.MethodPut, http.MethodDelete)
	r.Use(limiter)

	r.GET("/", handler.Index)
	r.POST("/", handler.Reserve)
	r.GET("/success", handler.Success)
	r.GET("/feedback", handler.FeedbackForm)
	r.POST("/feedback", handler.SubmitFeedback)
	r.GET("/feedback/success", handler.FeedbackSuccess)
	r.GET("/healthz", handler.Healthz)

	api := r.Group("/api")
	{
		api.GET("/groups/:group_id/meetings", handler.GetGroupMeetings)

		subs := api.Group("/subscriptions", mw.RequireToken(cfg.Push.SubscriptionToken))
		subs.GET("", handler.GetSubscription)
		subs.PUT("", handler.PutSubscription)
		subs.DELETE("", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	if cfg.Metrics.Enabled {
		metrics.Register()
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	return r
}
