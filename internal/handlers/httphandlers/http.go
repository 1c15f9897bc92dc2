package httphandlers

import (
	"net/http/pprof"
	"time"

	"github.com/gin-gonic/gin"
	"gitlab.com/TitanInd/netcore/internal/config"
	"gitlab.com/TitanInd/netcore/internal/interfaces"
	"gitlab.com/TitanInd/netcore/internal/metrics"
	"gitlab.com/TitanInd/netcore/internal/telemetry"
)

type Reporter interface {
	Summary() telemetry.Summary
	Messages() []telemetry.Message
}

type Sanitizable interface {
	GetSanitized() interface{}
}

type HTTPHandler struct {
	reporter Reporter
	config   Sanitizable
	now      func() time.Time
	log      interfaces.ILogger
}

func NewHTTPHandler(reporter Reporter, cfg Sanitizable, log interfaces.ILogger) *gin.Engine {
	handl := &HTTPHandler{
		reporter: reporter,
		config:   cfg,
		now:      time.Now,
		log:      log,
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthcheck", handl.HealthCheck)
	r.GET("/summary", handl.GetSummary)
	r.GET("/messages", handl.GetMessages)
	r.GET("/config", handl.GetConfig)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	r.Any("/debug/pprof/*action", gin.WrapF(pprof.Index))

	err := r.SetTrustedProxies(nil)
	if err != nil {
		panic(err)
	}

	return r
}

func (h *HTTPHandler) HealthCheck(ctx *gin.Context) {
	ctx.JSON(200, gin.H{
		"status":  "healthy",
		"version": config.BuildVersion,
	})
}
