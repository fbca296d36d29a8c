package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/gridhall/relay-server/internal/auth"
	"github.com/gridhall/relay-server/internal/config"
	"github.com/gridhall/relay-server/internal/core"
	"github.com/gridhall/relay-server/internal/directory"
)

// NewServer builds the HTTP server carrying the relay's WebSocket endpoint.
func NewServer(hub *core.Hub, verifier auth.Verifier, dir directory.Directory, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(LoggerMiddleware(logger), gin.Recovery())

	engine.GET("/healthz", healthHandler)
	engine.GET("/ws", gin.WrapH(NewWSHandler(hub, verifier, dir, cfg.EventBuffer, logger)))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           engine,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
