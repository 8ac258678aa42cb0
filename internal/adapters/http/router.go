package http

import (
	"context"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/devclub-iitd/CommonAudioVideoServer/internal/adapters/signal"
	"github.com/devclub-iitd/CommonAudioVideoServer/internal/app"
	"github.com/devclub-iitd/CommonAudioVideoServer/internal/config"
	transport "github.com/devclub-iitd/CommonAudioVideoServer/internal/transport/http"
)

func genClientToken() string {
	idStr := uuid.NewString()
	return idStr
}

// ClientTokenMiddleware tags every browser with a stable cookie token, used
// only for log correlation; session identity is issued per connection.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = genClientToken()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

// recoveryEnvelope is the outer request-failure handler: any panic surfaces
// as the JSON error envelope.
func recoveryEnvelope(c *gin.Context, recovered any) {
	msg := "internal server error"
	if err, ok := recovered.(error); ok {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"errors": gin.H{"message": msg, "error": gin.H{}},
	})
}

func SetupRouter(ctx context.Context, cfg *config.Config, ctl *signal.Controller, th *transport.TrackHandlers, orch *app.Orchestrator) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.CustomRecovery(recoveryEnvelope))

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("AudioSessions", store))
	r.Use(ClientTokenMiddleware())

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"data":    nil,
			"message": "Hooray! Welcome to Common Audio Server!",
		})
	})
	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "Ok, Healthy!")
	})

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	api := r.Group("/api")

	api.GET("/ws", func(c *gin.Context) {
		log.Info().Str("module", "adapters.http").Str("client_token", c.GetString("client_token")).Msg("ws endpoint hit")
		ctl.HandleWS(ctx, c)
	})

	api.GET("/listen/:trackId", th.Listen)
	api.POST("/upload", th.Upload)

	api.GET("/rooms", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"rooms":     orch.ListRooms(),
			"listeners": orch.Registry.Count(),
		})
	})

	return r
}
