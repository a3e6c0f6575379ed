package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dkeye/Huddle/internal/adapters/signal"
	"github.com/dkeye/Huddle/internal/app/orch"
	"github.com/dkeye/Huddle/internal/auth"
	"github.com/dkeye/Huddle/internal/config"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	userKey         = "user"
	sessionTokenKey = "token"
)

// AuthMiddleware resolves the caller from a bearer header, the token query
// parameter or a token remembered in the cookie session, in that order.
func AuthMiddleware(authn *auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)
		token, fromRequest := requestToken(c)
		if !fromRequest {
			token, _ = sess.Get(sessionTokenKey).(string)
		}

		user, err := authn.Verify(token)
		if err != nil {
			log.Debug().Err(err).Str("module", "adapters.http").Str("path", c.FullPath()).Msg("unauthenticated")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": domain.ErrUnauthenticated.Error()})
			return
		}
		if fromRequest {
			sess.Set(sessionTokenKey, token)
			if err := sess.Save(); err != nil {
				log.Warn().Err(err).Str("module", "adapters.http").Msg("session save")
			}
		}
		c.Set(userKey, user)
		c.Next()
	}
}

func requestToken(c *gin.Context) (string, bool) {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer ")), true
	}
	if q := c.Query("token"); q != "" {
		return q, true
	}
	return "", false
}

func currentUser(c *gin.Context) *domain.User {
	return c.MustGet(userKey).(*domain.User)
}

func signalOptions(cfg *config.Config) signal.Options {
	opts := signal.DefaultOptions()
	opts.ReadLimit = cfg.ReadLimit
	opts.PingPeriod = cfg.PingPeriod
	opts.PongWait = cfg.PongWait
	opts.WriteWait = cfg.WriteWait
	opts.SendBuffer = cfg.SendBuffer
	opts.RateLimit = cfg.RateLimit
	opts.RateInterval = cfg.RateInterval
	return opts
}

func SetupRouter(ctx context.Context, cfg *config.Config, o *orch.Orchestrator, authn *auth.Authenticator) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{Path: "/", MaxAge: 3600 * 24 * 7, HttpOnly: true, SameSite: http.SameSiteLaxMode})
	r.Use(sessions.Sessions("HuddleSessions", store))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "online": o.Registry.Count()})
	})

	log.Info().Str("module", "adapters.http").Msg("router setup")

	ctl := signal.NewSignalWSController(o, signalOptions(cfg))
	api := r.Group("/api", AuthMiddleware(authn))

	api.GET("/ws", func(c *gin.Context) {
		user := currentUser(c)
		log.Info().Str("module", "adapters.http").Str("user", string(user.ID)).Msg("ws endpoint hit")
		ctl.HandleSignal(ctx, c, user)
	})
	api.GET("/users", func(c *gin.Context) {
		c.JSON(http.StatusOK, o.Registry.Users())
	})
	api.GET("/rooms", func(c *gin.Context) {
		c.JSON(http.StatusOK, o.Rooms.List())
	})
	api.GET("/transfers/:id", func(c *gin.Context) {
		view, err := transferStatus(o, domain.TransferID(c.Param("id")), currentUser(c).ID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrNotAuthorized):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusOK, view)
		}
	})
	api.GET("/ice-servers", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"iceServers": o.ICE})
	})

	return r
}
