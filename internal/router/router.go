package router

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"goaltracker/internal/auth"
	"goaltracker/internal/config"
	"goaltracker/internal/handler"
	"goaltracker/internal/logging"
)

// bodyLimit caps request bodies; a full sync of 100 goals fits easily.
const bodyLimit = "2M"

var errTokenRevoked = errors.New("token has been revoked")

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	log logging.Logger,
	jwtService *auth.JWTService,
	tokens *auth.TokenStore,
	authHandler *handler.AuthHandler,
	goalHandler *handler.GoalHandler,
	aiHandler *handler.AIHandler,
) {
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(requestLogger(log)))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit(bodyLimit))

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	requireToken := bearerAuth(jwtService, tokens)

	api := e.Group("/api")

	// Public routes
	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)
	api.POST("/analyze", aiHandler.Analyze)
	api.POST("/analyze/goal", aiHandler.AnalyzeGoal)
	api.POST("/chat", aiHandler.Chat)

	api.POST("/logout", authHandler.Logout, requireToken)

	// Goal routes carry the bearer token check only when it is switched on.
	goals := api.Group("/goals")
	if cfg.RequireAuth {
		goals.Use(requireToken)
	}
	goals.GET("", goalHandler.ListGoals)
	goals.POST("", goalHandler.SaveGoals)
	goals.GET("/today", goalHandler.Today)
	goals.GET("/stats", goalHandler.Stats)

	if cfg.StaticDir != "" {
		e.Use(middleware.StaticWithConfig(middleware.StaticConfig{
			Root:  cfg.StaticDir,
			HTML5: true,
			Skipper: func(c echo.Context) bool {
				p := c.Request().URL.Path
				return strings.HasPrefix(p, "/api") || strings.HasPrefix(p, "/swagger") || p == "/healthz"
			},
		}))
	}
}

// bearerAuth accepts tokens signed by jwtService that have not been revoked.
// The parsed *jwt.Token is stored under "user".
func bearerAuth(jwtService *auth.JWTService, tokens *auth.TokenStore) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, raw string) (interface{}, error) {
			token, err := jwtService.ParseToken(raw)
			if err != nil {
				return nil, err
			}
			if id, _, ok := auth.TokenID(token); ok && tokens.IsRevoked(c.Request().Context(), id) {
				return nil, errTokenRevoked
			}
			return token, nil
		},
	})
}

func requestLogger(log logging.Logger) middleware.RequestLoggerConfig {
	return middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			args := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency.String(),
				"request_id", v.RequestID,
			}
			ctx := c.Request().Context()
			if v.Error != nil {
				log.Error(ctx, "request failed", append(args, "error", v.Error)...)
				return nil
			}
			log.Info(ctx, "request", args...)
			return nil
		},
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
