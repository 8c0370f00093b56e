package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/ougirez/bloodbank/internal/api/controller"
	"github.com/ougirez/bloodbank/internal/pkg/constants"
	"github.com/ougirez/bloodbank/internal/pkg/logger"
	"github.com/ougirez/bloodbank/internal/service/auth"
	"github.com/ougirez/bloodbank/internal/service/inventory"
	"github.com/ougirez/bloodbank/internal/service/request"
	"github.com/ougirez/bloodbank/internal/service/stats"
	"github.com/ougirez/bloodbank/internal/service/user"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"
)

type Services struct {
	Auth      *auth.Service
	User      *user.Service
	Inventory *inventory.Service
	Request   *request.Service
	Stats     *stats.Service
}

type APIService struct {
	router      *echo.Echo
	authService *auth.Service
}

func (svc *APIService) Serve(addr string) {
	if err := svc.router.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal(context.Background(), err)
	}
}

func (svc *APIService) Shutdown(ctx context.Context) error {
	return svc.router.Shutdown(ctx)
}

func (svc *APIService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	svc.router.ServeHTTP(w, r)
}

func gommonLevel(level string) log.Lvl {
	switch strings.ToLower(level) {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	default:
		return log.INFO
	}
}

// NewAPIService builds the router. gatherer may be nil, then /metrics is not served.
func NewAPIService(services Services, gatherer prometheus.Gatherer) (*APIService, error) {
	svc := &APIService{
		router:      echo.New(),
		authService: services.Auth,
	}

	svc.router.HideBanner = true
	svc.router.Logger.SetLevel(gommonLevel(viper.GetString(constants.ViperLogLevel)))
	svc.router.JSONSerializer = sonicSerializer{}
	svc.router.Validator = NewValidator()
	svc.router.Binder = NewBinder()
	svc.router.HTTPErrorHandler = httpErrorHandler

	svc.router.Use(middleware.Recover())
	svc.router.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	svc.router.Use(requestIDMiddleware)
	svc.router.Use(middleware.Logger())
	svc.router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: viper.GetStringSlice(constants.ViperServerCORSOrigins),           // фронтенд
		AllowMethods: []string{echo.GET, echo.PUT, echo.PATCH, echo.POST, echo.DELETE}, // Разрешить эти HTTP-методы
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},       // Разрешить эти заголовки
	}))

	svc.router.GET("/health", func(ctx echo.Context) error {
		return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	if gatherer != nil {
		svc.router.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	api := svc.router.Group("/api/v1")
	cntrl := controller.NewController(services.Auth, services.User, services.Inventory, services.Request, services.Stats)

	authGroup := api.Group("/auth")
	authGroup.POST("/register/donor", cntrl.RegisterDonor)
	authGroup.POST("/register/civilian", cntrl.RegisterCivilian)
	authGroup.POST("/login", cntrl.LoginUser)
	authGroup.POST("/refresh", cntrl.RefreshToken)
	authGroup.DELETE("/logout", cntrl.LogoutUser, svc.AuthMiddleware)

	profile := api.Group("/profile", svc.AuthMiddleware)
	profile.GET("", cntrl.GetMe)
	profile.PATCH("/me", cntrl.UpdateMe)

	profiles := api.Group("/profiles", svc.AuthMiddleware)
	profiles.GET("", cntrl.ListProfiles)

	donors := api.Group("/donors", svc.AuthMiddleware)
	donors.GET("/search", cntrl.SearchDonors)

	bloodbanks := api.Group("/bloodbanks", svc.AuthMiddleware)
	bloodbanks.GET("", cntrl.ListBloodBanks)
	bloodbanks.POST("", cntrl.CreateBloodBank, svc.AdminMiddleware)
	bloodbanks.GET("/:id", cntrl.GetBloodBank)
	bloodbanks.PATCH("/:id", cntrl.UpdateStock, svc.AdminMiddleware)

	requests := api.Group("/requests", svc.AuthMiddleware)
	requests.GET("", cntrl.ListRequests)
	requests.POST("", cntrl.CreateRequest)
	requests.GET("/:id", cntrl.GetRequest)
	requests.PATCH("/:id", cntrl.UpdateRequestStatus, svc.AdminMiddleware)

	offers := api.Group("/offers", svc.AuthMiddleware)
	offers.GET("", cntrl.ListOffers)
	offers.POST("", cntrl.CreateOffer)
	offers.DELETE("/:id", cntrl.DeleteOffer)

	admin := api.Group("/admin", svc.AuthMiddleware, svc.AdminMiddleware)
	admin.GET("/stats", cntrl.GetStats)

	return svc, nil
}
