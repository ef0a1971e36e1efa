package api

import (
	"strconv"
	"sync"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/TamarElitzur/youtubePlaylists/docs"
	"github.com/TamarElitzur/youtubePlaylists/internal/api/handler"
	"github.com/TamarElitzur/youtubePlaylists/internal/api/middleware"
	"github.com/TamarElitzur/youtubePlaylists/internal/core/ports"
	"github.com/TamarElitzur/youtubePlaylists/internal/core/service"
)

// multipartOverhead is the slack allowed on top of the upload limit for form
// boundaries and the playlistName field.
const multipartOverhead = 64 << 10

// httpMetrics registers the per-route request collectors once per process;
// every router built afterwards shares them.
var httpMetrics = sync.OnceValue(func() echo.MiddlewareFunc {
	return echoprometheus.NewMiddleware("playlists")
})

// Deps carries everything the router wires into handlers.
type Deps struct {
	Auth      ports.AuthService
	Playlists ports.PlaylistService
	Uploads   ports.UploadService
	Search    ports.SearchProvider

	JWTSecret      string
	AuthRequired   bool
	UploadMaxBytes int64
	StaticDir      string
	Readiness      []handler.DependencyCheck

	Logger zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(httpMetrics())

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	playlistHandler := handler.NewPlaylistHandler(deps.Playlists)
	uploadHandler := handler.NewUploadHandler(deps.Uploads)
	searchHandler := handler.NewSearchHandler(deps.Search)

	api := e.Group("/api")

	// --- Auth routes ---
	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)
	api.POST("/logout", authHandler.Logout)

	// --- Search ---
	api.GET("/search", searchHandler.Search)

	// --- Playlist routes ---
	playlists := api.Group("/playlists/:username")
	if deps.AuthRequired {
		playlists.Use(middleware.Auth(deps.JWTSecret), middleware.RequireOwner("username"))
	}
	playlists.GET("", playlistHandler.List)
	playlists.POST("/add", playlistHandler.Add)
	playlists.PUT("/rating", playlistHandler.UpdateRating)
	playlists.DELETE("/remove", playlistHandler.Remove)
	playlists.POST("/create", playlistHandler.Create)

	uploadLimit := deps.UploadMaxBytes
	if uploadLimit <= 0 {
		uploadLimit = service.DefaultUploadMaxBytes
	}
	playlists.POST("/upload", uploadHandler.Upload,
		echomiddleware.BodyLimitWithConfig(echomiddleware.BodyLimitConfig{Limit: strconv.FormatInt(uploadLimit+multipartOverhead, 10)}))

	// --- Uploaded audio ---
	e.GET("/uploads/:name", uploadHandler.Serve)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Readiness...)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Ops ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	if deps.StaticDir != "" {
		e.Static("/", deps.StaticDir)
	}

	return e
}
