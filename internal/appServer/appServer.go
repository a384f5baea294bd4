package appServer

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/Brajesh31/TEC-DEV-CL/config"
	"github.com/Brajesh31/TEC-DEV-CL/internal/auth"
	"github.com/Brajesh31/TEC-DEV-CL/internal/database"
	"github.com/Brajesh31/TEC-DEV-CL/internal/database/memory"
	repository "github.com/Brajesh31/TEC-DEV-CL/internal/database/postgres"
	eventcache "github.com/Brajesh31/TEC-DEV-CL/internal/database/redis"
	"github.com/Brajesh31/TEC-DEV-CL/internal/notify"
	"github.com/Brajesh31/TEC-DEV-CL/internal/service"
	"github.com/Brajesh31/TEC-DEV-CL/internal/transport"
	"github.com/Brajesh31/TEC-DEV-CL/pkg/postgres"
	"github.com/Brajesh31/TEC-DEV-CL/pkg/redis"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.Idle_timeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
		ErrorLog:          log.New(os.Stderr, "SERVER ERROR: ", log.LstdFlags),
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// App is the assembled HTTP handler together with the resources it holds.
type App struct {
	Handler http.Handler
	closers []func() error
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type repositories struct {
	users  database.UserRepository
	events database.EventRepository
	rsvps  database.RSVPRepository
}

// Build wires storage, cache, notifications, services and the router from
// cfg. On error everything acquired so far is released.
func Build(ctx context.Context, cfg *config.Config) (_ *App, err error) {
	app := &App{}
	defer func() {
		if err != nil {
			_ = app.Close()
		}
	}()

	repos, err := app.openStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// the event service may serve cached documents; reservation checks always
	// read the store
	eventReads := repos.events
	if cfg.Redis.Enabled {
		client, err := redis.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			logrus.Errorf("Failed to connect to Redis: %v. Continuing without event cache...", err)
		} else {
			app.closers = append(app.closers, client.Close)
			eventReads = eventcache.NewEventCache(repos.events, client, cfg.Redis.CacheTTL)
			logrus.Info("Redis event cache enabled")
		}
	}

	publisher, err := notify.New(cfg.Notify)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize notifications: %w", err)
	}
	app.closers = append(app.closers, publisher.Close)

	// Initialize services
	codec := auth.NewTokenCodec(cfg.JWT.Secret)
	authService := service.NewAuthService(repos.users, codec, cfg.JWT.Expiration, time.Now)
	userService := service.NewUserService(repos.users, time.Now)
	eventService := service.NewEventService(eventReads, repos.rsvps, time.Now)
	rsvpService := service.NewRSVPService(repos.rsvps, repos.events, publisher, service.RSVPServiceConfig{
		AtomicCapacity: cfg.Reservation.AtomicCapacity,
		Now:            time.Now,
	})
	if !cfg.Reservation.AtomicCapacity {
		logrus.Warn("Atomic capacity checks disabled, concurrent RSVPs may exceed maxAttendees")
	}

	classifier, err := auth.NewRouteClassifier(auth.DefaultRules(transport.APIPrefix))
	if err != nil {
		return nil, err
	}
	authenticator := auth.NewAuthenticator(auth.AuthenticatorConfig{
		APIKey:       cfg.API.Key,
		APIKeyHeader: cfg.API.Header,
	}, auth.NewCredentialVerifier(codec), repos.users)

	// Initialize handlers
	handlers := &transport.Handlers{
		Auth:      transport.NewAuthHandler(authService, userService),
		Event:     transport.NewEventHandler(eventService),
		RSVP:      transport.NewRSVPHandler(rsvpService),
		User:      transport.NewUserHandler(userService),
		Admin:     transport.NewAdminHandler(rsvpService),
		Community: transport.NewCommunityHandler(cfg.Community.Links),
	}

	if cfg.Server.Mode == "release" || cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router, err := transport.InitRoutes(handlers, transport.Security{
		Classifier:    classifier,
		Authenticator: authenticator,
	}, cfg.Server.Timeout)
	if err != nil {
		return nil, err
	}

	app.Handler = corsHandler(cfg, router)
	return app, nil
}

func (a *App) openStorage(ctx context.Context, cfg *config.Config) (*repositories, error) {
	switch cfg.Database.Driver {
	case "memory":
		logrus.Warn("Using in-memory storage, data is lost on restart")
		store := memory.NewStore()
		return &repositories{users: store.Users(), events: store.Events(), rsvps: store.RSVPs()}, nil
	case "postgres":
		db, err := postgres.NewPostgresDB(&cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		a.closers = append(a.closers, db.Close)

		// Run database migrations
		if err := postgres.RunMigrations(ctx, db); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return &repositories{
			users:  repository.NewUserRepository(db),
			events: repository.NewEventRepository(db),
			rsvps:  repository.NewRSVPRepository(db),
		}, nil
	}
	return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
}

func corsHandler(cfg *config.Config, next http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"Content-Type", "Authorization", cfg.API.Header},
		AllowCredentials: true,
		MaxAge:           cfg.CORS.MaxAge,
	}).Handler(next)
}

func configureLogging(cfg *config.Config) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logrus.Warnf("Unknown log level %q, using info", cfg.Server.LogLevel)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

func NewServer(cfg *config.Config) {

	configureLogging(cfg)

	app, err := Build(context.Background(), cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize application: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logrus.Errorf("error occured while releasing resources: %s", err.Error())
		}
	}()

	srv := new(Server)
	go func() {
		if err := srv.Run(cfg, app.Handler); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.WithField("addr", cfg.GetServerAddress()).Print("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("App Shutting Down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}
}
