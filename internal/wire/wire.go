// Package wire provides dependency injection for the DESAS application.
// It creates singleton services with lazy initialization.
package wire

import (
	"io"
	"log"
	"log/slog"
	"os"
	"sync"

	"github.com/gin-gonic/gin"

	cliadapter "github.com/example/desas/internal/adapters/cli"
	"github.com/example/desas/internal/adapters/email"
	"github.com/example/desas/internal/adapters/httpapi"
	"github.com/example/desas/internal/adapters/persistence"
	"github.com/example/desas/internal/adapters/sms"
	"github.com/example/desas/internal/adapters/sqlite"
	"github.com/example/desas/internal/app"
	"github.com/example/desas/internal/auth"
	"github.com/example/desas/internal/config"
	"github.com/example/desas/internal/db"
	"github.com/example/desas/internal/logging"
	"github.com/example/desas/internal/ports/primary"
	"github.com/example/desas/internal/ports/secondary"
)

// EnvFile is read on first use. Variables already in the environment take precedence.
var EnvFile = ".env"

var (
	cfg    *config.Config
	logger *slog.Logger

	userRepo secondary.UserRepository

	eventService     primary.EventService
	dutyService      primary.DutyService
	guardService     primary.GuardService
	userService      primary.UserService
	logService       primary.MessageLogService
	reviewService    primary.ReviewService
	dashboardService primary.DashboardService

	once sync.Once
)

// Config returns the loaded configuration.
func Config() *config.Config {
	once.Do(initServices)
	return cfg
}

// Logger returns the process logger.
func Logger() *slog.Logger {
	once.Do(initServices)
	return logger
}

// EventService returns the singleton EventService instance.
func EventService() primary.EventService {
	once.Do(initServices)
	return eventService
}

// DutyService returns the singleton DutyService instance.
func DutyService() primary.DutyService {
	once.Do(initServices)
	return dutyService
}

// GuardService returns the singleton GuardService instance.
func GuardService() primary.GuardService {
	once.Do(initServices)
	return guardService
}

// UserService returns the singleton UserService instance.
func UserService() primary.UserService {
	once.Do(initServices)
	return userService
}

// MessageLogService returns the singleton MessageLogService instance.
func MessageLogService() primary.MessageLogService {
	once.Do(initServices)
	return logService
}

// ReviewService returns the singleton ReviewService instance.
func ReviewService() primary.ReviewService {
	once.Do(initServices)
	return reviewService
}

// DashboardService returns the singleton DashboardService instance.
func DashboardService() primary.DashboardService {
	once.Do(initServices)
	return dashboardService
}

// UserRepository returns the user store. The CLI login uses it to resolve a username.
func UserRepository() secondary.UserRepository {
	once.Do(initServices)
	return userRepo
}

// TokenIssuer returns an issuer for the configured secret, or auth.ErrNoSecret.
func TokenIssuer() (*auth.TokenIssuer, error) {
	c := Config()
	return auth.NewTokenIssuer(c.JWTSecret, c.TokenTTL)
}

// Router builds the HTTP API around the singleton services.
func Router() (*gin.Engine, error) {
	tokens, err := TokenIssuer()
	if err != nil {
		return nil, err
	}
	once.Do(initServices)

	svc := httpapi.Services{
		Events:    eventService,
		Duties:    dutyService,
		Guards:    guardService,
		Users:     userService,
		Logs:      logService,
		Reviews:   reviewService,
		Dashboard: dashboardService,
	}
	return httpapi.NewRouter(svc, tokens, httpapi.Options{
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logger,
	}), nil
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	var err error
	cfg, err = config.Load(EnvFile)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err = logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("failed to configure logging: %v", err)
	}

	if cfg.DBPath != "" {
		db.SetPath(cfg.DBPath)
	}
	database, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Create repository adapters (secondary ports) - sqlite adapters with injected DB
	userRepo = sqlite.NewUserRepository(database)
	profileRepo := sqlite.NewGuardProfileRepository(database)
	eventRepo := sqlite.NewEventRepository(database)
	assignmentRepo := sqlite.NewAssignmentRepository(database)
	messageLogRepo := sqlite.NewMessageLogRepository(database)
	reviewRepo := sqlite.NewReviewRepository(database)
	dashboardRepo := sqlite.NewDashboardRepository(database)
	identity := persistence.NewUserIdentityProvider(userRepo)

	// A disabled channel must reach the dispatcher as an untyped nil.
	var emailTransport secondary.EmailTransport
	if cfg.EmailEnabled() {
		emailTransport = email.NewSMTPTransport(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	} else {
		logger.Debug("email delivery disabled", "reason", "SMTP_HOST not set")
	}
	var smsTransport secondary.SMSTransport
	if cfg.SMSEnabled() {
		smsTransport = sms.NewTwilioTransport(cfg.TwilioAccountSID, cfg.TwilioAuthToken)
	} else {
		logger.Debug("sms delivery disabled", "reason", "twilio credentials incomplete")
	}

	dispatcher := app.NewDispatcher(emailTransport, smsTransport, cfg.FromEmail, cfg.TwilioPhoneNumber, logger)
	audit := app.NewAuditLogger(messageLogRepo, logger)
	executor := app.NewEffectExecutor(dispatcher, audit, logger)

	// Create services (primary ports implementation)
	eventService = app.NewEventService(eventRepo, userRepo, identity, executor, cfg.SMSOnReject)
	dutyService = app.NewDutyService(eventRepo, assignmentRepo, userRepo, profileRepo, identity, executor, cfg.AdminEmail)
	guardService = app.NewGuardService(userRepo, profileRepo, assignmentRepo, identity)
	userService = app.NewUserService(userRepo, identity)
	logService = app.NewMessageLogService(messageLogRepo, identity)
	reviewService = app.NewReviewService(eventRepo, reviewRepo, identity)
	dashboardService = app.NewDashboardService(dashboardRepo, identity)
}

// EventAdapter returns a new EventAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func EventAdapter() *cliadapter.EventAdapter {
	return EventAdapterWithOutput(os.Stdout)
}

// EventAdapterWithOutput returns a new EventAdapter writing to the given output.
func EventAdapterWithOutput(out io.Writer) *cliadapter.EventAdapter {
	once.Do(initServices)
	return cliadapter.NewEventAdapter(eventService, out)
}

// DutyAdapter returns a new DutyAdapter writing to stdout.
func DutyAdapter() *cliadapter.DutyAdapter {
	once.Do(initServices)
	return cliadapter.NewDutyAdapter(dutyService, os.Stdout)
}

// RosterAdapter returns a new RosterAdapter writing to stdout.
func RosterAdapter() *cliadapter.RosterAdapter {
	once.Do(initServices)
	return cliadapter.NewRosterAdapter(userService, guardService, os.Stdout)
}

// ReviewAdapter returns a new ReviewAdapter writing to stdout.
func ReviewAdapter() *cliadapter.ReviewAdapter {
	once.Do(initServices)
	return cliadapter.NewReviewAdapter(reviewService, os.Stdout)
}

// DashboardAdapter returns a new DashboardAdapter writing to stdout.
func DashboardAdapter() *cliadapter.DashboardAdapter {
	once.Do(initServices)
	return cliadapter.NewDashboardAdapter(dashboardService, os.Stdout)
}

// LogAdapter returns a new LogAdapter writing to stdout.
func LogAdapter() *cliadapter.LogAdapter {
	once.Do(initServices)
	return cliadapter.NewLogAdapter(logService, os.Stdout)
}
