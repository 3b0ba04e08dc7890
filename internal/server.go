package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/coocood/freecache"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/2beens/fitforecast/internal/auth"
	"github.com/2beens/fitforecast/internal/config"
	"github.com/2beens/fitforecast/internal/db"
	"github.com/2beens/fitforecast/internal/fitness/bodyweight"
	"github.com/2beens/fitforecast/internal/fitness/meals"
	"github.com/2beens/fitforecast/internal/fitness/profile"
	"github.com/2beens/fitforecast/internal/fitness/workouts"
	"github.com/2beens/fitforecast/internal/middleware"
	"github.com/2beens/fitforecast/internal/misc"
	"github.com/2beens/fitforecast/internal/telemetry/metrics"
	"github.com/2beens/fitforecast/internal/telemetry/tracing"
)

const handlerCacheSize = 10 * 1024 * 1024

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	mobileAppSecret   string // used with the fitforecast mobile app
	versionInfo       string

	config *config.Config
	dbPool *pgxpool.Pool
	cache  *freecache.Cache

	redisClient  *redis.Client
	loginChecker *auth.LoginChecker
	authService  *auth.Service

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	MobileAppSecret         string
	VersionInfo             string
	AdminUsername           string
	AdminPasswordHash       string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": "fitforecast_db"},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("backend", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0) // will be set to 1 when all is set and ran

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	authService := auth.NewAuthService(&auth.Admin{
		Username:     params.AdminUsername,
		PasswordHash: params.AdminPasswordHash,
	}, auth.DefaultTTL, rdb)
	go func() {
		for range time.Tick(time.Hour * 8) {
			authService.ScanAndClean(ctx)
		}
	}()

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "fitforecast-backend", rdb)
	if err != nil {
		return nil, err
	}

	return &Server{
		config:          params.Config,
		dbPool:          dbPool,
		cache:           freecache.NewCache(handlerCacheSize),
		mobileAppSecret: params.MobileAppSecret,
		versionInfo:     params.VersionInfo,

		redisClient:  rdb,
		authService:  authService,
		loginChecker: auth.NewLoginChecker(auth.DefaultTTL, rdb),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)

	miscHandler := misc.NewHandler(s.versionInfo, s.authService)
	miscHandler.SetupRoutes(r, reqRateLimiter, s.config.LoginRateLimitAllowedPerMin, s.metricsManager)

	// forecast endpoints run the projection engine, keep them behind a rate limit
	forecastRateLimit := middleware.RateLimit(
		reqRateLimiter, "forecast",
		s.config.ForecastRateLimitAllowedPerMin,
		s.metricsManager,
	)

	workoutsHandler := workouts.NewHandler(
		workouts.NewRepo(s.dbPool),
		s.cache,
		s.metricsManager,
	)
	r.HandleFunc("/workouts", workoutsHandler.HandleAdd).Methods("POST", "OPTIONS").Name("new-workout")
	r.HandleFunc("/workouts", workoutsHandler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-workout")
	r.HandleFunc("/workouts", workoutsHandler.HandleDeleteAll).Methods("DELETE", "OPTIONS").Name("delete-all-workouts")
	r.HandleFunc("/workouts/list", workoutsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-workouts")
	r.HandleFunc("/workouts/stats", workoutsHandler.HandleStats).Methods("GET", "OPTIONS").Name("workouts-stats")
	r.HandleFunc("/workouts/progression", workoutsHandler.HandleProgression).Methods("GET", "OPTIONS").Name("workouts-progression")
	r.HandleFunc("/workouts/pbs", workoutsHandler.HandlePersonalBests).Methods("GET", "OPTIONS").Name("workouts-pbs")
	r.HandleFunc("/workouts/catalog", workoutsHandler.HandleCatalog).Methods("GET", "OPTIONS").Name("workouts-catalog")
	r.Handle("/workouts/forecast", forecastRateLimit(
		http.HandlerFunc(workoutsHandler.HandleForecast),
	)).Methods("GET", "OPTIONS").Name("workouts-forecast")
	r.HandleFunc("/workouts/{id}", workoutsHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-workout")
	r.HandleFunc("/workouts/{id}", workoutsHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-workout")

	mealsRepo := meals.NewRepo(s.dbPool)
	mealsHandler := meals.NewHandler(mealsRepo, s.metricsManager)
	r.HandleFunc("/meals", mealsHandler.HandleAdd).Methods("POST", "OPTIONS").Name("new-meal")
	r.HandleFunc("/meals", mealsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-meals")
	r.HandleFunc("/meals", mealsHandler.HandleDeleteAll).Methods("DELETE", "OPTIONS").Name("delete-all-meals")
	r.HandleFunc("/meals/daily", mealsHandler.HandleDaily).Methods("GET", "OPTIONS").Name("meals-daily")
	r.HandleFunc("/meals/{id}", mealsHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-meal")
	r.HandleFunc("/meals/{id}", mealsHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-meal")

	profileRepo := profile.NewRepo(s.dbPool)
	profileService := profile.NewService(profileRepo)

	weightHandler := bodyweight.NewHandler(
		bodyweight.NewRepo(s.dbPool),
		meals.NewAnalyzer(mealsRepo),
		profileService,
		s.metricsManager,
	)
	r.HandleFunc("/weight", weightHandler.HandleAdd).Methods("POST", "OPTIONS").Name("new-weight-entry")
	r.HandleFunc("/weight", weightHandler.HandleList).Methods("GET", "OPTIONS").Name("list-weight-entries")
	r.HandleFunc("/weight", weightHandler.HandleDeleteAll).Methods("DELETE", "OPTIONS").Name("delete-all-weight-entries")
	r.HandleFunc("/weight/stats", weightHandler.HandleStats).Methods("GET", "OPTIONS").Name("weight-stats")
	r.Handle("/weight/forecast", forecastRateLimit(
		http.HandlerFunc(weightHandler.HandleForecast),
	)).Methods("GET", "OPTIONS").Name("weight-forecast")
	r.HandleFunc("/weight/{id}", weightHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-weight-entry")

	profileHandler := profile.NewHandler(
		profileRepo,
		weightHandler.Analyzer(),
		s.cache,
	)
	r.HandleFunc("/profile", profileHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-profile")
	r.HandleFunc("/profile", profileHandler.HandleUpdate).Methods("POST", "PUT", "OPTIONS").Name("update-profile")
	r.HandleFunc("/profile/tdee", profileHandler.HandleTDEE).Methods("GET", "OPTIONS").Name("profile-tdee")
	r.HandleFunc("/forecast/activities", profileHandler.HandleActivities).Methods("GET", "OPTIONS").Name("forecast-activities")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(
		s.mobileAppSecret,
		s.loginChecker,
	)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r, nil
}

func (s *Server) Serve(_ context.Context, host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown http server")
	}
	log.Warnln("server shut down")

	if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown metrics http server")
	}
	log.Warnln("metrics server shut down")
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
