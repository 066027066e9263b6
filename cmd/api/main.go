// Command api exposes the passkey gallery HTTP API.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/go-redis/redis"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/oklog/run"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	gallery "github.com/naszahistoria/gallery"
	"github.com/naszahistoria/gallery/internal/authapi"
	"github.com/naszahistoria/gallery/internal/blob"
	"github.com/naszahistoria/gallery/internal/challenge"
	"github.com/naszahistoria/gallery/internal/pg"
	"github.com/naszahistoria/gallery/internal/photoapi"
	"github.com/naszahistoria/gallery/internal/session"
	"github.com/naszahistoria/gallery/internal/webauthn"
)

func main() {
	var err error

	var logger log.Logger
	{
		logger = log.NewJSONLogger(log.NewSyncWriter(os.Stderr))
		logger = log.With(logger, "ts", log.DefaultTimestampUTC)
		logger = log.With(logger, "caller", log.DefaultCaller)
	}

	var configPath string
	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	{
		fs.Bool("api.debug", false, "Enable debug logging")
		fs.Bool("api.production", false, "Enable production cookie attributes")
		fs.String("api.http-addr", ":8080", "Address to listen on")
		fs.String("api.allowed-origins", "*", "Comma separated list of allowed origins")
		fs.String("api.cookie-domain", "", "Domain to set HTTP cookie")
		fs.String("api.registration-key", "", "Shared key gating passkey registration")
		fs.String("pg.conn-string", "", "Postgres connection string")
		fs.String("redis.conn-string", "", "Redis connection string")
		fs.String("webauthn.display-name", "Nasza Historia", "Webauthn display name")
		fs.String("webauthn.rp-id", "localhost", "Relying party ID")
		fs.StringSlice("webauthn.origins", []string{"http://localhost:3000"}, "Allowed ceremony origins")
		fs.String("blob.bucket", "", "Bucket for uploaded photos")
		fs.String("blob.region", "auto", "Object storage region")
		fs.String("blob.endpoint", "", "S3 compatible endpoint")
		fs.String("blob.access-key", "", "Object storage access key")
		fs.String("blob.secret-key", "", "Object storage secret key")
		fs.String("blob.public-base-url", "", "Base URL uploaded photos are served from")

		fs.StringVar(&configPath, "config", "", "Path to the config file")
		err = fs.Parse(os.Args[1:])
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		if err != nil {
			logger.Log("message", "failed to parse cli flags", "error", err, "source", "cmd/api")
			os.Exit(1)
		}
	}

	if _, err = os.Stat(configPath); !os.IsNotExist(err) {
		viper.SetConfigFile(configPath)
		err = viper.ReadInConfig()
		if err != nil {
			logger.Log("message", "failed to load config file", "error", err, "source", "cmd/api")
			os.Exit(1)
		}
	}
	if err = viper.BindPFlags(fs); err != nil {
		logger.Log("message", "failed to load cli flags", "error", err, "source", "cmd/api")
		os.Exit(1)
	}

	if viper.GetBool("api.debug") {
		logger = level.NewFilter(logger, level.AllowDebug())
	} else {
		logger = level.NewFilter(logger, level.AllowInfo())
	}

	if viper.GetString("api.registration-key") == "" {
		logger.Log("message", "registration key is not configured", "source", "cmd/api")
		os.Exit(1)
	}

	var pgDB *sql.DB
	{
		pgDB, err = sql.Open("postgres", viper.GetString("pg.conn-string"))
		if err != nil {
			logger.Log(
				"message", "postgres connection failed",
				"error", err,
				"source", "cmd/api",
			)
			os.Exit(1)
		}
		if err = pgDB.Ping(); err != nil {
			logger.Log("message", "postgres did not respond", "error", err, "source", "cmd/api")
			os.Exit(1)
		}
		defer func() {
			if err = pgDB.Close(); err != nil {
				logger.Log(
					"message", "failed to close postgres connection",
					"error", err,
					"source", "cmd/api",
				)
			}
		}()
	}

	var redisDB *redis.Client
	{
		redisConf, err := redis.ParseURL(viper.GetString("redis.conn-string"))
		if err != nil {
			logger.Log("message", "invalid redis configuration", "error", err, "source", "cmd/api")
			os.Exit(1)
		}
		redisDB = redis.NewClient(redisConf)
		closeRedis := func() {
			if err = redisDB.Close(); err != nil {
				logger.Log(
					"message", "failed to close redis connection",
					"error", err,
					"source", "cmd/api",
				)
			}
		}

		if _, err = redisDB.Ping().Result(); err != nil {
			logger.Log("message", "redis connection failed", "error", err, "source", "cmd/api")
			closeRedis()
			os.Exit(1)
		}
		defer closeRedis()
	}

	repoMngr := pg.NewClient(
		pg.WithLogger(logger),
		pg.WithDB(pgDB),
	)

	challengeStore := challenge.NewService(
		challenge.WithLogger(logger),
		challenge.WithDB(redisDB),
		challenge.WithTTL(gallery.ChallengeTTL),
	)

	sessionSvc := session.NewService(
		session.WithLogger(logger),
		session.WithRepoManager(repoMngr),
		session.WithTokenExpiry(gallery.SessionTTL),
		session.WithCookieDomain(viper.GetString("api.cookie-domain")),
		session.WithProductionMode(viper.GetBool("api.production")),
	)

	webauthnSvc, err := webauthn.NewService(
		webauthn.WithLogger(logger),
		webauthn.WithDisplayName(viper.GetString("webauthn.display-name")),
		webauthn.WithRelyingParty(viper.GetString("webauthn.rp-id")),
		webauthn.WithOrigins(viper.GetStringSlice("webauthn.origins")),
	)
	if err != nil {
		logger.Log("message", "failed to build webauthn service", "error", err, "source", "cmd/api")
		os.Exit(1)
	}

	blobStorage, err := blob.NewService(
		blob.WithLogger(logger),
		blob.WithBucket(viper.GetString("blob.bucket")),
		blob.WithRegion(viper.GetString("blob.region")),
		blob.WithEndpoint(viper.GetString("blob.endpoint")),
		blob.WithCredentials(
			viper.GetString("blob.access-key"),
			viper.GetString("blob.secret-key"),
		),
		blob.WithPublicBaseURL(viper.GetString("blob.public-base-url")),
	)
	if err != nil {
		logger.Log("message", "failed to build blob storage", "error", err, "source", "cmd/api")
		os.Exit(1)
	}

	authAPI := authapi.NewService(
		authapi.WithLogger(logger),
		authapi.WithWebAuthn(webauthnSvc),
		authapi.WithSessionService(sessionSvc),
		authapi.WithChallengeStore(challengeStore),
		authapi.WithRepoManager(repoMngr),
		authapi.WithRegistrationKey(viper.GetString("api.registration-key")),
	)

	photoAPI := photoapi.NewService(
		photoapi.WithLogger(logger),
		photoapi.WithRepoManager(repoMngr),
		photoapi.WithBlobStorage(blobStorage),
	)

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	authapi.SetupHTTPHandler(authAPI, router, sessionSvc, logger)
	photoapi.SetupHTTPHandler(photoAPI, router, sessionSvc, logger)

	server := http.Server{
		Addr: viper.GetString("api.http-addr"),
		Handler: handlers.CORS(
			handlers.AllowedOrigins(strings.Split(
				viper.GetString("api.allowed-origins"), ","),
			),
			handlers.AllowedHeaders([]string{
				"X-Requested-With",
				"Content-Type",
			}),
			handlers.AllowCredentials(),
			handlers.AllowedMethods([]string{"GET", "POST", "PATCH", "OPTIONS", "HEAD"}),
		)(router),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())

	var g run.Group
	{
		g.Add(func() error {
			sig := make(chan os.Signal, 1)
			signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
			return fmt.Errorf("signal received: %v", <-sig)
		}, func(err error) {
			logger.Log("message", "program was interrupted", "error", err, "source", "cmd/api")
			cancel()
		})
	}
	{
		g.Add(func() error {
			logger.Log(
				"message", "API server is starting",
				"address", server.Addr,
				"source", "cmd/api",
			)
			return server.ListenAndServe()
		}, func(err error) {
			logger.Log(
				"message", "API server was interrupted",
				"error", err,
				"source", "cmd/api",
			)
			logger.Log(
				"message", "API server shut down",
				"error", server.Shutdown(ctx),
				"source", "cmd/api",
			)
		})
	}

	err = g.Run()
	logger.Log("message", "actors stopped", "error", err, "source", "cmd/api")
}
