// server runs the constituent-connect HTTP API.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	accounthandler "constituent-connect/backend/internal/account/handler"
	accountrepo "constituent-connect/backend/internal/account/repository"
	accountservice "constituent-connect/backend/internal/account/service"
	adminrepo "constituent-connect/backend/internal/admin/repository"
	"constituent-connect/backend/internal/audit"
	auditrepo "constituent-connect/backend/internal/audit/repository"
	authnrepo "constituent-connect/backend/internal/authn/repository"
	authnservice "constituent-connect/backend/internal/authn/service"
	"constituent-connect/backend/internal/authn/sms"
	billshandler "constituent-connect/backend/internal/bills/handler"
	billsrepo "constituent-connect/backend/internal/bills/repository"
	concernshandler "constituent-connect/backend/internal/concerns/handler"
	concernsrepo "constituent-connect/backend/internal/concerns/repository"
	concernsservice "constituent-connect/backend/internal/concerns/service"
	"constituent-connect/backend/internal/config"
	"constituent-connect/backend/internal/db"
	"constituent-connect/backend/internal/devotp"
	loginhandler "constituent-connect/backend/internal/login/handler"
	loginservice "constituent-connect/backend/internal/login/service"
	projectshandler "constituent-connect/backend/internal/projects/handler"
	projectsrepo "constituent-connect/backend/internal/projects/repository"
	repshandler "constituent-connect/backend/internal/representative/handler"
	repsrepo "constituent-connect/backend/internal/representative/repository"
	"constituent-connect/backend/internal/security"
	"constituent-connect/backend/internal/server"
	"constituent-connect/backend/internal/server/httpx"
	sessionrepo "constituent-connect/backend/internal/session/repository"
	sessionservice "constituent-connect/backend/internal/session/service"
	"constituent-connect/backend/internal/telemetry"
	"constituent-connect/backend/internal/telemetry/otel"
	"constituent-connect/backend/internal/telemetry/producer"
	updateshandler "constituent-connect/backend/internal/updates/handler"
	updatesrepo "constituent-connect/backend/internal/updates/repository"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		log.Error("config", "error", err)
		os.Exit(1)
	}
	if cfg.DatabaseURL == "" {
		log.Error("DATABASE_URL is not set")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	providers, err := otel.NewProviders(ctx, cfg.OTLPEndpoint, "concon-server", cfg.OTLPInsecure)
	if err != nil {
		log.Error("otel setup", "error", err)
		os.Exit(1)
	}
	providers.SetGlobal()

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Error("open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	privateKey, err := security.ParsePrivateKey(cfg.JWTPrivateKey)
	if err != nil {
		log.Error("parse JWT_PRIVATE_KEY", "error", err)
		os.Exit(1)
	}
	publicKey, err := security.ParsePublicKey(cfg.JWTPublicKey)
	if err != nil {
		log.Error("parse JWT_PUBLIC_KEY", "error", err)
		os.Exit(1)
	}
	tokens := security.NewTokenProvider(privateKey, publicKey, cfg.JWTIssuer, cfg.JWTAudience, cfg.AccessTTL(), cfg.RefreshTTL())

	// OTP challenges live in Redis when configured, Postgres otherwise.
	var challenges authnrepo.ChallengeStore
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close()
		challenges = authnrepo.NewRedisChallengeStore(client)
	} else {
		pg := authnrepo.NewPostgresChallengeStore(database)
		go purgeExpiredChallenges(ctx, pg, log)
		challenges = pg
	}

	var sender sms.Sender
	var devStore devotp.Store
	if cfg.OTPReturnToClient {
		sender = sms.NopSender{Logger: log}
		devStore = devotp.NewMemoryStore()
	} else {
		sender = sms.NewSMSLocalClient(cfg.SMSLocalAPIKey, cfg.SMSLocalBaseURL, cfg.SMSLocalSender)
	}

	identities := authnrepo.NewPostgresIdentityRepository(database)
	otp := authnservice.NewOTPService(challenges, identities, sender, security.NewCodeHasher(cfg.BcryptCost), devStore, cfg.ChallengeTTL())

	admins := adminrepo.NewPostgresRepository(database)
	accounts := accountrepo.NewPostgresRepository(database)
	resolver := loginservice.NewResolver(admins, accounts, otp)

	sessions := sessionservice.NewSessionService(sessionrepo.NewPostgresRepository(database), tokens, cfg.RefreshTTL())

	auditor := audit.NewLogger(auditrepo.NewPostgresRepository(database), httpx.ClientIPFromContext, log)

	var emitters telemetry.MultiEmitter
	emitters = append(emitters, otel.NewEventEmitter(providers.LoggerProvider))
	kafka, err := producer.NewKafkaProducer(cfg.EventsKafkaBrokersList(), cfg.EventsKafkaTopic)
	if err != nil {
		log.Error("kafka producer", "error", err)
		os.Exit(1)
	}
	if kafka != nil {
		defer kafka.Close()
		emitters = append(emitters, kafka)
	}

	router := server.NewRouter(server.Deps{
		Logger: log,
		Tokens: tokens,
		DB:     database,

		Login:          loginhandler.New(resolver, sessions, tokens, auditor, emitters, devStore),
		Accounts:       accounthandler.New(accountservice.NewProfileService(accounts), identities, accounts, auditor),
		Bills:          billshandler.New(billsrepo.NewPostgresRepository(database)),
		Projects:       projectshandler.New(projectsrepo.NewPostgresRepository(database)),
		Updates:        updateshandler.New(updatesrepo.NewPostgresRepository(database)),
		Concerns:       concernshandler.New(concernsservice.NewConcernService(concernsrepo.NewPostgresRepository(database)), auditor, emitters),
		Representative: repshandler.New(repsrepo.NewPostgresRepository(database)),
		DevOTPEnabled:  cfg.OTPReturnToClient,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("http server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("serve", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", "error", err)
	}

	// let in-flight async emits drain before tearing down the exporters
	time.Sleep(telemetry.ShutdownDrainDuration)
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Error("otel shutdown", "error", err)
	}
}

// purgeExpiredChallenges sweeps dead Postgres challenges. Redis handles this
// with key TTLs.
func purgeExpiredChallenges(ctx context.Context, store *authnrepo.PostgresChallengeStore, log *slog.Logger) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := store.PurgeExpired(ctx, time.Now().UTC()); err != nil {
				log.Warn("purge expired challenges", "error", err)
			}
		}
	}
}
