package main

import (
	"github.com/0xPetra/zuzagorauth/pkg/appbuilder"
	"github.com/0xPetra/zuzagorauth/pkg/logger"
	"github.com/0xPetra/zuzagorauth/pkg/rabbitmq"
	"github.com/0xPetra/zuzagorauth/pkg/rest"
	"github.com/0xPetra/zuzagorauth/pkg/utilities"
	"github.com/0xPetra/zuzagorauth/src/audit"
	"github.com/0xPetra/zuzagorauth/src/auth"
	"github.com/0xPetra/zuzagorauth/src/nullifier"
	"github.com/0xPetra/zuzagorauth/src/session"
	"github.com/0xPetra/zuzagorauth/src/sso"
	"github.com/0xPetra/zuzagorauth/src/tickets"
	"github.com/0xPetra/zuzagorauth/src/zkp"
)

const (
	logPublisherAlias = "LogPublisher"
	secretEnvVar      = "DISCOURSE_CONNECT_SECRET"
)

func main() {
	var authHandler *auth.Handler

	appbuilder.New[AppConfigJson, AppConfig]().
		InitLogger(logger.GlobalLoggerConfig{}).
		ResolveEnvironment().
		LoadConfig("config.json").
		InitRabbitmqConnection().
		WithOption(func(a *appbuilder.AppBuilder[AppConfigJson, AppConfig]) {
			cfg := a.Config()
			appLogger := logger.Default()

			// The shared secret is a fatal configuration error when absent;
			// nothing can be signed without it.
			signer, err := sso.NewSigner(utilities.MustEnv(secretEnvVar))
			if err != nil {
				appLogger.Panic(err, "Cannot construct SSO signer")
			}

			directory, err := tickets.NewDirectory(cfg.WhitelistedTickets)
			if err != nil {
				appLogger.Panic(err, "Invalid whitelisted tickets config")
			}
			resolver := tickets.NewResolver(directory, cfg.SupportedEvents)

			guard, err := nullifier.NewBoltGuard(cfg.NullifierDBPath)
			if err != nil {
				appLogger.Panic(err, "Cannot open nullifier store")
			}

			verifier, err := zkp.NewGnarkVerifier(cfg.VerifyingKeyPath, cfg.ProofTimeout)
			if err != nil {
				appLogger.Panic(err, "Cannot load proof verifying key")
			}

			sessions := session.NewStore(cfg.SessionCookieName, cfg.SecureCookies)

			// ----- AUDIT + LOG SINK (only with a broker) -----
			var recorder audit.Recorder = audit.NopRecorder{}
			if a.RabbitmqEnabled() {
				auditWorker := audit.NewPublisherWorker()
				recorder = auditWorker
				a.AddWorkerServices(auditWorker)

				if logPublisher := rabbitmq.GetPublisher(logPublisherAlias); logPublisher != nil {
					logSink := rabbitmq.CreateRabbitmqLoggerSink(logPublisher)
					logger.AddSinkToLoggerInstance(appLogger, logSink)
				}
			}

			authHandler = auth.Build(verifier, resolver, guard, signer, sessions, recorder)

			// ----- CORS -----
			a.AddGinMiddleware(
				rest.NewMiddleware("*", rest.CORSMiddleware(cfg.AllowedOrigin)),
			)
		}).

		// ----- ROUTES -----
		AddGinRoutes(
			rest.NewRoute(rest.POST, "v1", "auth/authenticate", authHandler.Authenticate),
			rest.NewRoute(rest.GET, "v1", "auth/nonce", authHandler.Nonce),
			rest.NewRoute(rest.GET, "v1", "auth/sso", authHandler.SSOLogin),
			rest.NewRoute(rest.GET, "v1", "health", authHandler.Health),
		).
		InitGinRouter().
		Build().
		Start()
}
