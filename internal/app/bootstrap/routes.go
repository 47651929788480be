// internal/app/bootstrap/routes.go
package bootstrap

import (
	"fmt"
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	applicationsfeature "github.com/memberhub/memberhub/internal/app/features/applications"
	associatesfeature "github.com/memberhub/memberhub/internal/app/features/associates"
	eventsfeature "github.com/memberhub/memberhub/internal/app/features/events"
	executivesfeature "github.com/memberhub/memberhub/internal/app/features/executives"
	healthfeature "github.com/memberhub/memberhub/internal/app/features/health"
	loginfeature "github.com/memberhub/memberhub/internal/app/features/login"
	logoutfeature "github.com/memberhub/memberhub/internal/app/features/logout"
	partnerappsfeature "github.com/memberhub/memberhub/internal/app/features/partnerapps"
	partnersfeature "github.com/memberhub/memberhub/internal/app/features/partners"
	rolesfeature "github.com/memberhub/memberhub/internal/app/features/roles"
	settingsfeature "github.com/memberhub/memberhub/internal/app/features/settings"
	subscribersfeature "github.com/memberhub/memberhub/internal/app/features/subscribers"
	applicationstore "github.com/memberhub/memberhub/internal/app/store/applications"
	"github.com/memberhub/memberhub/internal/app/store/audit"
	credentialstore "github.com/memberhub/memberhub/internal/app/store/credentials"
	eventstore "github.com/memberhub/memberhub/internal/app/store/events"
	executivestore "github.com/memberhub/memberhub/internal/app/store/executives"
	loginstore "github.com/memberhub/memberhub/internal/app/store/logins"
	memberstore "github.com/memberhub/memberhub/internal/app/store/members"
	partnerstore "github.com/memberhub/memberhub/internal/app/store/partners"
	rolestore "github.com/memberhub/memberhub/internal/app/store/roles"
	settingsstore "github.com/memberhub/memberhub/internal/app/store/settings"
	subscriberstore "github.com/memberhub/memberhub/internal/app/store/subscribers"
	"github.com/memberhub/memberhub/internal/app/system/auditlog"
	"github.com/memberhub/memberhub/internal/app/system/auth"
	"github.com/memberhub/memberhub/internal/app/system/mailer"
	"github.com/memberhub/memberhub/internal/app/system/ratelimit"
	"github.com/memberhub/memberhub/internal/app/system/txn"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed. It builds the stores, wires the audit
// trail and mailer, and mounts a feature router per API area.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	// Audit trail: MongoDB store plus structured logs, per config.
	auditLog := auditlog.New(audit.New(db), logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})

	// Outbound mail. New returns nil when no SMTP host is configured,
	// which turns every send into a no-op.
	from := appCfg.MailFrom
	if appCfg.MailFromName != "" {
		from = fmt.Sprintf("%s <%s>", appCfg.MailFromName, appCfg.MailFrom)
	}
	mail := mailer.New(mailer.Config{
		Host: appCfg.MailSMTPHost,
		Port: appCfg.MailSMTPPort,
		User: appCfg.MailSMTPUser,
		Pass: appCfg.MailSMTPPass,
		From: from,
	}, logger)

	// Paired profile+credential writes go through one transaction runner
	// so the fallback decision (transactions vs compensating deletes) is
	// made once per deployment.
	runner := &txn.Runner{Client: deps.MongoClient, Log: logger}

	creds := credentialstore.New(db)
	members := memberstore.New(db, creds, runner, logger)
	executives := executivestore.New(db, creds, runner, logger)
	partners := partnerstore.New(db)
	events := eventstore.New(db)
	subscribers := subscriberstore.New(db)
	roleStore := rolestore.New(db)
	appsStore := applicationstore.New(db)
	settings := settingsstore.New(db, logger)
	logins := loginstore.New(db)

	loginLimiter := ratelimit.New(appCfg.LoginRateLimit, appCfg.LoginRateWindow)
	publicLimiter := ratelimit.New(appCfg.PublicRateLimit, appCfg.PublicRateWindow)

	r := chi.NewRouter()

	// Global auth middleware: loads the session user into context so any
	// handler can call auth.CurrentUser(r).
	r.Use(auth.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	r.Mount("/health", healthfeature.Routes(healthfeature.NewHandler(deps.MongoClient, logger)))

	// Authentication
	r.Mount("/login", loginfeature.Routes(
		loginfeature.NewHandler(creds, members, logins, auditLog, loginLimiter, logger)))
	r.Mount("/logout", logoutfeature.Routes(logoutfeature.NewHandler(auditLog, logger)))

	// Associate membership: public signup, admin review, self-service
	associatesHandler := associatesfeature.NewHandler(members, auditLog, mail, appCfg.SiteName, appCfg.BaseURL, logger)
	associatesHandler.Limiter = publicLimiter
	r.Mount("/associate-members", associatesfeature.Routes(associatesHandler))
	r.Mount("/partner-applications", partnerappsfeature.Routes(
		partnerappsfeature.NewHandler(members, logger)))

	// Events with public registration
	eventsHandler := eventsfeature.NewHandler(events, auditLog, mail, appCfg.SiteName, logger)
	eventsHandler.Limiter = publicLimiter
	r.Mount("/events", eventsfeature.Routes(eventsHandler))

	// Admin-curated ordered rosters
	r.Mount("/partners", partnersfeature.Routes(
		partnersfeature.NewHandler(partners, auditLog, logger)))
	r.Mount("/executives", executivesfeature.Routes(
		executivesfeature.NewHandler(executives, auditLog, logger)))

	// Executive recruitment: roles, the application form, site settings
	r.Mount("/executive-roles", rolesfeature.Routes(
		rolesfeature.NewHandler(roleStore, auditLog, logger)))
	applicationsHandler := applicationsfeature.NewHandler(appsStore, roleStore, settings, auditLog, logger)
	applicationsHandler.Limiter = publicLimiter
	r.Mount("/executive-application", applicationsfeature.Routes(applicationsHandler))
	r.Mount("/settings", settingsfeature.Routes(
		settingsfeature.NewHandler(settings, auditLog, logger)))

	// Mailing list. /subscribe is the public alias the site form posts to.
	subscribersHandler := subscribersfeature.NewHandler(subscribers, logger)
	subscribersHandler.Limiter = publicLimiter
	r.With(publicLimiter.Middleware).Post("/subscribe", subscribersHandler.HandleSubscribe)
	r.Mount("/subscribers", subscribersfeature.Routes(subscribersHandler))

	return r, nil
}
