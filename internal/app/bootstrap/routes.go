// internal/app/bootstrap/routes.go
package bootstrap

import (
	"crypto/sha256"
	"errors"
	"net/http"

	adminfeature "github.com/Aatka-Saleem/fitness-testing/internal/app/features/admin"
	bodymetricsfeature "github.com/Aatka-Saleem/fitness-testing/internal/app/features/bodymetrics"
	dashboardfeature "github.com/Aatka-Saleem/fitness-testing/internal/app/features/dashboard"
	errorsfeature "github.com/Aatka-Saleem/fitness-testing/internal/app/features/errors"
	exercisesfeature "github.com/Aatka-Saleem/fitness-testing/internal/app/features/exercises"
	healthfeature "github.com/Aatka-Saleem/fitness-testing/internal/app/features/health"
	homefeature "github.com/Aatka-Saleem/fitness-testing/internal/app/features/home"
	loginfeature "github.com/Aatka-Saleem/fitness-testing/internal/app/features/login"
	logoutfeature "github.com/Aatka-Saleem/fitness-testing/internal/app/features/logout"
	plannersfeature "github.com/Aatka-Saleem/fitness-testing/internal/app/features/planners"
	progressfeature "github.com/Aatka-Saleem/fitness-testing/internal/app/features/progress"
	userstore "github.com/Aatka-Saleem/fitness-testing/internal/app/store/users"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// Startup have completed. It boots the template engine, applies session and
// CSRF middleware, and mounts the feature routers: login, home, dashboard,
// body metrics, progress, planners, exercises and admin.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	svc := services
	if svc == nil {
		return nil, errors.New("bootstrap: Startup has not run")
	}
	db := deps.MongoDatabase

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}
	// Refresh the user from the database on each request so a deleted user
	// or a role change takes effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(db))

	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errLog := errorsfeature.NewErrorLogger(logger)

	r := chi.NewRouter()

	// Health check and static assets sit outside session and CSRF handling.
	healthHandler := healthfeature.NewHandler(deps.MongoClient, svc.AI.Available(), logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	r.Group(func(r chi.Router) {
		if !secure {
			// gorilla/csrf assumes TLS; mark plain-HTTP dev requests so its
			// origin check compares against http://.
			r.Use(func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
					next.ServeHTTP(w, csrf.PlaintextHTTPRequest(req))
				})
			})
		}
		csrfKey := sha256.Sum256([]byte("csrf:" + appCfg.SessionKey))
		r.Use(csrf.Protect(csrfKey[:],
			csrf.Secure(secure),
			csrf.Path("/"),
			csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				logger.Warn("csrf check failed", zap.String("path", req.URL.Path), zap.Error(csrf.FailureReason(req)))
				errorsfeature.RenderForbidden(w, req, "Your form expired. Please go back and try again.", "/home")
			})),
		))

		// Global auth middleware: loads SessionUser into context if logged in.
		r.Use(sessionMgr.LoadSessionUser)

		homeHandler := homefeature.NewHandler(db, svc.Coach, svc.Scanner, errLog, logger)
		r.Mount("/", homefeature.RootRoutes(homeHandler))
		r.Mount("/home", homefeature.Routes(homeHandler, sessionMgr))

		// Authentication
		loginHandler := loginfeature.NewHandler(db, sessionMgr, errLog, svc.LoginLimiter, svc.Audit, logger)
		r.Mount("/login", loginfeature.Routes(loginHandler))

		logoutHandler := logoutfeature.NewHandler(sessionMgr, svc.Audit, logger)
		r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

		// Error pages
		errorsHandler := errorsfeature.NewHandler()
		r.Get("/forbidden", errorsHandler.Forbidden)
		r.Get("/unauthorized", errorsHandler.Unauthorized)

		dashboardHandler := dashboardfeature.NewHandler(db, svc.Coach, errLog, logger)
		r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))

		metricsHandler := bodymetricsfeature.NewHandler(db, svc.Coach, errLog, logger)
		r.Mount("/body-metrics", bodymetricsfeature.Routes(metricsHandler, sessionMgr))

		progressHandler := progressfeature.NewHandler(db, svc.Coach, errLog, logger)
		r.Mount("/progress", progressfeature.Routes(progressHandler, sessionMgr))

		plannersHandler := plannersfeature.NewHandler(db, svc.Coach, errLog, logger)
		r.Mount("/planners", plannersfeature.Routes(plannersHandler, sessionMgr))

		exercisesHandler := exercisesfeature.NewHandler(db, svc.Coach, exercisesfeature.MustLoadCatalog(), errLog, logger)
		r.Mount("/exercises", exercisesfeature.Routes(exercisesHandler, sessionMgr))

		// Admin panel: organizations, teams, manual scan
		adminHandler := adminfeature.NewHandler(db, svc.Scanner, svc.Audit, errLog, logger)
		r.Mount("/admin", adminfeature.Routes(adminHandler, sessionMgr))
	})

	return r, nil
}
