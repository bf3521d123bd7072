// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	healthfeature "github.com/bookworks/middleoffice/internal/app/features/health"
	validationsfeature "github.com/bookworks/middleoffice/internal/app/features/validations"
	validationservice "github.com/bookworks/middleoffice/internal/app/service/validation"
	auditstore "github.com/bookworks/middleoffice/internal/app/store/audit"
	requeststore "github.com/bookworks/middleoffice/internal/app/store/requests"
	templatestore "github.com/bookworks/middleoffice/internal/app/store/templates"
	"github.com/bookworks/middleoffice/internal/app/system/auditlog"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. It wires the Mongo-backed stores into
// the validation service and mounts the feature routers:
//   - /health for load balancers and orchestrators
//   - /validations for the request lifecycle and validator inboxes
//   - /books for the per-book request history
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	templates := templatestore.New(deps.MongoDatabase)
	requests := requeststore.New(deps.MongoDatabase)

	auditor := auditlog.New(
		auditstore.New(deps.MongoDatabase),
		logger,
		auditlog.Config{Validation: appCfg.AuditLogValidation},
	)

	svc := validationservice.New(templates, requests, nil, auditor, logger)

	r := chi.NewRouter()

	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	validationsHandler := validationsfeature.NewHandler(svc, logger)
	r.Mount("/validations", validationsfeature.Routes(validationsHandler))
	r.Mount("/books", validationsfeature.BookRoutes(validationsHandler))

	return r, nil
}
