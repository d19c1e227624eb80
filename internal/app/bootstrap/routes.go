// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/middleware"
	bookmarkapifeature "github.com/linkvault/linkvault/internal/app/features/bookmarkapi"
	folderapifeature "github.com/linkvault/linkvault/internal/app/features/folderapi"
	healthfeature "github.com/linkvault/linkvault/internal/app/features/health"
	sharingapifeature "github.com/linkvault/linkvault/internal/app/features/sharingapi"
	statsapifeature "github.com/linkvault/linkvault/internal/app/features/statsapi"
	tagapifeature "github.com/linkvault/linkvault/internal/app/features/tagapi"
	"github.com/linkvault/linkvault/internal/app/system/apicors"
	"github.com/linkvault/linkvault/internal/app/system/auth"
	"github.com/linkvault/linkvault/internal/app/system/jsonutil"
	"github.com/linkvault/linkvault/internal/app/system/ledger"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and any Startup hooks have completed.
//
// LinkVault is an API-only service. The route surface is:
//
//	/health, /ready, /livez      - health probes, no auth
//	/shared/{token}              - public share link resolver, no auth
//	/api/bookmarks               - bookmark CRUD, search, clicks
//	/api/folders                 - folder CRUD
//	/api/tags                    - tag list + color
//	/api/sharing                 - folder sharing management
//	/api/stats                   - summaries, usage analytics, request log
//
// Everything under /api uses Bearer API key auth with permissive CORS
// (no cookies means no CSRF exposure), and every /api request passes
// through the ledger middleware.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	bookmarkHandler := bookmarkapifeature.NewHandler(deps.Bookmarks, deps.Tags, deps.Usage, logger)
	folderHandler := folderapifeature.NewHandler(deps.Folders, deps.Bookmarks, logger)
	tagHandler := tagapifeature.NewHandler(deps.Tags, logger)
	sharingHandler := sharingapifeature.NewHandler(deps.Folders, deps.Bookmarks, appCfg.ShareBaseURL, logger)
	statsHandler := statsapifeature.NewHandler(deps.Bookmarks, deps.Usage, deps.Ledger, logger)

	ledgerConfig := ledger.DefaultConfig(deps.Ledger, logger)
	ledgerConfig.OnlyErrors = appCfg.LedgerOnlyErrors

	r := chi.NewRouter()

	// Global middleware. Timeout first so nothing hangs indefinitely;
	// security headers come from the WAFFLE core config.
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.SecurityHeadersFromConfig(coreCfg))

	// Health check endpoints for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.Records, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	healthfeature.MountRootEndpoints(r, healthHandler)

	// Public share link resolver. Recipients follow these links from
	// email; they have no API key, so this stays outside /api. CORS is
	// still permissive so web clients on other origins can embed it.
	r.Route("/shared", func(sr chi.Router) {
		sr.Use(apicors.Middleware())
		sr.Use(ledger.Middleware(ledgerConfig))
		sr.Mount("/", sharingapifeature.PublicRoutes(sharingHandler))
	})

	// Authenticated API
	r.Route("/api", func(ar chi.Router) {
		ar.Use(apicors.Middleware())
		ar.Use(auth.APIKeyAuth(appCfg.APIKey, logger))
		ar.Use(ledger.Middleware(ledgerConfig))

		ar.Mount("/bookmarks", bookmarkapifeature.Routes(bookmarkHandler))
		ar.Mount("/folders", folderapifeature.Routes(folderHandler))
		ar.Mount("/tags", tagapifeature.Routes(tagHandler))
		ar.Mount("/sharing", sharingapifeature.Routes(sharingHandler))
		ar.Mount("/stats", statsapifeature.Routes(statsHandler))
	})

	// JSON 404 for everything else; this service has no HTML surface.
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		jsonutil.NotFound(w, "Not found")
	})

	return r, nil
}
