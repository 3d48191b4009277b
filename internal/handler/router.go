package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kbjinsurance/advisor/backend/internal/handler/advisor"
	faqHandler "github.com/kbjinsurance/advisor/backend/internal/handler/faq"
	middlewarePkg "github.com/kbjinsurance/advisor/backend/internal/middleware"
	"github.com/kbjinsurance/advisor/backend/internal/model/faq"
	"github.com/kbjinsurance/advisor/backend/pkg/utils"
)

// Dependencies are the services the router exposes.
type Dependencies struct {
	Advisor        advisor.Responder
	FAQs           faq.Store
	AllowedOrigins []string
	// Gatherer backs /metrics; nil leaves the route unmounted.
	Gatherer prometheus.Gatherer
	Logger   *zap.Logger
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(deps.AllowedOrigins))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(api chi.Router) {
		advisor.New(deps.Advisor, deps.Logger).RegisterRoutes(api)

		if deps.FAQs != nil {
			faqHandler.New(deps.FAQs).RegisterRoutes(api)
		}
	})

	return r
}
