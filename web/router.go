package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mww/washed_up/auth"
	"github.com/mww/washed_up/controller"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

func getRouter(ctrl controller.C, gate *auth.Gate, render *render.Render, log *zap.SugaredLogger, opts Options) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(loadSession(gate))

	r.Get("/healthz", healthHandler())
	r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		// Set a timeout value on the request context (ctx), that will signal
		// through ctx.Done() that the request has timed out and further
		// processing should be stopped.
		r.Use(middleware.Timeout(opts.RequestTimeout))

		r.Get("/", dashboardHandler(ctrl, render))

		r.Get("/login", loginPageHandler(render))
		r.Post("/login", loginHandler(gate, render))
		r.Post("/signup", signupHandler(gate, render))
		r.Post("/logout", logoutHandler(gate))
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(requireAdmin)
		r.Use(middleware.Timeout(opts.AdminRequestTimeout)) // Set a longer timeout for /admin actions

		r.Get("/", adminHandler(ctrl, render))
		r.Post("/league", saveLeagueHandler(ctrl, render))
		r.Post("/import", importHandler(ctrl, render))
		r.Post("/refresh", refreshHandler(ctrl, render))

		r.Route("/draft", func(r chi.Router) {
			r.Post("/", addDraftPickHandler(ctrl, render))
			r.Post("/{id}/move", moveDraftPickHandler(ctrl, render))
			r.Post("/{id}/delete", removeDraftPickHandler(ctrl, render))
		})

		r.Route("/standings", func(r chi.Router) {
			r.Post("/", addStandingHandler(ctrl, render))
			r.Post("/{id}/move", moveStandingHandler(ctrl, render))
			r.Post("/{id}/delete", removeStandingHandler(ctrl, render))
		})

		r.Route("/punishments", func(r chi.Router) {
			r.Post("/", addPunishmentHandler(ctrl, render))
			r.Post("/{id}", updatePunishmentHandler(ctrl, render))
			r.Post("/{id}/toggle", togglePunishmentHandler(ctrl, render))
			r.Post("/{id}/delete", deletePunishmentHandler(ctrl, render))
		})
	})

	return r
}

func healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}
}
