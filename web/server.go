package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/mww/washed_up/auth"
	"github.com/mww/washed_up/controller"
	"github.com/mww/washed_up/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

//go:embed templates
var templates embed.FS

type Options struct {
	Port                int
	RequestTimeout      time.Duration
	AdminRequestTimeout time.Duration
	ShutdownTimeout     time.Duration
	// Served on /metrics. Defaults to the prometheus default gatherer.
	Gatherer prometheus.Gatherer
}

type Server struct {
	server          *http.Server
	log             *zap.SugaredLogger
	shutdownTimeout time.Duration
}

func NewServer(opts Options, ctrl controller.C, gate *auth.Gate, log *zap.SugaredLogger) (*Server, error) {
	if opts.Port <= 0 {
		return nil, fmt.Errorf("invalid port: %d", opts.Port)
	}
	opts = withDefaults(opts)

	render := newRender()
	router := getRouter(ctrl, gate, render, log, opts)

	s := &Server{
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", opts.Port),
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
		log:             log,
		shutdownTimeout: opts.ShutdownTimeout,
	}
	return s, nil
}

func withDefaults(opts Options) Options {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 10 * time.Second
	}
	if opts.AdminRequestTimeout <= 0 {
		opts.AdminRequestTimeout = 30 * time.Second
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	return opts
}

func (s *Server) ListenAndServe(shutdown chan bool, wg *sync.WaitGroup) {
	go func() {
		defer wg.Done()

		// Wait for the shutdown signal and safely close the server.
		<-shutdown

		ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		if err := s.server.Shutdown(ctx); err != nil {
			s.log.Fatalw("fatal error shutting down server", "error", err)
		}
	}()

	s.log.Infow("web server is listening", "addr", s.server.Addr)
	err := s.server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		s.log.Fatalw("fatal error with server", "error", err)
	}
}

func newRender() *render.Render {
	return render.New(render.Options{
		Directory: "templates",
		Layout:    "layout",
		FileSystem: &render.EmbedFileSystem{
			FS: templates,
		},
		Funcs: []template.FuncMap{
			{
				"ordinal": ordinalFormatter,
				"points":  pointsFormatter,
				"year":    yearFormatter,
				"seasons": func() []string { return model.AvailableYears },
			},
		},
	})
}

// ordinalFormatter turns 1 into "1st", 12 into "12th" and so on.
func ordinalFormatter(n int) string {
	return fmt.Sprintf("%d%s", n, model.OrdinalSuffix(n))
}

func pointsFormatter(p *int) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *p)
}

func yearFormatter(year string) string {
	if year == "" || year == model.PunishmentYearFuture {
		return "Future (unassigned)"
	}
	return year
}
