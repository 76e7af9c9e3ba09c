package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	leadwizard "github.com/goliatone/go-leadwizard"
	"github.com/goliatone/go-leadwizard/internal/config"
	"github.com/goliatone/go-leadwizard/internal/store"
	"github.com/goliatone/go-leadwizard/pkg/content"
	"github.com/goliatone/go-leadwizard/pkg/endpoint"
	"github.com/goliatone/go-leadwizard/pkg/views"
	"github.com/goliatone/go-leadwizard/pkg/wizard"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the submission endpoints, form content and wizard pages",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := store.Open(ctx, cfg.Database.Path)
		if err != nil {
			return err
		}
		defer st.Close()

		router, err := newRouter(cfg, st, logger)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:         cfg.Server.Addr(),
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		}

		errCh := make(chan error, 1)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()
		logger.Info("Server started", zap.String("addr", srv.Addr), zap.String("database", cfg.Database.Path))

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		logger.Info("Server exiting")
		return nil
	},
}

// newRouter mounts the lead API under /api and the wizard pages under
// /wizard.
func newRouter(c *config.Config, st endpoint.Store, log *zap.Logger) (*gin.Engine, error) {
	loader, src, err := contentFor(c.Content)
	if err != nil {
		return nil, err
	}
	forms := func(ctx context.Context, formType string) ([]wizard.Step, error) {
		return stepSource(c.Content, loader, src, formType)(ctx)
	}

	gin.SetMode(gin.ReleaseMode)
	if c.Logging.Development {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api")
	{
		handler := endpoint.NewHandler(st,
			endpoint.WithLogger(log.Named("endpoint")),
			endpoint.WithForms(forms),
		)
		handler.RegisterRoutes(api)
	}

	countryList := countryComponent(c)
	if _, err := countryList.RegisterRoutes(ginMux{router}, "/"); err != nil {
		return nil, err
	}

	engine, err := views.New(views.WithBaseDir(c.Views.TemplateDir))
	if err != nil {
		return nil, err
	}
	pages := &pageHandler{
		cfg:       c,
		loader:    loader,
		src:       src,
		engine:    engine,
		countries: countryList.Names,
		logger:    log.Named("pages"),
	}
	router.GET("/wizard/:flavour", pages.show)

	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
		})
	})

	return router, nil
}

// ginMux adapts gin routes to countries.Mux.
type ginMux struct {
	routes gin.IRoutes
}

func (m ginMux) Handle(pattern string, handler http.Handler) {
	h := gin.WrapH(handler)
	m.routes.GET(pattern, h)
	m.routes.HEAD(pattern, h)
}

type pageHandler struct {
	cfg       *config.Config
	loader    *content.Loader
	src       content.Source
	engine    *views.Engine
	countries func() ([]string, error)
	logger    *zap.Logger
}

// show renders the hero page of a flavour. Load failures render the terminal
// error page.
func (p *pageHandler) show(c *gin.Context) {
	flavour, err := leadwizard.ParseFlavour(c.Param("flavour"))
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	c.Header("Content-Type", "text/html; charset=utf-8")

	machine, def, err := buildMachine(c.Request.Context(), p.cfg, p.loader, p.src, flavour)
	if err != nil {
		p.logger.Warn("Failed to load wizard", zap.Error(err), zap.String("flavour", string(flavour)))
		c.Status(http.StatusServiceUnavailable)
		if err := views.NewRenderer(p.engine).RenderError(c.Writer); err != nil {
			p.logger.Error("Failed to render error page", zap.Error(err))
		}
		return
	}

	opts := []views.PageOption{views.WithHero(def.Hero)}
	if def.Title != "" {
		opts = append(opts, views.WithTitle(def.Title))
	}
	if names, err := p.countries(); err == nil {
		opts = append(opts, views.WithFieldOptions(wizard.FieldCountry, names))
	}

	c.Status(http.StatusOK)
	if err := views.NewRenderer(p.engine, opts...).Render(c.Writer, machine, machine.Initial()); err != nil {
		p.logger.Error("Failed to render wizard", zap.Error(err))
	}
}
