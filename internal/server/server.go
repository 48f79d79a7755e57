// Пакет server — HTTP-сервер портала с graceful shutdown.
// Без TLS — HTTP внутри кластера, TLS termination на API Gateway.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	apihandlers "github.com/assuranceconnect/portal/internal/api/handlers"
	"github.com/assuranceconnect/portal/internal/api/middleware"
	"github.com/assuranceconnect/portal/internal/config"
	uihandlers "github.com/assuranceconnect/portal/internal/ui/handlers"
	uimiddleware "github.com/assuranceconnect/portal/internal/ui/middleware"
	"github.com/assuranceconnect/portal/internal/ui/static"
)

// Deps — обработчики и middleware, которые сервер собирает в маршруты.
type Deps struct {
	Health        *apihandlers.HealthHandler
	UIAuth        *uimiddleware.UIAuth
	Auth          *uihandlers.AuthHandler
	Register      *uihandlers.RegisterHandler
	Session       *uihandlers.SessionHandler
	Dashboard     *uihandlers.DashboardHandler
	Dossiers      *uihandlers.DossiersHandler
	Rapports      *uihandlers.RapportsHandler
	Notifications *uihandlers.NotificationsHandler
	Admin         *uihandlers.AdminHandler
	Subscription  *uihandlers.SubscriptionHandler
	RateLimit     *uihandlers.RateLimitHandler
}

// Server — HTTP-сервер портала.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New создаёт новый HTTP-сервер с настроенными routes и middleware.
func New(cfg *config.Config, logger *slog.Logger, deps Deps) *Server {
	router := chi.NewRouter()

	// Глобальные middleware (применяются ко ВСЕМ маршрутам)
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestLogger(logger))

	// Health и metrics — без аутентификации, их опрашивает Kubernetes
	router.Get("/health/live", deps.Health.HealthLive)
	router.Get("/health/ready", deps.Health.HealthReady)
	router.Get("/metrics", deps.Health.GetMetrics)

	// Статика
	router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(static.FileSystem())))

	// Корень — на портал
	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/portal/", http.StatusFound)
	})

	router.Route("/portal", func(r chi.Router) {
		// Публичные маршруты портала
		r.Get("/login", deps.Auth.HandleLoginPage)
		r.Post("/login", deps.Auth.HandleLogin)
		r.Post("/logout", deps.Auth.HandleLogout)
		r.Get("/inscription", deps.Register.HandleForm)
		r.Post("/inscription", deps.Register.HandleSubmit)
		r.Get("/429", deps.RateLimit.Handle429)

		// Опрос статуса сессии активностью не считается,
		// поэтому эти маршруты не проходят через UIAuth с Touch
		r.Get("/session/status", deps.Session.HandleStatus)
		r.Post("/session/extend", deps.Session.HandleExtend)

		// Страницы за авторизацией
		r.Group(func(r chi.Router) {
			r.Use(deps.UIAuth.Middleware())

			r.Get("/", deps.Dashboard.HandleDashboard)

			r.Get("/dossiers", deps.Dossiers.HandleList)
			r.Post("/dossiers", deps.Dossiers.HandleCreate)
			r.Get("/dossiers/recherche", deps.Dossiers.HandleSearch)
			r.Post("/dossiers/statut", deps.Dossiers.HandleUpdateStatus)

			r.Get("/rapports", deps.Rapports.HandleList)
			r.Post("/rapports/favori", deps.Rapports.HandleToggleFavorite)
			r.Post("/rapports/demande", deps.Rapports.HandleRequestAccess)
			r.Post("/rapports/demandes/approuver", deps.Rapports.HandleApproveRequest)
			r.Post("/rapports/demandes/rejeter", deps.Rapports.HandleRejectRequest)
			r.Post("/rapports/code", deps.Rapports.HandleValidateCode)
			r.Post("/rapports/code/renouveler", deps.Rapports.HandleRenewCode)
			r.Get("/rapports/codes", deps.Rapports.HandleAccessCodes)
			r.Get("/rapports/telecharger", deps.Rapports.HandleDownload)
			r.Post("/rapports/supprimer", deps.Rapports.HandleDelete)

			r.Get("/notifications", deps.Notifications.HandleList)
			r.Post("/notifications/lire", deps.Notifications.HandleMarkRead)
			r.Post("/notifications/local/lire", deps.Notifications.HandleMarkLocalRead)
			r.Post("/notifications/tout-lire", deps.Notifications.HandleMarkAllRead)
			r.Post("/notifications/supprimer", deps.Notifications.HandleDelete)
			r.Post("/notifications/tout-supprimer", deps.Notifications.HandleDeleteAll)
			r.Post("/notifications/restaurer", deps.Notifications.HandleRestore)
			r.Post("/notifications/tout-restaurer", deps.Notifications.HandleRestoreAll)

			r.Post("/abonnement/renouveler", deps.Subscription.HandleRequestRenewal)

			r.Get("/admin", deps.Admin.HandleAdmin)
			r.Post("/admin/invitations", deps.Admin.HandleCreateInvitation)
			r.Post("/admin/invitations/renouveler", deps.Admin.HandleRenewInvitation)
			r.Post("/admin/invitations/annuler", deps.Admin.HandleCancelInvitation)
			r.Post("/admin/utilisateurs/basculer", deps.Admin.HandleToggleUser)
			r.Post("/admin/abonnements/approuver", deps.Admin.HandleApproveRenewal)
			r.Post("/admin/abonnements/rejeter", deps.Admin.HandleRejectRenewal)
		})
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
		cfg:        cfg,
	}
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM).
// При получении сигнала выполняется graceful shutdown.
func (s *Server) Run() error {
	// Канал для ошибок сервера
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		s.logger.Info("Получен сигнал завершения", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
	}

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
