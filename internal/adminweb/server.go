// Package adminweb — веб-панель администратора на gin.
// server.go настраивает роутер, авторизацию по паролю и /metrics.
package adminweb

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"adskiybank.ru/telegram-bot/internal/config"
	"adskiybank.ru/telegram-bot/internal/features/accounts"
	"adskiybank.ru/telegram-bot/internal/features/ledger"
	"adskiybank.ru/telegram-bot/internal/features/reports"
	"adskiybank.ru/telegram-bot/internal/features/shop"
)

const sessionCookie = "bank_admin_session"

// AccountStore — операции со счетами, нужные панели.
// Реализуется *accounts.Repository.
type AccountStore interface {
	ListAll(ctx context.Context) ([]*accounts.User, error)
	GetByUsername(ctx context.Context, username string) (*accounts.User, error)
	DeleteByUsername(ctx context.Context, username string) error
	ResetAll(ctx context.Context) error
}

// Server — HTTP-сервер админ-панели.
type Server struct {
	cfg            *config.Config
	engine         *gin.Engine
	httpServer     *http.Server
	accountStore   AccountStore
	ledgerService  *ledger.Service
	shopService    *shop.Service
	reportsService *reports.Service
}

// NewServer создаёт панель со всеми зависимостями.
func NewServer(
	cfg *config.Config,
	accountStore AccountStore,
	ledgerService *ledger.Service,
	shopService *shop.Service,
	reportsService *reports.Service,
) *Server {
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:            cfg,
		engine:         gin.New(),
		accountStore:   accountStore,
		ledgerService:  ledgerService,
		shopService:    shopService,
		reportsService: reportsService,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.Use(gin.Recovery(), requestLogger())

	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	s.engine.GET("/login", s.handleLoginPage)
	s.engine.POST("/login", s.handleLogin)

	authed := s.engine.Group("/", s.requireAuth())
	authed.GET("/", s.handleIndex)
	authed.GET("/export.csv", s.handleExportCSV)
	authed.POST("/prizes", s.handleAddPrize)
	authed.POST("/deposit", s.handleDeposit)
	authed.POST("/users/delete", s.handleDeleteUser)
	authed.POST("/users/reset", s.handleResetUsers)
}

// requireAuth пускает только с кукой, совпадающей с хешем пароля.
// Сессий как таковых нет: панель для пары админов, а не для публики.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(sessionCookie)
		if err != nil || cookie != s.cfg.AdminPasswordHash {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (s *Server) handleLoginPage(c *gin.Context) {
	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := loginTmpl.Execute(c.Writer, gin.H{}); err != nil {
		log.WithError(err).Error("Ошибка рендера страницы входа")
	}
}

func (s *Server) handleLogin(c *gin.Context) {
	password := c.PostForm("password")
	err := bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPasswordHash), []byte(password))
	if err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			log.WithError(err).Error("Ошибка проверки пароля")
		}
		adminLoginFailures.Inc()
		adminRequests.WithLabelValues("login", "fail").Inc()
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.Status(http.StatusUnauthorized)
		if err := loginTmpl.Execute(c.Writer, gin.H{"Error": "Неверный пароль"}); err != nil {
			log.WithError(err).Error("Ошибка рендера страницы входа")
		}
		return
	}

	adminRequests.WithLabelValues("login", "ok").Inc()
	c.SetCookie(sessionCookie, s.cfg.AdminPasswordHash, int((12 * time.Hour).Seconds()), "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}

// Start запускает HTTP-сервер (блокирует до остановки).
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.AdminWebAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.WithField("addr", s.cfg.AdminWebAddr).Info("Админ-панель запущена")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown останавливает HTTP-сервер.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// requestLogger пишет каждый запрос панели в логи.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(log.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Debug("HTTP-запрос панели")
	}
}
