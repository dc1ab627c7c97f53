package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/xela07ax/spaceai-agent-scene/internal/console/handler"
	"github.com/xela07ax/spaceai-agent-scene/internal/infra/auth"
)

type ConsoleServer struct {
	router *chi.Mux
	logger *zap.Logger

	// Интерфейс для проверки токенов (RS256)
	// Реализуется через embedding BaseValidator в AuthService
	authValidator auth.TokenValidator

	// Обработчики бизнес-доменов
	authHandler    *handler.AuthHandler    // /auth/token
	sceneHandler   *handler.SceneHandler   // /api/v1/scene
	agentHandler   *handler.AgentHandler   // /v1/agents
	zoneHandler    *handler.ZoneHandler    // /v1/zones
	toolHandler    *handler.ToolHandler    // /v1/tools
	sessionHandler *handler.SessionHandler // /v1/sessions
}

// NewConsoleServer инициализирует сервер дашборда со всеми зависимостями
func NewConsoleServer(
	logger *zap.Logger,
	validator auth.TokenValidator,
	authH *handler.AuthHandler,
	sceneH *handler.SceneHandler,
	agentH *handler.AgentHandler,
	zoneH *handler.ZoneHandler,
	toolH *handler.ToolHandler,
	sessionH *handler.SessionHandler,
) *ConsoleServer {
	s := &ConsoleServer{
		router:         chi.NewRouter(),
		logger:         logger.Named("console-api"),
		authValidator:  validator,
		authHandler:    authH,
		sceneHandler:   sceneH,
		agentHandler:   agentH,
		zoneHandler:    zoneH,
		toolHandler:    toolH,
		sessionHandler: sessionH,
	}

	s.routes()
	return s
}

func (s *ConsoleServer) routes() {
	r := s.router

	// --- 1. Глобальные инфраструктурные Middleware (для всех) ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// --- 2. ПУБЛИЧНЫЕ РОУТЫ (Открыты для всех) ---
	r.Group(func(r chi.Router) {
		// Логин должен быть доступен без токена
		r.Post("/auth/token", s.authHandler.Login)

		// Healthcheck для мониторинга
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	})

	// --- 3. ЗАЩИЩЕННЫЙ ПЕРИМЕТР (Требуют RS256 токен) ---
	r.Group(func(r chi.Router) {
		// Подключаем универсальный Middleware только для этой группы
		r.Use(auth.NewMiddleware(s.authValidator, s.logger))

		// Сцена: снапшот целиком и живой стрим
		r.Route("/api/v1/scene", func(r chi.Router) {
			r.Get("/snapshot", s.sceneHandler.Snapshot)
			r.Get("/stream", s.sceneHandler.Stream)
		})

		// Агенты (только чтение + чат; состоянием владеет движок)
		r.Route("/v1/agents", func(r chi.Router) {
			r.Get("/", s.agentHandler.List)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.agentHandler.Get)
				r.Post("/chat", s.agentHandler.Chat)
			})
		})

		// Зоны сцены и AI-саммари
		r.Route("/v1/zones", func(r chi.Router) {
			r.Get("/", s.zoneHandler.List)
			r.Get("/{id}/summary", s.zoneHandler.Summary)
		})

		// Каталог инструментов консоли
		r.Route("/v1/tools", func(r chi.Router) {
			r.Get("/", s.toolHandler.List)
			r.Post("/{id}/install", s.toolHandler.Install)
			r.Post("/{id}/uninstall", s.toolHandler.Uninstall)
		})

		// Сессии симуляции
		r.Route("/v1/sessions", func(r chi.Router) {
			r.Get("/", s.sessionHandler.List)
			r.Post("/", s.sessionHandler.Create)
			r.Delete("/{id}", s.sessionHandler.Delete)
		})
	})
}

// ServeHTTP позволяет использовать ConsoleServer как стандартный http.Handler
func (s *ConsoleServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
