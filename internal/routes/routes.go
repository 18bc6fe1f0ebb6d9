package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"maintenance-system/internal/listeners"
	"maintenance-system/internal/repositories"
	"maintenance-system/internal/services"
	"maintenance-system/pkg/clock"
	"maintenance-system/pkg/config"
	"maintenance-system/pkg/eventbus"
	"maintenance-system/pkg/middleware"
	"maintenance-system/pkg/service"
	appwebsocket "maintenance-system/pkg/websocket"
)

type Loggers struct {
	Main      *zap.Logger
	Auth      *zap.Logger
	Request   *zap.Logger
	Equipment *zap.Logger
}

// Services - всё, что нужно роутерам. Собирается один раз в NewServices,
// в тестах заполняется подделками.
type Services struct {
	Auth       services.AuthServiceInterface
	Stages     services.StageServiceInterface
	Requests   services.RequestServiceInterface
	Equipment  services.EquipmentServiceInterface
	Teams      services.TeamServiceInterface
	Categories services.CategoryServiceInterface
	Activity   services.ActivityLogServiceInterface
	Board      *appwebsocket.Hub
}

func NewServices(dbConn *pgxpool.Pool, redisClient *redis.Client, bus *eventbus.Bus, hub *appwebsocket.Hub, clk clock.Clock, loggers *Loggers, cfg *config.Config) *Services {
	txManager := repositories.NewTxManager(dbConn)

	// --- 1. РЕПОЗИТОРИИ ---
	userRepo := repositories.NewUserRepository(dbConn, loggers.Auth)
	permissionRepo := repositories.NewPermissionRepository(dbConn, loggers.Auth)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)
	stageRepo := repositories.NewStageRepository(dbConn, loggers.Main)
	teamRepo := repositories.NewTeamRepository(dbConn, loggers.Main)
	memberRepo := repositories.NewTeamMemberRepository(dbConn, loggers.Main)
	categoryRepo := repositories.NewCategoryRepository(dbConn, loggers.Equipment)
	equipmentRepo := repositories.NewEquipmentRepository(dbConn, loggers.Equipment)
	requestRepo := repositories.NewRequestRepository(dbConn, loggers.Request)
	sequenceRepo := repositories.NewSequenceRepository(dbConn)
	activityRepo := repositories.NewActivityLogRepository(dbConn, loggers.Main)

	// --- 2. СЕРВИСЫ ---
	activityService := services.NewActivityLogService(activityRepo, loggers.Main)
	capabilityService := services.NewCapabilityService(permissionRepo, cacheRepo, loggers.Auth, cfg.Cache.PermissionsTTL)
	authService := services.NewAuthService(userRepo, cacheRepo, capabilityService, loggers.Auth, &cfg.Auth)
	stageService := services.NewStageService(txManager, stageRepo, requestRepo, activityService, loggers.Main)
	teamService := services.NewTeamService(txManager, teamRepo, memberRepo, requestRepo, activityService, loggers.Main)
	categoryService := services.NewCategoryService(txManager, categoryRepo, activityService, loggers.Equipment)
	equipmentService := services.NewEquipmentService(
		txManager, equipmentRepo, categoryRepo, requestRepo, stageRepo, sequenceRepo, cacheRepo,
		activityService, clk, loggers.Equipment, cfg.Cache.OpenRequestsTTL,
	)
	requestService := services.NewRequestService(
		txManager, requestRepo, stageRepo, equipmentRepo, teamRepo, sequenceRepo,
		activityService, bus, clk, loggers.Request,
	)

	// --- 3. СЛУШАТЕЛИ ---
	listeners.NewCacheListener(equipmentService, loggers.Equipment).Register(bus)
	listeners.NewBoardListener(hub, loggers.Request).Register(bus)

	return &Services{
		Auth:       authService,
		Stages:     stageService,
		Requests:   requestService,
		Equipment:  equipmentService,
		Teams:      teamService,
		Categories: categoryService,
		Activity:   activityService,
		Board:      hub,
	}
}

func InitRouter(e *echo.Echo, svc *Services, jwtSvc service.JWTService, allowedOrigins []string, loggers *Loggers) {
	loggers.Main.Info("InitRouter: начало создания маршрутов")

	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, svc.Auth, loggers.Auth)
	secureGroup := api.Group("", authMW.Auth)

	runAuthRouter(api, svc.Auth, jwtSvc, loggers.Auth, authMW)
	runStageRouter(secureGroup, svc.Stages, loggers.Main)
	runRequestRouter(secureGroup, svc.Requests, loggers.Request, authMW)
	runEquipmentRouter(secureGroup, svc.Equipment, loggers.Equipment)
	runCategoryRouter(secureGroup, svc.Categories, loggers.Equipment)
	runCalendarRouter(secureGroup, svc.Requests, loggers.Request)
	runTeamRouter(secureGroup, svc.Teams, loggers.Main)
	runActivityRouter(secureGroup, svc.Activity, loggers.Main)
	runBoardRouter(api, svc.Board, jwtSvc, svc.Auth, allowedOrigins, loggers.Main)

	loggers.Main.Info("InitRouter: создание маршрутов завершено")
}
