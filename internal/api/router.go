package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/residencia-nna/residencia-api/internal/api/handler"
	"github.com/residencia-nna/residencia-api/internal/api/middleware"
	"github.com/residencia-nna/residencia-api/internal/core/domain"
	"github.com/residencia-nna/residencia-api/internal/core/service"
	mongodb "github.com/residencia-nna/residencia-api/internal/infrastructure/db/mongo"
	redisdb "github.com/residencia-nna/residencia-api/internal/infrastructure/db/redis"
	"github.com/residencia-nna/residencia-api/internal/pkg/config"
	"github.com/residencia-nna/residencia-api/pkg/logger"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	log := logger.Get()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("residencia"))

	// --- Repositories ---
	userRepo := mongodb.NewUserRepository(db)
	nnaRepo := mongodb.NewNNARepository(db)
	intervencionRepo := mongodb.NewIntervencionRepository(db)
	tallerRepo := mongodb.NewTallerRepository(db)
	seguimientoRepo := mongodb.NewSeguimientoRepository(db)
	alertaRepo := mongodb.NewAlertaRepository(db)
	medidaRepo := mongodb.NewMedidaRepository(db)
	restriccionRepo := mongodb.NewRestriccionRepository(db)
	redApoyoRepo := mongodb.NewRedApoyoRepository(db)
	planificacionRepo := mongodb.NewPlanificacionRepository(db)
	reporteRepo := mongodb.NewReporteRepository(db)

	// --- Services ---
	loginLimiter := redisdb.NewRateLimiter(rdb, int64(cfg.Rate.Requests), time.Duration(cfg.Rate.PeriodSeconds)*time.Second)
	authService := service.NewAuthService(
		userRepo,
		loginLimiter,
		cfg.JWTSecret,
		time.Duration(cfg.AccessTokenTTLMinutes)*time.Minute,
		time.Duration(cfg.RefreshTokenTTLDays)*24*time.Hour,
		log,
	)
	userService := service.NewUserService(userRepo, service.AdminSeed{
		Email:    cfg.Admin.Email,
		Password: cfg.Admin.Password,
		Nombre:   cfg.Admin.Nombre,
	}, log)
	alertaService := service.NewAlertaService(alertaRepo, intervencionRepo, tallerRepo, medidaRepo, nnaRepo, log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService, log)
	userHandler := handler.NewUserHandler(userService)
	nnaHandler := handler.NewNNAHandler(nnaRepo, intervencionRepo, seguimientoRepo, tallerRepo, log)
	intervencionHandler := handler.NewIntervencionHandler(intervencionRepo, nnaRepo)
	tallerHandler := handler.NewTallerHandler(tallerRepo, nnaRepo)
	seguimientoHandler := handler.NewSeguimientoHandler(seguimientoRepo, nnaRepo)
	alertaHandler := handler.NewAlertaHandler(alertaRepo, alertaService, nnaRepo)
	juridicoHandler := handler.NewJuridicoHandler(medidaRepo, restriccionRepo)
	redApoyoHandler := handler.NewRedApoyoHandler(redApoyoRepo)
	planificacionHandler := handler.NewPlanificacionHandler(planificacionRepo)
	reporteHandler := handler.NewReporteHandler(reporteRepo)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Public auth routes ---
	e.POST("/api/auth/login", authHandler.Login)
	e.POST("/api/auth/refresh", authHandler.Refresh)

	// --- Authenticated API ---
	api := e.Group("/api", middleware.Auth(cfg.JWTSecret, userRepo))

	tecnicoRol := middleware.RequireRole(domain.RoleTecnico)
	coordinadorRol := middleware.RequireRole(domain.RoleCoordinador)
	adminRol := middleware.RequireRole(domain.RoleAdmin)

	api.GET("/auth/me", authHandler.Me)
	api.POST("/auth/logout", authHandler.Logout)
	api.POST("/auth/change-password", authHandler.ChangePassword)

	// Account listings open to coordination; mutations are admin-only.
	usuarios := api.Group("/usuarios")
	usuarios.GET("", userHandler.List, coordinadorRol)
	usuarios.GET("/:id", userHandler.Get, coordinadorRol)
	usuarios.POST("", userHandler.Create, adminRol)
	usuarios.PUT("/:id", userHandler.Update, adminRol)
	usuarios.DELETE("/:id", userHandler.Delete, adminRol)
	usuarios.POST("/:id/reset-password", userHandler.ResetPassword, adminRol)

	nna := api.Group("/nna", tecnicoRol)
	nna.GET("", nnaHandler.List)
	nna.GET("/stats", nnaHandler.Stats)
	nna.GET("/rut/:rut", nnaHandler.BuscarPorRUT)
	nna.POST("/validar-rut", nnaHandler.ValidarRUT)
	nna.GET("/:id", nnaHandler.Get)
	nna.POST("", nnaHandler.Create)
	nna.PUT("/:id", nnaHandler.Update)
	nna.DELETE("/:id", nnaHandler.Delete, coordinadorRol)

	intervenciones := api.Group("/intervenciones", tecnicoRol)
	intervenciones.GET("", intervencionHandler.List)
	intervenciones.GET("/stats", intervencionHandler.Stats)
	intervenciones.GET("/:id", intervencionHandler.Get)
	intervenciones.POST("", intervencionHandler.Create)
	intervenciones.PUT("/:id", intervencionHandler.Update)
	intervenciones.DELETE("/:id", intervencionHandler.Delete, coordinadorRol)

	talleres := api.Group("/talleres", tecnicoRol)
	talleres.GET("", tallerHandler.List)
	talleres.GET("/stats", tallerHandler.Stats)
	talleres.GET("/participante/:nnaId", tallerHandler.PorParticipante)
	talleres.GET("/:id", tallerHandler.Get)
	talleres.POST("", tallerHandler.Create)
	talleres.PUT("/:id", tallerHandler.Update)
	talleres.DELETE("/:id", tallerHandler.Delete, coordinadorRol)
	talleres.POST("/:id/participantes", tallerHandler.AddParticipante)
	talleres.DELETE("/:id/participantes/:nnaId", tallerHandler.RemoveParticipante)

	seguimientos := api.Group("/seguimientos", tecnicoRol)
	seguimientos.GET("", seguimientoHandler.List)
	seguimientos.GET("/:id", seguimientoHandler.Get)
	seguimientos.POST("", seguimientoHandler.Create)
	seguimientos.PUT("/:id", seguimientoHandler.Update)
	seguimientos.DELETE("/:id", seguimientoHandler.Delete, coordinadorRol)

	alertas := api.Group("/alertas", tecnicoRol)
	alertas.GET("", alertaHandler.List)
	alertas.GET("/mis-alertas", alertaHandler.MisAlertas)
	alertas.GET("/stats", alertaHandler.Stats)
	alertas.GET("/:id", alertaHandler.Get)
	alertas.POST("", alertaHandler.Create)
	alertas.PUT("/:id", alertaHandler.Update)
	alertas.DELETE("/:id", alertaHandler.Delete, coordinadorRol)
	alertas.POST("/:id/resolver", alertaHandler.Resolver)
	alertas.POST("/:id/asignar", alertaHandler.Asignar, coordinadorRol)
	alertas.POST("/generar/vencimientos", alertaHandler.GenerarVencimientos, coordinadorRol)

	juridico := api.Group("/juridico", tecnicoRol)
	juridico.GET("/medidas", juridicoHandler.ListMedidas)
	juridico.GET("/medidas/stats", juridicoHandler.Stats)
	juridico.GET("/medidas/proximas-a-vencer", juridicoHandler.ProximasAVencer)
	juridico.GET("/medidas/:id", juridicoHandler.GetMedida)
	juridico.POST("/medidas", juridicoHandler.CreateMedida)
	juridico.PUT("/medidas/:id", juridicoHandler.UpdateMedida)
	juridico.POST("/medidas/:id/audiencias", juridicoHandler.AddAudiencia)
	juridico.GET("/restricciones", juridicoHandler.ListRestricciones)
	juridico.POST("/restricciones", juridicoHandler.CreateRestriccion)
	juridico.GET("/alertas-vencimiento", alertaHandler.VencimientosMedidas)
	juridico.POST("/generar-alertas-vencimiento", alertaHandler.GenerarVencimientosMedidas, coordinadorRol)

	redApoyo := api.Group("/red-apoyo", tecnicoRol)
	redApoyo.GET("", redApoyoHandler.List)
	redApoyo.GET("/stats", redApoyoHandler.Stats)
	redApoyo.GET("/nna/:nnaId", redApoyoHandler.PorNNA)
	redApoyo.GET("/:id", redApoyoHandler.Get)
	redApoyo.POST("", redApoyoHandler.Create)
	redApoyo.PUT("/:id", redApoyoHandler.Update)
	redApoyo.DELETE("/:id", redApoyoHandler.Delete, coordinadorRol)
	redApoyo.POST("/:id/evaluar", redApoyoHandler.Evaluar, coordinadorRol)

	planificaciones := api.Group("/planificaciones", tecnicoRol)
	planificaciones.GET("", planificacionHandler.List)
	planificaciones.GET("/stats", planificacionHandler.Stats)
	planificaciones.GET("/proximas", planificacionHandler.Proximas)
	planificaciones.GET("/dias-conmemorativos", planificacionHandler.DiasConmemorativos)
	planificaciones.GET("/:id", planificacionHandler.Get)
	planificaciones.POST("", planificacionHandler.Create)
	planificaciones.PUT("/:id", planificacionHandler.Update)
	planificaciones.DELETE("/:id", planificacionHandler.Delete, coordinadorRol)
	planificaciones.POST("/:id/cambiar-estado", planificacionHandler.CambiarEstado)
	planificaciones.POST("/:id/participantes", planificacionHandler.AddParticipante)
	planificaciones.POST("/:id/evidencias", planificacionHandler.AddEvidencia)

	// Aggregated reporting is reserved for coordination and above.
	reportes := api.Group("/reportes", coordinadorRol)
	reportes.GET("/dashboard", reporteHandler.Dashboard)
	reportes.GET("/nna/detalle/:id", reporteHandler.ReporteNNA)
	reportes.GET("/intervenciones/por-tipo", reporteHandler.IntervencionesPorTipo)
	reportes.GET("/talleres/asistencia", reporteHandler.TalleresAsistencia)
	reportes.GET("/actividad/reciente", reporteHandler.ActividadReciente)

	return e
}
