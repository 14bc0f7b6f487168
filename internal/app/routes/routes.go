package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/juniu86/rr-guanabara/internal/app/controllers"
	"github.com/juniu86/rr-guanabara/internal/app/middleware"
	"github.com/juniu86/rr-guanabara/internal/domain/models"
	"github.com/juniu86/rr-guanabara/internal/domain/services"
	"github.com/juniu86/rr-guanabara/internal/domain/services/container"
)

var (
	fillRoles  = []models.Role{models.RoleTecnico, models.RoleRRAdmin, models.RoleAdmin}
	adminRoles = []models.Role{models.RoleRRAdmin, models.RoleAdmin}
)

// SetupRouter builds the gin engine with every route.
func SetupRouter(serviceContainer *container.ServiceContainer) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	cfg := serviceContainer.GetConfig()
	r.Use(middleware.CORS(cfg.CORSAllowedOrigin))
	r.Use(middleware.Metrics(serviceContainer.GetMetrics()))

	r.GET("/metrics", gin.WrapH(serviceContainer.GetMetrics().Handler()))

	registerRoutes(r, serviceContainer)
	return r
}

// registerRoutes configures every API route.
func registerRoutes(r *gin.Engine, container *container.ServiceContainer) {
	api := r.Group("/api")
	api.Use(middleware.RateLimit(middleware.APILimit))

	authService := container.GetService("auth").(services.InterfaceAuthService)
	api.Use(middleware.Authenticate(authService, container.GetConfig().SessionCookieName))

	registerPublicRoutes(api, container)
	registerAuthenticatedRoutes(api, container)
}

// registerPublicRoutes configures the routes that work without a session.
func registerPublicRoutes(api *gin.RouterGroup, container *container.ServiceContainer) {
	api.GET("/ping", controllers.HandleHealthFunc(container, "ping"))
	api.GET("/health", controllers.HandleHealthFunc(container, "status"))

	authGroup := api.Group("/auth")
	authGroup.POST("/login", middleware.RateLimit(middleware.LoginLimit), controllers.HandleAuthFunc(container, "login"))
	authGroup.GET("/me", controllers.HandleAuthFunc(container, "me"))
	authGroup.POST("/logout", controllers.HandleAuthFunc(container, "logout"))
}

// registerAuthenticatedRoutes configures the routes that need a session.
func registerAuthenticatedRoutes(api *gin.RouterGroup, container *container.ServiceContainer) {
	auth := api.Group("")
	auth.Use(middleware.RequireAuth())

	responseCache := middleware.NewResponseCache()
	// Single and batch uploads draw from the same per-user buckets.
	uploadLimit := middleware.RateLimit(middleware.UploadLimit)

	stationGroup := auth.Group("/stations")
	{
		stationGroup.GET("", responseCache.Middleware(1*time.Minute), controllers.HandleStationFunc(container, "getStations"))
		stationGroup.GET("/:id", responseCache.Middleware(1*time.Minute), controllers.HandleStationFunc(container, "getStation"))
		stationGroup.GET("/:id/maintenances", controllers.HandleStationFunc(container, "getStationMaintenances"))
	}

	maintenanceGroup := auth.Group("/maintenances")
	{
		maintenanceGroup.POST("", middleware.RequireRoles(fillRoles...), controllers.HandleMaintenanceFunc(container, "createMaintenance"))
		maintenanceGroup.GET("", controllers.HandleMaintenanceFunc(container, "getMaintenances"))
		maintenanceGroup.GET("/:id", controllers.HandleMaintenanceFunc(container, "getMaintenance"))
		maintenanceGroup.PUT("/:id/status", middleware.RequireRoles(adminRoles...), controllers.HandleMaintenanceFunc(container, "updateStatus"))
		maintenanceGroup.DELETE("/:id", controllers.HandleMaintenanceFunc(container, "deleteMaintenance"))
		maintenanceGroup.POST("/:id/pdf", controllers.HandleMaintenanceFunc(container, "generatePDF"))
		maintenanceGroup.GET("/:id/pdf", controllers.HandleMaintenanceFunc(container, "downloadPDF"))
		maintenanceGroup.GET("/:id/checklist-items", controllers.HandleChecklistFunc(container, "getItems"))
		maintenanceGroup.POST("/:id/checklist-items", middleware.RequireRoles(fillRoles...), controllers.HandleChecklistFunc(container, "createBatch"))
	}

	checklistGroup := auth.Group("/checklist-items")
	{
		checklistGroup.POST("", middleware.RequireRoles(fillRoles...), controllers.HandleChecklistFunc(container, "createItem"))
		checklistGroup.GET("/:id/photos", controllers.HandlePhotoFunc(container, "getPhotos"))
		checklistGroup.POST("/:id/photos/batch", middleware.RequireRoles(fillRoles...), uploadLimit, controllers.HandlePhotoFunc(container, "uploadBatch"))
	}

	auth.POST("/photos", middleware.RequireRoles(fillRoles...), uploadLimit, controllers.HandlePhotoFunc(container, "upload"))

	dashboardGroup := auth.Group("/dashboard")
	{
		dashboardGroup.GET("/radar", controllers.HandleDashboardFunc(container, "radar"))
		dashboardGroup.GET("/quest-log", controllers.HandleDashboardFunc(container, "questLog"))
		dashboardGroup.GET("/stats", controllers.HandleDashboardFunc(container, "stats"))
	}

	auth.GET("/catalog/equipment", responseCache.Middleware(1*time.Hour), controllers.HandleDashboardFunc(container, "catalog"))

	draftGroup := auth.Group("/drafts")
	{
		draftGroup.GET("/:target", controllers.HandleDraftFunc(container, "getDraft"))
		draftGroup.PUT("/:target", controllers.HandleDraftFunc(container, "saveDraft"))
		draftGroup.DELETE("/:target", controllers.HandleDraftFunc(container, "discardDraft"))
	}
}
