package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"repairshop/internal/middleware"
	"repairshop/internal/service"
	"repairshop/internal/websocket"
)

// Services bundles everything the HTTP layer calls into.
type Services struct {
	WorkOrders    service.WorkOrderService
	Transactions  service.TransactionService
	Inventory     service.InventoryService
	Scheduled     service.ScheduledServiceService
	Clients       service.ClientService
	Taxonomy      service.TaxonomyService
	Notifications service.NotificationService
	Statistics    service.StatisticsService
	Audit         service.AuditService
	Users         service.UserService
}

type RouterConfig struct {
	Secret      []byte
	CORSOrigins []string
	Cookie      middleware.CookieOptions
	// Hub is optional; without it /ws is not served.
	Hub *websocket.Hub
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(svc Services, cfg RouterConfig) (*gin.Engine, error) {
	if err := RegisterValidators(); err != nil {
		return nil, err
	}
	guard := NewGuard(cfg.Secret)

	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	if len(corsConfig.AllowOrigins) > 0 {
		router.Use(cors.New(corsConfig))
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	if cfg.Hub != nil {
		router.GET("/ws", func(c *gin.Context) {
			websocket.ServeWs(cfg.Hub, c, cfg.Secret)
		})
	}

	root := router.Group("")
	NewUserHandler(svc.Users, guard, cfg.Cookie).RegisterRoutes(root)
	NewWorkOrderHandler(svc.WorkOrders, guard).RegisterRoutes(root)
	NewTransactionHandler(svc.Transactions, guard).RegisterRoutes(root)
	NewInventoryHandler(svc.Inventory, guard).RegisterRoutes(root)
	NewScheduledServiceHandler(svc.Scheduled, guard).RegisterRoutes(root)
	NewClientHandler(svc.Clients, guard).RegisterRoutes(root)
	NewTaxonomyHandler(svc.Taxonomy, guard).RegisterRoutes(root)
	NewNotificationHandler(svc.Notifications, guard).RegisterRoutes(root)
	NewStatisticsHandler(svc.Statistics, guard).RegisterRoutes(root)
	NewAuditHandler(svc.Audit, guard).RegisterRoutes(root)
	NewPortalHandler(svc.WorkOrders, svc.Scheduled, svc.Notifications, guard).RegisterRoutes(root)

	return router, nil
}
