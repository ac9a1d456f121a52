package router

import (
	"time"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"mostrador/internal/config"
	"mostrador/internal/handler"
	"mostrador/internal/middleware"
	"mostrador/internal/pos"
	"mostrador/internal/repository"
	"mostrador/internal/service"
	"mostrador/internal/worker"
)

// Deps are the shared singletons wired in main: the in-memory register
// container plus infrastructure handles.
type Deps struct {
	Caja       *pos.Caja
	DB         *gorm.DB
	Redis      *redis.Client
	Dispatcher *worker.Dispatcher
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← (pos.Caja, Repository) ← DB/Redis
func New(cfg *config.Config, deps Deps) (*gin.Engine, service.CajaService, service.DraftService) {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(600, time.Minute))

	// ── Repositories ─────────────────────────────────────────────────────────
	sesionRepo := repository.NewSesionRepository(deps.DB)
	ventaRepo := repository.NewVentaRepository(deps.DB)
	draftRepo := repository.NewDraftRepository(deps.Redis)

	// ── Services ─────────────────────────────────────────────────────────────
	cajaSvc := service.NewCajaService(deps.Caja, sesionRepo, ventaRepo, draftRepo, cfg)
	ventanaSvc := service.NewVentanaService(deps.Caja, deps.Dispatcher)
	ventaSvc := service.NewVentaService(deps.Caja, ventaRepo, sesionRepo, draftRepo, cfg.TerminalID)
	draftSvc := service.NewDraftService(deps.Caja, draftRepo, cfg.TerminalID)

	// ── Handlers ─────────────────────────────────────────────────────────────
	cajaH := handler.NewCajaHandler(cajaSvc)
	ventanasH := handler.NewVentanasHandler(ventanaSvc)
	ventasH := handler.NewVentasHandler(ventaSvc)
	draftsH := handler.NewDraftsHandler(draftSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(deps.DB, deps.Redis))

	v1 := r.Group("/v1")
	{
		caja := v1.Group("/caja")
		{
			caja.POST("/abrir", cajaH.Abrir)
			caja.POST("/cerrar", cajaH.Cerrar)
			caja.GET("/actual", cajaH.Actual)
			caja.GET("/historial", cajaH.Historial)
		}

		ventanas := v1.Group("/ventanas")
		{
			ventanas.POST("", ventanasH.Crear)
			ventanas.GET("", ventanasH.Listar)
			ventanas.GET("/:id", ventanasH.Obtener)
			ventanas.DELETE("/:id", ventanasH.Quitar)
			ventanas.POST("/:id/productos", ventanasH.AgregarProducto)
			ventanas.PATCH("/:id/productos/:productoId", ventanasH.ActualizarCantidad)
			ventanas.DELETE("/:id/productos/:productoId", ventanasH.QuitarProducto)
			ventanas.PUT("/:id/cliente", ventanasH.AsignarCliente)
			ventanas.POST("/:id/pagos", ventanasH.AgregarPago)
			ventanas.DELETE("/:id/pagos/:pagoId", ventanasH.QuitarPago)
			ventanas.POST("/:id/descuento", ventanasH.AplicarDescuento)
			ventanas.PUT("/:id/notas", ventanasH.AsignarNotas)
			ventanas.POST("/:id/completar", ventasH.Completar)
		}

		v1.GET("/ventas", ventasH.Listar)
		v1.GET("/ventas/turno", ventasH.DelTurno)

		drafts := v1.Group("/drafts")
		{
			drafts.POST("/sync", draftsH.Sync)
			drafts.GET("", draftsH.Listar)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r, cajaSvc, draftSvc
}
