package router

import (
	"time"

	"wolftactical/internal/config"
	"wolftactical/internal/handler"
	"wolftactical/internal/infra"
	"wolftactical/internal/middleware"
	"wolftactical/internal/repository"
	"wolftactical/internal/service"
	"wolftactical/internal/session"
	"wolftactical/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, storage *infra.ImageStorage, smtpCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.Origins()))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	categoriaRepo := repository.NewCategoriaRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	notificacionRepo := repository.NewNotificacionRepository(db)
	intentos := repository.NewIntentosStore(rdb)

	// ── Session store ────────────────────────────────────────────────────────
	sesiones := session.NewRedisStore(rdb, time.Duration(cfg.SessionTTLHours)*time.Hour)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, intentos, sesiones, cfg)
	categoriaSvc := service.NewCategoriaService(categoriaRepo, notificacionRepo)
	productoSvc := service.NewProductoService(productoRepo, categoriaRepo, notificacionRepo, storage)
	notificacionSvc := service.NewNotificacionService(notificacionRepo)
	emailSvc := service.NewEmailService(dispatcher, cfg)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc, cfg)
	categoriasH := handler.NewCategoriasHandler(categoriaSvc)
	productosH := handler.NewProductosHandler(productoSvc, storage)
	notificacionesH := handler.NewNotificacionesHandler(notificacionSvc)
	emailsH := handler.NewEmailsHandler(emailSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, smtpCB))
	r.Static("/uploads", storage.Base())

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/logout", authH.Logout)
	}

	// Storefront reads — no auth required
	r.GET("/v1/categorias", categoriasH.Listar)
	r.GET("/v1/categorias/flat", categoriasH.ListarFlat)
	r.GET("/v1/categorias/:id/subcategorias", categoriasH.ListarSubcategorias)
	r.GET("/v1/productos", productosH.Listar)
	r.GET("/v1/productos/:id", productosH.ObtenerPorID)

	// Storefront emails — public, sender domain allow-listed
	emails := r.Group("/v1/emails")
	{
		emails.POST("/carrito", emailsH.EnviarCarrito)
		emails.POST("/contacto", emailsH.EnviarContacto)
		emails.POST("/pedido", emailsH.EnviarPedido)
	}

	// Admin routes — server-side session required
	admin := r.Group("/v1", middleware.SessionAuth(cfg.SessionSecret, sesiones))
	{
		categorias := admin.Group("/categorias")
		{
			categorias.POST("", categoriasH.Crear)
			categorias.DELETE("/:id", categoriasH.Eliminar)
			categorias.POST("/:id/subcategorias", categoriasH.CrearSubcategoria)
		}
		admin.DELETE("/subcategorias/:id", categoriasH.EliminarSubcategoria)

		prods := admin.Group("/productos")
		{
			prods.POST("", productosH.Crear)
			prods.PUT("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Eliminar)
			prods.POST("/:id/colores", productosH.AgregarColor)
			prods.DELETE("/:id/colores/:colorId", productosH.EliminarColor)
			prods.POST("/:id/imagenes", productosH.SubirImagen)
			prods.DELETE("/:id/imagenes/:imgId", productosH.EliminarImagen)
		}

		notifs := admin.Group("/notificaciones")
		{
			notifs.POST("", notificacionesH.Guardar)
			notifs.GET("", notificacionesH.Listar)
			notifs.DELETE("/:id", notificacionesH.Eliminar)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
