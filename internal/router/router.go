package router

import (
	"time"

	"ventapos/internal/config"
	"ventapos/internal/handler"
	"ventapos/internal/infra"
	"ventapos/internal/middleware"
	"ventapos/internal/repository"
	"ventapos/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine plus the
// cart service, which the server needs at shutdown to release open
// reservations.
// Dependency graph: Handler ← Service ← Repository ← DB/files
func New(cfg *config.Config, db *gorm.DB, remotoCB *infra.CircuitBreaker) (*gin.Engine, service.CarritoService) {
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
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	remoto := infra.NewRemoteFacturas(cfg.ServerURL, time.Duration(cfg.RemoteTimeoutSeconds)*time.Second, remotoCB)

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	facturaRepo := repository.NewFacturaRepository(cfg.FacturasDir)
	contadorRepo := repository.NewContadorRepository(cfg.DataDir)
	pausadasRepo := repository.NewPausadasRepository(cfg.DataDir)
	cierreRepo := repository.NewCierreRepository(cfg.DataDir)
	historialRepo := repository.NewHistorialRepository(cfg.DataDir)

	tasa := infra.NewTasaProvider(settingsRepo)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	inventarioSvc := service.NewInventarioService(productoRepo, historialRepo, cfg.LogLiberaciones)
	productoSvc := service.NewProductoService(productoRepo, inventarioSvc, tasa)
	carritoSvc := service.NewCarritoService(productoRepo, inventarioSvc, pausadasRepo, settingsRepo, tasa)
	facturaSvc := service.NewFacturaService(carritoSvc, facturaRepo, contadorRepo, settingsRepo, remoto, tasa)
	cierreSvc := service.NewCierreService(facturaRepo, cierreRepo, remoto, tasa)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productosH := handler.NewProductosHandler(productoSvc, inventarioSvc)
	carritoH := handler.NewCarritoHandler(carritoSvc)
	facturasH := handler.NewFacturasHandler(facturaSvc)
	cierreH := handler.NewCierreHandler(cierreSvc)
	historialH := handler.NewHistorialHandler(inventarioSvc)
	settingsH := handler.NewSettingsHandler(settingsRepo)
	clientesH := handler.NewClientesHandler(clienteRepo)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, remotoCB))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	operador := middleware.RequireRole("admin", "empleado")
	admin := middleware.RequireRole("admin")

	v1 := r.Group("/v1", jwtMW)
	{
		v1.GET("/productos", operador, productosH.Listar)
		v1.GET("/productos/codigo/:codigo", operador, productosH.BuscarPorCodigo)
		v1.PATCH("/productos/:id/stock", admin, productosH.AjustarStock)
		prods := v1.Group("/productos", admin)
		{
			prods.POST("", productosH.Crear)
			prods.PUT("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Desactivar)
		}
		v1.POST("/productos/repreciar", admin, productosH.Repreciar)

		carrito := v1.Group("/carrito", operador)
		{
			carrito.GET("", carritoH.Ver)
			carrito.POST("/items", carritoH.Agregar)
			carrito.DELETE("/items", carritoH.Quitar)
			carrito.DELETE("", carritoH.Vaciar)
			carrito.POST("/pausar", carritoH.Pausar)
		}

		pausadas := v1.Group("/pausadas", operador)
		{
			pausadas.GET("", carritoH.ListarPausadas)
			pausadas.POST("/:id/retomar", carritoH.Retomar)
			pausadas.DELETE("/:id", carritoH.EliminarPausada)
		}

		v1.POST("/facturas", operador, facturasH.Finalizar)
		v1.GET("/facturas", operador, facturasH.Listar)
		v1.GET("/facturas/:numero", operador, facturasH.Buscar)
		v1.POST("/facturas/:numero/anular", admin, facturasH.Anular)

		v1.POST("/cierre", admin, cierreH.Ejecutar)
		v1.GET("/cierre", admin, cierreH.Listar)

		v1.GET("/historial/stock", operador, historialH.Listar)
		v1.GET("/historial/stock/agregados/:fecha", operador, historialH.ListarAgregados)

		clientes := v1.Group("/clientes", operador)
		{
			clientes.POST("", clientesH.Crear)
			clientes.GET("", clientesH.Listar)
			clientes.GET("/cedula/:cedula", clientesH.BuscarPorCedula)
			clientes.PUT("/:id", clientesH.Actualizar)
			clientes.DELETE("/:id", admin, clientesH.Eliminar)
		}

		settings := v1.Group("/settings", admin)
		{
			settings.GET("/:clave", settingsH.Obtener)
			settings.PUT("/:clave", settingsH.Guardar)
		}

		usuarios := v1.Group("/usuarios", admin)
		{
			usuarios.POST("", authH.CrearUsuario)
			usuarios.GET("", authH.ListarUsuarios)
			usuarios.DELETE("/:id", authH.DesactivarUsuario)
		}
	}

	return r, carritoSvc
}
