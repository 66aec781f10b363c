package router

import (
	"time"

	"tesoreria/internal/config"
	"tesoreria/internal/handler"
	"tesoreria/internal/infra"
	"tesoreria/internal/middleware"
	"tesoreria/internal/repository"
	"tesoreria/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Servicios groups the ledger services shared by the HTTP layer and the workers.
type Servicios struct {
	Contadores service.ContadorService
	Cajas      service.CajaService
	Chequeras  service.ChequeraService
	Clientes   service.ClienteService
}

// NuevosServicios builds every service over db. dispatcher may be nil, in
// which case caja credits and receipt e-mails wait for the retry cron.
// Dependency graph: Service ← Repository ← DB
func NuevosServicios(cfg *config.Config, db *gorm.DB, dispatcher service.Encolador) Servicios {
	// ── Repositories ─────────────────────────────────────────────────────────
	contadorRepo := repository.NewContadorRepository(db)
	cajaRepo := repository.NewCajaRepository(db)
	chequeraRepo := repository.NewChequeraRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	acreditacionRepo := repository.NewAcreditacionRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	contadorSvc := service.NewContadorService(contadorRepo, service.ContadorDefaults{
		Formato:    cfg.ContadorFormatoDefault,
		PuntoVenta: cfg.ContadorPuntoVentaDefault,
	})
	return Servicios{
		Contadores: contadorSvc,
		Cajas:      service.NewCajaService(cajaRepo, acreditacionRepo, dispatcher),
		Chequeras:  service.NewChequeraService(chequeraRepo, cfg.EmpresaNombre),
		Clientes: service.NewClienteService(service.ClienteDeps{
			Clientes:       clienteRepo,
			Cajas:          cajaRepo,
			Chequeras:      chequeraRepo,
			Acreditaciones: acreditacionRepo,
			Contadores:     contadorSvc,
			Dispatcher:     dispatcher,
			MaxReintentos:  cfg.AcreditacionMaxReintentos,
		}),
	}
}

// New wires the middleware chain and routes and returns a configured Gin engine.
// Dependency graph: Handler ← Service
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, svcs Servicios, mailerCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigin))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(cfg.RateLimitPorMinuto, time.Minute))

	// ── Handlers ─────────────────────────────────────────────────────────────
	contadoresH := handler.NewContadoresHandler(svcs.Contadores)
	cajasH := handler.NewCajaHandler(svcs.Cajas)
	chequerasH := handler.NewChequerasHandler(svcs.Chequeras)
	clientesH := handler.NewClientesHandler(svcs.Clientes)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, mailerCB))

	// Every ledger route is scoped to the company in the token
	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	{
		cont := v1.Group("/contadores")
		{
			cont.GET("", contadoresH.Listar)
			cont.GET("/next-number/:tipo", contadoresH.Previsualizar)
			cont.POST("/generate-number/:tipo", contadoresH.Generar)
			cont.PUT("/:tipo/formato", contadoresH.ConfigurarFormato)
			cont.PUT("/:tipo/reset", contadoresH.Reiniciar)
		}

		cajas := v1.Group("/cajas")
		{
			cajas.POST("", cajasH.Crear)
			cajas.GET("", cajasH.Listar)
			cajas.GET("/:id", cajasH.Obtener)
			cajas.PUT("/:id", cajasH.Actualizar)
			cajas.DELETE("/:id", cajasH.Eliminar)
			cajas.POST("/:id/movimientos", cajasH.RegistrarMovimiento)
			cajas.GET("/:id/movimientos", cajasH.ListarMovimientos)
			cajas.GET("/:id/resumen", cajasH.Resumen)
		}

		acred := v1.Group("/acreditaciones")
		{
			acred.GET("", cajasH.ListarAcreditaciones)
			acred.POST("/:id/reintentar", cajasH.ReintentarAcreditacion)
		}

		chq := v1.Group("/chequeras")
		{
			chq.POST("", chequerasH.Crear)
			chq.GET("", chequerasH.Listar)
			chq.GET("/:id", chequerasH.Obtener)
			chq.DELETE("/:id", chequerasH.Eliminar)
			chq.POST("/:id/cheques/emitir", chequerasH.EmitirCheque)
			chq.POST("/:id/cheques/terceros", chequerasH.AgregarChequeTerceros)
			chq.GET("/:id/cheques", chequerasH.ListarCheques)
			chq.GET("/:id/cheques/:chequeId", chequerasH.ObtenerCheque)
			chq.PATCH("/:id/cheques/:chequeId", chequerasH.CambiarEstadoCheque)
			chq.GET("/:id/cheques/:chequeId/comprobante", chequerasH.DescargarComprobante)
			chq.GET("/:id/movimientos", chequerasH.ListarMovimientos)
			chq.GET("/:id/resumen", chequerasH.Resumen)
		}

		cli := v1.Group("/clientes")
		{
			cli.POST("", clientesH.Crear)
			cli.GET("", clientesH.Listar)
			cli.GET("/:id", clientesH.Obtener)
			cli.POST("/:id/facturas", clientesH.AgregarFactura)
			cli.POST("/:id/presupuestos", clientesH.AgregarPresupuesto)
			cli.POST("/:id/pagos/efectivo", clientesH.RegistrarPagoEfectivo)
			cli.POST("/:id/pagos/bancario", clientesH.RegistrarPagoBancario)
			cli.POST("/:id/pagos/cheque", clientesH.RegistrarPagoCheque)
			cli.GET("/:id/resumen", clientesH.Resumen)
			cli.GET("/:id/estado-crediticio", clientesH.EstadoCrediticio)
			cli.GET("/:id/cuenta-corriente", clientesH.CuentaCorriente)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
