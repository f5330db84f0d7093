package listeners

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JossueGallardo/Pronaca-EmbuticionTR/internal/dashboard"
	"github.com/JossueGallardo/Pronaca-EmbuticionTR/internal/db"
	"github.com/JossueGallardo/Pronaca-EmbuticionTR/internal/metricas"
	"github.com/JossueGallardo/Pronaca-EmbuticionTR/internal/models"
	"github.com/JossueGallardo/Pronaca-EmbuticionTR/internal/ordenes"
)

// HTTPFrontend expone el tablero por HTTP: la página del kiosco, el WebSocket
// de frames y la API de consulta detallada con filtros.
type HTTPFrontend struct {
	router  *gin.Engine
	addr    string // Dirección completa host:port
	mgr     *db.Manager
	fuente  *db.FuenteConCache
	tablero *dashboard.Tablero
	wsHub   *WebSocketHub
}

func NewHTTPFrontend(addr string, mgr *db.Manager, fuente *db.FuenteConCache) *HTTPFrontend {
	router := gin.Default()

	// Configurar CORS para permitir todas las peticiones
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Manejador personalizado para rutas 404
	router.NoRoute(func(c *gin.Context) {
		RespondWithError(c, http.StatusNotFound, ErrCodeNotFound,
			"🤔 La ruta que buscas no existe en este servidor",
			gin.H{
				"available_endpoints": gin.H{
					"kiosco": []string{
						"GET /",
						"GET /ws/tiempo-real",
					},
					"tiempo_real": []string{
						"GET /api/tiempo-real",
						"GET /api/ordenes/ultimas",
					},
					"consulta": []string{
						"GET /api/peso-sauciso",
						"GET /api/progreso",
					},
					"filtros": []string{
						"GET /api/filtros/anios",
						"GET /api/filtros/semanas",
						"GET /api/filtros/dias",
						"GET /api/filtros/codigos",
						"GET /api/filtros/odps",
					},
				},
			},
			"Revisa los endpoints disponibles o contacta al equipo de desarrollo")
	})

	// Crear e iniciar WebSocket Hub
	wsHub := NewWebSocketHub()
	go wsHub.Run()

	return &HTTPFrontend{
		router: router,
		addr:   addr,
		mgr:    mgr,
		fuente: fuente,
		wsHub:  wsHub,
	}
}

// SetTablero vincula el tablero de tiempo real al frontend HTTP
func (h *HTTPFrontend) SetTablero(t *dashboard.Tablero) {
	h.tablero = t
}

// GetWebSocketHub retorna el hub de WebSocket
func (h *HTTPFrontend) GetWebSocketHub() *WebSocketHub {
	return h.wsHub
}

// filtroDesdeQuery arma el filtro de consulta a partir de los query params.
// anio y semana deben ser enteros; el resto viaja tal cual.
func filtroDesdeQuery(c *gin.Context) (models.Filtro, bool) {
	var filtro models.Filtro

	if raw := c.Query("anio"); raw != "" {
		anio, err := strconv.Atoi(raw)
		if err != nil {
			ValidationError(c, "anio", "debe ser un número entero válido")
			return filtro, false
		}
		filtro.Anio = anio
	}

	if raw := c.Query("semana"); raw != "" {
		semana, err := strconv.Atoi(raw)
		if err != nil || semana < 1 || semana > 53 {
			ValidationError(c, "semana", "debe ser un número entre 1 y 53")
			return filtro, false
		}
		filtro.Semana = semana
	}

	filtro.Dia = c.Query("dia")
	filtro.Codigo = c.Query("codigo")
	filtro.ODP = c.Query("odp")
	return filtro, true
}

func (h *HTTPFrontend) setupRoutes() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ PANIC en setupRoutes: %v", r)
		}
	}()

	// Página del kiosco (embebida en el binario)
	h.router.GET("/", func(c *gin.Context) {
		c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
		c.Header("Pragma", "no-cache")
		c.Header("Expires", "0")
		c.Data(http.StatusOK, "text/html; charset=utf-8", paginaKiosco)
	})

	// Endpoint GET /salud
	// Estado del servicio: conexión a la base y kioscos conectados
	h.router.GET("/salud", func(c *gin.Context) {
		estadoDB := "ok"
		if err := h.mgr.VerificarConexion(c.Request.Context()); err != nil {
			estadoDB = err.Error()
		}
		c.JSON(http.StatusOK, gin.H{
			"status":             "ok",
			"database":           estadoDB,
			"kioscos_conectados": h.wsHub.ClientesConectados(),
		})
	})

	// Endpoint GET /api/tiempo-real
	// Último frame generado por el tablero (snapshot del WebSocket)
	h.router.GET("/api/tiempo-real", func(c *gin.Context) {
		if h.tablero == nil {
			RespondWithError(c, http.StatusServiceUnavailable, ErrCodeInternalServer,
				"El tablero de tiempo real no está iniciado", nil,
				"Espera a que el servicio termine de arrancar")
			return
		}
		c.JSON(http.StatusOK, h.tablero.UltimoFrame())
	})

	// Endpoint GET /api/peso-sauciso
	// Serie de peso sauciso filtrada, con sus estadísticas
	// Query params: anio, semana, dia, codigo, odp
	h.router.GET("/api/peso-sauciso", func(c *gin.Context) {
		filtro, ok := filtroDesdeQuery(c)
		if !ok {
			return
		}

		registros, err := h.fuente.RegistrosEmbuticion(c.Request.Context(), filtro)
		if err != nil {
			DatabaseError(c, "consultar registros de producción", err)
			return
		}

		// El detalle por ODP solo tiene sentido cuando se filtra una orden.
		serie := metricas.SeriePesoSauciso(registros, filtro.ODP != "")
		Success(c, gin.H{
			"serie":            serie,
			"resumen":          metricas.Resumen(serie),
			"ultima_actividad": metricas.UltimaActividad(serie),
		}, "Serie de peso sauciso calculada")
	})

	// Endpoint GET /api/progreso
	// Avance de embutición de una orden. Con odp vacío se resuelve la orden
	// representativa del producto (prioriza las que ya registran embutición).
	// Query params: codigo (requerido), odp, anio, semana, dia
	h.router.GET("/api/progreso", func(c *gin.Context) {
		filtro, ok := filtroDesdeQuery(c)
		if !ok {
			return
		}
		codigo := filtro.Codigo
		if codigo == "" {
			ValidationError(c, "codigo", "es requerido")
			return
		}

		odp := filtro.ODP
		filtro.Codigo = ""
		filtro.ODP = ""

		if odp == "" {
			orden, encontrada, err := ordenes.ResolverOrdenPorProducto(c.Request.Context(), h.fuente, codigo, filtro)
			if err != nil {
				DatabaseError(c, "resolver orden del producto", err)
				return
			}
			if !encontrada {
				OrdenNotFound(c, codigo)
				return
			}
			odp = orden.CodigoOrden
		}

		progreso, err := metricas.CalcularProgreso(c.Request.Context(), h.fuente, codigo, filtro, odp)
		if err != nil {
			DatabaseError(c, "calcular progreso de embutición", err)
			return
		}
		Success(c, progreso, "Progreso de embutición calculado")
	})

	// Endpoint GET /api/ordenes/ultimas
	// Combinaciones (CODIGO, ODP) con actividad reciente, la misma lista que
	// alimenta la rotación del kiosco
	// Query params: cantidad (default 3)
	h.router.GET("/api/ordenes/ultimas", func(c *gin.Context) {
		cantidad := 3
		if raw := c.Query("cantidad"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				ValidationError(c, "cantidad", "debe ser un número entero positivo")
				return
			}
			cantidad = n
		}

		filtro := models.FiltroTiempoReal(time.Now())
		candidatas, err := ordenes.UltimasOrdenes(c.Request.Context(), h.fuente, filtro, cantidad)
		if err != nil {
			DatabaseError(c, "consultar últimas órdenes", err)
			return
		}
		Success(c, candidatas, "Últimas órdenes con actividad de embutición")
	})

	// ========================================
	// 🔍 Endpoints de filtros disponibles
	// ========================================

	h.router.GET("/api/filtros/anios", func(c *gin.Context) {
		anios, err := h.mgr.AniosDisponibles(c.Request.Context())
		if err != nil {
			DatabaseError(c, "consultar años disponibles", err)
			return
		}
		Success(c, anios, "Años con registros de producción")
	})

	h.router.GET("/api/filtros/semanas", func(c *gin.Context) {
		filtro, ok := filtroDesdeQuery(c)
		if !ok {
			return
		}
		semanas, err := h.mgr.SemanasDisponibles(c.Request.Context(), filtro)
		if err != nil {
			DatabaseError(c, "consultar semanas disponibles", err)
			return
		}
		Success(c, semanas, "Semanas con registros de producción")
	})

	h.router.GET("/api/filtros/dias", func(c *gin.Context) {
		filtro, ok := filtroDesdeQuery(c)
		if !ok {
			return
		}
		dias, err := h.mgr.DiasDisponibles(c.Request.Context(), filtro)
		if err != nil {
			DatabaseError(c, "consultar días disponibles", err)
			return
		}
		Success(c, dias, "Días con registros de producción")
	})

	h.router.GET("/api/filtros/codigos", func(c *gin.Context) {
		filtro, ok := filtroDesdeQuery(c)
		if !ok {
			return
		}
		codigos, err := h.mgr.CodigosDisponibles(c.Request.Context(), filtro)
		if err != nil {
			DatabaseError(c, "consultar códigos disponibles", err)
			return
		}
		Success(c, codigos, "Códigos de producto con registros")
	})

	h.router.GET("/api/filtros/odps", func(c *gin.Context) {
		filtro, ok := filtroDesdeQuery(c)
		if !ok {
			return
		}
		odps, err := h.mgr.ODPsDisponibles(c.Request.Context(), filtro)
		if err != nil {
			DatabaseError(c, "consultar ODPs disponibles", err)
			return
		}
		Success(c, odps, "ODPs con registros u órdenes")
	})

	// WebSocket de frames de tiempo real para los kioscos
	h.router.GET("/ws/tiempo-real", h.wsHub.HandleWebSocket)
}

func (h *HTTPFrontend) Start() error {
	h.setupRoutes()

	log.Printf("🌐 HTTP Frontend escuchando en %s", h.addr)
	return h.router.Run(h.addr)
}

func (h *HTTPFrontend) GetRouter() *gin.Engine {
	return h.router
}
