// Package dashboard corre el ciclo de refresco de la vista de tiempo real:
// consulta → agrega → selecciona → publica, una vez por segundo. Cada ciclo
// produce un FrameTiempoReal completo; el render vive en el navegador del
// kiosco y solo consume frames.
package dashboard

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/JossueGallardo/Pronaca-EmbuticionTR/internal/metricas"
	"github.com/JossueGallardo/Pronaca-EmbuticionTR/internal/models"
	"github.com/JossueGallardo/Pronaca-EmbuticionTR/internal/ordenes"
	"github.com/JossueGallardo/Pronaca-EmbuticionTR/internal/rotacion"
)

// Fuente reúne las lecturas del warehouse que necesita el ciclo. La
// implementa db.FuenteConCache; el ciclo tolera la ventana de caché (30s)
// como costo asumido para no recargar el warehouse en cada tick.
type Fuente interface {
	RegistrosEmbuticion(ctx context.Context, filtro models.Filtro) ([]models.RegistroProduccion, error)
	LineasOrden(ctx context.Context, codigo, odp string, filtro models.Filtro) ([]models.LineaOrden, error)
}

// Opciones parametriza el tablero de tiempo real.
type Opciones struct {
	VentanaRecencia   time.Duration
	CantidadOrdenes   int
	IntervaloRotacion time.Duration
	IntervaloRefresco time.Duration
	// CacheTTL es la vigencia de la caché de consultas; el inicio de la
	// ventana se recorta a este múltiplo para que todos los ticks dentro
	// de la vigencia compartan la misma clave de caché.
	CacheTTL    time.Duration
	PuntosSerie int
	// Reloj inyectable para tests; nil usa time.Now.
	Reloj func() time.Time
}

// Tablero es el dueño del estado de rotación y del último frame generado.
// Un único goroutine muta el estado; los lectores HTTP ven solo copias.
type Tablero struct {
	ctx      context.Context
	cancel   context.CancelFunc
	fuente   Fuente
	rotador  *rotacion.Rotador
	opciones Opciones
	reloj    func() time.Time
	publicar func(models.FrameTiempoReal)

	mu     sync.RWMutex
	ultimo models.FrameTiempoReal
}

// NewTablero crea el tablero. publicar recibe cada frame terminado (el hub
// de WebSocket lo difunde a los kioscos); puede ser nil.
func NewTablero(ctx context.Context, fuente Fuente, opciones Opciones, publicar func(models.FrameTiempoReal)) *Tablero {
	reloj := opciones.Reloj
	if reloj == nil {
		reloj = time.Now
	}
	tableroCtx, cancel := context.WithCancel(ctx)
	return &Tablero{
		ctx:      tableroCtx,
		cancel:   cancel,
		fuente:   fuente,
		rotador:  rotacion.NewRotadorConReloj(opciones.IntervaloRotacion, reloj),
		opciones: opciones,
		reloj:    reloj,
		publicar: publicar,
	}
}

// Start inicia el loop de refresco
func (t *Tablero) Start() {
	go t.run()
	log.Printf("🖥️  Tablero tiempo real iniciado (refresco: %v, rotación: %v, ventana: %v)",
		t.opciones.IntervaloRefresco, t.opciones.IntervaloRotacion, t.opciones.VentanaRecencia)
}

// Stop detiene el loop de refresco
func (t *Tablero) Stop() {
	t.cancel()
	log.Println("🛑 Tablero tiempo real detenido")
}

// UltimoFrame devuelve una copia del último frame generado, para el endpoint
// HTTP de consulta puntual.
func (t *Tablero) UltimoFrame() models.FrameTiempoReal {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.ultimo
}

func (t *Tablero) run() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ PANIC en el loop del tablero: %v", r)
		}
	}()

	ticker := time.NewTicker(t.opciones.IntervaloRefresco)
	defer ticker.Stop()

	// Primer frame inmediato para que el kiosco no arranque en blanco.
	t.refrescar()

	for {
		select {
		case <-t.ctx.Done():
			log.Println("🛑 [Tablero] Contexto cancelado, saliendo...")
			return
		case <-ticker.C:
			t.refrescar()
		}
	}
}

func (t *Tablero) refrescar() {
	ctx, cancel := context.WithTimeout(t.ctx, 10*time.Second)
	defer cancel()

	frame := t.ciclo(ctx)

	t.mu.Lock()
	t.ultimo = frame
	t.mu.Unlock()

	if t.publicar != nil {
		t.publicar(frame)
	}
}

// ciclo ejecuta un refresco completo y arma el frame. Toda falla del
// warehouse termina en una advertencia dentro del frame, nunca en un error
// que detenga el loop: el siguiente tick reintenta.
func (t *Tablero) ciclo(ctx context.Context) models.FrameTiempoReal {
	ahora := t.reloj()
	frame := models.FrameTiempoReal{GeneradoEn: ahora}

	granularidad := t.opciones.CacheTTL
	if granularidad <= 0 {
		granularidad = models.GranularidadDesde
	}
	filtro := models.Filtro{Desde: ahora.Add(-t.opciones.VentanaRecencia).Truncate(granularidad)}

	candidatas, err := ordenes.UltimasOrdenes(ctx, t.fuente, filtro, t.opciones.CantidadOrdenes)
	if err != nil {
		log.Printf("⚠️  Error al obtener últimas órdenes: %v", err)
		frame.Advertencia = "No hay conexión a la base de datos. No se pueden cargar los datos."
		return frame
	}

	vista, ok := t.rotador.Tick(candidatas)
	if !ok {
		frame.SinOrdenes = true
		frame.Advertencia = "No hay órdenes recientes para mostrar."
		return frame
	}
	frame.Rotacion = &vista

	alcance := filtro.ConOrden(vista.Actual.Codigo, vista.Actual.ODP)
	registros, err := t.fuente.RegistrosEmbuticion(ctx, alcance)
	if err != nil {
		log.Printf("⚠️  Error al consultar la serie de %s | %s: %v", vista.Actual.Codigo, vista.Actual.ODP, err)
		frame.Advertencia = "Error al cargar datos de la orden mostrada."
		return frame
	}

	// El gráfico de la orden agrupa solo por fecha y código, como la vista
	// de pantalla completa original.
	serie := metricas.SeriePesoSauciso(registros, false)
	frame.Serie = metricas.UltimosPuntos(serie, t.opciones.PuntosSerie)
	if len(frame.Serie) == 0 {
		frame.Advertencia = fmt.Sprintf("No se encontraron datos para la orden %s | ODP: %s",
			vista.Actual.Codigo, vista.Actual.ODP)
	}

	progreso, err := metricas.CalcularProgreso(ctx, t.fuente, vista.Actual.Codigo, filtro, vista.Actual.ODP)
	if err != nil {
		log.Printf("⚠️  Error al calcular progreso de %s: %v", vista.Actual.ODP, err)
	} else {
		frame.Progreso = &progreso
	}

	return frame
}
