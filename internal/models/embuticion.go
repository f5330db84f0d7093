package models

import "time"

// ProcesoEmbuticion es el valor literal del proceso de embutición en
// vwRegistrosDetallados. Debe coincidir exactamente, acento incluido.
const ProcesoEmbuticion = "Embutición"

// RegistroProduccion es una fila cruda de vwRegistrosDetallados: un evento de
// producción reportado por planta.
type RegistroProduccion struct {
	FechaIngreso time.Time `json:"fecha_ingreso"`
	PesoNeto     float64   `json:"peso_neto"`
	NumEmbalaje  float64   `json:"num_embalaje"`
	Proceso      string    `json:"proceso"`
	Codigo       string    `json:"codigo"`
	ODP          string    `json:"odp"`
}

// PuntoPesoSauciso es un punto derivado de la serie: kg embutidos y embalajes
// agrupados por (FECHAINGRESO, CODIGO[, ODP]), con el peso sauciso calculado.
type PuntoPesoSauciso struct {
	FechaIngreso   time.Time `json:"fecha_ingreso"`
	Codigo         string    `json:"codigo"`
	ODP            string    `json:"odp,omitempty"`
	KgEmbutidos    float64   `json:"kg_embutidos"`
	TotalEmbalajes float64   `json:"total_embalajes"`
	PesoSauciso    float64   `json:"peso_sauciso"`
}

// LineaOrden es una línea de vwOrdenDocumento relacionada con la merma de
// masa de vwProductoFormula. Solo califican líneas con merma positiva sobre
// materias primas de masa (CodigoMp con prefijo YY06).
type LineaOrden struct {
	CodigoProducto  string
	CodigoOrden     string
	PesoODP         float64
	PorcentajeMerma float64
	FechaCreacion   time.Time
}

// MasaInicial es el total de kg que la línea obliga a embutir:
// PesoODP * (1 + merma/100).
func (l LineaOrden) MasaInicial() float64 {
	return l.PesoODP + l.PesoODP*(l.PorcentajeMerma/100.0)
}

// OrdenProducto es una orden candidata para un producto, con la marca de si
// ya tiene registros de embutición dentro del alcance consultado.
type OrdenProducto struct {
	CodigoOrden     string
	CodigoProducto  string
	FechaCreacion   time.Time
	TieneEmbuticion bool
}

// ProgresoOrden resume el avance de embutición de una orden (o de un producto
// completo cuando CodigoOrden está vacío).
type ProgresoOrden struct {
	CodigoOrden        string  `json:"codigo_orden,omitempty"`
	KgDebenEmbutir     float64 `json:"kg_deben_embutir"`
	KgEmbutidos        float64 `json:"kg_embutidos"`
	Porcentaje         float64 `json:"porcentaje"`
	SaucissosFaltantes int     `json:"saucissos_faltantes"`
}

// OrdenCandidata identifica una combinación (CODIGO, ODP) en rotación.
type OrdenCandidata struct {
	Codigo string `json:"codigo"`
	ODP    string `json:"odp"`
}

// VistaRotacion es lo que el kiosco necesita para la franja lateral: qué
// orden se muestra, en qué posición va y cuánto falta para alternar.
type VistaRotacion struct {
	Actual            OrdenCandidata   `json:"actual"`
	Candidatas        []OrdenCandidata `json:"candidatas"`
	Posicion          int              `json:"posicion"`
	Total             int              `json:"total"`
	SegundosRestantes int              `json:"segundos_restantes"`
	// MostrarContador se apaga con una sola candidata: no hay alternancia.
	MostrarContador bool `json:"mostrar_contador"`
}

// FrameTiempoReal es el artefacto final de cada ciclo de refresco: serie +
// progreso + metadatos de rotación, listo para el adaptador de render.
type FrameTiempoReal struct {
	GeneradoEn  time.Time          `json:"generado_en"`
	Rotacion    *VistaRotacion     `json:"rotacion,omitempty"`
	Serie       []PuntoPesoSauciso `json:"serie"`
	Progreso    *ProgresoOrden     `json:"progreso,omitempty"`
	SinOrdenes  bool               `json:"sin_ordenes"`
	Advertencia string             `json:"advertencia,omitempty"`
}
