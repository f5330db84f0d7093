package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Mapeo bidireccional de días de la semana. DATENAME(weekday, ...) puede
// responder en inglés o en español según el idioma de la sesión de SQL
// Server, así que mantenemos las dos tablas explícitas y nunca las derivamos
// una de la otra.
var diasInglesEspanol = map[string]string{
	"Monday":    "lunes",
	"Tuesday":   "martes",
	"Wednesday": "miércoles",
	"Thursday":  "jueves",
	"Friday":    "viernes",
	"Saturday":  "sábado",
	"Sunday":    "domingo",
}

var diasEspanolIngles = map[string]string{
	"lunes":     "Monday",
	"martes":    "Tuesday",
	"miércoles": "Wednesday",
	"jueves":    "Thursday",
	"viernes":   "Friday",
	"sábado":    "Saturday",
	"domingo":   "Sunday",
}

// DiaEnIngles normaliza un nombre de día (en cualquiera de los dos idiomas)
// a su forma en inglés. Retorna "" si no es un día reconocido.
func DiaEnIngles(dia string) string {
	if _, ok := diasInglesEspanol[dia]; ok {
		return dia
	}
	return diasEspanolIngles[dia]
}

// DiaEnEspanol normaliza un nombre de día a su forma en español.
func DiaEnEspanol(dia string) string {
	if _, ok := diasEspanolIngles[dia]; ok {
		return dia
	}
	return diasInglesEspanol[dia]
}

// DiasSemanaEspanol lista los días en el orden lunes→domingo, para poblar el
// filtro cuando la consulta de días disponibles no devuelve nada.
var DiasSemanaEspanol = []string{
	"lunes", "martes", "miércoles", "jueves", "viernes", "sábado", "domingo",
}

// OrdenarDiasEspanol ordena in situ nombres de día en español de lunes a
// domingo. El orden se resuelve aquí y no en SQL porque DATENAME responde en
// el idioma de la sesión y un CASE por nombre fallaría en el idioma contrario.
// Nombres no reconocidos quedan al final, en su orden de llegada.
func OrdenarDiasEspanol(dias []string) {
	orden := make(map[string]int, len(DiasSemanaEspanol))
	for i, dia := range DiasSemanaEspanol {
		orden[dia] = i
	}
	sort.SliceStable(dias, func(i, j int) bool {
		oi, conocidoI := orden[dias[i]]
		oj, conocidoJ := orden[dias[j]]
		if conocidoI != conocidoJ {
			return conocidoI
		}
		return conocidoI && oi < oj
	})
}

// Filtro define el alcance de una consulta sobre los registros de
// producción. Los campos en cero/"" no aplican restricción.
type Filtro struct {
	Anio   int
	Semana int
	Dia    string // nombre del día, español o inglés
	Codigo string
	ODP    string
	// Desde acota FECHAINGRESO por abajo (ventana de recencia).
	Desde time.Time
}

// GranularidadDesde es el múltiplo al que se recorta Desde en las consultas
// de tiempo real. La vista tolera datos con hasta 30s de antigüedad; sin el
// recorte, cada tick del loop produciría una clave de caché distinta y la
// caché nunca acertaría entre ciclos.
const GranularidadDesde = 30 * time.Second

// FiltroTiempoReal es el alcance fijo de la vista de tiempo real: últimas
// dos semanas de actividad, con Desde recortado para que la clave de caché
// sea estable dentro de la ventana de tolerancia.
func FiltroTiempoReal(ahora time.Time) Filtro {
	return Filtro{Desde: ahora.Add(-14 * 24 * time.Hour).Truncate(GranularidadDesde)}
}

// ConOrden devuelve una copia del filtro fijada a una combinación concreta.
func (f Filtro) ConOrden(codigo, odp string) Filtro {
	f.Codigo = codigo
	f.ODP = odp
	return f
}

// Condiciones acumula cláusulas SQL parametrizadas. Los valores viajan
// siempre como argumentos posicionales @pN, nunca interpolados.
type Condiciones struct {
	clausulas []string
	args      []any
}

// Agregar añade una cláusula. Cada %s en expr se sustituye por el marcador
// @pN del argumento correspondiente.
func (c *Condiciones) Agregar(expr string, vals ...any) {
	marcadores := make([]any, len(vals))
	for i, v := range vals {
		c.args = append(c.args, v)
		marcadores[i] = fmt.Sprintf("@p%d", len(c.args))
	}
	c.clausulas = append(c.clausulas, fmt.Sprintf(expr, marcadores...))
}

// Corte devuelve las cláusulas acumuladas desde el último corte, unidas con
// AND, y reinicia la lista conservando los argumentos. Sirve para armar
// sentencias con más de una cláusula WHERE sobre una sola secuencia @pN.
func (c *Condiciones) Corte() string {
	if len(c.clausulas) == 0 {
		return "1=1"
	}
	where := strings.Join(c.clausulas, " AND ")
	c.clausulas = nil
	return where
}

// Where devuelve la cláusula combinada con AND y todos los argumentos
// acumulados, incluidos los de cortes anteriores.
func (c *Condiciones) Where() (string, []any) {
	if len(c.clausulas) == 0 {
		return "1=1", c.args
	}
	return strings.Join(c.clausulas, " AND "), c.args
}

// AgregarCondicionesTemporales añade las restricciones de tiempo del filtro
// sobre FECHAINGRESO. Se usa tanto en la consulta principal de registros como
// en las subconsultas de actividad de embutición.
func (f Filtro) AgregarCondicionesTemporales(c *Condiciones) {
	if !f.Desde.IsZero() {
		c.Agregar("FECHAINGRESO >= %s", f.Desde)
	}
	if f.Anio > 0 {
		c.Agregar("YEAR(FECHAINGRESO) = %s", f.Anio)
	}
	if f.Semana > 0 {
		c.Agregar("DATEPART(week, FECHAINGRESO) = %s", f.Semana)
	}
	if dia := DiaEnIngles(f.Dia); dia != "" {
		c.Agregar("DATENAME(weekday, FECHAINGRESO) = %s", dia)
	}
}

// CondicionesRegistros traduce el filtro a condiciones sobre
// vwRegistrosDetallados (FECHAINGRESO y compañía).
func (f Filtro) CondicionesRegistros() *Condiciones {
	c := &Condiciones{}
	c.clausulas = append(c.clausulas,
		"FECHAINGRESO IS NOT NULL",
		"PESONETO IS NOT NULL",
		"NUMEMBALAJE IS NOT NULL",
	)
	f.AgregarCondicionesTemporales(c)
	if f.Codigo != "" {
		c.Agregar("CODIGO = %s", f.Codigo)
	}
	if f.ODP != "" {
		c.Agregar("ODP = %s", f.ODP)
	}
	return c
}

// AgregarCondicionesCreacion traduce las restricciones temporales del filtro
// (año, semana, día) a condiciones equivalentes sobre FechaCreacion de
// vwOrdenDocumento. El día se compara contra ambos idiomas porque el campo
// de creación puede consultarse con cualquiera de las dos configuraciones
// regionales.
func (f Filtro) AgregarCondicionesCreacion(c *Condiciones) {
	if f.Anio > 0 {
		c.Agregar("YEAR(od.FechaCreacion) = %s", f.Anio)
	}
	if f.Semana > 0 {
		c.Agregar("DATEPART(week, od.FechaCreacion) = %s", f.Semana)
	}
	diaEn := DiaEnIngles(f.Dia)
	diaEs := DiaEnEspanol(f.Dia)
	if diaEn != "" && diaEs != "" {
		c.Agregar("(DATENAME(weekday, od.FechaCreacion) = %s OR DATENAME(weekday, od.FechaCreacion) = %s)", diaEn, diaEs)
	}
}

// Clave identifica el filtro para la caché de consultas.
func (f Filtro) Clave() string {
	return fmt.Sprintf("a=%d|s=%d|d=%s|c=%s|o=%s|desde=%d",
		f.Anio, f.Semana, f.Dia, f.Codigo, f.ODP, f.Desde.Unix())
}
