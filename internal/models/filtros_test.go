package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraduccionDeDias(t *testing.T) {
	assert.Equal(t, "Monday", DiaEnIngles("lunes"))
	assert.Equal(t, "Monday", DiaEnIngles("Monday"))
	assert.Equal(t, "miércoles", DiaEnEspanol("Wednesday"))
	assert.Equal(t, "miércoles", DiaEnEspanol("miércoles"))

	assert.Equal(t, "", DiaEnIngles("feriado"))
	assert.Equal(t, "", DiaEnEspanol(""))
}

func TestCondiciones_ParametrizaValores(t *testing.T) {
	c := &Condiciones{}
	c.Agregar("CODIGO = %s", "P001")
	c.Agregar("YEAR(FECHAINGRESO) = %s", 2025)

	where, args := c.Where()
	assert.Equal(t, "CODIGO = @p1 AND YEAR(FECHAINGRESO) = @p2", where)
	require.Len(t, args, 2)
	assert.Equal(t, "P001", args[0])
	assert.Equal(t, 2025, args[1])
}

func TestCondiciones_SinClausulas(t *testing.T) {
	c := &Condiciones{}
	where, args := c.Where()
	assert.Equal(t, "1=1", where)
	assert.Empty(t, args)
}

func TestCondiciones_CorteCompartesSecuencia(t *testing.T) {
	// Dos cláusulas WHERE de una misma sentencia comparten los marcadores @pN.
	c := &Condiciones{}
	c.Agregar("FECHAINGRESO >= %s", time.Now())
	primera := c.Corte()

	c.Agregar("od.CodigoProducto = %s", "P001")
	segunda, args := c.Where()

	assert.Equal(t, "FECHAINGRESO >= @p1", primera)
	assert.Equal(t, "od.CodigoProducto = @p2", segunda)
	assert.Len(t, args, 2)
}

func TestCondiciones_WhereTrasCorteConservaArgs(t *testing.T) {
	// Si tras el corte no quedan cláusulas, los argumentos del primer
	// tramo siguen viajando con la sentencia.
	c := &Condiciones{}
	c.Agregar("CODIGO = %s", "P001")
	_ = c.Corte()

	where, args := c.Where()
	assert.Equal(t, "1=1", where)
	require.Len(t, args, 1)
	assert.Equal(t, "P001", args[0])
}

func TestCondiciones_CorteVacio(t *testing.T) {
	c := &Condiciones{}
	assert.Equal(t, "1=1", c.Corte())
}

func TestCondicionesRegistros(t *testing.T) {
	filtro := Filtro{Anio: 2025, Semana: 33, Dia: "lunes", Codigo: "P001", ODP: "ODP-1"}

	where, args := filtro.CondicionesRegistros().Where()
	assert.Contains(t, where, "FECHAINGRESO IS NOT NULL")
	assert.Contains(t, where, "PESONETO IS NOT NULL")
	assert.Contains(t, where, "NUMEMBALAJE IS NOT NULL")
	assert.Contains(t, where, "YEAR(FECHAINGRESO) = @p1")
	assert.Contains(t, where, "DATEPART(week, FECHAINGRESO) = @p2")
	assert.Contains(t, where, "DATENAME(weekday, FECHAINGRESO) = @p3")
	assert.Contains(t, where, "CODIGO = @p4")
	assert.Contains(t, where, "ODP = @p5")

	require.Len(t, args, 5)
	// El día viaja normalizado a inglés.
	assert.Equal(t, "Monday", args[2])
}

func TestAgregarCondicionesCreacion_DiaEnAmbosIdiomas(t *testing.T) {
	filtro := Filtro{Dia: "martes"}
	c := &Condiciones{}
	filtro.AgregarCondicionesCreacion(c)

	where, args := c.Where()
	assert.Contains(t, where, "DATENAME(weekday, od.FechaCreacion) = @p1")
	assert.Contains(t, where, "DATENAME(weekday, od.FechaCreacion) = @p2")
	require.Len(t, args, 2)
	assert.Equal(t, "Tuesday", args[0])
	assert.Equal(t, "martes", args[1])
}

func TestFiltroTiempoReal(t *testing.T) {
	ahora := time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC)
	filtro := FiltroTiempoReal(ahora)
	assert.Equal(t, ahora.AddDate(0, 0, -14), filtro.Desde)
	assert.Empty(t, filtro.Codigo)
}

func TestFiltroTiempoReal_ClaveEstableDentroDeLaVentana(t *testing.T) {
	// Ticks consecutivos dentro de la ventana de tolerancia comparten clave
	// de caché; al cruzar el múltiplo de 30s la clave cambia.
	base := time.Date(2025, 8, 15, 12, 0, 3, 0, time.UTC)

	clave := FiltroTiempoReal(base).Clave()
	for _, delta := range []time.Duration{time.Second, 5 * time.Second, 26 * time.Second} {
		assert.Equal(t, clave, FiltroTiempoReal(base.Add(delta)).Clave())
	}

	assert.NotEqual(t, clave, FiltroTiempoReal(base.Add(30*time.Second)).Clave())
}

func TestOrdenarDiasEspanol(t *testing.T) {
	dias := []string{"domingo", "miércoles", "lunes", "viernes"}
	OrdenarDiasEspanol(dias)
	assert.Equal(t, []string{"lunes", "miércoles", "viernes", "domingo"}, dias)
}

func TestOrdenarDiasEspanol_DesconocidosAlFinal(t *testing.T) {
	dias := []string{"feriado", "martes", "lunes"}
	OrdenarDiasEspanol(dias)
	assert.Equal(t, []string{"lunes", "martes", "feriado"}, dias)
}

func TestConOrden(t *testing.T) {
	base := Filtro{Anio: 2025}
	alcance := base.ConOrden("P001", "ODP-1")

	assert.Equal(t, "P001", alcance.Codigo)
	assert.Equal(t, "ODP-1", alcance.ODP)
	assert.Equal(t, 2025, alcance.Anio)
	// El filtro original no se muta.
	assert.Empty(t, base.Codigo)
}

func TestClaveDistingueFiltros(t *testing.T) {
	a := Filtro{Anio: 2025, Codigo: "P001"}
	b := Filtro{Anio: 2025, Codigo: "P002"}
	assert.NotEqual(t, a.Clave(), b.Clave())
	assert.Equal(t, a.Clave(), a.Clave())
}

func TestMasaInicial(t *testing.T) {
	linea := LineaOrden{PesoODP: 200, PorcentajeMerma: 5}
	assert.InDelta(t, 210.0, linea.MasaInicial(), 1e-9)

	sinMerma := LineaOrden{PesoODP: 200}
	assert.InDelta(t, 200.0, sinMerma.MasaInicial(), 1e-9)
}
