package metricas

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JossueGallardo/Pronaca-EmbuticionTR/internal/models"
)

// fuenteSintetica simula el warehouse para los cálculos de progreso.
type fuenteSintetica struct {
	registros    []models.RegistroProduccion
	lineas       []models.LineaOrden
	errRegistros error
	errLineas    error

	llamadasRegistros int
}

func (f *fuenteSintetica) RegistrosEmbuticion(_ context.Context, _ models.Filtro) ([]models.RegistroProduccion, error) {
	f.llamadasRegistros++
	if f.errRegistros != nil {
		return nil, f.errRegistros
	}
	return f.registros, nil
}

func (f *fuenteSintetica) LineasOrden(_ context.Context, _, _ string, _ models.Filtro) ([]models.LineaOrden, error) {
	if f.errLineas != nil {
		return nil, f.errLineas
	}
	return f.lineas, nil
}

func TestCalcularProgreso_PorcentajeYMasaInicial(t *testing.T) {
	fuente := &fuenteSintetica{
		lineas: []models.LineaOrden{
			// 100 kg con 4% de merma: 104 kg a embutir
			{CodigoOrden: "ODP-1", PesoODP: 100, PorcentajeMerma: 4},
		},
		registros: []models.RegistroProduccion{
			{FechaIngreso: fecha(1), Codigo: "P001", ODP: "ODP-1", PesoNeto: 52, NumEmbalaje: 10, Proceso: models.ProcesoEmbuticion},
			{FechaIngreso: fecha(1), Codigo: "P001", ODP: "ODP-1", PesoNeto: 99, NumEmbalaje: 1, Proceso: "Horneado"},
		},
	}

	progreso, err := CalcularProgreso(context.Background(), fuente, "P001", models.Filtro{}, "ODP-1")
	require.NoError(t, err)

	assert.InDelta(t, 104.0, progreso.KgDebenEmbutir, 1e-9)
	assert.InDelta(t, 52.0, progreso.KgEmbutidos, 1e-9)
	assert.InDelta(t, 50.0, progreso.Porcentaje, 1e-9)
}

func TestCalcularProgreso_PuedeSuperarCien(t *testing.T) {
	fuente := &fuenteSintetica{
		lineas: []models.LineaOrden{{CodigoOrden: "ODP-1", PesoODP: 100, PorcentajeMerma: 0}},
		registros: []models.RegistroProduccion{
			{FechaIngreso: fecha(1), Codigo: "P001", ODP: "ODP-1", PesoNeto: 130, NumEmbalaje: 10, Proceso: models.ProcesoEmbuticion},
		},
	}

	progreso, err := CalcularProgreso(context.Background(), fuente, "P001", models.Filtro{}, "ODP-1")
	require.NoError(t, err)

	assert.InDelta(t, 130.0, progreso.Porcentaje, 1e-9)
	// Nada pendiente: no hay saucissos faltantes.
	assert.Equal(t, 0, progreso.SaucissosFaltantes)
}

func TestCalcularProgreso_SinLineasNoDividePorCero(t *testing.T) {
	fuente := &fuenteSintetica{
		registros: []models.RegistroProduccion{
			{FechaIngreso: fecha(1), Codigo: "P001", ODP: "ODP-1", PesoNeto: 30, NumEmbalaje: 5, Proceso: models.ProcesoEmbuticion},
		},
	}

	progreso, err := CalcularProgreso(context.Background(), fuente, "P001", models.Filtro{}, "ODP-1")
	require.NoError(t, err)

	assert.Equal(t, 0.0, progreso.KgDebenEmbutir)
	assert.Equal(t, 0.0, progreso.Porcentaje)
}

func TestCalcularProgreso_SaucissosFaltantes(t *testing.T) {
	fuente := &fuenteSintetica{
		lineas: []models.LineaOrden{{CodigoOrden: "ODP-1", PesoODP: 100, PorcentajeMerma: 0}},
		registros: []models.RegistroProduccion{
			// Peso sauciso del día: 40/20 = 2 kg por embalaje.
			{FechaIngreso: fecha(1), Codigo: "P001", ODP: "ODP-1", PesoNeto: 40, NumEmbalaje: 20, Proceso: models.ProcesoEmbuticion},
		},
	}

	progreso, err := CalcularProgreso(context.Background(), fuente, "P001", models.Filtro{}, "ODP-1")
	require.NoError(t, err)

	// Faltan 60 kg a 2 kg por sauciso: 30 saucissos.
	assert.InDelta(t, 40.0, progreso.KgEmbutidos, 1e-9)
	assert.Equal(t, 30, progreso.SaucissosFaltantes)
}

func TestCalcularProgreso_SinODPNoCalculaFaltantes(t *testing.T) {
	fuente := &fuenteSintetica{
		lineas: []models.LineaOrden{{CodigoOrden: "ODP-1", PesoODP: 100, PorcentajeMerma: 0}},
		registros: []models.RegistroProduccion{
			{FechaIngreso: fecha(1), Codigo: "P001", PesoNeto: 40, NumEmbalaje: 20, Proceso: models.ProcesoEmbuticion},
		},
	}

	progreso, err := CalcularProgreso(context.Background(), fuente, "P001", models.Filtro{}, "")
	require.NoError(t, err)
	assert.Equal(t, 0, progreso.SaucissosFaltantes)
}

func TestCalcularProgreso_ErrorDeLineasSePropaga(t *testing.T) {
	fuente := &fuenteSintetica{errLineas: errors.New("warehouse caído")}

	_, err := CalcularProgreso(context.Background(), fuente, "P001", models.Filtro{}, "ODP-1")
	assert.Error(t, err)
}

func TestSaucissosFaltantes_FallaSecundariaDegradaACero(t *testing.T) {
	// La agregación secundaria falla pero las cifras principales se conservan.
	fuente := &fuenteSintetica{errRegistros: errors.New("timeout")}
	progreso := models.ProgresoOrden{KgDebenEmbutir: 100, KgEmbutidos: 40}

	faltantes := saucissosFaltantes(context.Background(), fuente, models.Filtro{}, progreso)
	assert.Equal(t, 0, faltantes)
}

func TestSaucissosFaltantes_PromedioDegenerado(t *testing.T) {
	fuente := &fuenteSintetica{
		registros: []models.RegistroProduccion{
			{FechaIngreso: time.Now(), Codigo: "P001", PesoNeto: 10, NumEmbalaje: 0, Proceso: models.ProcesoEmbuticion},
		},
	}
	progreso := models.ProgresoOrden{KgDebenEmbutir: 100, KgEmbutidos: 40}

	assert.Equal(t, 0, saucissosFaltantes(context.Background(), fuente, models.Filtro{}, progreso))
}
