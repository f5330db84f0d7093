package rotacion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JossueGallardo/Pronaca-EmbuticionTR/internal/models"
)

// relojSintetico avanza solo cuando el test lo pide.
type relojSintetico struct {
	ahora time.Time
}

func (r *relojSintetico) Now() time.Time { return r.ahora }

func (r *relojSintetico) Avanzar(d time.Duration) { r.ahora = r.ahora.Add(d) }

func nuevoRelojSintetico() *relojSintetico {
	return &relojSintetico{ahora: time.Date(2025, 8, 1, 8, 0, 0, 0, time.UTC)}
}

func candidatas(pares ...string) []models.OrdenCandidata {
	lista := make([]models.OrdenCandidata, 0, len(pares)/2)
	for i := 0; i+1 < len(pares); i += 2 {
		lista = append(lista, models.OrdenCandidata{Codigo: pares[i], ODP: pares[i+1]})
	}
	return lista
}

func TestRotador_SinCandidatas(t *testing.T) {
	reloj := nuevoRelojSintetico()
	rotador := NewRotadorConReloj(30*time.Second, reloj.Now)

	_, ok := rotador.Tick(nil)
	assert.False(t, ok)
}

func TestRotador_AvanzaAlCumplirseElIntervalo(t *testing.T) {
	reloj := nuevoRelojSintetico()
	rotador := NewRotadorConReloj(30*time.Second, reloj.Now)
	lista := candidatas("P001", "ODP-1", "P002", "ODP-2", "P003", "ODP-3")

	vista, ok := rotador.Tick(lista)
	require.True(t, ok)
	assert.Equal(t, "P001", vista.Actual.Codigo)
	assert.Equal(t, 1, vista.Posicion)
	assert.Equal(t, 3, vista.Total)

	// Antes del intervalo no avanza.
	reloj.Avanzar(29 * time.Second)
	vista, _ = rotador.Tick(lista)
	assert.Equal(t, "P001", vista.Actual.Codigo)
	assert.Equal(t, 1, vista.SegundosRestantes)

	// Exactamente a los 30s avanza y el contador se reinicia.
	reloj.Avanzar(1 * time.Second)
	vista, _ = rotador.Tick(lista)
	assert.Equal(t, "P002", vista.Actual.Codigo)
	assert.Equal(t, 2, vista.Posicion)
	assert.Equal(t, 30, vista.SegundosRestantes)
}

func TestRotador_VueltaCompleta(t *testing.T) {
	reloj := nuevoRelojSintetico()
	rotador := NewRotadorConReloj(30*time.Second, reloj.Now)
	lista := candidatas("P001", "ODP-1", "P002", "ODP-2", "P003", "ODP-3")

	rotador.Tick(lista)
	esperados := []string{"P002", "P003", "P001", "P002"}
	for _, codigo := range esperados {
		reloj.Avanzar(30 * time.Second)
		vista, ok := rotador.Tick(lista)
		require.True(t, ok)
		assert.Equal(t, codigo, vista.Actual.Codigo)
	}
}

func TestRotador_CambioDeListaReinicia(t *testing.T) {
	reloj := nuevoRelojSintetico()
	rotador := NewRotadorConReloj(30*time.Second, reloj.Now)

	rotador.Tick(candidatas("P001", "ODP-1", "P002", "ODP-2"))
	reloj.Avanzar(30 * time.Second)
	vista, _ := rotador.Tick(candidatas("P001", "ODP-1", "P002", "ODP-2"))
	assert.Equal(t, "P002", vista.Actual.Codigo)

	// Lista nueva: índice al principio y timer reiniciado.
	reloj.Avanzar(20 * time.Second)
	vista, _ = rotador.Tick(candidatas("P009", "ODP-9", "P001", "ODP-1"))
	assert.Equal(t, "P009", vista.Actual.Codigo)
	assert.Equal(t, 1, vista.Posicion)
	assert.Equal(t, 30, vista.SegundosRestantes)
}

func TestRotador_ReordenamientoTambienReinicia(t *testing.T) {
	// La comparación es sensible al orden: las mismas candidatas en otro
	// orden cuentan como lista nueva.
	reloj := nuevoRelojSintetico()
	rotador := NewRotadorConReloj(30*time.Second, reloj.Now)

	rotador.Tick(candidatas("P001", "ODP-1", "P002", "ODP-2"))
	reloj.Avanzar(30 * time.Second)
	vista, _ := rotador.Tick(candidatas("P002", "ODP-2", "P001", "ODP-1"))
	assert.Equal(t, "P002", vista.Actual.Codigo)
	assert.Equal(t, 1, vista.Posicion)
}

func TestRotador_UnaSolaCandidataNoRota(t *testing.T) {
	reloj := nuevoRelojSintetico()
	rotador := NewRotadorConReloj(30*time.Second, reloj.Now)
	lista := candidatas("P001", "ODP-1")

	vista, ok := rotador.Tick(lista)
	require.True(t, ok)
	assert.False(t, vista.MostrarContador)

	reloj.Avanzar(5 * time.Minute)
	vista, _ = rotador.Tick(lista)
	assert.Equal(t, "P001", vista.Actual.Codigo)
	assert.Equal(t, 1, vista.Posicion)
}

func TestRotador_ListaVaciaTrasTenerCandidatas(t *testing.T) {
	reloj := nuevoRelojSintetico()
	rotador := NewRotadorConReloj(30*time.Second, reloj.Now)

	_, ok := rotador.Tick(candidatas("P001", "ODP-1"))
	require.True(t, ok)

	_, ok = rotador.Tick(nil)
	assert.False(t, ok)

	// Al volver candidatas, la rotación parte de cero.
	vista, ok := rotador.Tick(candidatas("P002", "ODP-2"))
	require.True(t, ok)
	assert.Equal(t, "P002", vista.Actual.Codigo)
}
