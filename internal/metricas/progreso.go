package metricas

import (
	"context"
	"log"
	"math"

	"github.com/JossueGallardo/Pronaca-EmbuticionTR/internal/models"
)

// FuenteProgreso son las lecturas del warehouse que necesita el cálculo de
// progreso. *db.Manager y *db.FuenteConCache la implementan; los tests usan
// una fuente sintética.
type FuenteProgreso interface {
	RegistrosEmbuticion(ctx context.Context, filtro models.Filtro) ([]models.RegistroProduccion, error)
	LineasOrden(ctx context.Context, codigo, odp string, filtro models.Filtro) ([]models.LineaOrden, error)
}

// CalcularProgreso calcula el avance de embutición de un producto, o de una
// orden específica cuando odp no está vacío.
//
//	KgDebenEmbutir = Σ PesoODP·(1 + merma/100) sobre líneas que califican
//	KgEmbutidos    = Σ PESONETO de registros de embutición en el alcance
//	Porcentaje     = KgEmbutidos / KgDebenEmbutir · 100 (guardado contra cero)
//
// Los saucissos faltantes se derivan de una agregación secundaria (promedio
// de peso sauciso de la orden); si esa consulta falla, el resultado degrada a
// cero sin invalidar las cifras principales.
func CalcularProgreso(ctx context.Context, fuente FuenteProgreso, codigo string, filtro models.Filtro, odp string) (models.ProgresoOrden, error) {
	progreso := models.ProgresoOrden{CodigoOrden: odp}

	lineas, err := fuente.LineasOrden(ctx, codigo, odp, filtro)
	if err != nil {
		return progreso, err
	}
	for _, linea := range lineas {
		progreso.KgDebenEmbutir += linea.MasaInicial()
	}

	alcance := filtro.ConOrden(codigo, odp)
	registros, err := fuente.RegistrosEmbuticion(ctx, alcance)
	if err != nil {
		return progreso, err
	}
	for _, r := range registros {
		if r.Proceso == models.ProcesoEmbuticion {
			progreso.KgEmbutidos += r.PesoNeto
		}
	}

	if progreso.KgDebenEmbutir > 0 {
		progreso.Porcentaje = progreso.KgEmbutidos / progreso.KgDebenEmbutir * 100
	}

	if odp != "" {
		progreso.SaucissosFaltantes = saucissosFaltantes(ctx, fuente, alcance, progreso)
	}

	return progreso, nil
}

// saucissosFaltantes estima cuántos embalajes faltan: kg pendientes entre el
// peso sauciso promedio de la orden, redondeado hacia arriba. Cualquier falla
// o degeneración numérica resuelve a cero.
func saucissosFaltantes(ctx context.Context, fuente FuenteProgreso, alcance models.Filtro, progreso models.ProgresoOrden) int {
	registros, err := fuente.RegistrosEmbuticion(ctx, alcance)
	if err != nil {
		log.Printf("⚠️  Falló la agregación de saucissos faltantes, usando 0: %v", err)
		return 0
	}

	serie := SeriePesoSauciso(registros, false)
	var suma float64
	var validos int
	for _, punto := range serie {
		if punto.PesoSauciso > 0 {
			suma += punto.PesoSauciso
			validos++
		}
	}
	if validos == 0 {
		return 0
	}

	promedio := suma / float64(validos)
	faltantes := progreso.KgDebenEmbutir - progreso.KgEmbutidos
	if promedio <= 0 || faltantes <= 0 {
		return 0
	}
	return int(math.Ceil(faltantes / promedio))
}
