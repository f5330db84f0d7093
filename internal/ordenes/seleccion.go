// Package ordenes decide qué combinaciones (CODIGO, ODP) merecen pantalla:
// las últimas órdenes con actividad de embutición y, cuando solo se conoce el
// producto, qué orden concreta representa su progreso.
package ordenes

import (
	"context"
	"sort"
	"time"

	"github.com/JossueGallardo/Pronaca-EmbuticionTR/internal/metricas"
	"github.com/JossueGallardo/Pronaca-EmbuticionTR/internal/models"
)

// FuenteRegistros entrega los registros crudos dentro de un alcance.
type FuenteRegistros interface {
	RegistrosEmbuticion(ctx context.Context, filtro models.Filtro) ([]models.RegistroProduccion, error)
}

// FuenteOrdenes entrega las órdenes de un producto con su marca de actividad.
type FuenteOrdenes interface {
	OrdenesDelProducto(ctx context.Context, codigo string, filtro models.Filtro) ([]models.OrdenProducto, error)
}

// UltimasOrdenes devuelve las últimas N combinaciones únicas (CODIGO, ODP)
// con datos de embutición dentro del alcance, ordenadas por actividad más
// reciente. Pares con identificadores vacíos quedan fuera. Empates de fecha
// se resuelven por CODIGO y luego ODP ascendente, para que la lista sea
// estable entre ciclos.
func UltimasOrdenes(ctx context.Context, fuente FuenteRegistros, filtro models.Filtro, cantidad int) ([]models.OrdenCandidata, error) {
	registros, err := fuente.RegistrosEmbuticion(ctx, filtro)
	if err != nil {
		return nil, err
	}

	serie := metricas.SeriePesoSauciso(registros, true)

	ultimaFecha := make(map[models.OrdenCandidata]time.Time)
	for _, punto := range serie {
		if punto.Codigo == "" || punto.ODP == "" {
			continue
		}
		par := models.OrdenCandidata{Codigo: punto.Codigo, ODP: punto.ODP}
		if punto.FechaIngreso.After(ultimaFecha[par]) {
			ultimaFecha[par] = punto.FechaIngreso
		}
	}

	candidatas := make([]models.OrdenCandidata, 0, len(ultimaFecha))
	for par := range ultimaFecha {
		candidatas = append(candidatas, par)
	}

	sort.Slice(candidatas, func(i, j int) bool {
		fi, fj := ultimaFecha[candidatas[i]], ultimaFecha[candidatas[j]]
		if !fi.Equal(fj) {
			return fi.After(fj)
		}
		if candidatas[i].Codigo != candidatas[j].Codigo {
			return candidatas[i].Codigo < candidatas[j].Codigo
		}
		return candidatas[i].ODP < candidatas[j].ODP
	})

	if cantidad > 0 && len(candidatas) > cantidad {
		candidatas = candidatas[:cantidad]
	}
	return candidatas, nil
}

// ResolverOrdenPorProducto elige la orden que representa a un producto cuando
// el llamador no trae ODP. Prioridad en dos niveles, en este orden exacto:
//
//  1. órdenes que ya registran embutición en el alcance le ganan a las que no
//  2. dentro de cada nivel, la orden de creación más reciente
//
// Así el tablero no apunta a una orden recién creada sin avance cuando existe
// una activa.
func ResolverOrdenPorProducto(ctx context.Context, fuente FuenteOrdenes, codigo string, filtro models.Filtro) (models.OrdenProducto, bool, error) {
	candidatas, err := fuente.OrdenesDelProducto(ctx, codigo, filtro)
	if err != nil {
		return models.OrdenProducto{}, false, err
	}
	if len(candidatas) == 0 {
		return models.OrdenProducto{}, false, nil
	}

	sort.SliceStable(candidatas, func(i, j int) bool {
		if candidatas[i].TieneEmbuticion != candidatas[j].TieneEmbuticion {
			return candidatas[i].TieneEmbuticion
		}
		return candidatas[i].FechaCreacion.After(candidatas[j].FechaCreacion)
	})

	return candidatas[0], true, nil
}
