// Package metricas deriva la métrica "peso sauciso" (peso promedio por
// embalaje) y el progreso de embutición a partir de los registros crudos de
// producción. Replica el cálculo BI de planta:
//
//	_kgEmbutidos   = SUM(PESONETO)    solo filas con PROCESO = 'Embutición'
//	TotalEmbalajes = SUM(NUMEMBALAJE) todas las filas del grupo
//	_PesoSauciso   = _kgEmbutidos / TotalEmbalajes (guardado contra cero)
//
// agrupando por (FECHAINGRESO, CODIGO) o (FECHAINGRESO, CODIGO, ODP).
package metricas

import (
	"sort"
	"time"

	"github.com/JossueGallardo/Pronaca-EmbuticionTR/internal/models"
)

type claveGrupo struct {
	fecha  int64
	codigo string
	odp    string
}

// SeriePesoSauciso agrupa los registros y calcula la serie de peso sauciso,
// ascendente por fecha. Los grupos sin kg embutidos (_kgEmbutidos <= 0) se
// descartan: son filas de otros procesos o sin actividad, no puntos en cero.
func SeriePesoSauciso(registros []models.RegistroProduccion, incluirODP bool) []models.PuntoPesoSauciso {
	grupos := make(map[claveGrupo]*models.PuntoPesoSauciso)

	for _, r := range registros {
		clave := claveGrupo{fecha: r.FechaIngreso.UnixNano(), codigo: r.Codigo}
		if incluirODP {
			clave.odp = r.ODP
		}

		punto, ok := grupos[clave]
		if !ok {
			punto = &models.PuntoPesoSauciso{
				FechaIngreso: r.FechaIngreso,
				Codigo:       r.Codigo,
			}
			if incluirODP {
				punto.ODP = r.ODP
			}
			grupos[clave] = punto
		}

		if r.Proceso == models.ProcesoEmbuticion {
			punto.KgEmbutidos += r.PesoNeto
		}
		punto.TotalEmbalajes += r.NumEmbalaje
	}

	serie := make([]models.PuntoPesoSauciso, 0, len(grupos))
	for _, punto := range grupos {
		if punto.KgEmbutidos <= 0 {
			continue
		}
		if punto.TotalEmbalajes > 0 {
			punto.PesoSauciso = punto.KgEmbutidos / punto.TotalEmbalajes
		} else {
			punto.PesoSauciso = 0
		}
		serie = append(serie, *punto)
	}

	sort.Slice(serie, func(i, j int) bool {
		if !serie[i].FechaIngreso.Equal(serie[j].FechaIngreso) {
			return serie[i].FechaIngreso.Before(serie[j].FechaIngreso)
		}
		if serie[i].Codigo != serie[j].Codigo {
			return serie[i].Codigo < serie[j].Codigo
		}
		return serie[i].ODP < serie[j].ODP
	})

	return serie
}

// UltimosPuntos recorta la serie a los n puntos más recientes conservando el
// orden ascendente (el gráfico del kiosco muestra solo la cola).
func UltimosPuntos(serie []models.PuntoPesoSauciso, n int) []models.PuntoPesoSauciso {
	if n <= 0 || len(serie) <= n {
		return serie
	}
	return serie[len(serie)-n:]
}

// ResumenSerie son las estadísticas que acompañan a la tabla detallada.
type ResumenSerie struct {
	TotalRegistros int     `json:"total_registros"`
	Promedio       float64 `json:"promedio"`
	Minimo         float64 `json:"minimo"`
	Maximo         float64 `json:"maximo"`
}

// Resumen calcula promedio, mínimo y máximo del peso sauciso de la serie.
func Resumen(serie []models.PuntoPesoSauciso) ResumenSerie {
	resumen := ResumenSerie{TotalRegistros: len(serie)}
	if len(serie) == 0 {
		return resumen
	}

	resumen.Minimo = serie[0].PesoSauciso
	resumen.Maximo = serie[0].PesoSauciso
	var suma float64
	for _, punto := range serie {
		suma += punto.PesoSauciso
		if punto.PesoSauciso < resumen.Minimo {
			resumen.Minimo = punto.PesoSauciso
		}
		if punto.PesoSauciso > resumen.Maximo {
			resumen.Maximo = punto.PesoSauciso
		}
	}
	resumen.Promedio = suma / float64(len(serie))
	return resumen
}

// UltimaActividad devuelve la fecha del punto más reciente de la serie.
func UltimaActividad(serie []models.PuntoPesoSauciso) time.Time {
	if len(serie) == 0 {
		return time.Time{}
	}
	return serie[len(serie)-1].FechaIngreso
}
