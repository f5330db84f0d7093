// Package rotacion mantiene el estado de alternancia del kiosco: qué orden
// se muestra y cuándo toca pasar a la siguiente. El estado vive en un único
// Rotador propiedad del loop de refresco; no hay globals ni concurrencia.
package rotacion

import (
	"time"

	"github.com/JossueGallardo/Pronaca-EmbuticionTR/internal/models"
)

// Rotador alterna entre las órdenes candidatas en round-robin con intervalo
// fijo. El reloj se inyecta para poder simular el paso del tiempo en tests.
type Rotador struct {
	intervalo    time.Duration
	reloj        func() time.Time
	lista        []models.OrdenCandidata
	indice       int
	ultimoCambio time.Time
}

// NewRotador crea un rotador con el reloj del sistema
func NewRotador(intervalo time.Duration) *Rotador {
	return NewRotadorConReloj(intervalo, time.Now)
}

// NewRotadorConReloj crea un rotador con un reloj inyectado
func NewRotadorConReloj(intervalo time.Duration, reloj func() time.Time) *Rotador {
	return &Rotador{
		intervalo:    intervalo,
		reloj:        reloj,
		ultimoCambio: reloj(),
	}
}

// Tick avanza el estado con la lista de candidatas del ciclo actual y
// devuelve la vista a mostrar. Reglas, en este orden:
//
//  1. si la lista cambió respecto del ciclo anterior (comparación por valor,
//     sensible al orden), la rotación vuelve al índice 0 y el timer se reinicia
//  2. si pasó el intervalo y hay más de una candidata, avanza una posición
//     módulo el largo de la lista
//  3. en cualquier otro caso el estado no cambia
//
// Con cero candidatas retorna ok=false: el kiosco muestra "sin órdenes
// recientes" y no hay rotación.
func (r *Rotador) Tick(candidatas []models.OrdenCandidata) (models.VistaRotacion, bool) {
	ahora := r.reloj()

	if !listasIguales(candidatas, r.lista) {
		r.indice = 0
		r.ultimoCambio = ahora
		r.lista = append([]models.OrdenCandidata(nil), candidatas...)
	}

	if len(r.lista) == 0 {
		return models.VistaRotacion{}, false
	}

	transcurrido := ahora.Sub(r.ultimoCambio)
	if transcurrido >= r.intervalo && len(r.lista) > 1 {
		r.indice = (r.indice + 1) % len(r.lista)
		r.ultimoCambio = ahora
		transcurrido = 0
	}

	restantes := int((r.intervalo - transcurrido).Seconds())
	if restantes < 0 {
		restantes = 0
	}

	return models.VistaRotacion{
		Actual:            r.lista[r.indice],
		Candidatas:        append([]models.OrdenCandidata(nil), r.lista...),
		Posicion:          r.indice + 1,
		Total:             len(r.lista),
		SegundosRestantes: restantes,
		MostrarContador:   len(r.lista) > 1,
	}, true
}

// listasIguales compara por valor y sensible al orden: una reordenación de
// las mismas candidatas también reinicia la rotación.
func listasIguales(a, b []models.OrdenCandidata) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
