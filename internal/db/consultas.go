package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/JossueGallardo/Pronaca-EmbuticionTR/internal/models"
)

// RegistrosEmbuticion obtiene las filas crudas de producción dentro del
// alcance del filtro, ordenadas por fecha ascendente. Cero filas no es un
// error: es el estado válido de "nada que mostrar".
func (m *Manager) RegistrosEmbuticion(ctx context.Context, filtro models.Filtro) ([]models.RegistroProduccion, error) {
	where, args := filtro.CondicionesRegistros().Where()
	query := fmt.Sprintf(SELECT_REGISTROS_EMBUTICION, where)

	rows, err := m.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error al consultar registros de producción: %w", err)
	}
	defer rows.Close()

	var registros []models.RegistroProduccion
	for rows.Next() {
		var r models.RegistroProduccion
		var proceso, codigo sql.NullString
		if err := rows.Scan(&r.FechaIngreso, &r.PesoNeto, &r.NumEmbalaje, &proceso, &codigo, &r.ODP); err != nil {
			log.Printf("⚠️  Error al escanear fila de registro: %v", err)
			continue
		}
		r.Proceso = proceso.String
		r.Codigo = codigo.String
		registros = append(registros, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error durante la iteración de registros: %w", err)
	}
	return registros, nil
}

// LineasOrden obtiene las líneas de orden que califican para el cálculo de
// masa inicial. Con odp vacío trae todas las órdenes del producto aplicando
// los filtros traducidos a FechaCreacion; con odp se restringe a esa orden
// exacta.
func (m *Manager) LineasOrden(ctx context.Context, codigo, odp string, filtro models.Filtro) ([]models.LineaOrden, error) {
	c := &models.Condiciones{}
	c.Agregar("od.CodigoProducto = %s", codigo)
	if odp != "" {
		c.Agregar("od.CodigoOrden = %s", odp)
	} else {
		filtro.AgregarCondicionesCreacion(c)
	}
	where, args := c.Where()
	query := fmt.Sprintf(SELECT_LINEAS_ORDEN, where)

	rows, err := m.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error al consultar líneas de orden: %w", err)
	}
	defer rows.Close()

	var lineas []models.LineaOrden
	for rows.Next() {
		var l models.LineaOrden
		var fecha sql.NullTime
		if err := rows.Scan(&l.CodigoProducto, &l.CodigoOrden, &l.PesoODP, &l.PorcentajeMerma, &fecha); err != nil {
			log.Printf("⚠️  Error al escanear línea de orden: %v", err)
			continue
		}
		l.FechaCreacion = fecha.Time
		lineas = append(lineas, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error durante la iteración de líneas de orden: %w", err)
	}
	return lineas, nil
}

// OrdenesDelProducto obtiene las órdenes de un producto dentro del período,
// marcando las que ya tienen registros de embutición en el alcance del
// filtro. La política de prioridad se decide en internal/ordenes.
func (m *Manager) OrdenesDelProducto(ctx context.Context, codigo string, filtro models.Filtro) ([]models.OrdenProducto, error) {
	c := &models.Condiciones{}
	filtro.AgregarCondicionesTemporales(c)
	whereActividad := c.Corte()

	c.Agregar("od.CodigoProducto = %s", codigo)
	filtro.AgregarCondicionesCreacion(c)
	whereOrdenes, args := c.Where()

	query := fmt.Sprintf(SELECT_ORDENES_PRODUCTO, whereActividad, whereOrdenes)

	rows, err := m.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error al consultar órdenes del producto %s: %w", codigo, err)
	}
	defer rows.Close()

	var ordenes []models.OrdenProducto
	for rows.Next() {
		var o models.OrdenProducto
		var fecha sql.NullTime
		var tiene int
		if err := rows.Scan(&o.CodigoOrden, &o.CodigoProducto, &fecha, &tiene); err != nil {
			log.Printf("⚠️  Error al escanear orden de producto: %v", err)
			continue
		}
		o.FechaCreacion = fecha.Time
		o.TieneEmbuticion = tiene == 1
		ordenes = append(ordenes, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error durante la iteración de órdenes: %w", err)
	}
	return ordenes, nil
}

// AniosDisponibles lista los años con registros, descendente.
func (m *Manager) AniosDisponibles(ctx context.Context) ([]int, error) {
	return m.listaEnteros(ctx, SELECT_ANIOS_DISPONIBLES, nil)
}

// SemanasDisponibles lista las semanas con registros para el filtro dado.
func (m *Manager) SemanasDisponibles(ctx context.Context, filtro models.Filtro) ([]int, error) {
	c := &models.Condiciones{}
	c.Agregar("FECHAINGRESO IS NOT NULL")
	filtro.AgregarCondicionesTemporales(c)
	where, args := c.Where()
	return m.listaEnteros(ctx, fmt.Sprintf(SELECT_SEMANAS_DISPONIBLES, where), args)
}

// DiasDisponibles lista los días con registros, en español y en orden
// lunes→domingo. Si la consulta no devuelve nada se ofrece la semana entera.
func (m *Manager) DiasDisponibles(ctx context.Context, filtro models.Filtro) ([]string, error) {
	c := &models.Condiciones{}
	c.Agregar("FECHAINGRESO IS NOT NULL")
	filtro.AgregarCondicionesTemporales(c)
	where, args := c.Where()

	dias, err := m.listaTextos(ctx, fmt.Sprintf(SELECT_DIAS_DISPONIBLES, where), args)
	if err != nil {
		return nil, err
	}
	if len(dias) == 0 {
		return models.DiasSemanaEspanol, nil
	}

	enEspanol := make([]string, 0, len(dias))
	for _, dia := range dias {
		if es := models.DiaEnEspanol(dia); es != "" {
			enEspanol = append(enEspanol, es)
		} else {
			enEspanol = append(enEspanol, dia)
		}
	}
	models.OrdenarDiasEspanol(enEspanol)
	return enEspanol, nil
}

// CodigosDisponibles lista los códigos de producto con registros en el alcance.
func (m *Manager) CodigosDisponibles(ctx context.Context, filtro models.Filtro) ([]string, error) {
	c := &models.Condiciones{}
	c.Agregar("FECHAINGRESO IS NOT NULL")
	filtro.AgregarCondicionesTemporales(c)
	where, args := c.Where()
	return m.listaTextos(ctx, fmt.Sprintf(SELECT_CODIGOS_DISPONIBLES, where), args)
}

// ODPsDisponibles lista las ODPs del alcance: las que ya registran
// producción y las de órdenes existentes aún sin registros.
func (m *Manager) ODPsDisponibles(ctx context.Context, filtro models.Filtro) ([]string, error) {
	c := &models.Condiciones{}
	c.Agregar("FECHAINGRESO IS NOT NULL")
	filtro.AgregarCondicionesTemporales(c)
	if filtro.Codigo != "" {
		c.Agregar("CODIGO = %s", filtro.Codigo)
	}
	whereRegistros := c.Corte()

	if filtro.Codigo != "" {
		c.Agregar("od.CodigoProducto = %s", filtro.Codigo)
	}
	whereOrdenes, args := c.Where()

	return m.listaTextos(ctx, fmt.Sprintf(SELECT_ODPS_DISPONIBLES, whereRegistros, whereOrdenes), args)
}

func (m *Manager) listaEnteros(ctx context.Context, query string, args []any) ([]int, error) {
	rows, err := m.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error al consultar lista: %w", err)
	}
	defer rows.Close()

	var valores []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			continue
		}
		valores = append(valores, v)
	}
	return valores, rows.Err()
}

func (m *Manager) listaTextos(ctx context.Context, query string, args []any) ([]string, error) {
	rows, err := m.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error al consultar lista: %w", err)
	}
	defer rows.Close()

	var valores []string
	for rows.Next() {
		var v sql.NullString
		if err := rows.Scan(&v); err != nil {
			continue
		}
		if v.String != "" {
			valores = append(valores, v.String)
		}
	}
	return valores, rows.Err()
}
