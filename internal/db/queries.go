package db

// Plantillas SQL del warehouse de planta. El %s de cada plantilla recibe una
// cláusula WHERE construida por models.Condiciones: solo nombres de columna y
// marcadores @pN, los valores viajan como argumentos.

const SELECT_REGISTROS_EMBUTICION = `
	SELECT FECHAINGRESO, PESONETO, NUMEMBALAJE, PROCESO, CODIGO, ISNULL(ODP, '') AS ODP
	FROM vwRegistrosDetallados
	WHERE %s
	ORDER BY FECHAINGRESO ASC
`

// Líneas de orden con merma de masa. Solo califican materias primas de masa
// (CodigoMp con prefijo YY06) y merma positiva.
const SELECT_LINEAS_ORDEN = `
	SELECT DISTINCT
		od.CodigoProducto,
		od.CodigoOrden,
		od.PesoODP,
		ISNULL(pf.PorcentajeMermaMP, 0) AS PorcentajeMermaMP,
		od.FechaCreacion
	FROM vwOrdenDocumento od
	LEFT JOIN vwProductoFormula pf ON od.CodigoProducto = pf.CodigoProducto
	WHERE pf.CodigoMp LIKE 'YY06%%'
		AND ISNULL(pf.PorcentajeMermaMP, 0) > 0
		AND %s
`

// Órdenes de un producto con la marca de si ya registran embutición dentro
// del alcance. La prioridad (actividad primero, luego recencia) se resuelve
// en Go.
const SELECT_ORDENES_PRODUCTO = `
	SELECT DISTINCT
		od.CodigoOrden,
		od.CodigoProducto,
		od.FechaCreacion,
		CASE WHEN EXISTS (
			SELECT 1 FROM vwRegistrosDetallados rd
			WHERE rd.ODP = od.CodigoOrden
				AND rd.CODIGO = od.CodigoProducto
				AND rd.PROCESO = 'Embutición'
				AND %s
		) THEN 1 ELSE 0 END AS TieneEmbuticion
	FROM vwOrdenDocumento od
	WHERE %s
`

const SELECT_ANIOS_DISPONIBLES = `
	SELECT DISTINCT YEAR(FECHAINGRESO) AS Anio
	FROM vwRegistrosDetallados
	WHERE FECHAINGRESO IS NOT NULL
	ORDER BY Anio DESC
`

const SELECT_SEMANAS_DISPONIBLES = `
	SELECT DISTINCT DATEPART(week, FECHAINGRESO) AS Semana
	FROM vwRegistrosDetallados
	WHERE %s
	ORDER BY Semana
`

// Los nombres de día vuelven en el idioma de la sesión de SQL Server; la
// normalización y el orden lunes→domingo se resuelven en Go.
const SELECT_DIAS_DISPONIBLES = `
	SELECT DATENAME(weekday, FECHAINGRESO) AS NomDia
	FROM vwRegistrosDetallados
	WHERE %s
	GROUP BY DATENAME(weekday, FECHAINGRESO)
`

const SELECT_CODIGOS_DISPONIBLES = `
	SELECT DISTINCT CODIGO
	FROM vwRegistrosDetallados
	WHERE CODIGO IS NOT NULL AND CODIGO != '' AND %s
	ORDER BY CODIGO
`

// ODPs disponibles: tanto las que ya registran producción como las de
// órdenes existentes todavía sin registros.
const SELECT_ODPS_DISPONIBLES = `
	SELECT DISTINCT ODP
	FROM (
		SELECT ODP
		FROM vwRegistrosDetallados
		WHERE ODP IS NOT NULL AND ODP != '' AND %s
		UNION
		SELECT od.CodigoOrden AS ODP
		FROM vwOrdenDocumento od
		WHERE %s
	) AS TodosODPs
	WHERE ODP IS NOT NULL AND ODP != ''
	ORDER BY ODP
`
