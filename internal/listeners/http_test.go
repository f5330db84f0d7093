package listeners

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contextoConQuery(query string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest("GET", "/api/peso-sauciso?"+query, nil)
	return c, recorder
}

func TestFiltroDesdeQuery_Completo(t *testing.T) {
	c, _ := contextoConQuery("anio=2025&semana=33&dia=lunes&codigo=P001&odp=ODP-1")

	filtro, ok := filtroDesdeQuery(c)
	require.True(t, ok)
	assert.Equal(t, 2025, filtro.Anio)
	assert.Equal(t, 33, filtro.Semana)
	assert.Equal(t, "lunes", filtro.Dia)
	assert.Equal(t, "P001", filtro.Codigo)
	assert.Equal(t, "ODP-1", filtro.ODP)
}

func TestFiltroDesdeQuery_Vacio(t *testing.T) {
	c, _ := contextoConQuery("")

	filtro, ok := filtroDesdeQuery(c)
	require.True(t, ok)
	assert.Zero(t, filtro.Anio)
	assert.Zero(t, filtro.Semana)
	assert.Empty(t, filtro.Codigo)
}

func TestFiltroDesdeQuery_AnioInvalido(t *testing.T) {
	c, recorder := contextoConQuery("anio=dosmil")

	_, ok := filtroDesdeQuery(c)
	assert.False(t, ok)
	assert.Equal(t, 400, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "anio")
}

func TestFiltroDesdeQuery_SemanaFueraDeRango(t *testing.T) {
	c, recorder := contextoConQuery("semana=54")

	_, ok := filtroDesdeQuery(c)
	assert.False(t, ok)
	assert.Equal(t, 400, recorder.Code)
}

func frontendDePrueba() *HTTPFrontend {
	gin.SetMode(gin.TestMode)
	frontend := NewHTTPFrontend("127.0.0.1:0", nil, nil)
	frontend.setupRoutes()
	return frontend
}

func servir(frontend *HTTPFrontend, metodo, ruta string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	frontend.GetRouter().ServeHTTP(recorder, httptest.NewRequest(metodo, ruta, nil))
	return recorder
}

func TestRutas_PaginaKiosco(t *testing.T) {
	frontend := frontendDePrueba()

	recorder := servir(frontend, "GET", "/")
	assert.Equal(t, 200, recorder.Code)
	assert.Contains(t, recorder.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, recorder.Body.String(), "Peso Sauciso")
}

func TestRutas_RutaInexistente(t *testing.T) {
	frontend := frontendDePrueba()

	recorder := servir(frontend, "GET", "/no/existe")
	assert.Equal(t, 404, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "available_endpoints")
}

func TestRutas_TiempoRealSinTablero(t *testing.T) {
	// Antes de SetTablero el endpoint responde 503, no un panic.
	frontend := frontendDePrueba()

	recorder := servir(frontend, "GET", "/api/tiempo-real")
	assert.Equal(t, 503, recorder.Code)
}
