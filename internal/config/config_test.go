package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	contenido := `
database:
  sqlserver:
    host: "sql.planta.local"
    port: 1433
    user: "dashboard"
    database: "mms_planta"
http:
  host: "0.0.0.0"
  port: 9090
dashboard:
  ventana_recencia: "168h"
  cantidad_ordenes: 5
  intervalo_rotacion: "45s"
`
	ruta := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(ruta, []byte(contenido), 0o644))

	cfg, err := LoadConfig(ruta)
	require.NoError(t, err)

	assert.Equal(t, "sql.planta.local", cfg.Database.SQLServer.Host)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 7*24*time.Hour, cfg.Dashboard.GetVentanaRecencia())
	assert.Equal(t, 5, cfg.Dashboard.GetCantidadOrdenes())
	assert.Equal(t, 45*time.Second, cfg.Dashboard.GetIntervaloRotacion())
}

func TestLoadConfig_ArchivoInexistente(t *testing.T) {
	_, err := LoadConfig("/ruta/que/no/existe.yaml")
	assert.Error(t, err)
}

func TestDashboardConfig_Defaults(t *testing.T) {
	var d DashboardConfig

	assert.Equal(t, 14*24*time.Hour, d.GetVentanaRecencia())
	assert.Equal(t, 30*time.Second, d.GetIntervaloRotacion())
	assert.Equal(t, time.Second, d.GetIntervaloRefresco())
	assert.Equal(t, 30*time.Second, d.GetCacheTTL())
	assert.Equal(t, 3, d.GetCantidadOrdenes())
	assert.Equal(t, 8, d.GetPuntosSerieKiosco())
}

func TestHTTPConfig_Addr(t *testing.T) {
	assert.Equal(t, "0.0.0.0:8080", HTTPConfig{}.Addr())
	assert.Equal(t, "10.0.0.5:9090", HTTPConfig{Host: "10.0.0.5", Port: 9090}.Addr())
}

func TestDashboardConfig_DuracionInvalidaUsaDefault(t *testing.T) {
	d := DashboardConfig{IntervaloRotacion: "treinta segundos"}
	assert.Equal(t, 30*time.Second, d.GetIntervaloRotacion())
}
