package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	HTTP      HTTPConfig      `yaml:"http"`
	Dashboard DashboardConfig `yaml:"dashboard"`
}

type DatabaseConfig struct {
	SQLServer SQLServerConfig `yaml:"sqlserver"`
}

type SQLServerConfig struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	User            string `yaml:"user"`
	Password        string `yaml:"password"`
	Database        string `yaml:"database"`
	Encrypt         string `yaml:"encrypt"`
	TrustCert       bool   `yaml:"trust_cert"`
	AppName         string `yaml:"app_name"`
	ConnectTimeout  int    `yaml:"connect_timeout"`
	MaxConns        int    `yaml:"max_conns"`
	MinConns        int    `yaml:"min_conns"`
	MaxConnLifetime string `yaml:"max_conn_lifetime"`
	MaxConnIdleTime string `yaml:"max_conn_idle_time"`
}

type HTTPConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr devuelve la dirección host:port del servidor HTTP, con valores por
// defecto cuando la sección no está configurada.
func (h HTTPConfig) Addr() string {
	host := h.Host
	if host == "" {
		host = "0.0.0.0"
	}
	port := h.Port
	if port == 0 {
		port = 8080
	}
	return fmt.Sprintf("%s:%d", host, port)
}

// DashboardConfig controla la cadencia de la vista de tiempo real. Los
// valores por defecto replican el comportamiento del tablero de planta:
// ventana de 2 semanas, 3 órdenes en rotación, alternancia cada 30s y
// refresco cada 1s.
type DashboardConfig struct {
	VentanaRecencia   string `yaml:"ventana_recencia"`    // ej: "336h" (2 semanas)
	CantidadOrdenes   int    `yaml:"cantidad_ordenes"`    // órdenes en rotación
	IntervaloRotacion string `yaml:"intervalo_rotacion"`  // ej: "30s"
	IntervaloRefresco string `yaml:"intervalo_refresco"`  // ej: "1s"
	CacheTTL          string `yaml:"cache_ttl"`           // ej: "30s"
	PuntosSerieKiosco int    `yaml:"puntos_serie_kiosco"` // últimos N puntos del gráfico
}

// GetVentanaRecencia retorna la ventana de recencia para órdenes candidatas
func (d *DashboardConfig) GetVentanaRecencia() time.Duration {
	return parseDuration(d.VentanaRecencia, 14*24*time.Hour)
}

// GetIntervaloRotacion retorna cada cuánto se alterna de orden
func (d *DashboardConfig) GetIntervaloRotacion() time.Duration {
	return parseDuration(d.IntervaloRotacion, 30*time.Second)
}

// GetIntervaloRefresco retorna la cadencia del loop de refresco
func (d *DashboardConfig) GetIntervaloRefresco() time.Duration {
	return parseDuration(d.IntervaloRefresco, 1*time.Second)
}

// GetCacheTTL retorna la vigencia de la caché de consultas
func (d *DashboardConfig) GetCacheTTL() time.Duration {
	return parseDuration(d.CacheTTL, 30*time.Second)
}

// GetCantidadOrdenes retorna cuántas órdenes entran en rotación
func (d *DashboardConfig) GetCantidadOrdenes() int {
	if d.CantidadOrdenes <= 0 {
		return 3
	}
	return d.CantidadOrdenes
}

// GetPuntosSerieKiosco retorna cuántos puntos recientes lleva el gráfico
func (d *DashboardConfig) GetPuntosSerieKiosco() int {
	if d.PuntosSerieKiosco <= 0 {
		return 8
	}
	return d.PuntosSerieKiosco
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return duration
}

// LoadConfig carga la configuración desde el archivo YAML
func LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error leyendo archivo de configuración: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parseando YAML: %w", err)
	}

	return &config, nil
}

// Métodos helper para conversión de tipos
func (s SQLServerConfig) GetMaxConnLifetimeDuration() (time.Duration, error) {
	return time.ParseDuration(s.MaxConnLifetime)
}

func (s SQLServerConfig) GetMaxConnIdleTimeDuration() (time.Duration, error) {
	return time.ParseDuration(s.MaxConnIdleTime)
}
