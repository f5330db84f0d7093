package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/JossueGallardo/Pronaca-EmbuticionTR/internal/config"
	"github.com/JossueGallardo/Pronaca-EmbuticionTR/internal/dashboard"
	"github.com/JossueGallardo/Pronaca-EmbuticionTR/internal/db"
	"github.com/JossueGallardo/Pronaca-EmbuticionTR/internal/listeners"
)

func main() {
	// Configurar logger sin timestamps para el banner
	log.SetOutput(os.Stdout)
	log.SetFlags(0)

	log.Println("")
	log.Println("    ███████╗███╗░░░███╗██████╗░██╗░░░██╗████████╗██╗░█████╗░██╗░█████╗░███╗░░██╗")
	log.Println("    ██╔════╝████╗░████║██╔══██╗██║░░░██║╚══██╔══╝██║██╔══██╗██║██╔══██╗████╗░██║")
	log.Println("    █████╗░░██╔████╔██║██████╦╝██║░░░██║░░░██║░░░██║██║░░╚═╝██║██║░░██║██╔██╗██║")
	log.Println("    ██╔══╝░░██║╚██╔╝██║██╔══██╗██║░░░██║░░░██║░░░██║██║░░██╗██║██║░░██║██║╚████║")
	log.Println("    ███████╗██║░╚═╝░██║██████╦╝╚██████╔╝░░░██║░░░██║╚█████╔╝██║╚█████╔╝██║░╚███║")
	log.Println("    ╚══════╝╚═╝░░░░░╚═╝╚═════╝░░╚═════╝░░░░╚═╝░░░╚═╝░╚════╝░╚═╝░╚════╝░╚═╝░░╚══╝")
	log.Println("")
	log.Println("Iniciando Dashboard Embutición Tiempo Real...")
	log.Println("")

	// Ahora activar fecha/hora para los logs normales
	log.SetFlags(log.Ldate | log.Ltime)

	// 1. Cargar archivo .env para obtener ruta del config
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  Archivo .env no encontrado, usando valores por defecto")
	}

	// 2. Cargar configuración desde YAML. Sin archivo, el servicio corre
	// con variables de entorno y los valores por defecto.
	configPath := os.Getenv("CONFIG_FILE")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Printf("⚠️  No se pudo cargar %s (%v), usando variables de entorno y valores por defecto", configPath, err)
		cfg = &config.Config{}
	} else {
		log.Printf("✅ Configuración cargada desde: %s", configPath)
	}

	// 3. Inicializar la conexión al warehouse SQL Server
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	var dbManager *db.Manager
	if cfg.Database.SQLServer.Host != "" {
		dbManager, err = db.GetManagerWithConfig(ctx, cfg.Database.SQLServer)
	} else {
		// Sin sección de base en el YAML: conexión por PRONACA_SSMS_*.
		dbManager, err = db.GetManager(ctx)
	}
	if err != nil {
		log.Fatalf("❌ Error al inicializar SQL Server: %v", err)
	}
	defer dbManager.Close()
	log.Println("✅ Base de datos SQL Server inicializada correctamente")

	// 4. Fuente de datos con caché para el tablero y la API
	fuente := db.NewFuenteConCache(dbManager, cfg.Dashboard.GetCacheTTL())
	log.Printf("✅ Caché de consultas inicializada (TTL: %v)", cfg.Dashboard.GetCacheTTL())

	// 5. Frontend HTTP + WebSocket Hub
	addr := cfg.HTTP.Addr()
	frontend := listeners.NewHTTPFrontend(addr, dbManager, fuente)

	// 6. Tablero de tiempo real publicando hacia el hub
	tableroCtx, tableroCancel := context.WithCancel(context.Background())
	defer tableroCancel()

	tablero := dashboard.NewTablero(tableroCtx, fuente, dashboard.Opciones{
		VentanaRecencia:   cfg.Dashboard.GetVentanaRecencia(),
		CantidadOrdenes:   cfg.Dashboard.GetCantidadOrdenes(),
		IntervaloRotacion: cfg.Dashboard.GetIntervaloRotacion(),
		IntervaloRefresco: cfg.Dashboard.GetIntervaloRefresco(),
		CacheTTL:          cfg.Dashboard.GetCacheTTL(),
		PuntosSerie:       cfg.Dashboard.GetPuntosSerieKiosco(),
	}, frontend.GetWebSocketHub().PublicarFrame)
	frontend.SetTablero(tablero)
	tablero.Start()
	defer tablero.Stop()

	// 7. Apagado limpio con Ctrl+C / SIGTERM
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Printf("🛑 Señal recibida (%v), apagando...", sig)
		tablero.Stop()
		dbManager.Close()
		os.Exit(0)
	}()

	// 8. Servir HTTP (bloqueante)
	log.Println("")
	log.Printf("🚀 Dashboard disponible en http://%s", addr)
	if err := frontend.Start(); err != nil {
		log.Fatalf("❌ Error en el servidor HTTP: %v", err)
	}
}
