package listeners

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/JossueGallardo/Pronaca-EmbuticionTR/internal/models"
)

// WebSocketMessage representa un mensaje enviado a través del WebSocket
type WebSocketMessage struct {
	Type      string      `json:"type"`      // "frame_tiempo_real"
	Timestamp string      `json:"timestamp"` // ISO 8601 timestamp
	Data      interface{} `json:"data"`      // FrameTiempoReal serializado
}

// Client representa un kiosco conectado
type Client struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte
	Hub  *WebSocketHub
}

// WebSocketHub difunde cada frame de tiempo real a todos los kioscos
// conectados. Un solo room: todos los clientes ven lo mismo.
type WebSocketHub struct {
	clients map[*Client]bool

	// Canales de comunicación
	Register   chan *Client
	Unregister chan *Client
	Broadcast  chan []byte

	mu sync.RWMutex
}

// Upgrader de HTTP a WebSocket
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// El kiosco corre en la red de planta; no se restringe origen.
		return true
	},
}

// NewWebSocketHub crea un nuevo hub de WebSocket
func NewWebSocketHub() *WebSocketHub {
	return &WebSocketHub{
		clients:    make(map[*Client]bool),
		Register:   make(chan *Client, 10),
		Unregister: make(chan *Client, 10),
		Broadcast:  make(chan []byte, 100),
	}
}

// Run inicia el hub de WebSocket (debe ejecutarse en goroutine)
func (h *WebSocketHub) Run() {
	log.Println("🔌 WebSocket Hub iniciado")

	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			log.Printf("✅ Kiosco %s conectado (Total: %d)", client.ID, total)

		case client := <-h.Unregister:
			h.mu.Lock()
			if _, exists := h.clients[client]; exists {
				delete(h.clients, client)
				close(client.Send)
			}
			restantes := len(h.clients)
			h.mu.Unlock()
			log.Printf("❌ Kiosco %s desconectado (Restantes: %d)", client.ID, restantes)

		case message := <-h.Broadcast:
			h.mu.RLock()
			destinos := make([]*Client, 0, len(h.clients))
			for client := range h.clients {
				destinos = append(destinos, client)
			}
			h.mu.RUnlock()

			for _, client := range destinos {
				select {
				case client.Send <- message:
				default:
					// Canal lleno, desconectar cliente
					log.Printf("⚠️  Canal lleno para kiosco %s, desconectando", client.ID)
					h.Unregister <- client
				}
			}
		}
	}
}

// PublicarFrame serializa el frame y lo difunde a todos los kioscos. Es el
// sink de publicación que consume el loop del tablero.
func (h *WebSocketHub) PublicarFrame(frame models.FrameTiempoReal) {
	message := WebSocketMessage{
		Type:      "frame_tiempo_real",
		Timestamp: frame.GeneradoEn.Format(time.RFC3339),
		Data:      frame,
	}

	payload, err := json.Marshal(message)
	if err != nil {
		log.Printf("⚠️  Error serializando frame para WebSocket: %v", err)
		return
	}

	select {
	case h.Broadcast <- payload:
	default:
		log.Println("⚠️  Canal de broadcast lleno, frame descartado")
	}
}

// ClientesConectados retorna cuántos kioscos están conectados
func (h *WebSocketHub) ClientesConectados() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleWebSocket maneja el upgrade HTTP→WebSocket de un kiosco
func (h *WebSocketHub) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Error en upgrade de WebSocket: %v", err)
		return
	}

	client := &Client{
		ID:   fmt.Sprintf("%s-%d", c.ClientIP(), time.Now().UnixMilli()),
		Conn: conn,
		Send: make(chan []byte, 32),
		Hub:  h,
	}

	h.Register <- client

	go client.writePump()
	go client.readPump()
}

// writePump envía los mensajes del canal al socket del kiosco
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump descarta lo que envíe el cliente y detecta la desconexión
func (c *Client) readPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(512)
	c.Conn.SetReadDeadline(time.Now().Add(90 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(90 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
