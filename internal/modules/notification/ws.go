package notification

import (
	"log"
	"net/http"
	"time"

	jwtsvc "bookhive/internal/pkg/jwt"
	"bookhive/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// any origin allowed for dev; production deployments sit behind CORS
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// wsEvent is the envelope pushed over the live channel.
type wsEvent struct {
	Type         string `json:"type"`
	UserID       int64  `json:"user_id,omitempty"`
	Notification any    `json:"notification,omitempty"`
}

type WSHandler struct {
	hub        *Hub
	jwtService *jwtsvc.Service
}

func NewWSHandler(hub *Hub, jwtService *jwtsvc.Service) *WSHandler {
	return &WSHandler{
		hub:        hub,
		jwtService: jwtService,
	}
}

func (h *WSHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ws", h.HandleWebSocket)
}

// HandleWebSocket upgrades GET /ws?token=JWT into the user's live channel.
// Auth goes through the query parameter because browsers cannot set headers
// on websocket requests.
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Token is required. Use ?token=YOUR_JWT_TOKEN")
		return
	}

	claims, err := h.jwtService.ValidateToken(token)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
		return
	}

	userID := claims.UserID

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	h.hub.Register(userID, conn)
	log.Printf("user %d connected via websocket", userID)

	defer func() {
		h.hub.Drop(userID, conn)
		log.Printf("user %d disconnected from websocket", userID)
	}()

	// all writes go through the hub, which serializes them per connection;
	// the fan-out may push concurrently with the greeting and the pings
	h.hub.SendToUser(userID, wsEvent{Type: "CONNECTED", UserID: userID})

	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	})

	go h.pingLoop(userID)

	h.readLoop(conn, userID)
}

func (h *WSHandler) pingLoop(userID int64) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		if !h.hub.Ping(userID) {
			return
		}
	}
}

// readLoop drains client frames until the connection closes. Clients don't
// send anything meaningful on this channel; reading is what surfaces the
// close event.
func (h *WSHandler) readLoop(conn *websocket.Conn, userID int64) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure) {
				log.Printf("websocket error for user %d: %v", userID, err)
			}
			return
		}
	}
}
