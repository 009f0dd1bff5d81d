package realtime

import (
	"github.com/JoshRaimo/Rent-a-Ride-sub000/utils/auth"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// UpgradeGate rejects plain HTTP requests on the WebSocket route and
// validates the token before the protocol upgrade, so bad credentials never
// cost a connection. The token rides in the query string because browser
// WebSocket clients cannot set headers.
func UpgradeGate(jwtManager *auth.JWTManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		token := c.Query("token")
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Missing token")
		}

		claims, err := jwtManager.ValidateToken(token)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
		}

		c.Locals("userID", claims.UserID)
		c.Locals("username", claims.Username)
		c.Locals("role", claims.Role)
		return c.Next()
	}
}

// Handler returns the WebSocket connection handler. It registers the
// connection with the hub and runs the pumps until the peer goes away.
func Handler(hub *Hub) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		client := &Client{
			hub:      hub,
			conn:     conn,
			send:     make(chan []byte, sendBufferSize),
			userID:   conn.Locals("userID").(uint),
			username: conn.Locals("username").(string),
			role:     conn.Locals("role").(string),
		}

		hub.Register(client)

		go client.writePump()
		client.readPump()
	})
}
