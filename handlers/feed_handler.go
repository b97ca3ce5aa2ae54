package handlers

import (
	"errors"
	"fmt"
	"log"

	config "github.com/bibekrb/exam_custody_tracker/configs"
	"github.com/bibekrb/exam_custody_tracker/models"
	wshub "github.com/bibekrb/exam_custody_tracker/websocket"
	websocketcontrib "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// ServeEventFeed upgrades an admin dashboard connection onto the live
// tracker-event feed. The first frame must be an auth message carrying a
// valid admin JWT.
func ServeEventFeed(c *websocketcontrib.Conn) {
	type AuthMessage struct {
		Type  string `json:"type"`
		Token string `json:"token"`
	}
	var authMsg AuthMessage
	if err := c.ReadJSON(&authMsg); err != nil || authMsg.Type != "auth" {
		_ = c.WriteJSON(fiber.Map{"error": "Invalid or missing auth message"})
		c.Close()
		return
	}

	claims, err := parseToken(authMsg.Token)
	if err != nil {
		_ = c.WriteJSON(fiber.Map{"error": "Invalid token"})
		c.Close()
		return
	}

	if role, _ := claims["role"].(string); role != models.RoleAdmin {
		_ = c.WriteJSON(fiber.Map{"error": "Admin access required"})
		c.Close()
		return
	}

	userID, err := uuid.Parse(claims["user_id"].(string))
	if err != nil {
		_ = c.WriteJSON(fiber.Map{"error": "Invalid user ID"})
		c.Close()
		return
	}

	client := &wshub.Client{UserID: userID, Conn: c}
	wshub.Register <- client
	defer func() {
		wshub.Unregister <- client
		c.Close()
	}()

	// Hold the connection open; the hub owns all writes. Read until the
	// client goes away.
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			log.Printf("Event feed client %s disconnected: %v", userID, err)
			return
		}
	}
}

func parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.Config("JWT_SECRET")), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}
