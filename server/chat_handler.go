package server

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	errs "github.com/techagentng/roadguard/errors"
	"github.com/techagentng/roadguard/server/response"
)

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

// handleChat answers a single road-maintenance question via the chatbot
// backend. Returns 503 while the model backend is down or unconfigured.
func (s *Server) handleChat() gin.HandlerFunc {
	return func(c *gin.Context) {
		var request chatRequest
		if err := decode(c, &request); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New("message is required", http.StatusBadRequest))
			return
		}

		if !s.Chatbot.Configured() {
			response.JSON(c, "", http.StatusServiceUnavailable, nil, errs.New("chatbot model is not loaded", http.StatusServiceUnavailable))
			return
		}

		answer, err := s.Chatbot.Chat(c.Request.Context(), request.Message)
		if err != nil {
			log.Printf("chatbot error: %v", err)
			response.JSON(c, "", http.StatusServiceUnavailable, nil, errs.New("chatbot model is not loaded", http.StatusServiceUnavailable))
			return
		}
		response.JSON(c, "", http.StatusOK, gin.H{"answer": answer}, nil)
	}
}

var chatUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// handleChatWebsocket relays a chat session over a websocket: each text
// frame is one question, each reply frame one answer.
func (s *Server) handleChatWebsocket() gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := chatUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("websocket upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		for {
			msgType, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if msgType != websocket.TextMessage {
				continue
			}

			if !s.Chatbot.Configured() {
				if err := conn.WriteMessage(websocket.TextMessage, []byte("chatbot model is not loaded")); err != nil {
					return
				}
				continue
			}

			answer, err := s.Chatbot.Chat(c.Request.Context(), string(msg))
			if err != nil {
				log.Printf("chatbot error: %v", err)
				answer = "chatbot model is not loaded"
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(answer)); err != nil {
				return
			}
		}
	}
}
