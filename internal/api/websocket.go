// internal/api/websocket.go
package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/shannenjosh/verifyeye/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		// CORS is wildcard on the REST surface; the socket matches it.
		return true
	},
}

// wsEvent is one streamed generation event.
type wsEvent struct {
	Type   string                   `json:"type"` // "stage", "result" or "error"
	Stage  string                   `json:"stage,omitempty"`
	Result *models.GenerationResult `json:"result,omitempty"`
	Error  string                   `json:"error,omitempty"`
}

// GenerateTextWS handles GET /ws/generate: the client sends one
// generation request and receives stage events followed by the final
// result. Generation itself is a single sampling decode; the stream
// reports pipeline progress, not partial tokens.
func (h *Handler) GenerateTextWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket: upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(30 * time.Second))

	var req models.GenerationRequest
	if err := conn.ReadJSON(&req); err != nil {
		conn.WriteJSON(wsEvent{Type: "error", Error: "malformed generation request"})
		return
	}

	result, err := h.generationService.GenerateStream(c.Request.Context(), req, func(stage string) {
		if writeErr := conn.WriteJSON(wsEvent{Type: "stage", Stage: stage}); writeErr != nil {
			log.Printf("websocket: stage write failed: %v", writeErr)
		}
	})
	if err != nil {
		conn.WriteJSON(wsEvent{Type: "error", Error: err.Error()})
		return
	}

	h.resultsService.Record(models.AnalysisGeneration, req.Prompt, result)

	if err := conn.WriteJSON(wsEvent{Type: "result", Result: &result}); err != nil {
		log.Printf("websocket: result write failed: %v", err)
	}
}
