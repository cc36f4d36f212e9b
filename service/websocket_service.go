package service

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sinantan/document-chat-assistant/types"
)

// WebSocketService pushes document processing status to subscribed clients,
// polling the document record until it reaches a terminal state.
type WebSocketService struct {
	documentService *DocumentService
	upgrader        websocket.Upgrader
	pollInterval    time.Duration
}

func NewWebSocketService(documentService *DocumentService) *WebSocketService {
	return &WebSocketService{
		documentService: documentService,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins (adjust for production)
			},
		},
		pollInterval: time.Second,
	}
}

// WatchDocument upgrades the connection and streams status frames for the
// given document until processing settles or the client goes away.
func (s *WebSocketService) WatchDocument(w http.ResponseWriter, r *http.Request, documentID, userID string) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("Upgrade error:", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(4 * 1024)
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Drain reads so close frames and pongs are processed.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	var lastStatus types.DocumentStatus
	for {
		doc, err := s.documentService.GetDocument(ctx, documentID, userID)
		if err != nil {
			conn.WriteJSON(types.ErrorResponse{Error: types.ErrCodeNotFound, Message: "Document not found"})
			return
		}

		if doc.Status != lastStatus {
			lastStatus = doc.Status
			status := types.ProcessingDocumentStatus{
				DocumentID:   doc.ID,
				Status:       doc.Status,
				PageCount:    doc.PageCount,
				ChunkCount:   doc.ChunkCount,
				ErrorMessage: doc.ErrorMessage,
			}
			if err := conn.WriteJSON(status); err != nil {
				log.Println("Write error:", err)
				return
			}
		}

		if doc.Status.Terminal() {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
