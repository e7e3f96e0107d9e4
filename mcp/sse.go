package mcp

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/infinitimeless/radiofrance-podcast-explorer-mcp/service"
)

// SSEEvent represents an SSE event structure
type SSEEvent struct {
	ID        string      `json:"id"`
	Event     string      `json:"event"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// SSEClient represents a connected SSE client
type SSEClient struct {
	ID       string
	Writer   http.ResponseWriter
	Flusher  http.Flusher
	Done     chan struct{}
	LastSeen time.Time
}

// SearchSSEServer streams natural-language-search progress to SSE clients
// alongside the regular MCP endpoints.
type SearchSSEServer struct {
	logger       *zap.Logger
	mcpServer    *server.MCPServer
	service      service.Service
	clients      map[string]*SSEClient
	clientsMutex sync.RWMutex
	broadcast    chan SSEEvent
	nextClientID int
}

// SSEServerConfig holds configuration for the SSE server
type SSEServerConfig struct {
	KeepaliveInterval time.Duration
	BufferSize        int
	ClientTimeout     time.Duration
}

// DefaultSSEServerConfig returns the default configuration for SSE server
func DefaultSSEServerConfig() *SSEServerConfig {
	return &SSEServerConfig{
		KeepaliveInterval: 30 * time.Second,
		BufferSize:        100,
		ClientTimeout:     60 * time.Second,
	}
}

// NewSearchSSEServer creates a new SSE server bound to the search service.
func NewSearchSSEServer(logger *zap.Logger, mcpServer *server.MCPServer, svc service.Service, config *SSEServerConfig) *SearchSSEServer {
	if config == nil {
		config = DefaultSSEServerConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	sseServer := &SearchSSEServer{
		logger:    logger,
		mcpServer: mcpServer,
		service:   svc,
		clients:   make(map[string]*SSEClient),
		broadcast: make(chan SSEEvent, config.BufferSize),
	}

	go sseServer.broadcastLoop()

	return sseServer
}

// broadcastLoop handles broadcasting events to all connected clients
func (s *SearchSSEServer) broadcastLoop() {
	for event := range s.broadcast {
		s.clientsMutex.RLock()
		for clientID, client := range s.clients {
			select {
			case <-client.Done:
				s.clientsMutex.RUnlock()
				s.removeClient(clientID)
				s.clientsMutex.RLock()
				continue
			default:
				if err := s.sendEventToClient(client, event); err != nil {
					s.logger.Error("failed to send event to client", zap.String("clientID", clientID), zap.Error(err))
					s.clientsMutex.RUnlock()
					s.removeClient(clientID)
					s.clientsMutex.RLock()
				}
			}
		}
		s.clientsMutex.RUnlock()
	}
}

// sendEventToClient sends an SSE event to a specific client
func (s *SearchSSEServer) sendEventToClient(client *SSEClient, event SSEEvent) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	fmt.Fprintf(client.Writer, "id: %s\n", event.ID)
	fmt.Fprintf(client.Writer, "event: %s\n", event.Event)
	fmt.Fprintf(client.Writer, "data: %s\n\n", string(eventJSON))

	client.Flusher.Flush()
	client.LastSeen = time.Now()

	return nil
}

// addClient adds a new SSE client
func (s *SearchSSEServer) addClient(w http.ResponseWriter, r *http.Request) *SSEClient {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return nil
	}

	s.clientsMutex.Lock()
	defer s.clientsMutex.Unlock()

	s.nextClientID++
	clientID := fmt.Sprintf("client_%d_%d", time.Now().Unix(), s.nextClientID)

	client := &SSEClient{
		ID:       clientID,
		Writer:   w,
		Flusher:  flusher,
		Done:     make(chan struct{}),
		LastSeen: time.Now(),
	}

	s.clients[clientID] = client

	connectEvent := SSEEvent{
		ID:        fmt.Sprintf("connect_%d", time.Now().UnixNano()),
		Event:     "connected",
		Data:      map[string]string{"clientID": clientID, "message": "Connected to podcast explorer SSE server"},
		Timestamp: time.Now(),
	}

	if err := s.sendEventToClient(client, connectEvent); err != nil {
		s.logger.Error("failed to send connection event", zap.String("clientID", clientID), zap.Error(err))
		delete(s.clients, clientID)
		return nil
	}

	s.logger.Info("SSE client connected", zap.String("clientID", clientID))
	return client
}

// removeClient removes a client from the server
func (s *SearchSSEServer) removeClient(clientID string) {
	s.clientsMutex.Lock()
	defer s.clientsMutex.Unlock()

	if client, exists := s.clients[clientID]; exists {
		close(client.Done)
		delete(s.clients, clientID)
		s.logger.Info("SSE client disconnected", zap.String("clientID", clientID))
	}
}

// broadcastEvent sends an event to all connected clients
func (s *SearchSSEServer) broadcastEvent(event SSEEvent) {
	select {
	case s.broadcast <- event:
	default:
		s.logger.Warn("broadcast channel full, dropping event", zap.String("eventID", event.ID))
	}
}

// HandleSSE handles SSE client connections
func (s *SearchSSEServer) HandleSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Cache-Control")

	client := s.addClient(w, r)
	if client == nil {
		return
	}

	ctx := r.Context()
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.removeClient(client.ID)
				return
			case <-client.Done:
				return
			case <-ticker.C:
				keepaliveEvent := SSEEvent{
					ID:        fmt.Sprintf("keepalive_%d", time.Now().UnixNano()),
					Event:     "keepalive",
					Data:      map[string]interface{}{"timestamp": time.Now()},
					Timestamp: time.Now(),
				}
				if err := s.sendEventToClient(client, keepaliveEvent); err != nil {
					s.removeClient(client.ID)
					return
				}
			}
		}
	}()

	<-client.Done
}

// HandleSearchSSE runs a natural-language search and streams start, result
// and completion events for it.
func (s *SearchSSEServer) HandleSearchSSE(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Query      string `json:"query"`
		MaxResults int    `json:"maxResults"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if request.Query == "" {
		http.Error(w, "query is required", http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	// The requesting client gets the stream directly; clients connected
	// via /sse observe the same stage events through the broadcast loop.
	writeEvent := func(event SSEEvent) {
		eventJSON, _ := json.Marshal(event)
		fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", event.ID, event.Event, string(eventJSON))
		flusher.Flush()
		s.broadcastEvent(event)
	}

	writeEvent(SSEEvent{
		ID:        fmt.Sprintf("search_start_%d", time.Now().UnixNano()),
		Event:     "search_start",
		Data:      map[string]interface{}{"query": request.Query, "maxResults": request.MaxResults},
		Timestamp: time.Now(),
	})

	// A disconnected client cancels the in-flight gateway calls.
	result, err := s.service.NaturalLanguageSearch(r.Context(), request.Query, request.MaxResults)
	if err != nil {
		writeEvent(SSEEvent{
			ID:        fmt.Sprintf("search_error_%d", time.Now().UnixNano()),
			Event:     "search_error",
			Data:      map[string]string{"error": err.Error()},
			Timestamp: time.Now(),
		})
		return
	}

	writeEvent(SSEEvent{
		ID:        fmt.Sprintf("search_result_%d", time.Now().UnixNano()),
		Event:     "search_result",
		Data:      result,
		Timestamp: time.Now(),
	})

	writeEvent(SSEEvent{
		ID:        fmt.Sprintf("search_complete_%d", time.Now().UnixNano()),
		Event:     "search_complete",
		Data:      map[string]string{"status": "completed", "queryType": result.QueryType},
		Timestamp: time.Now(),
	})
}

// GetConnectedClients returns information about connected clients
func (s *SearchSSEServer) GetConnectedClients() []map[string]interface{} {
	s.clientsMutex.RLock()
	defer s.clientsMutex.RUnlock()

	clients := make([]map[string]interface{}, 0, len(s.clients))
	for _, client := range s.clients {
		clients = append(clients, map[string]interface{}{
			"id":        client.ID,
			"lastSeen":  client.LastSeen,
			"connected": time.Since(client.LastSeen) < 60*time.Second,
		})
	}
	return clients
}

// GetStats returns server statistics
func (s *SearchSSEServer) GetStats() map[string]interface{} {
	s.clientsMutex.RLock()
	defer s.clientsMutex.RUnlock()

	return map[string]interface{}{
		"connectedClients": len(s.clients),
		"bufferSize":       len(s.broadcast),
		"serverVersion":    Version,
	}
}
