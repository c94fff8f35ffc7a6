package ui

import (
	"container/list"
	"encoding/json"
	"html/template"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
)

// assistantReply is returned for every chat message until a real agent
// endpoint exists.
const assistantReply = "Agent response - This will be powered by Azure AI Foundry agents."

const (
	// maxTranscript bounds the messages kept per client.
	maxTranscript = 100
	// maxChatClients bounds the transcripts kept. The least recently used
	// one goes first.
	maxChatClients = 1000
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type chatMessage struct {
	Role    string
	Content string
}

// chatLog keeps each client's transcript in memory.
type chatLog struct {
	mu    sync.Mutex
	max   int
	order *list.List // of clientIDs, most recently used first
	logs  map[string]*chatTranscript
}

type chatTranscript struct {
	msgs []chatMessage
	elem *list.Element
}

func newChatLog(maxClients int) *chatLog {
	return &chatLog{max: maxClients, order: list.New(), logs: map[string]*chatTranscript{}}
}

func (c *chatLog) append(clientID string, msgs ...chatMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.logs[clientID]
	if !ok {
		for c.max > 0 && len(c.logs) >= c.max {
			oldest := c.order.Back()
			delete(c.logs, oldest.Value.(string))
			c.order.Remove(oldest)
		}
		t = &chatTranscript{elem: c.order.PushFront(clientID)}
		c.logs[clientID] = t
	}
	c.order.MoveToFront(t.elem)
	l := append(t.msgs, msgs...)
	if len(l) > maxTranscript {
		l = l[len(l)-maxTranscript:]
	}
	t.msgs = l
}

func (c *chatLog) transcript(clientID string) []chatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.logs[clientID]
	if !ok {
		return nil
	}
	c.order.MoveToFront(t.elem)
	return append([]chatMessage(nil), t.msgs...)
}

func (c *chatLog) clients() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.logs)
}

// exchange records a user message and the assistant's reply.
func (u *UI) exchange(clientID, content string) []chatMessage {
	msgs := []chatMessage{
		{Role: "user", Content: content},
		{Role: "assistant", Content: assistantReply},
	}
	u.chats.append(clientID, msgs...)
	return msgs
}

func (u *UI) renderTranscript(clientID string) []template.HTML {
	var out []template.HTML
	for _, m := range u.chats.transcript(clientID) {
		bubble, err := u.renderer.ChatMessage(m.Role, m.Content)
		if err != nil {
			log.Printf("ui: rendering chat message: %v", err)
			continue
		}
		out = append(out, bubble)
	}
	return out
}

func (u *UI) handleChat(w http.ResponseWriter, r *http.Request) {
	env := u.newEnv(w, r)
	if content := strings.TrimSpace(r.FormValue("chatInput")); content != "" {
		u.exchange(env.clientID, content)
	}
	u.renderPage(w, u.newPage(env, "chat"))
}

// chatRequest is the incoming WebSocket message format.
type chatRequest struct {
	Type    string `json:"type"` // "message"
	Content string `json:"content"`
}

// chatResponse is the outgoing WebSocket message format.
type chatResponse struct {
	Type    string `json:"type"` // "message" or "error"
	Role    string `json:"role,omitempty"`
	Content string `json:"content"`
	HTML    string `json:"html,omitempty"`
}

func (u *UI) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	// Upgrade writes only the headers it is given.
	id, cookie := clientIdentity(r)
	var header http.Header
	if cookie != nil {
		header = http.Header{"Set-Cookie": {cookie.String()}}
	}
	conn, err := upgrader.Upgrade(w, r, header)
	if err != nil {
		log.Printf("ui: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ui: websocket read: %v", err)
			}
			return
		}

		var req chatRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			u.sendError(conn, "invalid message format")
			continue
		}
		if req.Type != "message" {
			u.sendError(conn, "unknown message type: "+req.Type)
			continue
		}
		content := strings.TrimSpace(req.Content)
		if content == "" {
			u.sendError(conn, "content is required")
			continue
		}

		for _, m := range u.exchange(id, content) {
			bubble, err := u.renderer.ChatMessage(m.Role, m.Content)
			if err != nil {
				u.sendError(conn, err.Error())
				break
			}
			u.sendResponse(conn, chatResponse{
				Type:    "message",
				Role:    m.Role,
				Content: m.Content,
				HTML:    string(bubble),
			})
		}
	}
}

func (u *UI) sendResponse(conn *websocket.Conn, resp chatResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("ui: websocket write: %v", err)
	}
}

func (u *UI) sendError(conn *websocket.Conn, message string) {
	resp := chatResponse{Type: "error", Content: message}
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("ui: websocket write error: %v", err)
	}
}
