package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"educloud_backend/internal/config"
	"educloud_backend/internal/util"
	"educloud_backend/pkg/logger"
	"educloud_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	// SDP offers can run a few KB, so the limit is well above chat size.
	maxMessageSize = 8192
	onlineTTL      = 2 * time.Minute

	realtimeChannel = "realtime_events"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Event is the wire format in both directions.
type Event struct {
	Event string                 `json:"event"`
	Room  string                 `json:"room,omitempty"`
	Data  map[string]interface{} `json:"data,omitempty"`
}

// Session is one websocket connection for one authenticated user. A user may
// hold several sessions (tabs, devices); each tracks its own room set.
type Session struct {
	Hub     *RealtimeHub
	Conn    *websocket.Conn
	Send    chan []byte
	UserID  uint
	Name    string
	Limiter *rate.Limiter
	rooms   map[string]bool // guarded by Hub.mu
}

// wireMessage is the redis pub/sub envelope. TargetUser routes to a user's
// sessions, otherwise Room fans out to room members.
type wireMessage struct {
	Room       string          `json:"room,omitempty"`
	TargetUser uint            `json:"targetUser,omitempty"`
	Payload    json.RawMessage `json:"payload"`
}

// RealtimeHub is the room registry. It is created in app wiring and torn down
// on shutdown; nothing here is package-level state. Without redis it degrades
// to single-instance local delivery.
type RealtimeHub struct {
	mu       sync.RWMutex
	rooms    map[string]map[*Session]bool
	sessions map[uint]map[*Session]bool

	Redis *redis.Client
	cfg   config.RealtimeConfig

	ctx    context.Context
	cancel context.CancelFunc
}

func NewRealtimeHub(rdb *redis.Client, cfg config.RealtimeConfig) *RealtimeHub {
	ctx, cancel := context.WithCancel(context.Background())
	if cfg.MessagesPerSecond <= 0 {
		cfg.MessagesPerSecond = 30
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 50
	}
	return &RealtimeHub{
		rooms:    make(map[string]map[*Session]bool),
		sessions: make(map[uint]map[*Session]bool),
		Redis:    rdb,
		cfg:      cfg,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Run subscribes to the cross-instance channel and keeps presence keys fresh.
// It returns when Stop is called.
func (h *RealtimeHub) Run() {
	var pubsubCh <-chan *redis.Message
	if h.Redis != nil {
		pubsub := h.Redis.Subscribe(h.ctx, realtimeChannel)
		defer pubsub.Close()
		pubsubCh = pubsub.Channel()
	}

	heartbeat := time.NewTicker(1 * time.Minute)
	defer heartbeat.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return

		case msg, ok := <-pubsubCh:
			if !ok {
				pubsubCh = nil
				continue
			}
			var wm wireMessage
			if err := json.Unmarshal([]byte(msg.Payload), &wm); err != nil {
				logger.Log.Error("Realtime pubsub unmarshal error", zap.Error(err))
				continue
			}
			if wm.TargetUser != 0 {
				h.deliverToUser(wm.TargetUser, wm.Payload)
			} else {
				h.deliverToRoom(wm.Room, wm.Payload)
			}

		case <-heartbeat.C:
			h.refreshPresence()
		}
	}
}

// Stop closes every connection and clears this instance's presence keys.
func (h *RealtimeHub) Stop() {
	h.cancel()

	h.mu.Lock()
	var userIDs []uint
	for userID, set := range h.sessions {
		userIDs = append(userIDs, userID)
		for s := range set {
			close(s.Send)
		}
	}
	h.sessions = make(map[uint]map[*Session]bool)
	h.rooms = make(map[string]map[*Session]bool)
	h.mu.Unlock()

	if h.Redis != nil && len(userIDs) > 0 {
		pipe := h.Redis.Pipeline()
		for _, id := range userIDs {
			pipe.Del(context.Background(), presenceKey(id))
		}
		pipe.Exec(context.Background())
	}

	monitoring.RTConnectedClients.Set(0)
	logger.Log.Info("Realtime hub stopped", zap.Int("closedUsers", len(userIDs)))
}

func presenceKey(userID uint) string {
	return fmt.Sprintf("user:online:%d", userID)
}

func (h *RealtimeHub) addSession(s *Session) {
	h.mu.Lock()
	if h.sessions[s.UserID] == nil {
		h.sessions[s.UserID] = make(map[*Session]bool)
	}
	h.sessions[s.UserID][s] = true
	h.mu.Unlock()

	monitoring.RTConnectedClients.Inc()
	if h.Redis != nil {
		h.Redis.Set(h.ctx, presenceKey(s.UserID), "true", onlineTTL)
	}
}

// removeSession drops the session from every room, telling each room, then
// forgets the session entirely.
func (h *RealtimeHub) removeSession(s *Session) {
	h.mu.Lock()
	var left []string
	for room := range s.rooms {
		delete(h.rooms[room], s)
		if len(h.rooms[room]) == 0 {
			delete(h.rooms, room)
		}
		left = append(left, room)
	}
	s.rooms = make(map[string]bool)

	set := h.sessions[s.UserID]
	removed := false
	if set[s] {
		delete(set, s)
		removed = true
		close(s.Send)
	}
	lastOfUser := removed && len(set) == 0
	if lastOfUser {
		delete(h.sessions, s.UserID)
	}
	h.mu.Unlock()

	if !removed {
		return
	}

	monitoring.RTConnectedClients.Dec()
	if lastOfUser && h.Redis != nil {
		h.Redis.Del(h.ctx, presenceKey(s.UserID))
	}

	for _, room := range left {
		h.BroadcastToRoom(room, "user:disconnected", map[string]interface{}{
			"userId": s.UserID,
		})
	}
}

func (h *RealtimeHub) refreshPresence() {
	if h.Redis == nil {
		return
	}
	h.mu.RLock()
	pipe := h.Redis.Pipeline()
	count := 0
	for userID := range h.sessions {
		pipe.Expire(h.ctx, presenceKey(userID), onlineTTL)
		count++
	}
	h.mu.RUnlock()
	if count > 0 {
		pipe.Exec(h.ctx)
	}
}

// joinEventName picks the notification name by room kind, so class rooms get
// class-flavored events.
func joinEventName(room string) string {
	if strings.HasPrefix(room, "live_class:") {
		return "live_class:joined"
	}
	return "chat:user_joined"
}

func leaveEventName(room string) string {
	if strings.HasPrefix(room, "live_class:") {
		return "live_class:left"
	}
	return "chat:user_left"
}

// JoinRoom adds the session to the room and tells the room, sender included.
func (h *RealtimeHub) JoinRoom(s *Session, room string) {
	if room == "" {
		return
	}
	h.mu.Lock()
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Session]bool)
	}
	h.rooms[room][s] = true
	s.rooms[room] = true
	h.mu.Unlock()

	h.BroadcastToRoom(room, joinEventName(room), map[string]interface{}{
		"userId": s.UserID,
		"name":   s.Name,
	})
}

func (h *RealtimeHub) LeaveRoom(s *Session, room string) {
	h.mu.Lock()
	member := s.rooms[room]
	if member {
		delete(s.rooms, room)
		delete(h.rooms[room], s)
		if len(h.rooms[room]) == 0 {
			delete(h.rooms, room)
		}
	}
	h.mu.Unlock()

	if !member {
		return
	}
	h.BroadcastToRoom(room, leaveEventName(room), map[string]interface{}{
		"userId": s.UserID,
		"name":   s.Name,
	})
}

func (h *RealtimeHub) inRoom(s *Session, room string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return s.rooms[room]
}

// BroadcastToRoom fans an event out to the room's current members. Members
// only; there is no queueing or replay for absent sessions. With redis the
// event goes through pub/sub so every instance delivers to its local members.
func (h *RealtimeHub) BroadcastToRoom(room, event string, data map[string]interface{}) {
	payload, err := json.Marshal(Event{Event: event, Room: room, Data: data})
	if err != nil {
		return
	}
	monitoring.RTEventCounter.WithLabelValues(event, "out").Inc()

	if h.Redis != nil {
		wm, _ := json.Marshal(wireMessage{Room: room, Payload: payload})
		if err := h.Redis.Publish(h.ctx, realtimeChannel, wm).Err(); err == nil {
			return
		}
		// Publish failed; fall back to local delivery rather than dropping.
	}
	h.deliverToRoom(room, payload)
}

// SendToUser relays an event to the user's connected sessions. Silently
// dropped when the user has none.
func (h *RealtimeHub) SendToUser(userID uint, event string, data map[string]interface{}) {
	payload, err := json.Marshal(Event{Event: event, Data: data})
	if err != nil {
		return
	}
	monitoring.RTEventCounter.WithLabelValues(event, "out").Inc()

	if h.Redis != nil {
		wm, _ := json.Marshal(wireMessage{TargetUser: userID, Payload: payload})
		if err := h.Redis.Publish(h.ctx, realtimeChannel, wm).Err(); err == nil {
			return
		}
	}
	h.deliverToUser(userID, payload)
}

func (h *RealtimeHub) deliverToRoom(room string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.rooms[room] {
		select {
		case s.Send <- payload:
		default:
		}
	}
}

func (h *RealtimeHub) deliverToUser(userID uint, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.sessions[userID] {
		select {
		case s.Send <- payload:
		default:
		}
	}
}

func (h *RealtimeHub) IsUserOnline(userID uint) bool {
	h.mu.RLock()
	_, ok := h.sessions[userID]
	h.mu.RUnlock()
	if ok {
		return true
	}

	if h.Redis == nil {
		return false
	}
	val, err := h.Redis.Get(h.ctx, presenceKey(userID)).Result()
	return err == nil && val == "true"
}

func (s *Session) readPump() {
	defer func() {
		s.Hub.removeSession(s)
		s.Conn.Close()
	}()
	s.Conn.SetReadLimit(maxMessageSize)
	s.Conn.SetReadDeadline(time.Now().Add(pongWait))
	s.Conn.SetPongHandler(func(string) error { s.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, message, err := s.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Error("WebSocket unexpected close", zap.Error(err), zap.Uint("userId", s.UserID))
			}
			break
		}

		if !s.Limiter.Allow() {
			continue
		}

		var ev Event
		if err := json.Unmarshal(message, &ev); err != nil {
			continue
		}
		monitoring.RTEventCounter.WithLabelValues(ev.Event, "in").Inc()

		s.Hub.handleEvent(s, ev)
	}
}

// handleEvent dispatches one inbound client event. Malformed events are
// dropped without closing the connection.
func (h *RealtimeHub) handleEvent(s *Session, ev Event) {
	switch ev.Event {
	case "chat:join":
		h.JoinRoom(s, ev.Room)

	case "chat:leave":
		h.LeaveRoom(s, ev.Room)

	case "chat:message":
		if ev.Room == "" || !h.inRoom(s, ev.Room) {
			return
		}
		content, _ := ev.Data["content"].(string)
		if content == "" {
			return
		}
		h.BroadcastToRoom(ev.Room, "chat:message", map[string]interface{}{
			"userId":    s.UserID,
			"name":      s.Name,
			"content":   content,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})

	case "webrtc:offer", "webrtc:answer", "webrtc:ice_candidate":
		target, ok := ev.Data["targetUserId"].(float64)
		if !ok || uint(target) == s.UserID {
			return
		}
		data := ev.Data
		data["fromUserId"] = s.UserID
		delete(data, "targetUserId")
		h.SendToUser(uint(target), ev.Event, data)

	case "presence":
		status, _ := ev.Data["status"].(string)
		if status == "" {
			return
		}
		h.mu.RLock()
		rooms := make([]string, 0, len(s.rooms))
		for room := range s.rooms {
			rooms = append(rooms, room)
		}
		h.mu.RUnlock()
		for _, room := range rooms {
			h.BroadcastToRoom(room, "presence", map[string]interface{}{
				"userId": s.UserID,
				"status": status,
			})
		}
	}
}

func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-s.Send:
			s.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := s.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if n := len(s.Send); n > 0 {
				for i := 0; i < n; i++ {
					w.Write(<-s.Send)
				}
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			s.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWs upgrades an authenticated request and starts the pumps. The caller
// has already verified the token.
func ServeWs(hub *RealtimeHub, w http.ResponseWriter, r *http.Request, claims *util.Claims) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Error("WebSocket upgrade failed", zap.Error(err), zap.Uint("userId", claims.UserID))
		return
	}
	session := &Session{
		Hub:     hub,
		Conn:    conn,
		Send:    make(chan []byte, 256),
		UserID:  claims.UserID,
		Name:    claims.Email,
		Limiter: rate.NewLimiter(rate.Limit(hub.cfg.MessagesPerSecond), hub.cfg.Burst),
		rooms:   make(map[string]bool),
	}
	hub.addSession(session)

	go session.writePump()
	go session.readPump()
}
