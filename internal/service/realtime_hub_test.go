package service

import (
	"encoding/json"
	"testing"

	"educloud_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub() *RealtimeHub {
	// No redis: the hub delivers locally, which is exactly what these tests
	// need to observe.
	return NewRealtimeHub(nil, config.RealtimeConfig{})
}

func newTestSession(hub *RealtimeHub, userID uint, name string) *Session {
	s := &Session{
		Hub:    hub,
		Send:   make(chan []byte, 16),
		UserID: userID,
		Name:   name,
		rooms:  make(map[string]bool),
	}
	hub.addSession(s)
	return s
}

// drain decodes everything currently buffered on the session's send channel.
func drain(t *testing.T, s *Session) []Event {
	t.Helper()
	var out []Event
	for {
		select {
		case msg, ok := <-s.Send:
			if !ok {
				return out
			}
			var ev Event
			require.NoError(t, json.Unmarshal(msg, &ev))
			out = append(out, ev)
		default:
			return out
		}
	}
}

func eventNames(events []Event) []string {
	names := make([]string, 0, len(events))
	for _, ev := range events {
		names = append(names, ev.Event)
	}
	return names
}

func TestBroadcastReachesRoomMembersOnly(t *testing.T) {
	hub := newTestHub()
	alice := newTestSession(hub, 1, "alice")
	bob := newTestSession(hub, 2, "bob")
	carol := newTestSession(hub, 3, "carol")

	hub.JoinRoom(alice, "course:1")
	hub.JoinRoom(bob, "course:1")
	hub.JoinRoom(carol, "course:2")

	// Clear the join notifications.
	drain(t, alice)
	drain(t, bob)
	drain(t, carol)

	hub.BroadcastToRoom("course:1", "chat:message", map[string]interface{}{
		"content": "hello",
	})

	for _, s := range []*Session{alice, bob} {
		events := drain(t, s)
		require.Len(t, events, 1)
		assert.Equal(t, "chat:message", events[0].Event)
		assert.Equal(t, "course:1", events[0].Room)
		assert.Equal(t, "hello", events[0].Data["content"])
	}

	// Membership is the only delivery criterion.
	assert.Empty(t, drain(t, carol))
}

func TestJoinRoomNotifiesRoom(t *testing.T) {
	hub := newTestHub()
	alice := newTestSession(hub, 1, "alice")
	bob := newTestSession(hub, 2, "bob")

	hub.JoinRoom(alice, "course:1")
	events := drain(t, alice)
	require.Len(t, events, 1)
	assert.Equal(t, "chat:user_joined", events[0].Event)
	assert.Equal(t, float64(1), events[0].Data["userId"])

	hub.JoinRoom(bob, "course:1")
	events = drain(t, alice)
	require.Len(t, events, 1)
	assert.Equal(t, "chat:user_joined", events[0].Event)
	assert.Equal(t, float64(2), events[0].Data["userId"])
	assert.Equal(t, "bob", events[0].Data["name"])
}

func TestLiveClassRoomsUseClassEventNames(t *testing.T) {
	hub := newTestHub()
	alice := newTestSession(hub, 1, "alice")
	bob := newTestSession(hub, 2, "bob")

	hub.JoinRoom(alice, "live_class:5")
	hub.JoinRoom(bob, "live_class:5")
	hub.LeaveRoom(bob, "live_class:5")

	// Alice stays and sees both joins and bob's departure.
	assert.Equal(t, []string{"live_class:joined", "live_class:joined", "live_class:left"},
		eventNames(drain(t, alice)))

	// Bob is out of the room before the leave broadcast, so he only ever saw
	// his own join.
	assert.Equal(t, []string{"live_class:joined"}, eventNames(drain(t, bob)))
}

func TestLeaveRoomStopsDelivery(t *testing.T) {
	hub := newTestHub()
	alice := newTestSession(hub, 1, "alice")
	bob := newTestSession(hub, 2, "bob")

	hub.JoinRoom(alice, "course:1")
	hub.JoinRoom(bob, "course:1")
	hub.LeaveRoom(bob, "course:1")
	drain(t, alice)
	drain(t, bob)

	hub.BroadcastToRoom("course:1", "chat:message", map[string]interface{}{"content": "late"})
	assert.Len(t, drain(t, alice), 1)
	assert.Empty(t, drain(t, bob))

	// Leaving a room you never joined announces nothing.
	hub.LeaveRoom(bob, "course:9")
	assert.Empty(t, drain(t, alice))
}

func TestRemoveSessionAnnouncesDisconnect(t *testing.T) {
	hub := newTestHub()
	alice := newTestSession(hub, 1, "alice")
	bob := newTestSession(hub, 2, "bob")

	hub.JoinRoom(alice, "course:1")
	hub.JoinRoom(bob, "course:1")
	drain(t, alice)
	drain(t, bob)

	hub.removeSession(bob)

	events := drain(t, alice)
	require.Len(t, events, 1)
	assert.Equal(t, "user:disconnected", events[0].Event)
	assert.Equal(t, float64(2), events[0].Data["userId"])

	assert.False(t, hub.IsUserOnline(2))
	assert.True(t, hub.IsUserOnline(1))

	// Removing twice must not panic or re-announce.
	hub.removeSession(bob)
	assert.Empty(t, drain(t, alice))
}

func TestSendToUserHitsEverySession(t *testing.T) {
	hub := newTestHub()
	laptop := newTestSession(hub, 1, "alice")
	phone := newTestSession(hub, 1, "alice")
	other := newTestSession(hub, 2, "bob")

	hub.SendToUser(1, "webrtc:offer", map[string]interface{}{"sdp": "v=0"})

	for _, s := range []*Session{laptop, phone} {
		events := drain(t, s)
		require.Len(t, events, 1)
		assert.Equal(t, "webrtc:offer", events[0].Event)
	}
	assert.Empty(t, drain(t, other))

	// No sessions, no delivery, no error.
	hub.SendToUser(42, "webrtc:offer", nil)
}

func TestChatMessageRequiresMembershipAndContent(t *testing.T) {
	hub := newTestHub()
	alice := newTestSession(hub, 1, "alice")
	bob := newTestSession(hub, 2, "bob")
	hub.JoinRoom(alice, "course:1")
	drain(t, alice)

	// Bob is not in the room; his message goes nowhere.
	hub.handleEvent(bob, Event{Event: "chat:message", Room: "course:1",
		Data: map[string]interface{}{"content": "sneaky"}})
	assert.Empty(t, drain(t, alice))

	hub.JoinRoom(bob, "course:1")
	drain(t, alice)
	drain(t, bob)

	// Empty content is dropped.
	hub.handleEvent(bob, Event{Event: "chat:message", Room: "course:1",
		Data: map[string]interface{}{"content": ""}})
	assert.Empty(t, drain(t, alice))

	hub.handleEvent(bob, Event{Event: "chat:message", Room: "course:1",
		Data: map[string]interface{}{"content": "hi all"}})

	events := drain(t, alice)
	require.Len(t, events, 1)
	assert.Equal(t, "chat:message", events[0].Event)
	assert.Equal(t, "hi all", events[0].Data["content"])
	assert.Equal(t, float64(2), events[0].Data["userId"])
	assert.Equal(t, "bob", events[0].Data["name"])
	assert.NotEmpty(t, events[0].Data["timestamp"])
}

func TestWebRTCSignalRelay(t *testing.T) {
	hub := newTestHub()
	caller := newTestSession(hub, 1, "alice")
	callee := newTestSession(hub, 2, "bob")

	hub.handleEvent(caller, Event{Event: "webrtc:offer", Data: map[string]interface{}{
		"targetUserId": float64(2),
		"sdp":          "v=0",
	}})

	events := drain(t, callee)
	require.Len(t, events, 1)
	assert.Equal(t, "webrtc:offer", events[0].Event)
	assert.Equal(t, float64(1), events[0].Data["fromUserId"])
	assert.Equal(t, "v=0", events[0].Data["sdp"])
	assert.NotContains(t, events[0].Data, "targetUserId")

	// Self-signalling is dropped.
	hub.handleEvent(caller, Event{Event: "webrtc:answer", Data: map[string]interface{}{
		"targetUserId": float64(1),
	}})
	assert.Empty(t, drain(t, caller))
}

func TestPresenceFansOutToJoinedRooms(t *testing.T) {
	hub := newTestHub()
	alice := newTestSession(hub, 1, "alice")
	bob := newTestSession(hub, 2, "bob")
	carol := newTestSession(hub, 3, "carol")

	hub.JoinRoom(alice, "course:1")
	hub.JoinRoom(bob, "course:1")
	hub.JoinRoom(carol, "course:2")
	drain(t, alice)
	drain(t, bob)
	drain(t, carol)

	hub.handleEvent(alice, Event{Event: "presence", Data: map[string]interface{}{"status": "away"}})

	events := drain(t, bob)
	require.Len(t, events, 1)
	assert.Equal(t, "presence", events[0].Event)
	assert.Equal(t, "away", events[0].Data["status"])

	assert.Empty(t, drain(t, carol))

	// Missing status is dropped.
	hub.handleEvent(alice, Event{Event: "presence", Data: map[string]interface{}{}})
	assert.Empty(t, drain(t, bob))
}

func TestStopClosesSessions(t *testing.T) {
	hub := newTestHub()
	alice := newTestSession(hub, 1, "alice")
	hub.JoinRoom(alice, "course:1")
	drain(t, alice)

	hub.Stop()

	_, ok := <-alice.Send
	assert.False(t, ok)
	assert.False(t, hub.IsUserOnline(1))
}
