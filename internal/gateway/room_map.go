package gateway

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mluqi/km-support/pkg/constant"
	"github.com/redis/go-redis/v9"
)

// RoomMap manages conversation rooms. A room is keyed by the customer's user
// id; its members are the customer's own connections plus any admin
// connections currently watching the thread.
type RoomMap struct {
	mu    sync.RWMutex
	rooms map[string]*Room // roomId -> Room
	rdb   *redis.Client
}

// Room holds the live connections of one conversation room
type Room struct {
	Clients []*Client
	Time    time.Time
}

// NewRoomMap creates a new RoomMap
func NewRoomMap(rdb *redis.Client) *RoomMap {
	return &RoomMap{
		rooms: make(map[string]*Room),
		rdb:   rdb,
	}
}

// Join adds a client to a room
func (m *RoomMap) Join(ctx context.Context, roomId string, client *Client) {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, exists := m.rooms[roomId]
	if !exists {
		room = &Room{
			Clients: make([]*Client, 0, 4),
		}
		m.rooms[roomId] = room
	}

	room.Clients = append(room.Clients, client)
	room.Time = time.Now()

	m.setOnline(ctx, roomId)
}

// Leave removes a client from a room. Returns true when the room is empty
// afterwards.
func (m *RoomMap) Leave(ctx context.Context, roomId string, client *Client) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, exists := m.rooms[roomId]
	if !exists {
		return false
	}

	newClients := make([]*Client, 0, len(room.Clients))
	for _, c := range room.Clients {
		if c.ConnId != client.ConnId {
			newClients = append(newClients, c)
		}
	}
	room.Clients = newClients

	if len(room.Clients) == 0 {
		delete(m.rooms, roomId)
		m.setOffline(ctx, roomId)
		return true
	}

	return false
}

// GetAll gets all clients in a room
func (m *RoomMap) GetAll(roomId string) ([]*Client, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	room, exists := m.rooms[roomId]
	if !exists {
		return nil, false
	}

	// Return a copy to avoid race conditions
	clients := make([]*Client, len(room.Clients))
	copy(clients, room.Clients)
	return clients, true
}

// HasMembers checks if a room has any connection
func (m *RoomMap) HasMembers(roomId string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	room, exists := m.rooms[roomId]
	return exists && len(room.Clients) > 0
}

// GetRoomCount returns the number of active rooms
func (m *RoomMap) GetRoomCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

// GetConnCount returns the total number of connections across rooms
func (m *RoomMap) GetConnCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, room := range m.rooms {
		count += len(room.Clients)
	}
	return count
}

// IsActive checks if a room is live (checks Redis for distributed support)
func (m *RoomMap) IsActive(ctx context.Context, roomId string) bool {
	if m.HasMembers(roomId) {
		return true
	}

	if m.rdb != nil {
		key := fmt.Sprintf(constant.RedisKeyOnline(), roomId)
		exists, _ := m.rdb.Exists(ctx, key).Result()
		return exists > 0
	}

	return false
}

// setOnline marks a room as live in Redis
func (m *RoomMap) setOnline(ctx context.Context, roomId string) {
	if m.rdb == nil {
		return
	}

	key := fmt.Sprintf(constant.RedisKeyOnline(), roomId)
	m.rdb.Set(ctx, key, "1", 60*time.Second)
}

// setOffline removes the room's live marker
func (m *RoomMap) setOffline(ctx context.Context, roomId string) {
	if m.rdb == nil {
		return
	}

	key := fmt.Sprintf(constant.RedisKeyOnline(), roomId)
	m.rdb.Del(ctx, key)
}

// RefreshOnlineStatus refreshes the live marker TTL
func (m *RoomMap) RefreshOnlineStatus(ctx context.Context, roomId string) {
	if m.rdb == nil {
		return
	}

	if m.HasMembers(roomId) {
		key := fmt.Sprintf(constant.RedisKeyOnline(), roomId)
		m.rdb.Expire(ctx, key, 60*time.Second)
	}
}
