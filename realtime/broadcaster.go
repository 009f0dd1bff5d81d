package realtime

import (
	"context"
	"encoding/json"
	"log"

	"github.com/JoshRaimo/Rent-a-Ride-sub000/utils/cache"
	"github.com/google/uuid"
)

// pubSubChannel is the Redis channel all instances share
const pubSubChannel = "realtime:events"

// envelope is the cross-instance frame. Origin identifies the publishing
// instance so it can skip its own messages on the way back in.
type envelope struct {
	Room   string          `json:"room"`
	Event  string          `json:"event"`
	Data   json.RawMessage `json:"data,omitempty"`
	Origin string          `json:"origin"`
}

// RedisBridge relays hub events between instances over Redis pub/sub so
// clients connected to different processes see the same stream
type RedisBridge struct {
	cache  *cache.RedisCache
	origin string
}

// NewRedisBridge creates a bridge with a unique instance identity
func NewRedisBridge(redisCache *cache.RedisCache) *RedisBridge {
	return &RedisBridge{
		cache:  redisCache,
		origin: uuid.NewString(),
	}
}

// Publish sends one event to the shared channel. Best-effort; a failed
// publish only affects remote instances, local delivery already happened.
func (b *RedisBridge) Publish(room string, event Event) {
	data, err := json.Marshal(event.Data)
	if err != nil {
		log.Printf("Failed to encode bridge payload: %v", err)
		return
	}

	env := envelope{
		Room:   room,
		Event:  event.Event,
		Data:   data,
		Origin: b.origin,
	}
	payload, err := json.Marshal(env)
	if err != nil {
		log.Printf("Failed to encode bridge envelope: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeWait)
	defer cancel()

	if err := b.cache.Publish(ctx, pubSubChannel, payload); err != nil {
		log.Printf("Failed to publish realtime event: %v", err)
	}
}

// Listen consumes the shared channel and applies remote events to the hub.
// Blocks until the context is canceled; run it in its own goroutine.
func (b *RedisBridge) Listen(ctx context.Context, hub *Hub) {
	sub := b.cache.Subscribe(ctx, pubSubChannel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}

			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				log.Printf("Discarding malformed bridge envelope: %v", err)
				continue
			}
			if env.Origin == b.origin {
				continue
			}

			var data interface{}
			if len(env.Data) > 0 {
				data = json.RawMessage(env.Data)
			}
			hub.deliverRemote(env.Room, Event{Event: env.Event, Data: data})
		}
	}
}
