package ws

import (
	"testing"
	"time"

	"github.com/playsnooker/backend/internal/config"
	"github.com/playsnooker/backend/internal/game"
)

type noopPhysics struct{}

func (noopPhysics) AddBall(game.BallID, game.Vec2)              {}
func (noopPhysics) RemoveBall(game.BallID)                      {}
func (noopPhysics) SetPosition(game.BallID, game.Vec2)          {}
func (noopPhysics) SetVelocity(game.BallID, game.Vec2)          {}
func (noopPhysics) ApplyImpulse(game.BallID, game.Vec2)         {}
func (noopPhysics) SetAngularVelocity(game.BallID, float64)     {}
func (noopPhysics) SetFrictionCoefficient(game.BallID, float64) {}
func (noopPhysics) Step()                                       {}
func (noopPhysics) Position(game.BallID) game.Vec2              { return game.Vec2{} }
func (noopPhysics) Velocity(game.BallID) game.Vec2              { return game.Vec2{} }

func TestUnregisterClosesSendChannel(t *testing.T) {
	game.InitializeManager(&config.Config{MaxSessions: 4, TickHz: 60},
		func(*game.Geometry) game.Physics { return noopPhysics{} })
	s, err := game.Manager.CreateSession()
	if err != nil {
		t.Fatal(err)
	}

	h := NewHub()
	go runSessionHub(h)

	client := &Client{
		clientID:     "c1",
		sessionID:    s.ID,
		sessionToken: s.Token,
		send:         make(chan []byte, 256),
	}
	h.register <- client

	// A queued message must not keep the channel open after detach: the
	// write pump relies on the closed-channel signal to exit promptly.
	client.send <- []byte(`{"type":"session_state"}`)
	h.unregister <- client

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-client.send:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("send channel never closed after unregister")
		}
	}
}
