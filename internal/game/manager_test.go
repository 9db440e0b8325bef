package game

import (
	"testing"

	"github.com/playsnooker/backend/internal/config"
)

func newTestManager(maxSessions int, factory PhysicsFactory) *SessionManager {
	return &SessionManager{
		cfg:        &config.Config{MaxSessions: maxSessions},
		newPhysics: factory,
		sessions:   make(map[string]*Session),
	}
}

func TestCreateSessionSharesGeometryWithPhysics(t *testing.T) {
	var seen *Geometry
	m := newTestManager(4, func(geom *Geometry) Physics {
		seen = geom
		return newStubPhysics(geom)
	})

	s, err := m.CreateSession()
	if err != nil {
		t.Fatal(err)
	}
	if seen == nil {
		t.Fatal("physics factory never received a geometry")
	}
	if s.geom != seen {
		t.Error("session and physics engine must share one derived geometry")
	}
}

func TestCreateSessionHonoursLimit(t *testing.T) {
	m := newTestManager(1, func(geom *Geometry) Physics {
		return newStubPhysics(geom)
	})

	if _, err := m.CreateSession(); err != nil {
		t.Fatal(err)
	}
	if _, err := m.CreateSession(); err == nil {
		t.Error("second session should be refused at the limit")
	}
}

func TestSessionLookupAndClose(t *testing.T) {
	m := newTestManager(4, func(geom *Geometry) Physics {
		return newStubPhysics(geom)
	})

	s, err := m.CreateSession()
	if err != nil {
		t.Fatal(err)
	}

	got, err := m.GetByToken(s.Token)
	if err != nil || got != s {
		t.Fatal("token lookup did not return the created session")
	}

	m.Close(s.Token)
	if _, err := m.GetByToken(s.Token); err == nil {
		t.Error("closed session still resolvable")
	}
	if m.Count() != 0 {
		t.Errorf("count %d after close, want 0", m.Count())
	}
}
