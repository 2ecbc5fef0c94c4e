package session

import (
	"context"
	"testing"
	"time"

	cverrors "github.com/matzehuels/cubicleview/pkg/errors"
)

func TestManager(t *testing.T) {
	m := NewManager(0)
	defer m.Close()

	s := New(newRunner(), Config{})
	m.Add(s)
	if m.Len() != 1 {
		t.Fatalf("Len() = %d", m.Len())
	}
	got, err := m.Get(s.ID())
	if err != nil || got != s {
		t.Fatalf("Get() = %v, %v", got, err)
	}
	if _, err := got.Snapshot(context.Background()); err != nil {
		t.Errorf("added session not running: %v", err)
	}

	m.Delete(s.ID())
	if _, err := m.Get(s.ID()); !cverrors.Is(err, cverrors.ErrCodeSessionNotFound) {
		t.Errorf("Get(deleted) = %v", err)
	}
	m.Delete("unknown")
}

func TestManagerExpiry(t *testing.T) {
	m := NewManager(time.Millisecond)
	defer m.Close()

	a, b := New(newRunner(), Config{}), New(newRunner(), Config{})
	m.Add(a)
	m.Add(b)
	time.Sleep(5 * time.Millisecond)

	if _, err := m.Get(a.ID()); !cverrors.Is(err, cverrors.ErrCodeSessionNotFound) {
		t.Errorf("Get(expired) = %v", err)
	}
	if n := m.Cleanup(); n != 1 {
		t.Errorf("Cleanup() = %d, want 1", n)
	}
	if m.Len() != 0 {
		t.Errorf("Len() = %d after cleanup", m.Len())
	}
}
