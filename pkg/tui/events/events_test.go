package events

import "testing"

func TestRedrawsCoalesce(t *testing.T) {
	b := NewBridge()
	b.Redraw()
	b.Redraw()
	b.Redraw()
	if _, ok := b.Wait()().(RedrawMsg); !ok {
		t.Fatalf("expected RedrawMsg")
	}
	b.Change("cart")
	msg := b.Wait()()
	if c, ok := msg.(ChangeMsg); !ok || c.Key != "cart" {
		t.Fatalf("expected cart change, got %#v", msg)
	}
}

func TestCloseReleasesWait(t *testing.T) {
	b := NewBridge()
	b.Close()
	b.Close()
	if msg := b.Wait()(); msg != nil {
		t.Fatalf("expected nil after close, got %#v", msg)
	}
}

func TestChangesCoalescePerKey(t *testing.T) {
	b := NewBridge()
	for i := 0; i < 50; i++ {
		b.Change("cart")
	}
	b.Change("session")
	b.Change("cart")

	var got []string
	for i := 0; i < 2; i++ {
		msg, ok := b.Wait()().(ChangeMsg)
		if !ok {
			t.Fatalf("expected ChangeMsg")
		}
		got = append(got, msg.Key)
	}
	if got[0] != "cart" || got[1] != "session" {
		t.Fatalf("unexpected order %v", got)
	}
	b.Redraw()
	if _, ok := b.Wait()().(RedrawMsg); !ok {
		t.Fatalf("expected only a redraw to remain")
	}
}
