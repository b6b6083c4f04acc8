package selection

import "testing"

func TestBusOrderAndUnsubscribe(t *testing.T) {
	bus := NewBus()
	var order []string
	unsubA := bus.Subscribe(func(Change) { order = append(order, "a") })
	bus.Subscribe(func(Change) { order = append(order, "b") })

	bus.Publish(Change{Key: CartKey})
	unsubA()
	unsubA()
	bus.Publish(Change{Key: CartKey})

	want := []string{"a", "b", "b"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, order)
		}
	}
	if bus.Len() != 1 {
		t.Fatalf("expected one live subscription, got %d", bus.Len())
	}
}

func TestBusUnsubscribeDuringPublish(t *testing.T) {
	bus := NewBus()
	calls := 0
	var unsub func()
	unsub = bus.Subscribe(func(Change) {
		calls++
		unsub()
	})
	bus.Publish(Change{})
	bus.Publish(Change{})
	if calls != 1 {
		t.Fatalf("expected one call, got %d", calls)
	}
}
