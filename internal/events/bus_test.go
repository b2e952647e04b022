package events

import (
	"reflect"
	"testing"
)

func TestPublishOrder(t *testing.T) {
	bus := NewBus[string, int]()
	var got []string

	bus.Subscribe("a", func(v int) { got = append(got, "first") })
	bus.Subscribe("a", func(v int) { got = append(got, "second") })
	bus.Subscribe("b", func(v int) { got = append(got, "other") })

	bus.Publish("a", 1)

	if want := []string{"first", "second"}; !reflect.DeepEqual(got, want) {
		t.Errorf("handlers ran as %v, want %v", got, want)
	}
}

func TestUnsubscribeKeepsOrder(t *testing.T) {
	bus := NewBus[string, int]()
	var got []int

	bus.Subscribe("k", func(int) { got = append(got, 1) })
	unsub := bus.Subscribe("k", func(int) { got = append(got, 2) })
	bus.Subscribe("k", func(int) { got = append(got, 3) })
	bus.Subscribe("k", func(int) { got = append(got, 4) })

	unsub()
	unsub()
	bus.Publish("k", 0)

	if want := []int{1, 3, 4}; !reflect.DeepEqual(got, want) {
		t.Errorf("handlers ran as %v, want %v", got, want)
	}
	if n := bus.SubscriberCount("k"); n != 3 {
		t.Errorf("SubscriberCount = %d, want 3", n)
	}
}

func TestUnsubscribeDuringPublish(t *testing.T) {
	bus := NewBus[string, string]()
	var got []string
	var unsub UnsubscribeFunc

	unsub = bus.Subscribe("k", func(v string) {
		got = append(got, "self:"+v)
		unsub()
	})
	bus.Subscribe("k", func(v string) { got = append(got, "next:"+v) })

	bus.Publish("k", "x")
	bus.Publish("k", "y")

	want := []string{"self:x", "next:x", "next:y"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestPayloadDelivered(t *testing.T) {
	type state struct{ IDs []string }
	bus := NewBus[int, state]()

	var seen state
	bus.Subscribe(7, func(s state) { seen = s })
	bus.Publish(7, state{IDs: []string{"a", "b"}})

	if !reflect.DeepEqual(seen.IDs, []string{"a", "b"}) {
		t.Errorf("payload = %+v", seen)
	}
}
