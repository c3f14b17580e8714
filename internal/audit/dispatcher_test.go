package audit

import (
	"context"
	"testing"
	"time"
)

func TestDispatcherDeliversStampedEvents(t *testing.T) {
	sink := NewChannelSink(4)
	d := NewDispatcher(Config{Enabled: true, BufferSize: 4}, sink)
	defer d.Close()

	d.Emit(context.Background(), Event{EventType: "login_success", UserID: "u1"})

	select {
	case event := <-sink.Events():
		if event.EventType != "login_success" {
			t.Errorf("EventType = %q", event.EventType)
		}
		if event.ID == "" {
			t.Error("missing event ID")
		}
		if event.Timestamp.IsZero() {
			t.Error("missing timestamp")
		}
	case <-time.After(time.Second):
		t.Fatal("event not delivered within 1s")
	}
}

func TestDispatcherCloseDrainsBuffer(t *testing.T) {
	sink := NewChannelSink(16)
	d := NewDispatcher(Config{Enabled: true, BufferSize: 16}, sink)

	for i := 0; i < 5; i++ {
		d.Emit(context.Background(), Event{EventType: "logout"})
	}
	d.Close()

	for i := 0; i < 5; i++ {
		select {
		case <-sink.Events():
		case <-time.After(time.Second):
			t.Fatalf("only %d of 5 events delivered before close", i)
		}
	}
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	block := make(chan struct{})
	sink := blockingSink{release: block}
	d := NewDispatcher(Config{Enabled: true, BufferSize: 1, DropIfFull: true}, sink)

	for i := 0; i < 10; i++ {
		d.Emit(context.Background(), Event{EventType: "login_failure"})
	}
	close(block)
	d.Close()

	if d.Dropped() == 0 {
		t.Error("expected dropped events with a full buffer")
	}
}

func TestNilDispatcherIsSafe(t *testing.T) {
	var d *Dispatcher
	d.Emit(context.Background(), Event{EventType: "logout"})
	d.Close()
	if got := d.Dropped(); got != 0 {
		t.Errorf("Dropped() = %d on nil dispatcher", got)
	}
}

type blockingSink struct {
	release chan struct{}
}

func (s blockingSink) Emit(_ context.Context, _ Event) {
	<-s.release
}
