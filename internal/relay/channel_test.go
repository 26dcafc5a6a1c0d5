package relay

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/relabs-tech/orientation_relay/internal/orientation"
)

func TestSampleChannelRecordsWithoutSubscriber(t *testing.T) {
	ch := NewSampleChannel()

	if _, ok := ch.Latest(); ok {
		t.Fatal("expected no sample on a new channel")
	}
	if ch.IsSubscribed() {
		t.Fatal("expected no subscriber on a new channel")
	}

	ch.PublishValues(1, 2, 3, orientation.StatusHigh)

	latest, ok := ch.Latest()
	if !ok {
		t.Fatal("expected sample to be recorded")
	}
	want := orientation.Sample{Azimuth: 1, Pitch: 2, Roll: 3, Status: orientation.StatusHigh}
	if latest != want {
		t.Errorf("expected %+v, got %+v", want, latest)
	}

	select {
	case <-ch.notify:
		t.Error("expected no wake-up without a subscriber")
	default:
	}
}

func TestSampleChannelPublishNeverBlocks(t *testing.T) {
	ch := NewSampleChannel()
	ch.subscribe()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10000; i++ {
			ch.PublishValues(float32(i), 0, 0, 3)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked with no reader")
	}
}

func TestSampleChannelLastWriteWins(t *testing.T) {
	ch := NewSampleChannel()
	seen := ch.subscribe()

	ch.PublishValues(1, 0, 0, 3)
	ch.PublishValues(2, 0, 0, 3)
	ch.PublishValues(3, 0, 0, 3)

	if err := ch.wait(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, seq, ok := ch.take(seen)
	if !ok {
		t.Fatal("expected a new sample")
	}
	if s.Azimuth != 3 {
		t.Errorf("expected latest azimuth 3, got %v", s.Azimuth)
	}

	// The three publishes collapse into a single wake-up.
	select {
	case <-ch.notify:
		t.Error("expected a single pending wake-up")
	default:
	}

	if _, _, ok := ch.take(seq); ok {
		t.Error("expected no new sample after consuming the latest")
	}
}

func TestSampleChannelSubscribeDropsStaleWakeups(t *testing.T) {
	ch := NewSampleChannel()
	ch.subscribe()
	ch.PublishValues(1, 0, 0, 3)
	ch.unsubscribe()

	if ch.IsSubscribed() {
		t.Fatal("expected unsubscribed")
	}

	seen := ch.subscribe()
	if !ch.IsSubscribed() {
		t.Fatal("expected subscribed")
	}
	select {
	case <-ch.notify:
		t.Error("expected stale wake-up to be drained")
	default:
	}
	if _, _, ok := ch.take(seen); ok {
		t.Error("expected sample published before subscribing not to be pending")
	}
}

func TestSampleChannelWaitHonoursContext(t *testing.T) {
	ch := NewSampleChannel()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := ch.wait(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}
