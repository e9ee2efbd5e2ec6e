package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"pulsedeck/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Debug(msg string, args ...any) {}
func (nopLogger) Info(msg string, args ...any)  {}
func (nopLogger) Warn(msg string, args ...any)  {}
func (nopLogger) Error(msg string, args ...any) {}

type fakeSource struct {
	snap   domain.Snapshot
	series *domain.NetSeries
}

func (s *fakeSource) Latest() domain.Snapshot   { return s.snap }
func (s *fakeSource) Series() *domain.NetSeries { return s.series }

func newTestHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	hub := NewHub(nopLogger{})
	hub.SetSource(&fakeSource{
		snap:   domain.Snapshot{CPUTempStatus: domain.TempStatusWarmingUp, Errors: []string{}},
		series: &domain.NetSeries{SendKbps: []float64{1}, ReceiveKbps: []float64{2}},
	})

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	return hub, cancel
}

func waitForCount(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("client count %d, want %d", hub.ClientCount(), want)
}

func TestHub_ClientCountTracksConnections(t *testing.T) {
	hub, cancel := newTestHub(t)
	defer cancel()

	clients := make([]*Client, 3)
	for i := range clients {
		clients[i] = NewClient("c"+string(rune('0'+i)), hub, nil, nopLogger{})
		hub.register <- clients[i]
	}
	waitForCount(t, hub, 3)

	hub.unregister <- clients[0]
	hub.unregister <- clients[1]
	waitForCount(t, hub, 1)
}

func TestHub_InitFrameCarriesSeries(t *testing.T) {
	hub, cancel := newTestHub(t)
	defer cancel()

	c := NewClient("init-client", hub, nil, nopLogger{})
	hub.register <- c
	waitForCount(t, hub, 1)

	select {
	case raw := <-c.send:
		var env domain.WsEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("invalid init frame: %v", err)
		}
		if env.Type != domain.WsTypeInit {
			t.Fatalf("type %q, want init", env.Type)
		}
		if env.Data.Series == nil || len(env.Data.Series.SendKbps) != 1 {
			t.Fatalf("init frame must carry series data: %+v", env.Data.Series)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no init frame received")
	}
}

func TestHub_EveryFifthTickIsSeriesFrame(t *testing.T) {
	hub, cancel := newTestHub(t)
	defer cancel()

	c := NewClient("series-client", hub, nil, nopLogger{})
	hub.register <- c
	waitForCount(t, hub, 1)
	<-c.send // drain init

	var types []string
	for i := 0; i < 5; i++ {
		hub.Publish(domain.Snapshot{Errors: []string{}})

		select {
		case raw := <-c.send:
			var env domain.WsEnvelope
			if err := json.Unmarshal(raw, &env); err != nil {
				t.Fatalf("invalid frame: %v", err)
			}
			types = append(types, env.Type)
		case <-time.After(2 * time.Second):
			t.Fatalf("missing frame %d", i+1)
		}
	}

	for i := 0; i < 4; i++ {
		if types[i] != domain.WsTypeMetrics {
			t.Fatalf("frame %d type %q, want metrics", i+1, types[i])
		}
	}
	if types[4] != domain.WsTypeSeries {
		t.Fatalf("fifth frame type %q, want series", types[4])
	}
}

func TestHub_ShutdownClosesClientChannels(t *testing.T) {
	hub, cancel := newTestHub(t)

	c := NewClient("bye-client", hub, nil, nopLogger{})
	hub.register <- c
	waitForCount(t, hub, 1)
	<-c.send // drain init

	cancel()

	select {
	case _, ok := <-c.send:
		if ok {
			t.Fatal("expected closed send channel after shutdown")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("send channel not closed on shutdown")
	}
}
