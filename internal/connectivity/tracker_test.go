package connectivity

import (
	"errors"
	"sync"
	"testing"

	"github.com/nerrad567/relay-node/internal/led"
)

// fakeApplier records every applied status.
type fakeApplier struct {
	mu       sync.Mutex
	applied  []led.Status
	failWith error
}

func (a *fakeApplier) ApplyStatus(status led.Status) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.applied = append(a.applied, status)
	return a.failWith
}

func (a *fakeApplier) last() (led.Status, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.applied) == 0 {
		return 0, false
	}
	return a.applied[len(a.applied)-1], true
}

func (a *fakeApplier) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.applied)
}

// fakeRelay is a RelayStateProvider with settable state.
type fakeRelay struct {
	mu    sync.Mutex
	on    bool
	known bool
}

func (r *fakeRelay) RelayState() (bool, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.on, r.known
}

func (r *fakeRelay) set(on, known bool) {
	r.mu.Lock()
	r.on = on
	r.known = known
	r.mu.Unlock()
}

func TestTracker_InitialStatus(t *testing.T) {
	tr := NewTracker(&fakeApplier{})

	if got := tr.Status(); got != led.StatusDisconnected {
		t.Errorf("initial status = %v, want disconnected", got)
	}

	link, session := tr.States()
	if link != LinkDisconnected || session != SessionDisconnected {
		t.Errorf("initial states = %v/%v, want disconnected/disconnected", link, session)
	}
}

func TestTracker_Compose(t *testing.T) {
	tests := []struct {
		name    string
		link    LinkState
		session SessionState
		relay   *fakeRelay
		want    led.Status
	}{
		{
			name:    "all down",
			link:    LinkDisconnected,
			session: SessionDisconnected,
			want:    led.StatusDisconnected,
		},
		{
			name:    "link connecting",
			link:    LinkConnecting,
			session: SessionDisconnected,
			want:    led.StatusConnecting,
		},
		{
			name:    "link up, session down",
			link:    LinkConnected,
			session: SessionDisconnected,
			want:    led.StatusLinkUp,
		},
		{
			name:    "link up, session connecting",
			link:    LinkConnected,
			session: SessionConnecting,
			want:    led.StatusLinkUp,
		},
		{
			name:    "session up, relay unknown",
			link:    LinkConnected,
			session: SessionConnected,
			relay:   &fakeRelay{known: false},
			want:    led.StatusBrokerUp,
		},
		{
			name:    "session up, relay on",
			link:    LinkConnected,
			session: SessionConnected,
			relay:   &fakeRelay{on: true, known: true},
			want:    led.StatusBrokerRelayOn,
		},
		{
			name:    "session up, relay off",
			link:    LinkConnected,
			session: SessionConnected,
			relay:   &fakeRelay{on: false, known: true},
			want:    led.StatusBrokerRelayOff,
		},
		{
			name:    "session up without relay provider",
			link:    LinkConnected,
			session: SessionConnected,
			want:    led.StatusBrokerUp,
		},
		{
			name:    "session error while link up",
			link:    LinkConnected,
			session: SessionError,
			want:    led.StatusError,
		},
		{
			name:    "session error while link down falls back to link",
			link:    LinkDisconnected,
			session: SessionError,
			want:    led.StatusDisconnected,
		},
		{
			name:    "session error while link connecting",
			link:    LinkConnecting,
			session: SessionError,
			want:    led.StatusConnecting,
		},
		{
			name:    "link failed",
			link:    LinkFailed,
			session: SessionDisconnected,
			want:    led.StatusError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			applier := &fakeApplier{}
			tr := NewTracker(applier)
			if tt.relay != nil {
				tr.SetRelayProvider(tt.relay)
			}

			tr.OnLinkState(tt.link)
			tr.OnSessionState(tt.session)

			if got := tr.Status(); got != tt.want {
				t.Errorf("composed status = %v, want %v", got, tt.want)
			}
			if got, ok := applier.last(); !ok || got != tt.want {
				t.Errorf("last applied = %v (%v), want %v", got, ok, tt.want)
			}
		})
	}
}

func TestTracker_EveryTransitionApplies(t *testing.T) {
	applier := &fakeApplier{}
	tr := NewTracker(applier)

	tr.OnLinkState(LinkConnecting)
	tr.OnLinkState(LinkConnected)
	tr.OnSessionState(SessionConnecting)
	tr.OnSessionState(SessionConnected)

	if got := applier.count(); got != 4 {
		t.Errorf("applied %d times, want 4", got)
	}
}

func TestTracker_SessionUpHook(t *testing.T) {
	tr := NewTracker(&fakeApplier{})

	fired := 0
	tr.SetOnSessionUp(func() { fired++ })

	tr.OnSessionState(SessionConnected)
	if fired != 1 {
		t.Fatalf("hook fired %d times after connect, want 1", fired)
	}

	// Re-delivering connected does not re-fire the hook.
	tr.OnSessionState(SessionConnected)
	if fired != 1 {
		t.Errorf("hook fired %d times on repeat delivery, want 1", fired)
	}

	// A full disconnect/reconnect cycle does.
	tr.OnSessionState(SessionDisconnected)
	tr.OnSessionState(SessionConnected)
	if fired != 2 {
		t.Errorf("hook fired %d times after reconnect, want 2", fired)
	}
}

func TestTracker_RelayChangeViaRefresh(t *testing.T) {
	applier := &fakeApplier{}
	relay := &fakeRelay{known: true, on: false}
	tr := NewTracker(applier)
	tr.SetRelayProvider(relay)

	tr.OnLinkState(LinkConnected)
	tr.OnSessionState(SessionConnected)
	if got, _ := applier.last(); got != led.StatusBrokerRelayOff {
		t.Fatalf("status = %v, want relay off", got)
	}

	relay.set(true, true)
	tr.Refresh()
	if got, _ := applier.last(); got != led.StatusBrokerRelayOn {
		t.Errorf("status after refresh = %v, want relay on", got)
	}
}

func TestTracker_ApplierFailureDoesNotPropagate(t *testing.T) {
	applier := &fakeApplier{failWith: errors.New("indicator dead")}
	tr := NewTracker(applier)

	// Must not panic and must keep tracking state.
	tr.OnLinkState(LinkConnected)
	if got := tr.Status(); got != led.StatusLinkUp {
		t.Errorf("status = %v, want link up", got)
	}
}

func TestTracker_StatusObserver(t *testing.T) {
	tr := NewTracker(&fakeApplier{})

	var seen []led.Status
	tr.SetOnStatus(func(s led.Status) { seen = append(seen, s) })

	tr.OnLinkState(LinkConnecting)
	tr.OnLinkState(LinkConnected)

	want := []led.Status{led.StatusConnecting, led.StatusLinkUp}
	if len(seen) != len(want) {
		t.Fatalf("observer saw %d statuses, want %d", len(seen), len(want))
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("observed[%d] = %v, want %v", i, seen[i], want[i])
		}
	}
}
