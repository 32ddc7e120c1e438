package foundations

import "testing"

func TestMonitor_InitialState(t *testing.T) {
	if !NewMonitor(true).Online() {
		t.Error("monitor created online should report online")
	}
	if NewMonitor(false).Online() {
		t.Error("monitor created offline should report offline")
	}
}

func TestMonitor_FiresOncePerTransition(t *testing.T) {
	m := NewMonitor(false)

	var events []bool
	m.OnTransition(func(online bool) { events = append(events, online) })

	m.SetOnline(false) // no change
	m.SetOnline(true)  // offline -> online
	m.SetOnline(true)  // no change
	m.SetOnline(true)  // no change
	m.SetOnline(false) // online -> offline
	m.SetOnline(true)  // offline -> online

	want := []bool{true, false, true}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("events[%d] = %v, want %v", i, events[i], want[i])
		}
	}
}

func TestMonitor_MultipleHandlers(t *testing.T) {
	m := NewMonitor(false)

	var a, b int
	m.OnTransition(func(bool) { a++ })
	m.OnTransition(func(bool) { b++ })

	m.SetOnline(true)

	if a != 1 || b != 1 {
		t.Errorf("handler calls = %d/%d, want 1/1", a, b)
	}
}

func TestMonitor_HandlerMayReadState(t *testing.T) {
	m := NewMonitor(false)

	var observed bool
	m.OnTransition(func(online bool) {
		// Handlers run outside the lock, so reading back is safe.
		observed = m.Online()
	})
	m.SetOnline(true)

	if !observed {
		t.Error("handler should observe the new state")
	}
}
