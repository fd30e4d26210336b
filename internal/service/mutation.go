package service

import (
	"sort"
	"sync"
	"time"
)

// Phase is the lifecycle stage of an admin mutation kind.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseSubmitting Phase = "submitting"
	PhaseSuccess    Phase = "success"
	PhaseFailed     Phase = "failed"
)

// Mutation kinds tracked by the admin workflow.
const (
	MutationProductCreate  = "product_create"
	MutationBulkDelete     = "bulk_delete"
	MutationCategoryCreate = "category_create"
	MutationCategoryDelete = "category_delete"
	MutationTemplateCreate = "template_create"
	MutationTemplateDelete = "template_delete"
)

// DefaultSuccessWindow is how long a success indication stays visible
// before reverting to idle.
const DefaultSuccessWindow = 2 * time.Second

// MutationStatus is the observable state of one mutation kind.
type MutationStatus struct {
	Kind  string `json:"kind"`
	Phase Phase  `json:"phase"`
	Error string `json:"error,omitempty"`
}

type mutationState struct {
	phase     Phase
	message   string
	changedAt time.Time
}

// MutationTracker records the phase of each mutation kind so clients can
// render submit spinners, transient success ticks and sticky error banners.
//
// Transitions: idle -> submitting (Begin), submitting -> success (Succeed)
// or failed (Fail). Success expires to idle once the display window
// elapses; the expiry is evaluated on read, no timer goroutine runs.
// Failure sticks until the next Begin of the same kind.
type MutationTracker struct {
	mu      sync.Mutex
	states  map[string]mutationState
	window  time.Duration
	nowFunc func() time.Time
}

// NewMutationTracker creates a tracker with the given success display
// window. A non-positive window falls back to DefaultSuccessWindow.
func NewMutationTracker(window time.Duration) *MutationTracker {
	if window <= 0 {
		window = DefaultSuccessWindow
	}
	return &MutationTracker{
		states:  make(map[string]mutationState),
		window:  window,
		nowFunc: time.Now,
	}
}

// Begin marks the kind as submitting and clears any prior error.
func (t *MutationTracker) Begin(kind string) {
	t.set(kind, PhaseSubmitting, "")
}

// Succeed marks the kind as succeeded; the success indication expires after
// the display window.
func (t *MutationTracker) Succeed(kind string) {
	t.set(kind, PhaseSuccess, "")
}

// Fail records the failure message for the kind.
func (t *MutationTracker) Fail(kind, message string) {
	t.set(kind, PhaseFailed, message)
}

// Status returns the current state of the kind, applying success expiry.
func (t *MutationTracker) Status(kind string) MutationStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.statusLocked(kind)
}

// Snapshot returns the state of every kind ever touched, sorted by kind.
func (t *MutationTracker) Snapshot() []MutationStatus {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]MutationStatus, 0, len(t.states))
	for kind := range t.states {
		out = append(out, t.statusLocked(kind))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}

func (t *MutationTracker) statusLocked(kind string) MutationStatus {
	st, ok := t.states[kind]
	if !ok {
		return MutationStatus{Kind: kind, Phase: PhaseIdle}
	}
	if st.phase == PhaseSuccess && t.nowFunc().Sub(st.changedAt) >= t.window {
		return MutationStatus{Kind: kind, Phase: PhaseIdle}
	}
	return MutationStatus{Kind: kind, Phase: st.phase, Error: st.message}
}

func (t *MutationTracker) set(kind string, phase Phase, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.states[kind] = mutationState{
		phase:     phase,
		message:   message,
		changedAt: t.nowFunc(),
	}
}
