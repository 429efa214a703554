package popover

// EventKind identifies a global input event.
type EventKind int

const (
	PointerDown EventKind = iota
	Resize
	Scroll
	KeyDown
)

func (k EventKind) String() string {
	switch k {
	case PointerDown:
		return "pointerdown"
	case Resize:
		return "resize"
	case Scroll:
		return "scroll"
	case KeyDown:
		return "keydown"
	default:
		return "unknown"
	}
}

// Event is a global input event. Only the fields relevant to Kind are set.
type Event struct {
	Kind EventKind
	X, Y int    // PointerDown
	Size Size   // Resize
	Key  string // KeyDown
}

// Handler receives dispatched events.
type Handler func(Event)

type subscription struct {
	id int
	fn Handler
}

// Hub is the process-wide listener registry the host feeds raw input into.
// Handlers run in subscription order. It is owned by the UI loop and is not
// safe for concurrent use.
type Hub struct {
	nextID   int
	handlers map[EventKind][]subscription
}

// NewHub returns an empty Hub.
func NewHub() *Hub {
	return &Hub{handlers: make(map[EventKind][]subscription)}
}

// Subscribe registers fn for kind and returns the function that removes it.
// Calling the returned function more than once is harmless.
func (h *Hub) Subscribe(kind EventKind, fn Handler) func() {
	h.nextID++
	id := h.nextID
	h.handlers[kind] = append(h.handlers[kind], subscription{id: id, fn: fn})
	return func() {
		subs := h.handlers[kind]
		for i, s := range subs {
			if s.id == id {
				h.handlers[kind] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Dispatch delivers ev to every handler registered for its kind. Handlers
// may unsubscribe (themselves or others) while running.
func (h *Hub) Dispatch(ev Event) {
	subs := h.handlers[ev.Kind]
	if len(subs) == 0 {
		return
	}
	snapshot := make([]subscription, len(subs))
	copy(snapshot, subs)
	for _, s := range snapshot {
		if !h.live(ev.Kind, s.id) {
			continue
		}
		s.fn(ev)
	}
}

func (h *Hub) live(kind EventKind, id int) bool {
	for _, s := range h.handlers[kind] {
		if s.id == id {
			return true
		}
	}
	return false
}

// Count returns the number of live handlers for kind.
func (h *Hub) Count(kind EventKind) int {
	return len(h.handlers[kind])
}

// Total returns the number of live handlers of every kind.
func (h *Hub) Total() int {
	n := 0
	for _, subs := range h.handlers {
		n += len(subs)
	}
	return n
}
