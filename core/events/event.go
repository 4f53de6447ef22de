package events

// Event is a typed state-change notification raised while a pool mutation is
// applied.
type Event interface {
	EventType() string
}

// Emitter forwards events to downstream consumers such as indexers or test
// recorders.
type Emitter interface {
	Emit(Event)
}

// NoopEmitter satisfies Emitter while discarding everything, letting engines
// treat event emission as always-wired.
type NoopEmitter struct{}

// Emit implements the Emitter interface.
func (NoopEmitter) Emit(Event) {}
