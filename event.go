package animation2d

// EventDefinition is an immutable event: a named discrete marker with
// default payload values, overridable per-keyframe.
type EventDefinition struct {
	Name       NameId
	IntValue   int32
	FloatValue float32
	StringValue string
}

// EventSink receives discrete events dispatched synchronously from
// ClipInstance.EvaluateRange (§6.4). Hosts implement this to bridge into gameplay
// code (sound cues, gameplay triggers, etc.).
type EventSink interface {
	Dispatch(name NameId, i int32, f float32, s string)
}

// EventSinkFunc adapts a plain function to the EventSink interface.
type EventSinkFunc func(name NameId, i int32, f float32, s string)

// Dispatch calls fn.
func (fn EventSinkFunc) Dispatch(name NameId, i int32, f float32, s string) { fn(name, i, f, s) }
