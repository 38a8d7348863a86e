package testutil

// ScriptedSource is a deterministic dice.Source for tests.
// Values are consumed in order; each is clamped into [0, n). When the queue
// is empty it returns Fallback (0 by default), so the lowest option is picked.
type ScriptedSource struct {
	queue    []int
	Fallback int
	calls    int
}

// NewScriptedSource creates a source that yields the given raw Intn values.
func NewScriptedSource(raw ...int) *ScriptedSource {
	return &ScriptedSource{queue: raw}
}

// Rolls creates a source whose next d20 rolls show the given faces.
func Rolls(faces ...int) *ScriptedSource {
	s := &ScriptedSource{}
	s.PushRolls(faces...)
	return s
}

// PushRolls enqueues die faces (face f is returned as Intn value f-1).
func (s *ScriptedSource) PushRolls(faces ...int) {
	for _, f := range faces {
		s.queue = append(s.queue, f-1)
	}
}

// Push enqueues raw Intn values.
func (s *ScriptedSource) Push(raw ...int) {
	s.queue = append(s.queue, raw...)
}

// Remaining returns how many scripted values are left.
func (s *ScriptedSource) Remaining() int {
	return len(s.queue)
}

// Calls returns how many times Intn was called.
func (s *ScriptedSource) Calls() int {
	return s.calls
}

func (s *ScriptedSource) Intn(n int) int {
	s.calls++
	if n <= 0 {
		return 0
	}
	v := s.Fallback
	if len(s.queue) > 0 {
		v = s.queue[0]
		s.queue = s.queue[1:]
	}
	if v >= n {
		v = n - 1
	}
	if v < 0 {
		v = 0
	}
	return v
}
