package codegen

// checkpointer is state with a closing order. Replaying closes for a jump must leave it as it was.
type checkpointer interface {
	checkpoint() (restore func())
}

func checkpointAll(cs ...checkpointer) (restore func()) {
	restores := make([]func(), len(cs))
	for i, c := range cs {
		restores[i] = c.checkpoint()
	}
	return func() {
		for i := len(restores) - 1; i >= 0; i-- {
			restores[i]()
		}
	}
}

// nameStack holds the final names of open static tags.
type nameStack struct {
	names []string
}

func (s *nameStack) push(name string) {
	s.names = append(s.names, name)
}

func (s *nameStack) pop() string {
	n := len(s.names)
	if n == 0 {
		panic("codegen: closing a static tag that was never opened")
	}
	name := s.names[n-1]
	s.names = s.names[:n-1]
	return name
}

func (s *nameStack) checkpoint() func() {
	saved := append([]string(nil), s.names...)
	return func() { s.names = saved }
}

// frame records the open tags of a function or loop in open order.
type frame struct {
	nodes []int
}

type frameStack struct {
	frames []*frame
}

func (s *frameStack) push() {
	s.frames = append(s.frames, &frame{})
}

func (s *frameStack) pop() {
	s.frames = s.frames[:len(s.frames)-1]
}

func (s *frameStack) top() *frame {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

func (s *frameStack) record(idx int) {
	if f := s.top(); f != nil {
		f.nodes = append(f.nodes, idx)
	}
}

// release forgets idx if it is the most recently opened node of the innermost frame.
func (s *frameStack) release(idx int) {
	f := s.top()
	if f == nil || len(f.nodes) == 0 || f.nodes[len(f.nodes)-1] != idx {
		return
	}
	f.nodes = f.nodes[:len(f.nodes)-1]
}

func (s *frameStack) checkpoint() func() {
	saved := make([][]int, len(s.frames))
	for i, f := range s.frames {
		saved[i] = append([]int(nil), f.nodes...)
	}
	frames := append([]*frame(nil), s.frames...)
	return func() {
		s.frames = frames
		for i, f := range s.frames {
			f.nodes = saved[i]
		}
	}
}
