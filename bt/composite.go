package bt

// Sequence steps its children in order until one is Running or Fails. A child
// that succeeds advances the cursor and the next child runs in the same tick.
// The cursor only moves back to the first child on Reset.
type Sequence struct {
	Base
	cursor int
}

func NewSequence(name string, children ...Node) *Sequence {
	return &Sequence{Base: NewBase(name, children...)}
}

func (s *Sequence) Step(ctx *Context) Status {
	for s.cursor < len(s.children) {
		switch Tick(s.children[s.cursor], ctx) {
		case Running:
			return Running
		case Fail:
			return Fail
		}
		s.cursor++
	}
	return Success
}

func (s *Sequence) Reset() {
	s.Base.Reset()
	s.cursor = 0
}

// Selector steps its children in order until one is Running or Succeeds. It
// fails once every child has failed.
type Selector struct {
	Base
	cursor int
}

func NewSelector(name string, children ...Node) *Selector {
	return &Selector{Base: NewBase(name, children...)}
}

func (s *Selector) Step(ctx *Context) Status {
	for s.cursor < len(s.children) {
		switch Tick(s.children[s.cursor], ctx) {
		case Running:
			return Running
		case Success:
			return Success
		}
		s.cursor++
	}
	return Fail
}

func (s *Selector) Reset() {
	s.Base.Reset()
	s.cursor = 0
}

// Parallel ticks every child that has not yet succeeded, every tick. The first
// failing child fails the whole node and the remaining children are not
// ticked that frame.
type Parallel struct {
	Base
}

func NewParallel(name string, children ...Node) *Parallel {
	return &Parallel{Base: NewBase(name, children...)}
}

func (p *Parallel) Step(ctx *Context) Status {
	done := true
	for _, c := range p.children {
		if c.Status() != Success {
			if Tick(c, ctx) == Fail {
				return Fail
			}
		}
		if c.Status() != Success {
			done = false
		}
	}
	if done {
		return Success
	}
	return Running
}

// Not swaps Success and Fail of its only child.
type Not struct {
	Base
}

func NewNot(name string, child Node) *Not {
	return &Not{Base: NewBase(name, child)}
}

func (n *Not) Step(ctx *Context) Status {
	switch s := Tick(n.children[0], ctx); s {
	case Success:
		return Fail
	case Fail:
		return Success
	default:
		return s
	}
}
