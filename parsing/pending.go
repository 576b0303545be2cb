package parsing

type pendingKey int

const (
	// pendingRaw disables escaping of the next element.
	pendingRaw pendingKey = iota
	pendingStatement
	pendingExpression
	pendingTarget
	pendingExpectedIndent
	pendingPartialName
	pendingPartialParams
)

// pending holds values which survive exactly one handled token unless re-armed.
type pending struct {
	values map[pendingKey]string
	armed  map[pendingKey]bool
}

func newPending() pending {
	return pending{
		values: make(map[pendingKey]string),
		armed:  make(map[pendingKey]bool),
	}
}

func (p *pending) set(key pendingKey, value string) {
	p.values[key] = value
	p.armed[key] = true
}

func (p *pending) get(key pendingKey) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

func (p *pending) has(key pendingKey) bool {
	_, ok := p.values[key]
	return ok
}

// carry re-arms the keys which are present, so they survive the current cycle.
func (p *pending) carry(keys ...pendingKey) {
	for _, key := range keys {
		if _, ok := p.values[key]; ok {
			p.armed[key] = true
		}
	}
}

// cycle drops every value which was not armed since the previous cycle.
func (p *pending) cycle() {
	for key := range p.values {
		if !p.armed[key] {
			delete(p.values, key)
		}
	}
	clear(p.armed)
}
