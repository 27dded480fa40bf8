package resolver

// Outcome is the result of resolving one key through a chain.
type Outcome struct {
	Value  string
	Source string
	Found  bool
}

// Chain is an ordered list of lookup tables consulted in priority order.
// Earlier tables win when a key exists in more than one.
type Chain struct {
	tables []*Table
}

// NewChain builds a chain from tables in priority order. Nil entries are
// permitted and contribute no matches; loaders use them for reference files
// that were missing or unreadable.
func NewChain(tables ...*Table) *Chain {
	return &Chain{tables: tables}
}

// Resolve returns the first match for key across the chain, or a zero
// Outcome when no table holds it.
func (c *Chain) Resolve(key string) Outcome {
	for _, t := range c.tables {
		if t == nil {
			continue
		}
		if v, ok := t.Lookup(key); ok {
			return Outcome{Value: v, Source: t.Label(), Found: true}
		}
	}
	return Outcome{}
}
