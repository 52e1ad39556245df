package option

// Mode selects how a Collection deduplicates by kind.
type Mode int

const (
	// Unique allows at most one option per kind (streams).
	Unique Mode = iota
	// Multi allows multiple options per kind (filters).
	Multi
)

// Collection is an ordered bag of options. In Unique mode, adding a kind
// that already exists replaces the existing entry in place (preserving
// position); in Multi mode every add appends.
type Collection struct {
	mode    Mode
	items   []Option
	allowed map[Kind]bool // nil means "no restriction" (multi filter bags)
}

// NewCollection builds an empty collection. supported, when non-nil,
// restricts which kinds Add will accept — used by streams to enforce their
// format's supported-option set.
func NewCollection(mode Mode, supported []Kind) *Collection {
	c := &Collection{mode: mode}
	if supported != nil {
		c.allowed = make(map[Kind]bool, len(supported))
		for _, k := range supported {
			c.allowed[k] = true
		}
	}
	return c
}

// Add inserts opt if its kind is in the supported set (when restricted) and
// its value is non-nil. Returns false (a silent no-op) on rejection; callers
// that want the reject surfaced for logging should check the return value.
func (c *Collection) Add(opt Option) bool {
	if opt == nil || opt.Value() == nil {
		return false
	}
	if c.allowed != nil && !c.allowed[opt.Kind()] {
		return false
	}
	if c.mode == Unique {
		for i, existing := range c.items {
			if existing.Kind() == opt.Kind() {
				c.items[i] = opt
				return true
			}
		}
	}
	c.items = append(c.items, opt)
	return true
}

// AddAll adds every option in turn, ignoring rejections (use Add directly if
// rejection needs to be observed/logged per option).
func (c *Collection) AddAll(opts ...Option) {
	for _, o := range opts {
		c.Add(o)
	}
}

// Has reports whether any option of the given kind is present.
func (c *Collection) Has(k Kind) bool {
	for _, o := range c.items {
		if o.Kind() == k {
			return true
		}
	}
	return false
}

// GetUnique returns the (first) option of the given kind, or nil.
func (c *Collection) GetUnique(k Kind) Option {
	for _, o := range c.items {
		if o.Kind() == k {
			return o
		}
	}
	return nil
}

// All returns every option in the collection, in insertion order. The
// returned slice is owned by the caller; mutating it does not affect c.
func (c *Collection) All() []Option {
	out := make([]Option, len(c.items))
	copy(out, c.items)
	return out
}

// Len reports the number of options currently held.
func (c *Collection) Len() int { return len(c.items) }

// SubsetOf reports whether every option in c exists in other with an equal
// value, or is simply absent from other ("missing-is-wildcard" — other is
// not penalized for not constraining an attribute c happens to carry).
func (c *Collection) SubsetOf(other *Collection) bool {
	for _, a := range c.items {
		b := other.GetUnique(a.Kind())
		if b != nil && !a.Equal(b) {
			return false
		}
	}
	return true
}

// Diff returns a new Unique collection containing every option of c whose
// kind is absent from other, or whose value differs from other's.
func (c *Collection) Diff(other *Collection) *Collection {
	out := NewCollection(Unique, nil)
	for _, a := range c.items {
		b := other.GetUnique(a.Kind())
		if b == nil || !a.Equal(b) {
			out.items = append(out.items, a)
		}
	}
	return out
}

// MetadataOptions returns a new collection containing only options whose
// Class is ClassMetadata.
func (c *Collection) MetadataOptions() *Collection {
	out := NewCollection(Unique, nil)
	for _, o := range c.items {
		if o.Class() == ClassMetadata {
			out.items = append(out.items, o)
		}
	}
	return out
}

// EqualExcludingMetadata reports whether c and other contain the same
// (kind, value) pairs in both directions, ignoring metadata-class options —
// the stream equality contract in §3.
func (c *Collection) EqualExcludingMetadata(other *Collection) bool {
	a := withoutMetadata(c)
	b := withoutMetadata(other)
	return a.SubsetOf(b) && b.SubsetOf(a)
}

func withoutMetadata(c *Collection) *Collection {
	out := NewCollection(Unique, nil)
	for _, o := range c.items {
		if o.Class() != ClassMetadata {
			out.items = append(out.items, o)
		}
	}
	return out
}

// Clone returns a deep-enough copy (options themselves are value types or
// immutable, so a shallow slice copy suffices) sharing the same supported
// set restriction.
func (c *Collection) Clone() *Collection {
	out := &Collection{mode: c.mode, allowed: c.allowed}
	out.items = append(out.items, c.items...)
	return out
}
