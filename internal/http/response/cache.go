package response

// CacheState is the lifecycle of a lazily computed body view
type CacheState int

const (
	CacheUnset CacheState = iota
	// CachePending means a read started and did not complete; the entity
	// stream can no longer produce the full body
	CachePending
	CacheSet
)

// String returns the string representation of the state
func (s CacheState) String() string {
	switch s {
	case CacheUnset:
		return "unset"
	case CachePending:
		return "pending"
	case CacheSet:
		return "set"
	default:
		return "unknown"
	}
}

// cache holds a value that moves from unset to set at most once
type cache[T any] struct {
	state CacheState
	value T
}

func (c *cache[T]) get() (T, bool) {
	return c.value, c.state == CacheSet
}

func (c *cache[T]) begin() {
	if c.state == CacheUnset {
		c.state = CachePending
	}
}

func (c *cache[T]) set(v T) {
	if c.state == CacheSet {
		return
	}
	c.value = v
	c.state = CacheSet
}
