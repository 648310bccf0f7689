package gfx

// Handle owns one Resource. The zero Handle owns nothing.
type Handle[T Resource] struct {
	res T
	ok  bool
}

// Own wraps r. A nil r gives an empty handle.
func Own[T Resource](r T) Handle[T] {
	return Handle[T]{res: r, ok: any(r) != nil}
}

func (h *Handle[T]) Get() T      { return h.res }
func (h *Handle[T]) Valid() bool { return h.ok }

// Take moves ownership out of h, leaving h empty.
func (h *Handle[T]) Take() Handle[T] {
	out := *h
	*h = Handle[T]{}
	return out
}

// Release releases the owned resource once; later calls are no-ops.
func (h *Handle[T]) Release() {
	if !h.ok {
		return
	}
	res := h.res
	*h = Handle[T]{}
	res.Release()
}
