package geom

// DirtyRegion accumulates the union of every rectangle touched since the
// last Reset. The zero value is empty and ready to use. It is used from the
// UI goroutine only and needs no locking.
type DirtyRegion struct {
	bounds Rect
	set    bool
}

// Union grows the accumulated box to cover r. Empty rects are ignored.
func (d *DirtyRegion) Union(r Rect) {
	if r.IsEmpty() {
		return
	}
	if !d.set {
		d.bounds, d.set = r, true
		return
	}
	d.bounds = d.bounds.Union(r)
}

// Bounds returns the accumulated box, or EmptyRect.
func (d *DirtyRegion) Bounds() Rect {
	if !d.set {
		return EmptyRect
	}
	return d.bounds
}

// IsEmpty reports whether nothing has been accumulated since the last Reset.
func (d *DirtyRegion) IsEmpty() bool { return !d.set }

// Reset clears the accumulated box.
func (d *DirtyRegion) Reset() { d.bounds, d.set = Rect{}, false }
