package canvas

import (
	"sync"
	"sync/atomic"

	"InkBinder/internal/event"
	"InkBinder/internal/geom"
	"InkBinder/internal/logging"
	"InkBinder/internal/state"
)

type smoothTask struct {
	page     *state.Page
	stroke   *state.Stroke
	revision uint64
	raw      []geom.Point

	// result is written by the worker before done is set and read by the
	// UI goroutine only after observing done.
	result []geom.Point
	done   atomic.Bool
}

// Smoother runs comb and smoothing passes on finished strokes in the
// background. A stroke stays pending, and is drawn raw from the overlay,
// until Poll swaps the finished geometry in on the UI goroutine.
type Smoother struct {
	pending []*smoothTask
	byID    map[*state.Stroke]*smoothTask
	wg      sync.WaitGroup

	// Done is notified from the worker goroutine when a task completes.
	// Listeners must hop to the UI goroutine before touching the document.
	Done event.Registry[*state.Stroke]
}

// NewSmoother creates an idle smoother.
func NewSmoother() *Smoother {
	return &Smoother{byID: make(map[*state.Stroke]*smoothTask)}
}

// Submit starts smoothing s with a ±k window after combing with the given
// factor. The worker only sees a copy of the points.
func (sm *Smoother) Submit(page *state.Page, s *state.Stroke, k int, comb float64) {
	if page == nil || s == nil {
		panic("canvas: Smoother.Submit with nil page or stroke")
	}
	if old, ok := sm.byID[s]; ok {
		sm.drop(old)
	}
	t := &smoothTask{
		page:     page,
		stroke:   s,
		revision: s.Path().Revision(),
		raw:      s.Path().Snapshot(),
	}
	sm.pending = append(sm.pending, t)
	sm.byID[s] = t

	sm.wg.Add(1)
	go func() {
		defer sm.wg.Done()
		p := geom.NewPathFrom(t.raw...)
		p.Comb(comb)
		p.Smooth(k)
		t.result = p.Snapshot()
		t.done.Store(true)
		sm.Done.Notify(t.stroke)
	}()
}

// Pending reports whether s is still waiting for its smoothed geometry.
func (sm *Smoother) Pending(s *state.Stroke) bool {
	_, ok := sm.byID[s]
	return ok
}

// Len returns the number of pending strokes.
func (sm *Smoother) Len() int { return len(sm.pending) }

// Poll applies every completed task whose stroke is still on its page
// with unchanged geometry, and discards the rest. repaint receives the
// page and the union of old and new bounds of every stroke that changed.
func (sm *Smoother) Poll(repaint func(*state.Page, geom.Rect)) {
	kept := sm.pending[:0]
	for _, t := range sm.pending {
		if !t.done.Load() {
			kept = append(kept, t)
			continue
		}
		delete(sm.byID, t.stroke)

		path := t.stroke.Path()
		if !t.page.Contains(t.stroke) || path.Revision() != t.revision {
			logging.Logger().Debug("canvas: discarding stale smoothing result", "stroke", t.stroke.ID())
			if repaint != nil && t.page.Contains(t.stroke) {
				repaint(t.page, t.stroke.Bounds())
			}
			continue
		}
		before := t.stroke.Bounds()
		path.Restore(t.result)
		path.Freeze()
		if repaint != nil {
			repaint(t.page, before.Union(t.stroke.Bounds()))
		}
	}
	clear(sm.pending[len(kept):])
	sm.pending = kept
}

// Wait blocks until every submitted task has finished. It does not apply
// the results; call Poll afterwards.
func (sm *Smoother) Wait() {
	sm.wg.Wait()
}

func (sm *Smoother) drop(t *smoothTask) {
	delete(sm.byID, t.stroke)
	for i, have := range sm.pending {
		if have == t {
			sm.pending = append(sm.pending[:i], sm.pending[i+1:]...)
			return
		}
	}
}
