package gouncertain

import (
	"cmp"
	"math"
	"slices"
	"sync/atomic"

	"go.uber.org/zap"
)

// ============================================================
// Gradient maps
// ============================================================

// gradient maps a leaf to ∂value/∂leaf.
type gradient map[*Leaf]float64

func (g gradient) clone() gradient {
	out := make(gradient, len(g))
	for l, w := range g {
		out[l] = w
	}
	return out
}

func (g gradient) scaled(k float64) gradient {
	out := make(gradient, len(g))
	for l, w := range g {
		out[l] = k * w
	}
	return out
}

// undo restores one entry of a map that was merged into in place.
type undo struct {
	leaf    *Leaf
	weight  float64
	existed bool
}

// mergeInto adds src to dst. When j is non-nil every overwritten entry is
// recorded so the previous view of dst can be restored.
func mergeInto(dst, src gradient, j *[]undo) {
	for l, w := range src {
		old, ok := dst[l]
		if j != nil {
			*j = append(*j, undo{leaf: l, weight: old, existed: ok})
		}
		dst[l] = old + w
	}
}

// copiedEntries counts entries duplicated by the copy path. Independent
// quantity graphs may be evaluated on separate goroutines, so it is atomic.
var copiedEntries atomic.Int64

// ============================================================
// Derived
// ============================================================

// Derived is a value with a sparse gradient over leaves. Its variance and
// covariances are computed on demand from the leaves' covariance stores.
//
// A Derived is in exactly one of three states:
//   - owner: grad holds its view and nobody else writes to it
//   - lazy: base (and optionally pending) name the sources of a union that
//     has not been merged yet
//   - evicted: another quantity took grad and merged into it; takenBy and
//     journal describe how to get the old view back
//
// All three read the same: resolution is memoization only.
type Derived struct {
	value float64
	grad  gradient

	base, pending *Derived

	pinned bool // a leaf's unit gradient; never taken
	anon   bool // an operator's scaled term; unobservable once taken

	takenBy *Derived
	journal []undo
}

func (d *Derived) quantity() *Derived { return d }

// Value returns the nominal value.
func (d *Derived) Value() float64 { return d.value }

func constant(v float64) *Derived { return &Derived{value: v, grad: gradient{}} }

// term wraps a freshly built gradient no one else references.
func term(g gradient) *Derived { return &Derived{grad: g, anon: true} }

// scaled returns k·∂q as an operator term, or nil for a constant operand.
func scaled(q *Derived, k float64) *Derived {
	if q == nil {
		return nil
	}
	return term(q.view().scaled(k))
}

// union builds a quantity whose gradient is a ⧺ b, merged on first read.
// Either source may be nil (a constant).
func union(v float64, a, b *Derived) *Derived {
	if a == nil {
		a, b = b, nil
	}
	if a == nil {
		return constant(v)
	}
	// Sources are resolved now so resolution of the result never has to
	// recurse further than one level.
	a.view()
	if b != nil {
		b.view()
	}
	return &Derived{value: v, base: a, pending: b}
}

// view returns d's gradient. The map belongs to d and must not be modified
// by the caller; it stays valid until the next operator or read touches d.
func (d *Derived) view() gradient {
	switch {
	case d.base != nil:
		d.resolve()
	case d.takenBy != nil:
		d.rebuild()
	}
	return d.grad
}

// canTake reports whether d's map may be adopted by a union whose other
// source is other.
func (d *Derived) canTake(other *Derived) bool {
	return d != nil && !d.pinned && d != other
}

// handOver gives d's map to to. Unless d is an anonymous term, d is marked
// evicted and collects the undo journal of the merge that follows.
func (d *Derived) handOver(to *Derived) (gradient, *[]undo) {
	g := d.grad
	if g == nil {
		g = gradient{}
	}
	d.grad = nil
	if d.anon {
		return g, nil
	}
	d.takenBy = to
	d.journal = nil
	return g, &d.journal
}

// resolve merges the lazy union. The larger takeable source map is reused
// in place; if neither source can give up its map the base is copied.
func (d *Derived) resolve() {
	base, pending := d.base, d.pending
	d.base, d.pending = nil, nil

	if pending == nil {
		if base.canTake(d) {
			base.view()
			d.grad, _ = base.handOver(d)
			return
		}
		g := base.view()
		copiedEntries.Add(int64(len(g)))
		d.grad = g.clone()
		return
	}

	// Viewing one source may resolve it by taking the other's map, so the
	// base is looked at again; a rebuild never takes anything.
	base.view()
	pending.view()
	base.view()

	bg, pg := base.grad, pending.grad
	takePending := pending.canTake(base)
	takeBase := base.canTake(pending)
	if takePending && takeBase && len(bg) > len(pg) {
		takePending = false
	}

	switch {
	case takePending:
		g, j := pending.handOver(d)
		mergeInto(g, bg, j)
		d.grad = g
	case takeBase:
		g, j := base.handOver(d)
		mergeInto(g, pg, j)
		d.grad = g
	default:
		copiedEntries.Add(int64(len(bg)))
		logger.Debug("gradient union copied",
			zap.Int("base", len(bg)), zap.Int("pending", len(pg)))
		g := bg.clone()
		mergeInto(g, pg, nil)
		d.grad = g
	}
}

// rebuild restores an evicted view: copy the current owner's map and undo
// the merges made on top of d, newest first.
func (d *Derived) rebuild() {
	var chain []*Derived
	q := d
	for q.takenBy != nil {
		chain = append(chain, q)
		q = q.takenBy
	}
	g := q.grad.clone()
	copiedEntries.Add(int64(len(g)))
	for i := len(chain) - 1; i >= 0; i-- {
		for _, u := range chain[i].journal {
			if u.existed {
				g[u.leaf] = u.weight
			} else {
				delete(g, u.leaf)
			}
		}
	}
	if len(chain) > 1 {
		logger.Debug("evicted gradient rebuilt", zap.Int("chain", len(chain)), zap.Int("leaves", len(g)))
	}
	d.grad = g
	d.takenBy = nil
	d.journal = nil
}

// ============================================================
// Reads
// ============================================================

// Gradient returns a copy of ∂value/∂leaf for every leaf the value depends on.
func (d *Derived) Gradient() map[*Leaf]float64 {
	return d.view().clone()
}

// Weight returns ∂value/∂l, zero if the value does not depend on l.
func (d *Derived) Weight(l *Leaf) float64 { return d.view()[l] }

// Leaves returns the leaves the value depends on, in creation order.
func (d *Derived) Leaves() []*Leaf {
	g := d.view()
	out := make([]*Leaf, 0, len(g))
	for l := range g {
		out = append(out, l)
	}
	slices.SortFunc(out, func(a, b *Leaf) int { return cmp.Compare(a.id, b.id) })
	return out
}

// Covariance returns cov(d, other). A Const has zero covariance with anything.
func (d *Derived) Covariance(other Operand) float64 {
	_, o := operand("covariance", other)
	if o == nil {
		return 0
	}
	g1 := d.view()
	g2 := o.view()
	g1 = d.view()
	return covariance(g1, g2)
}

func covariance(g1, g2 gradient) float64 {
	var s float64
	for li, wi := range g1 {
		for lj, c := range li.cov {
			if wj, ok := g2[lj]; ok {
				s += wi * c * wj
			}
		}
	}
	return s
}

func (d *Derived) Variance() float64 {
	g := d.view()
	return covariance(g, g)
}

// Error returns the standard error.
func (d *Derived) Error() float64 { return math.Sqrt(d.Variance()) }

// RelativeError returns |error/value|; ok is false when the value is zero.
func (d *Derived) RelativeError() (rel float64, ok bool) {
	if d.value == 0 {
		return 0, false
	}
	return math.Abs(d.Error() / d.value), true
}

// EqualWithinTolerance reports whether d and other agree within f standard
// errors of their difference. Correlations between the two are included.
func (d *Derived) EqualWithinTolerance(other Operand, f float64) bool {
	ov, o := operand("equal", other)
	v := d.Variance()
	if o != nil {
		v += o.Variance() - 2*d.Covariance(o)
	}
	if v < 0 {
		v = 0
	}
	return math.Abs(d.value-ov) <= f*math.Sqrt(v)
}

// Cmp orders nominal values: -1, 0 or +1.
func (d *Derived) Cmp(other Operand) int {
	ov, _ := operand("cmp", other)
	return cmp.Compare(d.value, ov)
}

// String renders the value in parenthetical notation with DefaultFormatter.
func (d *Derived) String() string { return Format(d.value, d.Error()) }
