// Package layout partitions a 1-based index space into fixed-size windows
// separated by fixed-size gaps.
package layout

import (
	"math"

	"github.com/arloliu/rotawin/types"
)

// Layout is the immutable window partition of an index space.
//
// Window b (0-based) occupies [1 + b*stride, 1 + b*stride + w - 1] where
// stride = w + g. Only full windows are created; indices after the last full
// stride form an unusable tail.
type Layout struct {
	n       int
	w       int
	g       int
	stride  int
	windows []types.Window
}

// New computes the layout for an index space of n indices, windows of w
// indices and gaps of g indices.
//
// Callers validate the parameters; New assumes n > 0, w > 0 and g >= 0.
// When w + g does not fit in an int the stride saturates at math.MaxInt and
// the layout has no windows.
//
// Example:
//
//	l := layout.New(20, 4, 1)
//	l.NumWindows() // 4: [1-4] [6-9] [11-14] [16-19]
func New(n, w, g int) Layout {
	stride := math.MaxInt
	if g <= math.MaxInt-w {
		stride = w + g
	}

	count := 0
	if w <= n && g <= n-w {
		count = n / stride
	}

	windows := make([]types.Window, count)
	for b := range count {
		start := 1 + b*stride
		windows[b] = types.Window{Start: start, End: start + w - 1}
	}

	return Layout{n: n, w: w, g: g, stride: stride, windows: windows}
}

// Size returns n, the number of indices in the space.
func (l Layout) Size() int { return l.n }

// WindowSize returns w.
func (l Layout) WindowSize() int { return l.w }

// GapSize returns g.
func (l Layout) GapSize() int { return l.g }

// Stride returns w + g.
func (l Layout) Stride() int { return l.stride }

// NumWindows returns the number of full windows.
func (l Layout) NumWindows() int { return len(l.windows) }

// Window returns window b. It panics if b is out of range.
func (l Layout) Window(b int) types.Window {
	return l.windows[b]
}

// Windows returns a copy of the window list.
func (l Layout) Windows() []types.Window {
	out := make([]types.Window, len(l.windows))
	copy(out, l.windows)

	return out
}

// Capacity returns the number of indices inside windows.
//
// Gaps and the unusable tail are excluded by construction.
func (l Layout) Capacity() int {
	return len(l.windows) * l.w
}

// UnusableTail returns the number of trailing indices that do not form a full stride.
func (l Layout) UnusableTail() int {
	return l.n - len(l.windows)*l.stride
}

// GapWaste returns the number of indices lost to gaps between windows.
func (l Layout) GapWaste() int {
	return len(l.windows) * l.g
}

// WindowOf maps a 1-based index to the window containing it.
//
// Returns:
//   - int: Window index (0-based), valid only when ok is true
//   - bool: false for indices in a gap, in the tail, or outside [1, n]
func (l Layout) WindowOf(index int) (int, bool) {
	if index < 1 || index > l.n {
		return 0, false
	}

	b := (index - 1) / l.stride
	if b >= len(l.windows) {
		return 0, false
	}
	if (index-1)%l.stride >= l.w {
		return 0, false
	}

	return b, true
}
