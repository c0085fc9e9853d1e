package circuit

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Side identifies the half of the circuit a component belongs to.
type Side int

const (
	Top Side = iota
	Bottom
)

func (s Side) String() string {
	if s == Bottom {
		return "bottom"
	}
	return "top"
}

// mirror reflects v about the capacitor mid-plane.
func mirror(v r3.Vec) r3.Vec { return r3.Vec{X: v.X, Y: -v.Y, Z: v.Z} }

func mirrorBox(b r3.Box) r3.Box {
	return r3.Box{
		Min: r3.Vec{X: b.Min.X, Y: -b.Max.Y, Z: b.Min.Z},
		Max: r3.Vec{X: b.Max.X, Y: -b.Min.Y, Z: b.Max.Z},
	}
}

func onSide(v r3.Vec, s Side) r3.Vec {
	if s == Bottom {
		return mirror(v)
	}
	return v
}

func boxOnSide(b r3.Box, s Side) r3.Box {
	if s == Bottom {
		return mirrorBox(b)
	}
	return b
}

// centeredBox returns the box of the given width and height around c.
func centeredBox(c r3.Vec, width, height float64) r3.Box {
	half := r3.Vec{X: width / 2, Y: height / 2}
	return r3.Box{Min: r3.Sub(c, half), Max: r3.Add(c, half)}
}

// Segment is a straight piece of wire.
type Segment struct {
	Start     r3.Vec
	End       r3.Vec
	Thickness float64
}

func (s Segment) mirrored() Segment {
	return Segment{Start: mirror(s.Start), End: mirror(s.End), Thickness: s.Thickness}
}

// Probe is a voltmeter probe tip.
type Probe struct {
	Tip    r3.Vec
	Radius float64
}

// NewProbe places a probe tip at (x, y) in the drawing plane.
func NewProbe(x, y, radius float64) Probe {
	return Probe{Tip: r3.Vec{X: x, Y: y}, Radius: radius}
}

// Touches reports whether two probe tips are in contact.
func (p Probe) Touches(q Probe) bool {
	return r3.Norm(r3.Sub(p.Tip, q.Tip)) <= p.Radius+q.Radius
}

// TouchesBox reports whether the tip overlaps b.
func (p Probe) TouchesBox(b r3.Box) bool {
	closest := r3.Vec{
		X: clamp(p.Tip.X, b.Min.X, b.Max.X),
		Y: clamp(p.Tip.Y, b.Min.Y, b.Max.Y),
		Z: clamp(p.Tip.Z, b.Min.Z, b.Max.Z),
	}
	return r3.Norm(r3.Sub(p.Tip, closest)) <= p.Radius
}

// TouchesSegment reports whether the tip overlaps the wire.
func (p Probe) TouchesSegment(s Segment) bool {
	return distanceToSegment(p.Tip, s.Start, s.End) <= p.Radius+s.Thickness/2
}

func distanceToSegment(pt, a, b r3.Vec) float64 {
	ab := r3.Sub(b, a)
	lenSq := r3.Dot(ab, ab)
	if lenSq == 0 {
		return r3.Norm(r3.Sub(pt, a))
	}
	t := clamp(r3.Dot(r3.Sub(pt, a), ab)/lenSq, 0, 1)
	return r3.Norm(r3.Sub(pt, r3.Add(a, r3.Scale(t, ab))))
}

func clamp(v, lo, hi float64) float64 { return math.Max(lo, math.Min(hi, v)) }
