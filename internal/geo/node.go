package geo

import "encoding/json"

// Node is one element of a GeoJSON coordinate tree. It is either a Pair
// (a leaf position), a Nested array of further nodes, or a Raw value that is
// not part of the coordinate structure and is carried through untouched.
type Node interface {
	node()
}

// Pair is a leaf position. Rest holds any trailing members (elevation, measures).
type Pair struct {
	Lon  float64
	Lat  float64
	Rest []any
}

// Nested is an array of nodes (a ring, a line, a polygon, ...).
type Nested []Node

// Raw is a non-coordinate value found inside a coordinate tree.
type Raw struct {
	Value any
}

func (Pair) node()   {}
func (Nested) node() {}
func (Raw) node()    {}

// Values returns the pair as a flat position array.
func (p Pair) Values() []any {
	out := make([]any, 0, 2+len(p.Rest))
	out = append(out, p.Lon, p.Lat)
	return append(out, p.Rest...)
}

// Coordinate returns the horizontal part of the pair.
func (p Pair) Coordinate() Coordinate {
	return Coordinate{Lon: p.Lon, Lat: p.Lat}
}

// MarshalJSON encodes the pair as a position array.
func (p Pair) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Values())
}

// MarshalYAML encodes the pair as a position sequence.
func (p Pair) MarshalYAML() (interface{}, error) {
	return p.Values(), nil
}

// MarshalJSON encodes the wrapped value as is.
func (r Raw) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Value)
}

// MarshalYAML encodes the wrapped value as is.
func (r Raw) MarshalYAML() (interface{}, error) {
	return r.Value, nil
}

// ParseNode builds a coordinate tree from a loosely typed value.
// An array whose first two members are numbers is a leaf pair; any other
// array is nested; anything else is Raw. The result shares no memory with v.
func ParseNode(v any) Node {
	arr, ok := AsSlice(v)
	if !ok {
		return Raw{Value: Clone(v)}
	}

	if len(arr) >= 2 {
		lon, lonOK := Number(arr[0])
		lat, latOK := Number(arr[1])
		if lonOK && latOK {
			p := Pair{Lon: lon, Lat: lat}
			if len(arr) > 2 {
				p.Rest = Clone(arr[2:]).([]any)
			}
			return p
		}
	}

	out := make(Nested, len(arr))
	for i, e := range arr {
		out[i] = ParseNode(e)
	}
	return out
}

// WalkPairs calls fn for every leaf pair in depth-first order.
func WalkPairs(n Node, fn func(Pair)) {
	switch t := n.(type) {
	case Pair:
		fn(t)
	case Nested:
		for _, c := range t {
			WalkPairs(c, fn)
		}
	}
}

// FirstPair returns the first leaf pair found depth-first.
func FirstPair(n Node) (Pair, bool) {
	switch t := n.(type) {
	case Pair:
		return t, true
	case Nested:
		for _, c := range t {
			if p, ok := FirstPair(c); ok {
				return p, true
			}
		}
	}
	return Pair{}, false
}

// CountNumbers returns how many numeric scalars the tree holds once flattened,
// trailing pair members included.
func CountNumbers(n Node) int {
	switch t := n.(type) {
	case Pair:
		count := 2
		for _, e := range t.Rest {
			if _, ok := Number(e); ok {
				count++
			}
		}
		return count
	case Nested:
		count := 0
		for _, c := range t {
			count += CountNumbers(c)
		}
		return count
	case Raw:
		if _, ok := Number(t.Value); ok {
			return 1
		}
	}
	return 0
}
