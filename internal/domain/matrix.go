package domain

// DistanceMatrix holds pairwise road distances in meters between indexed
// coordinates. Entry [i][j] is the distance from coordinate i to coordinate j;
// a nil entry means the provider could not determine the pair. Consumers
// decide how to interpret missing entries.
type DistanceMatrix [][]*float64

// CoordinateSet is the deduplicated, insertion-ordered collection of
// coordinates referenced by a set of deliveries. The first occurrence of a
// coordinate wins its index, so index assignment is reproducible for a given
// input ordering. Rebuilt on every optimization run, never persisted.
type CoordinateSet struct {
	coords []Coordinates
	index  map[Coordinates]int
}

func NewCoordinateSet() *CoordinateSet {
	return &CoordinateSet{index: make(map[Coordinates]int)}
}

// CoordinateSetFromDeliveries collects every start and customer coordinate
// across the deliveries, in record order (start before customer per record).
func CoordinateSetFromDeliveries(deliveries []Delivery) *CoordinateSet {
	s := NewCoordinateSet()
	for _, d := range deliveries {
		s.Add(d.StartCoord)
		s.Add(d.CustomerCoord)
	}
	return s
}

// Add inserts the coordinate if unseen and returns its stable index.
func (s *CoordinateSet) Add(c Coordinates) int {
	if i, ok := s.index[c]; ok {
		return i
	}
	i := len(s.coords)
	s.coords = append(s.coords, c)
	s.index[c] = i
	return i
}

// Index returns the stable index for a previously added coordinate.
func (s *CoordinateSet) Index(c Coordinates) (int, bool) {
	i, ok := s.index[c]
	return i, ok
}

// Coordinates returns the coordinates in insertion order.
func (s *CoordinateSet) Coordinates() []Coordinates {
	out := make([]Coordinates, len(s.coords))
	copy(out, s.coords)
	return out
}

func (s *CoordinateSet) Len() int { return len(s.coords) }
