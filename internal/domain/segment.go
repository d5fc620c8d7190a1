package domain

// Segment identifies one of the home catalog's audience groups.
type Segment string

const (
	SegmentMale   Segment = "male"
	SegmentFemale Segment = "female"
	SegmentCouple Segment = "couple"
)

// Segments lists all segments in display order.
var Segments = []Segment{SegmentMale, SegmentFemale, SegmentCouple}

// SegmentSlugs maps each segment to the category slug it is backed by.
var SegmentSlugs = map[Segment]string{
	SegmentMale:   "dong-ho-nam",
	SegmentFemale: "dong-ho-nu",
	SegmentCouple: "dong-ho-unisex",
}

// Valid reports whether s is a known segment.
func (s Segment) Valid() bool {
	_, ok := SegmentSlugs[s]
	return ok
}
