package recognition

import (
	"math"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"gonum.org/v1/gonum/floats"

	"Cortex-Attendance-Backend/src/models"
)

// DefaultTolerance is the distance threshold below which two descriptors
// count as the same person.
const DefaultTolerance = 0.6

// MatchResult identifies the gallery entry a probe matched.
type MatchResult struct {
	UserID     primitive.ObjectID
	Distance   float64
	Confidence float64
}

// Matcher compares a probe descriptor against the gallery under a fixed
// tolerance.
type Matcher struct {
	Tolerance float64
}

func NewMatcher(tolerance float64) *Matcher {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &Matcher{Tolerance: tolerance}
}

// Match returns the first gallery entry within tolerance, in gallery order.
// Note this is first-qualifying, not nearest-neighbor: with several
// qualifying entries the earliest-enrolled one wins.
func (m *Matcher) Match(probe []float64, gallery []models.FaceEncoding) (*MatchResult, bool) {
	for _, enc := range gallery {
		d := Distance(probe, enc.Descriptor)
		if d <= m.Tolerance {
			return &MatchResult{
				UserID:     enc.UserID,
				Distance:   d,
				Confidence: confidence(d),
			}, true
		}
	}
	return nil, false
}

// Distance is the Euclidean distance between two descriptors. Vectors of
// different lengths never match.
func Distance(a, b []float64) float64 {
	if len(a) != len(b) {
		return math.MaxFloat64
	}
	return floats.Distance(a, b, 2)
}

func confidence(distance float64) float64 {
	return math.Max(0, 1-distance)
}
