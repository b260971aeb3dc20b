package recognition

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"Cortex-Attendance-Backend/src/models"
)

// descriptorAt builds a 128-dim vector whose Euclidean distance from the
// zero vector is exactly d.
func descriptorAt(d float64) []float64 {
	v := make([]float64, DescriptorSize)
	v[0] = d
	return v
}

func entry(id primitive.ObjectID, d float64) models.FaceEncoding {
	return models.FaceEncoding{UserID: id, Descriptor: descriptorAt(d)}
}

func TestDistance(t *testing.T) {
	assert.Equal(t, 0.0, Distance(descriptorAt(0), descriptorAt(0)))
	assert.InDelta(t, 0.4, Distance(descriptorAt(0), descriptorAt(0.4)), 1e-12)
	assert.InDelta(t, 0.4, Distance(descriptorAt(0.4), descriptorAt(0)), 1e-12)
}

func TestDistanceDimensionMismatch(t *testing.T) {
	assert.Equal(t, math.MaxFloat64, Distance(descriptorAt(0), []float64{1, 2, 3}))
}

func TestMatchWithinTolerance(t *testing.T) {
	m := NewMatcher(0.6)
	id := primitive.NewObjectID()

	res, ok := m.Match(descriptorAt(0), []models.FaceEncoding{entry(id, 0.3)})
	require.True(t, ok)
	assert.Equal(t, id, res.UserID)
	assert.InDelta(t, 0.3, res.Distance, 1e-12)
	assert.InDelta(t, 0.7, res.Confidence, 1e-12)
}

func TestMatchExactlyAtTolerance(t *testing.T) {
	m := NewMatcher(0.6)

	_, ok := m.Match(descriptorAt(0), []models.FaceEncoding{entry(primitive.NewObjectID(), 0.6)})
	assert.True(t, ok, "distance equal to tolerance should still match")
}

func TestMatchBeyondTolerance(t *testing.T) {
	m := NewMatcher(0.6)

	_, ok := m.Match(descriptorAt(0), []models.FaceEncoding{entry(primitive.NewObjectID(), 0.61)})
	assert.False(t, ok)
}

func TestMatchEmptyGallery(t *testing.T) {
	m := NewMatcher(0.6)

	_, ok := m.Match(descriptorAt(0), nil)
	assert.False(t, ok)
}

// The matcher takes the first entry within tolerance in gallery order, not
// the nearest one overall.
func TestMatchFirstQualifyingWins(t *testing.T) {
	m := NewMatcher(0.6)
	first := primitive.NewObjectID()
	closer := primitive.NewObjectID()

	res, ok := m.Match(descriptorAt(0), []models.FaceEncoding{
		entry(first, 0.5),
		entry(closer, 0.1),
	})
	require.True(t, ok)
	assert.Equal(t, first, res.UserID)
}

func TestMatchSkipsNonQualifyingEntries(t *testing.T) {
	m := NewMatcher(0.6)
	far := primitive.NewObjectID()
	near := primitive.NewObjectID()

	res, ok := m.Match(descriptorAt(0), []models.FaceEncoding{
		entry(far, 0.9),
		entry(near, 0.2),
	})
	require.True(t, ok)
	assert.Equal(t, near, res.UserID)
}

func TestMatchDimensionMismatchNeverQualifies(t *testing.T) {
	m := NewMatcher(0.6)

	_, ok := m.Match(descriptorAt(0), []models.FaceEncoding{
		{UserID: primitive.NewObjectID(), Descriptor: []float64{0, 0, 0}},
	})
	assert.False(t, ok)
}

func TestConfidenceClampedAtZero(t *testing.T) {
	m := NewMatcher(2.0)

	res, ok := m.Match(descriptorAt(0), []models.FaceEncoding{entry(primitive.NewObjectID(), 1.5)})
	require.True(t, ok)
	assert.Equal(t, 0.0, res.Confidence)
}

func TestNewMatcherDefaultsTolerance(t *testing.T) {
	assert.Equal(t, DefaultTolerance, NewMatcher(0).Tolerance)
	assert.Equal(t, DefaultTolerance, NewMatcher(-1).Tolerance)
	assert.Equal(t, 0.4, NewMatcher(0.4).Tolerance)
}
