package faces

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Cortex-Attendance-Backend/src/config"
	"Cortex-Attendance-Backend/src/models"
	"Cortex-Attendance-Backend/src/recognition"
	"Cortex-Attendance-Backend/src/services/attendance"
	"Cortex-Attendance-Backend/src/storage/memstore"
)

// stubExtractor returns a fixed descriptor (or error) regardless of input.
type stubExtractor struct {
	vec []float64
	err error
}

var _ recognition.Extractor = (*stubExtractor)(nil)

func (s *stubExtractor) Extract(_ []byte) ([]float64, error) {
	if s.err != nil {
		return nil, s.err
	}
	return append([]float64(nil), s.vec...), nil
}

func descriptorAt(d float64) []float64 {
	v := make([]float64, recognition.DescriptorSize)
	v[0] = d
	return v
}

type fixture struct {
	svc   *Service
	stub  *stubExtractor
	store *memstore.Store
	att   *attendance.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	att := attendance.NewService(store, time.UTC, &config.Settings{
		LabOpenHour:     12,
		LabCloseHour:    17,
		LateCutoffHour:  13,
		EnforceLabHours: true,
	})
	stub := &stubExtractor{vec: descriptorAt(0)}
	svc := NewService(stub, recognition.NewMatcher(0.6), store, store, memstore.NewBlobs(), att)
	return &fixture{svc: svc, stub: stub, store: store, att: att}
}

func (f *fixture) addUser(t *testing.T, name string) *models.User {
	t.Helper()
	user := &models.User{Name: name, Email: name + "@lab.test", Role: models.RoleMember, IsActive: true}
	require.NoError(t, f.store.Insert(context.Background(), user))
	return user
}

func onTime() time.Time {
	return time.Date(2026, 3, 2, 12, 15, 0, 0, time.UTC)
}

func TestEnrollStoresDescriptor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.addUser(t, "asha")

	require.NoError(t, f.svc.Enroll(ctx, user.ID, []byte("jpeg")))

	gallery, err := f.store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, gallery, 1)
	assert.Equal(t, user.ID, gallery[0].UserID)
	assert.Equal(t, f.stub.vec, gallery[0].Descriptor)

	updated, err := f.store.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, updated.FaceRegistered)
	assert.NotEmpty(t, updated.FaceImagePath)
}

func TestEnrollFailedExtractionMutatesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.addUser(t, "asha")
	f.stub.err = recognition.ErrNoFaceDetected

	err := f.svc.Enroll(ctx, user.ID, []byte("jpeg"))
	assert.ErrorIs(t, err, recognition.ErrNoFaceDetected)

	gallery, err := f.store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, gallery)

	updated, err := f.store.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, updated.FaceRegistered)
}

func TestReEnrollReplacesDescriptor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.addUser(t, "asha")

	require.NoError(t, f.svc.Enroll(ctx, user.ID, []byte("first")))
	f.stub.vec = descriptorAt(0.2)
	require.NoError(t, f.svc.Enroll(ctx, user.ID, []byte("second")))

	gallery, err := f.store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, gallery, 1, "re-enrollment must replace, not add")
	assert.Equal(t, descriptorAt(0.2), gallery[0].Descriptor)
}

func TestVerifyAndMarkChecksInThenOut(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.addUser(t, "asha")
	require.NoError(t, f.svc.Enroll(ctx, user.ID, []byte("jpeg")))

	res, err := f.svc.VerifyAndMark(ctx, []byte("probe"), onTime())
	require.NoError(t, err)
	assert.Equal(t, TransitionCheckIn, res.Transition)
	assert.Equal(t, user.ID, res.User.ID)
	assert.Equal(t, models.SourceFace, res.Record.Source)
	require.NotNil(t, res.Record.CheckIn)

	res, err = f.svc.VerifyAndMark(ctx, []byte("probe"), onTime().Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, TransitionCheckOut, res.Transition)
	require.NotNil(t, res.Record.CheckOut)

	// the day is closed now
	_, err = f.svc.VerifyAndMark(ctx, []byte("probe"), onTime().Add(3*time.Hour))
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestVerifyAndMarkUnrecognized(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.addUser(t, "asha")
	require.NoError(t, f.svc.Enroll(ctx, user.ID, []byte("jpeg")))

	f.stub.vec = descriptorAt(1.5) // far from every gallery entry
	_, err := f.svc.VerifyAndMark(ctx, []byte("probe"), onTime())
	assert.ErrorIs(t, err, ErrUnrecognizedFace)

	records, err := f.store.FindByDate(ctx, "2026-03-02")
	require.NoError(t, err)
	assert.Empty(t, records, "an unmatched probe must not create records")
}

func TestVerifyAndMarkStaleEncoding(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.addUser(t, "asha")
	require.NoError(t, f.svc.Enroll(ctx, user.ID, []byte("jpeg")))

	// account removed but its gallery entry left behind
	require.NoError(t, f.store.Delete(ctx, user.ID))

	_, err := f.svc.VerifyAndMark(ctx, []byte("probe"), onTime())
	assert.ErrorIs(t, err, ErrUnrecognizedFace)
}

func TestVerifyAndMarkExtractionErrorPassesThrough(t *testing.T) {
	f := newFixture(t)
	f.stub.err = recognition.ErrInvalidImage

	_, err := f.svc.VerifyAndMark(context.Background(), []byte("not a jpeg"), onTime())
	assert.ErrorIs(t, err, recognition.ErrInvalidImage)
}

func TestRemoveEnrollment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.addUser(t, "asha")
	require.NoError(t, f.svc.Enroll(ctx, user.ID, []byte("jpeg")))

	require.NoError(t, f.svc.RemoveEnrollment(ctx, user.ID))

	gallery, err := f.store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, gallery)
}

func TestVerifyAndMarkEarliestEnrolledWinsOnTie(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.addUser(t, "first")
	second := f.addUser(t, "second")

	// both within tolerance of the probe; enrolled in order
	require.NoError(t, f.store.Upsert(ctx, models.FaceEncoding{
		UserID: first.ID, Descriptor: descriptorAt(0.3), EnrolledAt: onTime().Add(-2 * time.Hour),
	}))
	require.NoError(t, f.store.Upsert(ctx, models.FaceEncoding{
		UserID: second.ID, Descriptor: descriptorAt(0.1), EnrolledAt: onTime().Add(-time.Hour),
	}))

	res, err := f.svc.VerifyAndMark(ctx, []byte("probe"), onTime())
	require.NoError(t, err)
	assert.Equal(t, first.ID, res.User.ID)
}
