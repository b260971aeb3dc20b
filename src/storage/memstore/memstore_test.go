package memstore

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"Cortex-Attendance-Backend/src/models"
	"Cortex-Attendance-Backend/src/storage"
)

func TestGalleryRoundTripExact(t *testing.T) {
	s := New()
	ctx := context.Background()
	id := primitive.NewObjectID()

	// values chosen to catch any lossy conversion
	descriptor := []float64{0.1, -0.2, math.Pi, 1e-17, -0.0, 0.6000000000000001}
	require.NoError(t, s.Upsert(ctx, models.FaceEncoding{UserID: id, Descriptor: descriptor}))

	gallery, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, gallery, 1)
	assert.Equal(t, descriptor, gallery[0].Descriptor)
}

func TestGalleryUpsertLastWriteWins(t *testing.T) {
	s := New()
	ctx := context.Background()
	id := primitive.NewObjectID()

	require.NoError(t, s.Upsert(ctx, models.FaceEncoding{UserID: id, Descriptor: []float64{1}}))
	require.NoError(t, s.Upsert(ctx, models.FaceEncoding{UserID: id, Descriptor: []float64{2}}))

	gallery, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, gallery, 1)
	assert.Equal(t, []float64{2}, gallery[0].Descriptor)
}

func TestGalleryLoadEnrolledAtOrder(t *testing.T) {
	s := New()
	ctx := context.Background()
	older := primitive.NewObjectID()
	newer := primitive.NewObjectID()
	now := time.Now()

	require.NoError(t, s.Upsert(ctx, models.FaceEncoding{UserID: newer, Descriptor: []float64{2}, EnrolledAt: now}))
	require.NoError(t, s.Upsert(ctx, models.FaceEncoding{UserID: older, Descriptor: []float64{1}, EnrolledAt: now.Add(-time.Hour)}))

	gallery, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, gallery, 2)
	assert.Equal(t, older, gallery[0].UserID)
	assert.Equal(t, newer, gallery[1].UserID)
}

func TestGallerySaveReplacesAll(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, models.FaceEncoding{UserID: primitive.NewObjectID(), Descriptor: []float64{1}}))
	kept := primitive.NewObjectID()
	require.NoError(t, s.Save(ctx, []models.FaceEncoding{{UserID: kept, Descriptor: []float64{9}}}))

	gallery, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, gallery, 1)
	assert.Equal(t, kept, gallery[0].UserID)
}

func TestInsertIfAbsentRejectsDuplicateKey(t *testing.T) {
	s := New()
	ctx := context.Background()
	userID := primitive.NewObjectID()

	require.NoError(t, s.InsertIfAbsent(ctx, &models.AttendanceRecord{UserID: userID, Date: "2026-03-02"}))

	err := s.InsertIfAbsent(ctx, &models.AttendanceRecord{UserID: userID, Date: "2026-03-02"})
	assert.ErrorIs(t, err, storage.ErrDuplicateRecord)

	// different date is a different key
	assert.NoError(t, s.InsertIfAbsent(ctx, &models.AttendanceRecord{UserID: userID, Date: "2026-03-03"}))
}

func TestInsertIfAbsentAssignsID(t *testing.T) {
	s := New()
	rec := &models.AttendanceRecord{UserID: primitive.NewObjectID(), Date: "2026-03-02"}

	require.NoError(t, s.InsertIfAbsent(context.Background(), rec))
	assert.False(t, rec.ID.IsZero())
}

func TestCloseOpenRecordRequiresOpenRecord(t *testing.T) {
	s := New()
	ctx := context.Background()
	userID := primitive.NewObjectID()
	now := time.Now()

	// no record at all
	_, err := s.CloseOpenRecord(ctx, userID, "2026-03-02", now, models.StatusCheckedOut)
	assert.ErrorIs(t, err, storage.ErrNoOpenRecord)

	// absent record: no check-in, not open
	require.NoError(t, s.InsertIfAbsent(ctx, &models.AttendanceRecord{
		UserID: userID, Date: "2026-03-02", Status: models.StatusAbsent,
	}))
	_, err = s.CloseOpenRecord(ctx, userID, "2026-03-02", now, models.StatusCheckedOut)
	assert.ErrorIs(t, err, storage.ErrNoOpenRecord)
}

func TestCloseOpenRecordIsOneShot(t *testing.T) {
	s := New()
	ctx := context.Background()
	userID := primitive.NewObjectID()
	in := time.Now()

	require.NoError(t, s.InsertIfAbsent(ctx, &models.AttendanceRecord{
		UserID: userID, Date: "2026-03-02", CheckIn: &in, Status: models.StatusCheckedIn,
	}))

	rec, err := s.CloseOpenRecord(ctx, userID, "2026-03-02", in.Add(time.Hour), models.StatusCheckedOut)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCheckedOut, rec.Status)

	_, err = s.CloseOpenRecord(ctx, userID, "2026-03-02", in.Add(2*time.Hour), models.StatusCheckedOut)
	assert.ErrorIs(t, err, storage.ErrNoOpenRecord)
}

func TestFindByUserNewestFirstWithLimit(t *testing.T) {
	s := New()
	ctx := context.Background()
	userID := primitive.NewObjectID()

	for _, date := range []string{"2026-03-01", "2026-03-03", "2026-03-02"} {
		require.NoError(t, s.InsertIfAbsent(ctx, &models.AttendanceRecord{UserID: userID, Date: date}))
	}
	// another user's record must not leak in
	require.NoError(t, s.InsertIfAbsent(ctx, &models.AttendanceRecord{UserID: primitive.NewObjectID(), Date: "2026-03-04"}))

	records, err := s.FindByUser(ctx, userID, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2026-03-03", records[0].Date)
	assert.Equal(t, "2026-03-02", records[1].Date)
}

func TestUserInsertRejectsDuplicateEmail(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, &models.User{Name: "Asha", Email: "asha@lab.test"}))

	err := s.Insert(ctx, &models.User{Name: "Imposter", Email: "Asha@Lab.Test"})
	assert.ErrorIs(t, err, storage.ErrDuplicateRecord, "email comparison is case-insensitive")
}

func TestUserLifecycle(t *testing.T) {
	s := New()
	ctx := context.Background()

	user := &models.User{Name: "Asha", Email: "asha@lab.test", Role: models.RoleMember}
	require.NoError(t, s.Insert(ctx, user))
	require.False(t, user.ID.IsZero())

	require.NoError(t, s.SetActive(ctx, user.ID, true))
	require.NoError(t, s.SetFaceRegistered(ctx, user.ID, "uploads/faces/x.jpg"))

	got, err := s.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)
	assert.True(t, got.FaceRegistered)
	assert.Equal(t, "uploads/faces/x.jpg", got.FaceImagePath)

	count, err := s.CountByRole(ctx, models.RoleMember, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, s.Delete(ctx, user.ID))
	_, err = s.FindByID(ctx, user.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, user.ID), storage.ErrNotFound)
}

func TestBlobsPutAndRemove(t *testing.T) {
	b := NewBlobs()
	id := primitive.NewObjectID()

	path, err := b.Put(id, []byte("jpeg"))
	require.NoError(t, err)
	assert.Equal(t, "mem://"+id.Hex(), path)

	assert.NoError(t, b.Remove(id))
	assert.NoError(t, b.Remove(id), "removing a missing blob is not an error")
}
