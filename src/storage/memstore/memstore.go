// Package memstore implements the storage interfaces in memory. It backs
// the test suites and mirrors mongostore's semantics, including the
// one-record-per-(user, date) conditional insert.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"Cortex-Attendance-Backend/src/models"
	"Cortex-Attendance-Backend/src/storage"
)

// Store implements GalleryStore, AttendanceStore and UserStore behind one
// mutex.
type Store struct {
	mu        sync.RWMutex
	encodings map[primitive.ObjectID]models.FaceEncoding
	records   map[string]*models.AttendanceRecord // key: userID.Hex()|date
	users     map[primitive.ObjectID]models.User
}

func New() *Store {
	return &Store{
		encodings: make(map[primitive.ObjectID]models.FaceEncoding),
		records:   make(map[string]*models.AttendanceRecord),
		users:     make(map[primitive.ObjectID]models.User),
	}
}

func recordKey(userID primitive.ObjectID, date string) string {
	return userID.Hex() + "|" + date
}

// ---- GalleryStore ----

func (s *Store) Load(ctx context.Context) ([]models.FaceEncoding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	encodings := make([]models.FaceEncoding, 0, len(s.encodings))
	for _, enc := range s.encodings {
		cp := enc
		cp.Descriptor = append([]float64(nil), enc.Descriptor...)
		encodings = append(encodings, cp)
	}
	sort.Slice(encodings, func(i, j int) bool {
		return encodings[i].EnrolledAt.Before(encodings[j].EnrolledAt)
	})
	return encodings, nil
}

func (s *Store) Save(ctx context.Context, encodings []models.FaceEncoding) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.encodings = make(map[primitive.ObjectID]models.FaceEncoding, len(encodings))
	for _, enc := range encodings {
		cp := enc
		cp.Descriptor = append([]float64(nil), enc.Descriptor...)
		s.encodings[enc.UserID] = cp
	}
	return nil
}

func (s *Store) Upsert(ctx context.Context, enc models.FaceEncoding) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := enc
	cp.Descriptor = append([]float64(nil), enc.Descriptor...)
	s.encodings[enc.UserID] = cp
	return nil
}

func (s *Store) Remove(ctx context.Context, userID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.encodings, userID)
	return nil
}

// ---- AttendanceStore ----

func (s *Store) InsertIfAbsent(ctx context.Context, rec *models.AttendanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := recordKey(rec.UserID, rec.Date)
	if _, exists := s.records[key]; exists {
		return storage.ErrDuplicateRecord
	}
	if rec.ID.IsZero() {
		rec.ID = primitive.NewObjectID()
	}
	cp := *rec
	s.records[key] = &cp
	return nil
}

func (s *Store) FindByUserDate(ctx context.Context, userID primitive.ObjectID, date string) (*models.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[recordKey(userID, date)]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (s *Store) CloseOpenRecord(ctx context.Context, userID primitive.ObjectID, date string, at time.Time, status models.AttendanceStatus) (*models.AttendanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[recordKey(userID, date)]
	if !ok || !rec.Open() {
		return nil, storage.ErrNoOpenRecord
	}
	out := at
	rec.CheckOut = &out
	rec.Status = status
	cp := *rec
	return &cp, nil
}

func (s *Store) FindByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []models.AttendanceRecord
	for _, rec := range s.records {
		if rec.UserID == userID {
			records = append(records, *rec)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Date > records[j].Date })
	if limit > 0 && int64(len(records)) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (s *Store) FindByDate(ctx context.Context, date string) ([]models.AttendanceRecord, error) {
	return s.filterRecords(func(rec *models.AttendanceRecord) bool { return rec.Date == date })
}

func (s *Store) FindSince(ctx context.Context, date string) ([]models.AttendanceRecord, error) {
	records, err := s.filterRecords(func(rec *models.AttendanceRecord) bool { return rec.Date >= date })
	if err != nil {
		return nil, err
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Date < records[j].Date })
	return records, nil
}

func (s *Store) filterRecords(keep func(*models.AttendanceRecord) bool) ([]models.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []models.AttendanceRecord
	for _, rec := range s.records {
		if keep(rec) {
			records = append(records, *rec)
		}
	}
	return records, nil
}

// ---- UserStore ----

func (s *Store) Insert(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user.Email = strings.ToLower(user.Email)
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return storage.ErrDuplicateRecord
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	s.users[user.ID] = *user
	return nil
}

func (s *Store) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &user, nil
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	email = strings.ToLower(email)
	for _, user := range s.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *Store) FindByRole(ctx context.Context, role string) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var users []models.User
	for _, user := range s.users {
		if user.Role == role {
			users = append(users, user)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	return users, nil
}

func (s *Store) CountByRole(ctx context.Context, role string, activeOnly bool) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, user := range s.users {
		if user.Role == role && (!activeOnly || user.IsActive) {
			count++
		}
	}
	return count, nil
}

func (s *Store) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	return s.updateUser(id, func(u *models.User) { u.IsActive = active })
}

func (s *Store) SetFaceRegistered(ctx context.Context, id primitive.ObjectID, imagePath string) error {
	return s.updateUser(id, func(u *models.User) {
		u.FaceRegistered = true
		u.FaceImagePath = imagePath
	})
}

func (s *Store) updateUser(id primitive.ObjectID, apply func(*models.User)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	apply(&user)
	s.users[id] = user
	return nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

// Blobs is the in-memory BlobStore twin.
type Blobs struct {
	mu   sync.Mutex
	data map[primitive.ObjectID][]byte
}

func NewBlobs() *Blobs {
	return &Blobs{data: make(map[primitive.ObjectID][]byte)}
}

func (b *Blobs) Put(userID primitive.ObjectID, data []byte) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.data[userID] = append([]byte(nil), data...)
	return "mem://" + userID.Hex(), nil
}

func (b *Blobs) Remove(userID primitive.ObjectID) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.data, userID)
	return nil
}
