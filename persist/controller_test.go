package persist

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/measurebook/models"
	"github.com/harperreed/measurebook/storage"
)

// memState is a State over a plain record and photo set.
type memState struct {
	mu     sync.Mutex
	record models.SurveyRecord
	photos models.PhotoSet
	loads  int
}

func (s *memState) Capture() (models.SurveyRecord, models.PhotoSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record, s.photos.Clone()
}

func (s *memState) Load(record *models.SurveyRecord, photos models.PhotoSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads++
	if record != nil {
		s.record = *record
	}
	if photos != nil {
		s.photos = photos
	}
}

func (s *memState) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record = models.SurveyRecord{}
	s.photos = models.PhotoSet{}
}

func filledRecord() models.SurveyRecord {
	r := models.NewSurveyRecord(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))
	r.JobInfo.RepName = "Sam Rep"
	r.JobInfo.CustomerName = "Jane Doe"
	r.JobInfo.JobAddress = "12 Elm St"
	r.Configuration.ShowerType = models.ShowerWalkIn
	r.Configuration.WindowInWet = true
	r.Configuration.WindowDimensions.Height = "24"
	r.Measurements.A = models.Measurement{Existing: "48", New: "50", Notes: "plumb"}
	r.Measurements.E2.New = "33.25"
	r.Measurements.BaseToToilet = "18"
	r.SiteConditions.Issues.Mold = true
	r.SiteConditions.CustomerRequests = "Glass door"
	return *r
}

func TestFlushRestoreRoundTrip(t *testing.T) {
	store := storage.NewTestStore(t)
	original := &memState{
		record: filledRecord(),
		photos: models.PhotoSet{"entry": {Name: "door.jpg", Data: "data:image/jpeg;base64,AAAA", OriginalSize: 10, CompressedSize: 3}},
	}

	require.NoError(t, New(store, original).Flush())

	restored := &memState{photos: models.PhotoSet{}}
	report, err := New(store, restored).Restore()
	require.NoError(t, err)

	assert.True(t, report.Survey)
	assert.True(t, report.Photos)
	assert.Equal(t, original.record, restored.record)
	assert.Equal(t, original.photos, restored.photos)
}

func TestFlushWritesVersionedEnvelopes(t *testing.T) {
	store := storage.NewTestStore(t)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	c := New(store, &memState{record: filledRecord()}, WithClock(func() time.Time { return fixed }))

	require.NoError(t, c.Flush())

	for _, key := range []string{SurveyKey, PhotosKey} {
		raw, err := store.Get(key)
		require.NoError(t, err)
		var env envelope
		require.NoError(t, json.Unmarshal(raw, &env))
		assert.Equal(t, SchemaVersion, env.Version)
		assert.True(t, env.SavedAt.Equal(fixed))
	}
	assert.True(t, c.Saved())
	assert.Equal(t, 1, c.Flushes())
}

func TestDebounceCoalescesBursts(t *testing.T) {
	store := &storage.FaultyStore{Store: storage.NewTestStore(t)}
	c := New(store, &memState{record: filledRecord()}, WithDebounce(80*time.Millisecond))

	c.ScheduleSave()
	time.Sleep(20 * time.Millisecond)
	c.ScheduleSave()
	assert.True(t, c.Pending())

	require.Eventually(t, func() bool { return c.Flushes() == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(150 * time.Millisecond)

	assert.Equal(t, 1, c.Flushes())
	assert.Equal(t, 1, store.Sets(SurveyKey))
	assert.Equal(t, 1, store.Sets(PhotosKey))
	assert.False(t, c.Pending())
}

func TestSeparatedMutationsFlushTwice(t *testing.T) {
	c := New(storage.NewTestStore(t), &memState{}, WithDebounce(20*time.Millisecond))

	c.ScheduleSave()
	require.Eventually(t, func() bool { return c.Flushes() == 1 }, 2*time.Second, 5*time.Millisecond)
	c.ScheduleSave()
	require.Eventually(t, func() bool { return c.Flushes() == 2 }, 2*time.Second, 5*time.Millisecond)
}

func TestRestoreToleratesMalformedPhotos(t *testing.T) {
	store := storage.NewTestStore(t)
	require.NoError(t, New(store, &memState{record: filledRecord()}).Flush())
	require.NoError(t, store.Set(PhotosKey, []byte(`{"version":1,"data":{"entry":`)))

	state := &memState{photos: models.PhotoSet{}}
	report, err := New(store, state).Restore()
	require.NoError(t, err)

	assert.True(t, report.Survey)
	assert.False(t, report.Photos)
	assert.Equal(t, filledRecord(), state.record)
	assert.Empty(t, state.photos)
}

func TestRestoreToleratesMissingSurvey(t *testing.T) {
	store := storage.NewTestStore(t)
	photos := models.PhotoSet{"misc1": {Name: "a.jpg"}}
	require.NoError(t, New(store, &memState{photos: photos}).Flush())
	require.NoError(t, store.Delete(SurveyKey))

	state := &memState{}
	report, err := New(store, state).Restore()
	require.NoError(t, err)

	assert.False(t, report.Survey)
	assert.True(t, report.Photos)
	assert.Equal(t, models.SurveyRecord{}, state.record)
	assert.Equal(t, photos, state.photos)
}

func TestRestoreEmptyStorage(t *testing.T) {
	state := &memState{}
	report, err := New(storage.NewTestStore(t), state).Restore()
	require.NoError(t, err)
	assert.Equal(t, Report{}, report)
	assert.Equal(t, 1, state.loads)
}

func TestRestoreRunsOnce(t *testing.T) {
	c := New(storage.NewTestStore(t), &memState{})

	_, err := c.Restore()
	require.NoError(t, err)
	_, err = c.Restore()
	assert.ErrorIs(t, err, ErrAlreadyRestored)
}

func TestRestoreLegacyUnversionedBody(t *testing.T) {
	store := storage.NewTestStore(t)
	legacy, err := json.Marshal(filledRecord())
	require.NoError(t, err)
	require.NoError(t, store.Set(SurveyKey, legacy))
	require.NoError(t, store.Set(PhotosKey, []byte(`{"entry":{"name":"old.jpg","data":"data:image/jpeg;base64,AA","originalSize":5}}`)))

	state := &memState{}
	report, err := New(store, state).Restore()
	require.NoError(t, err)

	assert.True(t, report.Survey)
	assert.True(t, report.Photos)
	assert.Equal(t, "Jane Doe", state.record.JobInfo.CustomerName)
	assert.Equal(t, "old.jpg", state.photos["entry"].Name)
}

func TestRestoreRejectsFutureVersion(t *testing.T) {
	store := storage.NewTestStore(t)
	require.NoError(t, store.Set(SurveyKey, []byte(`{"version":99,"data":{"jobInfo":{"repName":"x"}}}`)))

	state := &memState{}
	report, err := New(store, state).Restore()
	require.NoError(t, err)
	assert.False(t, report.Survey)
	assert.Empty(t, state.record.JobInfo.RepName)
}

func TestResetClearsStorageAndState(t *testing.T) {
	store := storage.NewTestStore(t)
	state := &memState{record: filledRecord(), photos: models.PhotoSet{"entry": {Name: "a.jpg"}}}
	c := New(store, state, WithDebounce(time.Hour))

	require.NoError(t, c.Flush())
	c.ScheduleSave()
	require.NoError(t, c.Reset())

	assert.False(t, c.Pending())
	assert.False(t, c.Saved())
	assert.Equal(t, models.SurveyRecord{}, state.record)
	assert.Empty(t, state.photos)
	_, err := store.Get(SurveyKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = store.Get(PhotosKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCloseFlushesPendingSave(t *testing.T) {
	store := storage.NewTestStore(t)
	c := New(store, &memState{record: filledRecord()}, WithDebounce(time.Hour))

	require.NoError(t, c.Close(), "closing while idle is a no-op")
	assert.Equal(t, 0, c.Flushes())

	c.ScheduleSave()
	require.NoError(t, c.Close())
	assert.Equal(t, 1, c.Flushes())
	assert.False(t, c.Pending())

	_, err := store.Get(SurveyKey)
	require.NoError(t, err)
}

func TestWriteFailureSurfaces(t *testing.T) {
	quota := errors.New("quota exceeded")
	store := &storage.FaultyStore{Store: storage.NewTestStore(t), FailSet: map[string]error{PhotosKey: quota}}

	var mu sync.Mutex
	var reported error
	c := New(store, &memState{}, WithDebounce(10*time.Millisecond), WithErrorHandler(func(err error) {
		mu.Lock()
		defer mu.Unlock()
		reported = err
	}))

	c.ScheduleSave()
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return reported != nil
	}, 2*time.Second, 5*time.Millisecond)

	assert.ErrorIs(t, reported, quota)
	assert.ErrorIs(t, c.LastError(), quota)
	assert.False(t, c.Saved())
	assert.Equal(t, 0, c.Flushes())
	assert.Equal(t, 1, store.Sets(SurveyKey), "survey half was written before the failure")
}

func TestSavedIndicatorExpires(t *testing.T) {
	c := New(storage.NewTestStore(t), &memState{}, WithSavedTTL(30*time.Millisecond))

	require.NoError(t, c.Flush())
	assert.True(t, c.Saved())
	require.Eventually(t, func() bool { return !c.Saved() }, 2*time.Second, 5*time.Millisecond)
}

// gatedStore blocks the first survey write until released.
type gatedStore struct {
	storage.Store
	once    sync.Once
	started chan struct{}
	release chan struct{}
	err     error
}

func (g *gatedStore) Set(key string, value []byte) error {
	if key == SurveyKey {
		blocked := false
		g.once.Do(func() { blocked = true })
		if blocked {
			close(g.started)
			<-g.release
			if g.err != nil {
				return g.err
			}
		}
	}
	return g.Store.Set(key, value)
}

func newGatedStore(t *testing.T, err error) *gatedStore {
	return &gatedStore{
		Store:   storage.NewTestStore(t),
		started: make(chan struct{}),
		release: make(chan struct{}),
		err:     err,
	}
}

func TestCloseWaitsForRunningFlush(t *testing.T) {
	store := newGatedStore(t, nil)
	c := New(store, &memState{record: filledRecord()}, WithDebounce(5*time.Millisecond))

	c.ScheduleSave()
	<-store.started
	assert.False(t, c.Pending())

	closed := make(chan error, 1)
	go func() { closed <- c.Close() }()

	select {
	case <-closed:
		t.Fatal("Close returned while a flush was still writing")
	case <-time.After(50 * time.Millisecond):
	}

	close(store.release)
	select {
	case err := <-closed:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Close never returned")
	}
	assert.Equal(t, 1, c.Flushes())
}

func TestCloseReportsRunningFlushFailure(t *testing.T) {
	quota := errors.New("quota exceeded")
	store := newGatedStore(t, quota)
	c := New(store, &memState{record: filledRecord()}, WithDebounce(5*time.Millisecond))

	c.ScheduleSave()
	<-store.started

	closed := make(chan error, 1)
	go func() { closed <- c.Close() }()
	close(store.release)

	select {
	case err := <-closed:
		assert.ErrorIs(t, err, quota)
	case <-time.After(2 * time.Second):
		t.Fatal("Close never returned")
	}
}

func TestResetWaitsForRunningFlush(t *testing.T) {
	store := newGatedStore(t, nil)
	state := &memState{record: filledRecord()}
	c := New(store, state, WithDebounce(5*time.Millisecond))

	c.ScheduleSave()
	<-store.started

	reset := make(chan error, 1)
	go func() { reset <- c.Reset() }()
	time.Sleep(20 * time.Millisecond)
	close(store.release)
	require.NoError(t, <-reset)

	// the flush finished first, so Reset removed what it wrote
	_, err := store.Get(SurveyKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = store.Get(PhotosKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
