// ABOUTME: Debounced autosave and startup restore for the workbook session
// ABOUTME: Writes the survey record and photo set to local storage under two fixed keys
package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/harperreed/measurebook/logging"
	"github.com/harperreed/measurebook/models"
	"github.com/harperreed/measurebook/storage"
)

// Storage keys. The two entries share a lifecycle but are written separately.
const (
	SurveyKey = "measurebook.survey"
	PhotosKey = "measurebook.photos"
)

// SchemaVersion tags every envelope written by Flush.
const SchemaVersion = 1

const (
	DefaultDebounce = 1000 * time.Millisecond
	DefaultSavedTTL = 2000 * time.Millisecond
)

var (
	ErrAlreadyRestored    = errors.New("snapshot already restored")
	ErrUnsupportedVersion = errors.New("unsupported snapshot version")
)

const savedKey = "saved"

// State is what the controller snapshots and restores.
type State interface {
	// Capture returns copies of the current record and photos.
	Capture() (models.SurveyRecord, models.PhotoSet)
	// Load installs restored data. A nil argument means that half was absent
	// and the corresponding store keeps its empty default.
	Load(record *models.SurveyRecord, photos models.PhotoSet)
	// Clear empties both in-memory stores.
	Clear()
}

// Report describes which halves Restore found.
type Report struct {
	Survey bool
	Photos bool
}

type envelope struct {
	Version int             `json:"version"`
	SavedAt time.Time       `json:"savedAt"`
	Data    json.RawMessage `json:"data"`
}

// Controller owns the pending-save timer. It is the only writer of the two keys.
type Controller struct {
	store     storage.Store
	state     State
	logger    *zap.Logger
	debounce  time.Duration
	savedTTL  time.Duration
	now       func() time.Time
	onError   func(error)
	indicator *cache.Cache

	mu       sync.Mutex
	timer    *time.Timer
	armed    uint64
	restored bool
	lastErr  error
	flushes  int

	// inflight counts timer-driven flushes that have left the timer but not
	// yet finished; idle is signalled when it drops to zero.
	inflight int
	idle     *sync.Cond

	flushMu sync.Mutex
}

type Option func(*Controller)

// WithDebounce sets the quiet period before a scheduled save is written.
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.debounce = d
		}
	}
}

// WithSavedTTL sets how long Saved reports true after a flush.
func WithSavedTTL(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.savedTTL = d
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithErrorHandler receives write failures from timer-driven flushes.
func WithErrorHandler(fn func(error)) Option {
	return func(c *Controller) { c.onError = fn }
}

// New creates an idle controller.
func New(store storage.Store, state State, opts ...Option) *Controller {
	c := &Controller{
		store:    store,
		state:    state,
		logger:   zap.NewNop(),
		debounce: DefaultDebounce,
		savedTTL: DefaultSavedTTL,
		now:      time.Now,
		onError:  func(error) {},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.idle = sync.NewCond(&c.mu)
	c.logger = logging.Module(c.logger, "persist")
	c.indicator = cache.New(c.savedTTL, time.Minute)
	return c
}

// ScheduleSave arms the timer, replacing any timer already armed.
func (c *Controller) ScheduleSave() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
	}
	c.armed++
	id := c.armed
	c.timer = time.AfterFunc(c.debounce, func() { c.fire(id) })
}

func (c *Controller) fire(id uint64) {
	c.mu.Lock()
	if id != c.armed || c.timer == nil {
		// re-armed or cancelled after this timer had already fired
		c.mu.Unlock()
		return
	}
	c.timer = nil
	c.inflight++
	c.mu.Unlock()

	err := c.Flush()

	c.mu.Lock()
	c.inflight--
	c.idle.Broadcast()
	c.mu.Unlock()

	if err != nil {
		c.onError(err)
	}
}

// wait blocks until no timer-driven flush is running.
func (c *Controller) wait() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.inflight > 0 {
		c.idle.Wait()
	}
}

// Pending reports whether a save is armed.
func (c *Controller) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timer != nil
}

// Flush writes the survey record and then the photo set. There is no
// atomicity across the two keys and no retry.
func (c *Controller) Flush() error {
	c.flushMu.Lock()
	defer c.flushMu.Unlock()

	record, photos := c.state.Capture()
	now := c.now().UTC()

	survey, err := encode(record, now)
	if err != nil {
		return c.fail(fmt.Errorf("failed to encode survey record: %w", err))
	}
	pics, err := encode(photos, now)
	if err != nil {
		return c.fail(fmt.Errorf("failed to encode photos: %w", err))
	}

	if err := c.store.Set(SurveyKey, survey); err != nil {
		return c.fail(fmt.Errorf("failed to write %s: %w", SurveyKey, err))
	}
	if err := c.store.Set(PhotosKey, pics); err != nil {
		return c.fail(fmt.Errorf("failed to write %s: %w", PhotosKey, err))
	}

	c.mu.Lock()
	c.flushes++
	c.lastErr = nil
	c.mu.Unlock()
	c.indicator.SetDefault(savedKey, now)

	c.logger.Debug("snapshot saved",
		zap.Int("survey_bytes", len(survey)),
		zap.Int("photo_bytes", len(pics)),
		zap.Int("photos", len(photos)))
	return nil
}

func (c *Controller) fail(err error) error {
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()
	c.logger.Error("snapshot save failed", zap.Error(err))
	return err
}

// Restore reads both keys once at startup. Missing or unreadable entries
// leave their store at its default; one bad entry never blocks the other.
func (c *Controller) Restore() (Report, error) {
	c.mu.Lock()
	if c.restored {
		c.mu.Unlock()
		return Report{}, ErrAlreadyRestored
	}
	c.restored = true
	c.mu.Unlock()

	var report Report

	var record *models.SurveyRecord
	var r models.SurveyRecord
	if c.read(SurveyKey, &r) {
		record = &r
		report.Survey = true
	}

	var photos models.PhotoSet
	var p models.PhotoSet
	if c.read(PhotosKey, &p) {
		photos = p
		if photos == nil {
			photos = models.PhotoSet{}
		}
		report.Photos = true
	}

	c.state.Load(record, photos)
	c.logger.Info("snapshot restored",
		zap.Bool("survey", report.Survey),
		zap.Bool("photos", report.Photos))
	return report, nil
}

func (c *Controller) read(key string, v interface{}) bool {
	raw, err := c.store.Get(key)
	if errors.Is(err, storage.ErrNotFound) {
		return false
	}
	if err != nil {
		c.logger.Warn("failed to read snapshot entry", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := decode(raw, v); err != nil {
		c.logger.Warn("discarding unreadable snapshot entry", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Reset cancels any pending save, waits for a timer-driven flush already
// running, then removes both keys and empties both stores.
func (c *Controller) Reset() error {
	c.cancel()
	c.wait()

	c.flushMu.Lock()
	defer c.flushMu.Unlock()

	var errs []error
	if err := c.store.Delete(SurveyKey); err != nil {
		errs = append(errs, fmt.Errorf("failed to delete %s: %w", SurveyKey, err))
	}
	if err := c.store.Delete(PhotosKey); err != nil {
		errs = append(errs, fmt.Errorf("failed to delete %s: %w", PhotosKey, err))
	}
	c.state.Clear()
	c.indicator.Delete(savedKey)

	c.mu.Lock()
	c.lastErr = nil
	c.mu.Unlock()

	c.logger.Info("snapshot reset")
	return errors.Join(errs...)
}

// Close writes a pending save immediately instead of waiting for the timer,
// and waits for a timer-driven flush already running. When nothing was
// pending it returns the failure of the last flush, if it was never followed
// by a successful one.
func (c *Controller) Close() error {
	armed := c.cancel()
	c.wait()
	if armed {
		return c.Flush()
	}
	return c.LastError()
}

// cancel disarms the timer and reports whether one was armed.
func (c *Controller) cancel() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer == nil {
		return false
	}
	c.timer.Stop()
	c.timer = nil
	c.armed++
	return true
}

// Saved reports whether a flush succeeded within the indicator window.
func (c *Controller) Saved() bool {
	_, ok := c.indicator.Get(savedKey)
	return ok
}

// LastError returns the most recent write failure, cleared by the next successful flush.
func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Flushes counts successful flushes.
func (c *Controller) Flushes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flushes
}

func encode(v interface{}, now time.Time) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Version: SchemaVersion, SavedAt: now, Data: data})
}

// decode accepts versioned envelopes and bare unversioned bodies.
func decode(raw []byte, v interface{}) error {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return err
	}
	if env.Version == 0 && env.Data == nil {
		return json.Unmarshal(raw, v)
	}
	if env.Version > SchemaVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, env.Version)
	}
	return json.Unmarshal(env.Data, v)
}
