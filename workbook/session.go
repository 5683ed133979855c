// ABOUTME: Session owns one in-progress workbook: the record, its photos, autosave, and the current step
// ABOUTME: Every edit goes through a typed command that schedules a debounced save
package workbook

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/harperreed/measurebook/compress"
	"github.com/harperreed/measurebook/export"
	"github.com/harperreed/measurebook/logging"
	"github.com/harperreed/measurebook/models"
	"github.com/harperreed/measurebook/persist"
	"github.com/harperreed/measurebook/photos"
	"github.com/harperreed/measurebook/storage"
	"github.com/harperreed/measurebook/validate"
)

// ResetWarning is shown before a reset wipes the workbook.
const ResetWarning = "Start a new workbook? All entered data and photos will be permanently deleted."

type Options struct {
	Compressor  photos.Compressor
	Debounce    time.Duration
	SavedTTL    time.Duration
	Logger      *zap.Logger
	Clock       func() time.Time
	OnSaveError func(error)
}

type Session struct {
	photos *photos.Store
	saver  *persist.Controller
	logger *zap.Logger
	now    func() time.Time

	mu     sync.Mutex
	record models.SurveyRecord
	step   Step
}

// New creates an empty session backed by store. Call Restore before editing
// to pick up a previous snapshot.
func New(store storage.Store, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}

	s := &Session{
		logger: logging.Module(logger, "workbook"),
		now:    now,
		record: *models.NewSurveyRecord(now()),
		step:   StepJobInfo,
	}

	saverOpts := []persist.Option{
		persist.WithLogger(logger),
		persist.WithClock(now),
		persist.WithDebounce(opts.Debounce),
		persist.WithSavedTTL(opts.SavedTTL),
	}
	if opts.OnSaveError != nil {
		saverOpts = append(saverOpts, persist.WithErrorHandler(opts.OnSaveError))
	}
	s.saver = persist.New(store, s, saverOpts...)

	compressor := opts.Compressor
	if compressor == nil {
		compressor = compress.New(compress.DefaultMaxWidth, compress.DefaultQuality)
	}
	s.photos = photos.NewStore(compressor, s.saver.ScheduleSave)
	return s
}

// Capture implements persist.State.
func (s *Session) Capture() (models.SurveyRecord, models.PhotoSet) {
	s.mu.Lock()
	record := s.record
	s.mu.Unlock()
	return record, s.photos.Snapshot()
}

// Load implements persist.State.
func (s *Session) Load(record *models.SurveyRecord, set models.PhotoSet) {
	if record != nil {
		s.mu.Lock()
		s.record = *record
		s.mu.Unlock()
	}
	if set != nil {
		s.photos.Replace(set)
	}
}

// Clear implements persist.State. The date is re-seeded as for a new session.
func (s *Session) Clear() {
	s.mu.Lock()
	s.record = *models.NewSurveyRecord(s.now())
	s.step = StepJobInfo
	s.mu.Unlock()
	s.photos.Clear()
}

// Restore loads the last snapshot. It only runs once per session.
func (s *Session) Restore() (persist.Report, error) {
	return s.saver.Restore()
}

// Record returns a copy of the survey record.
func (s *Session) Record() models.SurveyRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record
}

// edit applies fn to the record and schedules a save when it succeeds.
func (s *Session) edit(fn func(r *models.SurveyRecord) error) error {
	s.mu.Lock()
	err := fn(&s.record)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.saver.ScheduleSave()
	return nil
}

func (s *Session) SetField(key, value string) error {
	return s.edit(func(r *models.SurveyRecord) error { return r.SetField(key, value) })
}

func (s *Session) Field(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record.Field(key)
}

// ToggleFlag flips a flag and returns its new value.
func (s *Session) ToggleFlag(key string) (bool, error) {
	var on bool
	err := s.edit(func(r *models.SurveyRecord) error {
		var err error
		on, err = r.ToggleFlag(key)
		return err
	})
	return on, err
}

func (s *Session) SetFlag(key string, value bool) error {
	return s.edit(func(r *models.SurveyRecord) error { return r.SetFlag(key, value) })
}

func (s *Session) Flag(key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record.Flag(key)
}

func (s *Session) SelectOption(group, value string) error {
	return s.edit(func(r *models.SurveyRecord) error { return r.SelectOption(group, value) })
}

func (s *Session) Option(group string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record.Option(group)
}

// WindowDimensionsVisible reports whether the window dimension fields apply.
func (s *Session) WindowDimensionsVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record.Configuration.WindowInWet
}

// AttachPhoto compresses raw into slot. See photos.Store.Attach.
func (s *Session) AttachPhoto(ctx context.Context, slot, filename string, raw []byte) (bool, error) {
	ok, err := s.photos.Attach(ctx, slot, filename, raw)
	if err != nil {
		s.logger.Warn("photo attach failed", zap.String("slot", slot), zap.String("file", filename), zap.Error(err))
		return false, err
	}
	if ok {
		a, _ := s.photos.Get(slot)
		s.logger.Info("photo attached",
			zap.String("slot", slot),
			zap.Int64("original_bytes", a.OriginalSize),
			zap.Int64("compressed_bytes", a.CompressedSize))
	}
	return ok, nil
}

// AttachFile reads path from disk and attaches it under its base name.
func (s *Session) AttachFile(ctx context.Context, slot, path string) (bool, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read photo: %w", err)
	}
	return s.AttachPhoto(ctx, slot, filepath.Base(path), raw)
}

// DetachPhoto removes the photo in slot after confirmation.
func (s *Session) DetachPhoto(ctx context.Context, slot string, confirm photos.Confirmer) (bool, error) {
	removed, err := s.photos.Detach(ctx, slot, confirm)
	if removed {
		s.logger.Info("photo detached", zap.String("slot", slot))
	}
	return removed, err
}

func (s *Session) Photo(slot string) (models.PhotoAttachment, bool) {
	return s.photos.Get(slot)
}

func (s *Session) Photos() models.PhotoSet {
	return s.photos.Snapshot()
}

func (s *Session) PhotoCount() int {
	return s.photos.Count()
}

func (s *Session) PhotoBytes() int64 {
	return s.photos.TotalCompressedBytes()
}

// Validate returns the plausibility warnings for the new measurements.
func (s *Session) Validate() []string {
	s.mu.Lock()
	m := s.record.Measurements
	s.mu.Unlock()
	return validate.Measurements(m)
}

func (s *Session) Summary() Summary {
	return buildSummary(s.Record(), s.photos.Count(), s.photos.TotalCompressedBytes())
}

// Document builds the export document as of now.
func (s *Session) Document() export.Document {
	record, set := s.Capture()
	return export.NewDocument(record, set, s.now())
}

// FileName is the suggested download name for format.
func (s *Session) FileName(format export.Format) string {
	s.mu.Lock()
	customer := s.record.JobInfo.CustomerName
	s.mu.Unlock()
	return export.FileName(customer, s.now(), format)
}

// Export writes the current workbook to w.
func (s *Session) Export(w io.Writer, format export.Format) error {
	return s.exportAt(w, format, s.now())
}

func (s *Session) exportAt(w io.Writer, format export.Format, now time.Time) error {
	record, set := s.Capture()
	if err := export.Write(w, export.NewDocument(record, set, now), format); err != nil {
		return fmt.Errorf("failed to export workbook: %w", err)
	}
	return nil
}

// ExportFile writes the workbook into dir under its suggested file name and
// returns the path and byte size written. The name and the document's
// exportedAt come from the same instant.
func (s *Session) ExportFile(dir string, format export.Format) (string, int64, error) {
	now := s.now()
	var buf bytes.Buffer
	if err := s.exportAt(&buf, format, now); err != nil {
		return "", 0, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", 0, fmt.Errorf("failed to create export dir: %w", err)
	}
	s.mu.Lock()
	customer := s.record.JobInfo.CustomerName
	s.mu.Unlock()
	path := filepath.Join(dir, export.FileName(customer, now, format))
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", 0, fmt.Errorf("failed to write export: %w", err)
	}
	s.logger.Info("workbook exported", zap.String("path", path), zap.String("format", string(format)))
	return path, int64(buf.Len()), nil
}

func (s *Session) Step() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// CheckStep reports the required-field error for step, if any.
func (s *Session) CheckStep(step Step) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return checkStep(&s.record, step)
}

// Next advances one step once the current step is complete.
func (s *Session) Next() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step == StepReview {
		return nil
	}
	if err := checkStep(&s.record, s.step); err != nil {
		return err
	}
	s.step++
	return nil
}

// Previous steps back without any checks.
func (s *Session) Previous() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step > StepJobInfo {
		s.step--
	}
}

// GoTo jumps to step. Moving forward checks every step being skipped past.
func (s *Session) GoTo(step Step) error {
	if !step.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidStep, int(step))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for from := s.step; from < step; from++ {
		if err := checkStep(&s.record, from); err != nil {
			s.step = from
			return err
		}
	}
	s.step = step
	return nil
}

// Progress is the completed fraction of the steps, as a percentage.
func (s *Session) Progress() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return float64(s.step-1) / float64(TotalSteps-1) * 100
}

// Reset wipes the stored snapshot and both in-memory stores once confirm agrees.
func (s *Session) Reset(ctx context.Context, confirm photos.Confirmer) (bool, error) {
	if confirm == nil || !confirm.Confirm(ctx, ResetWarning) {
		return false, nil
	}
	if err := s.saver.Reset(); err != nil {
		return true, err
	}
	s.logger.Info("workbook reset")
	return true, nil
}

// Saved reports whether the saved indicator should be showing.
func (s *Session) Saved() bool {
	return s.saver.Saved()
}

// SaveError returns the last autosave failure, if it has not been cleared by a later save.
func (s *Session) SaveError() error {
	return s.saver.LastError()
}

// SavePending reports whether an edit is waiting for the debounce timer.
func (s *Session) SavePending() bool {
	return s.saver.Pending()
}

// Flush writes the snapshot now.
func (s *Session) Flush() error {
	return s.saver.Flush()
}

// Close writes any pending save. The session can still be read afterwards.
func (s *Session) Close() error {
	return s.saver.Close()
}
