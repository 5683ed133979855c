package workbook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/measurebook/compress"
	"github.com/harperreed/measurebook/export"
	"github.com/harperreed/measurebook/models"
	"github.com/harperreed/measurebook/photos"
	"github.com/harperreed/measurebook/storage"
)

var fixedNow = time.Date(2026, 6, 9, 10, 0, 0, 0, time.UTC)

type stubCompressor struct{}

func (stubCompressor) Compress(_ context.Context, raw []byte) (*compress.Result, error) {
	if string(raw) == "broken" {
		return nil, compress.ErrUndecodable
	}
	return &compress.Result{DataURL: "data:image/jpeg;base64,AAAA", Width: 10, Height: 10, Size: int64(len(raw) / 2)}, nil
}

var (
	yes = photos.ConfirmFunc(func(context.Context, string) bool { return true })
	no  = photos.ConfirmFunc(func(context.Context, string) bool { return false })
)

func newSession(t *testing.T, store storage.Store) *Session {
	t.Helper()
	if store == nil {
		store = storage.NewTestStore(t)
	}
	s := New(store, Options{
		Compressor: stubCompressor{},
		Debounce:   time.Hour,
		Clock:      func() time.Time { return fixedNow },
	})
	_, err := s.Restore()
	require.NoError(t, err)
	return s
}

func fillJobInfo(t *testing.T, s *Session) {
	t.Helper()
	require.NoError(t, s.SetField("jobInfo.repName", "Sam Rep"))
	require.NoError(t, s.SetField("jobInfo.customerName", "Jane Doe"))
	require.NoError(t, s.SetField("jobInfo.jobAddress", "12 Elm St"))
}

func TestNewSessionDefaults(t *testing.T) {
	s := newSession(t, nil)

	assert.Equal(t, StepJobInfo, s.Step())
	assert.Equal(t, "6/9/2026", s.Record().JobInfo.Date)
	assert.Equal(t, 0, s.PhotoCount())
	assert.Equal(t, float64(0), s.Progress())
	assert.False(t, s.SavePending())
}

func TestEditsScheduleSave(t *testing.T) {
	s := newSession(t, nil)

	require.NoError(t, s.SetField("jobInfo.repName", "Sam"))
	assert.True(t, s.SavePending())

	require.NoError(t, s.Close())
	assert.False(t, s.SavePending())
}

func TestFailedEditDoesNotScheduleSave(t *testing.T) {
	s := newSession(t, nil)

	err := s.SetField("jobInfo.nope", "x")
	assert.ErrorIs(t, err, models.ErrUnknownField)
	assert.False(t, s.SavePending())

	err = s.SelectOption(models.GroupShowerType, "hot-tub")
	assert.ErrorIs(t, err, models.ErrInvalidOption)
	assert.False(t, s.SavePending())
}

func TestToggleFlagAndWindowVisibility(t *testing.T) {
	s := newSession(t, nil)

	assert.False(t, s.WindowDimensionsVisible())
	on, err := s.ToggleFlag("configuration.windowInWet")
	require.NoError(t, err)
	assert.True(t, on)
	assert.True(t, s.WindowDimensionsVisible())

	require.NoError(t, s.SetFlag("configuration.windowInWet", false))
	assert.False(t, s.WindowDimensionsVisible())
}

func TestNextRequiresJobInfo(t *testing.T) {
	s := newSession(t, nil)

	err := s.Next()
	var rfe *RequiredFieldsError
	require.ErrorAs(t, err, &rfe)
	assert.ErrorIs(t, err, ErrRequiredFields)
	assert.Equal(t, StepJobInfo, rfe.Step)
	assert.Equal(t, "Please fill in all required fields (marked with *)", err.Error())
	assert.Equal(t, StepJobInfo, s.Step())

	require.NoError(t, s.SetField("jobInfo.repName", "Sam"))
	require.NoError(t, s.SetField("jobInfo.customerName", "   "))
	require.NoError(t, s.SetField("jobInfo.jobAddress", "12 Elm"))
	assert.ErrorIs(t, s.Next(), ErrRequiredFields, "whitespace does not count")

	fillJobInfo(t, s)
	require.NoError(t, s.Next())
	assert.Equal(t, StepConfiguration, s.Step())
}

func TestNextRequiresShowerType(t *testing.T) {
	s := newSession(t, nil)
	fillJobInfo(t, s)
	require.NoError(t, s.Next())

	err := s.Next()
	require.Error(t, err)
	assert.Equal(t, "Please select an existing shower type", err.Error())

	require.NoError(t, s.SelectOption(models.GroupShowerType, models.ShowerNeoAngle))
	require.NoError(t, s.Next())
	assert.Equal(t, StepPhotos, s.Step())
}

func TestNavigationBoundsAndProgress(t *testing.T) {
	s := newSession(t, nil)
	fillJobInfo(t, s)
	require.NoError(t, s.SelectOption(models.GroupShowerType, models.ShowerWalkIn))

	s.Previous()
	assert.Equal(t, StepJobInfo, s.Step())

	for i := 0; i < 10; i++ {
		require.NoError(t, s.Next())
	}
	assert.Equal(t, StepReview, s.Step())
	assert.Equal(t, float64(100), s.Progress())

	require.NoError(t, s.GoTo(StepPhotos))
	assert.InDelta(t, 40.0, s.Progress(), 0.001)

	assert.ErrorIs(t, s.GoTo(Step(9)), ErrInvalidStep)
}

func TestGoToStopsAtIncompleteStep(t *testing.T) {
	s := newSession(t, nil)
	fillJobInfo(t, s)

	err := s.GoTo(StepMeasurements)
	assert.ErrorIs(t, err, ErrRequiredFields)
	assert.Equal(t, StepConfiguration, s.Step())
}

func TestAttachAndDetachPhoto(t *testing.T) {
	s := newSession(t, nil)
	ctx := context.Background()

	ok, err := s.AttachPhoto(ctx, "entry", "door.jpg", []byte("0123456789"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, s.PhotoCount())
	assert.Equal(t, int64(5), s.PhotoBytes())
	assert.True(t, s.SavePending())

	removed, err := s.DetachPhoto(ctx, "entry", no)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, 1, s.PhotoCount())

	removed, err = s.DetachPhoto(ctx, "entry", yes)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, 0, s.PhotoCount())
	_, present := s.Photo("entry")
	assert.False(t, present)
}

func TestAttachFailureKeepsPrevious(t *testing.T) {
	s := newSession(t, nil)
	ctx := context.Background()

	_, err := s.AttachPhoto(ctx, "misc1", "a.jpg", []byte("good-bytes"))
	require.NoError(t, err)

	_, err = s.AttachPhoto(ctx, "misc1", "b.jpg", []byte("broken"))
	assert.ErrorIs(t, err, compress.ErrUndecodable)

	a, ok := s.Photo("misc1")
	require.True(t, ok)
	assert.Equal(t, "a.jpg", a.Name)
}

func TestAttachFileWithRealCompressor(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2400, 1600))
	for x := 0; x < 2400; x += 7 {
		img.Set(x, x%1600, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	path := filepath.Join(t.TempDir(), "wall.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0600))

	s := New(storage.NewTestStore(t), Options{Debounce: time.Hour})
	ok, err := s.AttachFile(context.Background(), "topLeft", path)
	require.NoError(t, err)
	require.True(t, ok)

	a, _ := s.Photo("topLeft")
	assert.Equal(t, "wall.png", a.Name)
	assert.Equal(t, int64(buf.Len()), a.OriginalSize)
	assert.Positive(t, a.CompressedSize)

	_, err = s.AttachFile(context.Background(), "topLeft", filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestSessionSurvivesRestart(t *testing.T) {
	store := storage.NewTestStore(t)
	s := newSession(t, store)
	fillJobInfo(t, s)
	require.NoError(t, s.SelectOption(models.GroupShowerType, models.ShowerCorner))
	require.NoError(t, s.SetField("measurements.A.new", "50"))
	_, err := s.AttachPhoto(context.Background(), "window", "w.jpg", []byte("abcdef"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	again := newSession(t, store)
	assert.Equal(t, s.Record(), again.Record())
	assert.Equal(t, s.Photos(), again.Photos())
}

func TestValidateUsesNewColumn(t *testing.T) {
	s := newSession(t, nil)
	require.NoError(t, s.SetField("measurements.A.existing", "10"))
	assert.Empty(t, s.Validate())

	require.NoError(t, s.SetField("measurements.A.new", "20"))
	assert.Equal(t, []string{`Width (A) of 20" is outside the typical range of 28-72"`}, s.Validate())
}

func TestSummary(t *testing.T) {
	s := newSession(t, nil)
	fillJobInfo(t, s)
	require.NoError(t, s.SetField("measurements.B.new", "60"))
	require.NoError(t, s.SetFlag("siteConditions.issues.mold", true))
	_, err := s.AttachPhoto(context.Background(), "entry", "a.jpg", make([]byte, 4000))
	require.NoError(t, err)

	sum := s.Summary()
	titles := make([]string, 0, len(sum.Sections))
	for _, sec := range sum.Sections {
		titles = append(titles, sec.Title)
	}
	assert.Equal(t, []string{"Job Information", "Shower Configuration", "Photos Uploaded", "Key Measurements", "Site Issues Identified"}, titles)

	assert.Equal(t, SummaryItem{"Shower Type", "Not selected"}, sum.Sections[1].Items[0])
	assert.Equal(t, SummaryItem{"Total Photos", "1 photos"}, sum.Sections[2].Items[0])
	assert.Equal(t, SummaryItem{"Total Size", "2.0 kB"}, sum.Sections[2].Items[1])
	assert.Equal(t, SummaryItem{"A (Width)", "Not measured"}, sum.Sections[3].Items[0])
	assert.Equal(t, SummaryItem{"B (Depth)", `60"`}, sum.Sections[3].Items[1])
	assert.Equal(t, []SummaryItem{{Value: "Mold or mildew present"}}, sum.Sections[4].Items)
}

func TestSummaryOmitsIssuesWhenNone(t *testing.T) {
	s := newSession(t, nil)
	assert.Len(t, s.Summary().Sections, 4)
}

func TestExport(t *testing.T) {
	s := newSession(t, nil)
	fillJobInfo(t, s)
	_, err := s.AttachPhoto(context.Background(), "entry", "a.jpg", []byte("1234"))
	require.NoError(t, err)

	assert.Equal(t, "measurement-workbook-Jane-Doe-2026-06-09.json", s.FileName(export.FormatJSON))

	var buf bytes.Buffer
	require.NoError(t, s.Export(&buf, export.FormatJSON))

	var doc export.Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, s.Record(), doc.Record())
	assert.Equal(t, "a.jpg", doc.Photos["entry"].Name)
	assert.True(t, doc.ExportedAt.Equal(fixedNow))

	assert.ErrorIs(t, s.Export(&buf, export.Format("doc")), export.ErrUnknownFormat)
}

func TestExportFile(t *testing.T) {
	s := newSession(t, nil)
	fillJobInfo(t, s)
	dir := filepath.Join(t.TempDir(), "exports")

	path, size, err := s.ExportFile(dir, export.FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "measurement-workbook-Jane-Doe-2026-06-09.yaml"), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, size, info.Size())
}

func TestResetRequiresConfirmation(t *testing.T) {
	store := storage.NewTestStore(t)
	s := newSession(t, store)
	ctx := context.Background()
	fillJobInfo(t, s)
	_, err := s.AttachPhoto(ctx, "entry", "a.jpg", []byte("1234"))
	require.NoError(t, err)
	require.NoError(t, s.Next())
	require.NoError(t, s.Flush())

	var shown string
	declined, err := s.Reset(ctx, photos.ConfirmFunc(func(_ context.Context, msg string) bool {
		shown = msg
		return false
	}))
	require.NoError(t, err)
	assert.False(t, declined)
	assert.Equal(t, ResetWarning, shown)
	assert.Equal(t, "Jane Doe", s.Record().JobInfo.CustomerName)

	done, err := s.Reset(ctx, yes)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, *models.NewSurveyRecord(fixedNow), s.Record())
	assert.Equal(t, 0, s.PhotoCount())
	assert.Equal(t, StepJobInfo, s.Step())

	_, err = store.Get("measurebook.survey")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSaveErrorSurfaces(t *testing.T) {
	quota := errors.New("quota exceeded")
	store := &storage.FaultyStore{Store: storage.NewTestStore(t), FailSet: map[string]error{"measurebook.photos": quota}}
	s := newSession(t, store)

	require.NoError(t, s.SetField("jobInfo.repName", "x"))
	assert.ErrorIs(t, s.Close(), quota)
	assert.ErrorIs(t, s.SaveError(), quota)
	assert.False(t, s.Saved())
}
