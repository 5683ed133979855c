// ABOUTME: Photo store keyed by fixed workbook slots
// ABOUTME: Compresses uploads, discards stale results, and gates removal behind confirmation
package photos

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/harperreed/measurebook/compress"
	"github.com/harperreed/measurebook/models"
)

var ErrUnknownSlot = errors.New("unknown photo slot")

// Compressor turns raw upload bytes into a bounded-size encoded image.
type Compressor interface {
	Compress(ctx context.Context, raw []byte) (*compress.Result, error)
}

// Confirmer is the yes/no gate shown before a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, message string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, message string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, message string) bool {
	return f(ctx, message)
}

// DetachWarning is the message shown before removing a slot's photo.
func DetachWarning(slot string) string {
	label := slot
	if s, ok := models.LookupSlot(slot); ok {
		label = s.Label
	}
	return fmt.Sprintf("Remove the %s photo? This cannot be undone.", label)
}

// Store holds at most one attachment per slot.
type Store struct {
	compressor Compressor
	onChange   func()

	mu          sync.Mutex
	attachments models.PhotoSet
	// epoch and generation are bumped when photos are removed or replaced
	// wholesale; a compression started before either moved is dropped.
	epoch      uint64
	generation map[string]uint64
	// issued numbers attaches per slot; committed is the newest one stored.
	issued    map[string]uint64
	committed map[string]uint64
}

type ticket struct {
	epoch, generation, seq uint64
}

// NewStore creates an empty store. onChange runs after every committed change
// and may be nil.
func NewStore(compressor Compressor, onChange func()) *Store {
	if onChange == nil {
		onChange = func() {}
	}
	return &Store{
		compressor:  compressor,
		onChange:    onChange,
		attachments: make(models.PhotoSet),
		generation:  make(map[string]uint64),
		issued:      make(map[string]uint64),
		committed:   make(map[string]uint64),
	}
}

// Attach compresses raw and stores it in slot, replacing any previous photo.
// It reports false with a nil error when the slot was cleared or a newer
// attach landed while compressing. On error the slot is left untouched and
// other attaches still in flight are unaffected.
func (s *Store) Attach(ctx context.Context, slot, filename string, raw []byte) (bool, error) {
	if _, ok := models.LookupSlot(slot); !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownSlot, slot)
	}

	t := s.begin(slot)

	res, err := s.compressor.Compress(ctx, raw)
	if err != nil {
		return false, fmt.Errorf("failed to compress %s: %w", filename, err)
	}

	committed := s.commit(slot, t, models.PhotoAttachment{
		Name:           filename,
		Data:           res.DataURL,
		OriginalSize:   int64(len(raw)),
		CompressedSize: res.Size,
	})
	if committed {
		s.onChange()
	}
	return committed, nil
}

func (s *Store) begin(slot string) ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued[slot]++
	return ticket{epoch: s.epoch, generation: s.generation[slot], seq: s.issued[slot]}
}

func (s *Store) commit(slot string, t ticket, a models.PhotoAttachment) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.epoch != s.epoch || t.generation != s.generation[slot] || t.seq < s.committed[slot] {
		return false
	}
	s.attachments[slot] = a
	s.committed[slot] = t.seq
	return true
}

// Detach removes the photo in slot once the confirmer agrees. It reports
// whether anything was removed.
func (s *Store) Detach(ctx context.Context, slot string, confirm Confirmer) (bool, error) {
	if _, ok := models.LookupSlot(slot); !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownSlot, slot)
	}
	if _, ok := s.Get(slot); !ok {
		return false, nil
	}
	if confirm == nil || !confirm.Confirm(ctx, DetachWarning(slot)) {
		return false, nil
	}

	s.mu.Lock()
	delete(s.attachments, slot)
	s.generation[slot]++
	s.mu.Unlock()

	s.onChange()
	return true, nil
}

// Get returns the attachment in slot, if any.
func (s *Store) Get(slot string) (models.PhotoAttachment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.attachments[slot]
	return a, ok
}

// Count returns the number of occupied slots.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.attachments)
}

// TotalCompressedBytes sums the compressed size of every attachment.
func (s *Store) TotalCompressedBytes() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int64
	for _, a := range s.attachments {
		total += a.CompressedSize
	}
	return total
}

// Snapshot returns a copy of every attachment.
func (s *Store) Snapshot() models.PhotoSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attachments.Clone()
}

// Replace swaps in a restored set. Entries for unknown slots are dropped.
// It does not fire onChange.
func (s *Store) Replace(set models.PhotoSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attachments = make(models.PhotoSet, len(set))
	for slot, a := range set {
		if _, ok := models.LookupSlot(slot); !ok {
			continue
		}
		s.attachments[slot] = a
	}
	s.epoch++
}

// Clear removes every attachment without confirmation. It does not fire onChange.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.attachments = make(models.PhotoSet)
}
