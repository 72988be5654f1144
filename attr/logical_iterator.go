package attr

import (
	"context"
	"fmt"
	"io"

	"github.com/ntfsgo/ntfs/record"
)

// LogicalIterator is the attribute layer's main entry point: it walks a file record's
// attributes the way a consumer actually wants to see them — one item per logical attribute,
// regardless of whether that attribute's value is split across several file records via an
// $ATTRIBUTE_LIST, and regardless of whether a non-resident value's data is itself split across
// several connected attributes. Each Attribute LogicalIterator yields already knows how to read
// its full value (see Attribute.Value) without the caller having to special-case any of this.
type LogicalIterator struct {
	ctx              context.Context
	raw              *RawIterator
	fileRecordNumber uint64
	loader           record.Loader
	source           io.ReadSeeker
	bytesPerCluster  int

	listIter *ListIterator

	hasSkip      bool
	skipInstance uint16
	skipType     Type

	cur  *Attribute
	err  error
	done bool
}

// NewLogicalIterator creates a LogicalIterator over fr. loader resolves $ATTRIBUTE_LIST entries
// that point at other file records; source and bytesPerCluster describe the volume those
// records, and any non-resident attribute values, are read from. ctx is held for the iterator's
// lifetime and passed to every loader call Next makes internally, since Next's bufio.Scanner-style
// signature has no room for one of its own.
func NewLogicalIterator(ctx context.Context, fr *record.FileRecord, loader record.Loader, source io.ReadSeeker, bytesPerCluster int) *LogicalIterator {
	return &LogicalIterator{
		ctx:              ctx,
		raw:              NewRawIterator(fr),
		fileRecordNumber: fr.FileReference.RecordNumber,
		loader:           loader,
		source:           source,
		bytesPerCluster:  bytesPerCluster,
	}
}

// Next advances the iterator and reports whether an attribute is available, following the same
// bufio.Scanner-style contract as RawIterator.
func (it *LogicalIterator) Next() bool {
	if it.done {
		return false
	}

	for {
		if it.listIter != nil {
			advanced, stop := it.nextFromList()
			if stop {
				return advanced
			}
			// list exhausted; fall through to pull the next raw attribute
			continue
		}

		if !it.raw.Next() {
			if err := it.raw.Err(); err != nil {
				it.fail(err)
				return false
			}
			it.done = true
			return false
		}

		a := it.raw.Attribute()
		ty, err := a.Type()
		if err != nil {
			it.fail(err)
			return false
		}

		if ty != TypeAttributeList {
			it.cur = a
			return true
		}

		if err := it.openAttributeList(a); err != nil {
			it.fail(err)
			return false
		}
	}
}

// nextFromList pulls entries from the active list iterator until it finds one to yield (returns
// true, true), exhausts the list (returns false, false, and clears it.listIter so the caller
// falls back to the raw iterator), or hits an error (returns false, true after recording Err()).
func (it *LogicalIterator) nextFromList() (yielded bool, stop bool) {
	for {
		entry, ok := it.listIter.Next()
		if !ok {
			it.listIter = nil
			return false, false
		}
		// Clone positioned just after the entry that was just consumed, so a continuation built
		// from it resumes the walk at the entry after this one, not this one again.
		continuationSnapshot := *it.listIter

		// This entry just repeats an attribute the raw iterator already covers.
		if entry.BaseRecordReference.RecordNumber == it.fileRecordNumber {
			continue
		}

		// This entry is a later fragment of a connected non-resident attribute we already
		// yielded (and whose remaining fragments Attribute.Value will discover on its own).
		if it.hasSkip && entry.Instance == it.skipInstance && entry.Type == it.skipType {
			continue
		}
		it.hasSkip = false

		fr, err := entry.ToFile(it.ctx, it.loader)
		if err != nil {
			it.fail(err)
			return false, true
		}
		a, err := entry.ToAttribute(&fr)
		if err != nil {
			it.fail(err)
			return false, true
		}

		if !a.IsResident() {
			a.continuation = &continuationSnapshot
			it.hasSkip = true
			it.skipInstance = entry.Instance
			it.skipType = entry.Type
		}

		it.cur = a
		return true, true
	}
}

func (it *LogicalIterator) openAttributeList(a *Attribute) error {
	v, err := a.Value(it.ctx, it.loader, it.source, it.bytesPerCluster)
	if err != nil {
		return fmt.Errorf("attr: unable to read $ATTRIBUTE_LIST value at position %d: %w", a.Position(), err)
	}
	data, err := io.ReadAll(v)
	if err != nil {
		return fmt.Errorf("attr: unable to read $ATTRIBUTE_LIST value at position %d: %w", a.Position(), err)
	}
	entries, err := DecodeAttributeList(data)
	if err != nil {
		return err
	}
	li := NewListIterator(entries)
	it.listIter = &li
	return nil
}

func (it *LogicalIterator) fail(err error) {
	it.err = err
	it.done = true
}

// Attribute returns the attribute Next just produced.
func (it *LogicalIterator) Attribute() *Attribute {
	return it.cur
}

// Err returns the first error encountered, if Next stopped early.
func (it *LogicalIterator) Err() error {
	return it.err
}
