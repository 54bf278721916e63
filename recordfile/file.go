package recordfile

import (
	"bufio"
	"io"
	"os"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/wippyai/fixcodec/binary"
	"github.com/wippyai/fixcodec/codec"
	"github.com/wippyai/fixcodec/errors"
)

// Options configures how a record file is opened.
type Options struct {
	// Perm is used when the file is created.
	Perm os.FileMode
	// ReadOnly opens the file without write access. Append and Put fail.
	ReadOnly bool
	// SyncOnAppend flushes every Append to stable storage.
	SyncOnAppend bool
}

// DefaultOptions returns read-write options without per-append sync.
func DefaultOptions() Options {
	return Options{Perm: 0o644}
}

// File is an append-only sequence of fixed-size records. Record seq lives
// at byte offset seq*Size. It is safe for concurrent use.
type File[T any] struct {
	mu    sync.RWMutex
	f     *os.File
	codec *codec.Codec[T]
	size  int64
	count int64
	opts  Options
}

// Open opens or creates the record file at path. The file length must be
// a whole number of records.
func Open[T any](path string, opts Options) (*File[T], error) {
	c, err := codec.For[T]()
	if err != nil {
		return nil, err
	}
	if c.Size() == 0 {
		return nil, errors.New(errors.PhaseStorage, errors.KindUnsupported).
			GoType(c.Compiled().GoType.String()).
			Detail("zero-sized records cannot be addressed").
			Build()
	}

	flag := os.O_RDWR | os.O_CREATE
	if opts.ReadOnly {
		flag = os.O_RDONLY
	}
	f, err := os.OpenFile(path, flag, opts.Perm)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to open record file")
	}

	end, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		f.Close()
		return nil, pkgerrors.Wrap(err, "failed to seek to end of record file")
	}

	size := int64(c.Size())
	if end%size != 0 {
		f.Close()
		return nil, errors.New(errors.PhaseStorage, errors.KindInvalidData).
			GoType(c.Compiled().GoType.String()).
			Detail("file length %d is not a multiple of record size %d", end, size).
			Build()
	}

	Logger().Debug("opened record file",
		zap.String("path", path),
		zap.Int64("record_size", size),
		zap.Int64("records", end/size))

	return &File[T]{
		f:     f,
		codec: c,
		size:  size,
		count: end / size,
		opts:  opts,
	}, nil
}

// Name returns the path the file was opened with.
func (rf *File[T]) Name() string {
	return rf.f.Name()
}

// Size returns the encoded size of one record.
func (rf *File[T]) Size() int {
	return int(rf.size)
}

// Len returns the number of records.
func (rf *File[T]) Len() int64 {
	rf.mu.RLock()
	defer rf.mu.RUnlock()
	return rf.count
}

// Append writes v after the last record and returns its sequence number.
func (rf *File[T]) Append(v T) (int64, error) {
	data, err := rf.codec.Marshal(v)
	if err != nil {
		return -1, err
	}

	rf.mu.Lock()
	defer rf.mu.Unlock()

	if err := rf.writable(); err != nil {
		return -1, err
	}

	seq := rf.count
	if _, err := rf.f.WriteAt(data, seq*rf.size); err != nil {
		return -1, pkgerrors.Wrapf(err, "failed to write record %d", seq)
	}
	if rf.opts.SyncOnAppend {
		if err := rf.f.Sync(); err != nil {
			return -1, pkgerrors.Wrap(err, "failed to sync record file")
		}
	}
	rf.count++
	return seq, nil
}

// Get decodes record seq.
func (rf *File[T]) Get(seq int64) (T, error) {
	var zero T

	rf.mu.RLock()
	defer rf.mu.RUnlock()

	if err := rf.check(seq); err != nil {
		return zero, err
	}

	buf := make([]byte, rf.size)
	if _, err := rf.f.ReadAt(buf, seq*rf.size); err != nil {
		return zero, pkgerrors.Wrapf(err, "failed to read record %d", seq)
	}
	return rf.codec.Unmarshal(buf)
}

// Put overwrites record seq in place.
func (rf *File[T]) Put(seq int64, v T) error {
	data, err := rf.codec.Marshal(v)
	if err != nil {
		return err
	}

	rf.mu.Lock()
	defer rf.mu.Unlock()

	if err := rf.writable(); err != nil {
		return err
	}
	if err := rf.check(seq); err != nil {
		return err
	}
	if _, err := rf.f.WriteAt(data, seq*rf.size); err != nil {
		return pkgerrors.Wrapf(err, "failed to overwrite record %d", seq)
	}
	return nil
}

// Scan calls fn for every record in order, stopping at the first error.
func (rf *File[T]) Scan(fn func(seq int64, v T) error) error {
	rf.mu.RLock()
	count := rf.count
	rf.mu.RUnlock()

	br := bufio.NewReader(io.NewSectionReader(rf.f, 0, count*rf.size))
	buf := make([]byte, rf.size)
	for seq := int64(0); seq < count; seq++ {
		if _, err := io.ReadFull(br, buf); err != nil {
			return pkgerrors.Wrapf(err, "failed to read record %d", seq)
		}
		v, err := rf.codec.Decode(binary.NewReader(buf))
		if err != nil {
			return err
		}
		if err := fn(seq, v); err != nil {
			return err
		}
	}
	return nil
}

// Sync flushes the file to stable storage.
func (rf *File[T]) Sync() error {
	if err := rf.f.Sync(); err != nil {
		return pkgerrors.Wrap(err, "failed to sync record file")
	}
	return nil
}

// Close closes the underlying file.
func (rf *File[T]) Close() error {
	rf.mu.Lock()
	defer rf.mu.Unlock()

	Logger().Debug("closing record file",
		zap.String("path", rf.f.Name()),
		zap.Int64("records", rf.count))

	if err := rf.f.Close(); err != nil {
		return pkgerrors.Wrap(err, "failed to close record file")
	}
	return nil
}

func (rf *File[T]) check(seq int64) error {
	if seq < 0 || seq >= rf.count {
		return errors.NotFound(errors.PhaseStorage, "record", seq)
	}
	return nil
}

func (rf *File[T]) writable() error {
	if rf.opts.ReadOnly {
		return errors.New(errors.PhaseStorage, errors.KindUnsupported).
			Detail("record file %s is read-only", rf.f.Name()).
			Build()
	}
	return nil
}
