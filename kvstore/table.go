package kvstore

import (
	"bytes"

	"github.com/dgraph-io/badger/v3"
	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/wippyai/fixcodec/codec"
	"github.com/wippyai/fixcodec/errors"
)

// Options configures a Table.
type Options struct {
	// Prefix namespaces the table's keys so several tables can share one
	// database.
	Prefix []byte
}

// DefaultOptions returns options for an unprefixed table.
func DefaultOptions() Options {
	return Options{}
}

// Open opens a badger database at dir with its logging routed through
// Logger. An empty dir opens an in-memory database.
func Open(dir string) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir).
		WithLogger(badgerLogger{s: Logger().Sugar()})
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to open badger database %q", dir)
	}
	Logger().Debug("opened badger database", zap.String("dir", dir))
	return db, nil
}

// Table maps fixed-layout keys to fixed-layout values. Keys are stored
// as Prefix followed by the encoded key, so iteration follows the byte
// order of the encoding, not the numeric order of K.
type Table[K, V any] struct {
	db     *badger.DB
	prefix []byte
	keys   *codec.Codec[K]
	values *codec.Codec[V]
}

// New returns a table on db. The database is not owned by the table.
func New[K, V any](db *badger.DB, opts Options) (*Table[K, V], error) {
	keys, err := codec.For[K]()
	if err != nil {
		return nil, err
	}
	if keys.Size() == 0 {
		return nil, errors.New(errors.PhaseStorage, errors.KindUnsupported).
			GoType(keys.Compiled().GoType.String()).
			Detail("zero-sized keys cannot tell entries apart").
			Build()
	}
	values, err := codec.For[V]()
	if err != nil {
		return nil, err
	}
	return &Table[K, V]{
		db:     db,
		prefix: append([]byte(nil), opts.Prefix...),
		keys:   keys,
		values: values,
	}, nil
}

func (t *Table[K, V]) key(k K) ([]byte, error) {
	buf := make([]byte, len(t.prefix), len(t.prefix)+t.keys.Size())
	copy(buf, t.prefix)
	enc, err := t.keys.Marshal(k)
	if err != nil {
		return nil, err
	}
	return append(buf, enc...), nil
}

// Put stores v under k, replacing any previous value.
func (t *Table[K, V]) Put(k K, v V) error {
	key, err := t.key(k)
	if err != nil {
		return err
	}
	data, err := t.values.Marshal(v)
	if err != nil {
		return err
	}
	err = t.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
	return pkgerrors.Wrap(err, "failed to put entry")
}

// Get returns the value stored under k, or an error matching
// errors.ErrNotFound.
func (t *Table[K, V]) Get(k K) (V, error) {
	var v V
	key, err := t.key(k)
	if err != nil {
		return v, err
	}
	err = t.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(data []byte) error {
			v, err = t.values.Unmarshal(data)
			return err
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return v, errors.NotFound(errors.PhaseStorage, "key", k)
	}
	if err != nil {
		var zero V
		return zero, pkgerrors.Wrap(err, "failed to get entry")
	}
	return v, nil
}

// Has reports whether k is present.
func (t *Table[K, V]) Has(k K) (bool, error) {
	key, err := t.key(k)
	if err != nil {
		return false, err
	}
	err = t.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		return err
	})
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, badger.ErrKeyNotFound):
		return false, nil
	default:
		return false, pkgerrors.Wrap(err, "failed to look up entry")
	}
}

// Delete removes k. Deleting a missing key is not an error.
func (t *Table[K, V]) Delete(k K) error {
	key, err := t.key(k)
	if err != nil {
		return err
	}
	err = t.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
	return pkgerrors.Wrap(err, "failed to delete entry")
}

// Iterate calls fn for every entry of the table in key byte order,
// stopping at the first error.
func (t *Table[K, V]) Iterate(fn func(k K, v V) error) error {
	return t.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = t.prefix
		iter := txn.NewIterator(opts)
		defer iter.Close()

		for iter.Seek(t.prefix); iter.ValidForPrefix(t.prefix); iter.Next() {
			item := iter.Item()
			raw := bytes.TrimPrefix(item.Key(), t.prefix)
			// A longer key means another table shares this prefix.
			if len(raw) != t.keys.Size() {
				continue
			}
			k, err := t.keys.Unmarshal(raw)
			if err != nil {
				return err
			}
			var v V
			err = item.Value(func(data []byte) error {
				v, err = t.values.Unmarshal(data)
				return err
			})
			if err != nil {
				return err
			}
			if err := fn(k, v); err != nil {
				return err
			}
		}
		return nil
	})
}

// Len counts the entries of the table.
func (t *Table[K, V]) Len() (int, error) {
	n := 0
	err := t.Iterate(func(K, V) error {
		n++
		return nil
	})
	return n, err
}
