package store

import (
	"io"

	"github.com/apache/usergrid-sub013/shard"
	"github.com/apache/usergrid-sub013/utils"
	"github.com/cockroachdb/pebble"
	"github.com/pkg/errors"
	"github.com/puzpuzpuz/xsync/v3"
)

var (
	ErrClosed  = errors.New("store: closed")
	ErrCorrupt = errors.New("store: corrupt value")
)

type Store struct {
	db      *pebble.DB
	dir     string
	opts    Options
	log     utils.Logger
	formats *xsync.MapOf[string, shard.Format]
}

func Open(dir string, opts Options) (*Store, error) {
	opts.SetDefaults()
	cache := pebble.NewCache(opts.CacheSize)
	defer cache.Unref()
	db, err := pebble.Open(dir, &pebble.Options{
		FS:    opts.FS,
		Cache: cache,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", dir)
	}
	opts.Logger.Info("store opened", "dir", dir)
	return &Store{
		db:      db,
		dir:     dir,
		opts:    opts,
		log:     opts.Logger,
		formats: xsync.NewMapOf[string, shard.Format](),
	}, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return ErrClosed
	}
	err := s.db.Close()
	s.db = nil
	s.log.Info("store closed", "dir", s.dir)
	return err
}

// DB exposes the Pebble handle, e.g. for a PebbleCollector.
func (s *Store) DB() *pebble.DB {
	return s.db
}

func (s *Store) writeOptions() *pebble.WriteOptions {
	if s.opts.Sync {
		return pebble.Sync
	}
	return pebble.NoSync
}

func (s *Store) commit(b *pebble.Batch) error {
	defer b.Close()
	return b.Commit(s.writeOptions())
}

// get returns a copy of the value, nil with ok=false if the key is absent.
func (s *Store) get(key []byte) (value []byte, ok bool, err error) {
	if s.db == nil {
		return nil, false, ErrClosed
	}
	v, closer, err := s.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	defer closer.Close()
	return append([]byte{}, v...), true, nil
}

// prefixScan calls fn for every key under prefix, in key order.
func (s *Store) prefixScan(prefix []byte, fn func(key, value []byte) error) (err error) {
	if s.db == nil {
		return ErrClosed
	}
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: prefixEnd(prefix),
	})
	if err != nil {
		return err
	}
	defer closeIter(iter, &err)
	for iter.First(); iter.Valid(); iter.Next() {
		if err = fn(iter.Key(), iter.Value()); err != nil {
			return err
		}
	}
	return iter.Error()
}

func closeIter(c io.Closer, err *error) {
	if cerr := c.Close(); cerr != nil && *err == nil {
		*err = cerr
	}
}
