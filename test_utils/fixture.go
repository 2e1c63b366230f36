// Package testutils holds the fixtures the query tests share: an in-memory
// store with a writer and deterministic ids.
package testutils

import (
	"encoding/binary"
	"log/slog"
	"testing"

	"github.com/apache/usergrid-sub013/geo"
	"github.com/apache/usergrid-sub013/ids"
	"github.com/apache/usergrid-sub013/shard"
	"github.com/apache/usergrid-sub013/store"
	"github.com/apache/usergrid-sub013/utils"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/stretchr/testify/require"
)

// SeqID is the n-th id of a sequence that sorts in n order.
func SeqID(n int) (id ids.ID) {
	binary.BigEndian.PutUint64(id[8:], uint64(n))
	return
}

func SeqIDs(ns ...int) []ids.ID {
	ret := make([]ids.ID, 0, len(ns))
	for _, n := range ns {
		ret = append(ret, SeqID(n))
	}
	return ret
}

func RangeIDs(from, to int) []ids.ID {
	var ret []ids.ID
	for i := from; i < to; i++ {
		ret = append(ret, SeqID(i))
	}
	return ret
}

func OpenMemStore(t testing.TB) *store.Store {
	s, err := store.Open("mem", store.Options{FS: vfs.NewMem(), Logger: utils.NewDefaultLogger(slog.LevelError)})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// Fixture is one application in a fresh in-memory store.
type Fixture struct {
	Store   *store.Store
	Locator *shard.Locator
	Writer  *store.Writer
	App     ids.ID
	Owner   ids.ID
}

func NewFixture(t testing.TB, buckets uint32) *Fixture {
	s := OpenMemStore(t)
	l := shard.NewLocator(buckets)
	return &Fixture{
		Store:   s,
		Locator: l,
		Writer:  store.NewWriter(s, l),
		App:     SeqID(1_000_000),
		Owner:   SeqID(2_000_000),
	}
}

func (f *Fixture) Collection(name string) store.Scope {
	return store.Scope{App: f.App, Owner: f.Owner, Type: shard.IndexCollection, Name: name}
}

func (f *Fixture) Connection(verb string) store.Scope {
	return store.Scope{App: f.App, Owner: f.Owner, Type: shard.IndexConnection, Name: verb}
}

// Put stores the entity and indexes it in scope: membership, every field,
// and geo.Point fields as locations. Connection scopes connect it as
// targetType.
func (f *Fixture) Put(t testing.TB, scope store.Scope, targetType string, id ids.ID, fields map[string]any) {
	stored := make(map[string]any, len(fields))
	for k, v := range fields {
		if _, ok := v.(geo.Point); !ok {
			stored[k] = v
		}
	}
	require.NoError(t, f.Store.PutEntity(f.App, id, stored))
	if scope.Type == shard.IndexConnection {
		require.NoError(t, f.Writer.Connect(scope, id, targetType))
	} else {
		require.NoError(t, f.Writer.AddMember(scope, id))
	}
	for k, v := range fields {
		if p, ok := v.(geo.Point); ok {
			require.NoError(t, f.Writer.IndexLocation(scope, k, id, p))
			continue
		}
		require.NoError(t, f.Writer.IndexProperty(scope, k, v, id))
	}
}
