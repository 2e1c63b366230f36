package store

import (
	"log/slog"

	"github.com/apache/usergrid-sub013/utils"
	"github.com/cockroachdb/pebble/vfs"
)

type Options struct {
	// block cache size in bytes
	CacheSize int64
	// fsync every write batch
	Sync bool
	// nil means the OS filesystem; vfs.NewMem() for tests
	FS     vfs.FS
	Logger utils.Logger
}

func (o *Options) SetDefaults() {
	if o.CacheSize == 0 {
		o.CacheSize = 8 << 20
	}
	if o.FS == nil {
		o.FS = vfs.Default
	}
	if o.Logger == nil {
		o.Logger = utils.NewDefaultLogger(slog.LevelWarn)
	}
}
