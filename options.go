package usergrid

import (
	"log/slog"
	"os"

	"github.com/apache/usergrid-sub013/entities"
	"github.com/apache/usergrid-sub013/shard"
	"github.com/apache/usergrid-sub013/utils"
	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"
)

type Options struct {
	// page size when a query names none
	DefaultLimit int `yaml:"default_limit"`
	MaxLimit     int `yaml:"max_limit"`
	// shard buckets every index is spread over
	Buckets uint32 `yaml:"buckets"`
	// (entity, field) pairs the order-by loader caches per query
	FieldCacheSize int `yaml:"field_cache_size"`
	// bucket trees drained at once, 0 for all
	GatherParallelism int    `yaml:"gather_parallelism"`
	LogLevel          string `yaml:"log_level"`

	Logger utils.Logger `yaml:"-"`
}

func (o *Options) SetDefaults() {
	if o.DefaultLimit <= 0 {
		o.DefaultLimit = 10
	}
	if o.MaxLimit <= 0 {
		o.MaxLimit = 1000
	}
	if o.DefaultLimit > o.MaxLimit {
		o.DefaultLimit = o.MaxLimit
	}
	if o.Buckets == 0 {
		o.Buckets = shard.DefaultBuckets
	}
	if o.FieldCacheSize <= 0 {
		o.FieldCacheSize = entities.DefaultCacheSize
	}
	if o.Logger == nil {
		level := slog.LevelWarn
		if o.LogLevel != "" {
			_ = level.UnmarshalText([]byte(o.LogLevel))
		}
		o.Logger = utils.NewDefaultLogger(level)
	}
}

// LoadOptions reads YAML options from path. A missing file yields the
// defaults.
func LoadOptions(path string) (Options, error) {
	var opts Options
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return opts, errors.Wrap(err, "read options")
	}
	if err == nil {
		if err = yaml.Unmarshal(data, &opts); err != nil {
			return opts, errors.Wrapf(err, "parse options %s", path)
		}
	}
	opts.SetDefaults()
	return opts, nil
}
