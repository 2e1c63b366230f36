// Package store keeps the wide-column rows the query engine scans, on top
// of Pebble.
//
// # Rows and columns
//
// A physical index row is identified by an IndexKey: application, scope
// (a collection owned by an entity, or one connection type going out of an
// entity), property and shard bucket. Its columns are the row key suffixes,
// kept sorted by Pebble, so a column range of one row is a key range.
// Membership rows use the empty property.
//
// # Key layout in Pebble
//
//   - Index column:  'I' + app(16) + bucket(u32, BE) + row(u64, BE) + column
//     -> empty value. row is the xxhash of owner, scope type, scope name and
//     property. Columns are:
//     membership of a collection: entity id
//     membership of a connection: target id + codec(target type)
//     secondary index: codec(value) + entity id
//
//   - Geo column:    'G' + app(16) + bucket(u32, BE) + row(u64, BE) +
//     cell(MaxResolution) + entity id -> lat(f64, BE) + lon(f64, BE)
//
//   - Entity field:  'E' + app(16) + entity id + field name -> codec(value);
//     the empty field name marks that the entity exists.
//
//   - Alias:         'A' + app(16) + collection + 0x00 + lowercased name -> entity id
//
//   - Index format:  'M' + app(16) + row(u64, BE) -> shard.Format, where row
//     hashes the scope and property with the index type in place of the
//     scope type.
//
// # Legacy rows
//
// Connection and geo rows of a shard.FormatLegacy index are written to
// both their LegacyBucketOf bucket and their BucketOf bucket. Readers of
// such an index re-validate every id (see shard.StrategyFor) so each entity
// surfaces from exactly one bucket.
package store
