package plan

import (
	"strconv"

	"github.com/apache/usergrid-sub013/cursor"
	"github.com/apache/usergrid-sub013/entities"
	"github.com/apache/usergrid-sub013/geo"
	"github.com/apache/usergrid-sub013/ids"
	"github.com/apache/usergrid-sub013/query_errors"
	"github.com/apache/usergrid-sub013/results"
	"github.com/apache/usergrid-sub013/scan"
	"github.com/apache/usergrid-sub013/shard"
	"github.com/apache/usergrid-sub013/store"
	"github.com/pkg/errors"
)

// RootPath is the position path of the root node. Child i of the node at
// path p sits at p.i.
const RootPath = "r"

// Env is what a query is built against.
type Env struct {
	Scope store.Scope
	// only connections to entities of this type, if set
	TargetType string
	PageSize   int
	// inbound cursors, may be nil
	Cursors *cursor.Cache
	Store   *store.Store
	Locator *shard.Locator
	Loader  entities.Loader
}

type Builder struct {
	env Env
}

func NewBuilder(env Env) *Builder {
	if env.PageSize < 1 {
		env.PageSize = 1
	}
	if env.Locator == nil {
		env.Locator = shard.NewLocator(1)
	}
	return &Builder{env: env}
}

// OrderHash keys the cursor of a root OrderBy.
func OrderHash() int32 {
	return scan.PathHash(RootPath, "order")
}

// GatherHash keys the cursor of the bucket fan-out stage.
func GatherHash() int32 {
	return scan.PathHash(RootPath, "gather")
}

func childPath(path string, i int) string {
	return path + "." + strconv.Itoa(i)
}

// Build makes the iterator tree of n for one bucket.
func (b *Builder) Build(n Node, bucket uint32) (results.Iterator, error) {
	if ob, ok := n.(*OrderBy); ok {
		candidates, err := b.Candidates(ob, bucket)
		if err != nil {
			return nil, err
		}
		return b.OrderBy(ob, candidates)
	}
	return b.build(n, RootPath, bucket)
}

// Candidates builds the tree an OrderBy root sorts, for one bucket.
func (b *Builder) Candidates(n *OrderBy, bucket uint32) (results.Iterator, error) {
	return b.build(n.Child, childPath(RootPath, 0), bucket)
}

// OrderBy sorts candidates, which may span buckets, resuming after the
// entity the inbound cursor names.
func (b *Builder) OrderBy(n *OrderBy, candidates results.Iterator) (results.Iterator, error) {
	if len(n.Sorts) == 0 {
		return nil, errors.Wrap(query_errors.ErrBadQuery, "order by without sort fields")
	}
	if b.env.Loader == nil {
		return nil, errors.Wrap(query_errors.ErrBadQuery, "order by without an entity loader")
	}
	start, err := b.IDCursor(OrderHash())
	if err != nil {
		return nil, err
	}
	return results.NewOrderBy(candidates, b.env.Loader, n.Sorts, b.env.PageSize, OrderHash(), start), nil
}

func (b *Builder) build(n Node, path string, bucket uint32) (results.Iterator, error) {
	switch n := n.(type) {
	case *All:
		return b.members(path, bucket)
	case *Slice:
		return b.slices(n, path, bucket)
	case *Within:
		return b.within(n, path, bucket)
	case *NameIdentifier:
		return b.name(n, bucket)
	case *UUIDIdentifier:
		return b.identifier(n.ID, bucket)
	case *And:
		children, err := b.children(n.Children, path, bucket)
		if err != nil {
			return nil, err
		}
		return results.NewIntersection(children, b.env.PageSize), nil
	case *Or:
		children, err := b.children(n.Children, path, bucket)
		if err != nil {
			return nil, err
		}
		hash := scan.MixHash(scan.PathHash(path, "or"), bucket)
		after, err := b.IDCursor(hash)
		if err != nil {
			return nil, err
		}
		return results.NewUnion(children, b.env.PageSize, hash, Reversed(n), after), nil
	case *Not:
		keep, err := b.build(n.Keep, childPath(path, 0), bucket)
		if err != nil {
			return nil, err
		}
		subtract, err := b.build(n.Subtract, childPath(path, 1), bucket)
		if err != nil {
			return nil, err
		}
		return results.NewSubtraction(keep, subtract, b.env.PageSize), nil
	case *OrderBy:
		return nil, errors.Wrapf(query_errors.ErrBadQuery, "order by at %s, only the root may sort", path)
	case nil:
		return nil, errors.Wrapf(query_errors.ErrUnknownNode, "nil node at %s", path)
	default:
		return nil, errors.Wrapf(query_errors.ErrUnknownNode, "%T at %s", n, path)
	}
}

func (b *Builder) children(nodes []Node, path string, bucket uint32) ([]results.Iterator, error) {
	ret := make([]results.Iterator, 0, len(nodes))
	for i, child := range nodes {
		it, err := b.build(child, childPath(path, i), bucket)
		if err != nil {
			return nil, err
		}
		ret = append(ret, it)
	}
	return ret, nil
}

func (b *Builder) membershipType() shard.IndexType {
	if b.env.Scope.Type == shard.IndexConnection {
		return shard.IndexConnection
	}
	return shard.IndexCollection
}

func (b *Builder) members(path string, bucket uint32) (results.Iterator, error) {
	var parser scan.Parser = scan.IDParser{}
	if b.membershipType() == shard.IndexConnection {
		parser = scan.ConnectionParser{TargetType: b.env.TargetType}
	}
	qs := &scan.QuerySlice{}
	return b.leaf(qs, parser, "", path, bucket)
}

func (b *Builder) slices(n *Slice, path string, bucket uint32) (results.Iterator, error) {
	for _, qs := range n.Slices {
		if qs == nil || qs.Property == "" {
			return nil, errors.Wrapf(query_errors.ErrBadQuery, "slice without a property at %s", path)
		}
	}
	switch len(n.Slices) {
	case 0:
		return nil, errors.Wrapf(query_errors.ErrBadQuery, "empty slice node at %s", path)
	case 1:
		it, err := b.leaf(n.Slices[0], scan.IndexParser{}, n.Slices[0].Property, path, bucket)
		if err != nil {
			return nil, err
		}
		return b.typed(it, path, bucket)
	}
	leaves := make([]results.Iterator, 0, len(n.Slices))
	for i, qs := range n.Slices {
		it, err := b.leaf(qs, scan.IndexParser{}, qs.Property, childPath(path, i), bucket)
		if err != nil {
			return nil, err
		}
		leaves = append(leaves, it)
	}
	return b.typed(results.NewIntersection(leaves, b.env.PageSize), path, bucket)
}

// typed restricts it to connections of the target type. Secondary index and
// geo rows do not carry the type of the connected entity, the membership
// row does.
func (b *Builder) typed(it results.Iterator, path string, bucket uint32) (results.Iterator, error) {
	if b.membershipType() != shard.IndexConnection || b.env.TargetType == "" {
		return it, nil
	}
	members, err := b.members(path+".type", bucket)
	if err != nil {
		return nil, err
	}
	return results.NewIntersection([]results.Iterator{it, members}, b.env.PageSize), nil
}

// leaf scans one row of the bucket. property names the row; it is empty
// for membership rows.
func (b *Builder) leaf(qs *scan.QuerySlice, parser scan.Parser, property, path string, bucket uint32) (results.Iterator, error) {
	hash := scan.MixHash(scan.PathHash(path, property), bucket)
	position, err := b.columnCursor(hash)
	if err != nil {
		return nil, err
	}
	qs = qs.Bind(hash, position)
	var lower, upper []byte
	if property != "" {
		if lower, upper, err = store.SliceBounds(qs); err != nil {
			return nil, err
		}
	}
	key := store.IndexKey{Scope: b.env.Scope, Property: property, Bucket: bucket}
	sc := b.env.Store.NewScanner(key, lower, upper, position, b.env.PageSize, qs.Reversed)
	// secondary index rows are written under the membership format
	return b.filter(results.NewSliceIterator(qs, sc, parser), b.membershipType(), "", bucket)
}

func (b *Builder) within(n *Within, path string, bucket uint32) (results.Iterator, error) {
	center, err := geo.NewPoint(n.Lat, n.Lon)
	if err != nil {
		return nil, errors.Wrap(query_errors.ErrBadQuery, err.Error())
	}
	if n.MaxDistance <= 0 || n.MinDistance > n.MaxDistance {
		return nil, errors.Wrapf(query_errors.ErrBadQuery, "distance range [%g, %g]", n.MinDistance, n.MaxDistance)
	}
	hash := scan.MixHash(scan.PathHash(path, n.Property), bucket)
	start, err := b.geoCursor(hash)
	if err != nil {
		return nil, err
	}
	q := results.GeoQuery{Property: n.Property, Center: center, MinDistance: n.MinDistance, MaxDistance: n.MaxDistance}
	searcher := geo.NewIndexSearcher(b.env.Store.GeoReader(b.env.Scope, bucket))
	it, err := b.filter(results.NewGeoIterator(searcher, q, b.env.PageSize, hash, start), shard.IndexGeo, n.Property, bucket)
	if err != nil {
		return nil, err
	}
	return b.typed(it, path, bucket)
}

func (b *Builder) name(n *NameIdentifier, bucket uint32) (results.Iterator, error) {
	collection := b.env.Scope.Name
	if b.membershipType() == shard.IndexConnection {
		collection = b.env.TargetType
	}
	id, ok, err := b.env.Store.ResolveName(b.env.Scope.App, collection, n.Name)
	if err != nil {
		return nil, errors.Wrap(query_errors.ErrScan, err.Error())
	}
	if !ok {
		return results.EmptyIterator{}, nil
	}
	return b.identifier(id, bucket)
}

// identifier yields id if it is a member of the scope stored in bucket.
func (b *Builder) identifier(id ids.ID, bucket uint32) (results.Iterator, error) {
	scope := b.env.Scope
	if b.env.Locator.BucketOf(scope.App, scope.Type, id, scope.Components()...) != bucket {
		return results.EmptyIterator{}, nil
	}
	column := id.Bytes()
	if b.membershipType() == shard.IndexConnection && b.env.TargetType != "" {
		column = scan.ConnectionName(id, b.env.TargetType)
	}
	found, err := b.env.Store.HasColumn(store.IndexKey{Scope: scope, Bucket: bucket}, column)
	if err != nil {
		return nil, err
	}
	if !found {
		return results.EmptyIterator{}, nil
	}
	return results.NewStatic(scan.SetOf(scan.NewIDColumn(id, id.Bytes()))), nil
}

// filter wraps it in a shard filter when rows of the index may sit in a
// bucket they do not belong to.
func (b *Builder) filter(it results.Iterator, typ shard.IndexType, property string, bucket uint32) (results.Iterator, error) {
	scope := b.env.Scope
	f, err := b.env.Store.FormatOf(scope, typ, property)
	if err != nil {
		return nil, errors.Wrap(query_errors.ErrScan, err.Error())
	}
	v := shard.StrategyFor(f, typ).Validator(&shard.BucketValidator{
		Locator:    b.env.Locator,
		App:        scope.App,
		Type:       scope.Type,
		Components: scope.Components(),
		Bucket:     bucket,
	})
	if _, ok := v.(shard.AcceptAll); ok {
		return it, nil
	}
	return results.NewShardFilter(it, v, b.env.PageSize), nil
}

func (b *Builder) cursorOf(hash int32, kind cursor.Kind) ([]byte, bool, error) {
	e, ok := b.env.Cursors.Get(hash)
	if !ok {
		return nil, false, nil
	}
	if e.Kind != kind {
		return nil, false, errors.Wrapf(query_errors.ErrMalformedCursor, "cursor %d is %c, want %c", hash, e.Kind, kind)
	}
	return e.Value, true, nil
}

func (b *Builder) columnCursor(hash int32) ([]byte, error) {
	v, _, err := b.cursorOf(hash, cursor.KindColumn)
	return v, err
}

// IDCursor reads the id an inbound KindID cursor holds, nil if there is none.
func (b *Builder) IDCursor(hash int32) (*ids.ID, error) {
	v, ok, err := b.cursorOf(hash, cursor.KindID)
	if err != nil || !ok {
		return nil, err
	}
	id, err := ids.FromBytes(v)
	if err != nil {
		return nil, errors.Wrap(query_errors.ErrMalformedCursor, err.Error())
	}
	return &id, nil
}

func (b *Builder) geoCursor(hash int32) (*cursor.GeoPosition, error) {
	v, ok, err := b.cursorOf(hash, cursor.KindGeo)
	if err != nil || !ok {
		return nil, err
	}
	pos, err := cursor.DecodeGeo(v)
	if err != nil {
		return nil, err
	}
	return &pos, nil
}
