package shard

import "github.com/apache/usergrid-sub013/ids"

// Validator decides whether an id read from a physical bucket belongs there.
type Validator interface {
	Valid(id ids.ID) bool
}

// BucketValidator accepts ids whose current bucket is Bucket.
type BucketValidator struct {
	Locator    *Locator
	App        ids.ID
	Type       IndexType
	Components []string
	Bucket     uint32
}

func (v *BucketValidator) Valid(id ids.ID) bool {
	return v.Locator.BucketOf(v.App, v.Type, id, v.Components...) == v.Bucket
}

// AcceptAll is the validator for rows that need no re-validation.
type AcceptAll struct{}

func (AcceptAll) Valid(ids.ID) bool { return true }
