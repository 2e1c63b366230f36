package shard

// Format is the version of the layout an index was written with.
type Format byte

const (
	// rows were written to LegacyBucketOf and dual written to BucketOf
	FormatLegacy Format = 1
	// rows were only ever written to BucketOf
	FormatConsistent Format = 2
)

func (f Format) String() string {
	switch f {
	case FormatLegacy:
		return "legacy"
	case FormatConsistent:
		return "consistent"
	}
	return "unknown"
}

// DefaultFormat is assumed for indexes without a recorded format.
func DefaultFormat(typ IndexType) Format {
	if typ == IndexCollection {
		return FormatConsistent
	}
	return FormatLegacy
}

type Strategy byte

const (
	// scan results are used as is
	Bypass Strategy = iota
	// every id is checked against BucketOf for the scanned bucket
	Revalidate
)

// StrategyFor picks how rows of an index are filtered. Only legacy
// connection and geo indexes can hold rows in a bucket they do not belong to.
func StrategyFor(f Format, typ IndexType) Strategy {
	if f == FormatLegacy && (typ == IndexConnection || typ == IndexGeo) {
		return Revalidate
	}
	return Bypass
}

func (s Strategy) Validator(v *BucketValidator) Validator {
	if s == Revalidate {
		return v
	}
	return AcceptAll{}
}
