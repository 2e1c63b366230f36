package cursor

import (
	"encoding/base64"
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/apache/usergrid-sub013/protocol"
	"github.com/apache/usergrid-sub013/query_errors"
	"github.com/pkg/errors"
)

/*
A page token is the base64url (unpadded) encoding of TLV records:

	V(version=1)
	C(hash:int32be kind:byte payload...)   one per entry, ascending hash

Tokens issued before the versioned layout are the base64 of
"hash:base64(payload)|hash:base64(payload)..."; they decode with every
entry as KindColumn.
*/

const TokenVersion = 1

var tokenEncoding = base64.RawURLEncoding

// Encode serializes the cache into a page token. An empty cache encodes
// to the empty string.
func Encode(c *Cache) string {
	if c.Len() == 0 {
		return ""
	}
	buf := protocol.Record('V', []byte{TokenVersion})
	for _, h := range c.Hashes() {
		e := c.entries[h]
		var head [5]byte
		binary.BigEndian.PutUint32(head[:4], uint32(h))
		head[4] = byte(e.Kind)
		buf = protocol.Append(buf, 'C', head[:], e.Value)
	}
	return tokenEncoding.EncodeToString(buf)
}

func Decode(token string) (*Cache, error) {
	c := NewCache()
	if token == "" {
		return c, nil
	}
	raw, err := decodeBase64(token)
	if err != nil {
		return nil, errors.Wrap(query_errors.ErrMalformedCursor, "page token is not base64")
	}
	if len(raw) == 0 {
		return c, nil
	}
	if raw[0] != 'v' {
		return decodeLegacy(c, string(raw))
	}
	recs, err := protocol.Split(raw)
	if err != nil {
		return nil, errors.Wrap(query_errors.ErrMalformedCursor, err.Error())
	}
	ver, _, err := protocol.TakeWary('V', recs[0])
	if err != nil || len(ver) != 1 {
		return nil, errors.Wrap(query_errors.ErrMalformedCursor, "bad token version record")
	}
	if ver[0] != TokenVersion {
		return nil, errors.Wrapf(query_errors.ErrMalformedCursor, "token version %d", ver[0])
	}
	for _, rec := range recs[1:] {
		body, _, err := protocol.TakeWary('C', rec)
		if err != nil || len(body) < 5 {
			return nil, errors.Wrap(query_errors.ErrMalformedCursor, "bad token entry")
		}
		hash := int32(binary.BigEndian.Uint32(body[:4]))
		c.Set(hash, Kind(body[4]), body[5:])
	}
	return c, nil
}

func decodeBase64(s string) ([]byte, error) {
	s = strings.TrimRight(s, "=")
	if b, err := base64.RawURLEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	return base64.RawStdEncoding.DecodeString(s)
}

func decodeLegacy(c *Cache, s string) (*Cache, error) {
	for _, part := range strings.Split(s, "|") {
		if part == "" {
			continue
		}
		hs, vs, ok := strings.Cut(part, ":")
		if !ok {
			return nil, errors.Wrapf(query_errors.ErrMalformedCursor, "legacy entry %q", part)
		}
		hash, err := strconv.ParseInt(hs, 10, 32)
		if err != nil {
			return nil, errors.Wrapf(query_errors.ErrMalformedCursor, "legacy hash %q", hs)
		}
		value, err := decodeBase64(vs)
		if err != nil {
			return nil, errors.Wrapf(query_errors.ErrMalformedCursor, "legacy value for %d", hash)
		}
		c.Set(int32(hash), KindColumn, value)
	}
	return c, nil
}

// EncodeLegacy renders the pre-versioning token layout. Only used to
// check that such tokens still decode.
func EncodeLegacy(c *Cache) string {
	var sb strings.Builder
	for i, h := range c.Hashes() {
		if i > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString(strconv.Itoa(int(h)))
		sb.WriteByte(':')
		sb.WriteString(base64.URLEncoding.EncodeToString(c.entries[h].Value))
	}
	return base64.URLEncoding.EncodeToString([]byte(sb.String()))
}
