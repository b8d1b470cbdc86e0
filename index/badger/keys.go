package badger

import (
	"encoding/binary"

	"github.com/hirelink/searchcore/core"
)

// Key layout, one namespace per entity type ("job", "candidate"):
//
//	idx:<ns>:doc:<id8>            -> marshaled document
//	idx:<ns>:fp:<id8>             -> 8-byte document fingerprint
//	idx:<ns>:pst:<token>\x00<id8> -> varint weighted term score
//
// Ids are BigEndian so iteration order matches numeric order. Tokens
// contain only letters and digits, so the NUL separator is unambiguous.
const (
	keyRoot      = "idx:"
	docSegment   = ":doc:"
	fpSegment    = ":fp:"
	postSegment  = ":pst:"
	postTokenSep = byte(0x00)
)

func idBytes(id core.ID) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(id))
	return buf
}

func idFromBytes(buf []byte) core.ID {
	return core.ID(binary.BigEndian.Uint64(buf))
}

// makeNamespacePrefix covers every key of one index; Clear drops it.
func makeNamespacePrefix(ns string) []byte {
	return []byte(keyRoot + ns + ":")
}

func makeDocPrefix(ns string) []byte {
	return []byte(keyRoot + ns + docSegment)
}

func makeDocKey(ns string, id core.ID) []byte {
	return append(makeDocPrefix(ns), idBytes(id)...)
}

func makeFingerprintKey(ns string, id core.ID) []byte {
	return append([]byte(keyRoot+ns+fpSegment), idBytes(id)...)
}

// makePostingPrefix covers all postings of one token.
func makePostingPrefix(ns, token string) []byte {
	buf := make([]byte, 0, len(keyRoot)+len(ns)+len(postSegment)+len(token)+1)
	buf = append(buf, keyRoot+ns+postSegment...)
	buf = append(buf, token...)
	buf = append(buf, postTokenSep)
	return buf
}

func makePostingKey(ns, token string, id core.ID) []byte {
	return append(makePostingPrefix(ns, token), idBytes(id)...)
}

// postingId extracts the document id from a posting key.
func postingId(key []byte) core.ID {
	return idFromBytes(key[len(key)-8:])
}
