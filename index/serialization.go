// Copyright 2025 Hirelink
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package index

import (
	"encoding/binary"
	"fmt"
	"sort"
	"time"

	"github.com/go-crypt/x/blake2b"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"

	"github.com/hirelink/searchcore/core"
)

// Serializers are hand-written on mus-go primitives instead of generated:
// map fields must marshal with sorted keys so that identical documents
// always produce identical bytes, which the fingerprint relies on.

// MarshalDocument serializes a Document to bytes.
func MarshalDocument(doc *Document) []byte {
	buf := make([]byte, sizeDocument(doc))
	n := varint.MarshalInt64(int64(doc.Id), buf)
	n += marshalStringMap(doc.Text, buf[n:])
	n += marshalStringMap(doc.Keywords, buf[n:])
	n += marshalNumericMap(doc.Numerics, buf[n:])
	n += varint.MarshalInt64(doc.UpdatedAt.UnixMicro(), buf[n:])
	ord.MarshalBool(doc.Boosted, buf[n:])
	return buf
}

// UnmarshalDocument deserializes a Document from bytes.
func UnmarshalDocument(data []byte) (*Document, error) {
	id, n, err := varint.UnmarshalInt64(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTruncatedDocument, err)
	}
	doc := &Document{Id: core.ID(id)}

	var used int
	if doc.Text, used, err = unmarshalStringMap(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTruncatedDocument, err)
	}
	n += used
	if doc.Keywords, used, err = unmarshalStringMap(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTruncatedDocument, err)
	}
	n += used
	if doc.Numerics, used, err = unmarshalNumericMap(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTruncatedDocument, err)
	}
	n += used

	micros, used, err := varint.UnmarshalInt64(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTruncatedDocument, err)
	}
	doc.UpdatedAt = time.UnixMicro(micros).UTC()
	n += used

	if doc.Boosted, _, err = ord.UnmarshalBool(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTruncatedDocument, err)
	}
	return doc, nil
}

// Fingerprint returns a stable 64-bit digest of a document's marshaled
// form. Upsert compares fingerprints to turn unchanged writes into
// no-ops.
func Fingerprint(doc *Document) uint64 {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write(MarshalDocument(doc))
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum)
}

func sizeDocument(doc *Document) int {
	size := varint.SizeInt64(int64(doc.Id))
	size += sizeStringMap(doc.Text)
	size += sizeStringMap(doc.Keywords)
	size += sizeNumericMap(doc.Numerics)
	size += varint.SizeInt64(doc.UpdatedAt.UnixMicro())
	size += ord.SizeBool(doc.Boosted)
	return size
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func marshalStringMap(m map[string]string, buf []byte) int {
	n := varint.MarshalInt(len(m), buf)
	for _, k := range sortedKeys(m) {
		n += ord.MarshalString(k, nil, buf[n:])
		n += ord.MarshalString(m[k], nil, buf[n:])
	}
	return n
}

func sizeStringMap(m map[string]string) int {
	size := varint.SizeInt(len(m))
	for k, v := range m {
		size += ord.SizeString(k, nil)
		size += ord.SizeString(v, nil)
	}
	return size
}

func unmarshalStringMap(data []byte) (map[string]string, int, error) {
	count, n, err := varint.UnmarshalInt(data)
	if err != nil {
		return nil, 0, err
	}
	if count < 0 {
		return nil, 0, ErrTruncatedDocument
	}
	m := make(map[string]string, count)
	for i := 0; i < count; i++ {
		k, used, err := ord.UnmarshalString(nil, data[n:])
		if err != nil {
			return nil, 0, err
		}
		n += used
		v, used, err := ord.UnmarshalString(nil, data[n:])
		if err != nil {
			return nil, 0, err
		}
		n += used
		m[k] = v
	}
	return m, n, nil
}

func marshalNumericMap(m map[string]int64, buf []byte) int {
	n := varint.MarshalInt(len(m), buf)
	for _, k := range sortedKeys(m) {
		n += ord.MarshalString(k, nil, buf[n:])
		n += varint.MarshalInt64(m[k], buf[n:])
	}
	return n
}

func sizeNumericMap(m map[string]int64) int {
	size := varint.SizeInt(len(m))
	for k, v := range m {
		size += ord.SizeString(k, nil)
		size += varint.SizeInt64(v)
	}
	return size
}

func unmarshalNumericMap(data []byte) (map[string]int64, int, error) {
	count, n, err := varint.UnmarshalInt(data)
	if err != nil {
		return nil, 0, err
	}
	if count < 0 {
		return nil, 0, ErrTruncatedDocument
	}
	m := make(map[string]int64, count)
	for i := 0; i < count; i++ {
		k, used, err := ord.UnmarshalString(nil, data[n:])
		if err != nil {
			return nil, 0, err
		}
		n += used
		v, used, err := varint.UnmarshalInt64(data[n:])
		if err != nil {
			return nil, 0, err
		}
		n += used
		m[k] = v
	}
	return m, n, nil
}
