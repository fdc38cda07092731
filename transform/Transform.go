/*
Copyright 2011-2026 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package transform implements the byte-transform stages (BWT, BWTS, MTFT,
// SBRT, RLT/ZRLT, LZ4/Snappy wrappers) and their composition into a
// transform sequence, as selected by the 16-bit transform-sequence id
// carried in the stream header.
package transform

import (
	"fmt"
	"strings"

	bcodec "github.com/blockstream-go/bcodec"
)

// Named transform-sequence ids (one nibble each, spec section 3).
const (
	NoneType      = uint64(0)
	BWTType       = uint64(1)
	BWTSType      = uint64(2)
	LZ4Type       = uint64(3)
	SnappyType    = uint64(4)
	RLTType       = uint64(5)
	ZRLTType      = uint64(6)
	MTFTType      = uint64(7)
	RankType      = uint64(8)
	TimestampType = uint64(9)
)

const (
	_SEQ_NIBBLE_BITS  = 4
	_SEQ_MAX_STAGES   = 4
	_SEQ_NIBBLE_MASK  = (1 << _SEQ_NIBBLE_BITS) - 1
	_SEQ_TOP_SHIFT    = (_SEQ_MAX_STAGES - 1) * _SEQ_NIBBLE_BITS
)

// GetType maps a '+'-separated list of up to 4 transform names into the
// packed 16-bit transform-sequence id (4 nibbles, highest nibble first).
func GetType(name string) (uint64, error) {
	if name == "" {
		name = "NONE"
	}

	tokens := strings.Split(name, "+")

	if len(tokens) > _SEQ_MAX_STAGES {
		return 0, fmt.Errorf("only %d transforms allowed: '%s'", _SEQ_MAX_STAGES, name)
	}

	res := uint64(0)
	shift := _SEQ_TOP_SHIFT

	for _, token := range tokens {
		t, err := nameToID(token)

		if err != nil {
			return 0, err
		}

		if t != NoneType {
			res |= t << uint(shift)
		}

		shift -= _SEQ_NIBBLE_BITS
	}

	return res, nil
}

// GetName turns a packed transform-sequence id back into its '+'-joined
// textual representation.
func GetName(seqID uint64) (string, error) {
	var parts []string

	for i := 0; i < _SEQ_MAX_STAGES; i++ {
		t := (seqID >> uint(_SEQ_TOP_SHIFT-_SEQ_NIBBLE_BITS*i)) & _SEQ_NIBBLE_MASK

		if t == NoneType {
			continue
		}

		n, err := idToName(t)

		if err != nil {
			return "", err
		}

		parts = append(parts, n)
	}

	if len(parts) == 0 {
		return "NONE", nil
	}

	return strings.Join(parts, "+"), nil
}

func nameToID(name string) (uint64, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "NONE", "":
		return NoneType, nil
	case "BWT":
		return BWTType, nil
	case "BWTS":
		return BWTSType, nil
	case "LZ4":
		return LZ4Type, nil
	case "SNAPPY":
		return SnappyType, nil
	case "RLT":
		return RLTType, nil
	case "ZRLT":
		return ZRLTType, nil
	case "MTFT":
		return MTFTType, nil
	case "RANK":
		return RankType, nil
	case "TIMESTAMP":
		return TimestampType, nil
	default:
		return 0, fmt.Errorf("unknown transform type: '%s'", name)
	}
}

func idToName(id uint64) (string, error) {
	switch id {
	case NoneType:
		return "NONE", nil
	case BWTType:
		return "BWT", nil
	case BWTSType:
		return "BWTS", nil
	case LZ4Type:
		return "LZ4", nil
	case SnappyType:
		return "SNAPPY", nil
	case RLTType:
		return "RLT", nil
	case ZRLTType:
		return "ZRLT", nil
	case MTFTType:
		return "MTFT", nil
	case RankType:
		return "RANK", nil
	case TimestampType:
		return "TIMESTAMP", nil
	default:
		return "", fmt.Errorf("unknown transform type: '%d'", id)
	}
}

func newStage(ctx *map[string]interface{}, id uint64) (bcodec.ByteTransform, error) {
	switch id {
	case NoneType:
		return NewNone()
	case BWTType:
		return NewBWTWithCtx(ctx)
	case BWTSType:
		return NewBWTS()
	case LZ4Type:
		return NewLZ4()
	case SnappyType:
		return NewSnappy()
	case RLTType:
		return NewRLT()
	case ZRLTType:
		return NewZRLT()
	case MTFTType:
		return NewSBRTWithCtx(ctx, SBRTModeMTF)
	case RankType:
		return NewSBRTWithCtx(ctx, SBRTModeRank)
	case TimestampType:
		return NewSBRTWithCtx(ctx, SBRTModeTimestamp)
	default:
		return nil, fmt.Errorf("unknown transform type: '%d'", id)
	}
}

// New decodes the packed transform-sequence id into a ByteTransformSequence
// of up to 4 stages, in the order they must be applied (highest nibble
// first). A NULL nibble is skipped unless it is the only entry.
func New(ctx *map[string]interface{}, seqID uint64) (*ByteTransformSequence, error) {
	ids := make([]uint64, 0, _SEQ_MAX_STAGES)

	for i := 0; i < _SEQ_MAX_STAGES; i++ {
		t := (seqID >> uint(_SEQ_TOP_SHIFT-_SEQ_NIBBLE_BITS*i)) & _SEQ_NIBBLE_MASK

		if t != NoneType {
			ids = append(ids, t)
		}
	}

	if len(ids) == 0 {
		ids = append(ids, NoneType)
	}

	stages := make([]bcodec.ByteTransform, len(ids))

	for i, id := range ids {
		s, err := newStage(ctx, id)

		if err != nil {
			return nil, err
		}

		stages[i] = s
	}

	return NewByteTransformSequence(stages)
}
