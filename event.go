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

package bcodec

import (
	"fmt"
	"time"
)

// Event kinds fired at the pipeline edges (§4.I).
const (
	EvtCompressionStart     = 0
	EvtDecompressionStart   = 1
	EvtBeforeTransform      = 2
	EvtAfterTransform       = 3
	EvtBeforeEntropy        = 4
	EvtAfterEntropy         = 5
	EvtCompressionEnd       = 6
	EvtDecompressionEnd     = 7
	EvtAfterHeaderDecoding  = 8
	EvtBlockInfo            = 9

	EvtHashNone   = 0
	EvtHash32Bits = 32
)

// Event is a compression/decompression event delivered to a Listener.
type Event struct {
	eventType int
	id        int
	size      int64
	hash      uint32
	hashType  int
	eventTime time.Time
	msg       string
}

// NewEventFromString creates an Event that simply wraps a diagnostic message.
func NewEventFromString(evtType, id int, msg string, evtTime time.Time) *Event {
	if evtTime.IsZero() {
		evtTime = time.Now()
	}

	return &Event{eventType: evtType, id: id, msg: msg, eventTime: evtTime}
}

// NewEvent creates an Event carrying size and, optionally, hash information.
// Returns nil if hashType is not one of EvtHashNone / EvtHash32Bits.
func NewEvent(evtType, id int, size int64, hash uint32, hashType int, evtTime time.Time) *Event {
	if evtTime.IsZero() {
		evtTime = time.Now()
	}

	if hashType != EvtHashNone && hashType != EvtHash32Bits {
		return nil
	}

	return &Event{eventType: evtType, id: id, size: size, hash: hash,
		hashType: hashType, eventTime: evtTime}
}

// Type returns the event kind.
func (this *Event) Type() int {
	return this.eventType
}

// ID returns the block id this event relates to (block ids start at 1),
// or 0 when the event is not block-scoped.
func (this *Event) ID() int {
	return this.id
}

// Time returns the time the event was created.
func (this *Event) Time() time.Time {
	return this.eventTime
}

// Size returns the size carried by the event, in bytes.
func (this *Event) Size() int64 {
	return this.size
}

// Hash returns the checksum carried by the event, if any.
func (this *Event) Hash() uint32 {
	return this.hash
}

// HashType returns EvtHashNone or EvtHash32Bits.
func (this *Event) HashType() int {
	return this.hashType
}

// String returns a human-readable representation of the event.
func (this *Event) String() string {
	if len(this.msg) > 0 {
		return this.msg
	}

	hash := ""
	id := ""
	t := ""

	if this.hashType != EvtHashNone {
		hash = fmt.Sprintf(", \"hash\":%x", this.hash)
	}

	if this.id >= 0 {
		id = fmt.Sprintf(", \"id\":%d", this.id)
	}

	switch this.eventType {
	case EvtBeforeTransform:
		t = "BEFORE_TRANSFORM"
	case EvtAfterTransform:
		t = "AFTER_TRANSFORM"
	case EvtBeforeEntropy:
		t = "BEFORE_ENTROPY"
	case EvtAfterEntropy:
		t = "AFTER_ENTROPY"
	case EvtCompressionStart:
		t = "COMPRESSION_START"
	case EvtDecompressionStart:
		t = "DECOMPRESSION_START"
	case EvtCompressionEnd:
		t = "COMPRESSION_END"
	case EvtDecompressionEnd:
		t = "DECOMPRESSION_END"
	case EvtAfterHeaderDecoding:
		t = "AFTER_HEADER_DECODING"
	case EvtBlockInfo:
		t = "BLOCK_INFO"
	}

	return fmt.Sprintf("{ \"type\":\"%s\"%s, \"size\":%d, \"time\":%d%s }", t, id, this.size,
		this.eventTime.UnixNano()/1000000, hash)
}

// Listener is implemented by event processors. A panic raised inside
// ProcessEvent must never escape to the caller — callers swallow it (§4.I,
// §7: "Listener exceptions are swallowed").
type Listener interface {
	ProcessEvent(evt *Event)
}

// NotifyListeners fires evt on every listener in order, recovering from and
// discarding any panic a listener raises so one misbehaving listener cannot
// break the pipeline.
func NotifyListeners(listeners []Listener, evt *Event) {
	for _, l := range listeners {
		notifyOne(l, evt)
	}
}

func notifyOne(l Listener, evt *Event) {
	defer func() {
		_ = recover()
	}()

	l.ProcessEvent(evt)
}
