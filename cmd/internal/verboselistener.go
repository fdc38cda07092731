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

// Package internal holds the CLI-only helpers shared by the bcompress and
// bdecompress commands.
package internal

import (
	"fmt"
	"io"
	"sync"

	bcodec "github.com/blockstream-go/bcodec"
)

// VerboseListener prints one line per block-pipeline event to the given
// writer. The CLI registers it when invoked with --verbose=1 or higher (1 is
// the default). Start, end and header events are printed at every level,
// transform events from level 2 and entropy events from level 3.
type VerboseListener struct {
	writer io.Writer
	level  uint
	lock   sync.Mutex
}

// NewVerboseListener creates a VerboseListener writing to w.
func NewVerboseListener(w io.Writer, level uint) (*VerboseListener, error) {
	if w == nil {
		return nil, fmt.Errorf("invalid null writer parameter")
	}

	return &VerboseListener{writer: w, level: level}, nil
}

// ProcessEvent implements bcodec.Listener.
func (this *VerboseListener) ProcessEvent(evt *bcodec.Event) {
	if evt == nil {
		return
	}

	this.lock.Lock()
	defer this.lock.Unlock()

	switch evt.Type() {
	case bcodec.EvtAfterHeaderDecoding, bcodec.EvtCompressionStart, bcodec.EvtDecompressionStart,
		bcodec.EvtCompressionEnd, bcodec.EvtDecompressionEnd:
		fmt.Fprintln(this.writer, evt)

	case bcodec.EvtBeforeTransform, bcodec.EvtAfterTransform:
		if this.level >= 2 {
			fmt.Fprintln(this.writer, evt)
		}

	case bcodec.EvtBeforeEntropy, bcodec.EvtAfterEntropy:
		if this.level >= 3 {
			fmt.Fprintln(this.writer, evt)
		}
	}
}
