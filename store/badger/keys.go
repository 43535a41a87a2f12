// Copyright 2026 Poiesic Systems
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


package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/casekit/core"
)

// Key prefixes for different data types
const (
	caseRecordPrefix = "casrec"
	caseOrderPrefix  = "casord"
	caseOrderSeq     = "casordseq"
)

// makeCaseKey generates a key for a case by ID.
func makeCaseKey(id core.CaseID) []byte {
	return []byte(fmt.Sprintf("%s:%s", caseRecordPrefix, id))
}

// makeOrderKey generates a composite key for the insertion-order index.
// Format: prefix:seq, with the sequence in BigEndian order so
// lexicographic iteration yields insertion order.
func makeOrderKey(seq uint64) []byte {
	prefix := caseOrderPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], seq)
	return buf
}
