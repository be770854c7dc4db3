/*
   Copyright The containerd Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package xattr

import (
	_ "crypto/sha256"
	"encoding/binary"

	"github.com/opencontainers/go-digest"
)

// Digest returns the canonical digest of an attribute set. The result does
// not depend on map order: names are hashed in sorted order, each followed
// by a null byte, the uvarint length of the value and the value itself.
func Digest(attrs map[string][]byte) digest.Digest {
	digester := digest.Canonical.Digester()
	h := digester.Hash()

	var n [binary.MaxVarintLen64]byte
	for _, name := range sortedNames(attrs) {
		value := attrs[name]
		h.Write([]byte(name))
		h.Write([]byte{0})
		h.Write(n[:binary.PutUvarint(n[:], uint64(len(value)))])
		h.Write(value)
	}

	return digester.Digest()
}
