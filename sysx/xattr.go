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

// Package sysx wraps the descriptor based extended attribute syscalls. Reads
// follow the kernel's size discovery protocol: probe for the size, allocate,
// fill, and start over if the attribute grew in between.
package sysx

import (
	"bytes"
	"errors"
	"iter"
	"os"
	"strings"
)

var (
	// ErrInvalidName is returned when an attribute name contains a null
	// byte. No syscall is made in that case.
	ErrInvalidName error = invalidNameError{}

	// ErrNotSupported is returned by every operation on platforms without
	// extended attribute support.
	ErrNotSupported = errors.New("xattrs not supported on this platform")
)

type invalidNameError struct{}

func (invalidNameError) Error() string {
	return "xattr name must not contain null bytes"
}

// Is lets callers match ErrInvalidName against os.ErrInvalid.
func (invalidNameError) Is(target error) bool {
	return target == os.ErrInvalid
}

func validateName(name string) error {
	if strings.IndexByte(name, 0) >= 0 {
		return ErrInvalidName
	}
	return nil
}

// XAttrs holds the packed name list returned by Flistxattr: null terminated
// names back to back. Names are produced lazily by Next. The position only
// moves forward; once the end is reached a new Flistxattr call is needed to
// enumerate again.
type XAttrs struct {
	data   []byte
	offset int
}

// NewXAttrs returns a cursor over a copy of the packed name list p.
func NewXAttrs(p []byte) *XAttrs {
	return &XAttrs{data: bytes.Clone(p)}
}

// Next returns the next attribute name. ok is false once the list is
// exhausted.
func (x *XAttrs) Next() (name string, ok bool) {
	data := x.data[x.offset:]
	if len(data) == 0 {
		return "", false
	}

	end := bytes.IndexByte(data, 0)
	if end < 0 {
		// NOTE: the kernel always terminates the last name. Yield whatever
		// is left rather than dropping it.
		x.offset = len(x.data)
		return string(data), true
	}

	x.offset += end + 1
	return string(data[:end]), true
}

// All returns an iterator over the remaining names. Iterating consumes the
// names just as Next does.
func (x *XAttrs) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		for name, ok := x.Next(); ok; name, ok = x.Next() {
			if !yield(name) {
				return
			}
		}
	}
}

// Len returns the number of unconsumed bytes in the list.
func (x *XAttrs) Len() int {
	return len(x.data) - x.offset
}

// Bytes returns a copy of the whole packed list, regardless of how much of
// it has been consumed.
func (x *XAttrs) Bytes() []byte {
	return bytes.Clone(x.data)
}
