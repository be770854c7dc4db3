//go:build !linux && !darwin

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

package sysx

import "errors"

// ENODATA is the error reported when an attribute does not exist.
var ENODATA = errors.New("no such attribute")

func Fgetxattr(fd uintptr, name string) ([]byte, error) {
	return nil, ErrNotSupported
}

func Fsetxattr(fd uintptr, name string, value []byte) error {
	return ErrNotSupported
}

func Fremovexattr(fd uintptr, name string) error {
	return ErrNotSupported
}

func Flistxattr(fd uintptr) (*XAttrs, error) {
	return nil, ErrNotSupported
}
