//go:build linux || darwin

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

import (
	"golang.org/x/sys/unix"
)

// Fgetxattr returns the value of the attribute name on the open descriptor
// fd. ENODATA is returned, unwrapped, when the attribute does not exist.
func Fgetxattr(fd uintptr, name string) ([]byte, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	return allocateLoop(func(dest []byte) (int, error) {
		return fgetxattr(int(fd), name, dest)
	})
}

// Fsetxattr creates or replaces the attribute name on fd.
func Fsetxattr(fd uintptr, name string, value []byte) error {
	if err := validateName(name); err != nil {
		return err
	}
	return ignoringEINTR(func() error {
		return unix.Fsetxattr(int(fd), name, value, 0)
	})
}

// Fremovexattr removes the attribute name from fd. ENODATA is returned when
// the attribute does not exist.
func Fremovexattr(fd uintptr, name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	return ignoringEINTR(func() error {
		return unix.Fremovexattr(int(fd), name)
	})
}

// Flistxattr returns the names of the attributes on fd. Only names in
// namespaces visible to the caller are reported; trusted.* attributes are
// never listed for unprivileged processes.
func Flistxattr(fd uintptr) (*XAttrs, error) {
	p, err := allocateLoop(func(dest []byte) (int, error) {
		return flistxattr(int(fd), dest)
	})
	if err != nil {
		return nil, err
	}
	return &XAttrs{data: p}, nil
}

type xattrFunc func(dest []byte) (int, error)

// allocateLoop runs the probe and fill protocol shared by the get and list
// calls. fn is called with a nil buffer to learn the size, then with a
// buffer of exactly that size. ERANGE on the second call means the value
// grew after the probe and the whole sequence is repeated.
func allocateLoop(fn xattrFunc) ([]byte, error) {
	for {
		sz, err := fn(nil)
		if err != nil {
			return nil, err
		}
		if sz == 0 {
			return []byte{}, nil
		}

		p := make([]byte, sz)
		n, err := fn(p)
		if err == nil && n <= len(p) {
			return p[:n], nil
		}
		if err != nil && err != unix.ERANGE {
			return nil, err
		}
	}
}

// ignoringEINTR retries fn while it reports EINTR. FUSE and CIFS mounts can
// interrupt xattr calls when the runtime delivers preemption signals.
func ignoringEINTR(fn func() error) error {
	for {
		err := fn()
		if err != unix.EINTR {
			return err
		}
	}
}

func fgetxattr(fd int, name string, dest []byte) (int, error) {
	var sz int
	err := ignoringEINTR(func() (err error) {
		sz, err = unix.Fgetxattr(fd, name, dest)
		return err
	})
	return sz, err
}

func flistxattr(fd int, dest []byte) (int, error) {
	var sz int
	err := ignoringEINTR(func() (err error) {
		sz, err = unix.Flistxattr(fd, dest)
		return err
	})
	return sz, err
}
