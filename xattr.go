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

// Package xattr reads and writes extended attributes of open files.
//
// The functions operate on a borrowed descriptor and never close it. Get is
// the one place where a missing attribute is reported as a result rather
// than an error; every other function passes the errors of package sysx
// through unchanged.
package xattr

import (
	"runtime"

	"github.com/containerd/xattr/sysx"
	"github.com/pkg/errors"
)

// File is an open file. *os.File satisfies it.
type File interface {
	Fd() uintptr
}

// Get returns the value of the attribute name. ok is false, with a nil
// error, when the attribute does not exist.
func Get(f File, name string) (value []byte, ok bool, err error) {
	value, err = sysx.Fgetxattr(f.Fd(), name)
	runtime.KeepAlive(f)
	return noDataAsAbsent(value, err)
}

// noDataAsAbsent maps ENODATA, and only ENODATA, to an absent result.
func noDataAsAbsent(value []byte, err error) ([]byte, bool, error) {
	if err != nil {
		if errors.Is(err, sysx.ENODATA) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return value, true, nil
}

// Set creates the attribute name or replaces its value.
func Set(f File, name string, value []byte) error {
	err := sysx.Fsetxattr(f.Fd(), name, value)
	runtime.KeepAlive(f)
	return err
}

// Remove removes the attribute name. Removing an attribute that does not
// exist fails with sysx.ENODATA.
func Remove(f File, name string) error {
	err := sysx.Fremovexattr(f.Fd(), name)
	runtime.KeepAlive(f)
	return err
}

// List returns the attribute names of f as a single pass cursor.
//
// NOTE: not every attribute is necessarily listed. trusted.* attributes are
// only visible to privileged callers, and system.* visibility depends on the
// filesystem.
func List(f File) (*sysx.XAttrs, error) {
	x, err := sysx.Flistxattr(f.Fd())
	runtime.KeepAlive(f)
	return x, err
}

type copyConfig struct {
	excludes map[string]struct{}
}

// CopyOpt configures Copy.
type CopyOpt func(*copyConfig) error

// WithXAttrExclude skips the named attributes when copying.
func WithXAttrExclude(names ...string) CopyOpt {
	return func(c *copyConfig) error {
		if c.excludes == nil {
			c.excludes = make(map[string]struct{}, len(names))
		}
		for _, name := range names {
			c.excludes[name] = struct{}{}
		}
		return nil
	}
}

// Copy copies every attribute listed on src to dst, creating or replacing
// each one. Attributes on dst that src lacks are left alone. An attribute
// removed from src between listing and reading is skipped. Copy stops at the
// first failure; attributes already written are not rolled back.
func Copy(dst, src File, opts ...CopyOpt) error {
	var config copyConfig
	for _, opt := range opts {
		if err := opt(&config); err != nil {
			return err
		}
	}

	names, err := List(src)
	if err != nil {
		return errors.Wrap(err, "failed to list xattrs")
	}

	for name := range names.All() {
		if _, skip := config.excludes[name]; skip {
			continue
		}

		value, ok, err := Get(src, name)
		if err != nil {
			return errors.Wrapf(err, "failed to get xattr %s", name)
		}
		if !ok {
			continue
		}

		if err := Set(dst, name, value); err != nil {
			return errors.Wrapf(err, "failed to set xattr %s", name)
		}
	}

	return nil
}
