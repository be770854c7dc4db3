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

// Package xattrtest provides file fixtures for tests exercising extended
// attributes on the host filesystem.
package xattrtest

import (
	"errors"
	"os"
	"testing"

	"golang.org/x/sys/unix"
)

const probeName = "user.xattrtest.probe"

// Applier applies a change to an open file.
type Applier interface {
	Apply(*os.File) error
}

type applyFn func(*os.File) error

func (a applyFn) Apply(f *os.File) error {
	return a(f)
}

// Apply returns an Applier running all the given appliers in order.
func Apply(appliers ...Applier) Applier {
	return applyFn(func(f *os.File) error {
		for _, a := range appliers {
			if err := a.Apply(f); err != nil {
				return err
			}
		}
		return nil
	})
}

// SetXAttr sets the attribute name to value.
func SetXAttr(name, value string) Applier {
	return applyFn(func(f *os.File) error {
		return unix.Fsetxattr(int(f.Fd()), name, []byte(value), 0)
	})
}

// RemoveXAttr removes the attribute name.
func RemoveXAttr(name string) Applier {
	return applyFn(func(f *os.File) error {
		return unix.Fremovexattr(int(f.Fd()), name)
	})
}

// WriteContent writes p at the current offset of the file.
func WriteContent(p []byte) Applier {
	return applyFn(func(f *os.File) error {
		_, err := f.Write(p)
		return err
	})
}

// TempFile creates an empty file in a fresh temporary directory, applies
// the appliers and returns it open for reading and writing. The test is
// skipped when the filesystem rejects user.* attributes. The file is closed
// when the test ends.
func TempFile(t testing.TB, appliers ...Applier) *os.File {
	t.Helper()

	f, err := os.CreateTemp(Dir(t), "xattr-")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	t.Cleanup(func() { f.Close() })

	if err := Apply(appliers...).Apply(f); err != nil {
		t.Fatalf("failed to apply fixture: %v", err)
	}
	return f
}

// Dir returns a temporary directory on a filesystem supporting user.*
// attributes, skipping the test otherwise.
func Dir(t testing.TB) string {
	t.Helper()

	dir := t.TempDir()
	fd, err := unix.Open(dir, unix.O_RDONLY, 0)
	if err != nil {
		t.Fatalf("failed to open %s: %v", dir, err)
	}
	defer unix.Close(fd)

	if err := unix.Fsetxattr(fd, probeName, []byte("1"), 0); err != nil {
		if Unsupported(err) {
			t.Skipf("user xattrs not supported in %s: %v", dir, err)
		}
		t.Fatalf("failed to probe xattr support: %v", err)
	}
	if err := unix.Fremovexattr(fd, probeName); err != nil {
		t.Fatalf("failed to remove probe xattr: %v", err)
	}
	return dir
}

// Unsupported reports whether err means the filesystem does not support
// the attribute namespace.
func Unsupported(err error) bool {
	return errors.Is(err, unix.ENOTSUP) || errors.Is(err, unix.EOPNOTSUPP)
}
