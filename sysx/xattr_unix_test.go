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
	"bytes"
	"slices"
	"testing"

	"github.com/containerd/xattr/internal/xattrtest"
	pkgxattr "github.com/pkg/xattr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// scriptedAttr fakes a get or list syscall over an attribute whose value
// changes from one call to the next. The last value sticks.
type scriptedAttr struct {
	values [][]byte
	calls  int
	probes int
}

func (s *scriptedAttr) call(dest []byte) (int, error) {
	v := s.values[min(s.calls, len(s.values)-1)]
	s.calls++
	if dest == nil {
		s.probes++
		return len(v), nil
	}
	if len(dest) < len(v) {
		return 0, unix.ERANGE
	}
	return copy(dest, v), nil
}

func TestAllocateLoopGrowth(t *testing.T) {
	final := []byte("a value that grew after the probe")
	s := &scriptedAttr{values: [][]byte{
		[]byte("short"),
		final, // visible to the fill call, which must fail with ERANGE
	}}

	p, err := allocateLoop(s.call)
	require.NoError(t, err)
	assert.Equal(t, final, p)
	assert.Equal(t, len(final), cap(p))
	assert.Equal(t, 2, s.probes, "expected exactly one retry")
	assert.Equal(t, 4, s.calls)
}

func TestAllocateLoopShrink(t *testing.T) {
	s := &scriptedAttr{values: [][]byte{
		[]byte("longer value"),
		[]byte("abc"),
	}}

	p, err := allocateLoop(s.call)
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), p)
	assert.Equal(t, 1, s.probes)
}

func TestAllocateLoopEmpty(t *testing.T) {
	s := &scriptedAttr{values: [][]byte{{}}}

	p, err := allocateLoop(s.call)
	require.NoError(t, err)
	assert.NotNil(t, p)
	assert.Empty(t, p)
	assert.Equal(t, 1, s.calls, "no fill call for an empty value")
}

func TestAllocateLoopProbeError(t *testing.T) {
	calls := 0
	_, err := allocateLoop(func(dest []byte) (int, error) {
		calls++
		return -1, ENODATA
	})
	assert.Equal(t, ENODATA, err)
	assert.Equal(t, 1, calls)
}

func TestAllocateLoopFillError(t *testing.T) {
	calls := 0
	_, err := allocateLoop(func(dest []byte) (int, error) {
		calls++
		if dest == nil {
			return 8, nil
		}
		return -1, unix.EACCES
	})
	assert.Equal(t, unix.EACCES, err)
	assert.Equal(t, 2, calls, "only ERANGE is retried")
}

func TestIgnoringEINTR(t *testing.T) {
	calls := 0
	err := ignoringEINTR(func() error {
		calls++
		if calls < 3 {
			return unix.EINTR
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestInvalidNameBeforeSyscall(t *testing.T) {
	// An invalid descriptor would fail with EBADF if a syscall were made.
	const badFd = ^uintptr(0)
	const name = "user.te\x00st"

	_, err := Fgetxattr(badFd, name)
	assert.ErrorIs(t, err, ErrInvalidName)
	assert.ErrorIs(t, Fsetxattr(badFd, name, []byte("v")), ErrInvalidName)
	assert.ErrorIs(t, Fremovexattr(badFd, name), ErrInvalidName)

	_, err = Flistxattr(badFd)
	assert.Equal(t, unix.EBADF, err)
}

func TestSetGetListRemove(t *testing.T) {
	f := xattrtest.TempFile(t, xattrtest.WriteContent([]byte("testcase")))
	fd := f.Fd()

	require.NoError(t, Fsetxattr(fd, "user.testcase", []byte("value")))

	value, err := Fgetxattr(fd, "user.testcase")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), value)

	list, err := Flistxattr(fd)
	require.NoError(t, err)
	assert.Contains(t, slices.Collect(list.All()), "user.testcase")

	require.NoError(t, Fremovexattr(fd, "user.testcase"))

	list, err = Flistxattr(fd)
	require.NoError(t, err)
	assert.NotContains(t, slices.Collect(list.All()), "user.testcase")

	_, err = Fgetxattr(fd, "user.testcase")
	assert.Equal(t, ENODATA, err)
	assert.Equal(t, ENODATA, Fremovexattr(fd, "user.testcase"))
}

func TestSetOverwrites(t *testing.T) {
	f := xattrtest.TempFile(t, xattrtest.SetXAttr("user.k", "first"))

	require.NoError(t, Fsetxattr(f.Fd(), "user.k", []byte("second, longer")))
	value, err := Fgetxattr(f.Fd(), "user.k")
	require.NoError(t, err)
	assert.Equal(t, []byte("second, longer"), value)

	require.NoError(t, Fsetxattr(f.Fd(), "user.k", nil))
	value, err = Fgetxattr(f.Fd(), "user.k")
	require.NoError(t, err)
	assert.Empty(t, value)
}

func TestAgreesWithPkgXattr(t *testing.T) {
	f := xattrtest.TempFile(t)
	large := bytes.Repeat([]byte("0123456789abcdef"), 192)

	require.NoError(t, Fsetxattr(f.Fd(), "user.large", large))
	require.NoError(t, pkgxattr.FSet(f, "user.other", []byte("from pkg/xattr")))

	got, err := pkgxattr.FGet(f, "user.large")
	require.NoError(t, err)
	assert.Equal(t, large, got)

	value, err := Fgetxattr(f.Fd(), "user.other")
	require.NoError(t, err)
	assert.Equal(t, []byte("from pkg/xattr"), value)

	want, err := pkgxattr.FList(f)
	require.NoError(t, err)
	list, err := Flistxattr(f.Fd())
	require.NoError(t, err)
	assert.ElementsMatch(t, want, slices.Collect(list.All()))
}
