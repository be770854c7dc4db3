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

package manifest

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func testManifest() *Manifest {
	return &Manifest{Resources: []Resource{
		{Path: "/etc/hosts", XAttrs: map[string][]byte{
			"security.selinux": []byte("system_u:object_r:net_conf_t:s0\x00"),
			"user.empty":       {},
		}},
		{Path: "/usr/bin/ping", XAttrs: map[string][]byte{
			"security.capability": {0x01, 0x00, 0x00, 0x02, 0x00, 0x20},
			"user.\xff":           []byte("non utf-8 name"),
		}},
		{Path: "/var/empty"},
	}}
}

func TestMarshalRoundTrip(t *testing.T) {
	m := testManifest()

	p := Marshal(m)
	assert.Equal(t, p, Marshal(testManifest()), "encoding must be deterministic")

	decoded, err := Unmarshal(p)
	require.NoError(t, err)
	require.Len(t, decoded.Resources, 3)
	assert.Equal(t, m.Resources[:2], decoded.Resources[:2])
	assert.Equal(t, "/var/empty", decoded.Resources[2].Path)
	assert.Empty(t, decoded.Resources[2].XAttrs)
}

func TestUnmarshalSkipsUnknownFields(t *testing.T) {
	r := marshalResource(Resource{Path: "/a", XAttrs: map[string][]byte{"user.a": []byte("1")}})
	r = protowire.AppendTag(r, 9, protowire.VarintType)
	r = protowire.AppendVarint(r, 42)

	var p []byte
	p = protowire.AppendTag(p, 15, protowire.BytesType)
	p = protowire.AppendString(p, "future")
	p = protowire.AppendTag(p, manifestResourceField, protowire.BytesType)
	p = protowire.AppendBytes(p, r)

	m, err := Unmarshal(p)
	require.NoError(t, err)
	require.Len(t, m.Resources, 1)
	assert.Equal(t, []byte("1"), m.Resources[0].XAttrs["user.a"])
}

func TestUnmarshalDigestMismatch(t *testing.T) {
	p := Marshal(&Manifest{Resources: []Resource{
		{Path: "/a", XAttrs: map[string][]byte{"user.a": []byte("original")}},
	}})
	tampered := bytes.Replace(p, []byte("original"), []byte("modified"), 1)

	_, err := Unmarshal(tampered)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "digest mismatch")
}

func TestUnmarshalInvalid(t *testing.T) {
	p := Marshal(testManifest())
	_, err := Unmarshal(p[:len(p)-3])
	assert.Error(t, err, "truncated")

	var x []byte
	x = protowire.AppendTag(x, xattrValueField, protowire.BytesType)
	x = protowire.AppendBytes(x, []byte("v"))
	var r []byte
	r = protowire.AppendTag(r, resourcePathField, protowire.BytesType)
	r = protowire.AppendString(r, "/a")
	r = protowire.AppendTag(r, resourceXAttrField, protowire.BytesType)
	r = protowire.AppendBytes(r, x)
	var m []byte
	m = protowire.AppendTag(m, manifestResourceField, protowire.BytesType)
	m = protowire.AppendBytes(m, r)
	_, err = Unmarshal(m)
	assert.ErrorContains(t, err, "xattr without name")
}

func TestJSON(t *testing.T) {
	m := &Manifest{Resources: []Resource{
		{Path: "/a", XAttrs: map[string][]byte{"user.a": []byte("\x00binary\xff")}},
		{Path: "/b"},
	}}

	p, err := MarshalJSON(m)
	require.NoError(t, err)
	assert.Contains(t, string(p), `"path": "/a"`)

	decoded, err := UnmarshalJSON(p)
	require.NoError(t, err)
	assert.Equal(t, m, decoded)

	_, err = UnmarshalJSON([]byte(`{"resources":[{"xattrs":{}}]}`))
	assert.ErrorContains(t, err, "without path")
}

func TestUnmarshalNormalizesPaths(t *testing.T) {
	m := &Manifest{Resources: []Resource{
		{Path: "/b/", XAttrs: map[string][]byte{"user.b": []byte("2")}},
		{Path: "/dir//a", XAttrs: map[string][]byte{"user.a": []byte("1")}},
		{Path: "/c/./d"},
	}}
	expected := []string{"/b", "/c/d", "/dir/a"}

	decoded, err := Unmarshal(Marshal(m))
	require.NoError(t, err)
	assert.Equal(t, expected, decoded.Paths())
	assert.Equal(t, []byte("1"), decoded.Resources[2].XAttrs["user.a"])

	p, err := MarshalJSON(m)
	require.NoError(t, err)
	decoded, err = UnmarshalJSON(p)
	require.NoError(t, err)
	assert.Equal(t, expected, decoded.Paths())
}

func TestUnmarshalDuplicatePath(t *testing.T) {
	m := &Manifest{Resources: []Resource{
		{Path: "/a", XAttrs: map[string][]byte{"user.a": []byte("1")}},
		{Path: "//a", XAttrs: map[string][]byte{"user.a": []byte("2")}},
	}}

	_, err := Unmarshal(Marshal(m))
	assert.ErrorContains(t, err, "duplicate resource /a")

	p, err := MarshalJSON(m)
	require.NoError(t, err)
	_, err = UnmarshalJSON(p)
	assert.ErrorContains(t, err, "duplicate resource /a")
}
