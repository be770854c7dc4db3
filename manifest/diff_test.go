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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiff(t *testing.T) {
	m1 := &Manifest{Resources: []Resource{
		{Path: "b", XAttrs: map[string][]byte{"user.same": []byte("1")}},
		{Path: "a", XAttrs: map[string][]byte{"user.x": []byte("old"), "user.gone": []byte("g")}},
		{Path: "d"},
	}}
	m2 := &Manifest{Resources: []Resource{
		{Path: "a", XAttrs: map[string][]byte{"user.x": []byte("new"), "user.added": []byte("n")}},
		{Path: "b", XAttrs: map[string][]byte{"user.same": []byte("1")}},
		{Path: "c"},
	}}

	d := Diff(m1, m2)
	assert.False(t, d.Empty())
	assert.Equal(t, []Resource{{Path: "c"}}, d.Additions)
	assert.Equal(t, []Resource{{Path: "d"}}, d.Deletions)
	if assert.Len(t, d.Updates, 1) {
		added, removed, modified := d.Updates[0].Changes()
		assert.Equal(t, []string{"user.added"}, added)
		assert.Equal(t, []string{"user.gone"}, removed)
		assert.Equal(t, []string{"user.x"}, modified)
	}

	// inputs are left untouched
	assert.Equal(t, "b", m1.Resources[0].Path)

	assert.True(t, Diff(m1, m1).Empty())
}

func TestCompare(t *testing.T) {
	assert.True(t, Compare(Resource{Path: "a"}, Resource{Path: "a", XAttrs: map[string][]byte{}}))
	assert.False(t, Compare(Resource{Path: "a"}, Resource{Path: "b"}))
	assert.False(t, Compare(
		Resource{Path: "a", XAttrs: map[string][]byte{"user.a": nil}},
		Resource{Path: "a", XAttrs: map[string][]byte{"user.b": nil}},
	))
	assert.True(t, Compare(
		Resource{Path: "a", XAttrs: map[string][]byte{"user.a": nil}},
		Resource{Path: "a", XAttrs: map[string][]byte{"user.a": {}}},
	))
}
