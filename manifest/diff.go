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
	"sort"

	"github.com/sirupsen/logrus"
)

// ResourceUpdate pairs the two versions of a resource present in both
// manifests with different attributes.
type ResourceUpdate struct {
	Original Resource
	Updated  Resource
}

// Changes returns the attribute names added, removed and modified between
// the original and the updated resource, each sorted.
func (u ResourceUpdate) Changes() (added, removed, modified []string) {
	for name, value := range u.Updated.XAttrs {
		orig, ok := u.Original.XAttrs[name]
		switch {
		case !ok:
			added = append(added, name)
		case !bytes.Equal(orig, value):
			modified = append(modified, name)
		}
	}
	for name := range u.Original.XAttrs {
		if _, ok := u.Updated.XAttrs[name]; !ok {
			removed = append(removed, name)
		}
	}
	sort.Strings(added)
	sort.Strings(removed)
	sort.Strings(modified)
	return added, removed, modified
}

// Difference lists the resources only in the second manifest (additions),
// only in the first (deletions), and in both with different attributes.
type Difference struct {
	Additions []Resource
	Deletions []Resource
	Updates   []ResourceUpdate
}

// Empty reports whether the manifests were equal.
func (d Difference) Empty() bool {
	return len(d.Additions) == 0 && len(d.Deletions) == 0 && len(d.Updates) == 0
}

// Diff compares two manifests and returns the list of additions, updates
// and deletions going from m1 to m2. Neither manifest is modified.
func Diff(m1, m2 *Manifest) Difference {
	r1 := sortedResources(m1)
	r2 := sortedResources(m2)

	i1 := 0
	i2 := 0
	var d Difference

	for i1 < len(r1) && i2 < len(r2) {
		p1 := r1[i1].Path
		p2 := r2[i2].Path
		switch {
		case p1 < p2:
			logrus.Debugf("Deletion %s", p1)
			d.Deletions = append(d.Deletions, r1[i1])
			i1++
		case p1 == p2:
			logrus.Debugf("Comparing %s to %s", p1, p2)
			if !Compare(r1[i1], r2[i2]) {
				d.Updates = append(d.Updates, ResourceUpdate{
					Original: r1[i1],
					Updated:  r2[i2],
				})
			}
			i1++
			i2++
		case p1 > p2:
			logrus.Debugf("Addition %s", p2)
			d.Additions = append(d.Additions, r2[i2])
			i2++
		}
	}

	d.Deletions = append(d.Deletions, r1[i1:]...)
	d.Additions = append(d.Additions, r2[i2:]...)

	return d
}

// Compare reports whether two resources have the same path and attributes.
// A nil and an empty attribute set are equal.
func Compare(r1, r2 Resource) bool {
	if r1.Path != r2.Path {
		return false
	}
	if len(r1.XAttrs) != len(r2.XAttrs) {
		return false
	}
	for name, v1 := range r1.XAttrs {
		v2, ok := r2.XAttrs[name]
		if !ok || !bytes.Equal(v1, v2) {
			return false
		}
	}
	return true
}

func sortedResources(m *Manifest) []Resource {
	r := append([]Resource(nil), m.Resources...)
	sort.Stable(ByPath(r))
	return r
}
