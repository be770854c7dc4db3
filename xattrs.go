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
	"sort"

	"github.com/containerd/xattr/sysx"
	"github.com/pkg/errors"
)

// ReadAll returns every listed attribute of f. Attributes removed while
// the set is being read are left out.
func ReadAll(f File) (map[string][]byte, error) {
	names, err := List(f)
	if err != nil {
		return nil, errors.Wrap(err, "listing xattrs")
	}

	m := make(map[string][]byte)
	for name := range names.All() {
		value, ok, err := Get(f, name)
		if err != nil {
			return nil, errors.Wrapf(err, "getting %q xattr", name)
		}
		if !ok {
			continue
		}
		m[name] = value
	}

	return m, nil
}

// SetAll sets every attribute in attrs on f, in name order. Attributes of f
// not in attrs are kept. If setting an attribute fails, those already
// applied are not rolled back.
func SetAll(f File, attrs map[string][]byte) error {
	for _, name := range sortedNames(attrs) {
		if err := Set(f, name, attrs[name]); err != nil {
			return errors.Wrapf(err, "setting %q xattr", name)
		}
	}
	return nil
}

// WriteAll replaces the attributes of f with attrs: every entry of attrs is
// set and every other listed attribute is removed. If the operation fails,
// changes already applied are not rolled back.
func WriteAll(f File, attrs map[string][]byte) error {
	if err := SetAll(f, attrs); err != nil {
		return err
	}

	names, err := List(f)
	if err != nil {
		return errors.Wrap(err, "listing xattrs")
	}
	for name := range names.All() {
		if _, ok := attrs[name]; ok {
			continue
		}
		if err := Remove(f, name); err != nil && !errors.Is(err, sysx.ENODATA) {
			return errors.Wrapf(err, "removing %q xattr", name)
		}
	}

	return nil
}

func sortedNames(attrs map[string][]byte) []string {
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
