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
	"encoding/json"
	"path/filepath"
	"sort"

	"github.com/opencontainers/go-digest"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of the wire format:
//
//	message Manifest { repeated Resource resource = 1; }
//	message Resource { string path = 1; repeated XAttr xattr = 2; string digest = 3; }
//	message XAttr { string name = 1; bytes value = 2; }
const (
	manifestResourceField protowire.Number = 1

	resourcePathField   protowire.Number = 1
	resourceXAttrField  protowire.Number = 2
	resourceDigestField protowire.Number = 3

	xattrNameField  protowire.Number = 1
	xattrValueField protowire.Number = 2
)

// Marshal encodes m in protobuf wire format. Attributes are written in name
// order, so equal manifests encode to equal bytes.
func Marshal(m *Manifest) []byte {
	var b []byte
	for _, r := range m.Resources {
		b = protowire.AppendTag(b, manifestResourceField, protowire.BytesType)
		b = protowire.AppendBytes(b, marshalResource(r))
	}
	return b
}

func marshalResource(r Resource) []byte {
	var b []byte
	b = protowire.AppendTag(b, resourcePathField, protowire.BytesType)
	b = protowire.AppendString(b, r.Path)

	names := make([]string, 0, len(r.XAttrs))
	for name := range r.XAttrs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		var x []byte
		x = protowire.AppendTag(x, xattrNameField, protowire.BytesType)
		x = protowire.AppendString(x, name)
		x = protowire.AppendTag(x, xattrValueField, protowire.BytesType)
		x = protowire.AppendBytes(x, r.XAttrs[name])

		b = protowire.AppendTag(b, resourceXAttrField, protowire.BytesType)
		b = protowire.AppendBytes(b, x)
	}

	b = protowire.AppendTag(b, resourceDigestField, protowire.BytesType)
	b = protowire.AppendString(b, r.Digest().String())
	return b
}

// Unmarshal decodes a manifest encoded by Marshal. Unknown fields are
// skipped. A resource carrying a digest must match its decoded attributes.
// Paths are cleaned and resources sorted by path; two resources with the
// same cleaned path are an error.
func Unmarshal(p []byte) (*Manifest, error) {
	var m Manifest
	if err := consumeFields(p, func(num protowire.Number, v []byte) error {
		if num != manifestResourceField {
			return nil
		}
		r, err := unmarshalResource(v)
		if err != nil {
			return err
		}
		m.Resources = append(m.Resources, r)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "invalid manifest")
	}
	if err := normalize(&m); err != nil {
		return nil, errors.Wrap(err, "invalid manifest")
	}
	return &m, nil
}

func unmarshalResource(p []byte) (Resource, error) {
	var (
		r   Resource
		dgs string
	)
	if err := consumeFields(p, func(num protowire.Number, v []byte) error {
		switch num {
		case resourcePathField:
			r.Path = string(v)
		case resourceDigestField:
			dgs = string(v)
		case resourceXAttrField:
			name, value, err := unmarshalXAttr(v)
			if err != nil {
				return err
			}
			if r.XAttrs == nil {
				r.XAttrs = map[string][]byte{}
			}
			r.XAttrs[name] = value
		}
		return nil
	}); err != nil {
		return Resource{}, err
	}

	if r.Path == "" {
		return Resource{}, errors.New("resource without path")
	}
	if dgs != "" {
		expected, err := digest.Parse(dgs)
		if err != nil {
			return Resource{}, errors.Wrapf(err, "resource %s", r.Path)
		}
		if actual := r.Digest(); actual != expected {
			return Resource{}, errors.Errorf("resource %s: digest mismatch: %s != %s", r.Path, actual, expected)
		}
	}
	return r, nil
}

func unmarshalXAttr(p []byte) (string, []byte, error) {
	var (
		name    string
		hasName bool
		value   = []byte{}
	)
	if err := consumeFields(p, func(num protowire.Number, v []byte) error {
		switch num {
		case xattrNameField:
			name, hasName = string(v), true
		case xattrValueField:
			value = bytes.Clone(v)
			if value == nil {
				value = []byte{}
			}
		}
		return nil
	}); err != nil {
		return "", nil, err
	}
	if !hasName {
		return "", nil, errors.New("xattr without name")
	}
	return name, value, nil
}

// consumeFields walks the fields of an encoded message, passing the number
// and payload of every length delimited field to fn. Fields of other wire
// types are skipped.
func consumeFields(p []byte, fn func(num protowire.Number, v []byte) error) error {
	for len(p) > 0 {
		num, typ, n := protowire.ConsumeTag(p)
		if n < 0 {
			return protowire.ParseError(n)
		}
		p = p[n:]

		if typ != protowire.BytesType {
			n = protowire.ConsumeFieldValue(num, typ, p)
			if n < 0 {
				return protowire.ParseError(n)
			}
			p = p[n:]
			continue
		}

		v, n := protowire.ConsumeBytes(p)
		if n < 0 {
			return protowire.ParseError(n)
		}
		p = p[n:]

		if err := fn(num, v); err != nil {
			return err
		}
	}
	return nil
}

// MarshalJSON encodes m as indented JSON. Values are base64 encoded. Names
// that are not valid UTF-8 do not survive JSON; use Marshal for those.
func MarshalJSON(m *Manifest) ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

// UnmarshalJSON decodes a manifest encoded by MarshalJSON. Paths are
// normalized as in Unmarshal.
func UnmarshalJSON(p []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(p, &m); err != nil {
		return nil, errors.Wrap(err, "invalid manifest")
	}
	for _, r := range m.Resources {
		if r.Path == "" {
			return nil, errors.New("invalid manifest: resource without path")
		}
	}
	if err := normalize(&m); err != nil {
		return nil, errors.Wrap(err, "invalid manifest")
	}
	return &m, nil
}

// normalize brings decoded resources into the form Build produces: clean
// paths, sorted, one resource per path.
func normalize(m *Manifest) error {
	for i := range m.Resources {
		m.Resources[i].Path = filepath.Clean(m.Resources[i].Path)
	}
	sort.Stable(ByPath(m.Resources))
	for i := 1; i < len(m.Resources); i++ {
		if m.Resources[i].Path == m.Resources[i-1].Path {
			return errors.Errorf("duplicate resource %s", m.Resources[i].Path)
		}
	}
	return nil
}
