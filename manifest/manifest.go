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

// Package manifest records the extended attributes of a set of files so
// they can be stored, compared and applied elsewhere.
package manifest

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/containerd/xattr"
	"github.com/opencontainers/go-digest"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Resource is the attribute set of the file at Path.
type Resource struct {
	Path   string            `json:"path"`
	XAttrs map[string][]byte `json:"xattrs,omitempty"`
}

// Digest returns the digest of the attribute set, see xattr.Digest.
func (r Resource) Digest() digest.Digest {
	return xattr.Digest(r.XAttrs)
}

// Manifest holds resources sorted by path, one per path.
type Manifest struct {
	Resources []Resource `json:"resources"`
}

// Paths returns the path of every resource, in manifest order.
func (m *Manifest) Paths() []string {
	paths := make([]string, 0, len(m.Resources))
	for _, r := range m.Resources {
		paths = append(paths, r.Path)
	}
	return paths
}

// Build reads the attributes of each path, following symbolic links, and
// returns them as a manifest. Paths are cleaned and deduplicated. Up to jobs
// files are read concurrently; jobs <= 0 means no limit.
func Build(ctx context.Context, paths []string, jobs int) (*Manifest, error) {
	seen := map[string]struct{}{}
	var unique []string
	for _, p := range paths {
		p = filepath.Clean(p)
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		unique = append(unique, p)
	}

	resources := make([]Resource, len(unique))
	eg, ctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		eg.SetLimit(jobs)
	}
	for i, p := range unique {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			attrs, err := readPath(p)
			if err != nil {
				return err
			}
			logrus.WithFields(logrus.Fields{
				"path":   p,
				"xattrs": len(attrs),
			}).Debug("read xattrs")

			resources[i] = Resource{Path: p, XAttrs: attrs}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	sort.Sort(ByPath(resources))
	return &Manifest{Resources: resources}, nil
}

func readPath(p string) (map[string][]byte, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	attrs, err := xattr.ReadAll(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read xattrs of %s", p)
	}
	return attrs, nil
}

// Apply writes the attributes of every resource to the file at its path.
// With replace set, attributes missing from a resource are removed from the
// file; otherwise they are kept. Apply stops at the first failure.
func Apply(ctx context.Context, m *Manifest, replace bool) error {
	for _, r := range m.Resources {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := applyResource(r, replace); err != nil {
			return err
		}
		logrus.WithFields(logrus.Fields{
			"path":    r.Path,
			"xattrs":  len(r.XAttrs),
			"replace": replace,
		}).Debug("applied xattrs")
	}
	return nil
}

func applyResource(r Resource, replace bool) error {
	// fsetxattr accepts a read-only descriptor, directories included.
	f, err := os.Open(r.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	if replace {
		err = xattr.WriteAll(f, r.XAttrs)
	} else {
		err = xattr.SetAll(f, r.XAttrs)
	}
	return errors.Wrapf(err, "failed to apply xattrs to %s", r.Path)
}

// ByPath sorts resources by path.
type ByPath []Resource

func (bp ByPath) Len() int           { return len(bp) }
func (bp ByPath) Swap(i, j int)      { bp[i], bp[j] = bp[j], bp[i] }
func (bp ByPath) Less(i, j int) bool { return bp[i].Path < bp[j].Path }
