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

package commands

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/containerd/xattr/manifest"
	"github.com/pkg/errors"
)

const (
	formatPB   = "pb"
	formatJSON = "json"
)

// readManifest reads the manifest at path. Files ending in .json are read as
// JSON, everything else as protobuf.
func readManifest(path string) (*manifest.Manifest, error) {
	p, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "error reading manifest")
	}
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		return manifest.UnmarshalJSON(p)
	}
	return manifest.Unmarshal(p)
}

func marshalManifest(m *manifest.Manifest, format string) ([]byte, error) {
	switch format {
	case formatPB:
		return manifest.Marshal(m), nil
	case formatJSON:
		p, err := manifest.MarshalJSON(m)
		if err != nil {
			return nil, err
		}
		return append(p, '\n'), nil
	default:
		return nil, errors.Errorf("unknown format %q", format)
	}
}
