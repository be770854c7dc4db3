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
	"fmt"
	"os"

	"github.com/containerd/log"
	"github.com/containerd/xattr/manifest"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// errVerifyFailed is returned by verify when the files differ from the
// manifest.
var errVerifyFailed = errors.New("xattrs differ from manifest")

var VerifyCmd = &cobra.Command{
	Use:   "verify <manifest>",
	Short: "Compare the extended attributes of files against a manifest",
	Long: `Compare the extended attributes of files against a manifest.

Every difference is printed, prefixed with "+" when the attribute is only on
the file, "-" when it is only in the manifest and "~" when the values differ.
A file of the manifest that no longer exists is printed as "- <path>".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		expected, err := readManifest(args[0])
		if err != nil {
			return err
		}

		// Files that are gone are left out of the live manifest and show up
		// as deletions.
		var paths []string
		for _, p := range expected.Paths() {
			if _, err := os.Stat(p); err != nil {
				if errors.Is(err, os.ErrNotExist) {
					log.G(cmd.Context()).WithField("path", p).Debug("file missing")
					continue
				}
				return err
			}
			paths = append(paths, p)
		}

		live, err := manifest.Build(cmd.Context(), paths, 0)
		if err != nil {
			return err
		}

		d := manifest.Diff(expected, live)
		if d.Empty() {
			return nil
		}

		w := cmd.OutOrStdout()
		for _, r := range d.Deletions {
			fmt.Fprintf(w, "- %s\n", r.Path)
		}
		for _, r := range d.Additions {
			fmt.Fprintf(w, "+ %s\n", r.Path)
		}
		for _, u := range d.Updates {
			added, removed, modified := u.Changes()
			for _, name := range added {
				fmt.Fprintf(w, "+ %s %q\n", u.Updated.Path, name)
			}
			for _, name := range removed {
				fmt.Fprintf(w, "- %s %q\n", u.Original.Path, name)
			}
			for _, name := range modified {
				fmt.Fprintf(w, "~ %s %q\n", u.Updated.Path, name)
			}
		}
		return errVerifyFailed
	},
}
