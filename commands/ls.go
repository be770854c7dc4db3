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
	"io"
	"runtime"
	"sort"
	"text/tabwriter"

	"github.com/containerd/xattr/manifest"
	"github.com/dustin/go-humanize"
	"github.com/opencontainers/go-digest"
	"github.com/spf13/cobra"
)

var (
	lsCmdConfig struct {
		jobs int
	}

	LSCmd = &cobra.Command{
		Use:   "ls <file>...",
		Short: "List the extended attributes of files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := manifest.Build(cmd.Context(), args, lsCmdConfig.jobs)
			if err != nil {
				return err
			}

			w := newTabwriter(cmd.OutOrStdout())
			fmt.Fprintln(w, "PATH\tNAME\tSIZE\tDIGEST")
			for _, r := range m.Resources {
				names := make([]string, 0, len(r.XAttrs))
				for name := range r.XAttrs {
					names = append(names, name)
				}
				sort.Strings(names)

				for _, name := range names {
					value := r.XAttrs[name]
					fmt.Fprintf(w, "%s\t%q\t%s\t%s\n", r.Path, name, humanize.Bytes(uint64(len(value))), digest.FromBytes(value))
				}
			}

			return w.Flush()
		},
	}
)

// newTabwriter provides a common tabwriter with defaults.
func newTabwriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
}

func init() {
	LSCmd.Flags().IntVarP(&lsCmdConfig.jobs, "jobs", "j", runtime.NumCPU(), "number of files read concurrently")
}
