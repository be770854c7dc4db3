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
	"runtime"

	"github.com/containerd/xattr/manifest"
	"github.com/spf13/cobra"
)

var (
	dumpCmdConfig struct {
		format string
		jobs   int
	}

	DumpCmd = &cobra.Command{
		Use:   "dump <file>...",
		Short: "Write a manifest of the extended attributes of files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := manifest.Build(cmd.Context(), args, dumpCmdConfig.jobs)
			if err != nil {
				return err
			}

			p, err := marshalManifest(m, dumpCmdConfig.format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(p)
			return err
		},
	}
)

func init() {
	DumpCmd.Flags().StringVar(&dumpCmdConfig.format, "format", formatPB, "specify the output format of the manifest (pb or json)")
	DumpCmd.Flags().IntVarP(&dumpCmdConfig.jobs, "jobs", "j", runtime.NumCPU(), "number of files read concurrently")
}
