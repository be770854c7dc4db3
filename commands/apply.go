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
	"github.com/containerd/log"
	"github.com/containerd/xattr/manifest"
	"github.com/spf13/cobra"
)

var (
	applyCmdConfig struct {
		replace bool
	}

	ApplyCmd = &cobra.Command{
		Use:   "apply <manifest>",
		Short: "Apply the extended attributes recorded in a manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := readManifest(args[0])
			if err != nil {
				return err
			}

			if err := manifest.Apply(cmd.Context(), m, applyCmdConfig.replace); err != nil {
				return err
			}
			log.G(cmd.Context()).Debugf("applied %d resources from %s", len(m.Resources), args[0])
			return nil
		},
	}
)

func init() {
	ApplyCmd.Flags().BoolVar(&applyCmdConfig.replace, "replace", false, "remove attributes not recorded in the manifest")
}
