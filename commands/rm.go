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

	"github.com/containerd/xattr"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var RemoveCmd = &cobra.Command{
	Use:     "rm <file> <name>...",
	Aliases: []string{"remove"},
	Short:   "Remove extended attributes",
	Args:    cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		for _, name := range args[1:] {
			if err := xattr.Remove(f, name); err != nil {
				return errors.Wrapf(err, "failed to remove %s from %s", name, path)
			}
		}
		return nil
	},
}
