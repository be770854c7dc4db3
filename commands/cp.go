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

var (
	copyCmdConfig struct {
		excludes []string
	}

	CopyCmd = &cobra.Command{
		Use:   "cp <src> <dst>",
		Short: "Copy all extended attributes from one file to another",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer src.Close()

			dst, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer dst.Close()

			if err := xattr.Copy(dst, src, xattr.WithXAttrExclude(copyCmdConfig.excludes...)); err != nil {
				return errors.Wrapf(err, "failed to copy xattrs from %s to %s", args[0], args[1])
			}
			return nil
		},
	}
)

func init() {
	CopyCmd.Flags().StringSliceVar(&copyCmdConfig.excludes, "exclude", nil, "attribute names not to copy")
}
