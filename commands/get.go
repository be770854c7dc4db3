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
	"encoding/hex"
	"fmt"
	"os"

	"github.com/containerd/xattr"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	getCmdConfig struct {
		hex bool
	}

	GetCmd = &cobra.Command{
		Use:   "get <file> <name>",
		Short: "Print the value of an extended attribute",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, name := args[0], args[1]

			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			value, ok, err := xattr.Get(f, name)
			if err != nil {
				return errors.Wrapf(err, "failed to get %s on %s", name, path)
			}
			if !ok {
				return errors.Errorf("%s: attribute %s not found", path, name)
			}

			if getCmdConfig.hex {
				_, err = fmt.Fprint(cmd.OutOrStdout(), hex.Dump(value))
				return err
			}
			_, err = cmd.OutOrStdout().Write(value)
			return err
		},
	}
)

func init() {
	GetCmd.Flags().BoolVar(&getCmdConfig.hex, "hex", false, "print the value as a hex dump")
}
