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
	"io"
	"os"

	"github.com/containerd/log"
	"github.com/containerd/xattr"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	setCmdConfig struct {
		fromFile string
	}

	SetCmd = &cobra.Command{
		Use:   "set <file> <name> [<value>]",
		Short: "Create or replace an extended attribute",
		Long: `Create or replace an extended attribute.

The value is taken from the command line, or with --from-file from a file
("-" reads standard input).`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, name := args[0], args[1]

			value, err := setValue(cmd, args[2:])
			if err != nil {
				return err
			}

			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			if err := xattr.Set(f, name, value); err != nil {
				return errors.Wrapf(err, "failed to set %s on %s", name, path)
			}
			log.G(cmd.Context()).WithField("size", len(value)).Debugf("set %s on %s", name, path)
			return nil
		},
	}
)

func setValue(cmd *cobra.Command, args []string) ([]byte, error) {
	switch {
	case setCmdConfig.fromFile != "" && len(args) > 0:
		return nil, errors.New("value and --from-file are mutually exclusive")
	case setCmdConfig.fromFile == "-":
		return io.ReadAll(cmd.InOrStdin())
	case setCmdConfig.fromFile != "":
		return os.ReadFile(setCmdConfig.fromFile)
	case len(args) == 0:
		return nil, errors.New("please specify a value or --from-file")
	default:
		return []byte(args[0]), nil
	}
}

func init() {
	SetCmd.Flags().StringVar(&setCmdConfig.fromFile, "from-file", "", "read the value from a file, - for standard input")
}
