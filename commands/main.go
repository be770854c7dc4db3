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
	"github.com/spf13/cobra"
)

var (
	mainCmdConfig struct {
		debug     bool
		logFormat string
	}

	MainCmd = &cobra.Command{
		Use:           "xattr <command>",
		Short:         "Inspect and edit the extended attributes of files.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if mainCmdConfig.debug {
				if err := log.SetLevel("debug"); err != nil {
					return err
				}
			}
			return log.SetFormat(log.OutputFormat(mainCmdConfig.logFormat))
		},
	}
)

func init() {
	MainCmd.PersistentFlags().BoolVar(&mainCmdConfig.debug, "debug", false, "enable debug logging")
	MainCmd.PersistentFlags().StringVar(&mainCmdConfig.logFormat, "log-format", string(log.TextFormat), "log output format (text or json)")

	MainCmd.AddCommand(GetCmd)
	MainCmd.AddCommand(SetCmd)
	MainCmd.AddCommand(RemoveCmd)
	MainCmd.AddCommand(LSCmd)
	MainCmd.AddCommand(CopyCmd)
	MainCmd.AddCommand(DumpCmd)
	MainCmd.AddCommand(ApplyCmd)
	MainCmd.AddCommand(VerifyCmd)
}
