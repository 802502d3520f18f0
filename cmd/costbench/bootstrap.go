/*
 * Cadence - The resource-oriented smart contract programming language
 *
 * Copyright Flow Foundation
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */


package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBootstrapCmd(options *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Build the warmed store for the configured state scale",
		Long: `Build the warmed store for the configured state scale, if it is not cached yet.

The cached store is never modified by runs: each case runs on a scratch copy.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			cfg, logger, err := loadConfig(cmd, options)
			if err != nil {
				return err
			}

			bootstrapper := newBootstrapper(cfg, logger, cmd.ErrOrStderr())

			_, closeHeaders, err := openHeaders(cfg, bootstrapper)
			if err != nil {
				return err
			}
			defer func() {
				closeErr := closeHeaders()
				if err == nil {
					err = closeErr
				}
			}()

			store, err := bootstrapper.Bootstrap(cmd.Context(), cfg.StateScale)
			if err != nil {
				return err
			}
			defer func() {
				closeErr := store.Close()
				if err == nil {
					err = closeErr
				}
			}()

			tip, ok, err := store.Tip()
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("warmed store has no blocks")
			}

			_, err = fmt.Fprintf(
				cmd.OutOrStdout(),
				"warmed store %s: tip %s at height %d\n",
				bootstrapper.CachePath(cfg.StateScale),
				tip.ID,
				tip.Height,
			)
			return err
		},
	}

	addStoreFlags(cmd)

	return cmd
}
