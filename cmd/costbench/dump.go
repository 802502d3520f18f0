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
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/onflow/cadence-benchmarking/chainstate"
)

func newDumpCmd(_ *globalOptions) *cobra.Command {
	var (
		entries bool
		prefix  string
	)

	cmd := &cobra.Command{
		Use:   "dump <store-dir>",
		Short: "Print the blocks and raw entries of a chain state store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			prefixBytes, err := hex.DecodeString(prefix)
			if err != nil {
				return fmt.Errorf("failed to parse prefix: %w", err)
			}

			store, err := chainstate.Open(args[0])
			if err != nil {
				return err
			}
			defer func() {
				closeErr := store.Close()
				if err == nil {
					err = closeErr
				}
			}()

			out := cmd.OutOrStdout()

			tip, ok, err := store.Tip()
			if err != nil {
				return err
			}
			if ok {
				for height := uint64(0); height <= tip.Height; height++ {
					block, ok, err := store.BlockAt(height)
					if err != nil {
						return err
					}
					if !ok {
						continue
					}
					_, _ = fmt.Fprintf(
						out,
						"block %d: %s (parent %s), %d writes\n",
						block.Height,
						block.ID,
						block.Parent,
						block.Writes,
					)
				}
			}

			if !entries {
				return nil
			}

			dump, err := store.Dump()
			if err != nil {
				return err
			}
			for _, entry := range dump {
				if !bytes.HasPrefix(entry.Key, prefixBytes) {
					continue
				}
				_, _ = fmt.Fprintf(
					out,
					"%s = %s\n",
					hex.EncodeToString(entry.Key),
					hex.EncodeToString(entry.Value),
				)
			}

			return nil
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&entries, "entries", false, "Also print the raw entries")
	flags.StringVar(&prefix, "prefix", "", "Only print raw entries with the hex-encoded key prefix")

	return cmd
}
