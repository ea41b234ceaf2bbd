/*
 * Copyright 2025 the pinrex authors.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
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
	"github.com/spf13/viper"

	"github.com/pinrex/pinrex-db/database"
)

var upgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Apply pending revisions in version order",
	Long: `upgrade applies every revision file that has not been recorded as
applied yet, oldest first, each in its own transaction. Running upgrade
with nothing pending is a no-op.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := database.NewRevisionManager(database.GetDB(), database.GetLogger(), viper.GetString("revision-dir"))
		applied, err := mgr.UpgradeToHead(cmd.Context())
		if err != nil {
			return fmt.Errorf("upgrade: %w", err)
		}
		if applied == 0 {
			fmt.Println("Database is up to date")
			return nil
		}
		fmt.Printf("Applied %d revision(s)\n", applied)
		return nil
	},
}
