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

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show applied and pending revisions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := database.NewRevisionManager(database.GetDB(), database.GetLogger(), viper.GetString("revision-dir"))
		status, err := mgr.Status(cmd.Context())
		if err != nil {
			return fmt.Errorf("status: %w", err)
		}

		fmt.Printf("Applied revisions: %d\n", len(status.Applied))
		for _, m := range status.Applied {
			fmt.Printf("  %s  %s  (applied %s)\n", m.Version, m.Name, m.AppliedAt.Format("2006-01-02 15:04:05"))
		}
		fmt.Printf("Pending revisions: %d\n", len(status.Pending))
		for _, r := range status.Pending {
			fmt.Printf("  %s  %s  (%s)\n", r.Version, r.Slug, r.Path)
		}
		return nil
	},
}
