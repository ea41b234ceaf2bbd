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

var revisionMessage string

var revisionCmd = &cobra.Command{
	Use:   "revision",
	Short: "Generate a revision file from the model catalog",
	Long: `revision diffs the registered models against the connected database
and writes the statements that would bring the database up to date into a
new file under the revision directory. Nothing is applied; run upgrade
for that.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := database.NewRevisionManager(database.GetDB(), database.GetLogger(), viper.GetString("revision-dir"))
		rev, err := mgr.GenerateRevision(cmd.Context(), revisionMessage)
		if err != nil {
			return fmt.Errorf("generate revision: %w", err)
		}
		if rev == nil {
			fmt.Println("No schema changes detected")
			return nil
		}
		fmt.Printf("Generated %s (%d statements)\n", rev.Path, len(rev.Statements))
		return nil
	},
}

func init() {
	revisionCmd.Flags().StringVarP(&revisionMessage, "message", "m", "", "revision message, used in the file name")
	_ = revisionCmd.MarkFlagRequired("message")
}
