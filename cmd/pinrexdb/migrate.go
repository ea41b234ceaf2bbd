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

	"github.com/pinrex/pinrex-db/database"
)

var (
	migrateForeignKeys bool
	initDataEnv        string
	initDataDir        string
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create missing tables and indexes directly",
	Long: `migrate runs the startup migration path: it creates every missing
table and unique index from the model catalog and records the run in the
tracking table. Unlike revision/upgrade it applies changes immediately
without writing files.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := database.GetConfig()
		cfg.DataMigrateConfig.EnableForeignKey = migrateForeignKeys
		if err := database.RunMigrations(); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		fmt.Println("Migrations completed")
		return nil
	},
}

var initDataCmd = &cobra.Command{
	Use:   "init-data",
	Short: "Seed the database from SQL files",
	Long: `init-data executes the numbered SQL files under the seed directory:
first common/, then environments/<env>/. Files run in order inside
transactions.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := database.GetConfig()
		if initDataDir != "" {
			cfg.DataInitConfig.Filepath = initDataDir
		}
		if err := database.InitDataWithSQL(initDataEnv); err != nil {
			return fmt.Errorf("init-data: %w", err)
		}
		fmt.Println("Data initialization completed")
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateForeignKeys, "foreign-keys", false, "also add registered foreign key constraints")
	initDataCmd.Flags().StringVar(&initDataEnv, "env", "dev", "environment directory to seed from")
	initDataCmd.Flags().StringVar(&initDataDir, "dir", "", "seed SQL directory (default from configuration)")
}
