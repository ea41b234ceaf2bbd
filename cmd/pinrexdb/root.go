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
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pinrex/pinrex-db/database"
	_ "github.com/pinrex/pinrex-db/models"
)

var rootCmd = &cobra.Command{
	Use:   "pinrexdb",
	Short: "pinrexdb manages the pinrex database schema",
	Long: `pinrexdb connects to the pinrex database and manages its schema.
Revisions are SQL files generated from the registered models; upgrade
applies the pending ones in version order.

Connection settings come from flags or PINREX_DB_* environment variables
(PINREX_DB_HOST, PINREX_DB_PORT, PINREX_DB_USER, PINREX_DB_PASSWORD,
PINREX_DB_NAME, PINREX_DB_SSLMODE).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		return connectDatabase()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return database.CloseDB()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("pinrexdb v0.1.0")
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("type", "postgres", "database type (postgres or sqlite)")
	flags.String("host", "localhost", "database host")
	flags.Int("port", 5432, "database port")
	flags.String("user", "postgres", "database user")
	flags.String("password", "", "database password")
	flags.String("name", "pinrex", "database name")
	flags.String("sslmode", "", "postgres sslmode (disable, require, ...)")
	flags.String("revision-dir", "migrations", "directory holding revision files")
	flags.Bool("sql-log", false, "log every SQL statement")

	viper.SetEnvPrefix("PINREX_DB")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	for _, name := range []string{"type", "host", "port", "user", "password", "name", "sslmode", "revision-dir", "sql-log"} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(revisionCmd)
	rootCmd.AddCommand(upgradeCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(initDataCmd)
}

// connectDatabase opens the global connection without running startup
// migrations; revision and upgrade decide themselves what to apply.
func connectDatabase() error {
	conn := database.DefaultConnectionConfig()
	conn.Type = viper.GetString("type")
	conn.Host = viper.GetString("host")
	conn.Port = viper.GetInt("port")
	conn.Username = viper.GetString("user")
	conn.Password = viper.GetString("password")
	conn.DBName = viper.GetString("name")
	conn.SSLMode = viper.GetString("sslmode")
	conn.EnableQueryLog = viper.GetBool("sql-log")

	cfg := &database.Config{
		ConnectionConfig: *conn,
		DataMigrateConfig: database.DataMigrateConfig{
			RevisionDir:    viper.GetString("revision-dir"),
			AllowColumnAdd: true,
			AllowIndexAdd:  true,
		},
	}
	if _, err := database.InitDatabaseWithOptions(cfg, false); err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	return nil
}
