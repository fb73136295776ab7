/* Copyright 2025 Bindery Authors
 *
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
	"net/http"
	"os"

	"github.com/bindery/bindery/pkg/clock"
	"github.com/bindery/bindery/pkg/server/app"
	"github.com/bindery/bindery/pkg/server/avatars"
	"github.com/bindery/bindery/pkg/server/buildinfo"
	"github.com/bindery/bindery/pkg/server/config"
	"github.com/bindery/bindery/pkg/server/controllers"
	"github.com/bindery/bindery/pkg/server/database"
	"github.com/bindery/bindery/pkg/server/log"
	"github.com/bindery/bindery/pkg/server/mailer"
	"github.com/bindery/bindery/pkg/server/styles"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/robfig/cron"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var startFlags struct {
	configFile          string
	appEnv              string
	port                string
	webURL              string
	dbPath              string
	databaseURL         string
	stylesDir           string
	disableRegistration bool
	emailEnabled        bool
	logLevel            string
}

func initDB(cfg config.Config) *gorm.DB {
	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		db = database.OpenPostgres(cfg.DatabaseURL)
	} else {
		db = database.Open(cfg.DBPath)
	}

	database.InitSchema(db)
	if err := database.Migrate(db); err != nil {
		panic(errors.Wrap(err, "running migrations"))
	}

	return db
}

func initStyles(cfg config.Config) *styles.Registry {
	if cfg.StylesDir == "" {
		return nil
	}

	registry, err := styles.NewRegistry(cfg.StylesDir)
	if err != nil {
		log.ErrorWrap(err, "loading styles")
		return nil
	}
	if err := registry.Watch(); err != nil {
		log.ErrorWrap(err, "watching the styles directory")
	}

	return registry
}

func initApp(cfg config.Config) app.App {
	db := initDB(cfg)

	var emailBackend mailer.Backend
	backend, err := mailer.NewDefaultBackend(cfg.EmailEnabled)
	if err != nil {
		log.ErrorWrap(err, "configuring the email backend")
		emailBackend = mailer.NewStdoutBackend()
	} else {
		emailBackend = backend
		if cfg.EmailEnabled {
			log.Info("Email backend configured")
		}
	}

	return app.App{
		DB:                  db,
		Clock:               clock.New(),
		EmailBackend:        emailBackend,
		AvatarProvider:      &avatars.Gravatar{},
		Styles:              initStyles(cfg),
		AppEnv:              cfg.AppEnv,
		WebURL:              cfg.WebURL,
		DisableRegistration: cfg.DisableRegistration,
		Port:                cfg.Port,
		DBPath:              cfg.DBPath,
	}
}

func scheduleJobs(a *app.App, cfg config.Config) *cron.Cron {
	c := cron.New()

	err := c.AddFunc("@hourly", func() {
		count, err := a.PurgeExpiredSessions()
		if err != nil {
			log.ErrorWrap(err, "purging expired sessions")
			return
		}
		if count > 0 {
			log.WithFields(log.Fields{
				"count": count,
			}).Info("Purged expired sessions")
		}
	})
	if err != nil {
		log.ErrorWrap(err, "scheduling session purge")
	}

	if cfg.DatabaseURL == "" {
		err := c.AddFunc("@daily", func() {
			if err := database.Vacuum(a.DB); err != nil {
				log.ErrorWrap(err, "vacuuming the database")
			}
			if err := database.CheckpointWAL(a.DB); err != nil {
				log.ErrorWrap(err, "checkpointing the WAL")
			}
		})
		if err != nil {
			log.ErrorWrap(err, "scheduling database maintenance")
		}
	}

	c.Start()

	return c
}

func mergeParams(flags, file config.Params) config.Params {
	pick := func(a, b string) string {
		if a != "" {
			return a
		}
		return b
	}

	return config.Params{
		AppEnv:              pick(flags.AppEnv, file.AppEnv),
		Port:                pick(flags.Port, file.Port),
		WebURL:              pick(flags.WebURL, file.WebURL),
		DBPath:              pick(flags.DBPath, file.DBPath),
		DatabaseURL:         pick(flags.DatabaseURL, file.DatabaseURL),
		StylesDir:           pick(flags.StylesDir, file.StylesDir),
		DisableRegistration: flags.DisableRegistration || file.DisableRegistration,
		EmailEnabled:        flags.EmailEnabled || file.EmailEnabled,
		LogLevel:            pick(flags.LogLevel, file.LogLevel),
	}
}

func runStart(cmd *cobra.Command, args []string) error {
	// missing .env is fine, the environment may be set by other means
	godotenv.Load()

	params := config.Params{
		AppEnv:              startFlags.appEnv,
		Port:                startFlags.port,
		WebURL:              startFlags.webURL,
		DBPath:              startFlags.dbPath,
		DatabaseURL:         startFlags.databaseURL,
		StylesDir:           startFlags.stylesDir,
		DisableRegistration: startFlags.disableRegistration,
		EmailEnabled:        startFlags.emailEnabled,
		LogLevel:            startFlags.logLevel,
	}
	if startFlags.configFile != "" {
		fileParams, err := config.LoadFile(startFlags.configFile)
		if err != nil {
			return err
		}

		// flags take precedence over the file
		params = mergeParams(params, fileParams)
	}

	cfg, err := config.New(params)
	if err != nil {
		return err
	}

	log.SetLevel(cfg.LogLevel)

	a := initApp(cfg)
	defer func() {
		if a.Styles != nil {
			a.Styles.Close()
		}
		sqlDB, err := a.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}()

	ctl := controllers.New(&a)
	rc := controllers.RouteConfig{
		APIRoutes:   controllers.NewAPIRoutes(&a, ctl),
		Controllers: ctl,
	}

	r, err := controllers.NewRouter(&a, rc)
	if err != nil {
		return errors.Wrap(err, "initializing router")
	}

	jobs := scheduleJobs(&a, cfg)
	defer jobs.Stop()

	log.WithFields(log.Fields{
		"version": buildinfo.Version,
		"port":    cfg.Port,
	}).Info("Bindery server starting")

	return http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "bindery-server",
		Short:         "Bindery server - collaborative book composition",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	start := &cobra.Command{
		Use:   "start",
		Short: "Start the server",
		RunE:  runStart,
	}
	start.Flags().StringVarP(&startFlags.configFile, "config", "c", "", "Path to a YAML configuration file")
	start.Flags().StringVar(&startFlags.appEnv, "appEnv", "", "Application environment (env: APP_ENV, default: PRODUCTION)")
	start.Flags().StringVar(&startFlags.port, "port", "", "Server port (env: PORT, default: 3001)")
	start.Flags().StringVar(&startFlags.webURL, "webUrl", "", "Full URL to server without trailing slash (env: WebURL)")
	start.Flags().StringVar(&startFlags.dbPath, "dbPath", "", "Path to SQLite database file (env: DBPath, default: $XDG_DATA_HOME/bindery/server.db)")
	start.Flags().StringVar(&startFlags.databaseURL, "databaseUrl", "", "Postgres connection URL, takes precedence over dbPath (env: DATABASE_URL)")
	start.Flags().StringVar(&startFlags.stylesDir, "stylesDir", "", "Directory holding book style CSS files (env: StylesDir)")
	start.Flags().BoolVar(&startFlags.disableRegistration, "disableRegistration", false, "Disable user registration (env: DisableRegistration, default: false)")
	start.Flags().BoolVar(&startFlags.emailEnabled, "emailEnabled", false, "Send emails over SMTP instead of stdout (env: EmailEnabled, default: false)")
	start.Flags().StringVar(&startFlags.logLevel, "logLevel", "", "Log level: debug, info, warn, or error (env: LOG_LEVEL, default: info)")

	version := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("bindery-server-%s\n", buildinfo.Version)
		},
	}

	root.AddCommand(start)
	root.AddCommand(version)

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
