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

// Package database provides the models and the connection to the data store
package database

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitSchema migrates database schema to reflect the latest model definition
func InitSchema(db *gorm.DB) {
	if err := db.AutoMigrate(
		&User{},
		&Session{},
		&Contact{},
		&UserInvite{},
		&Document{},
		&DocumentAccessRight{},
		&Image{},
		&UserImage{},
		&Book{},
		&Chapter{},
		&BookAccessRight{},
	); err != nil {
		panic(err)
	}
}

// Open initializes a SQLite database connection at the given path
func Open(dbPath string) *gorm.DB {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		panic(errors.Wrapf(err, "creating database directory at %s", dir))
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		panic(errors.Wrap(err, "opening database connection"))
	}

	return db
}

// OpenPostgres initializes a PostgreSQL database connection with the given URL
func OpenPostgres(databaseURL string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	if err != nil {
		panic(errors.Wrap(err, "opening database connection"))
	}

	return db
}

// Vacuum reclaims unused space in the database
func Vacuum(db *gorm.DB) error {
	if err := db.Exec("VACUUM").Error; err != nil {
		return errors.Wrap(err, "vacuuming database")
	}

	return nil
}

// CheckpointWAL truncates the write-ahead log. It is a no-op on
// non-SQLite databases.
func CheckpointWAL(db *gorm.DB) error {
	if db.Dialector.Name() != "sqlite" {
		return nil
	}

	if err := db.Exec("PRAGMA wal_checkpoint(TRUNCATE)").Error; err != nil {
		return errors.Wrap(err, "checkpointing WAL")
	}

	return nil
}
