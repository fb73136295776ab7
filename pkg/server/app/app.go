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

// Package app provides the application business logic for books, chapters,
// access rights and invites.
package app

import (
	"github.com/bindery/bindery/pkg/clock"
	"github.com/bindery/bindery/pkg/server/avatars"
	"github.com/bindery/bindery/pkg/server/mailer"
	"github.com/bindery/bindery/pkg/server/styles"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	// ErrEmptyDB is an error for missing database connection in the app configuration
	ErrEmptyDB = errors.New("No database connection was provided")
	// ErrEmptyClock is an error for missing clock in the app configuration
	ErrEmptyClock = errors.New("No clock was provided")
	// ErrEmptyWebURL is an error for missing WebURL content in the app configuration
	ErrEmptyWebURL = errors.New("No WebURL was provided")
	// ErrEmptyEmailBackend is an error for missing EmailBackend content in the app configuration
	ErrEmptyEmailBackend = errors.New("No EmailBackend was provided")
)

var (
	// ErrBookNotFound is an error for a book that does not exist or that the
	// actor may not act on. The two cases are deliberately indistinguishable.
	ErrBookNotFound = errors.New("book not found")
	// ErrInviteNotFound is an error for an invite that does not exist or that
	// the actor may not act on
	ErrInviteNotFound = errors.New("invite not found")
	// ErrNotAuthorized is an error for an operation the actor lacks rights for
	ErrNotAuthorized = errors.New("not authorized")
	// ErrEmailRequired is an error for an invite with no email
	ErrEmailRequired = errors.New("email is required")
)

// App is an application context
type App struct {
	DB                  *gorm.DB
	Clock               clock.Clock
	EmailBackend        mailer.Backend
	AvatarProvider      avatars.Provider
	Styles              *styles.Registry
	WebURL              string
	AppEnv              string
	DisableRegistration bool
	Port                string
	DBPath              string
}

// Validate validates the app configuration
func (a *App) Validate() error {
	if a.WebURL == "" {
		return ErrEmptyWebURL
	}
	if a.Clock == nil {
		return ErrEmptyClock
	}
	if a.EmailBackend == nil {
		return ErrEmptyEmailBackend
	}
	if a.DB == nil {
		return ErrEmptyDB
	}

	return nil
}
