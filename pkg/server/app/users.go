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

package app

import (
	"github.com/bindery/bindery/pkg/server/crypt"
	"github.com/bindery/bindery/pkg/server/database"
	"github.com/bindery/bindery/pkg/server/helpers"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	// ErrLoginInvalid is an error for invalid credentials
	ErrLoginInvalid = errors.New("Wrong email and password combination")
	// ErrDuplicateEmail is an error for duplicate email
	ErrDuplicateEmail = errors.New("Duplicate email")
	// ErrPasswordTooShort is an error for a password that is too short
	ErrPasswordTooShort = errors.New("Password should be longer than 8 characters")
	// ErrPasswordConfirmationMismatch is an error for password mismatch
	ErrPasswordConfirmationMismatch = errors.New("Password confirmation mismatch")
)

// TouchLastLoginAt updates the last login timestamp
func (a *App) TouchLastLoginAt(user database.User, tx *gorm.DB) error {
	t := a.Clock.Now()
	if err := tx.Model(&user).Update("last_login_at", &t).Error; err != nil {
		return errors.Wrap(err, "updating last_login_at")
	}

	return nil
}

// CreateUser creates a user
func (a *App) CreateUser(name, email, password, passwordConfirmation string) (database.User, error) {
	if email == "" {
		return database.User{}, ErrEmailRequired
	}
	if len(password) < 8 {
		return database.User{}, ErrPasswordTooShort
	}
	if password != passwordConfirmation {
		return database.User{}, ErrPasswordConfirmationMismatch
	}

	tx := a.DB.Begin()

	var count int64
	if err := tx.Model(&database.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		tx.Rollback()
		return database.User{}, errors.Wrap(err, "counting user")
	}
	if count > 0 {
		tx.Rollback()
		return database.User{}, ErrDuplicateEmail
	}

	hashedPassword, err := crypt.HashPassword(password)
	if err != nil {
		tx.Rollback()
		return database.User{}, err
	}

	uuid, err := helpers.GenUUID()
	if err != nil {
		tx.Rollback()
		return database.User{}, err
	}

	user := database.User{
		UUID:     uuid,
		Name:     name,
		Email:    database.ToNullString(email),
		Password: database.ToNullString(hashedPassword),
	}
	if err := tx.Save(&user).Error; err != nil {
		tx.Rollback()
		return database.User{}, errors.Wrap(err, "saving user")
	}

	if err := a.TouchLastLoginAt(user, tx); err != nil {
		tx.Rollback()
		return database.User{}, err
	}

	tx.Commit()

	return user, nil
}

// Authenticate authenticates a user
func (a *App) Authenticate(email, password string) (*database.User, error) {
	var user database.User
	err := a.DB.Where("email = ?", email).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrLoginInvalid
	}
	if err != nil {
		return nil, errors.Wrap(err, "finding user")
	}

	if !crypt.VerifyPassword(user.Password.String, password) {
		return nil, ErrLoginInvalid
	}

	return &user, nil
}

// SignIn signs in a user
func (a *App) SignIn(user *database.User) (*database.Session, error) {
	err := a.TouchLastLoginAt(*user, a.DB)
	if err != nil {
		return nil, errors.Wrap(err, "updating last_login")
	}

	session, err := a.CreateSession(user.ID)
	if err != nil {
		return nil, errors.Wrap(err, "creating session")
	}

	return &session, nil
}
