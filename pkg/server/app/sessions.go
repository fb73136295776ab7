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
	"time"

	"github.com/bindery/bindery/pkg/server/crypt"
	"github.com/bindery/bindery/pkg/server/database"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// sessionLifespan is the duration of a session in hours
const sessionLifespan = 24 * 100

// CreateSession returns a new session for the user of the given id
func (a *App) CreateSession(userID int) (database.Session, error) {
	key, err := crypt.GetRandomStr(32)
	if err != nil {
		return database.Session{}, errors.Wrap(err, "generating key")
	}

	now := a.Clock.Now()
	session := database.Session{
		UserID:     userID,
		Key:        key,
		LastUsedAt: now,
		ExpiresAt:  now.Add(sessionLifespan * time.Hour),
	}

	if err := a.DB.Save(&session).Error; err != nil {
		return database.Session{}, errors.Wrap(err, "saving session")
	}

	return session, nil
}

// DeleteSession deletes the session that matches the given key
func (a *App) DeleteSession(sessionKey string) error {
	if err := a.DB.Where("key = ?", sessionKey).Delete(&database.Session{}).Error; err != nil {
		return errors.Wrap(err, "deleting the session")
	}

	return nil
}

// DeleteUserSessions deletes all existing sessions for the given user. It
// effectively invalidates all existing sessions.
func (a *App) DeleteUserSessions(db *gorm.DB, userID int) error {
	if err := db.Where("user_id = ?", userID).Delete(&database.Session{}).Error; err != nil {
		return errors.Wrap(err, "deleting sessions")
	}

	return nil
}

// PurgeExpiredSessions removes sessions past their expiry. It is run
// periodically by the server's scheduler.
func (a *App) PurgeExpiredSessions() (int64, error) {
	conn := a.DB.Where("expires_at < ?", a.Clock.Now()).Delete(&database.Session{})
	if conn.Error != nil {
		return 0, errors.Wrap(conn.Error, "deleting expired sessions")
	}

	return conn.RowsAffected, nil
}
