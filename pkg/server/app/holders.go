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
	"github.com/bindery/bindery/pkg/server/database"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Holder is the resolved identity behind an access right. It is either a
// registered user or a pending invite.
type Holder struct {
	ID     int
	Type   string
	Name   string
	Avatar *string
}

type holderRef struct {
	holderType string
	holderID   int
}

// ResolveHolder looks up the identity behind a (holderType, holderID) pair.
// It returns false when the holder does not resolve to an existing row.
func (a *App) ResolveHolder(holderType string, holderID int) (Holder, bool, error) {
	switch holderType {
	case database.HolderTypeUser:
		var user database.User
		conn := a.DB.Where("id = ?", holderID).First(&user)
		if conn.Error == gorm.ErrRecordNotFound {
			return Holder{}, false, nil
		}
		if conn.Error != nil {
			return Holder{}, false, errors.Wrap(conn.Error, "finding user")
		}

		name := user.Name
		if name == "" {
			name = user.Email.String
		}

		var avatar *string
		if a.AvatarProvider != nil {
			avatar = a.AvatarProvider.URL(user)
		}

		return Holder{
			ID:     user.ID,
			Type:   database.HolderTypeUser,
			Name:   name,
			Avatar: avatar,
		}, true, nil
	case database.HolderTypeInvite:
		var invite database.UserInvite
		conn := a.DB.Where("id = ?", holderID).First(&invite)
		if conn.Error == gorm.ErrRecordNotFound {
			return Holder{}, false, nil
		}
		if conn.Error != nil {
			return Holder{}, false, errors.Wrap(conn.Error, "finding invite")
		}

		name := invite.Username
		if name == "" {
			name = invite.Email
		}

		return Holder{
			ID:     invite.ID,
			Type:   database.HolderTypeInvite,
			Name:   name,
			Avatar: nil,
		}, true, nil
	}

	return Holder{}, false, nil
}
