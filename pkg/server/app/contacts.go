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
)

// GetUserContacts lists the identities the user can share books with: their
// contacts plus the pending invites they have sent
func (a *App) GetUserContacts(user database.User) ([]Holder, error) {
	var contacts []database.Contact
	err := a.DB.Where("user_id = ?", user.ID).Order("id ASC").Find(&contacts).Error
	if err != nil {
		return nil, errors.Wrap(err, "finding contacts")
	}

	ret := []Holder{}
	for _, contact := range contacts {
		holder, ok, err := a.ResolveHolder(database.HolderTypeUser, contact.ContactID)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		ret = append(ret, holder)
	}

	invites, err := a.GetUserInvites(user)
	if err != nil {
		return nil, err
	}
	for _, invite := range invites {
		holder, ok, err := a.ResolveHolder(database.HolderTypeInvite, invite.ID)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		ret = append(ret, holder)
	}

	return ret, nil
}

// CreateContact records that the two users know each other, in both
// directions
func (a *App) CreateContact(user database.User, contactID int) error {
	tx := a.DB.Begin()

	for _, pair := range [][2]int{{user.ID, contactID}, {contactID, user.ID}} {
		var count int64
		err := tx.Model(&database.Contact{}).
			Where("user_id = ? AND contact_id = ?", pair[0], pair[1]).
			Count(&count).Error
		if err != nil {
			tx.Rollback()
			return errors.Wrap(err, "counting contacts")
		}
		if count > 0 {
			continue
		}

		contact := database.Contact{UserID: pair[0], ContactID: pair[1]}
		if err := tx.Create(&contact).Error; err != nil {
			tx.Rollback()
			return errors.Wrap(err, "inserting contact")
		}
	}

	if err := tx.Commit().Error; err != nil {
		return errors.Wrap(err, "committing transaction")
	}

	return nil
}
