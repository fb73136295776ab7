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
	"github.com/bindery/bindery/pkg/server/helpers"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// CreateInvite creates a pending invite from the given user. The invitee can
// be granted access rights before they register.
func (a *App) CreateInvite(user database.User, username, email string) (database.UserInvite, error) {
	if email == "" {
		return database.UserInvite{}, ErrEmailRequired
	}

	uuid, err := helpers.GenUUID()
	if err != nil {
		return database.UserInvite{}, err
	}

	invite := database.UserInvite{
		UUID:     uuid,
		SenderID: user.ID,
		Username: username,
		Email:    email,
	}
	if err := a.DB.Create(&invite).Error; err != nil {
		return database.UserInvite{}, errors.Wrap(err, "inserting invite")
	}

	return invite, nil
}

// GetUserInvites lists the pending invites the given user has sent
func (a *App) GetUserInvites(user database.User) ([]database.UserInvite, error) {
	var invites []database.UserInvite
	err := a.DB.Where("sender_id = ?", user.ID).Order("id ASC").Find(&invites).Error
	if err != nil {
		return nil, errors.Wrap(err, "finding invites")
	}

	return invites, nil
}

// ApplyInvite binds the invite to the given user and consumes it. Any access
// rights the invite held are merged into the user's rights before the invite
// row is removed.
func (a *App) ApplyInvite(user database.User, inviteUUID string) error {
	var invite database.UserInvite
	conn := a.DB.Where("uuid = ?", inviteUUID).First(&invite)
	if conn.Error == gorm.ErrRecordNotFound {
		return ErrInviteNotFound
	}
	if conn.Error != nil {
		return errors.Wrap(conn.Error, "finding invite")
	}

	invite.ToUserID = &user.ID
	invite.Applied = true

	return a.consumeInvite(invite)
}

// DeleteInvite removes an invite the given user has sent. An applied invite
// is reconciled first; revoking an unapplied one simply drops the invite and
// any rights it held.
func (a *App) DeleteInvite(user database.User, inviteUUID string) error {
	var invite database.UserInvite
	conn := a.DB.Where("uuid = ? AND sender_id = ?", inviteUUID, user.ID).First(&invite)
	if conn.Error == gorm.ErrRecordNotFound {
		return ErrInviteNotFound
	}
	if conn.Error != nil {
		return errors.Wrap(conn.Error, "finding invite")
	}

	return a.consumeInvite(invite)
}

// consumeInvite runs the reconciliation and deletes the invite row, all in
// one transaction
func (a *App) consumeInvite(invite database.UserInvite) error {
	tx := a.DB.Begin()

	if err := reconcileInviteRights(tx, invite); err != nil {
		tx.Rollback()
		return err
	}

	// Rights still held by the invite were skipped or superseded during
	// reconciliation. They must not outlive their holder.
	err := tx.Where("holder_type = ? AND holder_id = ?", database.HolderTypeInvite, invite.ID).
		Delete(&database.BookAccessRight{}).Error
	if err != nil {
		tx.Rollback()
		return errors.Wrap(err, "deleting leftover invite rights")
	}
	err = tx.Where("holder_type = ? AND holder_id = ?", database.HolderTypeInvite, invite.ID).
		Delete(&database.DocumentAccessRight{}).Error
	if err != nil {
		tx.Rollback()
		return errors.Wrap(err, "deleting leftover invite document rights")
	}

	if err := tx.Delete(&invite).Error; err != nil {
		tx.Rollback()
		return errors.Wrap(err, "deleting invite")
	}

	if err := tx.Commit().Error; err != nil {
		return errors.Wrap(err, "committing transaction")
	}

	return nil
}

// reconcileInviteRights merges the invite's book access rights into the
// target user's rights. A user's access never decreases here: existing rights
// are upgraded at most, and rights on books the user owns are dropped since
// owners hold implicit write access.
func reconcileInviteRights(tx *gorm.DB, invite database.UserInvite) error {
	if !invite.Applied || invite.ToUserID == nil {
		return nil
	}
	targetID := *invite.ToUserID

	var rights []database.BookAccessRight
	err := tx.Where("holder_type = ? AND holder_id = ?", database.HolderTypeInvite, invite.ID).
		Find(&rights).Error
	if err != nil {
		return errors.Wrap(err, "finding invite rights")
	}

	for _, right := range rights {
		var existing database.BookAccessRight
		conn := tx.Where("book_id = ? AND holder_type = ? AND holder_id = ?", right.BookID, database.HolderTypeUser, targetID).
			First(&existing)
		if conn.Error != nil && conn.Error != gorm.ErrRecordNotFound {
			return errors.Wrap(conn.Error, "finding existing right")
		}

		if conn.Error == nil {
			if right.Rights == database.RightsRead || existing.Rights == database.RightsWrite {
				continue
			}

			existing.Rights = right.Rights
			if err := tx.Save(&existing).Error; err != nil {
				return errors.Wrap(err, "upgrading access right")
			}
			continue
		}

		var book database.Book
		if err := tx.Where("id = ?", right.BookID).First(&book).Error; err != nil {
			return errors.Wrap(err, "finding book")
		}
		if book.OwnerID == targetID {
			continue
		}

		// Rewrite the row's holder in place so the invitee's path survives
		right.HolderType = database.HolderTypeUser
		right.HolderID = targetID
		if err := tx.Save(&right).Error; err != nil {
			return errors.Wrap(err, "reassigning access right")
		}
	}

	return reconcileInviteDocumentRights(tx, invite, targetID)
}

// reconcileInviteDocumentRights merges the invite's document access rights
// into the target user's rights, under the same rules as the book rights:
// upgrade at most, and drop rights on documents the user owns.
func reconcileInviteDocumentRights(tx *gorm.DB, invite database.UserInvite, targetID int) error {
	var rights []database.DocumentAccessRight
	err := tx.Where("holder_type = ? AND holder_id = ?", database.HolderTypeInvite, invite.ID).
		Find(&rights).Error
	if err != nil {
		return errors.Wrap(err, "finding invite document rights")
	}

	for _, right := range rights {
		var existing database.DocumentAccessRight
		conn := tx.Where("document_id = ? AND holder_type = ? AND holder_id = ?", right.DocumentID, database.HolderTypeUser, targetID).
			First(&existing)
		if conn.Error != nil && conn.Error != gorm.ErrRecordNotFound {
			return errors.Wrap(conn.Error, "finding existing document right")
		}

		if conn.Error == nil {
			if right.Rights == database.RightsRead || existing.Rights == database.RightsWrite {
				continue
			}

			existing.Rights = right.Rights
			if err := tx.Save(&existing).Error; err != nil {
				return errors.Wrap(err, "upgrading document access right")
			}
			continue
		}

		var doc database.Document
		if err := tx.Where("id = ?", right.DocumentID).First(&doc).Error; err != nil {
			return errors.Wrap(err, "finding document")
		}
		if doc.OwnerID == targetID {
			continue
		}

		right.HolderType = database.HolderTypeUser
		right.HolderID = targetID
		if err := tx.Save(&right).Error; err != nil {
			return errors.Wrap(err, "reassigning document access right")
		}
	}

	return nil
}
