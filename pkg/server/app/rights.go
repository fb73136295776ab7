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
	"strings"

	"github.com/bindery/bindery/pkg/server/database"
	"github.com/bindery/bindery/pkg/server/log"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// AccessRightEntry is one requested change to a book's access rights.
// Rights may be the delete sentinel, meaning the holder's row is removed.
type AccessRightEntry struct {
	HolderType string
	HolderID   int
	Rights     string
}

// AccessRightInfo is a ledger row together with its resolved holder identity
type AccessRightInfo struct {
	Right    database.BookAccessRight
	BookUUID string
	Holder   Holder
}

// GetBookAccessRights lists the access right rows for books the given user
// owns. If bookIDs is non-empty, the listing is restricted to those books.
// Rows whose holder no longer resolves are omitted.
func (a *App) GetBookAccessRights(user database.User, bookIDs []int) ([]AccessRightInfo, error) {
	conn := a.DB.
		Joins("INNER JOIN books ON books.id = book_access_rights.book_id").
		Where("books.owner_id = ?", user.ID)
	if len(bookIDs) > 0 {
		conn = conn.Where("book_access_rights.book_id IN (?)", bookIDs)
	}

	var rights []database.BookAccessRight
	if err := conn.Find(&rights).Error; err != nil {
		return nil, errors.Wrap(err, "finding access rights")
	}

	bookUUIDs := map[int]string{}
	for _, right := range rights {
		if _, ok := bookUUIDs[right.BookID]; ok {
			continue
		}

		var book database.Book
		if err := a.DB.Where("id = ?", right.BookID).First(&book).Error; err != nil {
			return nil, errors.Wrap(err, "finding book")
		}
		bookUUIDs[right.BookID] = book.UUID
	}

	ret := []AccessRightInfo{}
	for _, right := range rights {
		holder, ok, err := a.ResolveHolder(right.HolderType, right.HolderID)
		if err != nil {
			return nil, errors.Wrap(err, "resolving holder")
		}
		if !ok {
			continue
		}

		ret = append(ret, AccessRightInfo{Right: right, BookUUID: bookUUIDs[right.BookID], Holder: holder})
	}

	return ret, nil
}

// ResolveBookIDs maps book UUIDs to ids. UUIDs that do not resolve are
// skipped, mirroring how unknown books are treated elsewhere.
func (a *App) ResolveBookIDs(uuids []string) ([]int, error) {
	ret := []int{}
	for _, uuid := range uuids {
		book, found, err := a.getBookByUUID(a.DB, uuid)
		if err != nil {
			return nil, err
		}
		if !found {
			continue
		}

		ret = append(ret, book.ID)
	}

	return ret, nil
}

// shareNotification is a queued "book shared" email. Notifications are
// collected during the transaction and sent only after it commits.
type shareNotification struct {
	bookTitle         string
	collaboratorName  string
	collaboratorEmail string
	rights            string
	change            bool
}

// SaveBookAccessRights applies a batch of access right entries to the given
// books in one transaction. Books the user does not own and holders that do
// not resolve are skipped without error.
func (a *App) SaveBookAccessRights(user database.User, bookIDs []int, entries []AccessRightEntry) error {
	var notifications []shareNotification

	tx := a.DB.Begin()
	for _, bookID := range bookIDs {
		var book database.Book
		conn := tx.Where("id = ? AND owner_id = ?", bookID, user.ID).First(&book)
		if conn.Error == gorm.ErrRecordNotFound {
			continue
		}
		if conn.Error != nil {
			tx.Rollback()
			return errors.Wrap(conn.Error, "finding book")
		}

		var documentIDs []int
		err := tx.Model(&database.Chapter{}).
			Where("book_id = ?", book.ID).
			Pluck("document_id", &documentIDs).Error
		if err != nil {
			tx.Rollback()
			return errors.Wrap(err, "finding chapter documents")
		}
		ownedIDs, err := ownedDocumentIDs(tx, user.ID, documentIDs)
		if err != nil {
			tx.Rollback()
			return err
		}

		for _, entry := range entries {
			if entry.Rights == database.RightsDelete {
				err := tx.Where("book_id = ? AND holder_type = ? AND holder_id = ?", book.ID, entry.HolderType, entry.HolderID).
					Delete(&database.BookAccessRight{}).Error
				if err != nil {
					tx.Rollback()
					return errors.Wrap(err, "deleting access right")
				}
				continue
			}

			notification, applied, err := a.applyAccessRightEntry(tx, book, entry)
			if err != nil {
				tx.Rollback()
				return err
			}
			if notification != nil {
				notifications = append(notifications, *notification)
			}
			// an unresolvable holder is skipped entirely, including the
			// document-level cascade
			if !applied {
				continue
			}

			holders := []holderRef{{holderType: entry.HolderType, holderID: entry.HolderID}}
			if err := ensureMinReadAccess(tx, ownedIDs, holders); err != nil {
				tx.Rollback()
				return err
			}
		}
	}
	if err := tx.Commit().Error; err != nil {
		return errors.Wrap(err, "committing transaction")
	}

	for _, n := range notifications {
		if err := a.SendBookSharedEmail(user, n); err != nil {
			log.ErrorWrap(err, "sending book shared notification")
		}
	}

	return nil
}

// applyAccessRightEntry creates or updates a single ledger row. It returns a
// notification to queue when the change concerns a registered user, and
// whether the holder ended up holding a row at all. Unresolvable holders
// leave no row behind and report applied=false.
func (a *App) applyAccessRightEntry(tx *gorm.DB, book database.Book, entry AccessRightEntry) (*shareNotification, bool, error) {
	var existing database.BookAccessRight
	conn := tx.Where("book_id = ? AND holder_type = ? AND holder_id = ?", book.ID, entry.HolderType, entry.HolderID).
		First(&existing)
	if conn.Error != nil && conn.Error != gorm.ErrRecordNotFound {
		return nil, false, errors.Wrap(conn.Error, "finding access right")
	}

	if conn.Error == nil {
		if existing.Rights == entry.Rights {
			return nil, true, nil
		}

		existing.Rights = entry.Rights
		if err := tx.Save(&existing).Error; err != nil {
			return nil, false, errors.Wrap(err, "updating access right")
		}

		n, err := a.holderNotification(tx, book, entry, true)
		return n, true, err
	}

	ok, err := holderExists(tx, entry.HolderType, entry.HolderID)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	right := database.BookAccessRight{
		BookID:     book.ID,
		HolderType: entry.HolderType,
		HolderID:   entry.HolderID,
		Rights:     entry.Rights,
		Path:       seedHolderPath(book.Path),
	}
	if err := tx.Create(&right).Error; err != nil {
		return nil, false, errors.Wrap(err, "inserting access right")
	}

	n, err := a.holderNotification(tx, book, entry, false)
	return n, true, err
}

// holderNotification builds the queued notification for a user holder. Invite
// holders get no email; the invite flow notifies them separately.
func (a *App) holderNotification(tx *gorm.DB, book database.Book, entry AccessRightEntry, change bool) (*shareNotification, error) {
	if entry.HolderType != database.HolderTypeUser {
		return nil, nil
	}

	var collaborator database.User
	conn := tx.Where("id = ?", entry.HolderID).First(&collaborator)
	if conn.Error == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if conn.Error != nil {
		return nil, errors.Wrap(conn.Error, "finding collaborator")
	}
	if !collaborator.Email.Valid || collaborator.Email.String == "" {
		return nil, nil
	}

	name := collaborator.Name
	if name == "" {
		name = collaborator.Email.String
	}

	return &shareNotification{
		bookTitle:         book.Title,
		collaboratorName:  name,
		collaboratorEmail: collaborator.Email.String,
		rights:            entry.Rights,
		change:            change,
	}, nil
}

func holderExists(tx *gorm.DB, holderType string, holderID int) (bool, error) {
	var count int64

	switch holderType {
	case database.HolderTypeUser:
		if err := tx.Model(&database.User{}).Where("id = ?", holderID).Count(&count).Error; err != nil {
			return false, errors.Wrap(err, "counting users")
		}
	case database.HolderTypeInvite:
		if err := tx.Model(&database.UserInvite{}).Where("id = ?", holderID).Count(&count).Error; err != nil {
			return false, errors.Wrap(err, "counting invites")
		}
	default:
		return false, nil
	}

	return count > 0, nil
}

// seedHolderPath derives a new holder's view of a shared book's location:
// "/filename" from the owner's path, or "" if the book sits at the root.
func seedHolderPath(bookPath string) string {
	parts := strings.Split(bookPath, "/")
	path := "/" + parts[len(parts)-1]
	if path == "/" {
		return ""
	}

	return path
}
