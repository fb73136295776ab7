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
	"github.com/bindery/bindery/pkg/server/permissions"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ChapterEntry is one position in a book's requested chapter list
type ChapterEntry struct {
	DocumentID int
	Number     int
	Part       string
}

// SetChapters replaces the book's chapter list with the requested one in its
// own transaction. See setChapters for the replacement semantics.
func (a *App) SetChapters(book database.Book, chapters []ChapterEntry, user database.User) error {
	tx := a.DB.Begin()
	if _, err := a.setChapters(tx, &book, chapters, user); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return errors.Wrap(err, "committing transaction")
	}

	return nil
}

// setChapters compares the requested chapter list against the book's current
// chapters ordered by number and replaces them as a whole set when they
// differ. An identical list is a no-op: the book's updated timestamp does not
// advance and no access rights are touched.
func (a *App) setChapters(tx *gorm.DB, book *database.Book, chapters []ChapterEntry, user database.User) (bool, error) {
	var current []database.Chapter
	err := tx.Where("book_id = ?", book.ID).
		Order("number ASC, id ASC").
		Find(&current).Error
	if err != nil {
		return false, errors.Wrap(err, "finding chapters")
	}

	changed := len(current) != len(chapters)
	if !changed {
		for i, cur := range current {
			if cur.DocumentID != chapters[i].DocumentID ||
				cur.Number != chapters[i].Number ||
				cur.Part != chapters[i].Part {
				changed = true
				break
			}
		}
	}
	if !changed {
		return false, nil
	}

	if err := tx.Where("book_id = ?", book.ID).Delete(&database.Chapter{}).Error; err != nil {
		return false, errors.Wrap(err, "deleting chapters")
	}

	var holders []holderRef
	var rights []database.BookAccessRight
	if err := tx.Where("book_id = ?", book.ID).Find(&rights).Error; err != nil {
		return false, errors.Wrap(err, "finding access rights")
	}
	for _, right := range rights {
		holders = append(holders, holderRef{holderType: right.HolderType, holderID: right.HolderID})
	}

	for _, entry := range chapters {
		chapter := database.Chapter{
			BookID:     book.ID,
			DocumentID: entry.DocumentID,
			Number:     entry.Number,
			Part:       entry.Part,
		}
		if err := tx.Create(&chapter).Error; err != nil {
			return false, errors.Wrap(err, "inserting chapter")
		}

		// Propagate read access only for documents the acting user owns.
		// No rights are invented for content the actor cannot share.
		ownedIDs, err := ownedDocumentIDs(tx, user.ID, []int{entry.DocumentID})
		if err != nil {
			return false, err
		}
		if len(ownedIDs) == 0 {
			continue
		}

		if err := ensureMinReadAccess(tx, ownedIDs, holders); err != nil {
			return false, err
		}
		if !permissions.OwnsBook(&user, *book) {
			ownerHolder := []holderRef{{holderType: database.HolderTypeUser, holderID: book.OwnerID}}
			if err := ensureMinReadAccess(tx, ownedIDs, ownerHolder); err != nil {
				return false, err
			}
		}
	}

	// Chapter content is part of the book, so the book's updated timestamp
	// advances even though chapter rows live in their own table.
	book.UpdatedOn = a.Clock.Now().Unix()
	if err := tx.Model(&database.Book{}).Where("id = ?", book.ID).Update("updated_on", book.UpdatedOn).Error; err != nil {
		return false, errors.Wrap(err, "updating book timestamp")
	}

	return true, nil
}
