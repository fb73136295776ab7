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
	"testing"

	"github.com/bindery/bindery/pkg/server/database"
	"github.com/bindery/bindery/pkg/server/testutils"
	"gorm.io/gorm"
)

func setupBookData(t *testing.T, db *gorm.DB, owner database.User, title, path string) database.Book {
	t.Helper()

	book := database.Book{
		UUID:    testutils.MustUUID(t),
		OwnerID: owner.ID,
		Title:   title,
		Path:    path,
	}
	testutils.MustExec(t, db.Save(&book), "preparing book")

	return book
}

func setupDocumentData(t *testing.T, db *gorm.DB, owner database.User, title string) database.Document {
	t.Helper()

	doc := database.Document{
		OwnerID: owner.ID,
		Title:   title,
	}
	testutils.MustExec(t, db.Save(&doc), "preparing document")

	return doc
}

func setupChapterData(t *testing.T, db *gorm.DB, book database.Book, doc database.Document, number int, part string) database.Chapter {
	t.Helper()

	chapter := database.Chapter{
		BookID:     book.ID,
		DocumentID: doc.ID,
		Number:     number,
		Part:       part,
	}
	testutils.MustExec(t, db.Save(&chapter), "preparing chapter")

	return chapter
}

func setupAccessRightData(t *testing.T, db *gorm.DB, book database.Book, holderType string, holderID int, rights, path string) database.BookAccessRight {
	t.Helper()

	right := database.BookAccessRight{
		BookID:     book.ID,
		HolderType: holderType,
		HolderID:   holderID,
		Rights:     rights,
		Path:       path,
	}
	testutils.MustExec(t, db.Save(&right), "preparing access right")

	return right
}

func setupDocumentRightData(t *testing.T, db *gorm.DB, doc database.Document, holderType string, holderID int, rights string) database.DocumentAccessRight {
	t.Helper()

	right := database.DocumentAccessRight{
		DocumentID: doc.ID,
		HolderType: holderType,
		HolderID:   holderID,
		Rights:     rights,
	}
	testutils.MustExec(t, db.Save(&right), "preparing document access right")

	return right
}

func setupInviteData(t *testing.T, db *gorm.DB, sender database.User, username, email string) database.UserInvite {
	t.Helper()

	invite := database.UserInvite{
		UUID:     testutils.MustUUID(t),
		SenderID: sender.ID,
		Username: username,
		Email:    email,
	}
	testutils.MustExec(t, db.Save(&invite), "preparing invite")

	return invite
}
