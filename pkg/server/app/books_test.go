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

	"github.com/bindery/bindery/pkg/assert"
	"github.com/bindery/bindery/pkg/server/database"
	"github.com/bindery/bindery/pkg/server/testutils"
)

func TestSaveBook_create(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	user := testutils.SetupUserData(db, "alice@example.com", "pass1234")
	doc := setupDocumentData(t, db, user, "Chapter One")

	a := NewTest(db)

	book, err := a.SaveBook(user, SaveBookParams{
		Title:    "Novel",
		Metadata: `{"author": "Alice"}`,
		Settings: `{"papersize": "A4"}`,
		Path:     "/Drafts/Novel",
		Chapters: []ChapterEntry{
			{DocumentID: doc.ID, Number: 1, Part: ""},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	assert.NotEqual(t, book.UUID, "", "uuid should be generated")
	assert.Equal(t, book.OwnerID, user.ID, "owner mismatch")
	assert.Equal(t, book.Title, "Novel", "title mismatch")
	assert.Equal(t, book.Path, "/Drafts/Novel", "path mismatch")

	var chapterCount int64
	testutils.MustExec(t, db.Model(&database.Chapter{}).Where("book_id = ?", book.ID).Count(&chapterCount), "counting chapters")
	assert.Equal(t, chapterCount, int64(1), "chapter count mismatch")
}

func TestSaveBook_updatedOnlyAdvancesOnChange(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	user := testutils.SetupUserData(db, "alice@example.com", "pass1234")

	a := NewTest(db)

	book, err := a.SaveBook(user, SaveBookParams{
		Title: "Novel",
		Path:  "/Novel",
	})
	if err != nil {
		t.Fatal(err)
	}

	originalUpdatedOn := int64(42)
	testutils.MustExec(t, db.Model(&database.Book{}).Where("id = ?", book.ID).Update("updated_on", originalUpdatedOn), "preparing timestamp")

	// saving identical values does not advance the timestamp
	if _, err := a.SaveBook(user, SaveBookParams{
		UUID:  book.UUID,
		Title: "Novel",
		Path:  "/Novel",
	}); err != nil {
		t.Fatal(err)
	}

	var record database.Book
	testutils.MustExec(t, db.Where("id = ?", book.ID).First(&record), "finding book")
	assert.Equal(t, record.UpdatedOn, originalUpdatedOn, "updated timestamp mismatch")

	// a title change does
	if _, err := a.SaveBook(user, SaveBookParams{
		UUID:  book.UUID,
		Title: "Novella",
		Path:  "/Novel",
	}); err != nil {
		t.Fatal(err)
	}

	testutils.MustExec(t, db.Where("id = ?", book.ID).First(&record), "finding book")
	assert.NotEqual(t, record.UpdatedOn, originalUpdatedOn, "updated timestamp mismatch")
}

func TestSaveBook_collaboratorPath(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	owner := testutils.SetupUserData(db, "alice@example.com", "pass1234")
	writer := testutils.SetupUserData(db, "bob@example.com", "pass1234")
	book := setupBookData(t, db, owner, "Novel", "/Novel")
	setupAccessRightData(t, db, book, database.HolderTypeUser, writer.ID, database.RightsWrite, "/Novel")

	a := NewTest(db)

	if _, err := a.SaveBook(writer, SaveBookParams{
		UUID:  book.UUID,
		Title: "Novel",
		Path:  "/Shared/Novel",
	}); err != nil {
		t.Fatal(err)
	}

	// the collaborator's path lives on their access right, not the book
	var record database.Book
	testutils.MustExec(t, db.Where("id = ?", book.ID).First(&record), "finding book")
	assert.Equal(t, record.Path, "/Novel", "book path mismatch")

	var right database.BookAccessRight
	testutils.MustExec(t, db.Where("book_id = ? AND holder_id = ?", book.ID, writer.ID).First(&right), "finding access right")
	assert.Equal(t, right.Path, "/Shared/Novel", "access right path mismatch")
}

func TestSaveBook_readOnlyCollaboratorRejected(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	owner := testutils.SetupUserData(db, "alice@example.com", "pass1234")
	reader := testutils.SetupUserData(db, "bob@example.com", "pass1234")
	book := setupBookData(t, db, owner, "Novel", "/Novel")
	setupAccessRightData(t, db, book, database.HolderTypeUser, reader.ID, database.RightsRead, "/Novel")

	a := NewTest(db)

	_, err := a.SaveBook(reader, SaveBookParams{
		UUID:  book.UUID,
		Title: "Hijacked",
		Path:  "/Novel",
	})
	assert.Equal(t, err, ErrNotAuthorized, "error mismatch")
}

func TestSaveBook_coverImage(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	user := testutils.SetupUserData(db, "alice@example.com", "pass1234")
	other := testutils.SetupUserData(db, "bob@example.com", "pass1234")

	image := database.Image{UUID: testutils.MustUUID(t), Checksum: "abc", FileType: "png"}
	testutils.MustExec(t, db.Save(&image), "preparing image")
	testutils.MustExec(t, db.Save(&database.UserImage{UserID: other.ID, ImageID: image.ID}), "preparing user image")

	a := NewTest(db)

	// pointing the book at an image outside the user's library is rejected
	_, err := a.SaveBook(user, SaveBookParams{
		Title:        "Novel",
		Path:         "/Novel",
		CoverImageID: &image.ID,
	})
	assert.Equal(t, err, ErrNotAuthorized, "error mismatch")

	testutils.MustExec(t, db.Save(&database.UserImage{UserID: user.ID, ImageID: image.ID}), "preparing user image")

	book, err := a.SaveBook(user, SaveBookParams{
		Title:        "Novel",
		Path:         "/Novel",
		CoverImageID: &image.ID,
	})
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, *book.CoverImageID, image.ID, "cover image mismatch")
}

func TestCopyBook(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	user := testutils.SetupUserData(db, "alice@example.com", "pass1234")
	book := setupBookData(t, db, user, "Novel", "/Drafts/Novel")
	doc := setupDocumentData(t, db, user, "Chapter One")
	setupChapterData(t, db, book, doc, 1, "")

	a := NewTest(db)

	copied, err := a.CopyBook(user, book.UUID, "/Drafts/Novel Copy")
	if err != nil {
		t.Fatal(err)
	}

	assert.NotEqual(t, copied.ID, book.ID, "copy should be a new book")
	assert.Equal(t, copied.Title, "Novel", "title mismatch")
	assert.Equal(t, copied.Path, "/Drafts/Novel Copy", "path mismatch")

	// chapters are duplicated but keep pointing at the same documents
	var chapters []database.Chapter
	testutils.MustExec(t, db.Where("book_id = ?", copied.ID).Find(&chapters), "finding chapters")
	assert.Equalf(t, len(chapters), 1, "chapter count mismatch")
	assert.Equal(t, chapters[0].DocumentID, doc.ID, "document mismatch")
}

func TestCopyBook_pathCollision(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	user := testutils.SetupUserData(db, "alice@example.com", "pass1234")
	setupBookData(t, db, user, "Novel", "/Drafts/Novel")
	other := setupBookData(t, db, user, "Other", "/Other")

	a := NewTest(db)

	copied, err := a.CopyBook(user, other.UUID, "/Drafts/Novel")
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, copied.Path, "/Drafts/Novel 1", "path mismatch")

	copied2, err := a.CopyBook(user, other.UUID, "/Drafts/Novel")
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, copied2.Path, "/Drafts/Novel 2", "path mismatch")
}

func TestCopyBook_noAccess(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	owner := testutils.SetupUserData(db, "alice@example.com", "pass1234")
	other := testutils.SetupUserData(db, "carol@example.com", "pass1234")
	book := setupBookData(t, db, owner, "Novel", "/Novel")

	a := NewTest(db)

	_, err := a.CopyBook(other, book.UUID, "/Novel")
	assert.Equal(t, err, ErrBookNotFound, "error mismatch")
}

func TestDeleteBook(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	user := testutils.SetupUserData(db, "alice@example.com", "pass1234")
	collaborator := testutils.SetupUserData(db, "bob@example.com", "pass1234")
	book := setupBookData(t, db, user, "Novel", "/Novel")
	doc := setupDocumentData(t, db, user, "Chapter One")
	setupChapterData(t, db, book, doc, 1, "")
	setupAccessRightData(t, db, book, database.HolderTypeUser, collaborator.ID, database.RightsRead, "/Novel")

	a := NewTest(db)

	if err := a.DeleteBook(user, book.UUID); err != nil {
		t.Fatal(err)
	}

	var count int64
	testutils.MustExec(t, db.Model(&database.Book{}).Count(&count), "counting books")
	assert.Equal(t, count, int64(0), "book count mismatch")
	testutils.MustExec(t, db.Model(&database.Chapter{}).Count(&count), "counting chapters")
	assert.Equal(t, count, int64(0), "chapter count mismatch")
	testutils.MustExec(t, db.Model(&database.BookAccessRight{}).Count(&count), "counting access rights")
	assert.Equal(t, count, int64(0), "access right count mismatch")
}

func TestDeleteBook_notOwner(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	owner := testutils.SetupUserData(db, "alice@example.com", "pass1234")
	other := testutils.SetupUserData(db, "carol@example.com", "pass1234")
	book := setupBookData(t, db, owner, "Novel", "/Novel")

	a := NewTest(db)

	err := a.DeleteBook(other, book.UUID)
	assert.Equal(t, err, ErrBookNotFound, "error mismatch")
}

func TestDeleteBook_coverImageRefcount(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	user := testutils.SetupUserData(db, "alice@example.com", "pass1234")

	image := database.Image{UUID: testutils.MustUUID(t), Checksum: "abc", FileType: "png"}
	testutils.MustExec(t, db.Save(&image), "preparing image")

	book := database.Book{UUID: testutils.MustUUID(t), OwnerID: user.ID, Title: "Novel", Path: "/Novel", CoverImageID: &image.ID}
	testutils.MustExec(t, db.Save(&book), "preparing book")

	a := NewTest(db)

	// still referenced from the user's image library: the image survives
	userImage := database.UserImage{UserID: user.ID, ImageID: image.ID}
	testutils.MustExec(t, db.Save(&userImage), "preparing user image")

	if err := a.DeleteBook(user, book.UUID); err != nil {
		t.Fatal(err)
	}

	var count int64
	testutils.MustExec(t, db.Model(&database.Image{}).Count(&count), "counting images")
	assert.Equal(t, count, int64(1), "image count mismatch")

	// with the last reference gone, deleting another book using the image
	// removes it
	testutils.MustExec(t, db.Delete(&userImage), "removing user image")
	book2 := database.Book{UUID: testutils.MustUUID(t), OwnerID: user.ID, Title: "Novel 2", Path: "/Novel 2", CoverImageID: &image.ID}
	testutils.MustExec(t, db.Save(&book2), "preparing book")

	if err := a.DeleteBook(user, book2.UUID); err != nil {
		t.Fatal(err)
	}

	testutils.MustExec(t, db.Model(&database.Image{}).Count(&count), "counting images")
	assert.Equal(t, count, int64(0), "image count mismatch")
}

func TestMoveBook(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	owner := testutils.SetupUserData(db, "alice@example.com", "pass1234")
	collaborator := testutils.SetupUserData(db, "bob@example.com", "pass1234")
	book := setupBookData(t, db, owner, "Novel", "/Novel")
	setupAccessRightData(t, db, book, database.HolderTypeUser, collaborator.ID, database.RightsRead, "/Novel")

	a := NewTest(db)

	done, err := a.MoveBook(owner, book.UUID, "/Archive/Novel")
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, done, true, "done mismatch")

	var record database.Book
	testutils.MustExec(t, db.Where("id = ?", book.ID).First(&record), "finding book")
	assert.Equal(t, record.Path, "/Archive/Novel", "book path mismatch")

	// a collaborator's move only touches their own view
	done, err = a.MoveBook(collaborator, book.UUID, "/Reading/Novel")
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, done, true, "done mismatch")

	testutils.MustExec(t, db.Where("id = ?", book.ID).First(&record), "finding book")
	assert.Equal(t, record.Path, "/Archive/Novel", "book path mismatch")

	var right database.BookAccessRight
	testutils.MustExec(t, db.Where("book_id = ? AND holder_id = ?", book.ID, collaborator.ID).First(&right), "finding access right")
	assert.Equal(t, right.Path, "/Reading/Novel", "access right path mismatch")

	// a user with no relation to the book cannot move it
	stranger := testutils.SetupUserData(db, "carol@example.com", "pass1234")
	done, err = a.MoveBook(stranger, book.UUID, "/Hijack")
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, done, false, "done mismatch")
}

func TestGetUserBooks(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	owner := testutils.SetupUserData(db, "alice@example.com", "pass1234")
	collaborator := testutils.SetupUserData(db, "bob@example.com", "pass1234")
	stranger := testutils.SetupUserData(db, "carol@example.com", "pass1234")

	owned := setupBookData(t, db, owner, "Mine", "/Mine")
	shared := setupBookData(t, db, collaborator, "Theirs", "/Theirs")
	setupAccessRightData(t, db, shared, database.HolderTypeUser, owner.ID, database.RightsRead, "/Shared/Theirs")
	setupBookData(t, db, stranger, "Hidden", "/Hidden")

	a := NewTest(db)

	infos, err := a.GetUserBooks(owner)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equalf(t, len(infos), 2, "book count mismatch")

	byTitle := map[string]BookInfo{}
	for _, info := range infos {
		byTitle[info.Book.Title] = info
	}

	mine := byTitle["Mine"]
	assert.Equal(t, mine.IsOwner, true, "is owner mismatch")
	assert.Equal(t, mine.Rights, database.RightsWrite, "rights mismatch")
	assert.Equal(t, mine.Path, "/Mine", "path mismatch")
	assert.Equal(t, mine.Book.ID, owned.ID, "book id mismatch")

	theirs := byTitle["Theirs"]
	assert.Equal(t, theirs.IsOwner, false, "is owner mismatch")
	assert.Equal(t, theirs.Rights, database.RightsRead, "rights mismatch")
	assert.Equal(t, theirs.Path, "/Shared/Theirs", "path mismatch")
	assert.Equal(t, theirs.Owner.ID, collaborator.ID, "owner id mismatch")
}
