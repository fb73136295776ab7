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
	"fmt"

	"github.com/bindery/bindery/pkg/server/database"
	"github.com/bindery/bindery/pkg/server/helpers"
	"github.com/bindery/bindery/pkg/server/permissions"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// BookChapter is a chapter annotated with its document's title
type BookChapter struct {
	DocumentID int
	Number     int
	Part       string
	Title      string
}

// BookInfo is a book annotated with the viewer's rights and path, its
// resolved owner, its chapters and its cover image
type BookInfo struct {
	Book       database.Book
	Path       string
	Rights     string
	IsOwner    bool
	Owner      Holder
	Chapters   []BookChapter
	UpdatedOn  int64
	CoverImage *database.Image
}

// SaveBookParams are the fields a client may set when saving a book. A blank
// UUID means a new book is created.
type SaveBookParams struct {
	UUID         string
	Title        string
	Metadata     string
	Settings     string
	Path         string
	CoverImageID *int
	Chapters     []ChapterEntry
}

// bookSnapshot captures the mutable fields of a book at load time. Comparing
// against it on save decides whether the updated timestamp advances.
type bookSnapshot struct {
	title        string
	metadata     string
	settings     string
	coverImageID *int
	ownerID      int
}

func snapshotBook(book database.Book) bookSnapshot {
	return bookSnapshot{
		title:        book.Title,
		metadata:     book.Metadata,
		settings:     book.Settings,
		coverImageID: book.CoverImageID,
		ownerID:      book.OwnerID,
	}
}

func (s bookSnapshot) changed(book database.Book) bool {
	if s.title != book.Title || s.metadata != book.Metadata || s.settings != book.Settings || s.ownerID != book.OwnerID {
		return true
	}
	if (s.coverImageID == nil) != (book.CoverImageID == nil) {
		return true
	}
	if s.coverImageID != nil && *s.coverImageID != *book.CoverImageID {
		return true
	}

	return false
}

func (a *App) getBookByUUID(tx *gorm.DB, uuid string) (database.Book, bool, error) {
	var book database.Book
	conn := tx.Where("uuid = ?", uuid).First(&book)
	if conn.Error == gorm.ErrRecordNotFound {
		return book, false, nil
	}
	if conn.Error != nil {
		return book, false, errors.Wrap(conn.Error, "finding book")
	}

	return book, true, nil
}

// GetUserBooks lists the books the given user owns or holds a user-level
// access right on, each annotated with the viewer's own rights and path
func (a *App) GetUserBooks(user database.User) ([]BookInfo, error) {
	var books []database.Book
	err := a.DB.
		Joins("LEFT JOIN book_access_rights ON book_access_rights.book_id = books.id AND book_access_rights.holder_type = ? AND book_access_rights.holder_id = ?", database.HolderTypeUser, user.ID).
		Where("books.owner_id = ? OR book_access_rights.id IS NOT NULL", user.ID).
		Order("books.updated_on DESC").
		Find(&books).Error
	if err != nil {
		return nil, errors.Wrap(err, "finding books")
	}

	ret := []BookInfo{}
	for _, book := range books {
		info, err := a.buildBookInfo(book, user)
		if err != nil {
			return nil, err
		}

		ret = append(ret, info)
	}

	return ret, nil
}

func (a *App) buildBookInfo(book database.Book, viewer database.User) (BookInfo, error) {
	info := BookInfo{
		Book:      book,
		UpdatedOn: book.UpdatedOn,
	}

	if permissions.OwnsBook(&viewer, book) {
		info.IsOwner = true
		info.Rights = database.RightsWrite
		info.Path = book.Path
	} else {
		var right database.BookAccessRight
		err := a.DB.Where("book_id = ? AND holder_type = ? AND holder_id = ?", book.ID, database.HolderTypeUser, viewer.ID).
			First(&right).Error
		if err != nil {
			return info, errors.Wrap(err, "finding viewer access right")
		}
		info.Rights = right.Rights
		info.Path = right.Path
	}

	owner, ok, err := a.ResolveHolder(database.HolderTypeUser, book.OwnerID)
	if err != nil {
		return info, errors.Wrap(err, "resolving owner")
	}
	if ok {
		info.Owner = owner
	}

	var chapters []database.Chapter
	err = a.DB.Where("book_id = ?", book.ID).
		Order("number ASC, id ASC").
		Find(&chapters).Error
	if err != nil {
		return info, errors.Wrap(err, "finding chapters")
	}

	info.Chapters = []BookChapter{}
	for _, chapter := range chapters {
		var doc database.Document
		conn := a.DB.Where("id = ?", chapter.DocumentID).First(&doc)
		if conn.Error == gorm.ErrRecordNotFound {
			continue
		}
		if conn.Error != nil {
			return info, errors.Wrap(conn.Error, "finding chapter document")
		}

		info.Chapters = append(info.Chapters, BookChapter{
			DocumentID: chapter.DocumentID,
			Number:     chapter.Number,
			Part:       chapter.Part,
			Title:      doc.Title,
		})
		// a book is as fresh as its most recently edited chapter
		if doc.UpdatedOn > info.UpdatedOn {
			info.UpdatedOn = doc.UpdatedOn
		}
	}

	if book.CoverImageID != nil {
		var image database.Image
		conn := a.DB.Where("id = ?", *book.CoverImageID).First(&image)
		if conn.Error != nil && conn.Error != gorm.ErrRecordNotFound {
			return info, errors.Wrap(conn.Error, "finding cover image")
		}
		if conn.Error == nil {
			info.CoverImage = &image
		}
	}

	return info, nil
}

// SaveBook creates or updates a book together with its chapter list in one
// transaction. Owners update the book's own path; collaborators with write
// access update their access right's path instead.
func (a *App) SaveBook(user database.User, p SaveBookParams) (database.Book, error) {
	tx := a.DB.Begin()

	book, err := a.saveBookTx(tx, user, p)
	if err != nil {
		tx.Rollback()
		return database.Book{}, err
	}

	if err := tx.Commit().Error; err != nil {
		return database.Book{}, errors.Wrap(err, "committing transaction")
	}

	return book, nil
}

func (a *App) saveBookTx(tx *gorm.DB, user database.User, p SaveBookParams) (database.Book, error) {
	var book database.Book
	var snapshot bookSnapshot
	isNew := p.UUID == ""

	if isNew {
		uuid, err := helpers.GenUUID()
		if err != nil {
			return book, err
		}

		now := a.Clock.Now().Unix()
		book = database.Book{
			UUID:      uuid,
			OwnerID:   user.ID,
			Path:      p.Path,
			AddedOn:   now,
			UpdatedOn: now,
		}
	} else {
		found := false
		var err error
		book, found, err = a.getBookByUUID(tx, p.UUID)
		if err != nil {
			return book, err
		}
		if !found {
			return book, ErrBookNotFound
		}

		snapshot = snapshotBook(book)

		if permissions.OwnsBook(&user, book) {
			book.Path = p.Path
		} else {
			var right database.BookAccessRight
			conn := tx.Where("book_id = ? AND holder_type = ? AND holder_id = ?", book.ID, database.HolderTypeUser, user.ID).
				First(&right)
			if conn.Error != nil && conn.Error != gorm.ErrRecordNotFound {
				return book, errors.Wrap(conn.Error, "finding access right")
			}
			if conn.Error == gorm.ErrRecordNotFound || !permissions.WriteBook(&user, book, &right) {
				return book, ErrNotAuthorized
			}

			right.Path = p.Path
			if err := tx.Save(&right).Error; err != nil {
				return book, errors.Wrap(err, "updating access right path")
			}
		}
	}

	if err := a.applyCoverImage(tx, user, &book, p.CoverImageID); err != nil {
		return book, err
	}

	book.Title = p.Title
	book.Metadata = p.Metadata
	book.Settings = p.Settings

	if !isNew && snapshot.changed(book) {
		book.UpdatedOn = a.Clock.Now().Unix()
	}

	if err := tx.Save(&book).Error; err != nil {
		return book, errors.Wrap(err, "saving book")
	}

	if _, err := a.setChapters(tx, &book, p.Chapters, user); err != nil {
		return book, err
	}

	return book, nil
}

// applyCoverImage validates the requested cover against the user's image
// library. Keeping the current cover needs no access; pointing the book at a
// new image requires the user to have it in their library.
func (a *App) applyCoverImage(tx *gorm.DB, user database.User, book *database.Book, coverImageID *int) error {
	if coverImageID == nil {
		book.CoverImageID = nil
		return nil
	}
	if book.CoverImageID != nil && *book.CoverImageID == *coverImageID {
		return nil
	}

	var count int64
	err := tx.Model(&database.UserImage{}).
		Where("user_id = ? AND image_id = ?", user.ID, *coverImageID).
		Count(&count).Error
	if err != nil {
		return errors.Wrap(err, "counting user images")
	}
	if count == 0 {
		return ErrNotAuthorized
	}

	book.CoverImageID = coverImageID
	return nil
}

// CopyBook duplicates a book and its chapter rows for the requesting user.
// The chapters keep pointing at the same documents. A colliding target path
// gets an incrementing numeric suffix.
func (a *App) CopyBook(user database.User, bookUUID, path string) (database.Book, error) {
	source, found, err := a.getBookByUUID(a.DB, bookUUID)
	if err != nil {
		return database.Book{}, err
	}
	if !found {
		return database.Book{}, ErrBookNotFound
	}

	var right *database.BookAccessRight
	if !permissions.OwnsBook(&user, source) {
		var r database.BookAccessRight
		conn := a.DB.Where("book_id = ? AND holder_type = ? AND holder_id = ?", source.ID, database.HolderTypeUser, user.ID).
			First(&r)
		if conn.Error != nil && conn.Error != gorm.ErrRecordNotFound {
			return database.Book{}, errors.Wrap(conn.Error, "finding access right")
		}
		if conn.Error == nil {
			right = &r
		}
	}
	if !permissions.ViewBook(&user, source, right) {
		// hidden books and missing books look the same to outsiders
		return database.Book{}, ErrBookNotFound
	}

	tx := a.DB.Begin()

	if path != "" {
		path, err = a.dedupePath(tx, user, path)
		if err != nil {
			tx.Rollback()
			return database.Book{}, err
		}
	}

	uuid, err := helpers.GenUUID()
	if err != nil {
		tx.Rollback()
		return database.Book{}, err
	}

	now := a.Clock.Now().Unix()
	book := database.Book{
		UUID:         uuid,
		OwnerID:      user.ID,
		Title:        source.Title,
		Metadata:     source.Metadata,
		Settings:     source.Settings,
		CoverImageID: source.CoverImageID,
		Path:         path,
		AddedOn:      now,
		UpdatedOn:    now,
	}
	if err := tx.Create(&book).Error; err != nil {
		tx.Rollback()
		return database.Book{}, errors.Wrap(err, "inserting book")
	}

	var chapters []database.Chapter
	if err := tx.Where("book_id = ?", source.ID).Find(&chapters).Error; err != nil {
		tx.Rollback()
		return database.Book{}, errors.Wrap(err, "finding chapters")
	}
	for _, chapter := range chapters {
		copied := database.Chapter{
			BookID:     book.ID,
			DocumentID: chapter.DocumentID,
			Number:     chapter.Number,
			Part:       chapter.Part,
		}
		if err := tx.Create(&copied).Error; err != nil {
			tx.Rollback()
			return database.Book{}, errors.Wrap(err, "inserting chapter")
		}
	}

	if err := tx.Commit().Error; err != nil {
		return database.Book{}, errors.Wrap(err, "committing transaction")
	}

	return book, nil
}

// dedupePath appends " 1", " 2", ... to the path until it collides with
// neither a book the user owns nor one of their access right paths
func (a *App) dedupePath(tx *gorm.DB, user database.User, path string) (string, error) {
	basePath := path
	counter := 0

	for {
		var bookCount int64
		err := tx.Model(&database.Book{}).
			Where("owner_id = ? AND path = ?", user.ID, path).
			Count(&bookCount).Error
		if err != nil {
			return "", errors.Wrap(err, "counting books by path")
		}

		var rightCount int64
		err = tx.Model(&database.BookAccessRight{}).
			Where("holder_type = ? AND holder_id = ? AND path = ?", database.HolderTypeUser, user.ID, path).
			Count(&rightCount).Error
		if err != nil {
			return "", errors.Wrap(err, "counting access rights by path")
		}

		if bookCount == 0 && rightCount == 0 {
			return path, nil
		}

		counter++
		path = fmt.Sprintf("%s %d", basePath, counter)
	}
}

// DeleteBook removes a book the user owns together with its chapters and
// access rights. The cover image is deleted only when nothing else
// references it.
func (a *App) DeleteBook(user database.User, bookUUID string) error {
	var book database.Book
	conn := a.DB.Where("uuid = ? AND owner_id = ?", bookUUID, user.ID).First(&book)
	if conn.Error == gorm.ErrRecordNotFound {
		return ErrBookNotFound
	}
	if conn.Error != nil {
		return errors.Wrap(conn.Error, "finding book")
	}

	tx := a.DB.Begin()

	if err := tx.Where("book_id = ?", book.ID).Delete(&database.Chapter{}).Error; err != nil {
		tx.Rollback()
		return errors.Wrap(err, "deleting chapters")
	}
	if err := tx.Where("book_id = ?", book.ID).Delete(&database.BookAccessRight{}).Error; err != nil {
		tx.Rollback()
		return errors.Wrap(err, "deleting access rights")
	}
	if err := tx.Delete(&book).Error; err != nil {
		tx.Rollback()
		return errors.Wrap(err, "deleting book")
	}

	if book.CoverImageID != nil {
		deletable, err := isImageDeletable(tx, *book.CoverImageID)
		if err != nil {
			tx.Rollback()
			return err
		}
		if deletable {
			if err := tx.Where("id = ?", *book.CoverImageID).Delete(&database.Image{}).Error; err != nil {
				tx.Rollback()
				return errors.Wrap(err, "deleting cover image")
			}
		}
	}

	if err := tx.Commit().Error; err != nil {
		return errors.Wrap(err, "committing transaction")
	}

	return nil
}

// MoveBook changes where the book sits in the user's hierarchy. Owners move
// the book itself; collaborators move their own access right's path. The
// updated timestamp does not advance on a move.
func (a *App) MoveBook(user database.User, bookUUID, path string) (bool, error) {
	book, found, err := a.getBookByUUID(a.DB, bookUUID)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}

	if permissions.OwnsBook(&user, book) {
		err := a.DB.Model(&database.Book{}).Where("id = ?", book.ID).Update("path", path).Error
		if err != nil {
			return false, errors.Wrap(err, "updating book path")
		}

		return true, nil
	}

	var right database.BookAccessRight
	conn := a.DB.Where("book_id = ? AND holder_type = ? AND holder_id = ?", book.ID, database.HolderTypeUser, user.ID).
		First(&right)
	if conn.Error == gorm.ErrRecordNotFound {
		return false, nil
	}
	if conn.Error != nil {
		return false, errors.Wrap(conn.Error, "finding access right")
	}

	right.Path = path
	if err := a.DB.Save(&right).Error; err != nil {
		return false, errors.Wrap(err, "updating access right path")
	}

	return true, nil
}
