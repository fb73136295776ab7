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

package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/bindery/bindery/pkg/server/app"
	"github.com/bindery/bindery/pkg/server/context"
	"github.com/bindery/bindery/pkg/server/presenters"
	"github.com/gorilla/mux"
)

// NewBooks creates a new Books controller
func NewBooks(app *app.App) *Books {
	return &Books{app: app}
}

// Books is a book controller
type Books struct {
	app *app.App
}

// Index handles GET /v3/books
func (b *Books) Index(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())

	infos, err := b.app.GetUserBooks(*user)
	if err != nil {
		handleJSONError(w, err, "getting books")
		return
	}

	respondJSON(w, http.StatusOK, struct {
		Books []presenters.Book `json:"books"`
	}{
		Books: presenters.PresentBooks(infos),
	})
}

type chapterPayload struct {
	Document int    `json:"document"`
	Number   int    `json:"number"`
	Part     string `json:"part"`
}

type savePayload struct {
	UUID       string           `json:"uuid"`
	Title      string           `json:"title"`
	Path       string           `json:"path"`
	Metadata   json.RawMessage  `json:"metadata"`
	Settings   json.RawMessage  `json:"settings"`
	CoverImage *int             `json:"cover_image"`
	Chapters   []chapterPayload `json:"chapters"`
}

// Save handles POST /v3/books. A payload without a uuid creates a new book.
func (b *Books) Save(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())

	var payload savePayload
	if err := parseRequestData(r, &payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	chapters := []app.ChapterEntry{}
	for _, chapter := range payload.Chapters {
		chapters = append(chapters, app.ChapterEntry{
			DocumentID: chapter.Document,
			Number:     chapter.Number,
			Part:       chapter.Part,
		})
	}

	book, err := b.app.SaveBook(*user, app.SaveBookParams{
		UUID:         payload.UUID,
		Title:        payload.Title,
		Metadata:     string(payload.Metadata),
		Settings:     string(payload.Settings),
		Path:         payload.Path,
		CoverImageID: payload.CoverImage,
		Chapters:     chapters,
	})
	if err != nil {
		handleJSONError(w, err, "saving book")
		return
	}

	respondJSON(w, http.StatusCreated, struct {
		UUID    string `json:"uuid"`
		Added   int64  `json:"added"`
		Updated int64  `json:"updated"`
	}{
		UUID:    book.UUID,
		Added:   book.AddedOn,
		Updated: book.UpdatedOn,
	})
}

type copyPayload struct {
	Path string `json:"path"`
}

// Copy handles POST /v3/books/{bookUUID}/copy
func (b *Books) Copy(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	vars := mux.Vars(r)
	bookUUID := vars["bookUUID"]

	var payload copyPayload
	if err := parseRequestData(r, &payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	book, err := b.app.CopyBook(*user, bookUUID, payload.Path)
	if err != nil {
		handleJSONError(w, err, "copying book")
		return
	}

	respondJSON(w, http.StatusCreated, struct {
		UUID string `json:"uuid"`
		Path string `json:"path"`
	}{
		UUID: book.UUID,
		Path: book.Path,
	})
}

type movePayload struct {
	Path string `json:"path"`
}

// Move handles PATCH /v3/books/{bookUUID}/move
func (b *Books) Move(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	vars := mux.Vars(r)
	bookUUID := vars["bookUUID"]

	var payload movePayload
	if err := parseRequestData(r, &payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	done, err := b.app.MoveBook(*user, bookUUID, payload.Path)
	if err != nil {
		handleJSONError(w, err, "moving book")
		return
	}

	respondJSON(w, http.StatusOK, struct {
		Done bool `json:"done"`
	}{
		Done: done,
	})
}

// Delete handles DELETE /v3/books/{bookUUID}
func (b *Books) Delete(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	vars := mux.Vars(r)
	bookUUID := vars["bookUUID"]

	if err := b.app.DeleteBook(*user, bookUUID); err != nil {
		handleJSONError(w, err, "deleting book")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
