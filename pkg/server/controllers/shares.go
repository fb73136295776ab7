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
	"net/http"

	"github.com/bindery/bindery/pkg/server/app"
	"github.com/bindery/bindery/pkg/server/context"
	"github.com/bindery/bindery/pkg/server/database"
	"github.com/bindery/bindery/pkg/server/presenters"
)

// NewShares creates a new Shares controller
func NewShares(app *app.App) *Shares {
	return &Shares{app: app}
}

// Shares is a controller for book access rights
type Shares struct {
	app *app.App
}

// Index handles GET /v3/books/access_rights. Repeated "book" query
// parameters restrict the listing to those books.
func (s *Shares) Index(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())

	bookIDs, err := s.app.ResolveBookIDs(r.URL.Query()["book"])
	if err != nil {
		handleJSONError(w, err, "resolving books")
		return
	}

	infos, err := s.app.GetBookAccessRights(*user, bookIDs)
	if err != nil {
		handleJSONError(w, err, "getting access rights")
		return
	}

	respondJSON(w, http.StatusOK, struct {
		AccessRights []presenters.AccessRight `json:"access_rights"`
	}{
		AccessRights: presenters.PresentAccessRights(infos),
	})
}

func validRights(rights string) bool {
	switch rights {
	case database.RightsRead, database.RightsWrite, database.RightsDelete:
		return true
	}

	return false
}

type holderPayload struct {
	ID   int    `json:"id"`
	Type string `json:"type"`
}

type accessRightPayload struct {
	Holder holderPayload `json:"holder"`
	Rights string        `json:"rights"`
}

type saveRightsPayload struct {
	Books        []string             `json:"books"`
	AccessRights []accessRightPayload `json:"access_rights"`
}

// Save handles POST /v3/books/access_rights. It applies the batch of
// entries to every listed book the user owns.
func (s *Shares) Save(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())

	var payload saveRightsPayload
	if err := parseRequestData(r, &payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	bookIDs, err := s.app.ResolveBookIDs(payload.Books)
	if err != nil {
		handleJSONError(w, err, "resolving books")
		return
	}

	entries := []app.AccessRightEntry{}
	for _, entry := range payload.AccessRights {
		if !validRights(entry.Rights) {
			http.Error(w, "invalid rights", http.StatusBadRequest)
			return
		}

		entries = append(entries, app.AccessRightEntry{
			HolderType: entry.Holder.Type,
			HolderID:   entry.Holder.ID,
			Rights:     entry.Rights,
		})
	}

	if err := s.app.SaveBookAccessRights(*user, bookIDs, entries); err != nil {
		handleJSONError(w, err, "saving access rights")
		return
	}

	respondJSON(w, http.StatusCreated, struct{}{})
}
