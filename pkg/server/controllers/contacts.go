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
	"github.com/bindery/bindery/pkg/server/presenters"
)

// NewContacts creates a new Contacts controller
func NewContacts(app *app.App) *Contacts {
	return &Contacts{app: app}
}

// Contacts is a controller for the user's contact list
type Contacts struct {
	app *app.App
}

// Index handles GET /v3/contacts
func (c *Contacts) Index(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())

	contacts, err := c.app.GetUserContacts(*user)
	if err != nil {
		handleJSONError(w, err, "getting contacts")
		return
	}

	respondJSON(w, http.StatusOK, struct {
		Contacts []presenters.Holder `json:"contacts"`
	}{
		Contacts: presenters.PresentHolders(contacts),
	})
}

type contactPayload struct {
	UserID int `json:"user_id"`
}

// Create handles POST /v3/contacts
func (c *Contacts) Create(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())

	var payload contactPayload
	if err := parseRequestData(r, &payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := c.app.CreateContact(*user, payload.UserID); err != nil {
		handleJSONError(w, err, "creating contact")
		return
	}

	w.WriteHeader(http.StatusCreated)
}
