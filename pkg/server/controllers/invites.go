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
	"github.com/gorilla/mux"
)

// NewInvites creates a new Invites controller
func NewInvites(app *app.App) *Invites {
	return &Invites{app: app}
}

// Invites is a controller for pending invites
type Invites struct {
	app *app.App
}

// Index handles GET /v3/invites
func (i *Invites) Index(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())

	invites, err := i.app.GetUserInvites(*user)
	if err != nil {
		handleJSONError(w, err, "getting invites")
		return
	}

	respondJSON(w, http.StatusOK, struct {
		Invites []presenters.Invite `json:"invites"`
	}{
		Invites: presenters.PresentInvites(invites),
	})
}

type invitePayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Create handles POST /v3/invites
func (i *Invites) Create(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())

	var payload invitePayload
	if err := parseRequestData(r, &payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	invite, err := i.app.CreateInvite(*user, payload.Username, payload.Email)
	if err != nil {
		handleJSONError(w, err, "creating invite")
		return
	}

	respondJSON(w, http.StatusCreated, presenters.PresentInvite(invite))
}

// Apply handles POST /v3/invites/{inviteUUID}/apply. It binds the invite to
// the authenticated user and merges its access rights.
func (i *Invites) Apply(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	vars := mux.Vars(r)
	inviteUUID := vars["inviteUUID"]

	if err := i.app.ApplyInvite(*user, inviteUUID); err != nil {
		handleJSONError(w, err, "applying invite")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /v3/invites/{inviteUUID}
func (i *Invites) Delete(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	vars := mux.Vars(r)
	inviteUUID := vars["inviteUUID"]

	if err := i.app.DeleteInvite(*user, inviteUUID); err != nil {
		handleJSONError(w, err, "deleting invite")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
