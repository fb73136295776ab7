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
	"github.com/bindery/bindery/pkg/server/middleware"
	"github.com/bindery/bindery/pkg/server/presenters"
	"github.com/pkg/errors"
)

// NewUsers creates a new Users controller
func NewUsers(app *app.App) *Users {
	return &Users{app: app}
}

// Users is a user controller
type Users struct {
	app *app.App
}

// RegistrationForm is the payload for registering
type RegistrationForm struct {
	Name                 string `json:"name" schema:"name"`
	Email                string `json:"email" schema:"email"`
	Password             string `json:"password" schema:"password"`
	PasswordConfirmation string `json:"password_confirmation" schema:"password_confirmation"`
}

// Register handles POST /v3/join
func (u *Users) Register(w http.ResponseWriter, r *http.Request) {
	var form RegistrationForm
	if err := parsePayload(r, &form); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := u.app.CreateUser(form.Name, form.Email, form.Password, form.PasswordConfirmation)
	if err != nil {
		handleJSONError(w, err, "creating user")
		return
	}

	session, err := u.app.SignIn(&user)
	if err != nil {
		handleJSONError(w, err, "signing in")
		return
	}

	respondJSON(w, http.StatusCreated, presenters.PresentSession(*session))
}

// SigninForm is the payload for signing in
type SigninForm struct {
	Email    string `json:"email" schema:"email"`
	Password string `json:"password" schema:"password"`
}

// Login handles POST /v3/signin
func (u *Users) Login(w http.ResponseWriter, r *http.Request) {
	var form SigninForm
	if err := parsePayload(r, &form); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := u.app.Authenticate(form.Email, form.Password)
	if err != nil {
		handleJSONError(w, err, "authenticating")
		return
	}

	session, err := u.app.SignIn(user)
	if err != nil {
		handleJSONError(w, err, "signing in")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentSession(*session))
}

// Logout handles POST /v3/signout
func (u *Users) Logout(w http.ResponseWriter, r *http.Request) {
	key, err := middleware.GetCredential(r)
	if err != nil {
		handleJSONError(w, errors.Wrap(err, "getting credential"), "signing out")
		return
	}

	if key != "" {
		if err := u.app.DeleteSession(key); err != nil {
			handleJSONError(w, err, "deleting session")
			return
		}
	}

	w.WriteHeader(http.StatusNoContent)
}
