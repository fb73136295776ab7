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

// Package controllers provides the HTTP handlers for the server
package controllers

import (
	"github.com/bindery/bindery/pkg/server/app"
)

// Controllers is a group of controllers
type Controllers struct {
	Users    *Users
	Books    *Books
	Shares   *Shares
	Invites  *Invites
	Contacts *Contacts
	Styles   *Styles
	Health   *Health
}

// New returns a new group of controllers
func New(app *app.App) *Controllers {
	c := Controllers{}

	c.Users = NewUsers(app)
	c.Books = NewBooks(app)
	c.Shares = NewShares(app)
	c.Invites = NewInvites(app)
	c.Contacts = NewContacts(app)
	c.Styles = NewStyles(app)
	c.Health = NewHealth(app)

	return &c
}
