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
	mw "github.com/bindery/bindery/pkg/server/middleware"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

// Route represents a single route
type Route struct {
	Method    string
	Pattern   string
	Handler   http.HandlerFunc
	RateLimit bool
}

// RouteConfig is the configuration for routes
type RouteConfig struct {
	Controllers *Controllers
	APIRoutes   []Route
}

// NewAPIRoutes returns a new api routes
func NewAPIRoutes(a *app.App, c *Controllers) []Route {
	ret := []Route{
		// v3
		{"POST", "/v3/signin", c.Users.Login, true},
		{"POST", "/v3/signout", c.Users.Logout, true},

		// access rights come before the book routes so that mux does not
		// swallow "access_rights" as a bookUUID variable
		{"GET", "/v3/books/access_rights", mw.Auth(a.DB, c.Shares.Index), true},
		{"POST", "/v3/books/access_rights", mw.Auth(a.DB, c.Shares.Save), true},

		{"GET", "/v3/books", mw.Auth(a.DB, c.Books.Index), true},
		{"POST", "/v3/books", mw.Auth(a.DB, c.Books.Save), true},
		{"POST", "/v3/books/{bookUUID}/copy", mw.Auth(a.DB, c.Books.Copy), true},
		{"PATCH", "/v3/books/{bookUUID}/move", mw.Auth(a.DB, c.Books.Move), true},
		{"DELETE", "/v3/books/{bookUUID}", mw.Auth(a.DB, c.Books.Delete), true},

		{"GET", "/v3/invites", mw.Auth(a.DB, c.Invites.Index), true},
		{"POST", "/v3/invites", mw.Auth(a.DB, c.Invites.Create), true},
		{"POST", "/v3/invites/{inviteUUID}/apply", mw.Auth(a.DB, c.Invites.Apply), true},
		{"DELETE", "/v3/invites/{inviteUUID}", mw.Auth(a.DB, c.Invites.Delete), true},

		{"GET", "/v3/contacts", mw.Auth(a.DB, c.Contacts.Index), true},
		{"POST", "/v3/contacts", mw.Auth(a.DB, c.Contacts.Create), true},

		{"GET", "/v3/styles", mw.Auth(a.DB, c.Styles.Index), true},
	}

	if !a.DisableRegistration {
		ret = append(ret, Route{"POST", "/v3/join", c.Users.Register, true})
	}

	return ret
}

func registerRoutes(router *mux.Router, routes []Route) {
	for _, route := range routes {
		router.
			Handle(route.Pattern, mw.ApplyLimit(route.Handler, route.RateLimit)).
			Methods(route.Method)
	}
}

// NewRouter creates and returns a new router
func NewRouter(app *app.App, rc RouteConfig) (http.Handler, error) {
	if err := app.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating the app parameters")
	}

	router := mux.NewRouter().StrictSlash(true)

	apiRouter := router.PathPrefix("/api").Subrouter()
	registerRoutes(apiRouter, rc.APIRoutes)

	router.
		Handle("/health", mw.ApplyLimit(rc.Controllers.Health.Index, true)).
		Methods("GET")

	router.PathPrefix("/api/v1").Handler(mw.ApplyLimit(mw.NotSupported, true))
	router.PathPrefix("/api/v2").Handler(mw.ApplyLimit(mw.NotSupported, true))

	return mw.Global(router), nil
}
