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
	"github.com/bindery/bindery/pkg/server/presenters"
	"github.com/bindery/bindery/pkg/server/styles"
)

// NewStyles creates a new Styles controller
func NewStyles(app *app.App) *Styles {
	return &Styles{app: app}
}

// Styles is a controller for book styles
type Styles struct {
	app *app.App
}

// Index handles GET /v3/styles
func (s *Styles) Index(w http.ResponseWriter, r *http.Request) {
	var items []styles.Style
	if s.app.Styles != nil {
		items = s.app.Styles.List()
	}

	respondJSON(w, http.StatusOK, struct {
		Styles []presenters.Style `json:"styles"`
	}{
		Styles: presenters.PresentStyles(items),
	})
}
