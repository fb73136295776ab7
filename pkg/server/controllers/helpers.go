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
	"strings"

	"github.com/bindery/bindery/pkg/server/app"
	"github.com/bindery/bindery/pkg/server/log"
	"github.com/gorilla/schema"
	"github.com/pkg/errors"
)

var formDecoder = schema.NewDecoder()

func init() {
	formDecoder.IgnoreUnknownKeys(true)
}

// parseForm parses the request's form body into the given destination
func parseForm(r *http.Request, dst interface{}) error {
	if err := r.ParseForm(); err != nil {
		return errors.Wrap(err, "parsing form")
	}

	if err := formDecoder.Decode(dst, r.PostForm); err != nil {
		return errors.Wrap(err, "decoding form")
	}

	return nil
}

// parseRequestData parses a JSON request body into the given destination
func parseRequestData(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.Wrap(err, "decoding json body")
	}

	return nil
}

// parsePayload parses the request body as a form or as JSON depending on
// the content type
func parsePayload(r *http.Request, dst interface{}) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		return parseForm(r, dst)
	}

	return parseRequestData(r, dst)
}

// respondJSON writes the given payload as a JSON response
func respondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, errors.Wrap(err, "marshalling payload").Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(response)
}

// statusCodeForError maps an application error to a response status code
func statusCodeForError(err error) int {
	switch errors.Cause(err) {
	case app.ErrBookNotFound, app.ErrInviteNotFound:
		return http.StatusNotFound
	case app.ErrNotAuthorized:
		return http.StatusForbidden
	case app.ErrLoginInvalid:
		return http.StatusUnauthorized
	case app.ErrEmailRequired, app.ErrPasswordTooShort, app.ErrPasswordConfirmationMismatch, app.ErrDuplicateEmail:
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

// handleJSONError logs the error and responds with its status code
func handleJSONError(w http.ResponseWriter, err error, msg string) {
	statusCode := statusCodeForError(err)

	if statusCode == http.StatusInternalServerError {
		log.ErrorWrap(err, msg)
	} else {
		log.WithFields(log.Fields{
			"statusCode": statusCode,
		}).Info(errors.Wrap(err, msg).Error())
	}

	http.Error(w, err.Error(), statusCode)
}
