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

// Package middleware provides the middleware for the server
package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/bindery/bindery/pkg/server/log"
	"github.com/pkg/errors"
)

// sessionCookieName is the name of the cookie holding the session key
const sessionCookieName = "id"

func getSessionKeyFromCookie(r *http.Request) (string, error) {
	c, err := r.Cookie(sessionCookieName)

	if err == http.ErrNoCookie {
		return "", nil
	} else if err != nil {
		return "", errors.Wrap(err, "reading cookie")
	}

	return c.Value, nil
}

func getSessionKeyFromAuth(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", nil
	}

	parts := strings.Fields(h)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", errors.New("invalid authorization header")
	}

	return parts[1], nil
}

// GetCredential extracts the session key from the request. The Authorization
// header takes precedence over the cookie.
func GetCredential(r *http.Request) (string, error) {
	ret, err := getSessionKeyFromAuth(r)
	if err != nil {
		return "", errors.Wrap(err, "getting session key from the authorization header")
	}
	if ret != "" {
		return ret, nil
	}

	ret, err = getSessionKeyFromCookie(r)
	if err != nil {
		return "", errors.Wrap(err, "getting session key from the cookie")
	}

	return ret, nil
}

// DoError logs the error and responds with the given status code
func DoError(w http.ResponseWriter, msg string, err error, statusCode int) {
	var message string
	if err == nil {
		message = msg
	} else {
		message = errors.Wrap(err, msg).Error()
	}

	log.WithFields(log.Fields{
		"statusCode": statusCode,
	}).Error(message)

	http.Error(w, http.StatusText(statusCode), statusCode)
}

// RespondUnauthorized responds with a 401
func RespondUnauthorized(w http.ResponseWriter) {
	w.Header().Add("WWW-Authenticate", `Bearer realm="bindery"`)
	http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
}

// Logging logs the request method, path, and duration
func Logging(next http.Handler) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)

		log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start).String(),
		}).Debug("request")
	})
}

// Global is the middleware chain applied to every route
func Global(next http.Handler) http.HandlerFunc {
	return Logging(next)
}

// NotSupported is the handler for routes that are no longer supported
func NotSupported(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "API version is not supported. Please upgrade your client.", http.StatusGone)
}
