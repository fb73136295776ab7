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

package middleware

import (
	"net/http"
	"testing"

	"github.com/bindery/bindery/pkg/assert"
	"github.com/pkg/errors"
)

func mustMakeRequest(t *testing.T) *http.Request {
	r, err := http.NewRequest("GET", "/", nil)
	if err != nil {
		t.Fatal(errors.Wrap(err, "constructing request"))
	}

	return r
}

func TestGetSessionKeyFromCookie(t *testing.T) {
	testCases := []struct {
		cookie   *http.Cookie
		expected string
	}{
		{
			cookie: &http.Cookie{
				Name:     "id",
				Value:    "foo",
				HttpOnly: true,
			},
			expected: "foo",
		},
		{
			cookie:   nil,
			expected: "",
		},
		{
			cookie: &http.Cookie{
				Name:     "foo",
				Value:    "bar",
				HttpOnly: true,
			},
			expected: "",
		},
	}

	for _, tc := range testCases {
		r := mustMakeRequest(t)
		if tc.cookie != nil {
			r.AddCookie(tc.cookie)
		}

		got, err := getSessionKeyFromCookie(r)
		if err != nil {
			t.Fatal(errors.Wrap(err, "executing"))
		}

		assert.Equal(t, got, tc.expected, "result mismatch")
	}
}

func TestGetSessionKeyFromAuth(t *testing.T) {
	r := mustMakeRequest(t)
	r.Header.Set("Authorization", "Bearer foo")

	got, err := getSessionKeyFromAuth(r)
	if err != nil {
		t.Fatal(errors.Wrap(err, "executing"))
	}

	assert.Equal(t, got, "foo", "result mismatch")
}

func TestGetCredential(t *testing.T) {
	r1 := mustMakeRequest(t)

	r2 := mustMakeRequest(t)
	r2.Header.Set("Authorization", "Bearer foo")

	r3 := mustMakeRequest(t)
	r3.AddCookie(&http.Cookie{
		Name:     "id",
		Value:    "bar",
		HttpOnly: true,
	})

	// the authorization header wins over the cookie
	r4 := mustMakeRequest(t)
	r4.AddCookie(&http.Cookie{
		Name:     "id",
		Value:    "bar",
		HttpOnly: true,
	})
	r4.Header.Set("Authorization", "Bearer foo")

	testCases := []struct {
		request  *http.Request
		expected string
	}{
		{
			request:  r1,
			expected: "",
		},
		{
			request:  r2,
			expected: "foo",
		},
		{
			request:  r3,
			expected: "bar",
		},
		{
			request:  r4,
			expected: "foo",
		},
	}

	for _, tc := range testCases {
		got, err := GetCredential(tc.request)
		if err != nil {
			t.Fatal(errors.Wrap(err, "executing"))
		}

		assert.Equal(t, got, tc.expected, "result mismatch")
	}
}
