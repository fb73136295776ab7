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

package app

import (
	"github.com/bindery/bindery/pkg/clock"
	"github.com/bindery/bindery/pkg/server/avatars"
	"github.com/bindery/bindery/pkg/server/testutils"
	"gorm.io/gorm"
)

// NewTest returns an app for a testing environment
func NewTest(db *gorm.DB) App {
	return App{
		DB:             db,
		Clock:          clock.NewMock(),
		EmailBackend:   &testutils.MockEmailbackendImplementation{},
		AvatarProvider: &avatars.None{},
		AppEnv:         "TEST",
		WebURL:         "http://127.0.0.1",
		Port:           "3000",
		DBPath:         ":memory:",
	}
}
