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

// Package avatars resolves display avatars for users through an external
// avatar provider
package avatars

import (
	"crypto/md5"
	"fmt"
	"strings"

	"github.com/bindery/bindery/pkg/server/database"
)

// Provider resolves the avatar URL for a user. It returns nil when no
// avatar is available.
type Provider interface {
	URL(user database.User) *string
}

// Gravatar is a Provider backed by the Gravatar service
type Gravatar struct {
	// Size is the requested avatar size in pixels
	Size int
}

// URL implements Provider
func (g *Gravatar) URL(user database.User) *string {
	if !user.Email.Valid || user.Email.String == "" {
		return nil
	}

	size := g.Size
	if size == 0 {
		size = 80
	}

	normalized := strings.ToLower(strings.TrimSpace(user.Email.String))
	hash := md5.Sum([]byte(normalized))
	url := fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=%d&d=identicon", hash, size)

	return &url
}

// None is a Provider that never resolves an avatar
type None struct{}

// URL implements Provider
func (n *None) URL(user database.User) *string {
	return nil
}
