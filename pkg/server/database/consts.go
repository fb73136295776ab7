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

package database

const (
	// HolderTypeUser identifies a rights holder that is a registered user
	HolderTypeUser = "user"
	// HolderTypeInvite identifies a rights holder that is a pending invite
	HolderTypeInvite = "invite"
)

const (
	// RightsRead allows a holder to read a book or document
	RightsRead = "read"
	// RightsWrite allows a holder to read and write a book or document
	RightsWrite = "write"
	// RightsDelete is a sentinel used in the access-right save protocol to
	// mark a row for removal. It is never stored.
	RightsDelete = "delete"
)
