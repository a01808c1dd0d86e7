// Copyright (C) 2026 Valence Project
//
// This file is part of valence-go.
//
// valence-go is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// valence-go is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with valence-go.  If not, see <https://www.gnu.org/licenses/>.

package session

import (
	"context"
	"errors"

	"github.com/valence-project/valence-go/pkg/auth"
)

// ErrNotFound is returned when no session is saved under the given name.
var ErrNotFound = errors.New("session not found")

// Store persists user context properties between runs so users do not
// have to repeat the interactive login. Application credentials are never
// stored; restoring a session requires supplying them again.
type Store interface {
	// Save persists props under name, replacing any existing session
	// with the same name.
	Save(ctx context.Context, name string, props auth.ContextProperties) error

	// Load returns the properties saved under name.
	// Returns ErrNotFound when no such session exists.
	Load(ctx context.Context, name string) (auth.ContextProperties, error)

	// Delete removes the session saved under name.
	// Returns ErrNotFound when no such session exists.
	Delete(ctx context.Context, name string) error

	// List returns the names of all saved sessions in lexical order.
	List(ctx context.Context) ([]string, error)
}
