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

package valence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionConstants(t *testing.T) {
	// Verify version constants are not empty
	assert.NotEmpty(t, Version, "Version should not be empty")
	assert.NotZero(t, Build, "Build should not be zero")

	// Verify expected values
	assert.Equal(t, "1.0.1", Version)
	assert.Equal(t, 0x010001, Build)
}

func TestUserAgent(t *testing.T) {
	assert.Equal(t, "valence-go/1.0.1", UserAgent())
}

func TestGetVersionInfo(t *testing.T) {
	info := GetVersionInfo()

	// Verify all fields are populated
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, Build, info.Build)
	assert.Equal(t, UserAgent(), info.UserAgent)
}
