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

// Package valence provides version information for valence-go.
package valence

const (
	// Version is the current version of valence-go
	Version = "1.0.1"

	// Build is the build number, major/minor/patch packed one byte each
	Build = 0x010001
)

// UserAgent returns the User-Agent product token sent with signed
// requests, e.g. "valence-go/1.0.1".
func UserAgent() string {
	return "valence-go/" + Version
}

// VersionInfo contains detailed version information
type VersionInfo struct {
	Version   string
	Build     int
	UserAgent string
}

// GetVersionInfo returns detailed version information
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:   Version,
		Build:     Build,
		UserAgent: UserAgent(),
	}
}
