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

package auth

import (
	"bytes"
	"regexp"
	"strconv"
	"time"
)

// AuthResult classifies a back-end response to a signed request.
type AuthResult int

const (
	// ResultUnknown covers every status code the mapping does not name.
	ResultUnknown AuthResult = iota

	// ResultOkay means the request was accepted.
	ResultOkay

	// ResultInvalidSignature means the back-end rejected the request
	// signatures.
	ResultInvalidSignature

	// ResultInvalidTimestamp is reserved. The status-code mapping never
	// produces it; timestamp rejections arrive as 403s whose body names
	// the server clock (see ServerSkewFromResponse).
	ResultInvalidTimestamp

	// ResultNoPermission means the calling identity is not allowed to
	// perform the request.
	ResultNoPermission
)

func (r AuthResult) String() string {
	switch r {
	case ResultOkay:
		return "okay"
	case ResultInvalidSignature:
		return "invalid signature"
	case ResultInvalidTimestamp:
		return "invalid timestamp"
	case ResultNoPermission:
		return "no permission"
	default:
		return "unknown"
	}
}

// timestampNotice is the phrase the back-end puts in a 403 body when the
// request timestamp fell outside its acceptance window. The first run of
// digits after the phrase is the server's clock in Unix seconds.
const timestampNotice = "Timestamp out of range"

var serverClockPattern = regexp.MustCompile(`[0-9]+`)

// ServerSkewFromResponse inspects the body of a rejected request for the
// back-end's timestamp notice. When present, it returns the skew in
// milliseconds between the server clock reported there and localTime,
// suitable for AdjustSkew. ok is false when the body carries no notice.
func ServerSkewFromResponse(body []byte, localTime time.Time) (skewMillis int64, ok bool) {
	i := bytes.Index(body, []byte(timestampNotice))
	if i < 0 {
		return 0, false
	}
	digits := serverClockPattern.Find(body[i+len(timestampNotice):])
	if digits == nil {
		return 0, false
	}
	serverSeconds, err := strconv.ParseInt(string(digits), 10, 64)
	if err != nil {
		return 0, false
	}
	return serverSeconds*1000 - localTime.UnixMilli(), true
}
