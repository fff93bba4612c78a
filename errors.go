// Copyright 2025 Patrick J. Scruggs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package slogline

import (
	"errors"
	"fmt"
)

// Fixed reasons reported by [BadPathError].
const (
	ReasonNotAbsolute = "must be absolute"
	ReasonNotSource   = "must be a source file"
	ReasonInvalidUTF8 = "must be valid text"
)

// ErrBadPath matches every [BadPathError] via errors.Is.
var ErrBadPath = errors.New("slogline: invalid path")

// BadPathError reports a file path that cannot be used as an allow-list
// entry. The caller must supply a corrected path; retrying is pointless.
type BadPathError struct {
	Path   string
	Reason string
}

// Error implements error.
func (e *BadPathError) Error() string {
	return fmt.Sprintf("slogline: invalid path %q: %s", e.Path, e.Reason)
}

// Is reports whether target is [ErrBadPath].
func (e *BadPathError) Is(target error) bool {
	return target == ErrBadPath
}
