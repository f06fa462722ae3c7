// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// ErrInvalidForceFlag is returned when the force query parameter of a resync
// request cannot be parsed as a boolean.
var ErrInvalidForceFlag = errors.New("invalid `force` query parameter")
