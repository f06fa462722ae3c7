// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package handler

import "errors"

// ErrNoHandlersAreCreated is returned by NewHandlers when the health endpoint
// has no listen address. The agent then runs without a diagnostics endpoint.
var ErrNoHandlersAreCreated = errors.New("no handlers are created")
