// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package handler

import "errors"

// errNoHandlersAreCreated is returned by NewHandlers when the config names
// neither an HTTP nor a gRPC address. The document store would then have no
// way to be reached, so startup fails.
var errNoHandlersAreCreated = errors.New("no handlers are created: set an HTTP or gRPC address")
