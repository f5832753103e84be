// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the interactive client application runtime.
//
// It wires the terminal status monitor, the client services and the
// background sync job into a single process lifecycle.
package client
