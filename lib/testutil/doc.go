// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers.
//
// [RequireReceive] and [RequireClosed] encapsulate the timeout safety
// valve pattern (select with a time.After fallback) so individual
// tests do not need direct time.After calls. These helpers are where
// tests are allowed real wall-clock timeouts; everything else that
// waits on time should go through a fake clock.
//
// [SocketDir] creates a short-pathed temporary directory for Unix
// domain sockets. It exists because socket paths are limited to 108
// bytes (sun_path in sockaddr_un) and test tempdir roots are often
// nested deeply enough to exceed that, making t.TempDir() unsuitable
// for socket files.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil
