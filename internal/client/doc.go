// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the notes command line client.
//
// One-shot commands (list, get, put, delete, sync) work on the local cache
// and finish with an explicit sync, so they keep working offline and report
// the sync failure as a warning. The watch command runs the realtime
// controller, the network monitor and the periodic sync job until
// interrupted and prints every change the cache sees.
package client
