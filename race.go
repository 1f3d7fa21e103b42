// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package shmq

// RaceEnabled is true when the race detector is active.
// Used by tests to skip concurrent stress tests: the slot protocol
// synchronizes the non-atomic data field through acquire/release on the
// sequence counter, a happens-before edge the race detector cannot track
// across distinct variables.
const RaceEnabled = true
