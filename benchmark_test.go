// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package shmq_test

import (
	"testing"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/shmq"
)

// =============================================================================
// Single-Threaded Baselines
// =============================================================================

func BenchmarkSingleOp(b *testing.B) {
	mem := testRegion(shmq.RequiredSize[int](1024))
	q, err := shmq.AttachCapacity[int](mem, 1024)
	if err != nil {
		b.Fatalf("AttachCapacity: %v", err)
	}

	b.ResetTimer()
	for i := range b.N {
		v := i
		q.Enqueue(&v, false)
		q.Dequeue()
	}
}

func BenchmarkSingleOpEviction(b *testing.B) {
	// Keep the queue permanently full so every enqueue takes the
	// overwrite path.
	mem := testRegion(shmq.RequiredSize[int](16))
	q, err := shmq.AttachCapacity[int](mem, 16)
	if err != nil {
		b.Fatalf("AttachCapacity: %v", err)
	}
	for i := range 16 {
		q.Enqueue(&i, false)
	}

	b.ResetTimer()
	for i := range b.N {
		v := i
		q.Enqueue(&v, false)
	}
}

// =============================================================================
// Contended Operation
// =============================================================================

func BenchmarkParallel(b *testing.B) {
	if shmq.RaceEnabled {
		b.Skip("skip: slot protocol synchronizes through seq, invisible to the race detector")
	}

	mem := testRegion(shmq.RequiredSize[int](4096))
	q, err := shmq.AttachCapacity[int](mem, 4096)
	if err != nil {
		b.Fatalf("AttachCapacity: %v", err)
	}

	b.RunParallel(func(pb *testing.PB) {
		backoff := iox.Backoff{}
		i := 0
		for pb.Next() {
			i++
			if i&1 == 0 {
				v := i
				if q.Enqueue(&v, false) != nil {
					backoff.Wait()
				} else {
					backoff.Reset()
				}
			} else {
				if _, _, err := q.Dequeue(); err != nil {
					backoff.Wait()
				} else {
					backoff.Reset()
				}
			}
		}
	})
}
