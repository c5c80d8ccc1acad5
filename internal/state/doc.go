// Package state persists a versioned task document to a single flat file
// with crash consistency and optimistic concurrency control.
//
// On-disk layout for a document at path P:
//
//   - P: the current durable document (YAML)
//   - P.tmp: transient working file during a write; never survives a
//     returned write, success or failure
//   - P.lock: advisory write-lock artifact; may exist between writes and is
//     only a contention signal, never an error signal
//
// # Invariants
//
// Rev bumps by exactly one on every successful write and never repeats
// across two different persisted contents. A missing file reads as the
// default document (rev 0, empty payload) without creating anything. Readers
// observe either the prior or the new content in full, never a mix: writes
// go to P.tmp, are fsynced, and land via atomic rename. A writer's expected
// rev is re-checked under the held exclusive lock, so no two writers can
// commit against the same rev.
//
// Coordination is entirely filesystem-lock based, never in-process mutexes,
// so correctness holds across process boundaries as well as within one
// process. A writer that finds the lock held fails immediately with
// ErrLocked rather than blocking; bounded waiting is layered on top by
// CompareAndSwap.
package state
