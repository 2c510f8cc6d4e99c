// Package maintenance runs the periodic retention sweeps: old runs,
// expired state rows, and completed queue items past their per-queue
// retention. All three run once immediately on Start and then on a
// fixed interval.
package maintenance
