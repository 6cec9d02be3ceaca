// Package codec implements the pure, deterministic value encoders and
// decoders that map SQL scalar values onto the backing store's two
// annotation representations (numeric u64, string) while preserving total
// order under the store's native comparators (spec §4.1).
//
// Every encoder in this package is a pure function: no I/O, no globals, no
// randomness. Round-trip and monotonicity are the properties tests here
// verify (spec §8.1).
package codec
