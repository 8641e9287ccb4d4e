// Package internalcheck holds source-level policy tests for the kernel
// packages: no == on byte sequences (use crypto/subtle) and no %x verbs in
// format strings (secrets must not be hex-dumped into diagnostics).
//
// It is not intended for external use and the checks may change without
// notice. Use the public API provided by pkg/avcrypto and its subpackages
// instead.
package internalcheck
