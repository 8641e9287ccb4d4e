// Package logging provides a minimal logging facade for code built around
// the avila-crypto kernel.
//
// The kernel itself never logs: it has no I/O and never sees key material
// longer than a single call. This package exists for the layers above it
// (tools, examples, services embedding the kernel) so they share one small
// Logger interface over log/slog instead of each inventing their own.
//
// # Default Implementation
//
//	// Use default logger (slog.Default())
//	logger := logging.New(nil)
//
//	// Use custom slog.Logger
//	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})
//	customLogger := logging.New(slog.New(handler))
//
// # Redaction Support
//
// Never log private keys, nonces, or symmetric key bytes. Use Redacted to
// keep the attribute name in the record while dropping the value:
//
//	logger.Info(ctx, "key loaded", logging.Redacted("key_bytes"))
//	// Logs: key_bytes="[redacted]"
//
// Digests and signatures are public values and may be logged, but consider
// whether they correlate sessions before doing so.
package logging
