// Package backend drives llc and llvm-strip to turn versioned IR into a
// loadable eBPF object.
//
// Every compile uses the same fixed target profile (bpf, cpu v3, 8 KiB stack
// frames, zero-initialised data kept in .data) so that all objects produced
// by a given release load on the same runtime range. Callers cannot change
// these flags.
package backend
