// Package cargo drives the upstream Rust toolchain: it validates pass-through
// flags, runs "cargo build" for the wasm32 target, and collects the
// WebAssembly modules cargo reports through its JSON message stream.
package cargo
