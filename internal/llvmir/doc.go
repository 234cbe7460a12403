// Package llvmir edits textual LLVM IR emitted by the WebAssembly translator
// before it is handed to llc.
//
// Two edits are made, both on the versioned copy of the IR, never on the raw
// translator output:
//
//   - [InjectVersion] appends the version record, two i64 globals in the
//     "_version" section that the runtime reads to decide whether it can load
//     the object.
//   - [PatchFile] applies the [Compatibility] table, which repairs section
//     names the translator corrupts on macOS hosts.
//
// Neither edit parses the IR. The substitution table is data so it can be
// emptied once the translator is fixed.
package llvmir
