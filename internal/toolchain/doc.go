// Package toolchain resolves and runs the external LLVM executables the build
// pipeline depends on.
//
// A [Tool] names an executable and the LLVM major versions it must come from.
// A [Locator] turns a Tool into a [Ref] by evaluating an ordered list of
// strategies, stopping at the first one that matches:
//
//  1. [OverrideDir]: <dir>/<name>, where dir comes from LLVM_BIN_PATH or the
//     config file.
//  2. [VersionedNames]: <name>-17, <name>-18, <name>-19 on PATH.
//  3. [VerifiedName]: <name> on PATH, accepted only if "<name> --version"
//     reports a supported major version.
//
// A bare executable that reports an unsupported version is a resolution
// failure, not a fall-through. Tools are resolved on every pipeline run and
// never cached.
package toolchain
