// Package pipeline turns WebAssembly modules into loadable eBPF objects.
//
// Each module passes through the stages translate, copy, version, patch,
// compile and, when enabled, strip. A failing stage stops that module; the
// artifacts of completed stages stay on disk for inspection. Modules are
// processed sequentially and independently unless FailFast is set.
package pipeline
