package plugin

import "errors"

// ErrABI indicates the module does not satisfy the plugin ABI contract:
// an unrecognized import, a missing memory export, or a missing named
// export.
var ErrABI = errors.New("plugin: ABI violation")

// ErrTypeMismatch indicates the module's decoded return value was not the
// Output variant of Communication.
var ErrTypeMismatch = errors.New("plugin: module returned Inputs where Output was expected")

// ErrLoad indicates the module could not be read, compiled, or instantiated.
var ErrLoad = errors.New("plugin: load failure")

// ErrExec indicates a trap or panic during invocation of the module's
// exported function.
var ErrExec = errors.New("plugin: execution failure")

// ErrMemory indicates an out-of-range read, write, or growth against the
// module's linear memory.
var ErrMemory = errors.New("plugin: memory access failure")

// ErrCodec indicates a payload encode/decode failure at the plugin
// boundary.
var ErrCodec = errors.New("plugin: codec failure")
