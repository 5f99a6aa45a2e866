package wal

import intwal "github.com/backbone81/record-log/internal/wal"

// IsInitialized reports if there is already a write-ahead log available at the given file path.
var IsInitialized = intwal.IsInitialized

// Init initializes a new write-ahead log at the given file path.
var Init = intwal.Init

// InitIfRequired initializes the write-ahead log if it is not yet initialized.
var InitIfRequired = intwal.InitIfRequired
