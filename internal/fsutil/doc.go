// Package fsutil provides the filesystem primitives the sync engine is built
// on: existence checks, verbatim file and tree copies, atomic writes, and a
// staged tree swap. Every function works on an afero.Fs so the engine can
// run against the OS or an in-memory filesystem.
package fsutil
