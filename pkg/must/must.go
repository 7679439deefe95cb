// Package must contains terse fixture helpers for tests: thin wrappers
// over functions that return an error which, in a test's fixture setup,
// is provably impossible (os.Pipe failing, a just-created temp-dir path
// not accepting a write). It should not be used outside test code.
package must

import "os"

// OK panics if err is not nil.
func OK(err error) {
	if err != nil {
		panic(err)
	}
}

// OK1 panics if err is not nil, otherwise returns v.
func OK1[T any](v T, err error) T {
	OK(err)
	return v
}

// OK2 panics if err is not nil, otherwise returns v1 and v2.
func OK2[T1, T2 any](v1 T1, v2 T2, err error) (T1, T2) {
	OK(err)
	return v1, v2
}

// Pipe wraps os.Pipe.
func Pipe() (*os.File, *os.File) {
	return OK2(os.Pipe())
}

// CreateEmpty creates an empty file at each given path.
func CreateEmpty(paths ...string) {
	for _, path := range paths {
		OK(os.WriteFile(path, nil, 0o644))
	}
}
