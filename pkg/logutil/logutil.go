// Package logutil is the ambient logging sink: a Discard logger for
// tests and defaults, plus GetLogger/SetOutput/SetOutputFile so an
// embedder can redirect every logger this package has handed out to a
// single destination at startup, without each caller threading an
// io.Writer through by hand.
package logutil

import (
	"io"
	"io/ioutil"
	"log"
	"os"
	"sync"
)

// Discard is a Logger that ignores all loggings.
var Discard = log.New(ioutil.Discard, "", 0)

var (
	mu      sync.Mutex
	output  io.Writer = os.Stderr
	loggers []*log.Logger
)

// GetLogger returns a Logger with the given prefix, writing to the
// current output (os.Stderr until SetOutput or SetOutputFile is
// called). Every Logger returned by GetLogger is retargeted together
// by a later SetOutput/SetOutputFile call.
func GetLogger(prefix string) *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	logger := log.New(output, prefix, log.LstdFlags)
	loggers = append(loggers, logger)
	return logger
}

// SetOutput redirects every Logger previously or subsequently returned
// by GetLogger to w.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	for _, logger := range loggers {
		logger.SetOutput(w)
	}
}

// SetOutputFile opens fname for appending, creating it if necessary,
// and calls SetOutput with the resulting file. The file is
// intentionally never closed; it lives for the rest of the process.
func SetOutputFile(fname string) error {
	f, err := os.OpenFile(fname, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	SetOutput(f)
	return nil
}
