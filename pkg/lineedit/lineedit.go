// Package lineedit wires the chord binder, word tokenizer and match
// pipeline into the synchronous line-editor driver: the main loop that
// reads one byte at a time from a Terminal, resolves it against the
// binder trie, dispatches to the resolved Backend, and keeps the match
// store and Buffer display in sync with the result.
package lineedit

import (
	"log"

	"github.com/pks-os/clink/pkg/bind"
	"github.com/pks-os/clink/pkg/match"
)

// Terminal is the blocking byte source and display sink the driver reads
// from and writes to. Select blocks until a byte is available for Read;
// the driver always calls Select before Read so an implementation backed
// by a stop-pipe (see pkg/termio) can interrupt a pending read cleanly.
type Terminal interface {
	Begin() error
	End() error
	Select() error
	Read() (b byte, eof bool, err error)
	Write(p []byte) (int, error)
}

// Buffer is the mutable line being edited.
type Buffer interface {
	BeginLine(prompt []byte)
	EndLine()
	Bytes() []byte
	Cursor() int
	Insert(s []byte)
	Remove(start, end int)
	SetCursor(pos int)
	Draw()
	Redraw()
}

// Code is the tagged-variant replacement for the source's packed
// (code, payload, sub-id) result integer; see SPEC_FULL §9 design notes.
type Code int

const (
	// Next continues editing and resets the resolver.
	Next Code = iota
	// MoreInput keeps the resolver latched on the dispatching backend with
	// a new sub-id; the next raw byte routes straight back to it.
	MoreInput
	// Redraw forces a full buffer redraw and resets the resolver.
	Redraw
	// AcceptMatch invokes the accept-match applier on a match index and
	// resets the resolver.
	AcceptMatch
	// Done ends editing normally.
	Done
	// EOF ends editing and latches the eof flag.
	EOF
)

// Result is what Backend.OnInput returns.
type Result struct {
	Code       Code
	MatchIndex int  // valid when Code == AcceptMatch
	SubID      byte // valid when Code == MoreInput
}

// Convenience constructors, one per Code, so backends don't build Result
// literals by hand.
func ResultNext() Result                 { return Result{Code: Next} }
func ResultMoreInput(subID byte) Result  { return Result{Code: MoreInput, SubID: subID} }
func ResultRedraw() Result               { return Result{Code: Redraw} }
func ResultAcceptMatch(index int) Result { return Result{Code: AcceptMatch, MatchIndex: index} }
func ResultDone() Result                 { return Result{Code: Done} }
func ResultEOF() Result                  { return Result{Code: EOF} }

// Context is handed to a backend on every dispatch and to on_matches_changed
// observers. Unlike the source, which launders a const buffer into a
// mutable one at this boundary, Buffer is carried through mutably from
// the start (SPEC_FULL §9, "Buffer const-cast in get_context").
type Context struct {
	Terminal Terminal
	Buffer   Buffer
	Line     match.LineState
	Matches  *match.Store
}

// BinderView is what a Backend's BindInput receives: a handle that lets it
// register its own chords without seeing the rest of the binder or other
// backends' bindings.
type BinderView struct {
	binder  *bind.Binder[Backend]
	backend Backend
}

// Bind registers chordText, bound to this view's backend, with the given
// id. See pkg/chord for the notation and pkg/bind for the failure modes.
func (v BinderView) Bind(chordText string, id byte) error {
	return v.binder.Bind(chordText, v.backend, id)
}

// Backend is the capability set a virtual-method backend/generator would
// have implemented in the source (SPEC_FULL §9): it consumes resolved
// chords and may request a redraw, a completion accept, more input, or
// end the session.
type Backend interface {
	BindInput(v BinderView) error
	OnBeginLine(prompt []byte, ctx *Context)
	OnEndLine()
	OnMatchesChanged(ctx *Context)
	OnInput(keys []byte, id byte, ctx *Context) Result
}

// Generator produces completion candidates from a line state; it is the
// pkg/match generator contract, re-exported here so callers of this
// package don't need to import pkg/match just to implement one.
type Generator = match.Generator

// Desc carries every construction-time option: the required Terminal, the
// delimiter/quote configuration the word tokenizer and accept-match
// applier consume, and the optional ambient fields (arena capacity,
// logger, bind-store path) that have no effect on core semantics.
type Desc struct {
	Terminal Terminal

	ShellName string
	Prompt    []byte

	CommandDelims  string
	WordDelims     string
	PartialDelims  string
	QuoteOpen      byte
	QuoteClose     byte
	AutoQuoteChars string

	// ArenaCapacity bounds the binder trie's node arena. Zero means
	// DefaultArenaCapacity.
	ArenaCapacity int

	// Logger receives the driver's bind-store messages: one line for each
	// saved binding that is skipped. Bind errors, resolver misses and
	// generator errors are not logged. Nil means logutil.Discard.
	Logger *log.Logger

	// BindStorePath, if non-empty, is loaded during initialise to add a
	// user's saved bindings to the backends' default ones. A saved chord
	// that is already bound is skipped, not rebound. See pkg/bindstore.
	BindStorePath string

	// BackendNames maps a stable name to each registered Backend that
	// the bind store may target. It is only consulted when
	// BindStorePath is non-empty; a saved record for a name missing
	// from this map is skipped.
	BackendNames map[string]Backend
}

// DefaultArenaCapacity is used when Desc.ArenaCapacity is zero.
const DefaultArenaCapacity = 512

// keysCapacity bounds the driver's per-chord scratch buffer (SPEC_FULL
// §7, CapacityOverflow: extra bytes are dropped silently, which is safe
// because keys only ever buffers one unresolved chord, whose length is
// bounded by the trie's depth in practice).
const keysCapacity = 32
