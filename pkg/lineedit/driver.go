package lineedit

import (
	"golang.org/x/xerrors"

	"github.com/pks-os/clink/pkg/bind"
	"github.com/pks-os/clink/pkg/bindstore"
	"github.com/pks-os/clink/pkg/chord"
	"github.com/pks-os/clink/pkg/logutil"
	"github.com/pks-os/clink/pkg/match"
	"github.com/pks-os/clink/pkg/word"
)

// ErrNoTerminal is returned by Create when desc.Terminal is nil.
var ErrNoTerminal = xerrors.New("lineedit: desc.Terminal is required")

type flags uint8

const (
	flagInit flags = 1 << iota
	flagEditing
	flagEOF
)

// Driver is the line-editor's main loop: it owns the binder, resolver,
// match store, buffer and the registered backends/generators, and drives
// them one input byte at a time. It is not safe for concurrent use; every
// method runs on the caller of Edit (SPEC_FULL §5).
type Driver struct {
	desc   Desc
	buffer Buffer

	binder   *bind.Binder[Backend]
	resolver *bind.Resolver[Backend]

	defaultBackend Backend
	backends       []Backend
	generators     []Generator

	matches   match.Store
	refresher match.Refresher

	commandOffset int
	keys          []byte
	flags         flags
}

// Create constructs a Driver. It fails only if desc.Terminal is nil,
// mirroring the source's line_editor_create null check; a failed Create
// returns a nil Driver, so callers must check the error before using it.
func Create(desc Desc, defaultBackend Backend) (*Driver, error) {
	if desc.Terminal == nil {
		return nil, ErrNoTerminal
	}
	capacity := desc.ArenaCapacity
	if capacity == 0 {
		capacity = DefaultArenaCapacity
	}

	d := &Driver{
		desc:           desc,
		buffer:         nil,
		binder:         bind.New[Backend](capacity),
		resolver:       bind.NewResolver[Backend](),
		defaultBackend: defaultBackend,
	}
	d.AddBackend(defaultBackend)
	return d, nil
}

// SetBuffer installs the concrete Buffer implementation. It must be called
// before Edit; it is separate from Create so embedders can construct the
// Buffer and Driver independently (see pkg/linebuf).
func (d *Driver) SetBuffer(b Buffer) { d.buffer = b }

// AddBackend registers a backend. The first backend ever added (from
// Create) is the fallback used on a resolver miss.
func (d *Driver) AddBackend(b Backend) {
	for _, existing := range d.backends {
		if existing == b {
			return
		}
	}
	d.backends = append(d.backends, b)
}

// AddGenerator registers a completion generator, tried in registration
// order (see pkg/match's first-wins contract).
func (d *Driver) AddGenerator(g Generator) { d.generators = append(d.generators, g) }

func (d *Driver) wordConfig() word.Config {
	return word.Config{
		CommandDelims: d.desc.CommandDelims,
		WordDelims:    d.desc.WordDelims,
		PartialDelims: d.desc.PartialDelims,
		QuoteOpen:     d.desc.QuoteOpen,
		QuoteClose:    d.desc.QuoteClose,
	}
}

func (d *Driver) applyConfig() match.ApplyConfig {
	return match.ApplyConfig{
		PartialDelims: d.desc.PartialDelims,
		QuoteOpen:     d.desc.QuoteOpen,
		QuoteClose:    d.desc.QuoteClose,
	}
}

// Edit drives the loop until editing ends, then returns the resulting
// line via GetLine. It returns false if the session ended on EOF.
func (d *Driver) Edit(out *[]byte) (bool, error) {
	for {
		more, err := d.update()
		if err != nil {
			return false, err
		}
		if !more {
			break
		}
		if err := d.desc.Terminal.Select(); err != nil {
			return false, err
		}
	}
	return d.GetLine(out), nil
}

// GetLine snapshots the current line into out and returns true, unless
// the session has latched EOF, in which case it returns false. Calling it
// while still editing ends the session first.
func (d *Driver) GetLine(out *[]byte) bool {
	if d.flags&flagEditing != 0 {
		d.endLine()
	}
	if d.flags&flagEOF != 0 {
		return false
	}
	*out = append((*out)[:0], d.buffer.Bytes()...)
	return true
}

func (d *Driver) update() (bool, error) {
	if d.flags&flagInit == 0 {
		if err := d.initialise(); err != nil {
			return false, err
		}
	}

	if d.flags&flagEditing == 0 {
		if err := d.beginLine(); err != nil {
			return false, err
		}
		d.updateInternal()
		return true, nil
	}

	b, eof, err := d.desc.Terminal.Read()
	if err != nil {
		return false, err
	}
	if eof {
		d.flags |= flagEOF
		d.endLine()
		return false, nil
	}
	d.recordInput(b)

	if !d.resolver.IsResolved() {
		d.binder.Advance(d.resolver, b)
	}

	d.dispatch()
	d.buffer.Draw()

	if d.flags&flagEditing == 0 {
		return false, nil
	}

	if !d.resolver.IsResolved() {
		d.updateInternal()
	}

	return true, nil
}

// initialise binds every registered backend's chords into the binder. It
// runs once; a BindError from any backend aborts initialisation (the
// source treats this as embedder-level misconfiguration, per SPEC_FULL §7
// BindError's surfacing point).
func (d *Driver) initialise() error {
	for _, b := range d.backends {
		if err := b.BindInput(BinderView{binder: d.binder, backend: b}); err != nil {
			return err
		}
	}
	if d.desc.BindStorePath != "" {
		if err := d.loadBindStore(); err != nil {
			return err
		}
	}
	d.flags |= flagInit
	return nil
}

// loadBindStore applies saved chord overrides from desc.BindStorePath on
// top of the defaults backends just registered. A record whose Backend
// name isn't in desc.BackendNames, or whose Bind fails because the
// chord collides with an existing binding, is logged and skipped rather
// than aborting startup (SPEC_FULL §4.15/§7 BindStoreError: the driver
// must still start with at least the defaults).
func (d *Driver) loadBindStore() error {
	store, err := bindstore.Open(d.desc.BindStorePath)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.Load()
	if err != nil {
		return err
	}

	logger := d.desc.Logger
	if logger == nil {
		logger = logutil.Discard
	}
	for _, r := range records {
		backend, ok := d.desc.BackendNames[r.Backend]
		if !ok {
			logger.Printf("bindstore: no registered backend named %q, skipping saved binding for %q", r.Backend, r.Chord)
			continue
		}
		if err := d.binder.Bind(r.Chord, backend, r.ID); err != nil {
			logger.Printf("bindstore: skipping saved binding %q for backend %q: %v", r.Chord, r.Backend, err)
		}
	}
	return nil
}

func (d *Driver) beginLine() error {
	d.flags &^= flagEOF
	d.flags |= flagEditing

	d.resolver.Reset()
	d.commandOffset = 0
	d.keys = d.keys[:0]
	d.refresher = match.Refresher{}

	d.matches.Reset()

	if err := d.desc.Terminal.Begin(); err != nil {
		return err
	}
	d.buffer.BeginLine(d.desc.Prompt)

	ctx := d.context()
	for _, b := range d.backends {
		b.OnBeginLine(d.desc.Prompt, &ctx)
	}
	return nil
}

func (d *Driver) endLine() {
	for i := len(d.backends) - 1; i >= 0; i-- {
		d.backends[i].OnEndLine()
	}
	d.buffer.EndLine()
	d.desc.Terminal.End()
	d.flags &^= flagEditing
}

func (d *Driver) recordInput(b byte) {
	if len(d.keys) < keysCapacity {
		d.keys = append(d.keys, b)
	}
}

func (d *Driver) dispatch() {
	if !d.resolver.IsResolved() {
		return
	}

	keys := d.keys
	d.keys = d.keys[:0]

	backend, ok := d.resolver.Backend()
	if !ok {
		backend = d.defaultBackend
	}
	id := byte(d.resolver.ID())

	ctx := d.context()
	result := backend.OnInput(keys, id, &ctx)

	switch result.Code {
	case EOF:
		d.flags |= flagEOF
		d.endLine()
	case Done:
		d.endLine()
	case AcceptMatch:
		d.acceptMatch(result.MatchIndex)
		d.resolver.Reset()
	case Redraw:
		d.buffer.Redraw()
		d.resolver.Reset()
	case Next:
		d.resolver.Reset()
	case MoreInput:
		d.resolver.SetID(int(result.SubID))
	}
}

func (d *Driver) acceptMatch(index int) {
	m, ok := d.matches.At(index)
	if !ok || m.Text == "" {
		return
	}
	ls := d.lineState()
	end := ls.EndWord()
	oldBuf := d.buffer.Bytes()
	newBuf, newCursor := match.Apply(oldBuf, d.buffer.Cursor(), end, m.Text, d.applyConfig())
	// match.Apply returns the whole new line (it only changes the span
	// between the end word and the cursor, but hands back a full slice),
	// so the simplest faithful replay against the Buffer interface is to
	// replace the whole line rather than compute the minimal sub-range.
	d.buffer.Remove(0, len(oldBuf))
	d.buffer.SetCursor(0)
	d.buffer.Insert(newBuf)
	d.buffer.SetCursor(newCursor)
}

func (d *Driver) updateInternal() {
	ls := d.lineState()
	ctx := d.context()
	d.refresher.Refresh(&d.matches, ls, d.generators, d.desc.AutoQuoteChars, func() {
		for _, b := range d.backends {
			b.OnMatchesChanged(&ctx)
		}
	})
}

// lineState recomputes the command/word split fresh against the buffer's
// current content on every call. The source instead caches the split from
// the last update_internal and lets dispatch see it stale for one cycle;
// recomputing is simpler and strictly more current, and nothing in
// SPEC_FULL depends on that one-cycle staleness being observable.
func (d *Driver) lineState() match.LineState {
	offset, words := word.Collect(d.buffer.Bytes(), d.buffer.Cursor(), d.wordConfig())
	d.commandOffset = offset
	return match.LineState{
		Buffer:        d.buffer.Bytes(),
		Cursor:        d.buffer.Cursor(),
		CommandOffset: offset,
		Words:         words,
	}
}

func (d *Driver) context() Context {
	return Context{
		Terminal: d.desc.Terminal,
		Buffer:   d.buffer,
		Line:     d.lineState(),
		Matches:  &d.matches,
	}
}

// TranslateChord is re-exported so embedders validating bind text up front
// (e.g. a bind store loader) don't need to import pkg/chord directly.
func TranslateChord(text string) ([]byte, error) { return chord.Translate(text) }
