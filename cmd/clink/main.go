// Command clink is a standalone interactive line editor: it reads one
// line at a time from the controlling terminal, running the same
// editing/completion pipeline an embedding shell would drive through
// pkg/lineedit, and prints the accepted line to stdout.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pks-os/clink/pkg/config"
	"github.com/pks-os/clink/pkg/fileglob"
	"github.com/pks-os/clink/pkg/lineedit"
	"github.com/pks-os/clink/pkg/linebuf"
	"github.com/pks-os/clink/pkg/logutil"
	"github.com/pks-os/clink/pkg/rlbackend"
	"github.com/pks-os/clink/pkg/termio"
)

// flags keeps command-line flags.
type flags struct {
	Log, Config, BindStore, Prompt string
	Help                           bool
}

func newFlagSet(f *flags) *flag.FlagSet {
	fs := flag.NewFlagSet("clink", flag.ContinueOnError)
	// Error and usage will be printed explicitly.
	fs.SetOutput(io.Discard)

	fs.StringVar(&f.Log, "log", "", "a file to write debug log to")
	fs.StringVar(&f.Config, "config", "", "path to a YAML config overlay")
	fs.StringVar(&f.BindStore, "bindstore", "", "path to a saved-binding database")
	fs.StringVar(&f.Prompt, "prompt", "clink> ", "prompt to show before each line")
	fs.BoolVar(&f.Help, "help", false, "show usage help and quit")

	return fs
}

func usage(out io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(out, "Usage: clink [flags]")
	fmt.Fprintln(out, "Supported flags:")
	fs.SetOutput(out)
	fs.PrintDefaults()
}

func main() {
	os.Exit(run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin, stdout, stderr *os.File) int {
	f := &flags{}
	fs := newFlagSet(f)
	if err := fs.Parse(args[1:]); err != nil {
		if err == flag.ErrHelp {
			fmt.Fprintln(stderr, "flag provided but not defined: -h")
		} else {
			fmt.Fprintln(stderr, err)
		}
		usage(stderr, fs)
		return 2
	}
	if f.Help {
		usage(stdout, fs)
		return 0
	}

	if f.Log != "" {
		if err := logutil.SetOutputFile(f.Log); err != nil {
			fmt.Fprintln(stderr, err)
		}
	}
	logger := logutil.GetLogger("[clink] ")

	term, err := termio.New(stdin, stdout)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer term.Close()

	backend := &rlbackend.Backend{}

	desc := lineedit.Desc{
		Terminal:       term,
		ShellName:      "clink",
		Prompt:         []byte(f.Prompt),
		CommandDelims:  " \t",
		WordDelims:     " \t",
		PartialDelims:  " \t/",
		QuoteOpen:      '\'',
		QuoteClose:     '\'',
		AutoQuoteChars: " \t'\"",
		Logger:         logger,
		BackendNames:   map[string]lineedit.Backend{"rlbackend": backend},
	}

	if f.Config != "" {
		desc, err = config.Load(f.Config, desc)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
	}

	if f.BindStore != "" {
		desc.BindStorePath = f.BindStore
	}

	driver, err := lineedit.Create(desc, backend)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	driver.SetBuffer(linebuf.New(stdout))
	driver.AddGenerator(fileglob.Generator{})

	// The driver itself calls Terminal.Begin/End around every line
	// (beginLine/endLine); calling Begin here too would have the first
	// per-line Begin capture raw mode as the state to restore to,
	// leaving the terminal raw after the process exits.
	out := bufio.NewWriter(stdout)
	defer out.Flush()

	for {
		var line []byte
		ok, err := driver.Edit(&line)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		if !ok {
			return 0
		}
		out.Write(line)
		out.WriteByte('\n')
		out.Flush()
	}
}
