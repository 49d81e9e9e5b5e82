// file: cmd/shell.go
// version: 1.0.0
// guid: 5e083ce0-d560-4372-81e5-8a54ca9c18f1

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/jdfalk/library-proto/internal/app"
	"github.com/jdfalk/library-proto/internal/presentation"
	"github.com/jdfalk/library-proto/internal/search"
)

const shellHelp = `Commands:
  search TEXT    search Google Books (replaces the previous results)
  covers         wait for result covers, then show the results again
  results        show the current results
  add N          save result N to the library
  list           show the library
  delete N       remove library entry N
  cancel         cancel the running search
  help           show this help
  quit           leave the shell`

var shellCommands = []string{"search", "covers", "results", "add", "list", "delete", "cancel", "help", "quit"}

// shellCmd represents the interactive shell
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive search and library session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		line := liner.NewLiner()
		defer line.Close()
		line.SetCtrlCAborts(true)
		line.SetCompleter(completeCommand)

		historyPath := shellHistoryPath()
		if f, err := os.Open(historyPath); err == nil {
			_, _ = line.ReadHistory(f)
			f.Close()
		}
		defer func() {
			if f, err := os.Create(historyPath); err == nil {
				_, _ = line.WriteHistory(f)
				f.Close()
			}
		}()

		sh := newShell(a, cmd.OutOrStdout(), cmd.ErrOrStderr())
		defer sh.close()
		return sh.run(contextOrBackground(cmd.Context()), line)
	},
}

// prompter is the part of *liner.State the shell loop needs.
type prompter interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

type shell struct {
	app        *app.App
	out        io.Writer
	errOut     io.Writer
	resultRows *presentation.ListSurface
	results    *presentation.ResultsScreen
	libRows    *presentation.ListSurface
	library    *presentation.LibraryScreen
}

func newShell(a *app.App, out, errOut io.Writer) *shell {
	resultRows := presentation.NewListSurface()
	libRows := presentation.NewListSurface()
	return &shell{
		app:        a,
		out:        out,
		errOut:     errOut,
		resultRows: resultRows,
		results:    a.NewResultsScreen(resultRows),
		libRows:    libRows,
		library:    a.NewLibraryScreen(libRows),
	}
}

func (s *shell) close() {
	s.library.Close()
	s.results.Close()
}

// run reads commands until quit, EOF or Ctrl-C.
func (s *shell) run(ctx context.Context, p prompter) error {
	fmt.Fprintln(s.out, `library-proto shell. Type "help" for commands.`)
	for {
		input, err := p.Prompt("library> ")
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read command: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		p.AppendHistory(input)

		name, arg, _ := strings.Cut(input, " ")
		arg = strings.TrimSpace(arg)
		if name == "quit" || name == "exit" {
			return nil
		}
		if err := s.exec(ctx, name, arg); err != nil {
			fmt.Fprintln(s.errOut, "error:", err)
		}
	}
}

func (s *shell) exec(ctx context.Context, name, arg string) error {
	switch name {
	case "search":
		st, err := runSearch(ctx, s.app, s.results, arg)
		if err != nil {
			return err
		}
		printResults(s.out, s.errOut, s.resultRows, st)
	case "covers":
		st := s.results.State()
		if st.Phase == search.PhasePopulated {
			waitForCovers(ctx, s.app, s.results, len(st.Results), s.errOut)
		}
		printResults(s.out, s.errOut, s.resultRows, st)
	case "results":
		printResults(s.out, s.errOut, s.resultRows, s.results.State())
	case "add":
		n, err := parsePosition(arg)
		if err != nil {
			return err
		}
		entry, err := s.results.Select(ctx, n-1)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Added %q\n", entry.Title)
	case "list":
		if err := s.library.Refresh(); err != nil {
			return err
		}
		if len(s.library.Entries()) == 0 {
			fmt.Fprintln(s.out, "Library is empty")
			return nil
		}
		s.libRows.Print(s.out)
	case "delete":
		n, err := parsePosition(arg)
		if err != nil {
			return err
		}
		if err := s.library.Refresh(); err != nil {
			return err
		}
		entries := s.library.Entries()
		if err := s.library.Delete(n - 1); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Deleted %q\n", entries[n-1].Title)
	case "cancel":
		s.results.Cancel()
	case "help":
		fmt.Fprintln(s.out, shellHelp)
	default:
		return fmt.Errorf("unknown command %q (try \"help\")", name)
	}
	return nil
}

func parsePosition(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("expected a position (1, 2, ...), got %q", arg)
	}
	return n, nil
}

func completeCommand(line string) []string {
	var out []string
	for _, c := range shellCommands {
		if strings.HasPrefix(c, strings.ToLower(line)) {
			out = append(out, c)
		}
	}
	return out
}

func shellHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".library-proto_history"
	}
	return filepath.Join(home, ".library-proto_history")
}
