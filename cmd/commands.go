// file: cmd/commands.go
// version: 1.0.0
// guid: fe71cddd-f458-45ca-83d9-eb2fbf39786c

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/jdfalk/library-proto/internal/app"
	"github.com/jdfalk/library-proto/internal/config"
	"github.com/jdfalk/library-proto/internal/library"
	"github.com/jdfalk/library-proto/internal/logger"
	"github.com/jdfalk/library-proto/internal/presentation"
	"github.com/jdfalk/library-proto/internal/search"
	"github.com/jdfalk/library-proto/internal/server"
	"github.com/jdfalk/library-proto/internal/watcher"
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search QUERY...",
	Short: "Search Google Books",
	Long:  `Search Google Books and print the matching volumes with their cover status.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		withCovers, _ := cmd.Flags().GetBool("covers")
		surface := presentation.NewListSurface()
		screen := a.NewResultsScreen(surface)
		defer screen.Close()

		st, err := runSearch(cmd.Context(), a, screen, strings.Join(args, " "))
		if err != nil {
			return err
		}
		if withCovers && st.Phase == search.PhasePopulated {
			waitForCovers(cmd.Context(), a, screen, len(st.Results), cmd.ErrOrStderr())
		}
		printResults(cmd.OutOrStdout(), cmd.ErrOrStderr(), surface, st)
		return nil
	},
}

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add QUERY...",
	Short: "Search and save one result to the library",
	Long: `Search Google Books and save the result at --result (1-based, as printed
by "search") to the library, with its cover when one is available.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, _ := cmd.Flags().GetInt("result")
		if index < 1 {
			return fmt.Errorf("--result must be 1 or greater, got %d", index)
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		surface := presentation.NewListSurface()
		screen := a.NewResultsScreen(surface)
		defer screen.Close()

		st, err := runSearch(cmd.Context(), a, screen, strings.Join(args, " "))
		if err != nil {
			return err
		}
		if st.Phase != search.PhasePopulated {
			printResults(cmd.OutOrStdout(), cmd.ErrOrStderr(), surface, st)
			return nil
		}

		entry, err := screen.Select(contextOrBackground(cmd.Context()), index-1)
		if errors.Is(err, presentation.ErrNotSelectable) {
			return fmt.Errorf("result %d is not in the %d results for %q", index, len(st.Results), st.Query)
		}
		if err != nil {
			return err
		}

		cover := "without cover"
		if len(entry.Image) > 0 {
			cover = "with cover"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %q by %s (%s, id %s)\n", entry.Title, entry.Authors, cover, entry.ID)
		return nil
	},
}

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the saved library",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		showIDs, _ := cmd.Flags().GetBool("ids")
		return printLibrary(cmd.OutOrStdout(), a, showIDs)
	},
}

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete INDEX|ID",
	Short: "Remove a saved book",
	Long:  `Remove a saved book by its 1-based position in "list" or by its ID.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		title, err := deleteEntry(a, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q\n", title)
		return nil
	},
}

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long:  `Start the HTTP API with server-sent events and Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		cfg := server.ConfigFrom(config.AppConfig)
		if host, _ := cmd.Flags().GetString("host"); host != "" {
			cfg.Host = host
		}
		if port, _ := cmd.Flags().GetInt("port"); port > 0 {
			cfg.Port = strconv.Itoa(port)
		}
		if rpm, _ := cmd.Flags().GetInt("rate-limit"); rpm > 0 {
			cfg.RequestsPerMinute = rpm
		}

		if path := viper.ConfigFileUsed(); path != "" {
			if _, err := os.Stat(path); err == nil {
				w := watcher.New(reloadConfig, 0)
				if err := w.Start(path); err != nil {
					log := logger.WithComponent("cmd")
					log.Warn().Err(err).Str("file", path).Msg("config changes will not be picked up")
				} else {
					defer w.Stop()
				}
			}
		}

		ctx, stop := signal.NotifyContext(contextOrBackground(cmd.Context()), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return server.NewServer(a, cfg).Start(ctx)
	},
}

// configCmd groups the config subcommands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or write the configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := yaml.Marshal(config.Settings())
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init [PATH]",
	Short: "Write the effective configuration to a file",
	Long:  `Write the effective configuration to PATH (default $HOME/.library-proto.yaml).`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.DefaultConfigFilePath()
		if len(args) == 1 {
			path = args[0]
		}
		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := config.SaveConfigToFile(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)
		return nil
	},
}

func init() {
	searchCmd.Flags().Bool("covers", false, "wait for cover images before printing")
	addCmd.Flags().Int("result", 1, "result to save (1-based)")
	listCmd.Flags().Bool("ids", false, "print entry IDs")

	serveCmd.Flags().String("host", "", "host to bind the web server to (default from config)")
	serveCmd.Flags().Int("port", 0, "port to run the web server on (default from config)")
	serveCmd.Flags().Int("rate-limit", 0, "API requests per minute per client")

	configInitCmd.Flags().Bool("force", false, "overwrite an existing file")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

// runSearch submits text and waits for that query to settle.
func runSearch(ctx context.Context, a *app.App, screen *presentation.ResultsScreen, text string) (search.State, error) {
	gen, ok := screen.Submit(text)
	if !ok {
		return search.State{}, fmt.Errorf("search text is empty")
	}

	ctx, cancel := context.WithTimeout(contextOrBackground(ctx), a.Config.RequestTimeout+15*time.Second)
	defer cancel()

	st, err := screen.Wait(ctx, gen)
	if err != nil {
		screen.Cancel()
		return st, fmt.Errorf("search %q did not finish: %w", text, err)
	}
	return st, nil
}

// waitForCovers shows a progress bar until every row has its image or
// placeholder.
func waitForCovers(ctx context.Context, a *app.App, screen *presentation.ResultsScreen, total int, w io.Writer) {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("covers"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	defer bar.Finish()

	ctx, cancel := context.WithTimeout(contextOrBackground(ctx), a.Config.RequestTimeout+15*time.Second)
	defer cancel()

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		pending := screen.PendingCovers()
		_ = bar.Set(total - pending)
		if pending == 0 {
			// the last claimed row renders on the front end
			a.UI.Sync(func() {})
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func printResults(out, errOut io.Writer, surface *presentation.ListSurface, st search.State) {
	if st.Phase == search.PhasePopulated {
		fmt.Fprintf(out, "%d of %d results for %q\n", len(st.Results), st.TotalItems, st.Query)
	}
	surface.Print(out)
	if st.Phase == search.PhaseFailed {
		fmt.Fprintf(errOut, "%s %s\n", presentation.AlertTitle, presentation.AlertMessage)
	}
}

// printLibrary draws the library through a LibraryScreen, so the rows
// match what the shell shows.
func printLibrary(out io.Writer, a *app.App, showIDs bool) error {
	surface := presentation.NewListSurface()
	lib := a.NewLibraryScreen(surface)
	defer lib.Close()

	if err := lib.Refresh(); err != nil {
		return err
	}
	entries := lib.Entries()
	if len(entries) == 0 {
		fmt.Fprintln(out, "Library is empty")
		return nil
	}
	for i, row := range surface.Rows() {
		line := presentation.FormatRow(i, row)
		if showIDs && i < len(entries) {
			line += "  " + entries[i].ID
		}
		fmt.Fprintln(out, line)
	}
	return nil
}

// deleteEntry removes by 1-based list position or by ID and returns the
// removed title.
func deleteEntry(a *app.App, ref string) (string, error) {
	entries, err := a.Store.List()
	if err != nil {
		return "", fmt.Errorf("failed to list library: %w", err)
	}

	var target int
	if n, convErr := strconv.Atoi(ref); convErr == nil {
		if n < 1 || n > len(entries) {
			return "", fmt.Errorf("no entry at position %d (library has %d)", n, len(entries))
		}
		target = n - 1
	} else {
		target = slices.IndexFunc(entries, func(e library.Entry) bool { return e.ID == ref })
		if target < 0 {
			return "", fmt.Errorf("no entry with id %q", ref)
		}
	}

	entry := entries[target]
	if err := a.Store.Delete(entry.ID); err != nil {
		return "", fmt.Errorf("failed to delete %q: %w", entry.Title, err)
	}
	return entry.Title, nil
}
