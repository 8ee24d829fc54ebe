package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gokulvs/pastemirror/internal/assets"
	"github.com/gokulvs/pastemirror/internal/config"
	"github.com/gokulvs/pastemirror/internal/editor"
	"github.com/gokulvs/pastemirror/internal/logging"
	"github.com/gokulvs/pastemirror/internal/paste"
	"github.com/gokulvs/pastemirror/internal/vault"
)

type options struct {
	configPath string
	vaultDir   string
	note       string
	line       int
	ch         int
	logLevel   string
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "pastemirror",
		Short: "pastemirror: file pasted assets into a mirror of your notes tree",
		Long: `pastemirror keeps pasted images and files out of your note folders.

A paste into "Notes/Trip.md" is written to "/Assets/Notes/pasted<n><name>"
inside the vault and an embed such as ![[pasted123photo.png]] is inserted
into the note at the cursor.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "settings file (default ~/.config/pastemirror/config.toml)")
	flags.StringVar(&opts.vaultDir, "vault", ".", "vault root directory")
	flags.StringVarP(&opts.note, "note", "n", "", "vault-relative path of the active note")
	flags.IntVar(&opts.line, "line", -1, "cursor line (0 based, default end of note)")
	flags.IntVar(&opts.ch, "ch", 0, "cursor column in bytes, used with --line")
	flags.StringVar(&opts.logLevel, "log-level", "", "override the configured log level")

	root.AddCommand(
		pasteCmd(opts),
		watchCmd(opts),
		resolveCmd(opts),
		configCmd(opts),
	)
	return root
}

// app is the wired pipeline for one command invocation.
type app struct {
	store     *config.Store
	logger    *slog.Logger
	vault     *vault.FS
	workspace *editor.Workspace
	handler   *paste.Handler
}

func (o *options) openStore() (*config.Store, error) {
	return config.Open(o.configPath)
}

func (o *options) newLogger(store *config.Store, w io.Writer) (*slog.Logger, error) {
	s := store.Get()
	level := s.Logging.Level
	if o.logLevel != "" {
		level = o.logLevel
	}
	return logging.New(logging.Options{Level: level, Format: s.Logging.Format, Output: w})
}

func (o *options) newApp(cmd *cobra.Command) (*app, error) {
	store, err := o.openStore()
	if err != nil {
		return nil, err
	}
	logger, err := o.newLogger(store, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	v, err := vault.Open(o.vaultDir)
	if err != nil {
		return nil, err
	}

	ws := &editor.Workspace{}
	if o.note != "" {
		file, err := v.Abs(o.note)
		if err != nil {
			return nil, err
		}
		note, err := editor.Open(o.note, file)
		if err != nil {
			return nil, err
		}
		if o.line >= 0 {
			note.SetCursor(assets.Position{Line: o.line, Ch: o.ch})
		}
		ws.Focus(note)
	}

	notifier := &streamNotifier{w: cmd.ErrOrStderr(), min: logging.ParseLevel(store.Get().Logging.Level)}
	if o.logLevel != "" {
		notifier.min = logging.ParseLevel(o.logLevel)
	}
	placer := assets.NewPlacer(v, assets.WithLogger(logger))
	return &app{
		store:     store,
		logger:    logger,
		vault:     v,
		workspace: ws,
		handler:   paste.NewHandler(ws, store, placer, notifier, logger),
	}, nil
}

// streamNotifier prints notices as single lines.
type streamNotifier struct {
	w   io.Writer
	min slog.Level
}

func (n *streamNotifier) Notify(level slog.Level, msg string) {
	if level < n.min {
		return
	}
	fmt.Fprintf(n.w, "notice [%s]: %s\n", level, msg)
}

func readItems(paths []string) ([]paste.Item, error) {
	items := make([]paste.Item, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read file: %w", err)
		}
		items = append(items, paste.Item{Name: filepath.Base(p), Data: data})
	}
	return items, nil
}
