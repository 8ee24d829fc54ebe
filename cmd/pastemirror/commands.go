package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/gokulvs/pastemirror/internal/assets"
	"github.com/gokulvs/pastemirror/internal/clipboard"
	"github.com/gokulvs/pastemirror/internal/config"
	"github.com/gokulvs/pastemirror/internal/paste"
)

// pasteCmd places files as if they had been pasted into the active note.
func pasteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "paste FILE...",
		Short: "Paste files into the note's mirrored asset folder",
		Example: `  pastemirror paste --vault ~/vault --note Notes/Trip.md photo.png
  pastemirror paste -n Notes/Trip.md --line 3 --ch 0 scan.pdf`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.newApp(cmd)
			if err != nil {
				return err
			}
			items, err := readItems(args)
			if err != nil {
				return err
			}
			out, err := a.handler.Paste(cmd.Context(), paste.NewEvent(items...))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "placed %s\n", out.Path)
			if out.Inserted {
				fmt.Fprintf(cmd.OutOrStdout(), "inserted %s\n", out.Token)
			}
			return nil
		},
	}
}

// watchCmd pastes every new clipboard image or file into the active note.
func watchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the system clipboard and paste into the note (blocks until interrupted)",
		Example: `  pastemirror watch --vault ~/vault --note Notes/Trip.md`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.newApp(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			bus := paste.NewBus()
			defer a.handler.Register(bus)()

			fmt.Fprintf(cmd.OutOrStdout(), "watching clipboard  vault=%s  root=%s\n", a.vault.Root(), a.store.AssetsRootName())
			fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl-C to stop.")
			return clipboard.NewWatcher(bus, a.logger).Run(ctx)
		},
	}
}

func resolveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve [NOTE]",
		Short: "Print the asset folder a note's pastes go to",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			note := opts.note
			if len(args) == 1 {
				note = args[0]
			}
			if note == "" {
				return fmt.Errorf("provide a note path or use --note")
			}
			store, err := opts.openStore()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), assets.Resolve(store.AssetsRootName(), note))
			return nil
		},
	}
}

func configCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective settings",
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := opts.openStore()
				if err != nil {
					return err
				}
				data, err := toml.Marshal(store.Get())
				if err != nil {
					return fmt.Errorf("encode settings: %w", err)
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the settings file location",
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := config.ResolvePath(opts.configPath)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			},
		},
		&cobra.Command{
			Use:     "set-root NAME",
			Short:   "Set the assets root folder name",
			Example: `  pastemirror config set-root Attachments`,
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := config.OpenForEdit(opts.configPath)
				if err != nil {
					return err
				}
				if err := store.Set(func(s *config.Settings) { s.AssetsRootName = args[0] }); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "assets root set to %q\n", store.AssetsRootName())
				return nil
			},
		},
	)
	return cmd
}
