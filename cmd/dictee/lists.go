package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/dictee/internal/config"
	"github.com/verte-zerg/dictee/internal/model"
	"github.com/verte-zerg/dictee/internal/store"
	"github.com/verte-zerg/dictee/internal/wordlist"
)

var (
	listFile    string
	listOrdered bool
)

func newListsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lists",
		Short: "List available word lists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withProvider(func(p *wordlist.Provider) error {
				lists, err := p.All(context.Background())
				if err != nil {
					return err
				}
				return writeListSummary(cmd.OutOrStdout(), lists)
			})
		},
	}

	show := &cobra.Command{
		Use:   "show NAME",
		Short: "Print the entries of a word list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProvider(func(p *wordlist.Provider) error {
				list, err := p.Get(context.Background(), args[0])
				if err != nil {
					return err
				}
				for _, entry := range list.Entries {
					if _, err := fmt.Fprintln(cmd.OutOrStdout(), entry); err != nil {
						return fmt.Errorf("failed to write output: %w", err)
					}
				}
				return nil
			})
		},
	}

	add := &cobra.Command{
		Use:   "add NAME",
		Short: "Create or replace a word list from a file with one entry per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if listFile == "" {
				return fmt.Errorf("--file is required")
			}
			entries, err := wordlist.LoadWords(listFile)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", listFile, err)
			}
			return withProvider(func(p *wordlist.Provider) error {
				list := model.WordList{Name: args[0], Entries: entries, Random: !listOrdered}
				if err := p.Save(context.Background(), list); err != nil {
					return fmt.Errorf("failed to save word list: %w", err)
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Saved %q with %d entries\n", list.Name, len(entries))
				return err
			})
		},
	}
	add.Flags().StringVar(&listFile, "file", "", "file with one entry per line")
	add.Flags().BoolVar(&listOrdered, "ordered", false, "ask entries in file order instead of shuffling")

	rm := &cobra.Command{
		Use:   "rm NAME",
		Short: "Remove a user word list",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return withProvider(func(p *wordlist.Provider) error {
				return p.Remove(context.Background(), args[0])
			})
		},
	}

	cmd.AddCommand(show, add, rm)
	return cmd
}

func withProvider(fn func(*wordlist.Provider) error) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	return fn(wordlist.NewProvider(st))
}

func writeListSummary(w io.Writer, lists []model.WordList) error {
	for _, list := range lists {
		order := "ordered"
		if list.Random {
			order = "random"
		}
		source := "user"
		if list.Builtin {
			source = "built-in"
		}
		if _, err := fmt.Fprintf(w, "%s\t%d entries\t%s\t%s\n", list.Name, len(list.Entries), order, source); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}
