// Package main provides the operator CLI for a Verbalist deployment.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"verbalist/internal/auth"
	"verbalist/internal/config"
	"verbalist/internal/docstore"
	"verbalist/internal/repository"
	"verbalist/internal/service"
)

var (
	seedFile string

	sessionUser    string
	sessionPersona string
	sessionList    string

	tokenUser  string
	tokenEmail string
	tokenTTL   time.Duration

	exportOutput string

	importInput string
	importClear bool
	importYes   bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "verbalistctl",
		Short:         "Verbalist administration tool",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(newSeedCmd())
	rootCmd.AddCommand(newCreateSessionCmd())
	rootCmd.AddCommand(newTokenCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newImportCmd())

	return rootCmd
}

func newSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create missing template word lists",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, store docstore.Store) error {
				lists, err := service.LoadTemplateLists(seedFile)
				if err != nil {
					return err
				}
				listRepo := repository.NewListRepository(store)
				users := service.NewUserService(repository.NewUserRepository(store), listRepo)
				created, err := service.NewListService(listRepo, users).SeedTemplateLists(ctx, lists)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created %d of %d template lists\n", created, len(lists))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&seedFile, "file", "", "TOML file of template lists (default: built-in set)")
	return cmd
}

func newCreateSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-session",
		Short: "Create a chat session and print the stored documents",
		RunE: func(cmd *cobra.Command, _ []string) error {
			personas := service.NewPersonaCatalog()
			if !personas.IsValid(sessionPersona) {
				return fmt.Errorf("unknown persona %q", sessionPersona)
			}
			return withStore(cmd.Context(), func(ctx context.Context, store docstore.Store) error {
				listRepo := repository.NewListRepository(store)
				sessionRepo := repository.NewSessionRepository(store)
				sessions := service.NewSessionService(listRepo, sessionRepo, nil)

				result, err := sessions.CreateSession(ctx, sessionUser, sessionPersona, sessionList)
				if err != nil {
					return err
				}
				view, err := sessions.GetSession(ctx, sessionUser, result.SessionID)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), view)
			})
		},
	}
	cmd.Flags().StringVar(&sessionUser, "user", "", "owning user id")
	cmd.Flags().StringVar(&sessionPersona, "persona", "", "persona id (chris, gemma, eva, sid)")
	cmd.Flags().StringVar(&sessionList, "list", service.DefaultWordListID, "word list id")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("persona")
	return cmd
}

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for a user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			issuer, err := auth.NewIssuer(cfg.AuthSecret, cfg.AuthIssuer)
			if err != nil {
				return err
			}
			ttl := tokenTTL
			if !cmd.Flags().Changed("ttl") {
				ttl = cfg.TokenTTL
			}
			token, err := issuer.Issue(tokenUser, tokenEmail, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&tokenUser, "user", "", "user id placed in the subject claim")
	cmd.Flags().StringVar(&tokenEmail, "email", "", "optional email claim")
	cmd.Flags().DurationVar(&tokenTTL, "ttl", time.Hour, "token lifetime (default: TOKEN_TTL)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every document to a JSON file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, store docstore.Store) error {
				outputPath := exportOutput
				if outputPath == "" {
					outputPath = fmt.Sprintf("backup_%s.json", time.Now().Format("20060102_150405"))
				}
				if dir := filepath.Dir(outputPath); dir != "." && dir != "" {
					if err := os.MkdirAll(dir, 0o755); err != nil {
						return fmt.Errorf("failed to create output directory: %w", err)
					}
				}

				f, err := os.Create(outputPath)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer f.Close()

				data, err := service.NewBackupService(store).Export(ctx, f)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "exported %d lists, %d sessions, %d messages, %d users to %s\n",
					len(data.WordLists), len(data.ChatSessions), len(data.Messages), len(data.Users), outputPath)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&exportOutput, "output", "", "output file (default: backup_YYYYMMDD_HHMMSS.json)")
	return cmd
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import documents from a JSON export",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if importClear && !importYes {
				ok, err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(),
					"WARNING: This will delete all existing data. Type 'yes' to confirm: ")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Import cancelled")
					return nil
				}
			}

			return withStore(cmd.Context(), func(ctx context.Context, store docstore.Store) error {
				f, err := os.Open(importInput)
				if err != nil {
					return fmt.Errorf("failed to open input file: %w", err)
				}
				defer f.Close()

				data, err := service.NewBackupService(store).Import(ctx, f, importClear)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d lists, %d sessions, %d messages, %d users\n",
					len(data.WordLists), len(data.ChatSessions), len(data.Messages), len(data.Users))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&importInput, "input", "", "input file (required)")
	cmd.Flags().BoolVar(&importClear, "clear", false, "delete existing documents first (destructive)")
	cmd.Flags().BoolVar(&importYes, "yes", false, "skip the --clear confirmation prompt")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

// withStore loads configuration, opens the configured store and closes it
// after fn returns
func withStore(ctx context.Context, fn func(context.Context, docstore.Store) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	store, err := docstore.OpenFromConfig(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(ctx, store)
}

func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprint(out, prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	return strings.TrimSpace(line) == "yes", nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
