package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"fit-backend/internal/fit"
	"fit-backend/internal/shared/auth"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "fitctl",
		Short:         "Inspect and normalize fit analysis payloads",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newNormalizeCmd(), newDetectCmd(), newTokenCmd())
	return root
}

func newNormalizeCmd() *cobra.Command {
	var dedup string
	cmd := &cobra.Command{
		Use:   "normalize [file]",
		Short: "Print the normalized view of a stored payload",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			n := fit.Normalizer{Dedup: fit.ParseDedupPolicy(dedup)}
			view := n.Normalize(fit.Item{Raw: raw})
			return writeJSON(cmd.OutOrStdout(), view)
		},
	}
	cmd.Flags().StringVar(&dedup, "dedup", string(fit.DedupAll), "duplicate dimension policy: all, first, last, average")
	return cmd
}

func newDetectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect [file]",
		Short: "Report which payload shape a stored result has",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			d := fit.Detect(raw)
			fmt.Fprintln(out, d.Kind())
			if _, ok := d.(fit.V11); ok {
				return nil
			}
			if doc, ok := fit.DecodeRaw(raw).(map[string]any); ok {
				for _, msg := range fit.SchemaErrors(doc) {
					fmt.Fprintf(out, "  v1.1: %s\n", msg)
				}
			}
			return nil
		},
	}
}

func newTokenCmd() *cobra.Command {
	var userID, email, env string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a session token for local testing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(userID) == "" {
				return errors.New("--user is required")
			}
			issuer, err := auth.NewIssuer(os.Getenv("JWT_SECRET"), env)
			if err != nil {
				return err
			}
			token, err := issuer.Sign(userID, auth.Claims{Email: email})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id for the sub claim")
	cmd.Flags().StringVar(&email, "email", "", "optional email claim")
	cmd.Flags().StringVar(&env, "env", "dev", "environment; production requires JWT_SECRET")
	return cmd
}

// readInput returns the file argument, or stdin, as a string payload.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	var r io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return "", err
		}
		defer f.Close()
		r = f
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(b), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
