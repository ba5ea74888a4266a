package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/username/teaching-board/internal/sharelink"
)

const defaultBase = "http://localhost:8080/"

func linkCmd() *cobra.Command {
	var base string

	cmd := &cobra.Command{
		Use:   "link <config.json|->",
		Short: "Build a share link from a JSON config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0])
			if err != nil {
				return err
			}

			var appCfg sharelink.AppConfig
			if err := json.Unmarshal(data, &appCfg); err != nil {
				return fmt.Errorf("failed to parse config: %w", err)
			}
			if err := sharelink.Validate(&appCfg); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			if base == "" {
				base = linkBase()
			}
			link, err := sharelink.Link(base, &appCfg)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), link)
			fmt.Fprintln(cmd.ErrOrStderr(), appCfg.Summary())
			return nil
		},
	}

	cmd.Flags().StringVar(&base, "base", "", "Viewer URL the token is appended to (server.base_url when empty)")

	return cmd
}

func decodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode <token|link>",
		Short: "Print the config carried by a token or share link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appCfg, err := sharelink.Decode(tokenFromArg(args[0]))
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(appCfg, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			fmt.Fprintln(cmd.ErrOrStderr(), appCfg.Summary())
			return nil
		},
	}

	return cmd
}

// tokenFromArg accepts a bare token, a link with a #fragment or a
// server-rendered link with ?c=. Plain JSON is returned as is since
// colours like #ffaaaa would otherwise read as a fragment.
func tokenFromArg(s string) string {
	s = strings.TrimSpace(s)
	if isJSONText(s) {
		return s
	}
	if _, frag, ok := strings.Cut(s, "#"); ok {
		return frag
	}
	if u, err := url.Parse(s); err == nil && u.Query().Has("c") {
		return u.Query().Get("c")
	}
	return s
}

// isJSONText reports whether s is a JSON object, raw or percent-encoded
func isJSONText(s string) bool {
	if strings.HasPrefix(s, "{") {
		return true
	}
	if text, err := url.PathUnescape(s); err == nil {
		return strings.HasPrefix(strings.TrimSpace(text), "{")
	}
	return false
}

func linkBase() string {
	if cfg != nil && cfg.Server.BaseURL != "" {
		return strings.TrimRight(cfg.Server.BaseURL, "/") + "/"
	}
	return defaultBase
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
