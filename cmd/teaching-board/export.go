package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/username/teaching-board/internal/board"
)

func exportCmd() *cobra.Command {
	var token string
	var nowStr string
	var format string
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the timetable as an Excel workbook or iCalendar file",
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			if format != "xlsx" && format != "ics" {
				return fmt.Errorf("unknown format %q, want xlsx or ics", format)
			}

			now, err := parseNow(nowStr)
			if err != nil {
				return err
			}

			svc, _ := newService()
			v := svc.Load(cmd.Context(), tokenFromArg(token), now)
			if v.Warning != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), v.Warning)
			}

			var data []byte
			switch format {
			case "xlsx":
				buf, err := board.ExportXLSX(v)
				if err != nil {
					return err
				}
				data = buf.Bytes()
			case "ics":
				s, err := board.ExportICS(v)
				if err != nil {
					return err
				}
				data = []byte(s)
			}

			if out == "" {
				out = fmt.Sprintf("课表_%s.%s", v.Config.Calendar.Start, format)
			}
			if dir := filepath.Dir(out); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("failed to create output dir: %w", err)
				}
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}

			logger.Info("Export written", zap.String("file", out), zap.String("format", format), zap.Int("bytes", len(data)))
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&token, "token", "t", "", "Config token or share link (default config when empty)")
	cmd.Flags().StringVar(&nowStr, "now", "", "Export as of YYYY-MM-DDTHH:MM instead of now")
	cmd.Flags().StringVarP(&format, "format", "f", "xlsx", "Output format: xlsx or ics")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (课表_<start>.<format> when empty)")

	return cmd
}
