package cmd

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse a job description or a resume into structured JSON",
}

var parseJDCmd = &cobra.Command{
	Use:   "jd",
	Short: "Parse a job description file (.txt, .md or .pdf)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return parseDocument(cmd, func(ctx context.Context, d *deps, text, id string) (any, error) {
			return d.jdParser().Parse(ctx, text, id)
		})
	},
}

var parseResumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Parse a resume file (.txt, .md or .pdf)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return parseDocument(cmd, func(ctx context.Context, d *deps, text, id string) (any, error) {
			return d.resumeParser().Parse(ctx, text, id)
		})
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.AddCommand(parseJDCmd, parseResumeCmd)

	for _, c := range []*cobra.Command{parseJDCmd, parseResumeCmd} {
		c.Flags().StringP("file", "f", "", "document to parse")
		_ = c.MarkFlagRequired("file")
	}
}

func parseDocument(cmd *cobra.Command, parse func(ctx context.Context, d *deps, text, correlationID string) (any, error)) error {
	ctx := cmd.Context()

	d := mustSetup(ctx)
	defer d.close()

	path, _ := cmd.Flags().GetString("file")
	text, err := readDocument(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	id := uuid.NewString()
	d.logger.Info("parsing document", zap.String("file", path), zap.String("correlation_id", id))

	out, err := parse(ctx, d, text, id)
	if err != nil {
		return err
	}

	return printJSON(out)
}
