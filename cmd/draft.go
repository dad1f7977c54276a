package cmd

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spigell/hire-agent/internal/agents"
	"go.uber.org/zap"
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Write a Markdown job description and suggest a title for it",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		d := mustSetup(ctx)
		defer d.close()

		title, _ := cmd.Flags().GetString("title")
		requirements, _ := cmd.Flags().GetString("requirements")
		language, _ := cmd.Flags().GetString("language")
		jdPath, _ := cmd.Flags().GetString("jd")

		jd, err := readDocument(jdPath)
		if err != nil {
			return err
		}

		return draft(ctx, d, agents.DraftRequest{
			Title:          title,
			Requirements:   requirements,
			JobDescription: jd,
			Language:       language,
			CorrelationID:  uuid.NewString(),
		})
	},
}

func init() {
	rootCmd.AddCommand(draftCmd)

	draftCmd.Flags().String("title", "", "role or working title")
	draftCmd.Flags().String("requirements", "", "requirements and context, free text")
	draftCmd.Flags().String("jd", "", "existing job description file to revise")
	draftCmd.Flags().StringP("language", "l", "", "reply language or locale, e.g. en, zh-CN (detected when empty)")
}

// draft prints the suggested title followed by the Markdown job description.
func draft(ctx context.Context, d *deps, req agents.DraftRequest) error {
	markdown, err := agents.NewJDWriter(d.runner).Write(ctx, req)
	if err != nil {
		return err
	}

	suggestion := req
	suggestion.JobDescription = markdown

	title, err := agents.NewTitleSuggester(d.runner).Suggest(ctx, suggestion)
	if err != nil {
		d.logger.Warn("title suggestion failed, keeping the given title", zap.Error(err))
		title = req.Title
	}
	if title == "" {
		title = agents.DefaultTitle
	}

	fmt.Printf("Title: %s\n\n%s\n", title, markdown)
	return nil
}
