package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/spigell/hire-agent/internal/agents"
	"github.com/spigell/hire-agent/internal/filtering"
	"go.uber.org/zap"
)

var resumeExtensions = []string{".pdf", ".txt", ".md"}

var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Score a batch of resumes against one job description and rank the survivors",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		d := mustSetup(ctx)
		defer d.close()

		jdPath, _ := cmd.Flags().GetString("jd")
		jd, err := readDocument(jdPath)
		if err != nil {
			return err
		}

		files, _ := cmd.Flags().GetStringSlice("resume")
		dir, _ := cmd.Flags().GetString("dir")
		paths, err := resumePaths(files, dir)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			return fmt.Errorf("no resumes given: use --resume or --dir")
		}

		candidates, err := filtering.Load(paths)
		if err != nil {
			return err
		}

		steps := filtering.Default()
		if skip, _ := cmd.Flags().GetBool("no-ai"); skip {
			filtering.DisableByName(steps, "ai_fit", "disabled by --no-ai")
		}

		cfg := &filtering.Config{
			MinimumScore:     viper.GetInt("screening.minimum-score"),
			KeepDisqualified: viper.GetBool("screening.keep-disqualified"),
			ExcludeFile:      viper.GetString("screening.exclude-file"),
			Concurrency:      viper.GetInt("screening.concurrency"),
		}

		screened, err := filtering.Run(ctx, cfg, filtering.Deps{
			Logger:        d.logger,
			Matcher:       agents.NewMatcher(d.runner),
			JD:            jd,
			CorrelationID: uuid.NewString(),
		}, steps, candidates)
		if err != nil {
			return err
		}

		for _, status := range filtering.Describe(steps) {
			d.logger.Debug("filter status",
				zap.String("name", status.Name),
				zap.Bool("enabled", status.Enabled),
				zap.String("reason", status.Reason),
				zap.Any("details", status.Details),
			)
		}

		return printJSON(screened)
	},
}

func init() {
	rootCmd.AddCommand(screenCmd)

	screenCmd.Flags().String("jd", "", "job description file (.txt, .md or .pdf)")
	screenCmd.Flags().StringSliceP("resume", "r", nil, "resume file (repeatable)")
	screenCmd.Flags().String("dir", "", "directory with resumes")
	screenCmd.Flags().Int("min-score", 0, "drop candidates scoring below this")
	screenCmd.Flags().Bool("keep-disqualified", false, "keep candidates failing must-have requirements")
	screenCmd.Flags().String("exclude-file", "", "json file of already screened out candidates, updated with new rejections")
	screenCmd.Flags().Int("concurrency", 4, "parallel match calls")
	screenCmd.Flags().Bool("no-ai", false, "only apply the local filters")
	_ = screenCmd.MarkFlagRequired("jd")

	viper.BindPFlag("screening.minimum-score", screenCmd.Flags().Lookup("min-score"))
	viper.BindPFlag("screening.keep-disqualified", screenCmd.Flags().Lookup("keep-disqualified"))
	viper.BindPFlag("screening.exclude-file", screenCmd.Flags().Lookup("exclude-file"))
	viper.BindPFlag("screening.concurrency", screenCmd.Flags().Lookup("concurrency"))
}

// resumePaths merges explicit files with the supported files found directly in dir.
func resumePaths(files []string, dir string) ([]string, error) {
	paths := slices.Clone(files)
	if strings.TrimSpace(dir) == "" {
		return paths, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading resume directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !slices.Contains(resumeExtensions, strings.ToLower(filepath.Ext(entry.Name()))) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}

	return paths, nil
}
