package cmd

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spigell/hire-agent/internal/agents"
	"go.uber.org/zap"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score a resume against a job description",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		d := mustSetup(ctx)
		defer d.close()

		resume, jd, err := readPair(cmd)
		if err != nil {
			return err
		}

		res, err := agents.NewMatcher(d.runner).Match(ctx, resume, jd, uuid.NewString())
		if err != nil {
			return err
		}

		d.logger.Info("match finished",
			zap.Int("score", int(res.OverallMatchScore.Score)),
			zap.Stringer("grade", res.OverallMatchScore.Grade),
			zap.Stringer("verdict", res.OverallFit.Verdict),
		)

		return printJSON(res)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)
	addPairFlags(matchCmd)
}

func addPairFlags(c *cobra.Command) {
	c.Flags().StringP("resume", "r", "", "resume file (.txt, .md or .pdf)")
	c.Flags().String("jd", "", "job description file (.txt, .md or .pdf)")
	_ = c.MarkFlagRequired("resume")
	_ = c.MarkFlagRequired("jd")
}

func readPair(cmd *cobra.Command) (resume, jd string, err error) {
	resumePath, _ := cmd.Flags().GetString("resume")
	jdPath, _ := cmd.Flags().GetString("jd")

	if resume, err = readDocument(resumePath); err != nil {
		return "", "", err
	}
	if jd, err = readDocument(jdPath); err != nil {
		return "", "", err
	}

	return resume, jd, nil
}
