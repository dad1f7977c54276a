package cmd

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spigell/hire-agent/internal/agents"
	"go.uber.org/zap"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate an interview transcript",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		d := mustSetup(ctx)
		defer d.close()

		resume, jd, err := readPair(cmd)
		if err != nil {
			return err
		}

		transcriptPath, _ := cmd.Flags().GetString("transcript")
		transcript, err := readDocument(transcriptPath)
		if err != nil {
			return err
		}

		eval, err := agents.NewInterviewEvaluator(d.runner).Evaluate(ctx, resume, jd, transcript, uuid.NewString())
		if err != nil {
			return err
		}

		d.logger.Info("evaluation finished",
			zap.Int("overall_score", int(eval.OverallScore)),
			zap.String("recommendation", eval.HiringRecommendation),
		)

		return printJSON(eval)
	},
}

func init() {
	rootCmd.AddCommand(evaluateCmd)
	addPairFlags(evaluateCmd)

	evaluateCmd.Flags().StringP("transcript", "t", "", "interview transcript file")
	_ = evaluateCmd.MarkFlagRequired("transcript")
}
