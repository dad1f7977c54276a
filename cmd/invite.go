package cmd

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spigell/hire-agent/internal/invitation"
	"go.uber.org/zap"
)

var inviteCmd = &cobra.Command{
	Use:   "invite",
	Short: "Invite a candidate to an interview (drafted email or invitation API, see invitation.mode)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		d := mustSetup(ctx)
		defer d.close()

		sender, err := d.inviter()
		if err != nil {
			return err
		}

		resume, jd, err := readPair(cmd)
		if err != nil {
			return err
		}

		email, _ := cmd.Flags().GetString("recruiter-email")
		requirement, _ := cmd.Flags().GetString("requirement")

		res, err := sender.Send(ctx, invitation.Request{
			Resume:                 resume,
			JD:                     jd,
			RecruiterEmail:         email,
			InterviewerRequirement: requirement,
			CorrelationID:          uuid.NewString(),
		})
		if err != nil {
			return err
		}

		d.logger.Info("invitation ready", zap.String("mode", d.config.Invitation.Mode))

		return printJSON(res)
	},
}

func init() {
	rootCmd.AddCommand(inviteCmd)
	addPairFlags(inviteCmd)

	inviteCmd.Flags().String("recruiter-email", "", "recruiter email passed to the invitation API (api mode)")
	inviteCmd.Flags().String("requirement", "", "interviewer requirement passed to the invitation API (api mode)")
}
