package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spigell/hire-agent/internal/agents"
	"github.com/spigell/hire-agent/internal/ai"
	"go.uber.org/zap"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No, keep talking"
)

var confirmPrompt = promptui.Select{
	Label: "The brief looks complete. Draft the job description now?",
	Items: []string{PromptYes, PromptNo},
}

var consultCmd = &cobra.Command{
	Use:   "consult",
	Short: "Talk through a hiring need with the recruitment consultant",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		d := mustSetup(ctx)
		defer d.close()

		jdPath, _ := cmd.Flags().GetString("jd")
		jd, err := readDocument(jdPath)
		if err != nil {
			return err
		}

		role, _ := cmd.Flags().GetString("role")
		seniority, _ := cmd.Flags().GetString("seniority")
		mustHaves, _ := cmd.Flags().GetStringSlice("must-have")
		language, _ := cmd.Flags().GetString("language")

		hints := agents.ConsultantContext{
			Role:           role,
			Seniority:      seniority,
			MustHaves:      mustHaves,
			JobDescription: jd,
			Language:       language,
		}

		consultant := agents.NewConsultant(d.runner)
		session := uuid.NewString()
		var history []ai.Message

		d.logger.Info("consultation started", zap.String("correlation_id", session))

		for {
			input := promptui.Prompt{Label: "You"}
			message, err := input.Run()
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				return nil
			}
			if err != nil {
				return err
			}
			if strings.TrimSpace(message) == "" {
				continue
			}

			reply, err := consultant.Chat(ctx, agents.ConsultantInput{
				History:       history,
				Message:       message,
				Context:       hints,
				CorrelationID: session,
			})
			if err != nil {
				d.logger.Error("consultant call failed", zap.Error(err))
				continue
			}

			fmt.Printf("\n%s\n\n", reply.Reply)
			history = append(history, ai.UserMessage(message), ai.AssistantMessage(reply.Reply))

			if reply.Action != agents.ActionCreateRequest {
				continue
			}

			_, choice, err := confirmPrompt.Run()
			if err != nil {
				return err
			}
			if choice != PromptYes {
				continue
			}

			return draft(ctx, d, agents.DraftRequest{
				Title:          role,
				Requirements:   transcript(history),
				JobDescription: jd,
				Language:       language,
				CorrelationID:  session,
			})
		}
	},
}

func init() {
	rootCmd.AddCommand(consultCmd)

	consultCmd.Flags().String("jd", "", "existing job description file")
	consultCmd.Flags().String("role", "", "role being hired for")
	consultCmd.Flags().String("seniority", "", "seniority level")
	consultCmd.Flags().StringSlice("must-have", nil, "must-have requirement (repeatable or comma separated)")
	consultCmd.Flags().StringP("language", "l", "", "preferred reply language or locale, e.g. en, zh-CN")
}

// transcript renders the conversation as requirements for the JD writer.
func transcript(history []ai.Message) string {
	var b strings.Builder
	for _, m := range history {
		label := "Consultant"
		if m.Role == ai.RoleUser {
			label = "Hiring manager"
		}
		fmt.Fprintf(&b, "%s: %s\n", label, m.Content)
	}
	return b.String()
}
