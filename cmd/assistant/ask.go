// cmd/assistant/ask.go
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"jira-assistant/internal/common/logger"
	"jira-assistant/internal/models"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newAskCommand() *cobra.Command {
	var (
		sessionID string
		extra     string
		asJSON    bool
	)
	cmd := &cobra.Command{
		Use:   "ask <query...>",
		Short: "Answer a single query and print the response",
		Long: `Runs one query through the assistant without starting the HTTP service.

Example:
  assistant ask "create epic in project ABC with summary Login revamp"
  assistant ask --session demo "list all sprints"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configure(configPath)
			if err != nil {
				return err
			}
			zapLog := logger.New(cfg.Logging.Level, "console")
			defer zapLog.Sync()

			a, err := newApp(cmd.Context(), cfg, zapLog, 1)
			if err != nil {
				return err
			}
			defer a.Close()

			if sessionID == "" {
				sessionID = uuid.NewString()
			}
			session := a.sessions.GetOrCreate(cmd.Context(), sessionID)

			var externalContext *string
			if extra != "" {
				externalContext = &extra
			}
			envelope := a.router.ProcessQuery(cmd.Context(), session, strings.Join(args, " "), externalContext)
			_ = a.sessions.Save(cmd.Context(), session)

			return printEnvelope(cmd.OutOrStdout(), envelope, asJSON)
		},
	}
	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "Session id to continue (a new one is generated when empty)")
	cmd.Flags().StringVar(&extra, "context", "", "Additional context passed with the query")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full response envelope as JSON")
	return cmd
}

func printEnvelope(w io.Writer, envelope models.ResponseEnvelope, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(envelope)
	}
	_, err := fmt.Fprintf(w, "%s\n\nconfidence: %.2f  sources: %s\n",
		envelope.Message, envelope.Confidence, strings.Join(envelope.Sources, ", "))
	return err
}
