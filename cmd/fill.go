// File: cmd/fill.go
package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/formfill-cli/api/schemas"
	"github.com/xkilldash9x/formfill-cli/internal/formparser"
	"github.com/xkilldash9x/formfill-cli/internal/generator"
	"github.com/xkilldash9x/formfill-cli/internal/llmclient"
	"github.com/xkilldash9x/formfill-cli/internal/network"
	"github.com/xkilldash9x/formfill-cli/internal/observability"
	"github.com/xkilldash9x/formfill-cli/internal/orchestrator"
	"github.com/xkilldash9x/formfill-cli/internal/submitter"
)

// newFillCmd creates and configures the `fill` command.
func newFillCmd() *cobra.Command {
	var (
		numResponses int
		noAI         bool
		userName     string
		userEmail    string
	)

	fillCmd := &cobra.Command{
		Use:   "fill <form-url>",
		Short: "Submits generated responses to a Google Form",
		Long:  "Parses the form, generates an answer for every question and submits the requested number of responses, printing progress as it goes.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			req := schemas.FillFormRequest{
				FormURL:      args[0],
				NumResponses: numResponses,
			}
			if noAI {
				useAI := false
				req.UseAI = &useAI
			}
			if userName != "" || userEmail != "" {
				req.UserData = &schemas.UserData{Name: userName, Email: userEmail}
			}
			if err := req.Validate(appCfg.Fill.MaxResponses); err != nil {
				return err
			}

			orch, err := buildPipeline(logger)
			if err != nil {
				return err
			}

			sink := &consoleSink{out: cmd.OutOrStdout()}
			summary, err := orch.Run(ctx, req, sink)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\nDone: %d/%d submissions succeeded in %dms\n",
				summary.SuccessCount, summary.TotalRequested, summary.DurationMillis)
			return nil
		},
	}

	fillCmd.Flags().IntVarP(&numResponses, "responses", "n", 1, "Number of responses to submit")
	fillCmd.Flags().BoolVar(&noAI, "no-ai", false, "Skip AI generation and use canned answers")
	fillCmd.Flags().StringVar(&userName, "name", "", "Name to use for name questions")
	fillCmd.Flags().StringVar(&userEmail, "email", "", "Email to use for email questions")

	return fillCmd
}

// buildPipeline wires the same pipeline the API server runs, for local use.
func buildPipeline(logger *zap.Logger) (*orchestrator.Orchestrator, error) {
	fetchCfg := network.NewDefaultClientConfig()
	fetchCfg.RequestTimeout = appCfg.Network.RequestTimeout
	fetchCfg.UserAgent = appCfg.Network.UserAgent
	fetchCfg.Logger = logger

	submitCfg := network.NewDefaultClientConfig()
	submitCfg.RequestTimeout = appCfg.Network.RequestTimeout
	submitCfg.UserAgent = appCfg.Network.UserAgent
	submitCfg.FollowRedirects = false
	submitCfg.Logger = logger

	parser := formparser.New(network.NewClient(fetchCfg), logger)
	submitClient := submitter.New(network.NewClient(submitCfg), logger)

	var textGen schemas.TextGenerator
	if appCfg.Generator.APIKey == "" {
		logger.Warn("no generation API key configured (GEMINI_API_KEY); AI answers will use canned fallbacks")
	} else {
		var err error
		textGen, err = llmclient.New(appCfg.Generator, logger)
		if err != nil {
			return nil, err
		}
	}
	gen := generator.New(textGen, logger)

	return orchestrator.New(parser, gen, submitClient, appCfg.Fill.SubmitDelay, logger)
}

// consoleSink renders progress events as terminal lines.
type consoleSink struct {
	out io.Writer
}

func (s *consoleSink) Send(ev schemas.StreamEvent) error {
	switch ev.Type {
	case schemas.EventStatus, schemas.EventProgress:
		_, err := fmt.Fprintln(s.out, ev.Message)
		return err
	case schemas.EventSubmission:
		mark := "ok"
		if ev.Success == nil || !*ev.Success {
			mark = "FAILED"
			if ev.Error != "" {
				mark += ": " + ev.Error
			}
		}
		_, err := fmt.Fprintf(s.out, "  [%d/%d] %s\n", ev.ResponseNumber, ev.Total, mark)
		return err
	case schemas.EventError:
		_, err := fmt.Fprintf(s.out, "error: %s\n", ev.Error)
		return err
	}
	return nil
}
