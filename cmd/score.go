package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/lead-scorer/internal/csvcodec"
	"github.com/spigell/lead-scorer/internal/leads"
	"github.com/spigell/lead-scorer/internal/logger"
	"github.com/spigell/lead-scorer/internal/notify"
	"github.com/spigell/lead-scorer/internal/scoring"
	"github.com/spigell/lead-scorer/internal/session"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var errDeclined = errors.New("posting declined")

// confirm asks before anything is posted. Replaced in tests.
var confirm = func() (bool, error) {
	prompt := promptui.Select{
		Label: "Post top leads to Slack?",
		Items: []string{PromptYes, PromptNo},
	}
	_, action, err := prompt.Run()
	if err != nil {
		return false, err
	}
	return action == PromptYes, nil
}

type scoreOptions struct {
	OfferFile   string
	LeadsFile   string
	OutFile     string
	Notify      bool
	AutoApprove bool
}

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a lead CSV against an offer file without starting the server",
	Run: func(cmd *cobra.Command, _ []string) {
		runScore(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringP("offer", "o", "", "offer file in YAML or JSON")
	scoreCmd.Flags().StringP("leads", "l", "", "lead CSV file")
	scoreCmd.Flags().String("out", "", "write scored results to this CSV file")
	scoreCmd.Flags().BoolP("notify", "n", false, "post the top leads to the Slack webhook")
	scoreCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation before posting")

	scoreCmd.MarkFlagRequired("offer")
	scoreCmd.MarkFlagRequired("leads")
}

func runScore(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	opts := scoreOptions{}
	opts.OfferFile, _ = cmd.Flags().GetString("offer")
	opts.LeadsFile, _ = cmd.Flags().GetString("leads")
	opts.OutFile, _ = cmd.Flags().GetString("out")
	opts.Notify, _ = cmd.Flags().GetBool("notify")
	opts.AutoApprove, _ = cmd.Flags().GetBool("auto-approve")

	var sink notify.Sink
	if opts.Notify {
		sink, err = newNotifier(config.Notify, logger)
		if err != nil {
			logger.Fatal("loading slack webhook", zap.Error(err))
		}
		if sink == nil {
			logger.Fatal("slack webhook is not configured",
				zap.String("hint", "set SLACK_WEBHOOK_URL or SLACK_WEBHOOK_URL_FILE"),
			)
		}
	}

	// The coordinator never posts on its own here; scoreLeads asks first.
	coordinator, err := newCoordinator(ctx, config, nil, logger)
	if err != nil {
		logger.Fatal("building scoring sessions", zap.Error(err))
	}

	err = scoreLeads(ctx, cmd.OutOrStdout(), coordinator, sink, opts, logger)
	switch {
	case errors.Is(err, errDeclined):
		logger.Info("exiting", zap.String("reason", "got no from prompt"))
	case err != nil:
		logger.Fatal("scoring leads", zap.Error(err))
	}
}

func scoreLeads(ctx context.Context, out io.Writer, coordinator *session.Coordinator, sink notify.Sink, opts scoreOptions, logger *zap.Logger) error {
	s, err := coordinator.Get(session.DefaultID)
	if err != nil {
		return err
	}

	offer, err := leads.LoadOffer(opts.OfferFile)
	if err != nil {
		return err
	}
	if _, err := s.SetOffer(offer); err != nil {
		return err
	}

	f, err := os.Open(opts.LeadsFile)
	if err != nil {
		return fmt.Errorf("opening leads file: %w", err)
	}
	count, err := s.UploadLeads(f)
	f.Close()
	if err != nil {
		return err
	}

	logger.Info("scoring leads", zap.Int("count", count), zap.String("offer", offer.Name))

	results, err := s.Run(ctx)
	if err != nil {
		return err
	}

	if opts.OutFile != "" {
		if err := writeResults(opts.OutFile, results); err != nil {
			return err
		}
		logger.Info("dumping result to file", zap.String("filename", opts.OutFile))
	}

	summary, err := s.Summarize(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, summary.Text)

	if !opts.Notify || sink == nil {
		return nil
	}

	if !opts.AutoApprove {
		ok, err := confirm()
		if err != nil {
			return err
		}
		if !ok {
			return errDeclined
		}
	}

	if err := sink.Send(ctx, scoring.Announcement(summary.Top)); err != nil {
		return fmt.Errorf("posting top leads: %w", err)
	}

	logger.Info("posted top leads", zap.Strings("leads", (&leads.Results{Items: summary.Top}).Names()))
	return nil
}

func writeResults(path string, results []leads.ScoredLead) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating results file: %w", err)
	}

	if err := csvcodec.EncodeResults(f, results); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
