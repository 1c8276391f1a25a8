package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/learnova/internal/config"
	"github.com/ziadkadry99/learnova/internal/logging"
)

var (
	cfgFile string
	verbose bool
	logger  = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "learnova",
	Short: "AI study assistant that explains questions at the depth you choose",
	Long: `Learnova explains study questions, typed or photographed, at a chosen
depth: a general answer, or one pitched at a Class 6, Class 10 or NEET/JEE
student. Run it as a web app with "learnova server", ask from the terminal
with "learnova ask", or plug it into an AI agent with "learnova mcp".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var (
			l   *zap.Logger
			err error
		)
		// The server logs JSON; interactive commands log for humans.
		if cmd.Name() == "server" {
			l, err = logging.New(verbose)
		} else {
			l, err = logging.Console(verbose)
		}
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
