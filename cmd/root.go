package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/dSearch/cmd/bench"
	"github.com/ValentinKolb/dSearch/cmd/scroll"
	"github.com/ValentinKolb/dSearch/cmd/update"
	"github.com/ValentinKolb/dSearch/cmd/util"
	"github.com/ValentinKolb/dSearch/cmd/verify"
	"github.com/ValentinKolb/dSearch/rpc/common"
	"github.com/spf13/cobra"
)

const (
	Version = "0.3.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "dsearch",
		Short: "search protocol message codec",
		Long: fmt.Sprintf(`dSearch (v%s)

Encode, decode and inspect messages of the search protocol.
Binary messages are written for a negotiated protocol version
(%s - %s), text messages are read field by field.`, Version, common.MinimumCompatible, common.Current),
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			util.PrintMetrics(cmd.OutOrStdout())
		},
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of dSearch",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dSearch v%s (protocol %s - %s)\n", Version, common.MinimumCompatible, common.Current)
		},
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitClientConfig)

	// Add Commands
	RootCmd.AddCommand(scroll.ScrollCommands)
	RootCmd.AddCommand(update.UpdateCommands)
	RootCmd.AddCommand(verify.VerifyCmd)
	RootCmd.AddCommand(bench.BenchCmd)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	util.SetupCodecFlags(RootCmd)
}

// setup binds the flags of the executed command and initializes the loggers
func setup(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}
	config, err := util.GetClientConfig()
	if err != nil {
		return err
	}
	return common.InitLoggers(config.LogLevel)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
