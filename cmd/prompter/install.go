package main

import (
	"github.com/joho/godotenv"
	"github.com/sandevgo/prompter/internal/config"
	"github.com/sandevgo/prompter/internal/service/installer"
	"github.com/sandevgo/prompter/pkg/log"
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:           "install",
	Short:         "Create the runtime directory and configuration",
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Setup logger
		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting installation process")

		runtimePath := config.GetRuntimePath()

		// run wizard (includes save step)
		_, err := installer.RunWizard(runtimePath)
		if err != nil {
			return err
		}

		appCfg := &config.AppConfig{RuntimePath: runtimePath}
		if err := godotenv.Load(appCfg.GetEnvPath()); err != nil {
			logger.Warn().Err(err).Str("path", appCfg.GetEnvPath()).Msg("failed to load .env file")
		}

		logger.Info().Msgf("initialized runtime directory at: %s", runtimePath)
		logger.Info().Msg("Installation complete! You can now run 'prompter start'.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
}
