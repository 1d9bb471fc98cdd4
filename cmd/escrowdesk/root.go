package main

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/escrowdesk/escrowdesk/internal/api"
	"github.com/escrowdesk/escrowdesk/internal/config"
	"github.com/escrowdesk/escrowdesk/internal/log"
	"github.com/escrowdesk/escrowdesk/internal/session"
)

var (
	cfgPath string

	cfg        config.Config
	logger     *zerolog.Logger
	sess       *session.Session
	client     *api.Client
	displayLoc *time.Location
)

var rootCmd = &cobra.Command{
	Use:           "escrowdesk",
	Short:         "Operator console for the escrow platform",
	Long:          "escrowdesk is the admin console for the peer-to-peer escrow platform:\ndashboards, user and transaction browsing, withdrawal settlement, and\nlive dispute chat.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		bootLogger := log.New("info")

		loaded, path, err := config.Load(bootLogger, cfgPath)
		if err != nil {
			return err
		}
		cfg = loaded

		logger = log.New(cfg.LogLevel)
		logger.Debug().Str("config", path).Msg("configuration loaded")

		sess, err = session.Open(cfg.TokenPath)
		if err != nil {
			return err
		}
		if cmd.Name() != "login" && sess.Expired(time.Now()) {
			logger.Warn().Msg("stored credential is past its expiry; the platform will reject it")
		}

		client = api.New(cfg.APIBaseURL, cfg.RequestTimeout, sess, logger)

		displayLoc, err = time.LoadLocation(cfg.DisplayTimezone)
		if err != nil {
			logger.Warn().Err(err).Str("tz", cfg.DisplayTimezone).Msg("falling back to UTC for display")
			displayLoc = time.UTC
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file")

	rootCmd.AddCommand(
		loginCmd,
		logoutCmd,
		dashboardCmd,
		usersCmd,
		transactionsCmd,
		withdrawalsCmd,
		disputesCmd,
		customerCmd,
		chatCmd,
		auditCmd,
	)
}
