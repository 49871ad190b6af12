package main

import (
	"fmt"
	"strconv"

	"laundryops/internal/config"

	"github.com/spf13/cobra"
)

func newSettingsCommand(ctx *commandContext) *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect notification settings",
	}
	settingsCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective SMTP and SMS settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := ctx.settings()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderPairs(settingsPairs(settings)))
			return nil
		},
	})
	return settingsCmd
}

func settingsPairs(s config.NotificationSettings) [][2]string {
	return [][2]string{
		{"SMTP server", s.SMTP.Server},
		{"SMTP port", strconv.Itoa(s.SMTP.Port)},
		{"SMTP username", orDash(s.SMTP.Username)},
		{"SMTP password", mask(s.SMTP.Password)},
		{"SMTP from", orDash(s.SMTP.Sender())},
		{"SMS enabled", yesNo(s.SMS.Enabled)},
		{"SMS API key", mask(s.SMS.APIKey)},
	}
}

func mask(secret string) string {
	if secret == "" {
		return "-"
	}
	return "********"
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
