package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"agrisense/internal/config"
	"agrisense/internal/models"
	"agrisense/internal/service"

	"github.com/spf13/cobra"
)

var pumpCmd = &cobra.Command{
	Use:   "pump",
	Short: "Send a pump command to the device",
}

var pumpOnCmd = &cobra.Command{
	Use:   "on",
	Short: "Force the relay ON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setRelay(cmd, models.RelayOn)
	},
}

var pumpOffCmd = &cobra.Command{
	Use:   "off",
	Short: "Force the relay OFF",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setRelay(cmd, models.RelayOff)
	},
}

var pumpTimerCmd = &cobra.Command{
	Use:   "timer SECONDS",
	Short: "Run the pump for a number of seconds",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		seconds, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid seconds %q: %w", args[0], err)
		}
		return withServices(cmd, func(ctx context.Context, _ *config.Config, services *service.Service) error {
			entry, err := services.Relay.StartTimer(ctx, seconds)
			if err != nil {
				return err
			}
			printEntry(cmd, entry)
			return nil
		})
	},
}

var pumpAutoCmd = &cobra.Command{
	Use:       "auto on|off",
	Short:     "Enable or disable the device's automatic mode",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE: func(cmd *cobra.Command, args []string) error {
		enabled, err := parseSwitch(args[0])
		if err != nil {
			return err
		}
		return withServices(cmd, func(ctx context.Context, _ *config.Config, services *service.Service) error {
			if err := services.Relay.SetAutoControl(ctx, enabled); err != nil {
				return err
			}
			cmd.Printf("autoControl=%t\n", enabled)
			return nil
		})
	},
}

func init() {
	pumpCmd.AddCommand(pumpOnCmd, pumpOffCmd, pumpTimerCmd, pumpAutoCmd)
	rootCmd.AddCommand(pumpCmd)
}

func setRelay(cmd *cobra.Command, target models.RelayState) error {
	return withServices(cmd, func(ctx context.Context, _ *config.Config, services *service.Service) error {
		entry, err := services.Relay.SetRelay(ctx, target)
		if err != nil {
			return err
		}
		printEntry(cmd, entry)
		return nil
	})
}

func printEntry(cmd *cobra.Command, e models.IrrigationLogEntry) {
	if e.Duration > 0 {
		cmd.Printf("%s  %-5s %-6s %ds\n", e.Timestamp, e.Action, e.Mode, e.Duration)
		return
	}
	cmd.Printf("%s  %-5s %s\n", e.Timestamp, e.Action, e.Mode)
}

func parseSwitch(v string) (bool, error) {
	switch strings.ToLower(v) {
	case "on", "true", "1":
		return true, nil
	case "off", "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", v)
}
