package main

import (
	"context"

	"agrisense/internal/config"
	"agrisense/internal/service"

	"github.com/spf13/cobra"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Show or change the daily irrigation window",
}

var scheduleShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored schedule",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(cmd, func(ctx context.Context, _ *config.Config, services *service.Service) error {
			found, err := services.Scheduling.Load(ctx)
			if err != nil {
				return err
			}
			sched := services.Scheduling.Current()
			if !found || sched == nil {
				cmd.Println("no schedule stored")
				return nil
			}
			cmd.Printf("%s-%s enabled=%t\n", sched.Start(), sched.End(), sched.Enabled)
			return nil
		})
	},
}

var scheduleSetCmd = &cobra.Command{
	Use:   "set START END",
	Short: "Store a new window, times as HH:MM",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(cmd, func(ctx context.Context, _ *config.Config, services *service.Service) error {
			sched, err := services.Scheduling.Update(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			cmd.Printf("schedule saved: %s-%s\n", sched.Start(), sched.End())
			return nil
		})
	},
}

func init() {
	scheduleCmd.AddCommand(scheduleShowCmd, scheduleSetCmd)
	rootCmd.AddCommand(scheduleCmd)
}
