package main

import (
	"fmt"

	"agrisense/internal/logger"
	"agrisense/internal/service"

	"github.com/spf13/cobra"
)

var adviseCmd = &cobra.Command{
	Use:   "advise",
	Short: "Grade the irrigation need from the current readings and forecast",
	Args:  cobra.NoArgs,
	RunE:  runAdvise,
}

func init() {
	rootCmd.AddCommand(adviseCmd)
}

func runAdvise(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	repos, closeFn, err := openRepository(cfg, logger.Nop())
	if err != nil {
		return err
	}
	defer closeFn()

	ctx := cmd.Context()
	sensors, err := repos.State.ReadSensors(ctx)
	if err != nil {
		return fmt.Errorf("read sensors: %w", err)
	}
	if sensors == nil {
		cmd.Println("no sensor data yet; missing readings count as 0")
	}

	forecast, err := newWeatherClient(cfg).FiveDayForecast(ctx)
	if err != nil {
		cmd.PrintErrf("forecast unavailable: %v\n", err)
	}

	adv := service.AdviseFromState(sensors, forecast)
	cmd.Printf("soil:        %s\n", service.SoilStatus(sensors))
	cmd.Printf("temperature: %s\n", service.TemperatureStatus(sensors))
	cmd.Printf("advice:      %s - %s\n", adv.Status, adv.Message)
	cmd.Printf("action:      %s\n", adv.Action)
	return nil
}
