package cli

import (
	"fmt"

	"github.com/lu-zhengda/macclean/internal/config"
	"github.com/lu-zhengda/macclean/internal/schedule"
	"github.com/spf13/cobra"
)

var (
	scheduleTime     string
	scheduleInterval string
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Manage the scheduled background clean",
	Long:  "Install or remove a LaunchAgent that runs 'macclean clean --all --yes --quiet'\non a daily or weekly schedule.",
}

var scheduleEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Install and load the LaunchAgent",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := currentConfig()
		if cmd.Flags().Changed("time") {
			cfg.Schedule.Time = scheduleTime
		}
		if cmd.Flags().Changed("interval") {
			cfg.Schedule.Interval = scheduleInterval
		}

		job, err := schedule.NewJob(cfg.Schedule.Time, cfg.Schedule.Interval, schedule.BinaryPath())
		if err != nil {
			return err
		}
		agent := schedule.NewAgent(schedule.PlistPath(), nil)
		if err := agent.Enable(job); err != nil {
			return err
		}

		cfg.Schedule.Enabled = true
		if err := saveConfig(cfg); err != nil {
			return err
		}
		logger.Debug("schedule enabled", "plist", agent.Path(), "when", job.Describe())
		printSuccess("Scheduled clean %s.", job.Describe())
		return nil
	},
}

var scheduleDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Unload and remove the LaunchAgent",
	RunE: func(cmd *cobra.Command, args []string) error {
		agent := schedule.NewAgent(schedule.PlistPath(), nil)
		if err := agent.Disable(); err != nil {
			return err
		}
		cfg := currentConfig()
		cfg.Schedule.Enabled = false
		if err := saveConfig(cfg); err != nil {
			return err
		}
		printSuccess("Scheduled clean disabled.")
		return nil
	},
}

type scheduleJSON struct {
	Installed bool   `json:"installed"`
	Enabled   bool   `json:"enabled"`
	Interval  string `json:"interval"`
	Time      string `json:"time"`
	Notify    bool   `json:"notify"`
	PlistPath string `json:"plist_path"`
	LogPath   string `json:"log_path"`
}

var scheduleStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the scheduled clean is installed",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := currentConfig()
		agent := schedule.NewAgent(schedule.PlistPath(), nil)
		out := scheduleJSON{
			Installed: agent.Installed(),
			Enabled:   cfg.Schedule.Enabled,
			Interval:  cfg.Schedule.Interval,
			Time:      cfg.Schedule.Time,
			Notify:    cfg.Schedule.Notify,
			PlistPath: agent.Path(),
			LogPath:   schedule.LogPath(),
		}
		if jsonFlag {
			return printJSON(out)
		}

		if !out.Installed {
			printInfo("No scheduled clean is installed. Run 'macclean schedule enable' to add one.")
			if out.Enabled {
				printWarning("schedule.enabled is set but %s is missing.", out.PlistPath)
			}
			return nil
		}
		when := out.Interval + " at " + out.Time
		if job, err := schedule.NewJob(out.Time, out.Interval, ""); err == nil {
			when = job.Describe()
		}
		printSuccess("Scheduled clean runs %s.", when)
		fmt.Printf("  Plist: %s\n", out.PlistPath)
		fmt.Printf("  Log:   %s\n", out.LogPath)
		return nil
	},
}

func saveConfig(cfg *config.Config) error {
	path, err := resolvedConfigPath()
	if err != nil {
		return err
	}
	if err := cfg.Save(path); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

func init() {
	scheduleEnableCmd.Flags().StringVar(&scheduleTime, "time", "", "Time of day to run (HH:MM)")
	scheduleEnableCmd.Flags().StringVar(&scheduleInterval, "interval", "", "daily or weekly")
	scheduleCmd.AddCommand(scheduleEnableCmd)
	scheduleCmd.AddCommand(scheduleDisableCmd)
	scheduleCmd.AddCommand(scheduleStatusCmd)
}
