package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"cfcal/internal/calendar"
	"cfcal/internal/config"
	"cfcal/internal/date"
	"cfcal/internal/export"
	appLog "cfcal/internal/log"
	"cfcal/internal/period"
	"cfcal/internal/timevec"
)

// flagConfig holds CLI flag values before the config file is loaded.
type flagConfig struct {
	configPath    string
	listCalendars bool
	calendarAlias string
	from          string
	to            string
	step          string
	leftOpen      bool
	rightOpen     bool
	icsOutput     string
	cronSpec      string
	jsonLog       bool
}

func main() {
	flags := parseFlags()

	if err := appLog.Initialize(flags.jsonLog); err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logging:", err)
		os.Exit(1)
	}
	appLog.Info("cfcal starting", "version", "0.1.0-dev")

	if flags.listCalendars {
		for _, alias := range calendar.Aliases() {
			fmt.Println(alias)
		}
		return
	}

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}

	// CLI flags override config file values where provided.
	if flags.calendarAlias != "" {
		conf.Calendar = flags.calendarAlias
	}
	if flags.step != "" {
		conf.Step = flags.step
	}
	if flags.icsOutput != "" {
		conf.ICSOutput = flags.icsOutput
	}
	if flags.cronSpec != "" {
		conf.Cron = flags.cronSpec
	}
	leftOpen := flags.leftOpen || conf.LeftOpen
	rightOpen := flags.rightOpen || conf.RightOpen

	appLog.Info("effective config",
		"calendar", conf.Calendar,
		"step", conf.Step,
		"left_open", leftOpen,
		"right_open", rightOpen,
		"ics_output", conf.ICSOutput,
		"cron", conf.Cron,
	)

	cal, err := calendar.FromAlias(conf.Calendar)
	if err != nil {
		appLog.Error("unknown calendar", err, "alias", conf.Calendar)
		os.Exit(1)
	}
	if flags.from == "" || flags.to == "" {
		appLog.Error("missing period endpoints", fmt.Errorf("-from and -to are required"))
		os.Exit(1)
	}
	initial, err := date.Parse(flags.from, cal)
	if err != nil {
		appLog.Error("invalid -from date", err, "from", flags.from)
		os.Exit(1)
	}
	final, err := date.Parse(flags.to, cal)
	if err != nil {
		appLog.Error("invalid -to date", err, "to", flags.to)
		os.Exit(1)
	}
	p, err := period.New(initial, final, leftOpen, rightOpen)
	if err != nil {
		appLog.Error("invalid period", err, "from", flags.from, "to", flags.to)
		os.Exit(1)
	}
	step, err := timevec.ParseDuration(conf.Step)
	if err != nil {
		appLog.Error("invalid step", err, "step", conf.Step)
		os.Exit(1)
	}

	run := func() {
		if err := runExport(p, step, conf.ICSOutput); err != nil {
			appLog.Error("export failed", err)
		}
	}

	if conf.Cron == "" {
		if err := runExport(p, step, conf.ICSOutput); err != nil {
			appLog.Error("export failed", err)
			os.Exit(1)
		}
		return
	}

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(conf.Cron, run); err != nil {
		appLog.Error("invalid cron schedule", err, "cron", conf.Cron)
		os.Exit(1)
	}
	run()
	scheduler.Start()

	<-ctx.Done()
	stopCtx := scheduler.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(5 * time.Second):
	}
	appLog.Info("cfcal exiting")
}

// runExport samples the period and either writes the ICS file or prints the
// sampled dates.
func runExport(p period.Period, step timevec.Duration, icsOutput string) error {
	col, err := p.RegularSample(step, period.SampleConfig{})
	if err != nil {
		return err
	}
	appLog.Info("period sampled",
		"period", p.String(), "step", step.String(), "samples", col.Len())
	if icsOutput == "" {
		for i := 0; i < col.Len(); i++ {
			fmt.Println(col.At(i))
		}
		return nil
	}
	ical, err := export.ICS(col, "cfcal")
	if err != nil {
		return err
	}
	if err := os.WriteFile(icsOutput, []byte(ical.Serialize()), 0o644); err != nil {
		return err
	}
	appLog.Info("ics written", "path", icsOutput, "events", col.Len())
	return nil
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "/etc/cfcal/config.yaml", "Path to config file")
	flag.BoolVar(&cfg.listCalendars, "list-calendars", false, "List supported calendar aliases and exit")
	flag.StringVar(&cfg.calendarAlias, "calendar", "", "Calendar alias (overrides config if set)")
	flag.StringVar(&cfg.from, "from", "", "Period start, e.g. 1979-01-01 or 1979-01-01T00:00:00Z")
	flag.StringVar(&cfg.to, "to", "", "Period end")
	flag.StringVar(&cfg.step, "step", "", "Sampling step, e.g. 1d, 6h or 0,0,0,6 (overrides config if set)")
	flag.BoolVar(&cfg.leftOpen, "left-open", false, "Exclude the period start")
	flag.BoolVar(&cfg.rightOpen, "right-open", false, "Exclude the period end")
	flag.StringVar(&cfg.icsOutput, "ics", "", "Write samples as an iCalendar file (overrides config if set)")
	flag.StringVar(&cfg.cronSpec, "cron", "", "Re-run the export on a cron schedule (overrides config if set)")
	flag.BoolVar(&cfg.jsonLog, "json-log", false, "Emit JSON logs instead of console output")

	flag.Parse()

	return cfg
}
