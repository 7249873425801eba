package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"classcal/internal/compile"
	"classcal/internal/config"
	appLog "classcal/internal/log"
	"classcal/internal/scrape"
	"classcal/internal/web"
)

type flagConfig struct {
	configPath string
	listen     string
	outDir     string
	once       bool
	verbose    bool
}

func main() {
	appLog.Info("classcal starting", "version", "0.1.0")

	flags := parseFlags()
	if flags.verbose {
		appLog.SetLevel(appLog.LevelDebug)
	}

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}
	if flags.listen != "" {
		conf.Listen = flags.listen
	}
	if flags.outDir != "" {
		conf.OutputDir = flags.outDir
	}

	appLog.Info("effective config",
		"listen", conf.Listen,
		"timezone", conf.Timezone,
		"calendar_name", conf.CalendarName,
		"output_dir", conf.OutputDir,
		"refresh", conf.RefreshCron,
		"meeting_count", len(conf.Meetings),
		"holiday_count", len(conf.Holidays),
		"feed_count", len(conf.HolidayFeeds),
		"once", flags.once,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	cacheDir := filepath.Join(conf.OutputDir, ".classcal-cache")

	// A configured timetable page contributes meeting rows once at
	// startup; the config file's own meetings list always applies.
	if conf.Scrape != nil && conf.Scrape.URL != "" {
		rows, err := scrape.FetchRows(ctx, scrape.Options{
			URL:           conf.Scrape.URL,
			ReadySelector: conf.Scrape.ReadySelector,
			Timeout:       time.Duration(conf.Scrape.TimeoutSec) * time.Second,
		})
		if err != nil {
			appLog.Error("timetable scrape failed", err, "url", conf.Scrape.URL)
			os.Exit(1)
		}
		scraped := scrape.MeetingConfigs(rows)
		appLog.Info("timetable scraped", "row_count", len(scraped))
		conf.Meetings = append(conf.Meetings, scraped...)
	}

	if flags.once {
		if err := compileToFile(ctx, conf, cacheDir); err != nil {
			os.Exit(1)
		}
		return
	}

	// Daemon mode: compile now, then on the cron schedule, with the API
	// served alongside.
	if err := compileToFile(ctx, conf, cacheDir); err != nil {
		os.Exit(1)
	}

	c := cron.New()
	if _, err := c.AddFunc(conf.RefreshCron, func() {
		_ = compileToFile(ctx, conf, cacheDir)
	}); err != nil {
		appLog.Error("invalid refresh cron expression", err, "refresh", conf.RefreshCron)
		os.Exit(1)
	}
	c.Start()
	defer c.Stop()

	if err := web.Start(ctx, conf, cacheDir); err != nil {
		appLog.Error("HTTP server failed", err)
		os.Exit(1)
	}

	appLog.Info("classcal exiting")
}

func compileToFile(ctx context.Context, conf *config.Config, cacheDir string) error {
	started := time.Now()
	res, err := compile.Compile(ctx, conf, time.Now(), cacheDir)
	if err != nil {
		appLog.Error("calendar compilation failed", err)
		return err
	}
	path, err := compile.WriteFile(conf.OutputDir, res)
	if err != nil {
		appLog.Error("calendar write failed", err, "output_dir", conf.OutputDir)
		return err
	}
	appLog.Info("calendar written",
		"path", path,
		"event_count", len(res.Events),
		"bytes", len(res.Text),
		"elapsed_ms", time.Since(started).Milliseconds(),
	)
	return nil
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "classcal.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.StringVar(&cfg.outDir, "out", "", "Output directory (overrides config if set)")
	flag.BoolVar(&cfg.once, "once", false, "Compile the calendar once and exit")
	flag.BoolVar(&cfg.verbose, "v", false, "Enable debug logging")

	flag.Parse()

	return cfg
}
