package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/cashflow-forecast/internal"
	"github.com/gigurra/cashflow-forecast/internal/forecast"
	"github.com/gigurra/cashflow-forecast/internal/storage"
	"github.com/sirupsen/logrus"
)

type Params struct {
	Source      string `descr:"Data source type (detected from the file extension if empty)" alts:"profile-yaml,profile-json,cashflow-xlsx" optional:"true"`
	File        string `descr:"Path to the profile or cashflow file (format prefix allowed, e.g. profile-json:data.txt)" positional:"true"`
	Config      string `descr:"Config file path (default ~/.cashflow-forecast/config.yaml)" optional:"true"`
	Output      string `descr:"Output format" alts:"table,json" strict:"true" default:"table"`
	View        string `descr:"Period size for the summary (config default if empty)" alts:"day,month,term,year" optional:"true"`
	Daily       bool   `descr:"Show one row per day instead of period summaries" optional:"true"`
	Start       string `descr:"First forecast day, YYYY-MM-DD (default today)" optional:"true"`
	Months      int    `descr:"Forecast horizon in months (config default if 0)" default:"0"`
	WeeklySpend string `descr:"Weekly discretionary spend, overrides the profile" optional:"true"`
	DB          string `descr:"SQLite database to store the data in before forecasting" optional:"true"`
	User        string `descr:"User id for the database and onboarding records" default:"local"`
	XLSX        string `descr:"Also export the daily forecast to this Excel file" optional:"true"`
	LogLevel    string `descr:"Log level" alts:"debug,info,warn,error" default:"info"`
}

func main() {
	boa.NewCmdT[Params]("cashflow-forecast").
		WithShort("Forecast a day-by-day bank balance from income and expenses").
		WithLong("Projects the daily balance over the coming months from a starting balance, recurring and one-off cashflows and a weekly spend allowance, and reports the lowest point and when money runs out.").
		WithRunFunc(func(params *Params) {
			log, err := internal.NewLogger(params.LogLevel)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			if err := run(context.Background(), params, os.Stdout, log); err != nil {
				log.WithError(err).Error("Forecast failed")
				os.Exit(1)
			}
		}).
		Run()
}

func run(ctx context.Context, params *Params, stdout io.Writer, log logrus.FieldLogger) error {
	cfg, err := loadConfig(params.Config)
	if err != nil {
		return err
	}

	start := forecast.StartOfDay(time.Now())
	if params.Start != "" {
		start, err = internal.ParseDate(params.Start)
		if err != nil {
			return fmt.Errorf("--start: %w", err)
		}
	}

	data, err := internal.ReadUserData(params.Source, params.File)
	if err != nil {
		return fmt.Errorf("reading %s: %w", params.File, err)
	}
	data.ApplyOnboarding(params.User, internal.AcademicYear(start))

	if params.DB != "" {
		data, err = storeAndFetch(ctx, params.DB, params.User, data, log)
		if err != nil {
			return err
		}
	}

	if params.WeeklySpend != "" {
		if _, err := internal.ParseAmount(params.WeeklySpend); err != nil {
			return fmt.Errorf("--weekly-spend: %w", err)
		}
		if data.Profile != nil {
			data.Profile.WeeklySpend = internal.Amount(params.WeeklySpend)
		}
	}

	months := params.Months
	if months <= 0 {
		months = cfg.Horizon()
	}
	window := forecast.DateRange{Start: start, End: forecast.AddMonths(start, months)}

	input, errs := data.ForecastInput(cfg, window, log)
	for _, e := range errs {
		if errors.Is(e, internal.ErrNoProfile) || errors.Is(e, internal.ErrInvalidProfile) {
			return e
		}
		log.WithError(e).Warn("Skipping cashflow")
	}

	fc := forecast.BuildForecast(input)
	for _, title := range fc.Truncated {
		log.WithFields(logrus.Fields{
			"title": title,
			"limit": input.MaxIterations,
		}).Warn("Recurring cashflow hit the iteration limit, later occurrences are missing")
	}
	insights := forecast.AnalyzeForecast(fc.Days)

	log.WithFields(logrus.Fields{
		"rules": len(input.Rules),
		"days":  len(fc.Days),
		"from":  window.Start.Format(internal.DateLayout),
		"to":    window.End.Format(internal.DateLayout),
	}).Debug("Built forecast")

	view := cfg.DefaultViewOrFallback()
	if params.View != "" {
		view, err = forecast.ParseView(params.View)
		if err != nil {
			return err
		}
	}

	currencyCode := cfg.CurrencyCode()
	if data.Profile != nil && data.Profile.Currency != "" {
		currencyCode = data.Profile.Currency
	}

	opts := internal.OutputOptions{
		View:              view,
		Daily:             params.Daily,
		Currency:          internal.GetCurrency(currencyCode),
		LowBalanceWarning: cfg.LowBalanceWarning,
	}

	if params.XLSX != "" {
		if err := internal.ExportForecastXLSX(params.XLSX, fc, insights, opts.Currency); err != nil {
			return fmt.Errorf("exporting %s: %w", params.XLSX, err)
		}
		log.WithField("path", params.XLSX).Info("Exported forecast")
	}

	if params.Output == "json" {
		return internal.PrintForecastJSON(stdout, fc, insights, opts)
	}
	internal.PrintForecastTable(stdout, fc, insights, opts)
	return nil
}

// loadConfig reads the given config file, or the default one if it exists.
func loadConfig(path string) (*internal.Config, error) {
	if path != "" {
		return internal.LoadConfig(path)
	}

	path = internal.DefaultConfigPath()
	if path == "" {
		return internal.NewDefaultConfig(), nil
	}
	cfg, err := internal.LoadConfig(path)
	if errors.Is(err, fs.ErrNotExist) {
		return internal.NewDefaultConfig(), nil
	}
	return cfg, err
}

// storeAndFetch saves the parsed data for userID and returns what the store
// hands back, so the forecast runs on persisted records.
func storeAndFetch(ctx context.Context, path, userID string, data internal.UserData, log logrus.FieldLogger) (internal.UserData, error) {
	store, err := storage.Open(path, log)
	if err != nil {
		return internal.UserData{}, err
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(ctx); err != nil {
		return internal.UserData{}, err
	}

	if data.Profile != nil {
		profile := *data.Profile
		profile.UserID = userID
		if err := store.SaveProfile(ctx, profile); err != nil {
			return internal.UserData{}, err
		}
	}
	if _, err := store.ReplaceCashflows(ctx, userID, data.Cashflows); err != nil {
		return internal.UserData{}, err
	}

	return store.FetchUserData(ctx, userID)
}
