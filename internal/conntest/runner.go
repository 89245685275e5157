package conntest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/deppfellow/surf-tools/internal/config"
	"github.com/deppfellow/surf-tools/internal/console"
	"github.com/deppfellow/surf-tools/internal/errs"
	"github.com/deppfellow/surf-tools/internal/model"
	"github.com/deppfellow/surf-tools/internal/sqlerr"
	"github.com/rs/zerolog"
)

const (
	sampleBreaks = 3
	defaultAsk   = "Enter your Vercel app URL (e.g., your-app.vercel.app): "
)

// Options wires a Runner to its collaborators.
type Options struct {
	Config *config.Config
	Logger *zerolog.Logger

	// Anon selects the restricted database key.
	Anon bool

	OpenStore StoreOpener
	Weather   WeatherAPI
	App       AppProbe

	// AppURL overrides Config.App.URL. When both are empty the host is
	// read from In after prompting on Out.
	AppURL string

	Out io.Writer
	In  io.Reader
}

// Runner executes the checks in order.
type Runner struct {
	opts    Options
	out     *console.Printer
	logger  zerolog.Logger
	timeout time.Duration
}

func NewRunner(opts Options) *Runner {
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = opts.Logger.With().Str("component", "conntest").Logger()
	}

	timeout := opts.Config.HTTP.Timeout
	if timeout <= 0 {
		timeout = config.Default().HTTP.Timeout
	}

	return &Runner{
		opts:    opts,
		out:     console.NewPrinter(opts.Out),
		logger:  logger,
		timeout: timeout,
	}
}

// Run executes every check and prints the summary. It never returns an
// error: failures are reported through the Report.
func (r *Runner) Run(ctx context.Context) Report {
	r.out.Println("🏄‍♂️ Surf Forecast App - Connection Test")
	r.out.Rule()

	var report Report

	missing := r.checkEnvironment()
	if len(missing) > 0 {
		r.out.Println("\n" + console.Fail + " Environment variables missing. Please check your .env.local file")
		r.logger.Error().Strs("missing", missing).Msg("aborting connection test")
		report.Aborted = true
		report.Missing = missing
		report.Results = append(report.Results, Result{Name: CheckEnvironment})
		return report
	}
	report.Results = append(report.Results, Result{Name: CheckEnvironment, Passed: true})

	store, closeStore, openErr := r.openStore(ctx)
	if closeStore != nil {
		defer closeStore()
	}

	report.Results = append(report.Results, Result{
		Name: CheckDatabase,
		Passed: r.guard(ctx, CheckDatabase, func(ctx context.Context) (bool, error) {
			breaks, err := r.checkDatabase(ctx, store, openErr)
			return len(breaks) > 0, err
		}),
	})

	report.Results = append(report.Results, Result{
		Name:   CheckWeather,
		Passed: r.guard(ctx, CheckWeather, r.checkWeather),
	})

	report.Results = append(report.Results, Result{
		Name: CheckInsert,
		Passed: r.guard(ctx, CheckInsert, func(ctx context.Context) (bool, error) {
			return r.checkInsert(ctx, store, openErr)
		}),
	})

	// The host prompt waits on the operator, so it runs before the
	// check's request timeout starts.
	host, hostErr := r.appHost()
	report.Results = append(report.Results, Result{
		Name: CheckApp,
		Passed: r.guard(ctx, CheckApp, func(ctx context.Context) (bool, error) {
			if hostErr != nil {
				return false, hostErr
			}
			return r.checkApp(ctx, host)
		}),
	})

	r.printSummary(report)
	return report
}

// guard runs fn with the request timeout, converting errors and panics
// into a failed check.
func (r *Runner) guard(ctx context.Context, name string, fn func(context.Context) (bool, error)) (passed bool) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			r.out.Printf("%s %s check crashed: %v\n", console.Fail, name, rec)
			r.logger.Error().Str("check", name).Interface("panic", rec).Msg("check panicked")
			passed = false
		}
	}()

	ok, err := fn(ctx)
	event := r.logger.Debug()
	if err != nil {
		event = r.logger.Error().Err(err)
	}
	event.Str("check", name).Bool("passed", ok && err == nil).Dur("duration", time.Since(start)).Msg("check finished")

	return ok && err == nil
}

func (r *Runner) checkEnvironment() []string {
	r.out.Println("🔧 Checking environment variables...")

	cfg := r.opts.Config
	required := cfg.RequireConnTest(r.opts.Anon)
	missing := config.Missing(required)
	if len(missing) > 0 {
		for _, name := range missing {
			r.out.Printf("%s %s not found\n", console.Fail, name)
		}
		return missing
	}

	r.out.Println(console.Pass + " All environment variables found")
	_, keyName := cfg.DatabaseKey(r.opts.Anon)
	for _, v := range required {
		limit := 30
		if v.Name == config.EnvWeatherAPIKey {
			limit = 20
		}
		label := v.Name
		switch v.Name {
		case config.EnvSupabaseURL:
			label = "Supabase URL"
		case keyName:
			label = "Database Key"
		case config.EnvWeatherAPIKey:
			label = "Willy Key"
		}
		r.out.Printf("  %s: %s\n", label, console.Truncate(v.Value, limit))
	}
	return nil
}

func (r *Runner) openStore(ctx context.Context) (Store, func(), error) {
	if r.opts.OpenStore == nil {
		return nil, nil, errors.New("no database backend configured")
	}

	store, closeFn, err := r.opts.OpenStore(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to open store")
		return nil, closeFn, fmt.Errorf("failed to open database: %w", err)
	}
	return store, closeFn, nil
}

func (r *Runner) checkDatabase(ctx context.Context, store Store, openErr error) ([]model.Break, error) {
	r.out.Println("\n🧪 Testing Supabase connection...")
	if openErr != nil {
		r.out.Printf("%s Supabase connection failed: %v\n", console.Fail, openErr)
		return nil, openErr
	}

	breaks, err := store.ListBreaks(ctx, sampleBreaks)
	if err != nil {
		r.out.Printf("%s Supabase connection failed: %v\n", console.Fail, err)
		r.printDiagnosis(err)
		if r.opts.Anon && errs.IsUnauthorized(err) {
			r.out.Println("  The anon key may be blocked by row level security; try the service key.")
		}
		return nil, err
	}

	if len(breaks) == 0 {
		r.out.Println(console.Warn + " Connected but no surf breaks found")
		return nil, nil
	}

	r.out.Println(console.Pass + " Supabase connection successful!")
	r.out.Printf("%s Found %d surf breaks:\n", console.Info, len(breaks))
	for _, b := range breaks {
		r.out.Printf("  - %s (%s)\n", b.Name, b.Region)
	}
	return breaks, nil
}

func (r *Runner) checkWeather(ctx context.Context) (bool, error) {
	r.out.Println("\n🌊 Testing WillyWeather API access...")

	resp, err := r.opts.Weather.Forecast(ctx, r.opts.Config.Weather.LocationID)
	if err != nil {
		if code := errs.StatusCode(err); code != 0 {
			r.out.Printf("%s API returned status %d\n", console.Fail, code)
		} else {
			r.out.Printf("%s WillyWeather API test failed: %v\n", console.Fail, err)
		}
		return false, err
	}

	r.out.Println(console.Pass + " WillyWeather API access successful!")
	r.out.Printf("📍 Location: %s\n", resp.LocationName())
	return true, nil
}

func (r *Runner) checkInsert(ctx context.Context, store Store, openErr error) (bool, error) {
	r.out.Println("\n💾 Testing forecast data insertion...")
	if openErr != nil {
		r.out.Printf("%s Data insertion test failed: %v\n", console.Fail, openErr)
		return false, openErr
	}

	breaks, err := store.ListBreaks(ctx, 1)
	if err != nil {
		r.out.Printf("%s Data insertion test failed: %v\n", console.Fail, err)
		return false, err
	}
	if len(breaks) == 0 {
		r.out.Println(console.Fail + " No surf breaks found to test with")
		return false, nil
	}

	forecast := model.SyntheticForecast(breaks[0].ID)
	if err := store.UpsertForecast(ctx, forecast); err != nil {
		r.out.Printf("%s Data insertion test failed: %v\n", console.Fail, err)
		r.printDiagnosis(err)
		return false, err
	}

	r.out.Println(console.Pass + " Test forecast data inserted successfully!")
	r.out.Printf("%s Inserted data for break ID: %s\n", console.Info, forecast.BreakID)
	return true, nil
}

// printDiagnosis adds the database's explanation of err, when there is one.
func (r *Runner) printDiagnosis(err error) {
	if hint := sqlerr.Diagnose(err); hint != "" {
		r.out.Printf("  %s\n", hint)
	}
}

func (r *Runner) checkApp(ctx context.Context, host string) (bool, error) {
	if host == "" {
		r.out.Println("\n" + console.Fail + " No deployed app URL provided")
		return false, nil
	}

	r.out.Printf("\n🌐 Testing deployed app API at %s...\n", r.opts.App.Endpoint(host))

	report, err := r.opts.App.CheckDB(ctx, host)
	if err != nil {
		var statusErr *errs.StatusError
		if errors.As(err, &statusErr) {
			r.out.Printf("%s API returned status %d\n", console.Fail, statusErr.StatusCode)
			if statusErr.Body != "" {
				r.out.Printf("Response: %s\n", statusErr.Body)
			}
		} else {
			r.out.Printf("%s Failed to reach deployed app: %v\n", console.Fail, err)
		}
		return false, err
	}

	r.out.Println(console.Pass + " Deployed app API working!")
	r.out.Printf("%s API Response: %s\n", console.Info, report.Message)
	if report.Data != nil {
		r.out.Printf("  - Breaks in DB: %d\n", report.Data.BreaksCount)
		r.out.Printf("  - Forecasts in DB: %d\n", report.Data.ForecastsCount)
	}
	return true, nil
}

func (r *Runner) appHost() (string, error) {
	if r.opts.AppURL != "" {
		return r.opts.AppURL, nil
	}
	if r.opts.Config.App.URL != "" {
		return r.opts.Config.App.URL, nil
	}
	if r.opts.In == nil {
		return "", nil
	}
	return console.Ask(r.opts.In, r.opts.Out, "\n"+defaultAsk)
}

func (r *Runner) printSummary(report Report) {
	r.out.Println()
	r.out.Rule()
	r.out.Println("📋 Test Results Summary:")
	for _, res := range report.Results {
		r.out.Printf("  %s: %s\n", res.Name, console.Mark(res.Passed))
	}

	r.out.Println()
	if report.AllPassed() {
		r.out.Println(console.Success + " All tests passed! Your setup is ready for data ingestion.")
		return
	}
	r.out.Println(console.Warn + " Some tests failed. Please fix the issues above before proceeding.")
}
