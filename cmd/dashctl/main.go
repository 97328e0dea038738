// Command dashctl talks to the monitoring API from a terminal, sharing the
// dashboard's session file.
//
// Usage:
//
//	go run ./cmd/dashctl -cmd login -username admin -password password
//	go run ./cmd/dashctl -cmd readings -location Rampur
//	go run ./cmd/dashctl -cmd download -id <report-id> -out report.csv
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/couchcryptid/water-monitor-dashboard/internal/adapter/api"
	"github.com/couchcryptid/water-monitor-dashboard/internal/config"
	"github.com/couchcryptid/water-monitor-dashboard/internal/domain"
	"github.com/couchcryptid/water-monitor-dashboard/internal/observability"
	"github.com/couchcryptid/water-monitor-dashboard/internal/session"
)

// stderrNavigator tells the user where the dashboard would have sent them.
type stderrNavigator struct{ w io.Writer }

func (n stderrNavigator) Navigate(path string) {
	if path == session.LoginPath {
		fmt.Fprintln(n.w, "session expired: run dashctl -cmd login")
	}
}

type options struct {
	cmd      string
	username string
	password string
	location string
	reportID string
	out      string
}

func main() {
	var o options
	flag.StringVar(&o.cmd, "cmd", "", "login, logout, alerts, readings, locations, reports or download")
	flag.StringVar(&o.username, "username", "", "username for -cmd login")
	flag.StringVar(&o.password, "password", "", "password for -cmd login")
	flag.StringVar(&o.location, "location", "", "only show readings for this location")
	flag.StringVar(&o.reportID, "id", "", "report id for -cmd download")
	flag.StringVar(&o.out, "out", "", "output file for -cmd download (default: the server's filename)")
	flag.Parse()

	if o.cmd == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, o, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "dashctl: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, o options, out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store, err := session.NewFileStore(cfg.SessionFile)
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	client := api.NewClient(cfg.APIBaseURL, cfg.APITimeout, store, stderrNavigator{os.Stderr},
		observability.NewUnregisteredMetrics(), logger)

	switch o.cmd {
	case "login":
		if o.username == "" || o.password == "" {
			return errors.New("-username and -password are required")
		}
		token, err := client.Login(ctx, api.Credentials{Username: o.username, Password: o.password})
		if err != nil {
			return err
		}
		if err := store.SetToken(token); err != nil {
			return err
		}
		fmt.Fprintf(out, "signed in as %s (session %s)\n", o.username, store.Path())
		return nil

	case "logout":
		if err := store.ClearToken(); err != nil {
			return err
		}
		fmt.Fprintln(out, "signed out")
		return nil

	case "alerts":
		alerts, err := client.GetAlerts(ctx)
		if err != nil {
			return err
		}
		printAlerts(out, alerts)
		return nil

	case "readings":
		readings, err := client.GetReadings(ctx)
		if err != nil {
			return err
		}
		printReadings(out, domain.FilterReadingsByLocation(readings, o.location))
		return nil

	case "locations":
		locations, err := client.GetLocations(ctx)
		if err != nil {
			return err
		}
		printLocations(out, locations)
		return nil

	case "reports":
		reports, err := client.GetReports(ctx)
		if err != nil {
			return err
		}
		printReports(out, reports)
		return nil

	case "download":
		dl, err := client.DownloadReport(ctx, o.reportID)
		if err != nil {
			return err
		}
		path := o.out
		if path == "" {
			path = dl.Filename
		}
		if path == "" {
			path = "report-" + o.reportID
		}
		if err := os.WriteFile(path, dl.Data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Fprintf(out, "wrote %d bytes to %s\n", len(dl.Data), path)
		return nil

	default:
		return fmt.Errorf("unknown command %q", o.cmd)
	}
}

func printAlerts(out io.Writer, alerts []domain.Alert) {
	s := domain.DeriveAlertSummary(alerts)
	fmt.Fprintf(out, "%d alerts: %d critical, %d warning, %d info\n\n", s.Total, s.Critical, s.Warning, s.Info)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEVERITY\tLOCATION\tWHEN\tMESSAGE")
	for _, a := range alerts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.Severity, a.Location, domain.Age(a.Timestamp), a.Message)
	}
	_ = tw.Flush()
}

func printReadings(out io.Writer, readings []domain.Reading) {
	s := domain.DeriveReadingSummary(readings)
	fmt.Fprintf(out, "%d readings, %d unsafe; avg pH %s, turbidity %s NTU, temperature %s °C\n\n",
		s.Count, s.Unsafe, s.AvgPH.StringFixed(2), s.AvgTurbidity.StringFixed(2), s.AvgTemperature.StringFixed(2))

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LOCATION\tPH\tTURBIDITY\tTEMP\tWHEN\t")
	for _, r := range readings {
		mark := ""
		if r.Unsafe() {
			mark = "UNSAFE"
		}
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.1f\t%s\t%s\n", r.Location, r.PH, r.Turbidity, r.Temperature, domain.Age(r.Timestamp), mark)
	}
	_ = tw.Flush()
}

func printLocations(out io.Writer, locations []domain.Location) {
	s := domain.DeriveLocationSummary(locations)
	fmt.Fprintf(out, "%d locations: %d active, %d warning, %d inactive\n", s.Total, s.Active, s.Warning, s.Inactive)
	if !s.Map.Empty {
		fmt.Fprintf(out, "map centre %.4f, %.4f\n", s.Map.Center.Lat, s.Map.Center.Lon)
	}
	fmt.Fprintln(out)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSTATUS\tLAT\tLON")
	for _, l := range locations {
		fmt.Fprintf(tw, "%s\t%s\t%.4f\t%.4f\n", l.Name(), l.Status.Normalized(), l.Latitude, l.Longitude)
	}
	_ = tw.Flush()
}

func printReports(out io.Writer, reports []domain.Report) {
	s := domain.DeriveReportSummary(reports)
	fmt.Fprintf(out, "%d reports\n\n", s.Total)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tGENERATED\tTITLE")
	for _, r := range reports {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID, r.Type, domain.Age(r.GeneratedAt), r.Title)
	}
	_ = tw.Flush()
}
