// Trackctl is the command-line client for monitoring and controlling a
// running trackd instance. It connects over HTTP and WebSocket to query
// the fleet and stream live events from the daemon.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/skywatch-labs/orbit-tracker/internal/ctl"
)

func main() {
	var (
		host    = pflag.StringP("host", "H", "http://127.0.0.1:8080", "Tracker daemon URL (e.g. http://192.168.8.1:8080)")
		jsonOut = pflag.Bool("json", false, "Output raw JSON instead of formatted text")
		filter  = pflag.StringSlice("filter", nil, "Event types to show in watch (e.g. --filter state,log)")
	)

	// Stop parsing global flags at the first non-flag argument (the command
	// name), so subcommand-specific flags like --horizon are not rejected.
	pflag.CommandLine.SetInterspersed(false)
	pflag.Parse()

	if pflag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	cmd := pflag.Arg(0)
	subArgs := pflag.Args()[1:]

	var err error
	switch cmd {
	// ── Query commands ────────────────────────────────────────────
	case "status":
		err = ctl.Status(*host, *jsonOut)

	case "health":
		err = ctl.Health(*host, *jsonOut)

	case "version":
		err = ctl.VersionInfo(*host, *jsonOut)

	case "fleet":
		err = ctl.Fleet(*host, *jsonOut)

	case "track":
		opts := ctl.TrackOptions{JSON: *jsonOut}
		trackFlags := pflag.NewFlagSet("track", pflag.ContinueOnError)
		trackFlags.IntVar(&opts.NoradID, "norad-id", 0, "NORAD catalog ID")
		trackFlags.Float64Var(&opts.HorizonMinutes, "horizon", 0, "Prediction horizon in minutes")
		trackFlags.Float64Var(&opts.StepMinutes, "step", 0, "Sample step in minutes")
		_ = trackFlags.Parse(subArgs)
		if opts.NoradID == 0 && trackFlags.NArg() > 0 {
			fmt.Sscanf(trackFlags.Arg(0), "%d", &opts.NoradID)
		}
		if opts.NoradID == 0 {
			err = fmt.Errorf("NORAD id required (trackctl track 25544)")
			break
		}
		err = ctl.Track(*host, opts)

	case "objects":
		err = ctl.Objects(*host, *jsonOut)

	case "catalog":
		err = ctl.Catalog(*host, *jsonOut)

	case "elements-info":
		err = ctl.ElementsInfo(*host, *jsonOut)

	case "stats":
		err = ctl.Stats(*host, *jsonOut)

	case "logs":
		opts := ctl.LogsOptions{JSON: *jsonOut}
		logFlags := pflag.NewFlagSet("logs", pflag.ContinueOnError)
		logFlags.StringVar(&opts.Level, "level", "", "Filter by log level (info, error, warn)")
		logFlags.IntVar(&opts.Limit, "limit", 0, "Limit number of log entries shown")
		logFlags.BoolVar(&opts.Tail, "tail", false, "Stream live log events (like watch --filter log)")
		_ = logFlags.Parse(subArgs)
		err = ctl.Logs(*host, opts)

	case "config":
		err = ctl.Config(*host, *jsonOut)

	case "config-list":
		err = ctl.ConfigList(*host, *jsonOut)

	case "system-info":
		err = ctl.SystemInfo(*host, *jsonOut)

	// ── Control commands ──────────────────────────────────────────
	case "refresh":
		err = ctl.Refresh(*host, *jsonOut)

	case "cycle":
		err = ctl.Cycle(*host, *jsonOut)

	case "pause":
		err = ctl.Pause(*host, *jsonOut)

	case "resume":
		err = ctl.Resume(*host, *jsonOut)

	case "reload":
		opts := ctl.ReloadOptions{JSON: *jsonOut}
		reloadFlags := pflag.NewFlagSet("reload", pflag.ContinueOnError)
		reloadFlags.StringVar(&opts.Profile, "profile", "", "Switch to a named config profile")
		_ = reloadFlags.Parse(subArgs)
		err = ctl.Reload(*host, opts)

	// ── Live streaming ────────────────────────────────────────────
	case "watch":
		err = ctl.Watch(*host, ctl.WatchOptions{
			Filter: *filter,
			JSON:   *jsonOut,
		})

	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Print(`
  trackctl — Orbit Tracker control CLI

  USAGE
    trackctl [flags] <command> [command-flags]

  COMMANDS (query)
    status          Show daemon state, uptime, and the last tracking cycle
    health          Check daemon and component health
    version         Show CLI and daemon version information
    fleet           Show the live fused fleet table
    track           Show the predicted ground track for one object
    objects         List known objects and which stores they appear in
    catalog         Show the mission catalog
    elements-info   Show element store status and cache freshness
    stats           Show aggregate tracking statistics
    logs            Show recent daemon log messages
    config          Show the daemon's running configuration
    config-list     List available config profiles
    system-info     Show runtime and host information

  COMMANDS (control)
    refresh         Force an element data update from the network
    cycle           Run one tracking cycle immediately
    pause           Pause the automatic tracking loop
    resume          Resume the tracking loop
    reload          Reload configuration from disk

  COMMANDS (live)
    watch           Stream live events from the daemon (Ctrl-C to stop)

  GLOBAL FLAGS
    -H, --host URL      Daemon base URL (default: http://127.0.0.1:8080)
        --json          Output raw JSON instead of formatted text
        --filter TYPE   Event types to show in watch (comma-separated)

  COMMAND FLAGS
    track:
        --norad-id ID       NORAD catalog ID (or pass it as an argument)
        --horizon MIN       Prediction horizon in minutes
        --step MIN          Sample step in minutes

    logs:
        --level LEVEL       Filter by log level (info, error, warn)
        --limit N           Limit number of log entries shown
        --tail              Stream live log events

    reload:
        --profile NAME      Switch to a named config profile

  EXAMPLES
    trackctl status
    trackctl --json fleet
    trackctl --host http://192.168.8.1:8080 watch
    trackctl track 25544
    trackctl track --norad-id 25544 --horizon 180 --step 2
    trackctl objects
    trackctl elements-info
    trackctl logs --level error --limit 20
    trackctl logs --tail
    trackctl refresh
    trackctl cycle
    trackctl pause
    trackctl resume
    trackctl config-list
    trackctl reload --profile station-a
    trackctl watch --filter state,cycle

`)
}
