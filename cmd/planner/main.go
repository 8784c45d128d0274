package main

import (
	"bufio"
	"context"
	"drone-route-service/internal/adapters/repositories"
	"drone-route-service/internal/adapters/textio"
	"drone-route-service/internal/adapters/vehicle"
	"drone-route-service/internal/domain"
	"drone-route-service/internal/platform/obs"
	"drone-route-service/internal/ports"
	"drone-route-service/internal/services"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff"
	log "github.com/sirupsen/logrus"
)

// planner plans one trip from the terminal, writes the matrix and command
// files, and optionally flies the result.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found (using environment variables)")
	}

	fs := flag.NewFlagSet("drone-planner", flag.ExitOnError)
	var (
		visit         = fs.String("visit", "", "comma separated station ids; prompts when empty")
		stationsFile  = fs.String("stations-file", "", "YAML station table; built-in table when empty")
		matrixOut     = fs.String("matrix-out", textio.MatrixFile, "distance matrix output file")
		commandsOut   = fs.String("commands-out", textio.CommandsFile, "drone command output file")
		maxStops      = fs.Int("max-stops", 10, "largest accepted selection, depot excluded")
		searchTimeout = fs.Duration("search-timeout", 0, "route search deadline; 0 waits forever")
		parallel      = fs.Bool("parallel-search", false, "explore first-level branches concurrently")
		fly           = fs.Bool("fly", false, "fly the compiled commands after planning")
		droneAddr     = fs.String("drone-addr", vehicle.DefaultTelloAddr, "drone UDP address")
		localAddr     = fs.String("local-addr", vehicle.DefaultLocalAddr, "local UDP address")
		ackTimeout    = fs.Duration("ack-timeout", vehicle.DefaultAckTimeout, "wait for each command reply")
		sendRate      = fs.Float64("send-rate", 0, "max commands per second; 0 is unlimited")
		missionPad    = fs.String("mission-pad", "m-2", "pad id to re-align on after each leg; empty disables")
		logLevel      = fs.String("log-level", "warn", "logrus level")
	)
	if err := ff.Parse(fs, os.Args[1:], ff.WithEnvVarNoPrefix()); err != nil {
		log.Fatal(err)
	}
	obs.Setup(*logLevel, false)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var repo ports.StationRepository = repositories.NewMemoryStationRepository(repositories.DefaultStations())
	if *stationsFile != "" {
		repo = repositories.NewYAMLStationRepository(*stationsFile)
	}

	ids, err := selection(*visit, os.Stdin, os.Stdout)
	if err != nil {
		log.Fatal(err)
	}

	plan, err := services.PlanTrip(ctx, services.PlanTripRequest{
		Selection:     domain.NewTripSelection(ids...),
		MaxStops:      *maxStops,
		SearchTimeout: *searchTimeout,
		Optimize:      services.OptimizeOptions{SeedBound: true, Parallel: *parallel},
		// the optimizer reads the matrix back from the file it publishes
		MatrixHandOff: func(m domain.DistanceMatrix) (domain.DistanceMatrix, error) {
			if err := textio.SaveMatrix(*matrixOut, m); err != nil {
				return nil, err
			}
			return textio.LoadMatrix(*matrixOut)
		},
	}, repo, nil)
	if err != nil {
		log.Fatal(err)
	}

	lines := domain.CommandLines(plan.Commands)
	if err := textio.SaveCommands(*commandsOut, lines); err != nil {
		log.Fatal(err)
	}

	printPlan(os.Stdout, plan, lines)

	if !*fly {
		return
	}

	// Fly what is on disk so hand-edited command files are honoured.
	cmds, err := textio.LoadCommands(*commandsOut)
	if err != nil {
		log.Fatal(err)
	}

	driver := vehicle.NewTelloDriver(vehicle.TelloConfig{
		RemoteAddr: *droneAddr,
		LocalAddr:  *localAddr,
		AckTimeout: *ackTimeout,
		SendRate:   *sendRate,
	})
	defer driver.Close()

	report, err := services.FlyMission(ctx, driver, cmds, services.MissionOptions{MissionPad: *missionPad})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Fprintf(os.Stdout, "mission complete: %d commands, %d retries\n", report.Sent, report.Retries)
}

// selection returns the ids given on the command line, or asks for them.
func selection(visit string, in io.Reader, out io.Writer) ([]int, error) {
	if strings.TrimSpace(visit) != "" {
		return parseIDs(visit)
	}
	return promptIDs(in, out)
}

// parseIDs parses a comma or space separated list of station ids.
func parseIDs(s string) ([]int, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	ids := make([]int, 0, len(fields))
	for _, f := range fields {
		id, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("parse station id %q: %w", f, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// promptIDs asks how many stations to visit, then reads that many ids.
func promptIDs(in io.Reader, out io.Writer) ([]int, error) {
	sc := bufio.NewScanner(in)
	sc.Split(bufio.ScanWords)

	next := func() (int, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return 0, err
			}
			return 0, io.ErrUnexpectedEOF
		}
		return strconv.Atoi(sc.Text())
	}

	fmt.Fprintln(out, "How many stations do you want to visit?")
	n, err := next()
	if err != nil {
		return nil, fmt.Errorf("read station count: %w", err)
	}
	if n < 1 {
		return nil, errors.New("read station count: must be at least 1")
	}

	fmt.Fprintln(out, "Which stations do you want to visit?")
	ids := make([]int, 0, n)
	for len(ids) < n {
		id, err := next()
		if err != nil {
			return nil, fmt.Errorf("read station #%d: %w", len(ids)+1, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func printPlan(w io.Writer, plan *domain.TripPlan, lines []string) {
	route := make([]string, len(plan.Route))
	for i, id := range plan.Route {
		route[i] = strconv.Itoa(id)
	}

	fmt.Fprintf(w, "route: %s\n", strings.Join(route, " -> "))
	fmt.Fprintf(w, "distance: %s m\n", strconv.FormatFloat(plan.TotalDistance, 'f', -1, 64))
	fmt.Fprintf(w, "search: %d nodes, %d pruned in %s\n", plan.Stats.Nodes, plan.Stats.Pruned, plan.Stats.Duration.Round(time.Microsecond))
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
}
