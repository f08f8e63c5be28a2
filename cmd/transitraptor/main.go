// Command transitraptor answers earliest-arrival journey queries
// against a pre-built network file: two positional arguments, a
// network file and a query file, one WKT origin/finish pair per query
// line, one WKT journey geometry per line of output.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	flag "github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"transitraptor/internal/journey"
	"transitraptor/internal/nearby"
	"transitraptor/internal/netfile"
	"transitraptor/internal/network"
	"transitraptor/internal/raptorsearch"
	"transitraptor/internal/wktio"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr *os.File) int {
	flags := flag.NewFlagSet("transitraptor", flag.ContinueOnError)
	flags.SetOutput(stderr)
	departure := flags.IntP("departure", "d", 0, "departure time in seconds since midnight")
	service := flags.StringP("service", "s", "", "restrict boarding to this service ID (empty: any)")
	verbose := flags.BoolP("verbose", "v", false, "log at debug level")
	flags.Usage = func() {
		fmt.Fprintln(stderr, "usage: transitraptor [flags] <network-file> <query-file>")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return 1
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: stderr}).With().Timestamp().Logger()
	if *verbose {
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}
	log.Logger = logger

	if flags.NArg() != 2 {
		flags.Usage()
		return 1
	}

	net, err := netfile.Load(flags.Arg(0))
	if err != nil {
		log.Error().Err(err).Msg("failed to load network file")
		return 1
	}
	log.Info().Int("stops", net.StopCount()).Int("routes", len(net.Routes)).Msg("network loaded")

	queries, err := readQueries(flags.Arg(1))
	if err != nil {
		log.Error().Err(err).Msg("failed to read query file")
		return 1
	}
	if len(queries) == 0 {
		log.Error().Msg("query file contained no queries")
		return 1
	}

	resolver := nearby.NewResolver()
	stops := make([]nearby.Stop, net.StopCount())
	for i, s := range net.Stops {
		stops[i] = nearby.Stop{Index: i, Point: nearby.Point{Lat: s.Point.Lat, Lon: s.Point.Lon}}
	}

	results := make([][]string, len(queries))
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			results[i] = answer(ctx, net, resolver, stops, q, *departure, *service)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("query fan-out failed")
		return 1
	}

	w := bufio.NewWriter(stdout)
	defer w.Flush()
	for i, lines := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		for _, line := range lines {
			fmt.Fprintln(w, line)
		}
	}
	return 0
}

type queryPoints struct {
	origin network.Point
	finish network.Point
}

func readQueries(path string) ([]queryPoints, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open query file: %w", err)
	}
	defer f.Close()

	var out []queryPoints
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		origin, finish, err := wktio.ParseQueryLine(line)
		if err != nil {
			return nil, err
		}
		out = append(out, queryPoints{origin: origin, finish: finish})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan query file: %w", err)
	}
	return out, nil
}

// answer resolves one query's walking footprints, runs the round-based
// search, and renders every journey journey.Reconstruct returns — one WKT
// line each — or a single empty-result marker when none reaches the
// finish at all.
func answer(ctx context.Context, net *network.Network, resolver nearby.Resolver, stops []nearby.Stop, q queryPoints, departure int, service string) []string {
	origin := resolver.Find(nearby.Point{Lat: q.origin.Lat, Lon: q.origin.Lon}, stops)
	finish := resolver.Find(nearby.Point{Lat: q.finish.Lat, Lon: q.finish.Lon}, stops)
	if len(origin) == 0 || len(finish) == 0 {
		return []string{"GEOMETRYCOLLECTION EMPTY"}
	}

	searcher := raptorsearch.NewSearcher(net)
	result, err := searcher.Run(ctx, raptorsearch.Query{
		Origin:        toStopWalks(origin),
		Finish:        toStopWalks(finish),
		Departure:     departure,
		ServiceFilter: service,
	})
	if err != nil {
		log.Error().Err(err).Msg("search failed")
		return []string{"GEOMETRYCOLLECTION EMPTY"}
	}

	journeys := journey.Reconstruct(net, result, q.origin, q.finish)
	if len(journeys) == 0 {
		return []string{"GEOMETRYCOLLECTION EMPTY"}
	}

	lines := make([]string, len(journeys))
	for i, j := range journeys {
		lines[i] = wktio.EncodeJourney(j)
	}
	return lines
}

func toStopWalks(w nearby.Walking) map[network.StopIndex]int {
	out := make(map[network.StopIndex]int, len(w))
	for stop, dur := range w {
		out[network.StopIndex(stop)] = dur
	}
	return out
}
