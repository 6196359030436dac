package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/anggasct/smartcity"
	"github.com/anggasct/smartcity/pkg/engine"
	"github.com/anggasct/smartcity/pkg/observers"
	"github.com/anggasct/smartcity/pkg/snapshot"
	"github.com/anggasct/smartcity/pkg/stats"
	"github.com/anggasct/smartcity/visualization"
	"github.com/anggasct/smartcity/web"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

func main() {
	mode := flag.String("mode", "headless", "Run mode: headless, serve or dot")
	frames := flag.Int("frames", 3600, "Frames to run in headless mode")
	dt := flag.Float64("dt", 1.0/60, "Seconds per frame in headless mode")
	seed := flag.Int64("seed", 1, "Random seed")
	parkingRate := flag.Float64("parking-rate", engine.DefaultParkingRate, "Parking intents per second per eligible car")
	timeScale := flag.Float64("time-scale", 1, "Simulation speed, 0 to 3")
	addr := flag.String("addr", ":8080", "Listen address in serve mode")
	output := flag.String("o", "", "Output file in dot mode (stdout when empty)")
	logLevel := flag.String("log", "info", "Transition log level: error, warn, info or debug (implies -v when given)")
	verbose := flag.Bool("v", false, "Log car transitions")
	flag.Parse()

	cfg := engine.DefaultConfig()
	cfg.Seed = *seed
	cfg.ParkingRate = *parkingRate

	city, err := smartcity.Reference(*seed).Config(cfg).Build()
	if err != nil {
		log.WithError(err).Fatal("Failed to build city")
	}
	sim := smartcity.NewSimulation(city)
	sim.SetTimeScale(*timeScale)

	if *verbose || flagGiven("log") {
		sim.AddObserver(observers.NewLoggingObserver(observers.ParseLogLevel(*logLevel), "SmartCity"))
	}

	switch *mode {
	case "headless":
		runHeadless(sim, *frames, *dt)
	case "serve":
		runServer(sim, *addr)
	case "dot":
		runDOT(sim, *frames, *dt, *output)
	default:
		log.WithFields(log.Fields{"mode": *mode}).Fatal("Unknown mode")
	}
}

// flagGiven reports whether name was set on the command line.
func flagGiven(name string) bool {
	given := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			given = true
		}
	})
	return given
}

func runHeadless(sim *smartcity.Simulation, frames int, dt float64) {
	validation := observers.NewValidationObserver()
	metrics := observers.NewMetricsObserver()
	sim.AddObserver(validation)
	sim.AddObserver(metrics)

	for i := 0; i < frames; i++ {
		sim.Step(dt)
	}

	report := sim.Metrics()
	printReport(report)

	claims, releases := metrics.GetSpotCounts()
	fmt.Printf("claims %d, releases %d, light changes %d\n", claims, releases, metrics.GetLightChanges())
	counts := metrics.GetTransitionCounts()
	edges := lo.Keys(counts)
	slices.Sort(edges)
	for _, edge := range edges {
		fmt.Printf("  %-28s %d\n", edge, counts[edge])
	}

	if validation.HasViolations() || !report.Healthy() {
		for _, v := range append(validation.GetViolations(), report.Violations...) {
			log.WithFields(log.Fields{"violation": v}).Error("Invariant violated")
		}
		os.Exit(1)
	}
}

func printReport(report stats.Report) {
	fmt.Printf("frame %d, clock %s\n", report.Frame, snapshot.FormatClock(report.Clock))
	for _, s := range []smartcity.CarState{smartcity.Driving, smartcity.ToParking, smartcity.Parked, smartcity.LeavingParking} {
		fmt.Printf("  %-16s %d\n", s, report.States[s])
	}
	fmt.Printf("mean speed %.1f (std %.1f)\n", report.MeanSpeed, report.SpeedStdDev)
	for _, lot := range report.Lots {
		fmt.Printf("  %-16s %s\n", lot.Label(), lot.Band)
	}
}

func runServer(sim *smartcity.Simulation, addr string) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := sim.Run(ctx, time.Second/60); err != nil && ctx.Err() == nil {
			log.WithError(err).Error("Simulation stopped")
		}
	}()

	server := web.NewServer(sim, web.DefaultBroadcastInterval)
	if err := server.ListenAndServe(ctx, addr); err != nil {
		log.WithError(err).WithFields(log.Fields{"addr": addr}).Fatal("Failed to start web server")
	}
	log.Info("Shutdown signal received, exiting")
}

// runDOT renders the lifecycle annotated with the car counts after frames.
func runDOT(sim *smartcity.Simulation, frames int, dt float64, output string) {
	for i := 0; i < frames; i++ {
		sim.Step(dt)
	}

	options := visualization.DefaultDOTOptions()
	options.ShowDeferrals = true
	options.ShowLightCycle = true
	options.Counts = sim.Metrics().States
	generator := visualization.NewDOTGenerator(options)

	if output != "" {
		if err := generator.GenerateToFile(output); err != nil {
			log.WithError(err).WithFields(log.Fields{"file": output}).Fatal("Failed to write DOT file")
		}
		return
	}

	content, err := generator.Generate()
	if err != nil {
		log.WithError(err).Fatal("Failed to generate DOT")
	}
	fmt.Print(content)
}
