package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mesosphere/akamai-assert/internal/configuration"
	logger "github.com/mesosphere/akamai-assert/internal/log"
	"github.com/mesosphere/akamai-assert/internal/probe"
	"github.com/mesosphere/akamai-assert/pkg/akamai"
	"github.com/mesosphere/akamai-assert/pkg/cookies"
)

// Main
func main() {
	// Parse options
	config, err := configuration.NewConfig(nil)
	if err != nil {
		fmt.Printf("%+v\n", err)
		os.Exit(1)
	}

	// Setup logger
	log := logger.NewDefaultLogger(config.LogLevel, config.LogFormat)
	akamai.SetLogger(log)
	cookies.SetLogger(log)

	// Perform config validation
	if err := config.Validate(); err != nil {
		log.Fatal(err)
	}
	log.Debugf("Starting with options: %s", config)

	p, err := probe.New(config.ProbeOptions(log))
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
	defer cancel()

	report, err := p.Run(ctx, config.URL, config.Checks)
	if err != nil {
		log.Fatal(err)
	}

	for _, o := range report.Outcomes {
		status := "PASS"
		if !o.Pass {
			status = "FAIL"
		}
		fmt.Printf("%s %s (%s)", status, o.Name, o.Kind)
		if o.Message != "" {
			fmt.Printf(": %s", o.Message)
		}
		fmt.Println()
	}

	if failed := report.Failed(); len(failed) > 0 {
		fmt.Printf("%d of %d checks failed against %s\n", len(failed), len(report.Outcomes), report.URL)
		cancel()
		os.Exit(1)
	}
	fmt.Printf("%d checks passed against %s\n", len(report.Outcomes), report.URL)
}
