package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cityforge/urbanplan/internal/config"
	"github.com/cityforge/urbanplan/internal/server"
	"github.com/cityforge/urbanplan/internal/store"
	"github.com/cityforge/urbanplan/pkg/plan"
	"github.com/cityforge/urbanplan/pkg/planfile"
	"github.com/cityforge/urbanplan/pkg/registry"
)

// demoReading returns a plausible sample value for a sensor type.
func demoReading(st plan.SensorType) any {
	switch st {
	case plan.SensorTraffic:
		return 412
	case plan.SensorAirQuality:
		return 41.5
	case plan.SensorNoise:
		return 63.2
	case plan.SensorWeather:
		return map[string]any{"temp_c": 21.4, "humidity": 0.58}
	case plan.SensorPedestrian:
		return 87
	case plan.SensorWaterLevel:
		return 1.42
	case plan.SensorEnergyUsage:
		return 118.7
	default:
		return 0
	}
}

func runDemo(projectPath, savePath string) error {
	p, err := planfile.LoadProject(projectPath)
	if err != nil {
		return fmt.Errorf("loading project: %w", err)
	}

	reg := registry.New()
	reg.Add(p)
	reg.SetActive(p.ID)

	for _, s := range p.Sensors {
		s.UpdateReading(demoReading(s.Type))
	}

	printPlanSummary(p)

	if savePath != "" {
		if _, err := reg.SaveFile(p.ID, savePath); err != nil {
			return fmt.Errorf("saving plan document: %w", err)
		}
		log.Info().Str("path", savePath).Str("plan", p.ID).Msg("plan document written")
	}
	return nil
}

func runExport(projectPath, outPath string) error {
	p, err := planfile.LoadProject(projectPath)
	if err != nil {
		return fmt.Errorf("loading project: %w", err)
	}

	if outPath == "" {
		return p.EncodeTo(os.Stdout)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()
	return p.EncodeTo(f)
}

func runImport(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening document: %w", err)
	}
	defer f.Close()

	p, err := plan.Decode(f)
	if err != nil {
		return fmt.Errorf("decoding document: %w", err)
	}

	printPlanSummary(p)
	return nil
}

func runServe(portOverride int) error {
	// A missing .env file is fine; the environment still applies.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if portOverride != 0 {
		cfg.Server.Port = portOverride
	}

	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err == nil {
		zerolog.SetGlobalLevel(level)
	}

	if dir := filepath.Dir(cfg.DB.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating database directory: %w", err)
		}
	}
	st, err := store.Open(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("opening snapshot store: %w", err)
	}
	defer st.Close()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info().Str("addr", addr).Str("db", cfg.DB.Path).Msg("starting server")

	srv := server.New(registry.New(), st)
	return srv.Start(addr)
}
