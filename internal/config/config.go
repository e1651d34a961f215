package config

import (
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

type Application struct {
	Host     string   `koanf:"host"`
	Google   Google   `koanf:"google"`
	Database Database `koanf:"db"`
	Import   Import   `koanf:"import"`
}

type Google struct {
	ClientId     string `koanf:"clientid"`
	ClientSecret string `koanf:"clientsecret"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

// Import holds the tunable knobs of the calendar import scoring pipeline.
// Weights and thresholds are configuration, not code, so they can be adjusted
// without touching the matching logic.
type Import struct {
	ExactBuilderWeight   int `koanf:"exactbuilderweight"`
	FuzzyBuilderWeight   int `koanf:"fuzzybuilderweight"`
	InspectionTypeWeight int `koanf:"inspectiontypeweight"`
	AutoCreateThreshold  int `koanf:"autocreatethreshold"`
	ReviewThreshold      int `koanf:"reviewthreshold"`
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Application{
		Host: "http://localhost:3000",
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "fieldbeat",
			Pass:   "",
			Name:   "fieldbeat",
			Schema: "fieldbeat",
		},
		Import: Import{
			ExactBuilderWeight:   50,
			FuzzyBuilderWeight:   30,
			InspectionTypeWeight: 45,
			AutoCreateThreshold:  80,
			ReviewThreshold:      60,
		},
	}, "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.ProviderWithValue("FIELDBEAT_", ".", func(k, v string) (string, interface{}) {
		k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "FIELDBEAT_")), "_", ".")
		return k, v
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
