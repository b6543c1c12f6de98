package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"
)

const defaultConfigFile = "watcher.json"

type config struct {
	root     string
	interval time.Duration
	watch    bool
	cache    int
	exclude  []string
	store    map[string]interface{}
}

func defaultConfig() config {
	return config{
		root:     ".",
		interval: 5 * time.Second,
		store: map[string]interface{}{
			"type": "file",
			"path": ".watcher/index",
		},
	}
}

// loadConfig reads the JSON config file at `path`.
// If the default config file does not exist, defaults are used.
func loadConfig(path string) (config, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) && path == defaultConfigFile {
		return defaultConfig(), nil
	}
	if err != nil {
		return config{}, errors.Wrapf(err, "opening config file %s", path)
	}
	defer f.Close()

	var m map[string]interface{}
	if err = json.NewDecoder(f).Decode(&m); err != nil {
		return config{}, errors.Wrapf(err, "decoding config file %s", path)
	}
	conf, err := parseConfig(m)
	return conf, errors.Wrapf(err, "in config file %s", path)
}

func parseConfig(m map[string]interface{}) (config, error) {
	conf := defaultConfig()

	if v, ok := m["root"]; ok {
		s, ok := v.(string)
		if !ok {
			return conf, errors.New("root must be a string")
		}
		conf.root = s
	}

	if v, ok := m["interval"]; ok {
		switch v := v.(type) {
		case string:
			d, err := time.ParseDuration(v)
			if err != nil {
				return conf, errors.Wrapf(err, "parsing interval %s", v)
			}
			conf.interval = d
		case float64:
			conf.interval = time.Duration(v * float64(time.Second))
		default:
			return conf, errors.New("interval must be a duration string or a number of seconds")
		}
		if conf.interval <= 0 {
			return conf, errors.New("interval must be positive")
		}
	}

	if v, ok := m["watch"]; ok {
		b, ok := v.(bool)
		if !ok {
			return conf, errors.New("watch must be a boolean")
		}
		conf.watch = b
	}

	if v, ok := m["cache"]; ok {
		n, ok := v.(float64)
		if !ok || n < 0 {
			return conf, errors.New("cache must be a non-negative number")
		}
		conf.cache = int(n)
	}

	if v, ok := m["exclude"]; ok {
		items, ok := v.([]interface{})
		if !ok {
			return conf, errors.New("exclude must be a list of strings")
		}
		for _, item := range items {
			s, ok := item.(string)
			if !ok {
				return conf, errors.New("exclude must be a list of strings")
			}
			conf.exclude = append(conf.exclude, s)
		}
	}

	if v, ok := m["store"]; ok {
		s, ok := v.(map[string]interface{})
		if !ok {
			return conf, errors.New("store must be an object")
		}
		if _, ok := s["type"].(string); !ok {
			return conf, errors.New("store is missing `type` parameter")
		}
		conf.store = s
	}

	return conf, nil
}
