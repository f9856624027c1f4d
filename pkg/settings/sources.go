package settings

import (
	"bytes"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/stoewer/go-strcase"
	"gopkg.in/yaml.v3"
)

// LookupEnv is the signature of os.LookupEnv.
type LookupEnv func(key string) (string, bool)

// ReadYAML overlays values from the YAML document. Unknown keys are errors.
func (s *Settings) ReadYAML(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil {
		return errors.Wrap(err, "failed to parse settings")
	}
	return nil
}

// ReadFile overlays values from the YAML file.
func (s *Settings) ReadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "failed to read settings")
	}
	return s.ReadYAML(data)
}

// Register binds every setting to a flag of fs. Current values become the defaults.
func (s *Settings) Register(fs *pflag.FlagSet) {
	fs.String("config", "", "Path to the YAML settings file, also read from "+ConfigEnv+".")
	fs.StringVar(&s.ProgramID, "program-id", s.ProgramID, "Base58 identifier of the lease program.")

	fs.StringVar(&s.Storage.Path, "storage-path", s.Storage.Path, "Path to the ledger database.")
	fs.BoolVar(&s.Storage.InMemory, "storage-in-memory", s.Storage.InMemory, "Keep the ledger in memory.")
	fs.IntVar(&s.Storage.CacheSize, "storage-cache-size", s.Storage.CacheSize, "Account cache size in bytes.")
	fs.IntVar(&s.Storage.BloomFilterCapacity, "storage-bloom-filter-capacity", s.Storage.BloomFilterCapacity,
		"Expected number of keys in the bloom filter, 0 disables the filter.")
	fs.Float64Var(&s.Storage.BloomFilterFalsePositive, "storage-bloom-filter-false-positive",
		s.Storage.BloomFilterFalsePositive, "Bloom filter false positive probability.")
	fs.BoolVar(&s.Storage.Sync, "storage-sync", s.Storage.Sync, "Fsync every commit.")

	fs.StringVar(&s.API.Addr, "api-addr", s.API.Addr, "Listen address of the lease API.")
	fs.IntVar(&s.API.RateLimit, "api-rate-limit", s.API.RateLimit,
		"Requests per second allowed for one client, 0 disables the limit.")
	fs.IntVar(&s.API.RateBurst, "api-rate-burst", s.API.RateBurst, "Request burst allowed for one client.")
	fs.DurationVar(&s.API.MaxClockSkew, "api-max-clock-skew", s.API.MaxClockSkew,
		"Largest allowed difference between request timestamps and the trusted time.")
	fs.Int64Var(&s.API.MaxBodySize, "api-max-body-size", s.API.MaxBodySize, "Request body size limit in bytes.")
	fs.IntVar(&s.API.MaxConnections, "api-max-connections", s.API.MaxConnections,
		"Simultaneous API connections limit, 0 disables the limit.")

	fs.StringVar(&s.Metrics.PrometheusAddr, "metrics-prometheus-addr", s.Metrics.PrometheusAddr,
		"Listen address of the Prometheus endpoint, empty disables it.")
	fs.StringVar(&s.Metrics.InfluxURL, "metrics-influx-url", s.Metrics.InfluxURL,
		"InfluxDB URL for event reporting, empty disables it.")
	fs.IntVar(&s.Metrics.NodeID, "metrics-node-id", s.Metrics.NodeID, "Node ID in reported metrics.")

	fs.StringVar(&s.NTP.Server, "ntp-server", s.NTP.Server, "NTP server, empty trusts the local clock.")
	fs.DurationVar(&s.NTP.Interval, "ntp-interval", s.NTP.Interval, "NTP synchronization interval.")

	s.Logging.Register(fs)
}

// EnvName returns the environment variable that overrides the flag.
func EnvName(flag string) string {
	return EnvPrefix + strcase.UpperSnakeCase(flag)
}

// ApplyEnv sets flags not given on the command line from environment variables.
func ApplyEnv(fs *pflag.FlagSet, lookup LookupEnv) error {
	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		if err != nil || f.Changed {
			return
		}
		v, ok := lookup(EnvName(f.Name))
		if !ok {
			return
		}
		if setErr := fs.Set(f.Name, v); setErr != nil {
			err = errors.Wrapf(setErr, "invalid value of %s", EnvName(f.Name))
		}
	})
	return err
}

// Load builds settings from defaults, the YAML file, environment and command line in that
// order of priority. The file is named by --config or the environment.
func Load(fs *pflag.FlagSet, args []string, lookup LookupEnv) (*Settings, error) {
	s := Default()
	path, err := configPath(args, lookup)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := s.ReadFile(path); err != nil {
			return nil, err
		}
	}
	s.Register(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := ApplyEnv(fs, lookup); err != nil {
		return nil, err
	}
	if err := s.Logging.Parse(); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid settings")
	}
	return s, nil
}

func configPath(args []string, lookup LookupEnv) (string, error) {
	fs := pflag.NewFlagSet("config", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.Usage = func() {}
	path := fs.String("config", "", "")
	fs.BoolP("help", "h", false, "")
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if *path != "" {
		return *path, nil
	}
	p, _ := lookup(ConfigEnv)
	return p, nil
}
