package domain

import (
	"fmt"
	"path/filepath"
	"sort"
)

// Config is the whole jtlflow configuration file.
type Config struct {
	// Path is the file the configuration was read from.
	Path string `yaml:"-" toml:"-"`

	Globals   Globals                  `yaml:"globals" toml:"globals"`
	Auth      AuthSettings             `yaml:"auth" toml:"auth"`
	Email     EmailSettings            `yaml:"email" toml:"email"`
	DB        DBSettings               `yaml:"db" toml:"db"`
	Metrics   MetricsSettings          `yaml:"metrics" toml:"metrics"`
	Packaging PackagingLookupSettings  `yaml:"packaging" toml:"packaging"`
	Partners  map[string]PartnerConfig `yaml:"partners" toml:"partners" validate:"dive"`
}

// Globals holds directories and the shared API base URL.
type Globals struct {
	WorkingDir string `yaml:"working_dir" toml:"working_dir"`
	TmpDir     string `yaml:"tmp_dir" toml:"tmp_dir"`
	LogDir     string `yaml:"log_dir" toml:"log_dir"`
	BaseURL    string `yaml:"base_url" toml:"base_url" validate:"omitempty,url"`
}

// AuthSettings configures the client-credentials token exchange.
type AuthSettings struct {
	TokenURL            string         `yaml:"token_url" toml:"token_url" validate:"omitempty,url"`
	ClientID            string         `yaml:"client_id" toml:"client_id" validate:"required_with=TokenURL"`
	ClientSecret        string         `yaml:"client_secret" toml:"client_secret" validate:"required_with=TokenURL"`
	Scope               string         `yaml:"scope" toml:"scope"`
	CacheFile           string         `yaml:"cache_file" toml:"cache_file"`
	ExpiryMarginSeconds int            `yaml:"expiry_margin_seconds" toml:"expiry_margin_seconds" validate:"gte=0"`
	Redis               *RedisSettings `yaml:"redis" toml:"redis"`
}

// RedisSettings points the token cache at a shared Redis instance.
type RedisSettings struct {
	Addr     string `yaml:"addr" toml:"addr" validate:"required"`
	Password string `yaml:"password" toml:"password"`
	DB       int    `yaml:"db" toml:"db"`
	Key      string `yaml:"key" toml:"key"`
}

// EmailSettings configures operator notifications.
type EmailSettings struct {
	Enabled  bool     `yaml:"enabled" toml:"enabled"`
	SMTPHost string   `yaml:"smtp_host" toml:"smtp_host" validate:"required_if=Enabled true"`
	SMTPPort int      `yaml:"smtp_port" toml:"smtp_port"`
	Username string   `yaml:"username" toml:"username"`
	Password string   `yaml:"password" toml:"password"`
	From     string   `yaml:"from" toml:"from" validate:"required_if=Enabled true,omitempty,email"`
	To       []string `yaml:"to" toml:"to" validate:"required_if=Enabled true,omitempty,dive,email"`
}

// DBSettings configures the optional audit database.
type DBSettings struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Driver  string `yaml:"driver" toml:"driver" validate:"required_if=Enabled true,omitempty,oneof=postgres sqlite"`
	DSN     string `yaml:"dsn" toml:"dsn" validate:"required_if=Enabled true"`
}

// MetricsSettings configures pushing run metrics to a Prometheus Pushgateway.
type MetricsSettings struct {
	PushgatewayURL string `yaml:"pushgateway_url" toml:"pushgateway_url" validate:"omitempty,url"`
	Job            string `yaml:"job" toml:"job"`
}

// PackagingLookupSettings locates the material API used to resolve packaging codes.
type PackagingLookupSettings struct {
	URL            string `yaml:"url" toml:"url"`
	Endpoint       string `yaml:"endpoint" toml:"endpoint"`
	TimeoutSeconds int    `yaml:"timeout" toml:"timeout" validate:"gte=0"`
}

// PartnerConfig groups a partner's transport credentials and flows.
type PartnerConfig struct {
	SFTP     *SFTPSettings             `yaml:"sftp" toml:"sftp"`
	S3       *S3Settings               `yaml:"s3" toml:"s3"`
	Inbound  map[string]FlowDefinition `yaml:"inbound" toml:"inbound" validate:"dive"`
	Outbound map[string]FlowDefinition `yaml:"outbound" toml:"outbound" validate:"dive"`
}

// SFTPSettings holds the connection details of a partner's SFTP server.
type SFTPSettings struct {
	Host           string `yaml:"host" toml:"host" validate:"required"`
	Port           int    `yaml:"port" toml:"port"`
	Username       string `yaml:"username" toml:"username" validate:"required"`
	Password       string `yaml:"password" toml:"password"`
	PrivateKeyFile string `yaml:"private_key_file" toml:"private_key_file"`
	KnownHostsFile string `yaml:"known_hosts_file" toml:"known_hosts_file"`
	TimeoutSeconds int    `yaml:"timeout" toml:"timeout"`
}

// S3Settings holds the bucket used as a partner's drop box.
type S3Settings struct {
	Bucket       string `yaml:"bucket" toml:"bucket" validate:"required"`
	Region       string `yaml:"region" toml:"region"`
	Endpoint     string `yaml:"endpoint" toml:"endpoint"`
	AccessKey    string `yaml:"access_key" toml:"access_key"`
	SecretKey    string `yaml:"secret_key" toml:"secret_key"`
	UsePathStyle bool   `yaml:"use_path_style" toml:"use_path_style"`
}

// Flow looks up one flow and stamps it with its partner, direction and name.
func (c *Config) Flow(partner string, direction Direction, name string) (FlowDefinition, error) {
	p, ok := c.Partners[partner]
	if !ok {
		return FlowDefinition{}, fmt.Errorf("%w: partner %q", ErrFlowNotFound, partner)
	}
	flows := p.Inbound
	if direction == DirectionOutbound {
		flows = p.Outbound
	}
	flow, ok := flows[name]
	if !ok {
		return FlowDefinition{}, fmt.Errorf("%w: %s %s.%s", ErrFlowNotFound, direction, partner, name)
	}
	flow.Partner = partner
	flow.Direction = direction
	flow.Name = name
	return flow, nil
}

// Flows lists every configured flow ordered by partner, direction and name.
func (c *Config) Flows() []FlowDefinition {
	var out []FlowDefinition
	for partner, p := range c.Partners {
		for name, f := range p.Inbound {
			f.Partner, f.Direction, f.Name = partner, DirectionInbound, name
			out = append(out, f)
		}
		for name, f := range p.Outbound {
			f.Partner, f.Direction, f.Name = partner, DirectionOutbound, name
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Partner != out[j].Partner {
			return out[i].Partner < out[j].Partner
		}
		if out[i].Direction != out[j].Direction {
			return out[i].Direction < out[j].Direction
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// WorkingDir is the base for relative paths: globals.working_dir, else the config file's directory.
func (c *Config) WorkingDir() string {
	base := filepath.Dir(c.Path)
	if c.Path == "" {
		base = "."
	}
	if c.Globals.WorkingDir == "" {
		return base
	}
	if filepath.IsAbs(c.Globals.WorkingDir) {
		return c.Globals.WorkingDir
	}
	return filepath.Join(base, c.Globals.WorkingDir)
}

// Resolve makes a configured path absolute against the working directory.
func (c *Config) Resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.WorkingDir(), p)
}

// TmpDir is the scratch directory for fetched and split files.
func (c *Config) TmpDir() string {
	if c.Globals.TmpDir == "" {
		return filepath.Join(c.WorkingDir(), "tmp")
	}
	return c.Resolve(c.Globals.TmpDir)
}

// LogDir is where per-run log files are written.
func (c *Config) LogDir() string {
	if c.Globals.LogDir == "" {
		return filepath.Join(c.WorkingDir(), "logs")
	}
	return c.Resolve(c.Globals.LogDir)
}
