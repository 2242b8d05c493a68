package domain

import (
	"fmt"
	"path"
	"strings"
	"time"
)

// Direction is the side of the integration a flow runs on.
type Direction string

// Flow directions.
const (
	// DirectionInbound turns partner flat files into canonical orders.
	DirectionInbound Direction = "inbound"

	// DirectionOutbound turns order API JSON into partner flat files.
	DirectionOutbound Direction = "outbound"
)

// ParseDirection validates a direction given on the command line.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case DirectionInbound, DirectionOutbound:
		return d, nil
	default:
		return "", fmt.Errorf("%w: direction must be inbound or outbound, got %q", ErrUsage, s)
	}
}

// TransferMode selects the channel a flow fetches from and delivers to.
type TransferMode string

// Transfer modes.
const (
	TransferLocal TransferMode = "local"
	TransferSFTP  TransferMode = "sftp"
	TransferS3    TransferMode = "s3"
)

// Well-known destinations for processed inbound files, below the flow's remote root.
const (
	ArchiveDir    = "Incoming/Archives"
	DeadLetterDir = "Incoming/DeadLetter"
)

// Defaults applied when a flow leaves a setting out.
const (
	DefaultAPITimeout    = 30 * time.Second
	DefaultRetryDelay    = time.Second
	DefaultFileExtension = ".dat"
	DatetimePlaceholder  = "{datetime}"
	DatetimeLayout       = "20060102_150405"
)

// FlowDefinition is the immutable per-run configuration of one flow.
// Partner, Direction and Name are filled in from the configuration keys.
type FlowDefinition struct {
	Partner   string    `yaml:"-" toml:"-"`
	Direction Direction `yaml:"-" toml:"-"`
	Name      string    `yaml:"-" toml:"-"`

	Converter         string         `yaml:"converter" toml:"converter" validate:"required"`
	UseSFTP           bool           `yaml:"use_sftp" toml:"use_sftp"`
	Transfer          TransferMode   `yaml:"transfer" toml:"transfer" validate:"omitempty,oneof=local sftp s3"`
	LocalInputDir     string         `yaml:"local_input_dir" toml:"local_input_dir"`
	Remote            RemoteDirs     `yaml:"sftp" toml:"sftp"`
	RemoteRoot        string         `yaml:"remote_root" toml:"remote_root"`
	StartPattern      string         `yaml:"start_pattern" toml:"start_pattern"`
	Split             SplitSettings  `yaml:"split" toml:"split"`
	API               *APISettings   `yaml:"api" toml:"api"`
	OutputJSONDir     string         `yaml:"output_json_dir" toml:"output_json_dir"`
	LocalProcessedDir string         `yaml:"local_processed_dir" toml:"local_processed_dir"`
	LocalOutputDir    string         `yaml:"local_output_dir" toml:"local_output_dir"`
	OutputFileName    string         `yaml:"output_file_name" toml:"output_file_name"`
	FileExtension     string         `yaml:"file_extension" toml:"file_extension"`
	PayloadFile       string         `yaml:"payload_file" toml:"payload_file"`
	Packaging         *PackagingSpec `yaml:"packaging" toml:"packaging"`
}

// RemoteDirs holds the source and destination directories on the remote side.
type RemoteDirs struct {
	InputDir  string `yaml:"remote_input_dir" toml:"remote_input_dir"`
	OutputDir string `yaml:"remote_output_dir" toml:"remote_output_dir"`
}

// SplitSettings enables grouping an inbound file by a fixed-width key field.
type SplitSettings struct {
	Enabled    bool `yaml:"enabled" toml:"enabled"`
	FieldStart int  `yaml:"field_start" toml:"field_start" validate:"required_if=Enabled true,omitempty,min=1"`
	FieldEnd   int  `yaml:"field_end" toml:"field_end" validate:"required_if=Enabled true,omitempty,gtefield=FieldStart"`
}

// APISettings describes the order API call a flow makes.
type APISettings struct {
	URL            string            `yaml:"url" toml:"url"`
	Endpoint       string            `yaml:"endpoint" toml:"endpoint"`
	Method         string            `yaml:"method" toml:"method" validate:"omitempty,oneof=GET POST get post"`
	Headers        map[string]string `yaml:"headers" toml:"headers"`
	TimeoutSeconds int               `yaml:"timeout" toml:"timeout" validate:"gte=0"`
	Retry          RetryPolicy       `yaml:"retry" toml:"retry"`
	RateLimit      float64           `yaml:"rate_limit" toml:"rate_limit" validate:"gte=0"`
}

// RetryPolicy is a fixed-delay retry: MaxAttempts tries, DelaySeconds apart.
type RetryPolicy struct {
	MaxAttempts  int      `yaml:"max_attempts" toml:"max_attempts" validate:"gte=0"`
	DelaySeconds *float64 `yaml:"delay_seconds" toml:"delay_seconds" validate:"omitempty,gte=0"`
}

// PackagingSpec overrides the owner and project used for packaging lookups.
type PackagingSpec struct {
	Owner   string `yaml:"owner" toml:"owner"`
	Project string `yaml:"project" toml:"project"`
}

// Key returns the "partner.flow" identifier used in logs and notifications.
func (f FlowDefinition) Key() string {
	return f.Partner + "." + f.Name
}

// Mode resolves the transfer mode, honouring the legacy use_sftp flag.
func (f FlowDefinition) Mode() TransferMode {
	if f.Transfer != "" {
		return f.Transfer
	}
	if f.UseSFTP {
		return TransferSFTP
	}
	return TransferLocal
}

// SourceDir is where inbound files are fetched from.
func (f FlowDefinition) SourceDir() string {
	if f.Mode() == TransferLocal {
		return f.LocalInputDir
	}
	return f.Remote.InputDir
}

// MatchesStartPattern reports whether a file name passes the case-insensitive prefix filter.
// An empty pattern matches every file.
func (f FlowDefinition) MatchesStartPattern(name string) bool {
	if f.StartPattern == "" {
		return true
	}
	return strings.HasPrefix(strings.ToLower(name), strings.ToLower(f.StartPattern))
}

// DispositionDir returns the archive or dead-letter directory below the remote root.
func (f FlowDefinition) DispositionDir(success bool) string {
	dir := DeadLetterDir
	if success {
		dir = ArchiveDir
	}
	return path.Join("/", f.RemoteRoot, dir)
}

// OutputName builds the delivered file name for an outbound artifact.
// The configured template wins, then the converter's own name, then "<flow>_<datetime><ext>".
func (f FlowDefinition) OutputName(now time.Time, converterName string) string {
	stamp := now.Format(DatetimeLayout)
	if f.OutputFileName != "" {
		return strings.ReplaceAll(f.OutputFileName, DatetimePlaceholder, stamp)
	}
	if converterName != "" {
		return converterName
	}
	ext := f.FileExtension
	if ext == "" {
		ext = DefaultFileExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return f.Name + "_" + stamp + ext
}

// PackagingOwner returns the owner/project pair for packaging lookups, defaulting to the partner.
func (f FlowDefinition) PackagingOwner() (owner, project string) {
	owner, project = f.Partner, f.Partner
	if f.Packaging != nil {
		if f.Packaging.Owner != "" {
			owner = f.Packaging.Owner
		}
		if f.Packaging.Project != "" {
			project = f.Packaging.Project
		}
	}
	return owner, project
}

// ResolveURL returns the configured URL, or the base URL joined with the endpoint.
func (a APISettings) ResolveURL(baseURL string) string {
	if a.URL != "" {
		return a.URL
	}
	if a.Endpoint == "" {
		return ""
	}
	if baseURL == "" {
		return a.Endpoint
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(a.Endpoint, "/")
}

// HTTPMethod returns the upper-cased method, or fallback when none is configured.
func (a APISettings) HTTPMethod(fallback string) string {
	if a.Method == "" {
		return fallback
	}
	return strings.ToUpper(a.Method)
}

// Timeout returns the per-call timeout.
func (a APISettings) Timeout() time.Duration {
	if a.TimeoutSeconds <= 0 {
		return DefaultAPITimeout
	}
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// Attempts returns the total number of tries, never less than one.
func (p RetryPolicy) Attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

// Delay returns the pause between attempts.
func (p RetryPolicy) Delay() time.Duration {
	if p.DelaySeconds == nil {
		return DefaultRetryDelay
	}
	if *p.DelaySeconds <= 0 {
		return 0
	}
	return time.Duration(*p.DelaySeconds * float64(time.Second))
}
