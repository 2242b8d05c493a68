package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/ports/driven"
)

// DefaultPath is used when no --config flag is given.
const DefaultPath = "config.yaml"

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore is a file-based implementation of driven.ConfigStore.
type ConfigStore struct {
	filePath string
	validate *validator.Validate
}

// NewConfigStore creates a config store for the file at path.
// If path is empty, defaults to ./config.yaml.
func NewConfigStore(path string) *ConfigStore {
	if path == "" {
		path = DefaultPath
	}
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(validatePartner, domain.PartnerConfig{})
	return &ConfigStore{filePath: path, validate: v}
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}

// Load reads, decodes and validates the configuration file.
func (s *ConfigStore) Load() (*domain.Config, error) {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: config file %s does not exist", domain.ErrMissingConfig, s.filePath)
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	data = expandEnv(data)

	cfg := &domain.Config{}
	switch strings.ToLower(filepath.Ext(s.filePath)) {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", domain.ErrInvalidInput, s.filePath, err)
	}

	abs, err := filepath.Abs(s.filePath)
	if err != nil {
		abs = s.filePath
	}
	cfg.Path = abs

	if err := s.validate.Struct(cfg); err != nil {
		return nil, describe(err)
	}
	return cfg, nil
}

var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnv replaces ${NAME} with the environment value; unset names become empty.
// Bare $NAME is left alone so secrets containing '$' survive.
func expandEnv(data []byte) []byte {
	return envRef.ReplaceAllFunc(data, func(m []byte) []byte {
		name := envRef.FindSubmatch(m)[1]
		return []byte(os.Getenv(string(name)))
	})
}

// validatePartner checks what each flow needs from its partner and transfer mode.
func validatePartner(sl validator.StructLevel) {
	p := sl.Current().Interface().(domain.PartnerConfig)
	for name, f := range p.Inbound {
		field := "Inbound[" + name + "]"
		checkTransport(sl, p, f, field)
		if f.SourceDir() == "" {
			sl.ReportError(f, field, field, "source_dir", string(f.Mode()))
		}
	}
	for name, f := range p.Outbound {
		field := "Outbound[" + name + "]"
		checkTransport(sl, p, f, field)
		if f.PayloadFile == "" {
			sl.ReportError(f, field, field, "payload_file", "")
		}
	}
}

func checkTransport(sl validator.StructLevel, p domain.PartnerConfig, f domain.FlowDefinition, field string) {
	switch f.Mode() {
	case domain.TransferSFTP:
		if p.SFTP == nil {
			sl.ReportError(f, field, field, "partner_sftp", "")
		}
	case domain.TransferS3:
		if p.S3 == nil {
			sl.ReportError(f, field, field, "partner_s3", "")
		}
	}
}

// describe flattens validator errors into one ErrMissingConfig.
func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := fmt.Sprintf("%s: %s", fe.Namespace(), fe.Tag())
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		msgs = append(msgs, msg)
	}
	return fmt.Errorf("%w: %s", domain.ErrMissingConfig, strings.Join(msgs, "; "))
}
