package config

import (
	"fmt"
	"os"
	"strconv"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"

	"github.com/mgpai22/subtext/internal/logging"
	"github.com/mgpai22/subtext/pkg/subtitle"
)

type Config struct {
	// input/output text encoding, IANA or WHATWG name
	Encoding string     `yaml:"encoding" validate:"encoding"`
	SUB      SUBConfig  `yaml:"sub"`
	TTML     TTMLConfig `yaml:"ttml"`
	LRC      LRCConfig  `yaml:"lrc"`
	CSV      CSVConfig  `yaml:"csv"`
}

type SUBConfig struct {
	FrameRate float64 `yaml:"frame_rate" validate:"gt=0"`
}

type TTMLConfig struct {
	FrameRate    float64 `yaml:"frame_rate" validate:"gt=0"`
	SubFrameRate float64 `yaml:"sub_frame_rate" validate:"gt=0"`
	TickRate     float64 `yaml:"tick_rate" validate:"gt=0"`
}

type LRCConfig struct {
	// always write three-digit fractions
	Milliseconds bool `yaml:"milliseconds"`
}

type CSVConfig struct {
	Delimiter      string   `yaml:"delimiter" validate:"len=1"`
	Comment        string   `yaml:"comment" validate:"omitempty,len=1"`
	SkipHeaderRows int      `yaml:"skip_header_rows" validate:"gte=0"`
	LazyQuotes     bool     `yaml:"lazy_quotes"`
	Fields         []string `yaml:"fields" validate:"min=1,dive,csvfield"`
}

func Default() *Config {
	profile := subtitle.DefaultCSVProfile()
	fields := make([]string, len(profile.Fields))
	for i, f := range profile.Fields {
		fields[i] = string(f)
	}

	return &Config{
		Encoding: "utf-8",
		SUB: SUBConfig{
			FrameRate: subtitle.DefaultSUBFrameRate,
		},
		TTML: TTMLConfig{
			FrameRate:    30,
			SubFrameRate: 1,
			TickRate:     1,
		},
		CSV: CSVConfig{
			Delimiter:  string(profile.Delimiter),
			LazyQuotes: profile.LazyQuotes,
			Fields:     fields,
		},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	c := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := c.applyEnv(); err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyEnv() error {
	var err error
	c.Encoding = getEnv("SUBTEXT_ENCODING", c.Encoding)
	if c.SUB.FrameRate, err = getEnvAsFloat("SUBTEXT_FRAME_RATE", c.SUB.FrameRate); err != nil {
		return err
	}
	if c.LRC.Milliseconds, err = getEnvAsBool("SUBTEXT_LRC_MILLISECONDS", c.LRC.Milliseconds); err != nil {
		return err
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("encoding", validateEncoding); err != nil {
		panic(fmt.Sprintf("config: cannot register encoding validation: %v", err))
	}
	if err := v.RegisterValidation("csvfield", validateCSVField); err != nil {
		panic(fmt.Sprintf("config: cannot register csvfield validation: %v", err))
	}
	return v
}

func validateEncoding(fl validator.FieldLevel) bool {
	_, err := subtitle.LookupEncoding(fl.Field().String())
	return err == nil
}

func validateCSVField(fl validator.FieldLevel) bool {
	_, err := subtitle.ParseCSVField(fl.Field().String())
	return err == nil
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := c.CSVProfile().Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// TextEncoding resolves the configured encoding; nil means UTF-8.
func (c *Config) TextEncoding() (subtitle.TextEncoding, error) {
	return subtitle.LookupEncoding(c.Encoding)
}

func (c *Config) CSVProfile() subtitle.CSVProfile {
	p := subtitle.CSVProfile{
		SkipHeaderRows: c.CSV.SkipHeaderRows,
		LazyQuotes:     c.CSV.LazyQuotes,
	}
	p.Delimiter, _ = utf8.DecodeRuneInString(c.CSV.Delimiter)
	if c.CSV.Comment != "" {
		p.Comment, _ = utf8.DecodeRuneInString(c.CSV.Comment)
	}
	for _, name := range c.CSV.Fields {
		if f, err := subtitle.ParseCSVField(name); err == nil {
			p.Fields = append(p.Fields, f)
		}
	}
	return p
}

// Registry returns the default coders reconfigured from c. Skipped CSV rows
// are reported through logger.
func (c *Config) Registry(logger *logging.Logger) *subtitle.Registry {
	if logger == nil {
		logger = logging.Nop()
	}
	r := subtitle.NewDefaultRegistry()

	r.Register(subtitle.NewSUBCoder(c.SUB.FrameRate))
	r.Register(subtitle.TTMLCoder{Timing: subtitle.TimingParams{
		FrameRate:    c.TTML.FrameRate,
		SubFrameRate: c.TTML.SubFrameRate,
		TickRate:     c.TTML.TickRate,
	}})

	lrc := subtitle.LRCCoder{TimeFormat: subtitle.LRCTimeAuto}
	if c.LRC.Milliseconds {
		lrc.TimeFormat = subtitle.LRCTimeMilliseconds
	}
	r.Register(lrc)

	r.Register(subtitle.NewCSVCoder(c.CSVProfile()).WithLogger(logger.SugaredLogger))
	return r
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) (float64, error) {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue, fmt.Errorf("invalid %s %q: %w", key, valueStr, err)
	}
	return value, nil
}

func getEnvAsBool(key string, defaultValue bool) (bool, error) {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue, fmt.Errorf("invalid %s %q: %w", key, valueStr, err)
	}
	return value, nil
}
