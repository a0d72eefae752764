package config

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"github.com/roach88/doctrans/internal/docstring"
	"github.com/roach88/doctrans/internal/emit"
	"github.com/roach88/doctrans/internal/engine"
)

//go:embed schema.cue
var schemaCUE string

// EnvPrefix prefixes every environment override, e.g. DOCTRANS_EMIT_WIDTH.
const EnvPrefix = "DOCTRANS"

// FileName is the config file looked up in the working directory when no
// path is given.
const FileName = "doctrans"

// Config holds all doctrans settings.
type Config struct {
	Parse   ParseConfig `mapstructure:"parse" json:"parse"`
	Emit    EmitConfig  `mapstructure:"emit" json:"emit"`
	Log     LogConfig   `mapstructure:"log" json:"log"`
	Journal string      `mapstructure:"journal" json:"journal"` // SQLite path; "" disables the journal
}

type ParseConfig struct {
	EmitDefaultDoc        bool     `mapstructure:"emit_default_doc" json:"emit_default_doc"`
	InferType             bool     `mapstructure:"infer_type" json:"infer_type"`
	DefaultSearchAnnounce []string `mapstructure:"default_search_announce" json:"default_search_announce"`
}

type EmitConfig struct {
	EmitDefaultDoc bool `mapstructure:"emit_default_doc" json:"emit_default_doc"`
	EmitTypes      bool `mapstructure:"emit_types" json:"emit_types"`
	WordWrap       bool `mapstructure:"word_wrap" json:"word_wrap"`
	Width          int  `mapstructure:"width" json:"width"`
	InlineTypes    bool `mapstructure:"inline_types" json:"inline_types"`
	SkipFormatting bool `mapstructure:"skip_formatting" json:"skip_formatting"`
	LegacyLiterals bool `mapstructure:"legacy_literals" json:"legacy_literals"`
	CarryDefaults  bool `mapstructure:"carry_defaults" json:"carry_defaults"`

	ArgparseDefaultDoc bool `mapstructure:"argparse_default_doc" json:"argparse_default_doc"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" json:"level"`
	Format string `mapstructure:"format" json:"format"`
}

// setDefaults registers every key, which also lets AutomaticEnv see them.
func setDefaults(v *viper.Viper) {
	v.SetDefault("parse.emit_default_doc", false)
	v.SetDefault("parse.infer_type", false)
	v.SetDefault("parse.default_search_announce", []string{})

	v.SetDefault("emit.emit_default_doc", true)
	v.SetDefault("emit.emit_types", true)
	v.SetDefault("emit.word_wrap", false)
	v.SetDefault("emit.width", docstring.DefaultWidth)
	v.SetDefault("emit.inline_types", true)
	v.SetDefault("emit.skip_formatting", false)
	v.SetDefault("emit.legacy_literals", false)
	v.SetDefault("emit.argparse_default_doc", false)
	v.SetDefault("emit.carry_defaults", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("journal", "")
}

// Default returns the configuration used when no file or environment
// override is present.
func Default() *Config {
	cfg, err := decode(newViper())
	if err != nil {
		panic(err)
	}
	return cfg
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshalling config")
	}
	return &cfg, nil
}

// Load reads configuration from path, then the environment. With an empty
// path, doctrans.yaml in the working directory is used when it exists.
// The result is validated; warnings are returned alongside it.
func Load(path string) (*Config, []string, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, nil, errors.WithHint(errors.Wrap(err, "reading config"),
				"check the file passed to --config, or remove it to use the defaults")
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, nil, err
	}
	warnings, err := cfg.Validate()
	if err != nil {
		return nil, nil, err
	}
	return cfg, warnings, nil
}

// Validate checks the configuration against the embedded CUE schema and
// returns soft warnings for settings that are legal but probably unwanted.
func (c *Config) Validate() ([]string, error) {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE).LookupPath(cue.ParsePath("#Config"))
	if err := schema.Err(); err != nil {
		return nil, errors.Wrap(err, "compiling config schema")
	}
	val := schema.Unify(ctx.Encode(c))
	if err := val.Validate(cue.Concrete(true)); err != nil {
		return nil, errors.WithHint(errors.Wrap(err, "invalid config"),
			"log.level is debug|info|warn|error, log.format is text|json, emit.width is 1..1000")
	}

	var warnings []string
	if c.Emit.WordWrap && c.Emit.Width < 40 {
		warnings = append(warnings, fmt.Sprintf("emit.word_wrap is on with emit.width %d; docstrings will wrap very narrowly", c.Emit.Width))
	}
	if c.Emit.CarryDefaults && c.Emit.ArgparseDefaultDoc {
		warnings = append(warnings, "emit.carry_defaults and emit.argparse_default_doc are both on; argparse help repeats each default")
	}
	if c.Parse.EmitDefaultDoc && c.Emit.EmitDefaultDoc {
		warnings = append(warnings, "parse.emit_default_doc and emit.emit_default_doc are both on; default phrases may be repeated")
	}
	return warnings, nil
}

// ParseOptions maps the parse section onto the docstring parser.
func (c *Config) ParseOptions() docstring.ParseOptions {
	return docstring.ParseOptions{
		Dialect:               docstring.DialectAuto,
		EmitDefaultDoc:        c.Parse.EmitDefaultDoc,
		InferType:             c.Parse.InferType,
		DefaultSearchAnnounce: c.Parse.DefaultSearchAnnounce,
	}
}

// FileOptions maps the emit section onto the file writer.
func (c *Config) FileOptions() emit.FileOptions {
	return emit.FileOptions{SkipFormatting: c.Emit.SkipFormatting, LegacyLiterals: c.Emit.LegacyLiterals}
}

// EngineOptions maps the emit section onto the sync engine.
func (c *Config) EngineOptions() engine.EmitOptions {
	return engine.EmitOptions{
		EmitDefaultDoc: c.Emit.EmitDefaultDoc,
		WordWrap:       c.Emit.WordWrap,
		Width:          c.Emit.Width,
		InlineTypes:    c.Emit.InlineTypes,
		CarryDefaults:  c.Emit.CarryDefaults,
		File:           c.FileOptions(),

		ArgparseDefaultDoc: c.Emit.ArgparseDefaultDoc,
	}
}

// DocstringOptions maps the emit section onto the documentation emitter.
func (c *Config) DocstringOptions() docstring.EmitOptions {
	o := docstring.DefaultEmitOptions()
	o.EmitDefaultDoc = c.Emit.EmitDefaultDoc
	o.EmitTypes = c.Emit.EmitTypes
	o.WordWrap = c.Emit.WordWrap
	o.Width = c.Emit.Width
	o.DefaultSearchAnnounce = c.Parse.DefaultSearchAnnounce
	return o
}
