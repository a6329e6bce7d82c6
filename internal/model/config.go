package model

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	DataDir string        `yaml:"data_dir" mapstructure:"data_dir" validate:"required"`
	Editor  string        `yaml:"editor" mapstructure:"editor"`
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
	Sync    SyncConfig    `yaml:"sync" mapstructure:"sync"`
}

type StorageConfig struct {
	Driver     string `yaml:"driver" mapstructure:"driver" validate:"required,oneof=sqlite json"`
	SQLiteFile string `yaml:"sqlite_file" mapstructure:"sqlite_file" validate:"required_if=Driver sqlite"`
	JsonFile   string `yaml:"json_file" mapstructure:"json_file" validate:"required_if=Driver json"`
}

type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `yaml:"format" mapstructure:"format" validate:"omitempty,oneof=text json"`
	File   string `yaml:"file" mapstructure:"file"` // relative to DataDir, empty => stderr
}

type SyncConfig struct {
	Enable     bool     `yaml:"enable" mapstructure:"enable"`
	Bucket     string   `yaml:"bucket" mapstructure:"bucket" validate:"required_if=Enable true"`
	Prefix     string   `yaml:"prefix" mapstructure:"prefix"`
	AWSProfile string   `yaml:"aws_profile" mapstructure:"aws_profile"`
	AWSRegion  string   `yaml:"aws_region" mapstructure:"aws_region"`
	Exclude    []string `yaml:"exclude" mapstructure:"exclude"`
}

func DefaultConfig() Config {
	return Config{
		DataDir: "~/.config/todocal/data",
		Editor:  "vim",
		Storage: StorageConfig{
			Driver:     "sqlite",
			SQLiteFile: "todocal.db",
			JsonFile:   "tasks.json",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			File:   "todocal.log",
		},
		Sync: SyncConfig{
			Enable:     false,
			Prefix:     "todocal",
			AWSProfile: "default",
			AWSRegion:  "ap-northeast-1",
			Exclude:    []string{"*.lock", "*.log"},
		},
	}
}

var configValidate = newConfigValidator()

func newConfigValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

var configMessages = map[string]string{
	"required":    "is required",
	"required_if": "is required when %s",
	"oneof":       "must be one of [%s]",
}

// Validate returns a map of dotted yaml keys (e.g. "storage.driver") to
// messages. An empty map means the config is usable.
func (c Config) Validate() map[string]string {
	problems := make(map[string]string)

	err := configValidate.Struct(c)
	if err == nil {
		return problems
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		problems["config"] = err.Error()
		return problems
	}

	for _, fe := range fieldErrs {
		key := strings.TrimPrefix(fe.Namespace(), "Config.")
		msg, ok := configMessages[fe.Tag()]
		if !ok {
			problems[key] = fmt.Sprintf("failed on '%s'", fe.Tag())
			continue
		}
		switch fe.Tag() {
		case "oneof":
			msg = fmt.Sprintf(msg, strings.ReplaceAll(fe.Param(), " ", ", "))
		case "required_if":
			msg = fmt.Sprintf(msg, strings.Replace(fe.Param(), " ", "=", 1))
		}
		problems[key] = msg
	}
	return problems
}

// ValidationSummary flattens Validate into sorted "key: message" lines.
func (c Config) ValidationSummary() []string {
	problems := c.Validate()
	lines := make([]string, 0, len(problems))
	for key, msg := range problems {
		lines = append(lines, key+": "+msg)
	}
	sort.Strings(lines)
	return lines
}
