package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Catalog CatalogConfig `yaml:"catalog" mapstructure:"catalog"`
	Process ProcessConfig `yaml:"process" mapstructure:"process"`
	Dedup   DedupConfig   `yaml:"dedup" mapstructure:"dedup"`
	Export  ExportConfig  `yaml:"export" mapstructure:"export"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// CatalogConfig locates the SAT catalog workbook. The workbook is optional:
// a missing or unreadable file means fallback-only resolution, never an
// error.
type CatalogConfig struct {
	Path     string `yaml:"path" mapstructure:"path"`
	Strategy string `yaml:"strategy" mapstructure:"strategy"`
}

// ProcessConfig configures batch processing.
type ProcessConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// DedupConfig configures duplicate collapsing.
type DedupConfig struct {
	// DateFields is the recency precedence list; the first field with any
	// value present decides which duplicate wins.
	DateFields []string `yaml:"date_fields" mapstructure:"date_fields"`
}

// ExportConfig configures the tabular output.
type ExportConfig struct {
	Format      string `yaml:"format" mapstructure:"format"`
	Output      string `yaml:"output" mapstructure:"output"`
	SheetName   string `yaml:"sheet_name" mapstructure:"sheet_name"`
	ColumnsFile string `yaml:"columns_file" mapstructure:"columns_file"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Environment
	v.SetEnvPrefix("NOMINA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("catalog.path", "catNomina.xlsx")
	v.SetDefault("catalog.strategy", "header-scan")
	v.SetDefault("process.concurrency", 4)
	v.SetDefault("dedup.date_fields", []string{})
	v.SetDefault("export.format", "xlsx")
	v.SetDefault("export.output", "base_empleados.xlsx")
	v.SetDefault("export.sheet_name", "Base_Empleados")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
