package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host      string `yaml:"host" json:"host"`
	Port      int    `yaml:"port" json:"port"`
	Secret    string `yaml:"secret" json:"secret"`
	JwtExpire int    `yaml:"jwt_expire" json:"jwt_expire"` // access token lifetime in minutes
}

type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System   SysConfig `yaml:"system" json:"system"`
	Web      WebConfig `yaml:"web" json:"web"`
	Database DBConfig  `yaml:"database" json:"database"`
	Logger   LogConfig `yaml:"logger" json:"logger"`
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "veloxmart",
		Location: "Asia/Kolkata",
		Workdir:  "/var/veloxmart",
		Debug:    true,
	},
	Web: WebConfig{
		Host:      "0.0.0.0",
		Port:      1816,
		Secret:    "9b6de5cc-veloxmart-0338-4f07-b7b1-10e1d6e848a5",
		JwtExpire: 120,
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "veloxmart",
		User:     "postgres",
		Passwd:   "myroot",
		MaxConn:  100,
		IdleConn: 10,
		Debug:    false,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/veloxmart/veloxmart.log",
	},
}

func setEnvValue(name string, val *string) {
	if evalue := os.Getenv(name); evalue != "" {
		*val = evalue
	}
}

func setEnvIntValue(name string, val *int) {
	if evalue := os.Getenv(name); evalue != "" {
		*val = cast.ToInt(evalue)
	}
}

func setEnvBoolValue(name string, val *bool) {
	if evalue := os.Getenv(name); evalue != "" {
		*val = evalue == "true" || evalue == "1" || evalue == "on"
	}
}

// LoadConfig reads the YAML configuration file and applies environment
// variable overrides. A missing file yields the built-in defaults.
func LoadConfig(cfile string) *AppConfig {
	cfg := DefaultAppConfig
	if cfile != "" {
		if data, err := os.ReadFile(filepath.Clean(cfile)); err == nil {
			cfg = new(AppConfig)
			if err := yaml.Unmarshal(data, cfg); err != nil {
				cfg = DefaultAppConfig
			}
		}
	}

	setEnvValue("VELOXMART_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvBoolValue("VELOXMART_SYSTEM_DEBUG", &cfg.System.Debug)

	setEnvValue("VELOXMART_WEB_HOST", &cfg.Web.Host)
	setEnvValue("VELOXMART_WEB_SECRET", &cfg.Web.Secret)
	setEnvIntValue("VELOXMART_WEB_PORT", &cfg.Web.Port)
	setEnvIntValue("VELOXMART_WEB_JWT_EXPIRE", &cfg.Web.JwtExpire)

	setEnvValue("VELOXMART_DB_TYPE", &cfg.Database.Type)
	setEnvValue("VELOXMART_DB_HOST", &cfg.Database.Host)
	setEnvValue("VELOXMART_DB_NAME", &cfg.Database.Name)
	setEnvValue("VELOXMART_DB_USER", &cfg.Database.User)
	setEnvValue("VELOXMART_DB_PWD", &cfg.Database.Passwd)
	setEnvIntValue("VELOXMART_DB_PORT", &cfg.Database.Port)
	setEnvBoolValue("VELOXMART_DB_DEBUG", &cfg.Database.Debug)

	setEnvValue("VELOXMART_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvValue("VELOXMART_LOGGER_FILENAME", &cfg.Logger.Filename)
	setEnvBoolValue("VELOXMART_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)

	return cfg
}
