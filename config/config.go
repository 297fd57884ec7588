package config

import (
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host   string `yaml:"host" json:"host"`
	Port   int    `yaml:"port" json:"port"`
	Secret string `yaml:"secret" json:"secret"`
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

// StorageConfig selects where catalog data lives.
// mode "local" keeps everything in an embedded bbolt file under workdir,
// mode "cloud" uses the postgres database.
type StorageConfig struct {
	Mode string `yaml:"mode" json:"mode"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System   SysConfig     `yaml:"system" json:"system"`
	Web      WebConfig     `yaml:"web" json:"web"`
	Database DBConfig      `yaml:"database" json:"database"`
	Storage  StorageConfig `yaml:"storage" json:"storage"`
	Logger   LogConfig     `yaml:"logger" json:"logger"`
}

func (c *AppConfig) InitDirs() {
	_ = os.MkdirAll(filepath.Join(c.System.Workdir, "logs"), 0755)
	_ = os.MkdirAll(filepath.Join(c.System.Workdir, "data"), 0755)
}

func (c *AppConfig) GetLogDir() string {
	return filepath.Join(c.System.Workdir, "logs")
}

func (c *AppConfig) GetDataDir() string {
	return filepath.Join(c.System.Workdir, "data")
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "baggo",
		Location: "Asia/Jakarta",
		Workdir:  "/var/baggo",
		Debug:    true,
	},
	Web: WebConfig{
		Host:   "0.0.0.0",
		Port:   1816,
		Secret: "9b6de5cc-baggo-0001-a3fd-0f59bb94b8ee",
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "baggo",
		User:     "postgres",
		Passwd:   "",
		MaxConn:  100,
		IdleConn: 10,
	},
	Storage: StorageConfig{
		Mode: "local",
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/baggo/logs/baggo.log",
	},
}

func setEnvValue(name string, f func(v string)) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		f(evalue)
	}
}

func setEnvInt64Value(name string, f func(v int64)) {
	var evalue = os.Getenv(name)
	if evalue == "" {
		return
	}
	p, err := strconv.ParseInt(evalue, 10, 64)
	if err == nil {
		f(p)
	}
}

// LoadConfig loads the YAML config file when present and applies
// BAGGO_* environment overrides on top of it.
func LoadConfig(cfile string) *AppConfig {
	// compatible with old environment variables
	if cfile == "" {
		cfile = "baggo.yml"
	}
	cfg := new(AppConfig)
	if FileExists(cfile) {
		data := Must(os.ReadFile(cfile))
		Must2(yaml.Unmarshal(data, cfg))
	} else {
		// copy, the defaults must stay untouched by env overrides
		*cfg = *DefaultAppConfig
	}

	setEnvValue("BAGGO_SYSTEM_WORKDIR", func(v string) { cfg.System.Workdir = v })
	setEnvValue("BAGGO_SYSTEM_DEBUG", func(v string) { cfg.System.Debug = v == "true" })
	setEnvValue("BAGGO_WEB_HOST", func(v string) { cfg.Web.Host = v })
	setEnvValue("BAGGO_WEB_SECRET", func(v string) { cfg.Web.Secret = v })
	setEnvInt64Value("BAGGO_WEB_PORT", func(v int64) { cfg.Web.Port = int(v) })
	setEnvValue("BAGGO_STORAGE_MODE", func(v string) { cfg.Storage.Mode = v })

	setEnvValue("BAGGO_DB_TYPE", func(v string) { cfg.Database.Type = v })
	setEnvValue("BAGGO_DB_HOST", func(v string) { cfg.Database.Host = v })
	setEnvValue("BAGGO_DB_NAME", func(v string) { cfg.Database.Name = v })
	setEnvValue("BAGGO_DB_USER", func(v string) { cfg.Database.User = v })
	setEnvValue("BAGGO_DB_PWD", func(v string) { cfg.Database.Passwd = v })
	setEnvInt64Value("BAGGO_DB_PORT", func(v int64) { cfg.Database.Port = int(v) })

	setEnvValue("BAGGO_LOGGER_MODE", func(v string) { cfg.Logger.Mode = v })
	setEnvValue("BAGGO_LOGGER_FILE_ENABLE", func(v string) { cfg.Logger.FileEnable = v == "true" })

	cfg.InitDirs()

	return cfg
}

func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func Must(data []byte, err error) []byte {
	if err != nil {
		panic(err)
	}
	return data
}

func Must2(err error) {
	if err != nil {
		panic(err)
	}
}
