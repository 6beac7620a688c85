package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"
)

// Version is overridden at build time with -ldflags.
var Version = "latest"

type SystemConfig struct {
	Appid    string `yaml:"appid"`
	Location string `yaml:"location"`
	Workdir  string `yaml:"workdir"`
	Debug    bool   `yaml:"debug"`
}

type WebConfig struct {
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	Secret string `yaml:"secret"`
}

type DBConfig struct {
	Type     string `yaml:"type"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Passwd   string `yaml:"passwd"`
	MaxConn  int    `yaml:"max_conn"`
	IdleConn int    `yaml:"idle_conn"`
	Debug    bool   `yaml:"debug"`
}

// ShopConfig carries the storefront business settings: the WhatsApp number
// that receives checkout orders and the admin panel password.
type ShopConfig struct {
	Name          string `yaml:"name"`
	WhatsappPhone string `yaml:"whatsapp_phone"`
	AdminPassword string `yaml:"admin_password"`
}

type WhatsappConfig struct {
	Enabled   bool   `yaml:"enabled"`
	NotifyJid string `yaml:"notify_jid"`
}

type LoggerConfig struct {
	Mode       string `yaml:"mode"`
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

type AppConfig struct {
	System   SystemConfig   `yaml:"system"`
	Web      WebConfig      `yaml:"web"`
	Database DBConfig       `yaml:"database"`
	Shop     ShopConfig     `yaml:"shop"`
	Whatsapp WhatsappConfig `yaml:"whatsapp"`
	Logger   LoggerConfig   `yaml:"logger"`
}

func (c *AppConfig) InitDirs() {
	_ = os.MkdirAll(filepath.Join(c.System.Workdir, "data"), 0755)
	_ = os.MkdirAll(filepath.Join(c.System.Workdir, "logs"), 0755)
}

var DefaultAppConfig = &AppConfig{
	System: SystemConfig{
		Appid:    "LojaMaosDeFada",
		Location: "America/Fortaleza",
		Workdir:  "/var/loja",
		Debug:    true,
	},
	Web: WebConfig{
		Host:   "0.0.0.0",
		Port:   1816,
		Secret: "9b6de5cc-loja-1816-af52-d965e9f768d5",
	},
	Database: DBConfig{
		Type:     "sqlite",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "loja",
		User:     "postgres",
		Passwd:   "",
		MaxConn:  100,
		IdleConn: 10,
	},
	Shop: ShopConfig{
		Name:          "Mãos de Fada",
		WhatsappPhone: "5586995630268",
		AdminPassword: "maosdefada2026",
	},
	Whatsapp: WhatsappConfig{
		Enabled:   false,
		NotifyJid: "",
	},
	Logger: LoggerConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/loja/logs/loja.log",
	},
}

func setEnvValue(name string, val *string) {
	evalue := os.Getenv(name)
	if evalue != "" {
		*val = evalue
	}
}

func setEnvIntValue(name string, val *int) {
	evalue := os.Getenv(name)
	if evalue != "" {
		*val = cast.ToInt(evalue)
	}
}

func setEnvBoolValue(name string, val *bool) {
	evalue := os.Getenv(name)
	if evalue != "" {
		*val = evalue == "true" || evalue == "1" || evalue == "on"
	}
}

// LoadConfig reads the YAML config file and applies LOJA_* environment
// overrides on top. A missing file yields the defaults.
func LoadConfig(cfile string) *AppConfig {
	cfg := DefaultAppConfig
	if cfile != "" {
		if _, err := os.Stat(cfile); err == nil {
			data, err := os.ReadFile(cfile)
			if err == nil {
				cfg = new(AppConfig)
				if err := yaml.Unmarshal(data, cfg); err != nil {
					panic(err)
				}
			}
		}
	}

	setEnvValue("LOJA_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvBoolValue("LOJA_SYSTEM_DEBUG", &cfg.System.Debug)

	setEnvValue("LOJA_WEB_HOST", &cfg.Web.Host)
	setEnvIntValue("LOJA_WEB_PORT", &cfg.Web.Port)
	setEnvValue("LOJA_WEB_SECRET", &cfg.Web.Secret)

	setEnvValue("LOJA_DB_TYPE", &cfg.Database.Type)
	setEnvValue("LOJA_DB_HOST", &cfg.Database.Host)
	setEnvIntValue("LOJA_DB_PORT", &cfg.Database.Port)
	setEnvValue("LOJA_DB_NAME", &cfg.Database.Name)
	setEnvValue("LOJA_DB_USER", &cfg.Database.User)
	setEnvValue("LOJA_DB_PWD", &cfg.Database.Passwd)

	setEnvValue("LOJA_SHOP_NAME", &cfg.Shop.Name)
	setEnvValue("LOJA_SHOP_WHATSAPP_PHONE", &cfg.Shop.WhatsappPhone)
	setEnvValue("LOJA_SHOP_ADMIN_PASSWORD", &cfg.Shop.AdminPassword)

	setEnvBoolValue("LOJA_WHATSAPP_ENABLED", &cfg.Whatsapp.Enabled)
	setEnvValue("LOJA_WHATSAPP_NOTIFY_JID", &cfg.Whatsapp.NotifyJid)

	setEnvValue("LOJA_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvBoolValue("LOJA_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)
	setEnvValue("LOJA_LOGGER_FILENAME", &cfg.Logger.Filename)

	return cfg
}
