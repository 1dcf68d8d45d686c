package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	LDAP     LDAPConfig     `yaml:"ldap"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
	Mode string `yaml:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite, mysql, postgres
	DSN    string `yaml:"dsn"`
}

type JWTConfig struct {
	Secret              string `yaml:"secret"`
	AccessExpireMinutes int    `yaml:"access_expire_minutes"`
	RefreshExpireDays   int    `yaml:"refresh_expire_days"`
}

type LDAPConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	BaseDN       string `yaml:"base_dn"`
	BindDN       string `yaml:"bind_dn"`
	BindPassword string `yaml:"bind_password"`
	UserFilter   string `yaml:"user_filter"`
	UseSSL       bool   `yaml:"use_ssl"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config.yaml"
	}

	var cfg *Config

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg = DefaultConfig()
	} else {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}

		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, err
		}
		cfg = &fileCfg
	}

	cfg.overrideFromEnv()
	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: "8080",
			Mode: "debug",
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "taskhive.db",
		},
		JWT: JWTConfig{
			Secret:              "taskhive-secret-key-change-in-production",
			AccessExpireMinutes: 15,
			RefreshExpireDays:   7,
		},
		LDAP: LDAPConfig{
			Enabled:    false,
			Port:       389,
			UserFilter: "(uid=%s)",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func (c *Config) overrideFromEnv() {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		c.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		c.Server.Port = port
	}
	if mode := os.Getenv("SERVER_MODE"); mode != "" {
		c.Server.Mode = mode
	}
	if driver := os.Getenv("DB_DRIVER"); driver != "" {
		c.Database.Driver = driver
	}
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		c.Database.DSN = dsn
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		c.JWT.Secret = secret
	}
	if minutes := os.Getenv("JWT_ACCESS_EXPIRE_MINUTES"); minutes != "" {
		if v, err := strconv.Atoi(minutes); err == nil && v > 0 {
			c.JWT.AccessExpireMinutes = v
		}
	}
	if days := os.Getenv("JWT_REFRESH_EXPIRE_DAYS"); days != "" {
		if v, err := strconv.Atoi(days); err == nil && v > 0 {
			c.JWT.RefreshExpireDays = v
		}
	}
	if enabled := os.Getenv("LDAP_ENABLED"); enabled != "" {
		c.LDAP.Enabled = enabled == "true"
	}
	if host := os.Getenv("LDAP_HOST"); host != "" {
		c.LDAP.Host = host
	}
	if port := os.Getenv("LDAP_PORT"); port != "" {
		if v, err := strconv.Atoi(port); err == nil {
			c.LDAP.Port = v
		}
	}
	if baseDN := os.Getenv("LDAP_BASE_DN"); baseDN != "" {
		c.LDAP.BaseDN = baseDN
	}
	if bindDN := os.Getenv("LDAP_BIND_DN"); bindDN != "" {
		c.LDAP.BindDN = bindDN
	}
	if bindPassword := os.Getenv("LDAP_BIND_PASSWORD"); bindPassword != "" {
		c.LDAP.BindPassword = bindPassword
	}
	if filter := os.Getenv("LDAP_USER_FILTER"); filter != "" {
		c.LDAP.UserFilter = filter
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
}
