package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ClassesSentinel is the class selector value meaning "no specific class".
const ClassesSentinel = "Todas as Classes"

type (
	serverConfig struct {
		Address                string
		Host                   string
		DebugHost              string
		ShutdownTimeout        time.Duration
		SessionExpirationDelta time.Duration
		DisableReqLogs         bool
	}

	apiConfig struct {
		BaseURL string
		Timeout time.Duration // 0: no timeout
	}

	cacheConfig struct {
		Version     string
		Manifest    []string
		OfflinePage string
		Backend     string // memory | redis
		RedisAddr   string
	}

	notifyConfig struct {
		SendgridApiKey   string
		DefaultFromEmail string
		To               string
	}

	Config struct {
		AppName      string
		Build        string
		Env          string
		Debug        bool
		TestMode     bool
		SecretKey    string
		RollbarToken string
		LogFile      string
		StaticDir    string
		Classes      []string

		Server serverConfig
		API    apiConfig
		Cache  cacheConfig
		Notify notifyConfig
	}
)

// NewConfig loads the configuration from the environment.
// Variables are prefixed by the upper-cased ENV (DEV by default), eg: DEV_API_BASEURL.
func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("testMode", false)
	conf.SetDefault("appName", "AD Rodovia")
	conf.SetDefault("build", "develop")
	conf.SetDefault("secretKey", "d3v-s3cr3t-k3y-ch4ng3-m3-1n-pr0d")
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("logFile", "")
	conf.SetDefault("staticDir", "static")
	conf.SetDefault("classes", "Adultos,Jovens,Adolescentes,Juniores,Primários,Maternal")

	conf.SetDefault("server.address", ":8000")
	conf.SetDefault("server.host", "localhost")
	conf.SetDefault("server.debugHost", ":4000")
	conf.SetDefault("server.shutdownTimeout", 5*time.Second)
	conf.SetDefault("server.sessionExpirationDelta", 12*time.Hour)
	conf.SetDefault("server.disableReqLogs", false)

	conf.SetDefault("api.baseURL", "https://api-escala.onrender.com")
	conf.SetDefault("api.timeout", time.Duration(0))

	conf.SetDefault("cache.version", "ad-rodovia-v1")
	conf.SetDefault("cache.manifest", "/static/portal.css,/static/painel-secretaria.js,/static/icons/icon-192.png,/offline")
	conf.SetDefault("cache.offlinePage", "/offline")
	conf.SetDefault("cache.backend", "memory")
	conf.SetDefault("cache.redisAddr", "")

	conf.SetDefault("notify.sendgridApiKey", "")
	conf.SetDefault("notify.defaultFromEmail", "AD Rodovia <noreply@localhost>")
	conf.SetDefault("notify.to", "secretaria@localhost")

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	c := &Config{
		AppName:      conf.GetString("appName"),
		Build:        conf.GetString("build"),
		Env:          env,
		Debug:        conf.GetBool("debug"),
		TestMode:     conf.GetBool("testMode"),
		SecretKey:    conf.GetString("secretKey"),
		RollbarToken: conf.GetString("rollbarToken"),
		LogFile:      conf.GetString("logFile"),
		StaticDir:    conf.GetString("staticDir"),
		Classes:      SplitList(conf.GetString("classes")),
	}
	c.Server.Address = conf.GetString("server.address")
	c.Server.Host = conf.GetString("server.host")
	c.Server.DebugHost = conf.GetString("server.debugHost")
	c.Server.ShutdownTimeout = conf.GetDuration("server.shutdownTimeout")
	c.Server.SessionExpirationDelta = conf.GetDuration("server.sessionExpirationDelta")
	c.Server.DisableReqLogs = conf.GetBool("server.disableReqLogs")

	c.API.BaseURL = strings.TrimRight(conf.GetString("api.baseURL"), "/")
	c.API.Timeout = conf.GetDuration("api.timeout")

	c.Cache.Version = conf.GetString("cache.version")
	c.Cache.Manifest = SplitList(conf.GetString("cache.manifest"))
	c.Cache.OfflinePage = conf.GetString("cache.offlinePage")
	c.Cache.Backend = CleanString(conf.GetString("cache.backend"), true /* lower */)
	c.Cache.RedisAddr = conf.GetString("cache.redisAddr")

	c.Notify.SendgridApiKey = conf.GetString("notify.sendgridApiKey")
	c.Notify.DefaultFromEmail = conf.GetString("notify.defaultFromEmail")
	c.Notify.To = conf.GetString("notify.to")
	return c
}

// SplitList splits a comma separated list, dropping blank entries.
// Class names contain spaces, so whitespace is not a separator.
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = CleanString(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
