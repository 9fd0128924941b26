package configs

import (
	"log"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config struct
type Config struct {
	App      `mapstructure:"app"`
	Postgres `mapstructure:"postgres"`
	LLM      `mapstructure:"llm"`
	Auth     `mapstructure:"auth"`
	Upload   `mapstructure:"upload"`
	Cache    `mapstructure:"cache"`
}

// App struct
type App struct {
	Debug bool   `mapstructure:"debug"`
	Env   string `mapstructure:"env"`
	Port  string `mapstructure:"port"`
}

// Postgres struct
type Postgres struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DbName   string `mapstructure:"database"`
	SSLMode  bool   `mapstructure:"sslmode"`
}

// LLM struct - upstream OpenAI-compatible completion API
type LLM struct {
	BaseURL      string `mapstructure:"base_url"`
	APIKey       string `mapstructure:"api_key"`
	Model        string `mapstructure:"model"`
	Timeout      int    `mapstructure:"timeout"`
	SystemPrompt string `mapstructure:"system_prompt"`
}

// Auth struct
type Auth struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	TokenTTL  int    `mapstructure:"token_ttl"`
}

// Upload struct
type Upload struct {
	Dir string `mapstructure:"dir"`
}

// Cache struct - conversation context cache limits.
// TTL and SweepInterval are seconds; MaxContextLength is characters.
type Cache struct {
	MaxSize          int `mapstructure:"max_size"`
	TTL              int `mapstructure:"ttl"`
	MaxContextLength int `mapstructure:"max_context_length"`
	SweepInterval    int `mapstructure:"sweep_interval"`
}

var config Config

// InitViper func
func InitViper(path, env string) {
	getConfig(path, env)
}

// GetViper func
func GetViper() *Config {
	return &config
}

func getConfig(path, env string) {
	viper.SetConfigName("config")
	viper.AddConfigPath(path)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}
	viper.WatchConfig()
	viper.OnConfigChange(func(e fsnotify.Event) {
		log.Println("Config file has changed: ", e.Name)
	})
	err = viper.Unmarshal(&config)
	if err != nil {
		log.Fatalln(err)
	}
}
