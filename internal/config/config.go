package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const (
	ModeServer   = "server"
	ModeTerminal = "terminal"
)

// Who opens a terminal round.
const (
	OpenerHuman = "human"
	OpenerX     = "x"
)

type Config struct {
	Mode              string   `yaml:"mode" env:"TTT_MODE" env-default:"server"`
	LogLevel          string   `yaml:"log-level" env:"TTT_LOG_LEVEL" env-default:"info"`
	HTTPPort          string   `yaml:"http-port" env:"TTT_HTTP_PORT" env-default:"9090"`
	SocketPort        string   `yaml:"socket-port" env:"TTT_SOCKET_PORT" env-default:"7070"`
	Redis             Redis    `yaml:"redis"`
	SQLiteStoragePath string   `yaml:"sqlite-storage-path" env:"TTT_SQLITE_PATH" env-default:"results.db"`
	Engine            Engine   `yaml:"engine"`
	Terminal          Terminal `yaml:"terminal"`
}

type Redis struct {
	Host string `yaml:"host" env:"TTT_REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"TTT_REDIS_PORT" env-default:"6379"`
}

type Engine struct {
	DefaultDifficulty string `yaml:"default-difficulty" env-default:"hard"`
}

type Terminal struct {
	// delay before the engine's move is shown
	ThinkDelay time.Duration `yaml:"think-delay" env-default:"1s"`
	// empty means the terminal game does not log
	LogFile string `yaml:"log-file" env-default:""`
	// "human" lets the human move first whatever their mark, "x" always starts with X
	Opener string `yaml:"opener" env:"TTT_TERMINAL_OPENER" env-default:"human"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

// Load reads path and overlays environment variables.
func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if config.Mode != ModeServer && config.Mode != ModeTerminal {
		return nil, fmt.Errorf("unknown mode %q", config.Mode)
	}

	if !entity.ValidDifficulty(config.Engine.DefaultDifficulty) {
		return nil, fmt.Errorf("unknown default difficulty %q", config.Engine.DefaultDifficulty)
	}

	if config.Terminal.Opener != OpenerHuman && config.Terminal.Opener != OpenerX {
		return nil, fmt.Errorf("unknown terminal opener %q", config.Terminal.Opener)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
