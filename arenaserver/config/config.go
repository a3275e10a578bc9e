package config

import (
	"strings"
	"time"

	"github.com/codetanks/codetanks/common/utils"
	"github.com/codetanks/codetanks/game/deathmatch"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "CODETANKS"

type AgentConfig struct {
	Resolver string        `mapstructure:"resolver"` // "dns" or "docker"
	Network  string        `mapstructure:"network"`
	Port     int           `mapstructure:"port"`
	Path     string        `mapstructure:"path"`
	Deadline time.Duration `mapstructure:"deadline"`
}

type RecordConfig struct {
	Dir      string `mapstructure:"dir"` // empty: stdout
	Compress bool   `mapstructure:"compress"`
}

type MQConfig struct {
	URL     string        `mapstructure:"url"` // empty: no broker
	Timeout time.Duration `mapstructure:"timeout"`
}

type InfluxConfig struct {
	Addr     string        `mapstructure:"addr"`
	Database string        `mapstructure:"database"`
	Interval time.Duration `mapstructure:"interval"`
}

type HealthCheckConfig struct {
	Addr string `mapstructure:"addr"` // empty: disabled
}

type Config struct {
	Game        string            `mapstructure:"game"`
	LogLevel    string            `mapstructure:"log_level"`
	Agent       AgentConfig       `mapstructure:"agent"`
	Rules       deathmatch.Rules  `mapstructure:"rules"`
	Record      RecordConfig      `mapstructure:"record"`
	MQ          MQConfig          `mapstructure:"mq"`
	Influx      InfluxConfig      `mapstructure:"influx"`
	HealthCheck HealthCheckConfig `mapstructure:"healthcheck"`
}

func setDefaults() {
	viper.SetDefault("game", "")
	viper.SetDefault("log_level", "info")

	viper.SetDefault("agent.resolver", "dns")
	viper.SetDefault("agent.network", "codetanks_default")
	viper.SetDefault("agent.port", 8080)
	viper.SetDefault("agent.path", "/command")
	viper.SetDefault("agent.deadline", "100ms")

	rules := deathmatch.DefaultRules()
	viper.SetDefault("rules.pixels_per_meter", rules.PixelsPerMeter)
	viper.SetDefault("rules.tick_duration", rules.TickDuration.String())
	viper.SetDefault("rules.max_ticks", rules.MaxTicks)
	viper.SetDefault("rules.arena_width", rules.ArenaWidth)
	viper.SetDefault("rules.arena_height", rules.ArenaHeight)
	viper.SetDefault("rules.spawn_spacing", rules.SpawnSpacing)
	viper.SetDefault("rules.tank_radius", rules.TankRadius)
	viper.SetDefault("rules.tank_density", rules.TankDensity)
	viper.SetDefault("rules.max_speed", rules.MaxSpeed)
	viper.SetDefault("rules.max_tank_rotation", rules.MaxTankRotation)
	viper.SetDefault("rules.max_health", rules.MaxHealth)
	viper.SetDefault("rules.max_gun_rotation", rules.MaxGunRotation)
	viper.SetDefault("rules.barrel_length", rules.BarrelLength)
	viper.SetDefault("rules.gun_cooldown", rules.GunCooldown)
	viper.SetDefault("rules.max_radar_rotation", rules.MaxRadarRotation)
	viper.SetDefault("rules.radar_half_width", rules.RadarHalfWidth)
	viper.SetDefault("rules.radar_range", rules.RadarRange)
	viper.SetDefault("rules.bullet_radius", rules.BulletRadius)
	viper.SetDefault("rules.muzzle_speed", rules.MuzzleSpeed)
	viper.SetDefault("rules.bullet_damage", rules.BulletDamage)
	viper.SetDefault("rules.bullet_max_age", rules.BulletMaxAge)

	viper.SetDefault("record.dir", "")
	viper.SetDefault("record.compress", true)

	viper.SetDefault("mq.url", "")
	viper.SetDefault("mq.timeout", "10s")

	viper.SetDefault("influx.addr", "")
	viper.SetDefault("influx.database", "codetanks")
	viper.SetDefault("influx.interval", "5s")

	viper.SetDefault("healthcheck.addr", "")
}

// Load merges, by increasing priority: defaults, the config file (json or
// yaml, optional), CODETANKS_* environment variables and the flags that were
// set on the command line.
func Load(configFile string, flags *pflag.FlagSet) (Config, error) {
	var conf Config

	setDefaults()

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if flags != nil {
		if err := viper.BindPFlags(flags); err != nil {
			return conf, errors.Wrap(err, "could not bind flags")
		}
	}

	if configFile != "" {
		viper.SetConfigFile(utils.ResolvePath(configFile))
		if err := viper.ReadInConfig(); err != nil {
			return conf, errors.Wrap(err, "error reading config file")
		}
	}

	if err := viper.Unmarshal(&conf); err != nil {
		return conf, errors.Wrap(err, "invalid configuration")
	}

	conf.Game = utils.ResolvePath(conf.Game)
	conf.Record.Dir = utils.ResolvePath(conf.Record.Dir)

	if err := conf.Validate(); err != nil {
		return conf, err
	}

	return conf, nil
}

func (c Config) Validate() error {
	if c.Agent.Resolver != "dns" && c.Agent.Resolver != "docker" {
		return errors.Errorf("unknown agent resolver %q (dns or docker)", c.Agent.Resolver)
	}

	if c.Agent.Port <= 0 || c.Agent.Port > 65535 {
		return errors.Errorf("invalid agent port %d", c.Agent.Port)
	}

	if c.Agent.Deadline < 0 {
		return errors.New("agent deadline cannot be negative")
	}

	return c.Rules.Validate()
}
