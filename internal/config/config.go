package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Redis   RedisConfig   `mapstructure:"redis"`
	MinIO   MinIOConfig   `mapstructure:"minio"`
	JWT     JWTConfig     `mapstructure:"jwt"`
	Log     LogConfig     `mapstructure:"log"`
	Pattern PatternConfig `mapstructure:"pattern"`
	Nesting NestingConfig `mapstructure:"nesting"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxUploadMB     int64         `mapstructure:"max_upload_mb"`
}

type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	PoolSize int           `mapstructure:"pool_size"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// PatternConfig 样板提取/分类阈值
// 需要按图纸调参时改这里，不藏在代码里。默认值是现场验证过的经验值。
type PatternConfig struct {
	UnitScale             float64 `mapstructure:"unit_scale"`              // 图纸原生单位(mm) → cm 换算系数
	MinAreaCM2            float64 `mapstructure:"min_area_cm2"`            // 小于该面积的块不算样板
	SymmetryTolerance     float64 `mapstructure:"symmetry_tolerance"`      // 对称判定允许的不重合比例
	EdgeBandRatio         float64 `mapstructure:"edge_band_ratio"`         // 上/下边缘带占高度比例
	EdgeStraightTolerance float64 `mapstructure:"edge_straight_tolerance"` // 直线边Y波动允许比例
	EdgeParallelRatio     float64 `mapstructure:"edge_parallel_ratio"`     // 平行边横向跨度比例下限
	BodyMinWidthCM        float64 `mapstructure:"body_min_width_cm"`
	AccessoryMinWidthCM   float64 `mapstructure:"accessory_min_width_cm"`
	WideMaxHeightCM       float64 `mapstructure:"wide_max_height_cm"`
	FlapMaxCM             float64 `mapstructure:"flap_max_cm"`
}

type NestingConfig struct {
	DefaultSpacingMM float64       `mapstructure:"default_spacing_mm"`
	DefaultTimeLimit time.Duration `mapstructure:"default_time_limit"`
	GridStepMM       float64       `mapstructure:"grid_step_mm"`
}

func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// 配置文件不存在，使用默认值+环境变量
	}

	bindEnvVariables(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8086)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.max_upload_mb", 32)

	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.cache_ttl", "24h")

	v.SetDefault("jwt.issuer", "nimo-yield")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// 样板常量默认值（现场验证过的经验值）
	v.SetDefault("pattern.unit_scale", 0.1)
	v.SetDefault("pattern.min_area_cm2", 30.0)
	v.SetDefault("pattern.symmetry_tolerance", 0.02)
	v.SetDefault("pattern.edge_band_ratio", 0.1)
	v.SetDefault("pattern.edge_straight_tolerance", 0.01)
	v.SetDefault("pattern.edge_parallel_ratio", 0.6)
	v.SetDefault("pattern.body_min_width_cm", 35.0)
	v.SetDefault("pattern.accessory_min_width_cm", 25.0)
	v.SetDefault("pattern.wide_max_height_cm", 15.0)
	v.SetDefault("pattern.flap_max_cm", 25.0)

	v.SetDefault("nesting.default_spacing_mm", 5.0)
	v.SetDefault("nesting.default_time_limit", "20s")
	v.SetDefault("nesting.grid_step_mm", 5.0)
}

func bindEnvVariables(v *viper.Viper) {
	// Server
	v.BindEnv("server.port", "SERVER_PORT")
	v.BindEnv("server.mode", "SERVER_MODE")

	// Redis
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// MinIO
	v.BindEnv("minio.endpoint", "MINIO_ENDPOINT")
	v.BindEnv("minio.access_key", "MINIO_ACCESS_KEY")
	v.BindEnv("minio.secret_key", "MINIO_SECRET_KEY")
	v.BindEnv("minio.bucket", "MINIO_BUCKET")

	// JWT
	v.BindEnv("jwt.secret", "JWT_SECRET")
}
