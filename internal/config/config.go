package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 全局配置结构
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	MySQL    MySQLConfig    `mapstructure:"mysql"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Log      LogConfig      `mapstructure:"log"`
	Payroll  PayrollConfig  `mapstructure:"payroll"`
	Business BusinessConfig `mapstructure:"business"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type MySQLConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	AutoMigrate  bool   `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type KafkaConfig struct {
	Brokers []string         `mapstructure:"brokers"`
	Topic   KafkaTopicConfig `mapstructure:"topic"`
}

type KafkaTopicConfig struct {
	PayrollResult string `mapstructure:"payroll_result"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// PayrollConfig 薪资计算参数
type PayrollConfig struct {
	WorkingDaysPerMonth string `mapstructure:"working_days_per_month"` // 日薪折算天数，字符串以免浮点误差
	BaseSalaryItem      string `mapstructure:"base_salary_item"`       // 作为日薪基数的工资项名
	BatchConcurrency    int    `mapstructure:"batch_concurrency"`
	LockTTLSeconds      int    `mapstructure:"lock_ttl_seconds"`
}

type BusinessConfig struct {
	MaxRetryCount         int `mapstructure:"max_retry_count"`
	RecalcIntervalSeconds int `mapstructure:"recalc_interval_seconds"`
	RecalcBatchSize       int `mapstructure:"recalc_batch_size"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)

	v.SetDefault("mysql.host", "127.0.0.1")
	v.SetDefault("mysql.port", 3306)
	v.SetDefault("mysql.user", "root")
	v.SetDefault("mysql.password", "")
	v.SetDefault("mysql.database", "salary")
	v.SetDefault("mysql.max_open_conns", 50)
	v.SetDefault("mysql.max_idle_conns", 10)
	v.SetDefault("mysql.auto_migrate", true)

	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("kafka.brokers", []string{"127.0.0.1:9092"})
	v.SetDefault("kafka.topic.payroll_result", "payroll_result")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("payroll.working_days_per_month", "21.75")
	v.SetDefault("payroll.base_salary_item", "BaseSalary")
	v.SetDefault("payroll.batch_concurrency", 4)
	v.SetDefault("payroll.lock_ttl_seconds", 30)

	v.SetDefault("business.max_retry_count", 5)
	v.SetDefault("business.recalc_interval_seconds", 60)
	v.SetDefault("business.recalc_batch_size", 100)
}

// LoadConfig 加载配置文件
//
// 优先级：环境变量 > 配置文件 > 默认值。当前目录下的 .env 会先被加载进环境变量，
// 环境变量名为配置路径大写并把 . 换成 _，如 PAYROLL_BATCH_CONCURRENCY
func LoadConfig(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("读取 .env 失败: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Payroll.BatchConcurrency < 1 {
		return fmt.Errorf("payroll.batch_concurrency 必须大于 0，当前为 %d", c.Payroll.BatchConcurrency)
	}
	if c.Payroll.LockTTLSeconds < 1 {
		return fmt.Errorf("payroll.lock_ttl_seconds 必须大于 0，当前为 %d", c.Payroll.LockTTLSeconds)
	}
	if c.Kafka.Topic.PayrollResult == "" {
		return errors.New("kafka.topic.payroll_result 不能为空")
	}
	return nil
}
