// Package config 统一配置管理
//
// 配置加载策略：
//  1. 从 .env 加载敏感信息（JWT 密钥、管理员引导凭据）和 APP_ENV
//  2. 根据 APP_ENV 加载对应的 configs/{env}.yaml 配置文件
//  3. 环境变量可覆盖 YAML 配置
//
// 凭据单一数据源：密码/密钥只存在 .env 中，YAML 不存储任何密码。
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment 环境类型
type Environment string

const (
	EnvProduction  Environment = "prod"
	EnvTest        Environment = "test"
	EnvDevelopment Environment = "dev"
)

// YAMLConfig YAML 配置文件结构
type YAMLConfig struct {
	Server  ServerConfig  `yaml:"server"`
	MongoDB MongoDBConfig `yaml:"mongodb"`
	Redis   RedisConfig   `yaml:"redis"`
	MinIO   MinIOConfig   `yaml:"minio"`
	Upload  UploadConfig  `yaml:"upload"`
	CORS    CORSConfig    `yaml:"cors"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type MongoDBConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type RedisConfig struct {
	// URL 为空表示不使用 Redis（限流计数退回进程内存）
	URL string `yaml:"url"`
}

// MinIOConfig MinIO 对象存储配置
// Endpoint 为空表示上传文件落本地磁盘
type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"-"` // 只从 MINIO_ACCESS_KEY 环境变量读取
	SecretKey string `yaml:"-"` // 只从 MINIO_SECRET_KEY 环境变量读取
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type UploadConfig struct {
	Dir string `yaml:"dir"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Config 应用配置（最终使用的配置）
type Config struct {
	Env            Environment
	APIPort        string
	MongoURI       string
	MongoDatabase  string
	RedisURL       string
	JWTSecret      string
	AdminEmail     string
	AdminPassword  string
	AllowedOrigins []string
	UploadDir      string
	MinIO          MinIOConfig
}

var configPaths = []string{
	"configs",
	"../configs",
	"../../configs",
	"../../../configs",
}

var envPaths = []string{
	".env",
	"../.env",
	"../../.env",
	"../../../.env",
}

// Load 加载配置
// 1. 加载 .env（敏感信息 + APP_ENV）
// 2. 根据 APP_ENV 加载 configs/{env}.yaml
// 3. 环境变量覆盖，构建最终配置
func Load() *Config {
	for _, p := range envPaths {
		if err := godotenv.Load(p); err == nil {
			break
		}
	}

	env := parseEnv(getEnv("APP_ENV", "dev"))
	yamlCfg := loadYAMLConfig(env)

	cfg := &Config{
		Env:            env,
		APIPort:        getEnv("API_PORT", yamlCfg.Server.Port),
		MongoURI:       getEnv("MONGO_URI", yamlCfg.MongoDB.URI),
		MongoDatabase:  getEnv("MONGO_DB", yamlCfg.MongoDB.Database),
		RedisURL:       getEnv("REDIS_URL", yamlCfg.Redis.URL),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		AdminEmail:     getEnv("ADMIN_EMAIL", ""),
		AdminPassword:  getEnv("ADMIN_PASSWORD", ""),
		AllowedOrigins: yamlCfg.CORS.AllowedOrigins,
		UploadDir:      getEnv("UPLOAD_DIR", yamlCfg.Upload.Dir),
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", yamlCfg.MinIO.Endpoint),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", yamlCfg.MinIO.Bucket),
			UseSSL:    yamlCfg.MinIO.UseSSL,
		},
	}

	if origins := getEnv("ALLOWED_ORIGINS", ""); origins != "" {
		cfg.AllowedOrigins = splitAndTrim(origins)
	}

	return cfg
}

// loadYAMLConfig 加载 YAML 配置文件
// 加载顺序：默认值 → common.yaml → {env}.yaml
func loadYAMLConfig(env Environment) *YAMLConfig {
	cfg := &YAMLConfig{
		Server:  ServerConfig{Port: "5000"},
		MongoDB: MongoDBConfig{URI: "mongodb://localhost:27017", Database: "portfolio"},
		Upload:  UploadConfig{Dir: "uploads"},
		CORS:    CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		MinIO:   MinIOConfig{Bucket: "portfolio-uploads"},
	}

	for _, base := range configPaths {
		path := filepath.Join(base, "common.yaml")
		if data, err := os.ReadFile(path); err == nil {
			yaml.Unmarshal(data, cfg)
			break
		}
	}

	filename := fmt.Sprintf("%s.yaml", env)
	for _, base := range configPaths {
		path := filepath.Join(base, filename)
		if data, err := os.ReadFile(path); err == nil {
			yaml.Unmarshal(data, cfg)
			break
		}
	}

	return cfg
}

func parseEnv(env string) Environment {
	switch strings.ToLower(env) {
	case "test":
		return EnvTest
	case "prod", "production":
		return EnvProduction
	default:
		return EnvDevelopment
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// IsProduction 是否为生产环境
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// String 返回配置摘要（隐藏敏感信息）
func (c *Config) String() string {
	return fmt.Sprintf("Config{Env: %s, Port: %s, Mongo: %s/%s, Redis: %s}",
		c.Env, c.APIPort, maskCredentials(c.MongoURI), c.MongoDatabase, maskCredentials(c.RedisURL))
}

// maskCredentials 隐藏连接串中的密码
func maskCredentials(uri string) string {
	if at := strings.LastIndex(uri, "@"); at != -1 {
		if scheme := strings.Index(uri, "://"); scheme != -1 {
			return uri[:scheme+3] + "***" + uri[at:]
		}
	}
	return uri
}
