// 包 config：集中读取服务配置；优先级为 内置默认值 < YAML 文件 < 环境变量
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultSourceURL：突尼斯工业部开放数据目录中的行政区（delegation）边界数据
const DefaultSourceURL = "http://catalog.industrie.gov.tn/dataset/9910662a-4594-453f-a710-b2f339e0d637/resource/1b7e3eba-b178-4902-83db-ef46f26e98a0/download/delegations.geojson"

// DefaultGovernorates：参与渲染的省（governorate）白名单，大小写敏感
var DefaultGovernorates = []string{
	"Manubah", "Bizerte", "Zaghouan", "Siliana", "Ben Arous",
	"Béja", "Jendouba", "Le Kef", "Ariana",
}

type Config struct {
	Addr            string
	APIBase         string
	SourceURL       string
	RegionKey       string
	Governorates    []string
	Seed            int64
	FetchTimeout    time.Duration
	MaxPayloadBytes int64
	SnapshotTTL     time.Duration
	RedisTTL        time.Duration
	RateLimitQPS    int
	Title           string
}

// fileConfig：YAML 覆盖层；指针字段用于区分“未设置”与零值
type fileConfig struct {
	Addr            *string  `yaml:"addr"`
	APIBase         *string  `yaml:"api_base"`
	SourceURL       *string  `yaml:"source_url"`
	RegionKey       *string  `yaml:"region_key"`
	Governorates    []string `yaml:"governorates"`
	Seed            *int64   `yaml:"seed"`
	FetchTimeoutS   *int     `yaml:"fetch_timeout_s"`
	MaxPayloadBytes *int64   `yaml:"max_payload_bytes"`
	SnapshotTTLS    *int     `yaml:"snapshot_ttl_s"`
	RedisTTLS       *int     `yaml:"redis_ttl_s"`
	RateLimitQPS    *int     `yaml:"rate_limit_qps"`
	Title           *string  `yaml:"title"`
}

func Default() *Config {
	return &Config{
		Addr:            ":8001",
		APIBase:         "/api",
		SourceURL:       DefaultSourceURL,
		RegionKey:       "gov_name_f",
		Governorates:    append([]string(nil), DefaultGovernorates...),
		Seed:            42,
		FetchTimeout:    30 * time.Second,
		MaxPayloadBytes: 64 << 20,
		RedisTTL:        time.Hour,
		Title:           "Map of Production by Governorate - Simulated Data",
	}
}

// LoadDotEnv：加载工作目录与 data/env 下的 .env；文件缺失时静默跳过
func LoadDotEnv() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
}

// Load：构建最终配置
// 约束：AGRIMAP_CONFIG 指向的文件不存在或解析失败时返回错误；环境变量解析失败时保留上一层的值
func Load() (*Config, error) {
	c := Default()
	if p := os.Getenv("AGRIMAP_CONFIG"); p != "" {
		if err := c.applyFile(p); err != nil {
			return nil, err
		}
	}
	c.applyEnv()
	c.APIBase = normalizeBase(c.APIBase)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	if fc.Addr != nil {
		c.Addr = *fc.Addr
	}
	if fc.APIBase != nil {
		c.APIBase = *fc.APIBase
	}
	if fc.SourceURL != nil {
		c.SourceURL = *fc.SourceURL
	}
	if fc.RegionKey != nil {
		c.RegionKey = *fc.RegionKey
	}
	if fc.Governorates != nil {
		c.Governorates = fc.Governorates
	}
	if fc.Seed != nil {
		c.Seed = *fc.Seed
	}
	if fc.FetchTimeoutS != nil && *fc.FetchTimeoutS > 0 {
		c.FetchTimeout = time.Duration(*fc.FetchTimeoutS) * time.Second
	}
	if fc.MaxPayloadBytes != nil && *fc.MaxPayloadBytes > 0 {
		c.MaxPayloadBytes = *fc.MaxPayloadBytes
	}
	if fc.SnapshotTTLS != nil && *fc.SnapshotTTLS >= 0 {
		c.SnapshotTTL = time.Duration(*fc.SnapshotTTLS) * time.Second
	}
	if fc.RedisTTLS != nil && *fc.RedisTTLS > 0 {
		c.RedisTTL = time.Duration(*fc.RedisTTLS) * time.Second
	}
	if fc.RateLimitQPS != nil && *fc.RateLimitQPS >= 0 {
		c.RateLimitQPS = *fc.RateLimitQPS
	}
	if fc.Title != nil {
		c.Title = *fc.Title
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("API_BASE"); v != "" {
		c.APIBase = v
	}
	if v := os.Getenv("GEOJSON_URL"); v != "" {
		c.SourceURL = v
	}
	if v := os.Getenv("GEOJSON_REGION_KEY"); v != "" {
		c.RegionKey = v
	}
	if v := os.Getenv("GOVERNORATES"); v != "" {
		c.Governorates = splitList(v)
	}
	if v := os.Getenv("SYNTH_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = n
		}
	}
	if n, ok := envInt("FETCH_TIMEOUT_S"); ok && n > 0 {
		c.FetchTimeout = time.Duration(n) * time.Second
	}
	if v := os.Getenv("GEOJSON_MAX_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			c.MaxPayloadBytes = n
		}
	}
	if n, ok := envInt("SNAPSHOT_TTL_S"); ok && n >= 0 {
		c.SnapshotTTL = time.Duration(n) * time.Second
	}
	if n, ok := envInt("REDIS_TTL_S"); ok && n > 0 {
		c.RedisTTL = time.Duration(n) * time.Second
	}
	if n, ok := envInt("RATE_LIMIT_QPS"); ok && n >= 0 {
		c.RateLimitQPS = n
	}
}

// Validate：检查必填项；空白名单合法（渲染空地图），但数据源地址与区域字段名不可为空
func (c *Config) Validate() error {
	if strings.TrimSpace(c.SourceURL) == "" {
		return fmt.Errorf("config: source url is empty")
	}
	if strings.TrimSpace(c.RegionKey) == "" {
		return fmt.Errorf("config: region key is empty")
	}
	if !strings.HasPrefix(c.APIBase, "/") {
		return fmt.Errorf("config: api base %q must start with /", c.APIBase)
	}
	if c.APIBase == "/" || strings.HasSuffix(c.APIBase, "/") {
		return fmt.Errorf("config: api base %q must not end with /", c.APIBase)
	}
	return nil
}

// normalizeBase：去掉末尾多余的 /（"/api/" → "/api"），保留单独的 "/" 交给 Validate 拒绝
func normalizeBase(s string) string {
	s = strings.TrimSpace(s)
	for len(s) > 1 && strings.HasSuffix(s, "/") {
		s = strings.TrimSuffix(s, "/")
	}
	return s
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// splitList：逗号分隔；名称内部空格保留（如 "Ben Arous"），仅去掉首尾空白
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
