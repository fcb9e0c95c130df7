package config

type ServerConfig struct {
	Addr              string   `yaml:"addr" mapstructure:"addr"`
	AllowOrigins      []string `yaml:"allowOrigins" mapstructure:"allowOrigins"`
	AllowMethods      []string `yaml:"allowMethods" mapstructure:"allowMethods"`
	AllowHeaders      []string `yaml:"allowHeaders" mapstructure:"allowHeaders"`
	ExposeHeaders     []string `yaml:"exposeHeaders" mapstructure:"exposeHeaders"`
	AllowCredentials  bool     `yaml:"allowCredentials" mapstructure:"allowCredentials"`
	MaxAge            int      `yaml:"maxAge" mapstructure:"maxAge"`                       // 单位: 秒
	ReadHeaderTimeout int      `yaml:"readHeaderTimeout" mapstructure:"readHeaderTimeout"` // 单位: 毫秒
	ShutdownTimeout   int      `yaml:"shutdownTimeout" mapstructure:"shutdownTimeout"`     // 单位: 毫秒
	Pprof             bool     `yaml:"pprof" mapstructure:"pprof"`
	Mode              string   `yaml:"mode" mapstructure:"mode"`
}

func (ServerConfig) Key() string {
	return "server"
}

type APIConfig struct {
	Version string `yaml:"version" mapstructure:"version"`
}

func (APIConfig) Key() string {
	return "api"
}

type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // json | console
}

func (LogConfig) Key() string {
	return "log"
}

type RaidaConfig struct {
	BaseURL      string `yaml:"baseURL" mapstructure:"baseURL"`
	Username     string `yaml:"username" mapstructure:"username"`
	Password     string `yaml:"password" mapstructure:"password"`
	Timeout      int    `yaml:"timeout" mapstructure:"timeout"` // 单位: 毫秒
	Retries      int    `yaml:"retries" mapstructure:"retries"`
	RetryBackoff int    `yaml:"retryBackoff" mapstructure:"retryBackoff"` // 单位: 毫秒
}

func (RaidaConfig) Key() string {
	return "raida"
}

type ConfigsConfig struct {
	BaseURL string `yaml:"baseURL" mapstructure:"baseURL"`
	Timeout int    `yaml:"timeout" mapstructure:"timeout"` // 单位: 毫秒
}

func (ConfigsConfig) Key() string {
	return "configs"
}

type TokenConfig struct {
	TTL       int               `yaml:"ttl" mapstructure:"ttl"`             // 单位: 秒
	OnFailure string            `yaml:"onFailure" mapstructure:"onFailure"` // clear | keep_stale
	Store     string            `yaml:"store" mapstructure:"store"`         // memory | redis
	RedisKey  string            `yaml:"redisKey" mapstructure:"redisKey"`
	Warmup    BaseCronJobConfig `yaml:"warmup" mapstructure:"warmup"`
}

func (TokenConfig) Key() string {
	return "token"
}

type BaseCronJobConfig struct {
	CronExpr string `yaml:"cronExpr" mapstructure:"cronExpr"`
	Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
	Timeout  int    `yaml:"timeout" mapstructure:"timeout"` // 单位: 毫秒
}

type JWTConfig struct {
	PublicKey    string `yaml:"publicKey" mapstructure:"publicKey"`
	Algorithm    string `yaml:"algorithm" mapstructure:"algorithm"`
	CheckSession bool   `yaml:"checkSession" mapstructure:"checkSession"`
}

func (JWTConfig) Key() string {
	return "jwt"
}

type RedisConfig struct {
	Addr     string `yaml:"addr" mapstructure:"addr"`
	Password string `yaml:"password" mapstructure:"password"`
	DB       int    `yaml:"db" mapstructure:"db"`
}

func (RedisConfig) Key() string {
	return "redis"
}

type KafkaConfig struct {
	Enabled bool     `yaml:"enabled" mapstructure:"enabled"`
	Brokers []string `yaml:"brokers" mapstructure:"brokers"`
	Topic   string   `yaml:"topic" mapstructure:"topic"`
}

func (KafkaConfig) Key() string {
	return "kafka"
}

type NormalizerProfileConfig struct {
	DateFormat string `yaml:"date_format" mapstructure:"date_format"`
}

type NormalizerConfig struct {
	Language string                             `yaml:"language" mapstructure:"language"`
	Profiles map[string]NormalizerProfileConfig `yaml:"profiles" mapstructure:"profiles"`
}

func (NormalizerConfig) Key() string {
	return "normalizer"
}
