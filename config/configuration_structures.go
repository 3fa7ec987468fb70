package config

type ServerConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	BasePath string `yaml:"base_path"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// JWTConfig содержит политику выпуска и ротации токенов.
// SecretKey используется только как fallback — рабочие секреты хранятся у приложений (apps)
type JWTConfig struct {
	SecretKey           string `yaml:"secret_key"`
	AccessTokenTTL      string `yaml:"access_token_ttl"`
	RefreshTokenTTL     string `yaml:"refresh_token_ttl"`
	RotationGracePeriod string `yaml:"rotation_grace_period"`
}

// WebhookConfig : адрес для отправки security-алертов
// (обнаружение повторного использования refresh-токена)
type WebhookConfig struct {
	URL     string `yaml:"url"`
	Timeout string `yaml:"timeout"`
}

type PushConfig struct {
	FCMEndpoint string `yaml:"fcm_endpoint"`
	Timeout     string `yaml:"timeout"`
}

type TTL struct {
	AppCache int `yaml:"appCache"`
}
