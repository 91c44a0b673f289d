// internal/assistant/classify-intent/config.go
package classifyintent

type Config struct {
	Rules []Rule
}

func LoadConfig() *Config {
	return &Config{
		Rules: DefaultRules(),
	}
}
