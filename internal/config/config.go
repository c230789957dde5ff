package config

// Config is the full configuration surface of the auth worker.
type Config interface {
	EnvConfig
	AmqpConfig
	TokenConfig
}

type mainConfig struct {
	EnvVars
	Amqp
	Token
}

func New() Config {
	return mainConfig{}
}
