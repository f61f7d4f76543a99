package config

import "os"

func IsDebug() bool {
	return os.Getenv("GATE_DEBUG") == "1"
}
