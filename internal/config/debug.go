package config

import "os"

func IsDebug() bool {
	return os.Getenv("DERMFLOW_DEBUG") == "true"
}
