package config

import "os"

func IsDebug() bool {
	return os.Getenv("PROMPTER_DEBUG") == "1"
}
