package logger

import (
	"log"

	"github.com/spf13/viper"
)

// Debug prints only if verbose mode is enabled
func Debug(format string, args ...interface{}) {
	if viper.GetBool("verbose") {
		log.Printf("[DEBUG] "+format, args...)
	}
}

// Info always prints
func Info(format string, args ...interface{}) {
	log.Printf(format, args...)
}

func Warn(format string, args ...interface{}) {
	log.Printf("WARN: "+format, args...)
}

func Error(format string, args ...interface{}) {
	log.Printf("ERROR: "+format, args...)
}

// HandleError reports a failure that the caller recovers from. The stack
// trace carried by pkg/errors is only printed in verbose mode.
func HandleError(op string, err error) {
	if err == nil {
		return
	}

	Error("%s: %v", op, err)
	Debug("%s: %+v", op, err)
}
