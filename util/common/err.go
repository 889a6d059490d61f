// Package common holds small helpers shared by the commands and the server.
package common

import (
	"errors"
	"fmt"

	"github.com/mhsanaei/todo-api/logger"
)

func NewErrorf(format string, a ...any) error {
	msg := fmt.Sprintf(format, a...)
	return errors.New(msg)
}

// Recover must be deferred directly: defer common.Recover("job"). It logs a
// panic under msg and returns the recovered value, or nil.
func Recover(msg string) any {
	panicErr := recover()
	if panicErr != nil {
		if msg != "" {
			logger.Error(msg, "panic:", panicErr)
		}
	}
	return panicErr
}
