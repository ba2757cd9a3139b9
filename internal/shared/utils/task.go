package utils

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// UnmarshalTask decodes an asynq payload. A malformed payload never succeeds
// on retry, so the error wraps asynq.SkipRetry.
func UnmarshalTask(t *asynq.Task, v interface{}) error {
	if len(t.Payload()) == 0 {
		return nil
	}
	if err := json.Unmarshal(t.Payload(), v); err != nil {
		return fmt.Errorf("%s: %v: %w", t.Type(), err, asynq.SkipRetry)
	}
	return nil
}
