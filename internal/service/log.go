package service

import (
	"encoding/json"
	"log"
	"time"
)

// logEvent emits one JSON log line, matching the format used by the request
// logger and the migration runner.
func logEvent(level, event string, fields map[string]any) {
	entry := map[string]any{
		"ts":    time.Now().UTC().Format(time.RFC3339Nano),
		"level": level,
		"event": event,
	}
	for k, v := range fields {
		entry[k] = v
	}
	if b, err := json.Marshal(entry); err == nil {
		log.SetFlags(0)
		log.Println(string(b))
	}
}
