package log

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
)

type entry struct {
	TS     string         `json:"ts"`
	Level  string         `json:"level"`
	ReqID  string         `json:"req_id,omitempty"`
	Method string         `json:"method,omitempty"`
	Path   string         `json:"path,omitempty"`
	UserID int64          `json:"user_id,omitempty"`
	Action string         `json:"action,omitempty"`
	Err    string         `json:"err,omitempty"`
	Fields map[string]any `json:"fields,omitempty"`
}

func write(level string, userID int64, action string, err error, fields map[string]any) {
	e := entry{TS: time.Now().UTC().Format(time.RFC3339), Level: level, UserID: userID, Action: action, Fields: fields}
	if err != nil {
		e.Err = err.Error()
	}
	b, _ := json.Marshal(e)
	log.Println(string(b))
}

func Info(userID int64, action string, fields map[string]any) { write("info", userID, action, nil, fields) }
func Warn(userID int64, action string, fields map[string]any) { write("warn", userID, action, nil, fields) }
func Error(userID int64, action string, err error, fields map[string]any) {
	write("error", userID, action, err, fields)
}

// HTTPError logs a failure inside a fiber handler with request context attached.
func HTTPError(c *fiber.Ctx, action string, err error, fields map[string]any) {
	e := entry{TS: time.Now().UTC().Format(time.RFC3339), Level: "error", Action: action, Fields: fields}
	if c != nil {
		e.Method = c.Method()
		e.Path = c.Path()
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			e.ReqID = rid
		}
	}
	if err != nil {
		e.Err = err.Error()
	}
	b, _ := json.Marshal(e)
	log.Println(string(b))
}
