package logs

import (
	"encoding/json"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

var levels = map[string]int{
	"DEBUG": 0,
	"INFO":  1,
	"WARN":  2,
	"ERROR": 3,
	"FATAL": 4,
}

var (
	mu       sync.RWMutex
	logger   = log.New(os.Stdout, "", 0)
	minLevel = levels["INFO"]
)

// SetLevel задает минимальный уровень; неизвестный уровень игнорируется
func SetLevel(level string) {
	lvl, ok := levels[strings.ToUpper(level)]
	if !ok {
		return
	}
	mu.Lock()
	minLevel = lvl
	mu.Unlock()
}

// SetOutput перенаправляет вывод (для тестов)
func SetOutput(w io.Writer) {
	mu.Lock()
	logger = log.New(w, "", 0)
	mu.Unlock()
}

// LogJSON пишет одну JSON-строку: severity, message, time и дополнительные поля
func LogJSON(level, message string, fields map[string]interface{}) {
	level = strings.ToUpper(level)
	mu.RLock()
	defer mu.RUnlock()
	if lvl, ok := levels[level]; ok && lvl < minLevel {
		return
	}

	logEntry := map[string]interface{}{
		"severity": level, // "DEBUG", "INFO", "WARN", "ERROR" & "FATAL"
		"message":  message,
		"time":     time.Now().Format(time.RFC3339),
	}
	for k, v := range fields {
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		logEntry[k] = v
	}
	jsonLog, _ := json.Marshal(logEntry)
	logger.Println(string(jsonLog))
}

func Debug(message string, fields map[string]interface{}) { LogJSON("DEBUG", message, fields) }
func Info(message string, fields map[string]interface{})  { LogJSON("INFO", message, fields) }
func Warn(message string, fields map[string]interface{})  { LogJSON("WARN", message, fields) }
func Error(message string, fields map[string]interface{}) { LogJSON("ERROR", message, fields) }
