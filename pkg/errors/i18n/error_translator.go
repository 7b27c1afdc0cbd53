package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"sync"
)

//go:embed *.json
var i18nFiles embed.FS

var (
	mu       sync.RWMutex
	messages map[string]string
)

func init() {
	_ = Load("en")
}

// Load swaps the active catalog for the given locale (en, tr).
func Load(locale string) error {
	filename := locale + ".json"

	data, err := i18nFiles.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read embedded i18n file %s: %w", filename, err)
	}

	loaded := make(map[string]string)
	if err := json.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("failed to parse i18n file %s: %w", filename, err)
	}

	mu.Lock()
	messages = loaded
	mu.Unlock()
	return nil
}

func Lookup(code string) (string, bool) {
	mu.RLock()
	defer mu.RUnlock()
	msg, ok := messages[code]
	return msg, ok
}

func T(code string) string {
	if msg, ok := Lookup(code); ok {
		return msg
	}
	return code // fallback
}
