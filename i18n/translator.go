package i18n

import (
	"fmt"
	"sync"
)

// Translator renders human-readable messages for validation issue codes.
// data carries the values embedded in the message (for example "field",
// "expected", "got", "value" or "type").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	get := func(k string) string { return data[k] }
	switch t.lang {
	case "ja":
		switch code {
		case "unknown_type":
			return fmt.Sprintf("不明なデータ型です: %s", get("type"))
		case "required":
			return fmt.Sprintf("必須フィールドが不足しています: %s", get("field"))
		case "invalid_type":
			return fmt.Sprintf("フィールド %s の型が不正です: 期待値 %s、実際 %s", get("field"), get("expected"), get("got"))
		case "invalid_enum":
			switch get("field") {
			case "resource_state":
				return fmt.Sprintf("リソース状態が不正です: %s", get("value"))
			case "status":
				return fmt.Sprintf("ステータスが不正です: %s", get("value"))
			}
			return fmt.Sprintf("フィールド %s の値が不正です: %s", get("field"), get("value"))
		}
	default: // "en"
		switch code {
		case "unknown_type":
			return "Unknown data type: " + get("type")
		case "required":
			return "Missing required field: " + get("field")
		case "invalid_type":
			return fmt.Sprintf("Invalid type for field %s: expected %s, got %s", get("field"), get("expected"), get("got"))
		case "invalid_enum":
			switch get("field") {
			case "resource_state":
				return "Invalid resource state: " + get("value")
			case "status":
				return "Invalid status: " + get("value")
			}
			return fmt.Sprintf("Invalid value for field %s: %s", get("field"), get("value"))
		}
	}
	return code
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	mu.Lock()
	currentTranslator = dictTranslator{lang: lang}
	mu.Unlock()
}

// SetTranslator replaces the Translator implementation; nil restores English.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
