package i18n

import (
	"strings"
	"sync/atomic"
)

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message, for example
// "expected", "received", "origin", "minimum" or "values".
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	if t.lang == "ja" {
		return messageJA(code, data)
	}
	return messageEN(code, data)
}

var formatNounsEN = map[string]string{
	"email":            "email address",
	"url":              "URL",
	"uuid":             "UUID",
	"date":             "ISO date",
	"datetime":         "ISO datetime",
	"template_literal": "input",
}

func messageEN(code string, d map[string]string) string {
	switch code {
	case "invalid_type":
		return "Invalid input: expected " + d["expected"] + ", received " + d["received"]
	case "invalid_value":
		if d["multiple"] == "true" {
			return "Invalid option: expected one of " + d["values"]
		}
		return "Invalid input: expected " + d["values"]
	case "too_small":
		return sizeMessageEN("Too small", d["origin"], d["minimum"], cmp(d, ">=", ">"))
	case "too_big":
		return sizeMessageEN("Too big", d["origin"], d["maximum"], cmp(d, "<=", "<"))
	case "invalid_format":
		switch d["format"] {
		case "starts_with":
			return `Invalid string: must start with "` + d["prefix"] + `"`
		case "ends_with":
			return `Invalid string: must end with "` + d["suffix"] + `"`
		case "regex":
			return "Invalid string: must match pattern " + d["pattern"]
		}
		if n, ok := formatNounsEN[d["format"]]; ok {
			return "Invalid " + n
		}
		return "Invalid " + d["format"]
	case "not_multiple_of":
		return "Invalid number: must be a multiple of " + d["divisor"]
	case "parse_error":
		return "Parse error"
	case "custom":
		return "Invalid input"
	}
	return code
}

func sizeMessageEN(prefix, origin, bound, op string) string {
	if origin == "" {
		origin = "value"
	}
	if origin == "string" {
		return prefix + ": expected string to have " + op + bound + " characters"
	}
	return prefix + ": expected " + origin + " to be " + op + bound
}

var formatNounsJA = map[string]string{
	"email":            "メールアドレス",
	"url":              "URL",
	"uuid":             "UUID",
	"date":             "ISO日付",
	"datetime":         "ISO日時",
	"template_literal": "入力値",
}

func messageJA(code string, d map[string]string) string {
	switch code {
	case "invalid_type":
		return "無効な入力: " + d["expected"] + "が期待されましたが、" + d["received"] + "が入力されました"
	case "invalid_value":
		if d["multiple"] == "true" {
			return "無効な選択: " + d["values"] + "のいずれかである必要があります"
		}
		return "無効な入力: " + d["values"] + "が期待されました"
	case "too_small":
		return sizeMessageJA("値が小さすぎます", d["origin"], d["minimum"], cmp(d, "以上", "より大きい"))
	case "too_big":
		return sizeMessageJA("値が大きすぎます", d["origin"], d["maximum"], cmp(d, "以下", "より小さい"))
	case "invalid_format":
		switch d["format"] {
		case "starts_with":
			return `無効な文字列: "` + d["prefix"] + `"で始まる必要があります`
		case "ends_with":
			return `無効な文字列: "` + d["suffix"] + `"で終わる必要があります`
		case "regex":
			return "無効な文字列: パターン" + d["pattern"] + "に一致する必要があります"
		}
		if n, ok := formatNounsJA[d["format"]]; ok {
			return "無効な" + n
		}
		return "無効な" + d["format"]
	case "not_multiple_of":
		return "無効な数値: " + d["divisor"] + "の倍数である必要があります"
	case "parse_error":
		return "解析エラー"
	case "custom":
		return "無効な入力"
	}
	return code
}

func sizeMessageJA(prefix, origin, bound, op string) string {
	if origin == "string" {
		return prefix + ": 文字列は" + bound + "文字" + op + "である必要があります"
	}
	return prefix + ": 値は" + bound + op + "である必要があります"
}

// cmp picks the inclusive or exclusive comparator text.
func cmp(d map[string]string, inclusive, exclusive string) string {
	if strings.EqualFold(d["inclusive"], "false") {
		return exclusive
	}
	return inclusive
}

var current atomic.Value // holds translatorBox

type translatorBox struct{ Translator }

func init() { current.Store(translatorBox{dictTranslator{lang: "en"}}) }

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	current.Store(translatorBox{dictTranslator{lang: lang}})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version). nil restores English.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	current.Store(translatorBox{tr})
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	return current.Load().(translatorBox).Message(code, data)
}
