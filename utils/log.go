package utils

import (
	"log"
	"strings"
	"unicode"

	"github.com/anoixa/photo-album/config"
)

// LogIfDev 仅在开发环境输出日志
func LogIfDev(v ...interface{}) {
	if config.IsDevelopment() {
		log.Println(v...)
	}
}

// LogIfDevf 仅在开发环境输出格式化日志
func LogIfDevf(format string, v ...interface{}) {
	if config.IsDevelopment() {
		log.Printf(format, v...)
	}
}

// SanitizeLogMessage 去除不可打印字符，防止日志注入
func SanitizeLogMessage(msg string) string {
	var sb strings.Builder
	for _, r := range msg {
		if r == 10 || r == 9 {
			sb.WriteRune(r)
		} else if unicode.IsPrint(r) || unicode.IsGraphic(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// SanitizeLogTitle 截断并清理用户提供的标题后用于日志
func SanitizeLogTitle(title string) string {
	if len([]rune(title)) > 50 {
		title = string([]rune(title)[:50]) + "..."
	}
	return SanitizeLogMessage(title)
}
