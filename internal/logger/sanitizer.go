package logger

import (
	"regexp"
	"strings"
)

const masked = "***MASKED***"

// センシティブなキーのパターン（大文字小文字を区別しない）
var sensitiveKeyPatterns = []string{
	"password",
	"token",
	"secret",
	"github_token",
	"authorization",
	"credential",
	"access_token",
}

// GitHubトークンのプレフィックス
var tokenPrefixes = []string{"ghp_", "ghs_", "ghu_", "gho_", "github_pat_"}

var sensitiveValuePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^gh[psuo]_[A-Za-z0-9]{36,}$`),
	regexp.MustCompile(`^github_pat_[A-Za-z0-9_]{22,}$`),
	regexp.MustCompile(`(?i)^Bearer\s+[A-Za-z0-9\-_\.]{20,}$`),
	regexp.MustCompile(`(?i)^token\s+[A-Za-z0-9\-_\.]{20,}$`),
}

// SanitizeValue は値がセンシティブかどうかを判定し、必要に応じてマスクする
func SanitizeValue(value interface{}) interface{} {
	if isSensitiveValue(value) {
		return maskValue(value)
	}
	return value
}

// SanitizeArgs はログ引数（key-valueペア）をサニタイズする
func SanitizeArgs(args ...interface{}) []interface{} {
	if len(args) == 0 {
		return args
	}

	sanitized := make([]interface{}, len(args))
	copy(sanitized, args)

	for i := 0; i < len(sanitized)-1; i += 2 {
		key, ok := sanitized[i].(string)
		if !ok {
			continue
		}
		if isSensitiveKey(key) {
			sanitized[i+1] = masked
			continue
		}
		sanitized[i+1] = SanitizeValue(sanitized[i+1])
	}

	return sanitized
}

// isSensitiveKey はキーがセンシティブかどうかを判定する
func isSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)

	for _, pattern := range sensitiveKeyPatterns {
		if lowerKey == pattern ||
			strings.HasPrefix(lowerKey, pattern+"_") ||
			strings.HasSuffix(lowerKey, "_"+pattern) {
			return true
		}
	}

	return false
}

func isSensitiveValue(value interface{}) bool {
	str, ok := value.(string)
	if !ok || str == "" {
		return false
	}

	for _, pattern := range sensitiveValuePatterns {
		if pattern.MatchString(str) {
			return true
		}
	}

	return false
}

// maskValue はセンシティブな値をマスクする（プレフィックスを保持）
func maskValue(value interface{}) string {
	str, ok := value.(string)
	if !ok || str == "" {
		return masked
	}

	for _, prefix := range tokenPrefixes {
		if strings.HasPrefix(str, prefix) {
			return prefix + masked
		}
	}

	lower := strings.ToLower(str)
	if strings.HasPrefix(lower, "bearer ") {
		return str[:len("Bearer ")] + masked
	}
	if strings.HasPrefix(lower, "token ") {
		return str[:len("token ")] + masked
	}

	return masked
}
