package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// 站点语言常量
const (
	LocaleZH = "zh-CN"
	LocaleTW = "zh-TW"
	LocaleEN = "en-US"
)

// ContextKey 请求上下文中的语言键
const ContextKey = "locale"

var catalogs = map[string]map[string]string{
	LocaleZH: catalogZH,
	LocaleTW: catalogTW,
	LocaleEN: catalogEN,
}

// Normalize 将任意语言标记归一化为受支持的站点语言
func Normalize(locale string) string {
	l := strings.ToLower(strings.TrimSpace(locale))
	switch {
	case strings.HasPrefix(l, "zh-tw"), strings.HasPrefix(l, "zh-hk"), strings.HasPrefix(l, "zh-mo"), strings.HasPrefix(l, "zh-hant"):
		return LocaleTW
	case strings.HasPrefix(l, "zh"):
		return LocaleZH
	case strings.HasPrefix(l, "en"):
		return LocaleEN
	default:
		return ""
	}
}

// ResolveLocale 解析请求语言：上下文 > 查询参数 > Accept-Language，默认简体中文
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return LocaleZH
	}
	if v, ok := c.Get(ContextKey); ok {
		if locale, ok := v.(string); ok {
			if normalized := Normalize(locale); normalized != "" {
				return normalized
			}
		}
	}
	if locale := Normalize(c.Query("lang")); locale != "" {
		return locale
	}
	header := c.GetHeader("Accept-Language")
	for _, part := range strings.Split(header, ",") {
		tag := strings.SplitN(strings.TrimSpace(part), ";", 2)[0]
		if locale := Normalize(tag); locale != "" {
			return locale
		}
	}
	return LocaleZH
}

// T 返回指定语言的文案，缺失时回退简体中文，再缺失返回 key 本身
func T(locale, key string) string {
	if catalog, ok := catalogs[locale]; ok {
		if msg, ok := catalog[key]; ok {
			return msg
		}
	}
	if msg, ok := catalogs[LocaleZH][key]; ok {
		return msg
	}
	return key
}

// Sprintf 返回带格式化参数的文案
func Sprintf(locale, key string, args ...interface{}) string {
	format := T(locale, key)
	return fmt.Sprintf(format, args...)
}
