package dao

import (
	"strings"

	"gorm.io/gorm"
)

// textExpr 把 JSON 列转成可 LIKE 的文本
func textExpr(db *gorm.DB, column string) string {
	switch db.Dialector.Name() {
	case "postgres":
		return "CAST(" + column + " AS TEXT)"
	case "mysql":
		return "CAST(" + column + " AS CHAR)"
	default:
		return column
	}
}

// likeEscaper 转义 LIKE 通配符, 配合 ESCAPE '!' 使用
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// likePattern 不区分大小写的包含匹配
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(s))) + "%"
}

// decrClamp 计数减 n, 不小于 0
func decrClamp(column string) string {
	return "CASE WHEN " + column + " > ? THEN " + column + " - ? ELSE 0 END"
}
