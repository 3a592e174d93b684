package migrations

import "embed"

// FS 内嵌的数据库迁移文件，启动时由 goose 执行
//
//go:embed *.sql
var FS embed.FS
