package service

import "gorm.io/gorm/clause"

// lockForUpdate 行级写锁子句
func lockForUpdate() clause.Locking {
	return clause.Locking{Strength: "UPDATE"}
}
