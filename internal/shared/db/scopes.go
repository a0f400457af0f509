// Package db provides database utilities including transaction management and query scopes.
package db

import (
	"gorm.io/gorm"
)

// ForGuild restricts a query to one guild, the tenancy key of every table.
//
//	db.Model(&models.TicketModel{}).Scopes(db.ForGuild(guildID)).Count(&n)
func ForGuild(guildID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("guild_id = ?", guildID)
	}
}

// CreatedSince keeps rows whose created_at (unix millis) is at or after cutoff.
func CreatedSince(cutoffMillis int64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("created_at >= ?", cutoffMillis)
	}
}

// DateSince keeps rollup rows whose date key is at or after dateKey.
// Date keys are YYYY-MM-DD so lexical order matches calendar order.
func DateSince(dateKey string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("date >= ?", dateKey)
	}
}
