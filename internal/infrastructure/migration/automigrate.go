package migration

import (
	"github.com/guildkeeper/guildkeeper/internal/infrastructure/persistence/models"
)

// AutoMigrateModels lists every model gorm AutoMigrate should manage.
func AutoMigrateModels() []interface{} {
	return models.All()
}
