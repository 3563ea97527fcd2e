package models

// All returns every model in dependency order, for AutoMigrate in tests and sqlite dev setups.
func All() []interface{} {
	return []interface{}{
		&Tenant{},
		&User{},
		&Project{},
		&Task{},
		&AuditLog{},
	}
}
