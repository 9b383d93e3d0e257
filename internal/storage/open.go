package storage

import "fmt"

// Open creates a store for driver. Supported drivers: "memory" (default), "sqlite".
// dbPath is only used by sqlite.
func Open(driver, dbPath string) (Storage, error) {
	switch driver {
	case DriverMemory, "":
		return NewMemoryStorage(), nil
	case DriverSQLite:
		if dbPath == "" {
			return nil, fmt.Errorf("sqlite storage requires a database path")
		}
		return NewSQLiteStorage(dbPath)
	default:
		return nil, fmt.Errorf("unknown storage driver: %s (supported: memory, sqlite)", driver)
	}
}
