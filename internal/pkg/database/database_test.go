package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchema_Embedded(t *testing.T) {
	ddl := Schema()

	for _, table := range []string{"cars", "renters", "rentals", "payments", "fines", "expenses"} {
		assert.Contains(t, ddl, "CREATE TABLE IF NOT EXISTS "+table+" (")
	}

	// Один активный договор на автомобиль гарантируется на уровне БД
	assert.Contains(t, ddl, "ON rentals (car_id) WHERE is_active")

	// Схема применяется при каждом старте
	for _, line := range strings.Split(ddl, "\n") {
		if strings.HasPrefix(line, "CREATE ") {
			assert.Contains(t, line, "IF NOT EXISTS", line)
		}
	}
}
