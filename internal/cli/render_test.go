package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"storeadmin/internal/resource"
)

func TestRenderTable_Products(t *testing.T) {
	var out bytes.Buffer
	renderTable(&out, resource.Products, []resource.Record{
		{"id": "1", "name": "Chair", "amount": float64(4), "price": 19.5, "status": true},
		{"id": "2", "name": "Lamp", "amount": float64(0), "price": float64(7), "status": false},
	})

	got := out.String()
	assert.Contains(t, got, "Chair")
	assert.Contains(t, got, "active")
	assert.Contains(t, got, "cancelled")
	assert.Contains(t, got, "19.5")
	assert.Contains(t, got, "2 products")
}

func TestRenderTable_Empty(t *testing.T) {
	var out bytes.Buffer
	renderTable(&out, resource.Users, nil)
	assert.Contains(t, out.String(), "(no users)")
}

func TestCellValue_UserFallback(t *testing.T) {
	rec := resource.Record{"_id": "o1", "userId": "u42"}
	got := cellValue(rec, resource.Orders.Fields[0])
	assert.Equal(t, "u42", got)
}

func TestCellValue_MissingValue(t *testing.T) {
	rec := resource.Record{"_id": "o1"}
	got := cellValue(rec, resource.Orders.Fields[1])
	assert.Equal(t, "-", got)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "12", formatValue(float64(12)))
	assert.Equal(t, "12.5", formatValue(12.5))
	assert.Equal(t, "abc", formatValue("abc"))
	assert.Equal(t, "true", formatValue(true))
	assert.Equal(t, "-", formatValue(nil))
}
