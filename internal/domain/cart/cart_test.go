package cart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewItemValidation(t *testing.T) {
	_, err := NewItem("", "Algebra Notes", 500, 1, "", KindDigital)
	assert.Error(t, err)

	_, err = NewItem("p-1", "Algebra Notes", 500, 0, "", KindDigital)
	assert.Error(t, err)

	_, err = NewItem("p-1", "Algebra Notes", -1, 1, "", KindDigital)
	assert.Error(t, err)

	item, err := NewItem("p-1", "Algebra Notes", 500, 2, "", KindDigital)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), item.Subtotal())
}

func TestCartTotals(t *testing.T) {
	c := New("user-1")
	assert.True(t, c.IsEmpty())
	assert.Equal(t, int64(0), c.Total())

	notes, err := NewItem("p-1", "Algebra Notes", 500, 2, "", KindDigital)
	require.NoError(t, err)
	workbook, err := NewItem("p-2", "Workbook", 1250, 1, "", KindPhysical)
	require.NoError(t, err)

	c.Items = []Item{notes, workbook}

	assert.False(t, c.IsEmpty())
	assert.Equal(t, int64(2250), c.Total())
	assert.Equal(t, 3, c.ItemCount())

	got, ok := c.Get("p-2")
	require.True(t, ok)
	assert.Equal(t, "Workbook", got.Name)

	_, ok = c.Get("p-missing")
	assert.False(t, ok)
}

func TestLinesReturnsCopy(t *testing.T) {
	c := New("user-1")
	item, err := NewItem("p-1", "Algebra Notes", 500, 1, "", KindDigital)
	require.NoError(t, err)
	c.Items = []Item{item}

	lines := c.Lines()
	lines[0].Quantity = 99

	assert.Equal(t, 1, c.Items[0].Quantity)
}

func TestTakeSnapshot(t *testing.T) {
	c := New("user-1")
	notes, err := NewItem("p-1", "Algebra Notes", 500, 2, "", KindDigital)
	require.NoError(t, err)
	c.Items = []Item{notes}

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	snapshot := TakeSnapshot(c, "USD", at)

	assert.Equal(t, "user-1", snapshot.UserID)
	assert.Equal(t, int64(1000), snapshot.TotalAmount)
	assert.Equal(t, "USD", snapshot.Currency)
	assert.Equal(t, at, snapshot.CapturedAt)
	assert.Equal(t, []string{"p-1"}, snapshot.ProductIDs())
}
