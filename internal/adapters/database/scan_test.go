package database

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakePages serves rows [0, n) honouring offset/limit like the store does
func fakePages(n int, calls *int) pageFetch[int] {
	return func(offset, limit int) ([]int, error) {
		*calls++
		if offset >= n {
			return nil, nil
		}
		end := offset + limit
		if end > n {
			end = n
		}
		page := make([]int, 0, end-offset)
		for i := offset; i < end; i++ {
			page = append(page, i)
		}
		return page, nil
	}
}

func TestFetchAllPages_Empty(t *testing.T) {
	calls := 0
	rows, err := fetchAllPages(1000, fakePages(0, &calls))

	assert.NoError(t, err)
	assert.Empty(t, rows)
	assert.Equal(t, 1, calls)
}

func TestFetchAllPages_ShortFinalPage(t *testing.T) {
	calls := 0
	rows, err := fetchAllPages(1000, fakePages(2500, &calls))

	assert.NoError(t, err)
	assert.Len(t, rows, 2500)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 0, rows[0])
	assert.Equal(t, 2499, rows[2499])
}

// A row count that is an exact multiple of the page size needs one extra
// empty page to detect exhaustion, but still yields every row exactly once.
func TestFetchAllPages_ExactMultipleOfPageSize(t *testing.T) {
	calls := 0
	rows, err := fetchAllPages(1000, fakePages(3000, &calls))

	assert.NoError(t, err)
	assert.Len(t, rows, 3000)
	assert.Equal(t, 4, calls)
}

func TestFetchAllPages_SinglePartialPage(t *testing.T) {
	calls := 0
	rows, err := fetchAllPages(1000, fakePages(7, &calls))

	assert.NoError(t, err)
	assert.Len(t, rows, 7)
	assert.Equal(t, 1, calls)
}

// A failing page surfaces as a partial result: the rows fetched before the
// failure are returned alongside the error, and no retry happens.
func TestFetchAllPages_MidScanFailureReturnsPartial(t *testing.T) {
	calls := 0
	boom := errors.New("connection reset")
	fetch := func(offset, limit int) ([]int, error) {
		calls++
		if offset >= 1000 {
			return nil, boom
		}
		page := make([]int, limit)
		return page, nil
	}

	rows, err := fetchAllPages(1000, fetch)

	assert.ErrorIs(t, err, boom)
	assert.Len(t, rows, 1000)
	assert.Equal(t, 2, calls)
}
