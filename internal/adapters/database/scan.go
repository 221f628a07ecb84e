package database

// pageFetch returns one page of rows starting at offset, at most limit rows.
type pageFetch[T any] func(offset, limit int) ([]T, error)

// fetchAllPages pages through a fact-table scan until exhaustion. The store
// caps every request at pageSize rows and exposes no total count up front,
// so the only termination signals are an empty page or a short page. A
// failed page returns whatever accumulated so far alongside the error; the
// caller decides whether to surface the truncation. No retry is performed.
func fetchAllPages[T any](pageSize int, fetch pageFetch[T]) ([]T, error) {
	var all []T
	for offset := 0; ; offset += pageSize {
		page, err := fetch(offset, pageSize)
		if err != nil {
			return all, err
		}
		if len(page) == 0 {
			break
		}
		all = append(all, page...)
		if len(page) < pageSize {
			break
		}
	}
	return all, nil
}
