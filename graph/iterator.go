package graph

import "context"

// nextLinkKey is the continuation field Graph puts on every page of a
// collection; its absence marks the last page.
//
// Kept as a named constant because the raw key appears in tests and
// diagnostic output.
const nextLinkKey = "@odata.nextLink"

// Page is one page of a Graph collection.
type Page[T any] struct {
	Value    []T    `json:"value"`
	NextLink string `json:"@odata.nextLink"`
}

// fetchFunc fetches the first page of a collection.
type fetchFunc[T any] func(ctx context.Context) (*Page[T], error)

// moreFunc fetches a page from a continuation URL.
type moreFunc[T any] func(ctx context.Context, nextLink string) (*Page[T], error)

// Iterator walks a paginated collection one item at a time, fetching
// continuation pages on demand. Items are yielded strictly in
// server-provided order; the next page is only requested once the current
// page is exhausted.
//
// An Iterator is single-pass and not restartable: once exhausted or
// failed it stays that way, and a fresh traversal needs a fresh ListAll*
// call. It is not safe for concurrent use.
type Iterator[T any] struct {
	first fetchFunc[T]
	more  moreFunc[T]

	started  bool
	finished bool
	items    []T
	idx      int
	nextLink string
	err      error
}

func newIterator[T any](first fetchFunc[T], more moreFunc[T]) *Iterator[T] {
	return &Iterator[T]{first: first, more: more}
}

// Next advances to the next item, fetching the next page when the current
// one is exhausted. It returns false when the collection ends or a page
// fetch fails; check Err to tell the two apart. Items yielded before a
// failure remain valid.
func (it *Iterator[T]) Next(ctx context.Context) bool {
	if it.err != nil || it.finished {
		return false
	}

	for it.idx >= len(it.items) {
		if it.started && it.nextLink == "" {
			it.finished = true
			return false
		}

		var (
			page *Page[T]
			err  error
		)
		if !it.started {
			page, err = it.first(ctx)
			it.started = true
		} else {
			page, err = it.more(ctx, it.nextLink)
		}
		if err != nil {
			it.err = err
			return false
		}

		it.items = page.Value
		it.idx = 0
		it.nextLink = page.NextLink
	}

	it.idx++
	return true
}

// Item returns the item Next advanced to. Only valid after Next returned
// true.
func (it *Iterator[T]) Item() T {
	return it.items[it.idx-1]
}

// Err returns the error that stopped iteration, if any.
func (it *Iterator[T]) Err() error {
	return it.err
}
