package lambda

import (
	"iter"
	"reflect"
	"runtime"
	"sync"
	"unicode/utf8"
)

// Iterator is the value of an iter(x) expression. Each call to [Iterator.Next]
// advances it by one element.
//
// An Iterator is safe for concurrent use, but concurrent callers observe the
// elements in an unspecified interleaving.
type Iterator struct {
	mu   sync.Mutex
	next func() (any, bool)
	stop func()
	done bool
}

// NewIterator returns an Iterator over the elements of seq.
func NewIterator(seq iter.Seq[any]) *Iterator {
	next, stop := iter.Pull(seq)
	it := &Iterator{next: next, stop: stop}

	// Pulled sequences hold a goroutine until they are stopped.
	runtime.AddCleanup(it, func(stop func()) { stop() }, stop)

	return it
}

// Next returns the next element, or false once the iterator is exhausted.
func (it *Iterator) Next() (any, bool) {
	it.mu.Lock()
	defer it.mu.Unlock()

	if it.done {
		return nil, false
	}

	v, ok := it.next()
	if !ok {
		it.done = true
		if it.stop != nil {
			it.stop()
		}
	}

	return v, ok
}

// Stop releases the iterator. Subsequent calls to Next report exhaustion.
func (it *Iterator) Stop() {
	it.mu.Lock()
	defer it.mu.Unlock()

	if !it.done {
		it.done = true
		if it.stop != nil {
			it.stop()
		}
	}
}

// All yields the remaining elements of it.
func (it *Iterator) All() iter.Seq[any] {
	return func(yield func(any) bool) {
		for {
			v, ok := it.Next()
			if !ok || !yield(v) {
				return
			}
		}
	}
}

// indexIterator returns an Iterator over n elements obtained from at,
// without starting a goroutine.
func indexIterator(n int, at func(int) any) *Iterator {
	i := 0

	return &Iterator{next: func() (any, bool) {
		if i >= n {
			return nil, false
		}

		v := at(i)
		i++

		return v, true
	}}
}

// makeIterator returns an Iterator over x.
//
// Strings yield one-rune strings. Slices and arrays yield their elements.
// Maps yield []any{key, value} pairs. Channels, integers, and range-over-func
// functions yield what a for-range statement over them would.
func makeIterator(x any) (*Iterator, error) {
	switch v := x.(type) {
	case *Iterator:
		if v == nil {
			return nil, mismatch(OpIter, x)
		}

		return v, nil
	case iter.Seq[any]:
		return NewIterator(v), nil
	case []any:
		return indexIterator(len(v), func(i int) any { return v[i] }), nil
	case string:
		return stringIterator(v), nil
	case nil:
		return nil, mismatch(OpIter, x)
	}

	rv := indirect(reflect.ValueOf(x))

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return indexIterator(rv.Len(), func(i int) any {
			return rv.Index(i).Interface()
		}), nil
	case reflect.String:
		return stringIterator(rv.String()), nil
	}

	if !rv.IsValid() {
		return nil, mismatch(OpIter, x)
	}

	if t := rv.Type(); t.CanSeq2() && t.Kind() != reflect.Func {
		return NewIterator(pairs(rv.Seq2())), nil
	}

	if rv.Type().CanSeq() {
		return NewIterator(values(rv.Seq())), nil
	}

	if rv.Type().CanSeq2() {
		return NewIterator(pairs(rv.Seq2())), nil
	}

	return nil, mismatch(OpIter, x)
}

func stringIterator(s string) *Iterator {
	i := 0

	return &Iterator{next: func() (any, bool) {
		if i >= len(s) {
			return nil, false
		}

		_, w := utf8.DecodeRuneInString(s[i:])
		r := s[i : i+w]
		i += w

		return r, true
	}}
}

func values(seq iter.Seq[reflect.Value]) iter.Seq[any] {
	return func(yield func(any) bool) {
		for v := range seq {
			if !yield(v.Interface()) {
				return
			}
		}
	}
}

func pairs(seq iter.Seq2[reflect.Value, reflect.Value]) iter.Seq[any] {
	return func(yield func(any) bool) {
		for k, v := range seq {
			if !yield([]any{k.Interface(), v.Interface()}) {
				return
			}
		}
	}
}
