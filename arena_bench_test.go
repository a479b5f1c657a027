package pigeonhole

import (
	"strconv"
	"testing"
)

var sizes = []int{
	1 << 10,
	1 << 16,
	// 1 << 20,
}

func BenchmarkInsert(b *testing.B) {
	b.Run("variant=stdMap", func(b *testing.B) {
		b.Run("V=uint64", benchSimulateLoad(benchmarkStdMapInsert[uint64], genValues[uint64]))
		b.Run("V=string", benchSimulateLoad(benchmarkStdMapInsert[string], genValues[string]))
	})

	b.Run("variant=arena", func(b *testing.B) {
		b.Run("V=uint64", benchSimulateLoad(benchmarkArenaInsert[uint64], genValues[uint64]))
		b.Run("V=string", benchSimulateLoad(benchmarkArenaInsert[string], genValues[string]))
	})
}

func BenchmarkGet_Hit(b *testing.B) {
	b.Run("variant=stdMap", func(b *testing.B) {
		b.Run("V=uint64", benchSimulateLoad(benchmarkStdMapGet[uint64], genValues[uint64]))
	})

	b.Run("variant=arena", func(b *testing.B) {
		b.Run("V=uint64", benchSimulateLoad(benchmarkArenaGet[uint64], genValues[uint64]))
	})
}

func BenchmarkChurn(b *testing.B) {
	b.Run("variant=stdMap", func(b *testing.B) {
		b.Run("V=uint64", benchSimulateLoad(benchmarkStdMapChurn[uint64], genValues[uint64]))
	})

	b.Run("variant=arena", func(b *testing.B) {
		b.Run("V=uint64", benchSimulateLoad(benchmarkArenaChurn[uint64], genValues[uint64]))
	})
}

func benchmarkStdMapInsert[V any](b *testing.B, size int, genValues func(start, end int) []V) {
	values := genValues(0, size)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m := make(map[int]V)
		for id, v := range values {
			m[id] = v
		}
	}
}

func benchmarkArenaInsert[V any](b *testing.B, size int, genValues func(start, end int) []V) {
	values := genValues(0, size)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		a := New[V]()
		for _, v := range values {
			a.Insert(v)
		}
	}
}

func benchmarkStdMapGet[V any](b *testing.B, size int, genValues func(start, end int) []V) {
	m := make(map[int]V, size)
	for id, v := range genValues(0, size) {
		m[id] = v
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m[i%size]
	}
}

func benchmarkArenaGet[V any](b *testing.B, size int, genValues func(start, end int) []V) {
	a := New[V]()
	for _, v := range genValues(0, size) {
		a.Insert(v)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = a.Get(i % size)
	}
}

func benchmarkStdMapChurn[V any](b *testing.B, size int, genValues func(start, end int) []V) {
	values := genValues(0, size)
	m := make(map[int]V, size)
	next := 0

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if len(m) >= size {
			delete(m, next-size)
		}

		m[next] = values[i%size]
		next++
	}
}

func benchmarkArenaChurn[V any](b *testing.B, size int, genValues func(start, end int) []V) {
	values := genValues(0, size)
	a := New[V]()
	ids := make([]int, 0, size)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if len(ids) >= size {
			_, _ = a.Remove(ids[i%size])
			ids[i%size] = a.Insert(values[i%size])

			continue
		}

		ids = append(ids, a.Insert(values[i%size]))
	}
}

func genValues[V any](start, end int) []V {
	var v V
	switch any(v).(type) {
	case uint64:
		values := make([]uint64, end-start)
		for i := range values {
			values[i] = uint64(start + i)
		}
		return unsafeConvertSlice[V](values)
	case string:
		values := make([]string, end-start)
		for i := range values {
			values[i] = strconv.Itoa(start + i)
		}
		return unsafeConvertSlice[V](values)
	default:
		panic("not reached")
	}
}

func benchSimulateLoad[V any](
	benchFunc func(b *testing.B, size int, valuesFunc func(start, end int) []V),
	valuesFunc func(start, end int) []V,
) func(b *testing.B) {
	return func(b *testing.B) {
		for _, size := range sizes {
			b.Run("size="+strconv.Itoa(size), func(b *testing.B) {
				benchFunc(b, size, valuesFunc)
			})
		}
	}
}
