package engine

import "sync"

// parallelFor splits [0, n) into at most workers contiguous chunks of at
// least minChunk items and runs fn on each concurrently. fn receives its
// worker index. It returns the number of workers used, which are always
// indices 0..used-1.
func parallelFor(n, workers, minChunk int, fn func(worker, start, end int)) int {
	if minChunk < 1 {
		minChunk = 1
	}
	if n <= minChunk || workers <= 1 {
		fn(0, 0, n)
		return 1
	}

	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers
	used := (n + chunkSize - 1) / chunkSize

	var wg sync.WaitGroup
	wg.Add(used)

	for w := 0; w < used; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}

		go func(w, s, e int) {
			defer wg.Done()
			fn(w, s, e)
		}(w, start, end)
	}

	wg.Wait()
	return used
}
