/*
Copyright 2011-2017 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package msufsort

// Max returns the maximum of 2 values without a branch
func Max(x, y int32) int32 {
	return x - (((x - y) >> 31) & (x - y))
}

// Min returns the minimum of 2 values without a branch
func Min(x, y int32) int32 {
	return y + (((x - y) >> 31) & (x - y))
}

// IsPowerOf2 returns true if the input value is a power of two (and also
// for 0)
func IsPowerOf2(x int32) bool {
	return (x & (x - 1)) == 0
}

// ComputeJobsPerTask computes the number of jobs associated with each task
// given a number of jobs available and a number of tasks to perform.
// The provided 'jobsPerTask' slice is returned as result.
func ComputeJobsPerTask(jobsPerTask []uint, jobs, tasks uint) []uint {
	if tasks == 0 {
		panic("Invalid number of tasks provided: 0")
	}

	if jobs == 0 {
		panic("Invalid number of jobs provided: 0")
	}

	var q, r uint

	if jobs <= tasks {
		q = 1
		r = 0
	} else {
		q = jobs / tasks
		r = jobs - q*tasks
	}

	for i := range jobsPerTask {
		jobsPerTask[i] = q
	}

	n := uint(0)

	for r != 0 {
		jobsPerTask[n]++
		r--
		n++

		if n == tasks {
			n = 0
		}
	}

	return jobsPerTask
}

// clampThreads bounds a requested worker count to [1, n] since spawning more
// goroutines than there are elements to process only adds scheduling
// overhead.
func clampThreads(numThreads int, n int) int {
	if numThreads < 1 {
		numThreads = 1
	}

	if n > 0 && numThreads > n {
		numThreads = n
	}

	return numThreads
}
