package fetchqueue

import "container/heap"

// jobHeap orders jobs by tier, then by submission time within a tier.
type jobHeap []*Job

var _ heap.Interface = (*jobHeap)(nil)

func (h jobHeap) Len() int { return len(h) }

func (h jobHeap) Less(i, j int) bool {
	if h[i].Tier != h[j].Tier {
		return h[i].Tier < h[j].Tier
	}
	if !h[i].SubmittedAt.Equal(h[j].SubmittedAt) {
		return h[i].SubmittedAt.Before(h[j].SubmittedAt)
	}
	// same instant: reading order
	return h[i].seq < h[j].seq
}

func (h jobHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].heapIndex = i
	h[j].heapIndex = j
}

func (h *jobHeap) Push(x any) {
	job := x.(*Job)
	job.heapIndex = len(*h)
	*h = append(*h, job)
}

func (h *jobHeap) Pop() any {
	old := *h
	n := len(old)
	job := old[n-1]
	old[n-1] = nil
	job.heapIndex = -1
	*h = old[:n-1]
	return job
}

func (h *jobHeap) Fix(i int) {
	heap.Fix(h, i)
}
