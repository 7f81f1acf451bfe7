package brackets

// SeedOrder returns, left to right, which seed number (1..size) occupies
// each slot of a full bracket of the given size. size must be a power of
// two. Placement follows the standard halving rule: the order starts as
// [1] and at each doubling step every entry s expands into the pair
// [s, 2*len+1-s]. The result guarantees seeds 1 and 2 can only meet in the
// final, seeds 1-4 from the semifinal onward, and so on.
func SeedOrder(size int) []int {
	order := []int{1}
	for len(order) < size {
		doubled := make([]int, 0, len(order)*2)
		for _, s := range order {
			doubled = append(doubled, s, 2*len(order)+1-s)
		}
		order = doubled
	}
	return order
}

// NextPowerOfTwo returns the smallest power of two >= n.
func NextPowerOfTwo(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}
