package arrays

// Sort sorts arr in place using gnome sort and returns it.
//
// Gnome sort walks forward while adjacent pairs are in order and
// swaps-then-steps-back otherwise. Equal elements are never swapped, so the
// sort is stable; an already-sorted input is a single O(n) pass.
func Sort(arr []int) []int {
	gnome(arr)
	return arr
}

func gnome(arr []int) (swaps int) {
	i := 0
	for i < len(arr) {
		if i == 0 {
			i++
			continue
		}
		if arr[i] >= arr[i-1] {
			i++
		} else {
			arr[i], arr[i-1] = arr[i-1], arr[i]
			i--
			swaps++
		}
	}
	return swaps
}
