package memory_map

import "sort"

// Filter returns the mappings for which keep returns true, in their original order.
// The input slice is never modified.
func Filter(memoryMap []Mapping, keep func(Mapping) bool) []Mapping {
	result := make([]Mapping, 0, len(memoryMap))
	for _, item := range memoryMap {
		if keep(item) {
			result = append(result, item)
		}
	}
	return result
}

// FilterByAddress keeps the mappings that contain addr
func FilterByAddress(memoryMap []Mapping, addr uint64) []Mapping {
	return Filter(memoryMap, func(m Mapping) bool {
		return m.Contains(addr)
	})
}

// FilterByPathSubstring keeps the mappings whose pathname contains needle.
// An empty needle keeps everything. Meant for interactive searches.
func FilterByPathSubstring(memoryMap []Mapping, needle string) []Mapping {
	return Filter(memoryMap, func(m Mapping) bool {
		return m.PathContains(needle)
	})
}

// FilterByPathExact keeps the mappings whose pathname equals name.
// Library reconstruction uses this rather than the substring filter so that
// "libc.so" never pulls in "libcrypto.so".
func FilterByPathExact(memoryMap []Mapping, name string) []Mapping {
	return Filter(memoryMap, func(m Mapping) bool {
		return m.Pathname == name
	})
}

// IndexOf returns the index of the first mapping in listing order that contains addr, or -1
func IndexOf(memoryMap []Mapping, addr uint64) int {
	for i, item := range memoryMap {
		if item.Contains(addr) {
			return i
		}
	}
	return -1
}

// SortByBegin returns a copy of memoryMap sorted by ascending begin address
func SortByBegin(memoryMap []Mapping) []Mapping {
	result := make([]Mapping, len(memoryMap))
	copy(result, memoryMap)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Begin < result[j].Begin
	})
	return result
}
