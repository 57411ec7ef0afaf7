package file

// Calculate the index of the page that contains the given offset. Page
// indexes start at zero.
func PageIndex(offset, pageSize int64) int64 {
	return offset / pageSize
}

// Calculate the offset of the given byte offset within its page.
func PageIntraOffset(offset, pageSize int64) int64 {
	return offset % pageSize
}

// Calculate the offset of the page within the file
func PageOffset(pageIndex, pageSize int64) int64 {
	return pageIndex * pageSize
}

// Calculate the number of pages needed to hold size bytes.
func PageCount(size, pageSize int64) int64 {
	if size <= 0 {
		return 0
	}

	return (size + pageSize - 1) / pageSize
}

// Determine if the offset is the first byte of a page.
func PageAligned(offset, pageSize int64) bool {
	return offset%pageSize == 0
}

// Determine if a page size is usable by the database engine: a power of two
// between 512 and 65536 bytes.
func ValidPageSize(pageSize int64) bool {
	if pageSize < 512 || pageSize > 65536 {
		return false
	}

	return pageSize&(pageSize-1) == 0
}
