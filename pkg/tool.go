package pkg

// Contains check source have target
func Contains(slice []string, val string) bool {
	for _, v := range slice {
		if v == val {
			return true
		}
	}
	return false
}

// Abs64 absolute value for int64
func Abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
