package utils

// Ptr returns a pointer to v.
//
//	opts.Temperature = utils.Ptr(0.6)
func Ptr[T any](v T) *T {
	return &v
}
