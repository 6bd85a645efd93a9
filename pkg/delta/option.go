package delta

// Option is an explicit present/absent discriminator. The analysis contract
// distinguishes "never computed" from "computed as empty", so payload
// sequences are carried as Options rather than nil-able slices.
type Option[T any] struct {
	value   T
	present bool
}

// Some returns an Option holding v.
func Some[T any](v T) Option[T] {
	return Option[T]{value: v, present: true}
}

// None returns an absent Option.
func None[T any]() Option[T] {
	return Option[T]{}
}

// Present reports whether the Option holds a value.
func (o Option[T]) Present() bool {
	return o.present
}

// Get returns the held value and whether it is present. The value is the
// zero value when absent.
func (o Option[T]) Get() (T, bool) {
	return o.value, o.present
}

// MustGet returns the held value. It panics when the Option is absent;
// callers must check Present first unless absence is a contract defect.
func (o Option[T]) MustGet() T {
	if !o.present {
		panic("delta: Option value is absent")
	}

	return o.value
}
