package hotels

// Optional is a tri-state field used to distinguish:
// - unspecified (omitted)
// - specified as null
// - specified with a value
type Optional[T any] struct {
	specified bool
	isNull    bool
	value     T
}

func Unspecified[T any]() Optional[T] { return Optional[T]{} }
func Null[T any]() Optional[T]        { return Optional[T]{specified: true, isNull: true} }
func Some[T any](v T) Optional[T]     { return Optional[T]{specified: true, value: v} }

func (o Optional[T]) IsSpecified() bool { return o.specified }
func (o Optional[T]) IsNull() bool      { return o.specified && o.isNull }
func (o Optional[T]) Value() T          { return o.value }

type CreateHotelInput struct {
	Name     string
	City     string
	Address  string
	Capacity int
}

// UpdateHotelInput is a partial update. All hotel fields are required at
// rest, so a specified-null is rejected rather than clearing the field.
type UpdateHotelInput struct {
	Name     Optional[string]
	City     Optional[string]
	Address  Optional[string]
	Capacity Optional[int]
}
