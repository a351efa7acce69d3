package view

// Mode tells whether a form creates or replaces a record
type Mode int

const (
	ModeNew Mode = iota
	ModeExisting
)

func (m Mode) String() string {
	if m == ModeExisting {
		return "existing"
	}
	return "new"
}

// Form is an edit form. Its mode follows from whether it carries an id.
type Form[T any, I any] struct {
	ID    string
	Input I
}

func (f *Form[T, I]) Mode() Mode {
	if f.ID == "" {
		return ModeNew
	}
	return ModeExisting
}
