package form

// Errors maps a form field name to its validation messages. The empty string
// key holds errors that belong to the form as a whole.
type Errors map[string][]string

// Add appends msg to field's messages.
func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

func (e Errors) Empty() bool {
	return len(e) == 0
}
